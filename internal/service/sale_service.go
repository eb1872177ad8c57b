package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

// FiscalJob é um pedido de emissão de NFC-e para uma venda finalizada
type FiscalJob struct {
	TenantID string
	SaleID   string
}

// FiscalQueue recebe pedidos de emissão processados fora da transação da venda
type FiscalQueue interface {
	Enqueue(job FiscalJob) error
}

// FinalizeInput são os dados do fechamento de uma venda
type FinalizeInput struct {
	SaleID              string
	PaymentMethodID     string
	IssueFiscalDocument bool
}

// FinalizeResult é a venda fechada com avisos que não impediram o fechamento
type FinalizeResult struct {
	Sale     *sale.Sale
	Warnings []string
}

// SaleService implementa o ciclo de vida da venda no PDV
type SaleService struct {
	repos         Repositories
	tx            Transactor
	fiscal        FiscalQueue
	allowNegative bool
	metrics       *observability.Metrics
	logger        logger.Logger
}

// NewSaleService cria uma nova instância de SaleService.
// allowNegative define a política de venda acima do estoque disponível.
func NewSaleService(repos Repositories, tx Transactor, fiscal FiscalQueue, allowNegative bool, metrics *observability.Metrics, log logger.Logger) *SaleService {
	return &SaleService{
		repos:         repos,
		tx:            tx,
		fiscal:        fiscal,
		allowNegative: allowNegative,
		metrics:       metrics,
		logger:        log,
	}
}

// StartSale cria um orçamento vinculado ao turno aberto do ator.
// O primeiro cliente cadastrado é usado como cliente padrão.
func (s *SaleService) StartSale(ctx context.Context, actor access.Actor) (*sale.Sale, error) {
	ctx, span := tracer.Start(ctx, "SaleService.StartSale")
	defer span.End()

	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}

	shift, err := s.repos.Shifts.FindOpenByOperator(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, &apperror.PreconditionError{Action: "abrir caixa", Message: "nenhum turno aberto para o operador"}
		}
		return nil, err
	}

	customerID := ""
	if c, err := s.repos.Customers.FindFirst(ctx, actor.TenantID); err == nil {
		customerID = c.ID
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	sl, err := sale.NewSale(actor.TenantID, actor.UserID, shift.ID, customerID, time.Now())
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Sales.Create(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// GetSale busca uma venda da empresa com seus itens
func (s *SaleService) GetSale(ctx context.Context, actor access.Actor, id string) (*sale.Sale, error) {
	if err := authorize(actor, access.OpSaleRead); err != nil {
		return nil, err
	}
	return s.repos.Sales.FindByID(ctx, actor.TenantID, id)
}

// AddItem inclui um produto no orçamento com o preço atual
func (s *SaleService) AddItem(ctx context.Context, actor access.Actor, saleID, productID string, quantity int) (*sale.Sale, error) {
	ctx, span := tracer.Start(ctx, "SaleService.AddItem")
	defer span.End()

	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}
	sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	p, err := s.repos.Products.FindByID(ctx, actor.TenantID, productID)
	if err != nil {
		return nil, err
	}

	item, err := sl.AddItem(p, quantity, time.Now())
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Sales.AddItem(ctx, actor.TenantID, item); err != nil {
		return nil, domainError(err)
	}
	return sl, nil
}

// SetCustomer define o cliente do orçamento
func (s *SaleService) SetCustomer(ctx context.Context, actor access.Actor, saleID, customerID string) (*sale.Sale, error) {
	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}
	sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	if customerID != "" {
		if _, err := s.repos.Customers.FindByID(ctx, actor.TenantID, customerID); err != nil {
			return nil, err
		}
	}
	if err := sl.SetCustomer(customerID); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Sales.UpdateDraft(ctx, sl); err != nil {
		return nil, domainError(err)
	}
	return sl, nil
}

// SetDiscount define o desconto do orçamento (0 <= desconto <= subtotal)
func (s *SaleService) SetDiscount(ctx context.Context, actor access.Actor, saleID string, discount decimal.Decimal) (*sale.Sale, error) {
	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}
	sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sl.SetDiscount(discount); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Sales.UpdateDraft(ctx, sl); err != nil {
		return nil, domainError(err)
	}
	return sl, nil
}

// Finalize fecha a venda numa única transação: transição condicional de
// status, baixa de estoque, última compra do cliente e lançamento de receita.
// A emissão fiscal é enfileirada após o commit e nunca desfaz a venda.
func (s *SaleService) Finalize(ctx context.Context, actor access.Actor, in FinalizeInput) (*FinalizeResult, error) {
	ctx, span := tracer.Start(ctx, "SaleService.Finalize")
	defer span.End()

	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}
	if in.PaymentMethodID == "" {
		return nil, apperror.Invalid("payment_method_id", sale.ErrMissingPayment.Error())
	}

	result := &FinalizeResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		result.Warnings = nil

		sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, in.SaleID)
		if err != nil {
			return err
		}
		if !sl.IsDraft() {
			return domainError(sale.ErrNotDraft)
		}
		if _, err := s.repos.Shifts.LockOpenForSale(ctx, actor.TenantID, sl.ShiftID); err != nil {
			if apperror.IsNotFound(err) {
				return &apperror.PreconditionError{Action: "abrir caixa", Message: "o turno da venda já foi fechado"}
			}
			return err
		}
		method, err := s.repos.PaymentMethods.FindByID(ctx, actor.TenantID, in.PaymentMethodID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := sl.Finalize(method.ID, in.IssueFiscalDocument, now); err != nil {
			return domainError(err)
		}
		if err := s.repos.Sales.MarkFinalized(ctx, sl); err != nil {
			return domainError(err)
		}

		warnings, err := s.decrementStock(ctx, actor.TenantID, sl)
		if err != nil {
			return err
		}
		result.Warnings = warnings

		if sl.CustomerID != "" {
			if err := s.repos.Customers.TouchLastPurchase(ctx, actor.TenantID, sl.CustomerID, now); err != nil {
				return err
			}
		}

		entry, err := ledger.NewSaleRevenue(actor.TenantID, sl.ID, sl.ShortID(), method.Name, sl.Total, now)
		if err != nil {
			return domainError(err)
		}
		if err := s.repos.Ledger.Create(ctx, entry); err != nil {
			return err
		}

		result.Sale = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SaleFinalized()
	s.logger.Info("venda finalizada", "tenant_id", actor.TenantID, "sale_id", result.Sale.ID,
		"total", result.Sale.Total.StringFixed(2), "operator_id", actor.UserID)

	if in.IssueFiscalDocument {
		if err := s.fiscal.Enqueue(FiscalJob{TenantID: actor.TenantID, SaleID: result.Sale.ID}); err != nil {
			warning := fmt.Sprintf("emissão fiscal não enfileirada: %v", err)
			result.Warnings = append(result.Warnings, warning)
			result.Sale.FiscalWarning = warning
			s.logger.Warn("emissão fiscal não enfileirada", "tenant_id", actor.TenantID, "sale_id", result.Sale.ID, "error", err)
			if err := s.repos.Sales.SetFiscalWarning(ctx, actor.TenantID, result.Sale.ID, warning); err != nil {
				s.logger.Error("erro ao registrar aviso fiscal", "sale_id", result.Sale.ID, "error", err)
			}
		}
	}

	return result, nil
}

// decrementStock baixa o estoque de cada produto da venda em ordem de ID,
// mantendo a mesma ordem de bloqueio entre finalizações concorrentes
func (s *SaleService) decrementStock(ctx context.Context, tenantID string, sl *sale.Sale) ([]string, error) {
	quantities := sl.QuantitiesByProduct()
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []string
	for _, id := range ids {
		p, err := s.repos.Products.FindByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		stock, err := s.repos.Products.DecrementStock(ctx, tenantID, id, quantities[id], s.allowNegative)
		if err != nil {
			if errors.Is(err, catalog.ErrInsufficientStock) {
				return nil, &apperror.PreconditionError{
					Action:  "ajustar estoque",
					Message: fmt.Sprintf("estoque insuficiente para %s: disponível %d, solicitado %d", p.Name, p.Stock, quantities[id]),
				}
			}
			return nil, err
		}

		switch {
		case stock < 0:
			warnings = append(warnings, fmt.Sprintf("estoque negativo: %s (%d)", p.Name, stock))
		case stock <= p.MinStock:
			warnings = append(warnings, fmt.Sprintf("estoque baixo: %s (%d)", p.Name, stock))
		}
	}
	return warnings, nil
}

// Cancel cancela um orçamento
func (s *SaleService) Cancel(ctx context.Context, actor access.Actor, saleID string) (*sale.Sale, error) {
	if err := authorize(actor, access.OpSaleWrite); err != nil {
		return nil, err
	}
	sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, saleID)
	if err != nil {
		return nil, err
	}
	if err := sl.Cancel(time.Now()); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Sales.MarkCancelled(ctx, sl); err != nil {
		return nil, domainError(err)
	}
	return sl, nil
}

// Summary monta o resumo da venda usado na impressão do recibo
func (s *SaleService) Summary(ctx context.Context, actor access.Actor, saleID string) (*sale.Summary, error) {
	if err := authorize(actor, access.OpSaleRead); err != nil {
		return nil, err
	}
	sl, err := s.repos.Sales.FindByID(ctx, actor.TenantID, saleID)
	if err != nil {
		return nil, err
	}

	t, err := s.repos.Tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	names := sale.SummaryNames{StoreName: t.TradeName, ReceiptMessage: t.ReceiptMessage}

	if operator, err := s.repos.Users.FindByID(ctx, sl.OperatorID); err == nil {
		names.OperatorName = operator.Name
	}
	if sl.CustomerID != "" {
		if c, err := s.repos.Customers.FindByID(ctx, actor.TenantID, sl.CustomerID); err == nil {
			names.CustomerName = c.Name
		}
	}
	if sl.PaymentMethodID != "" {
		if m, err := s.repos.PaymentMethods.FindByID(ctx, actor.TenantID, sl.PaymentMethodID); err == nil {
			names.PaymentMethod = m.Name
		}
	}

	summary := sl.Summarize(names)
	return &summary, nil
}
