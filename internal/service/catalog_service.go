package service

import (
	"context"
	"errors"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

// AdjustmentInput descreve um ajuste manual de estoque
type AdjustmentInput struct {
	ProductID string
	Quantity  int
	Reason    catalog.AdjustmentReason
	Notes     string
}

// CatalogService administra produtos, estoque e cadastros de apoio
type CatalogService struct {
	repos  Repositories
	tx     Transactor
	logger logger.Logger
}

// NewCatalogService cria uma nova instância de CatalogService
func NewCatalogService(repos Repositories, tx Transactor, log logger.Logger) *CatalogService {
	return &CatalogService{repos: repos, tx: tx, logger: log}
}

// CreateProduct cadastra um produto com estoque inicial
func (s *CatalogService) CreateProduct(ctx context.Context, actor access.Actor, data catalog.ProductData, initialStock int) (*catalog.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := authorize(actor, access.OpCatalogWrite); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, actor.TenantID, data); err != nil {
		return nil, err
	}

	p, err := catalog.NewProduct(actor.TenantID, data, initialStock)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct busca um produto da empresa
func (s *CatalogService) GetProduct(ctx context.Context, actor access.Actor, id string) (*catalog.Product, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.repos.Products.FindByID(ctx, actor.TenantID, id)
}

// ListProducts lista os produtos da empresa
func (s *CatalogService) ListProducts(ctx context.Context, actor access.Actor, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.repos.Products.List(ctx, actor.TenantID, filter)
}

// LowStock lista os produtos ativos com estoque no mínimo ou abaixo
func (s *CatalogService) LowStock(ctx context.Context, actor access.Actor) ([]*catalog.Product, error) {
	return s.ListProducts(ctx, actor, catalog.ProductFilter{OnlyActive: true, LowStock: true})
}

// UpdateProduct atualiza os dados cadastrais de um produto
func (s *CatalogService) UpdateProduct(ctx context.Context, actor access.Actor, id string, data catalog.ProductData) (*catalog.Product, error) {
	if err := authorize(actor, access.OpCatalogWrite); err != nil {
		return nil, err
	}
	p, err := s.repos.Products.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, actor.TenantID, data); err != nil {
		return nil, err
	}
	if err := p.Update(data); err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivateProduct retira o produto do catálogo preservando o histórico de vendas
func (s *CatalogService) DeactivateProduct(ctx context.Context, actor access.Actor, id string) error {
	if err := authorize(actor, access.OpCatalogWrite); err != nil {
		return err
	}
	p, err := s.repos.Products.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	p.Deactivate()
	return s.repos.Products.Update(ctx, p)
}

// AdjustStock registra um ajuste manual e aplica a variação no estoque
// de forma atômica. Ajustes podem deixar o estoque negativo.
func (s *CatalogService) AdjustStock(ctx context.Context, actor access.Actor, in AdjustmentInput) (*catalog.StockAdjustment, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.AdjustStock")
	defer span.End()

	if err := authorize(actor, access.OpStockAdjust); err != nil {
		return nil, err
	}

	adj, err := catalog.NewStockAdjustment(actor.TenantID, in.ProductID, actor.UserID, in.Quantity, in.Reason, in.Notes)
	if err != nil {
		return nil, domainError(err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stock, err := s.repos.Products.AdjustStock(ctx, actor.TenantID, in.ProductID, adj.Delta())
		if err != nil {
			return err
		}
		adj.StockAfter = stock
		return s.repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ajuste de estoque", "tenant_id", actor.TenantID, "product_id", in.ProductID,
		"reason", adj.Reason, "delta", adj.Delta(), "stock", adj.StockAfter)
	return adj, nil
}

// ListAdjustments lista o histórico de ajustes de um produto
func (s *CatalogService) ListAdjustments(ctx context.Context, actor access.Actor, productID string) ([]*catalog.StockAdjustment, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	if _, err := s.repos.Products.FindByID(ctx, actor.TenantID, productID); err != nil {
		return nil, err
	}
	return s.repos.Adjustments.ListByProduct(ctx, actor.TenantID, productID)
}

// CreateCategory cadastra uma categoria
func (s *CatalogService) CreateCategory(ctx context.Context, actor access.Actor, name string) (*catalog.Category, error) {
	if err := authorize(actor, access.OpCatalogWrite); err != nil {
		return nil, err
	}
	c, err := catalog.NewCategory(actor.TenantID, name)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories lista as categorias
func (s *CatalogService) ListCategories(ctx context.Context, actor access.Actor) ([]*catalog.Category, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.repos.Categories.List(ctx, actor.TenantID)
}

// CreateSupplier cadastra um fornecedor
func (s *CatalogService) CreateSupplier(ctx context.Context, actor access.Actor, legalName, document, phone, email string) (*catalog.Supplier, error) {
	if err := authorize(actor, access.OpCatalogWrite); err != nil {
		return nil, err
	}
	sup, err := catalog.NewSupplier(actor.TenantID, legalName, document, phone, email)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.Suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// ListSuppliers lista os fornecedores
func (s *CatalogService) ListSuppliers(ctx context.Context, actor access.Actor) ([]*catalog.Supplier, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.repos.Suppliers.List(ctx, actor.TenantID)
}

// CreatePaymentMethod cadastra uma forma de pagamento
func (s *CatalogService) CreatePaymentMethod(ctx context.Context, actor access.Actor, name string, feePercent decimal.Decimal, daysToReceive int) (*catalog.PaymentMethod, error) {
	if err := authorize(actor, access.OpTenantSettings); err != nil {
		return nil, err
	}
	m, err := catalog.NewPaymentMethod(actor.TenantID, name, feePercent, daysToReceive)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.repos.PaymentMethods.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListPaymentMethods lista as formas de pagamento
func (s *CatalogService) ListPaymentMethods(ctx context.Context, actor access.Actor) ([]*catalog.PaymentMethod, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.repos.PaymentMethods.List(ctx, actor.TenantID)
}

// checkReferences garante que categoria e fornecedor pertencem à empresa
func (s *CatalogService) checkReferences(ctx context.Context, tenantID string, data catalog.ProductData) error {
	if data.CategoryID != "" {
		if _, err := s.repos.Categories.FindByID(ctx, tenantID, data.CategoryID); err != nil {
			return asInvalidReference(err, "category_id")
		}
	}
	if data.SupplierID != "" {
		if _, err := s.repos.Suppliers.FindByID(ctx, tenantID, data.SupplierID); err != nil {
			return asInvalidReference(err, "supplier_id")
		}
	}
	return nil
}

func asInvalidReference(err error, field string) error {
	var notFound *apperror.NotFoundError
	if errors.As(err, &notFound) {
		return apperror.Invalid(field, notFound.Error())
	}
	return err
}
