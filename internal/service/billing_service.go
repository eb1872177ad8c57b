package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

// Status devolvidos ao provedor de cobrança
const (
	WebhookReleased  = "recebido e liberado"
	WebhookIgnored   = "ignorado"
	WebhookDuplicate = "duplicado"
	WebhookUnknown   = "empresa nao encontrada"
	WebhookInvalid   = "evento invalido"
)

// WebhookResult é a resposta enviada ao provedor
type WebhookResult struct {
	Status string `json:"status"`
	HTTP   int    `json:"-"`
}

// PlanOffer descreve um plano disponível para contratação
type PlanOffer struct {
	Plan            tenant.Plan     `json:"plan"`
	Price           decimal.Decimal `json:"price"`
	UserLimit       int             `json:"user_limit"`
	FinancialAccess bool            `json:"financial_access"`
}

// BillingService integra a assinatura das empresas com o provedor de cobrança
type BillingService struct {
	repos      Repositories
	tx         Transactor
	provider   billing.Provider
	invalidate Invalidator
	metrics    *observability.Metrics
	logger     logger.Logger
}

// NewBillingService cria uma nova instância de BillingService
func NewBillingService(repos Repositories, tx Transactor, provider billing.Provider, invalidate Invalidator, metrics *observability.Metrics, log logger.Logger) *BillingService {
	return &BillingService{
		repos:      repos,
		tx:         tx,
		provider:   provider,
		invalidate: invalidate,
		metrics:    metrics,
		logger:     log,
	}
}

// Plans lista os planos com preço de tabela
func (s *BillingService) Plans() []PlanOffer {
	var offers []PlanOffer
	for _, p := range []tenant.Plan{tenant.PlanEssential, tenant.PlanPro} {
		price, _ := p.Price()
		offers = append(offers, PlanOffer{
			Plan:            p,
			Price:           price,
			UserLimit:       p.UserLimit(),
			FinancialAccess: p != tenant.PlanEssential,
		})
	}
	return offers
}

// HandleWebhook aplica um evento de pagamento. Reentregas do mesmo pagamento
// não estendem o vencimento novamente.
func (s *BillingService) HandleWebhook(ctx context.Context, event billing.Event) (WebhookResult, error) {
	ctx, span := tracer.Start(ctx, "BillingService.HandleWebhook")
	defer span.End()

	if err := event.Validate(); err != nil {
		s.metrics.BillingEvent("invalid")
		s.logger.Warn("webhook de cobrança inválido", "event", event.Event, "error", err)
		return WebhookResult{Status: WebhookInvalid, HTTP: http.StatusBadRequest}, nil
	}
	if !event.ConfirmsPayment() {
		s.metrics.BillingEvent("ignored")
		return WebhookResult{Status: WebhookIgnored, HTTP: http.StatusOK}, nil
	}

	customerRef := event.Payment.Customer
	t, err := s.repos.Tenants.FindByBillingCustomer(ctx, customerRef)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.metrics.BillingEvent("unknown_customer")
			s.logger.Warn("pagamento de cliente desconhecido", "customer", customerRef)
			return WebhookResult{Status: WebhookUnknown, HTTP: http.StatusNotFound}, nil
		}
		return WebhookResult{}, err
	}

	duplicate := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		if key := event.DedupeKey(); key != "" {
			err := s.repos.BillingEvents.Record(ctx, &billing.ProcessedEvent{
				Key:         key,
				Event:       event.Event,
				TenantID:    t.ID,
				CustomerRef: customerRef,
				Value:       event.Payment.Value,
				ProcessedAt: now,
			})
			if apperror.IsConflict(err) {
				duplicate = true
				return nil
			}
			if err != nil {
				return err
			}
		}

		current, err := s.repos.Tenants.FindByID(ctx, t.ID)
		if err != nil {
			return err
		}
		current.ApplyPayment(event.Payment.Value, now)
		return s.repos.Tenants.Update(ctx, current)
	})
	if err != nil {
		return WebhookResult{}, err
	}

	if duplicate {
		s.metrics.BillingEvent("duplicate")
		s.logger.Info("pagamento já processado", "tenant_id", t.ID, "payment_id", event.Payment.ID)
		return WebhookResult{Status: WebhookDuplicate, HTTP: http.StatusOK}, nil
	}

	s.invalidate.Invalidate(t.ID)
	s.metrics.BillingEvent("released")
	s.logger.Info("assinatura liberada", "tenant_id", t.ID, "event", event.Event,
		"value", event.Payment.Value.StringFixed(2))
	return WebhookResult{Status: WebhookReleased, HTTP: http.StatusOK}, nil
}

// StartCheckout garante cliente e assinatura no provedor e retorna o link de pagamento.
// As chamadas externas acontecem fora de qualquer transação.
func (s *BillingService) StartCheckout(ctx context.Context, actor access.Actor, plan tenant.Plan) (*billing.Checkout, error) {
	ctx, span := tracer.Start(ctx, "BillingService.StartCheckout")
	defer span.End()

	if err := authorize(actor, access.OpBillingCheckout); err != nil {
		return nil, err
	}
	price, ok := plan.Price()
	if !ok {
		return nil, apperror.Invalid("plan", tenant.ErrInvalidPlan.Error())
	}

	t, err := s.repos.Tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if t.HasProvisionalDocument() {
		return nil, &apperror.PreconditionError{
			Action:  "atualizar cadastro",
			Message: "informe o CNPJ ou CPF da empresa antes de assinar",
		}
	}

	customerID, err := s.ensureCustomer(ctx, actor, t)
	if err != nil {
		return nil, err
	}

	sub, err := s.provider.FindActiveSubscription(ctx, customerID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, s.external(err)
	}
	if sub == nil {
		sub, err = s.provider.CreateSubscription(ctx, billing.SubscriptionRequest{
			CustomerID:  customerID,
			Value:       price,
			NextDueDate: tenant.Date(time.Now()),
			Description: fmt.Sprintf("Assinatura Nexum ERP - Plano %s", plan),
		})
		if err != nil {
			return nil, s.external(err)
		}
	}

	url, err := s.provider.PaymentURL(ctx, sub.ID)
	if err != nil {
		return nil, s.external(err)
	}

	s.logger.Info("checkout iniciado", "tenant_id", t.ID, "plan", plan, "subscription_id", sub.ID)
	return &billing.Checkout{
		Plan:           string(plan),
		Value:          price,
		CustomerID:     customerID,
		SubscriptionID: sub.ID,
		PaymentURL:     url,
	}, nil
}

// ensureCustomer reutiliza o cliente já vinculado, procura pelo documento
// ou cria um novo, gravando a referência na empresa
func (s *BillingService) ensureCustomer(ctx context.Context, actor access.Actor, t *tenant.Tenant) (string, error) {
	if t.BillingCustomerID != "" {
		return t.BillingCustomerID, nil
	}

	c, err := s.provider.FindCustomerByDocument(ctx, t.Document)
	if err != nil && !apperror.IsNotFound(err) {
		return "", s.external(err)
	}
	if c == nil {
		email := ""
		if u, err := s.repos.Users.FindByID(ctx, actor.UserID); err == nil {
			email = u.Email
		}
		name := t.LegalName
		if name == "" {
			name = t.TradeName
		}
		c, err = s.provider.CreateCustomer(ctx, name, t.Document, email)
		if err != nil {
			return "", s.external(err)
		}
	}

	t.BillingCustomerID = c.ID
	t.UpdatedAt = time.Now()
	if err := s.repos.Tenants.Update(ctx, t); err != nil {
		return "", err
	}
	s.invalidate.Invalidate(t.ID)
	return c.ID, nil
}

func (s *BillingService) external(err error) error {
	s.metrics.ExternalError("billing")
	s.logger.Error("falha no provedor de cobrança", "error", err)

	var ext *apperror.ExternalError
	if errors.As(err, &ext) {
		return ext
	}
	return &apperror.ExternalError{Service: "cobrança", Err: err}
}
