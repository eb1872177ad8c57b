// Package service implementa as operações do núcleo do PDV. Toda operação
// recebe explicitamente o ator (empresa, usuário e função) e consulta o
// controle de acesso antes de tocar nos dados.
package service

import (
	"context"
	"errors"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/domain/customer"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("service/pos")

// Transactor executa uma unidade de trabalho atômica
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories agrupa os repositórios usados pelos serviços
type Repositories struct {
	Tenants        tenant.Repository
	Users          user.Repository
	Customers      customer.Repository
	Categories     catalog.CategoryRepository
	Suppliers      catalog.SupplierRepository
	PaymentMethods catalog.PaymentMethodRepository
	Products       catalog.ProductRepository
	Adjustments    catalog.AdjustmentRepository
	Certificates   certificate.Repository
	Registers      cash.RegisterRepository
	Shifts         cash.ShiftRepository
	Sales          sale.Repository
	Ledger         ledger.Repository
	BillingEvents  billing.EventStore
}

// authorize consulta o controle de acesso e exige uma empresa para operações da loja
func authorize(actor access.Actor, op access.Operation) error {
	if err := access.Authorize(actor, op); err != nil {
		return err
	}
	if actor.TenantID == "" {
		return &apperror.PreconditionError{Action: "selecionar empresa", Message: "operação exige uma empresa"}
	}
	return nil
}

var validationErrors = []error{
	tenant.ErrEmptyName, tenant.ErrInvalidDocument, tenant.ErrInvalidPlan, tenant.ErrInvalidFiscalEnv,
	user.ErrEmptyUsername, user.ErrEmptyName, user.ErrWeakPassword, user.ErrInvalidRole, user.ErrMissingTenant,
	customer.ErrEmptyName, customer.ErrInvalidEmail,
	catalog.ErrEmptyName, catalog.ErrInvalidPrice, catalog.ErrInvalidCommission, catalog.ErrInvalidMinStock,
	catalog.ErrInvalidQuantity, catalog.ErrInvalidReason, catalog.ErrInvalidFee, catalog.ErrInvalidReceiveDays,
	cash.ErrNegativeOpening, cash.ErrNegativeCounted, cash.ErrEmptyRegister, cash.ErrEmptyOperator, cash.ErrEmptyRegisterName,
	sale.ErrEmptySale, sale.ErrInvalidQuantity, sale.ErrInvalidDiscount, sale.ErrDiscountTooHigh,
	sale.ErrMissingPayment, sale.ErrInactiveProduct, sale.ErrMissingShift, sale.ErrMissingOperator,
	ledger.ErrEmptyTitle, ledger.ErrInvalidAmount, ledger.ErrMissingDueDate,
	certificate.ErrEmptyData, certificate.ErrEmptyPassword, certificate.ErrExpired,
	pkgtenant.ErrTenantNotSpecified,
}

// domainError traduz os erros sentinela do domínio para a taxonomia de apperror
func domainError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sale.ErrNotDraft):
		return &apperror.InvalidStateError{Resource: "venda", State: "fechada ou cancelada"}
	case errors.Is(err, cash.ErrShiftClosed):
		return &apperror.InvalidStateError{Resource: "turno", State: string(cash.StatusClosed)}
	case errors.Is(err, ledger.ErrAlreadyPaid):
		return &apperror.InvalidStateError{Resource: "lançamento", State: "pago"}
	case errors.Is(err, sale.ErrForeignProduct):
		return apperror.NotFound("produto", "")
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return &apperror.ValidationError{Message: err.Error()}
		}
	}
	return err
}
