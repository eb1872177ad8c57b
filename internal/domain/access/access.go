// Package access concentra as regras de autorização: a tabela de capacidades
// por função e a situação da assinatura da empresa. É o único ponto de
// consulta para decidir se um ator pode executar uma operação.
package access

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
)

// PlanSelectionPath é o destino do fluxo de escolha de plano
const PlanSelectionPath = "/api/v1/billing/plans"

// Operation identifica uma operação protegida
type Operation string

const (
	OpShiftOpen       Operation = "shift.open"
	OpShiftClose      Operation = "shift.close"
	OpShiftRead       Operation = "shift.read"
	OpSaleRead        Operation = "sale.read"
	OpSaleWrite       Operation = "sale.write"
	OpCatalogRead     Operation = "catalog.read"
	OpCatalogWrite    Operation = "catalog.write"
	OpStockAdjust     Operation = "stock.adjust"
	OpCustomerWrite   Operation = "customer.write"
	OpLedgerRead      Operation = "ledger.read"
	OpLedgerWrite     Operation = "ledger.write"
	OpTeamManage      Operation = "team.manage"
	OpTenantRead      Operation = "tenant.read"
	OpTenantSettings  Operation = "tenant.settings"
	OpBillingCheckout Operation = "billing.checkout"
	OpTenantAdmin     Operation = "tenant.admin"
)

type rule struct {
	roles       []user.Role
	mutating    bool
	financial   bool
	// permitida com assinatura vencida (fluxo de escolha de plano)
	whenExpired bool
}

var (
	pos        = []user.Role{user.RoleSeller, user.RoleCashier, user.RoleManager, user.RoleSupport}
	everyone   = []user.Role{user.RoleSeller, user.RoleCashier, user.RoleStockClerk, user.RoleManager, user.RoleSupport}
	stock      = []user.Role{user.RoleStockClerk, user.RoleManager, user.RoleSupport}
	management = []user.Role{user.RoleManager, user.RoleSupport}
)

// capabilities é a tabela fixa função -> operações permitidas
var capabilities = map[Operation]rule{
	OpShiftOpen:       {roles: pos, mutating: true},
	OpShiftClose:      {roles: pos, mutating: true},
	OpShiftRead:       {roles: pos},
	OpSaleRead:        {roles: pos},
	OpSaleWrite:       {roles: pos, mutating: true},
	OpCatalogRead:     {roles: everyone},
	OpCatalogWrite:    {roles: stock, mutating: true},
	OpStockAdjust:     {roles: stock, mutating: true},
	OpCustomerWrite:   {roles: pos, mutating: true},
	OpLedgerRead:      {roles: management, financial: true},
	OpLedgerWrite:     {roles: management, mutating: true, financial: true},
	OpTeamManage:      {roles: management, mutating: true},
	OpTenantRead:      {roles: everyone},
	OpTenantSettings:  {roles: management, mutating: true, whenExpired: true},
	OpBillingCheckout: {roles: management, mutating: true, whenExpired: true},
	OpTenantAdmin:     {}, // somente superusuário
}

// Allows informa se a função possui a operação na tabela de capacidades
func Allows(role user.Role, op Operation) bool {
	r, ok := capabilities[op]
	if !ok {
		return false
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Entitlement é a situação da assinatura que libera ou restringe recursos
type Entitlement struct {
	Active          bool        `json:"active"`
	WithinPeriod    bool        `json:"within_period"`
	Plan            tenant.Plan `json:"plan"`
	FinancialAccess bool        `json:"financial_access"`
	UserLimit       int         `json:"user_limit"`
	ExpiresAt       *time.Time  `json:"expires_at"`
}

// Resolve calcula o entitlement da empresa na data informada
func Resolve(t *tenant.Tenant, today time.Time) Entitlement {
	return Entitlement{
		Active:          t.Active,
		WithinPeriod:    t.WithinPeriod(today),
		Plan:            t.Plan,
		FinancialAccess: t.HasFinancialAccess(today),
		UserLimit:       t.UserLimit(),
		ExpiresAt:       t.ExpiresAt,
	}
}

// Actor é quem executa a operação: usuário, empresa e situação da assinatura
type Actor struct {
	TenantID    string
	UserID      string
	Username    string
	Role        user.Role
	Superuser   bool
	Entitlement Entitlement
}

// Authorize decide se o ator pode executar a operação
func Authorize(actor Actor, op Operation) error {
	if actor.Superuser {
		return nil
	}
	r, ok := capabilities[op]
	if !ok || actor.TenantID == "" {
		return apperror.Forbidden("operação não permitida")
	}
	if !actor.Entitlement.Active {
		return apperror.Forbidden("empresa bloqueada")
	}
	if !Allows(actor.Role, op) {
		return apperror.Forbidden("sua função não permite esta operação")
	}
	if r.financial && !actor.Entitlement.FinancialAccess {
		return &apperror.PaymentRequiredError{RedirectTo: PlanSelectionPath}
	}
	if r.mutating && !r.whenExpired && !actor.Entitlement.WithinPeriod {
		return &apperror.PaymentRequiredError{RedirectTo: PlanSelectionPath}
	}
	return nil
}

type actorKey struct{}

// WithActor grava o ator no contexto da requisição
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext recupera o ator gravado pelo controle de acesso
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
