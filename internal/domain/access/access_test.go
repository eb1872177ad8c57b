package access_test

import (
	"errors"
	"testing"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
)

func actor(role user.Role, ent access.Entitlement) access.Actor {
	return access.Actor{TenantID: "t1", UserID: "u1", Role: role, Entitlement: ent}
}

var current = access.Entitlement{Active: true, WithinPeriod: true, Plan: tenant.PlanPro, FinancialAccess: true}

func TestAuthorize_RoleMatrix(t *testing.T) {
	tests := []struct {
		role    user.Role
		op      access.Operation
		allowed bool
	}{
		{user.RoleSeller, access.OpSaleWrite, true},
		{user.RoleSeller, access.OpCatalogWrite, false},
		{user.RoleSeller, access.OpLedgerRead, false},
		{user.RoleCashier, access.OpShiftOpen, true},
		{user.RoleStockClerk, access.OpStockAdjust, true},
		{user.RoleStockClerk, access.OpSaleWrite, false},
		{user.RoleStockClerk, access.OpCatalogRead, true},
		{user.RoleManager, access.OpLedgerWrite, true},
		{user.RoleManager, access.OpTeamManage, true},
		{user.RoleManager, access.OpTenantAdmin, false},
		{user.RoleSupport, access.OpBillingCheckout, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			err := access.Authorize(actor(tt.role, current), tt.op)
			if tt.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tt.allowed {
				var authz *apperror.AuthorizationError
				if !errors.As(err, &authz) {
					t.Fatalf("expected AuthorizationError, got %v", err)
				}
			}
		})
	}
}

func TestAuthorize_BlockedTenant(t *testing.T) {
	blocked := current
	blocked.Active = false

	err := access.Authorize(actor(user.RoleManager, blocked), access.OpSaleRead)
	var authz *apperror.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestAuthorize_ExpiredSubscription(t *testing.T) {
	expired := access.Entitlement{Active: true, WithinPeriod: false, Plan: tenant.PlanEssential}

	var payment *apperror.PaymentRequiredError
	if err := access.Authorize(actor(user.RoleCashier, expired), access.OpSaleWrite); !errors.As(err, &payment) {
		t.Fatalf("expected PaymentRequiredError for mutation, got %v", err)
	}
	if payment.RedirectTo != access.PlanSelectionPath {
		t.Errorf("expected redirect to %s, got %s", access.PlanSelectionPath, payment.RedirectTo)
	}
	if err := access.Authorize(actor(user.RoleCashier, expired), access.OpSaleRead); err != nil {
		t.Errorf("reads should stay available, got %v", err)
	}
	if err := access.Authorize(actor(user.RoleManager, expired), access.OpBillingCheckout); err != nil {
		t.Errorf("checkout should stay available, got %v", err)
	}
	if err := access.Authorize(actor(user.RoleManager, expired), access.OpTenantSettings); err != nil {
		t.Errorf("settings should stay available, got %v", err)
	}
	if err := access.Authorize(actor(user.RoleManager, expired), access.OpLedgerRead); !errors.As(err, &payment) {
		t.Errorf("expected PaymentRequiredError for ledger, got %v", err)
	}
}

func TestAuthorize_Superuser(t *testing.T) {
	su := access.Actor{Superuser: true}
	if err := access.Authorize(su, access.OpTenantAdmin); err != nil {
		t.Fatalf("superuser should bypass checks, got %v", err)
	}
}

func TestAuthorize_MissingTenant(t *testing.T) {
	a := actor(user.RoleManager, current)
	a.TenantID = ""
	if err := access.Authorize(a, access.OpSaleRead); err == nil {
		t.Fatal("expected error without tenant")
	}
}
