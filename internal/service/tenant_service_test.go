package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(u *user.User) (string, time.Time, error) {
	return "token-" + u.ID, time.Now().Add(time.Hour), nil
}

func TestSignup_CreatesTrialTenantAndDefaults(t *testing.T) {
	e := newEnv(t, false)
	s := e.signup(t, "ana")

	if s.tenant.Plan != tenant.PlanEssential || !s.tenant.HasProvisionalDocument() {
		t.Errorf("unexpected tenant: %+v", s.tenant)
	}
	if s.manager.Role != user.RoleManager {
		t.Errorf("expected manager role, got %s", s.manager.Role)
	}
	if !s.actor.Entitlement.WithinPeriod || !s.actor.Entitlement.FinancialAccess {
		t.Errorf("trial tenant should have full access: %+v", s.actor.Entitlement)
	}

	_, err := e.tenants.Signup(context.Background(), service.SignupInput{
		StoreName:   "Outra loja",
		ManagerName: "Ana",
		Username:    "ana",
		Password:    managerPassword,
	})
	as[*apperror.ConflictError](t, err)

	tenants, _ := e.repos.Tenants.List(context.Background(), 0, 0)
	if len(tenants) != 1 {
		t.Errorf("failed signup must not leave a tenant behind, got %d", len(tenants))
	}
}

func TestUpdateSettings_AllowedWhenExpired(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.updateTenant(t, s, func(tn *tenant.Tenant) {
		past := tenant.Date(time.Now()).AddDate(0, 0, -1)
		tn.ExpiresAt = &past
	})

	updated, err := e.tenants.UpdateSettings(ctx, s.actor, service.SettingsInput{
		TradeName:      "Loja da Ana",
		Document:       "12345678000199",
		ReceiptMessage: "Volte sempre",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.HasProvisionalDocument() {
		t.Error("document should be updated")
	}

	_, err = e.catalog.CreateCategory(ctx, s.actor, "Camisetas")
	as[*apperror.PaymentRequiredError](t, err)
}

func TestSetActive_SuperuserOnly(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")

	auth := service.NewAuthService(e.repos.Users, fakeIssuer{}, logger.NewNop())
	su, err := auth.CreateSuperuser(ctx, "Suporte", "suporte", "suporte@nexum.com", "suporte123")
	if err != nil {
		t.Fatalf("create superuser: %v", err)
	}
	if _, err := auth.CreateSuperuser(ctx, "Suporte", "suporte", "suporte@nexum.com", "suporte123"); !apperror.IsConflict(err) {
		t.Errorf("expected conflict on second bootstrap, got %v", err)
	}

	_, err = e.tenants.SetActive(ctx, s.actor, s.tenant.ID, false)
	as[*apperror.AuthorizationError](t, err)

	admin := e.actorFor(t, su.ID)
	blocked, err := e.tenants.SetActive(ctx, admin, s.tenant.ID, false)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if blocked.Active {
		t.Error("tenant should be blocked")
	}

	manager := e.actorFor(t, s.manager.ID)
	if manager.Entitlement.Active {
		t.Error("entitlement should reflect the block")
	}

	scoped, err := e.access.ResolveActor(ctx, su.ID, s.tenant.ID)
	if err != nil {
		t.Fatalf("resolve superuser: %v", err)
	}
	if scoped.TenantID != s.tenant.ID {
		t.Errorf("superuser should act on selected tenant, got %q", scoped.TenantID)
	}
	if _, err := e.tenants.Get(ctx, scoped); err != nil {
		t.Errorf("superuser should read a blocked tenant: %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	auth := service.NewAuthService(e.repos.Users, fakeIssuer{}, logger.NewNop())

	res, err := auth.Login(ctx, " ANA ", managerPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "token-"+s.manager.ID || res.User.ID != s.manager.ID {
		t.Errorf("unexpected login result: %+v", res)
	}

	_, err = auth.Login(ctx, "ana", "errada")
	as[*apperror.AuthorizationError](t, err)

	_, err = auth.Login(ctx, "ninguem", "qualquer")
	as[*apperror.AuthorizationError](t, err)
}
