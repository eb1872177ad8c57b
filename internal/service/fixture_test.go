package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hugohenrick/nexum-erp/internal/adapter/repository/memory"
	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

const managerPassword = "gerente123"

// env reúne os serviços sobre um armazenamento em memória isolado
type env struct {
	store   *memory.Store
	repos   service.Repositories
	access  *service.AccessService
	tenants *service.TenantService
	team    *service.TeamService
	catalog *service.CatalogService
	shifts  *service.ShiftService
	sales   *service.SaleService
	ledger  *service.LedgerService
	reports *service.ReportService
	fiscal  *fakeQueue
}

func newEnv(t *testing.T, allowNegative bool) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.NewNop()
	accessSvc := service.NewAccessService(repos.Users, repos.Tenants, nil, log)
	fiscal := &fakeQueue{}

	return &env{
		store:   store,
		repos:   repos,
		access:  accessSvc,
		tenants: service.NewTenantService(repos, store, accessSvc, log),
		team:    service.NewTeamService(repos, store, log),
		catalog: service.NewCatalogService(repos, store, log),
		shifts:  service.NewShiftService(repos, store, nil, log),
		sales:   service.NewSaleService(repos, store, fiscal, allowNegative, nil, log),
		ledger:  service.NewLedgerService(repos.Ledger, store, log),
		reports: service.NewReportService(repos),
		fiscal:  fiscal,
	}
}

// shop é uma loja cadastrada com o gerente, o caixa principal e as formas de pagamento padrão
type shop struct {
	tenant     *tenant.Tenant
	manager    *user.User
	actor      access.Actor
	registerID string
	paymentID  string
}

func (e *env) signup(t *testing.T, username string) *shop {
	t.Helper()
	ctx := context.Background()

	res, err := e.tenants.Signup(ctx, service.SignupInput{
		StoreName:   "Loja " + username,
		Segment:     tenant.SegmentClothing,
		ManagerName: "Gerente " + username,
		Username:    username,
		Email:       username + "@loja.com",
		Password:    managerPassword,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	s := &shop{tenant: res.Tenant, manager: res.Manager}
	s.actor = e.actorFor(t, res.Manager.ID)

	registers, err := e.repos.Registers.List(ctx, res.Tenant.ID)
	if err != nil || len(registers) == 0 {
		t.Fatalf("expected default register, got %v (%v)", registers, err)
	}
	s.registerID = registers[0].ID

	methods, err := e.repos.PaymentMethods.List(ctx, res.Tenant.ID)
	if err != nil || len(methods) == 0 {
		t.Fatalf("expected default payment methods, got %v (%v)", methods, err)
	}
	s.paymentID = methods[0].ID
	return s
}

func (e *env) actorFor(t *testing.T, userID string) access.Actor {
	t.Helper()
	actor, err := e.access.ResolveActor(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	return actor
}

// member cadastra um colaborador direto no repositório, sem passar pelo limite do plano
func (e *env) member(t *testing.T, s *shop, username string, role user.Role) access.Actor {
	t.Helper()
	u, err := user.NewUser(s.tenant.ID, "Colaborador "+username, username, username+"@loja.com", "senha123", role)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if err := e.repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return e.actorFor(t, u.ID)
}

func (e *env) product(t *testing.T, s *shop, name string, price, commission int64, stock int) *catalog.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), s.actor, catalog.ProductData{
		Name:              name,
		SalePrice:         decimal.NewFromInt(price),
		CommissionPercent: decimal.NewFromInt(commission),
		MinStock:          1,
	}, stock)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (e *env) openShift(t *testing.T, s *shop, actor access.Actor) {
	t.Helper()
	if _, err := e.shifts.OpenShift(context.Background(), actor, s.registerID, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("open shift: %v", err)
	}
}

// updateTenant altera a empresa gravada e recalcula o ator
func (e *env) updateTenant(t *testing.T, s *shop, fn func(*tenant.Tenant)) {
	t.Helper()
	ctx := context.Background()
	tn, err := e.repos.Tenants.FindByID(ctx, s.tenant.ID)
	if err != nil {
		t.Fatalf("find tenant: %v", err)
	}
	fn(tn)
	if err := e.repos.Tenants.Update(ctx, tn); err != nil {
		t.Fatalf("update tenant: %v", err)
	}
	s.actor = e.actorFor(t, s.manager.ID)
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []service.FiscalJob
	err  error
}

func (q *fakeQueue) Enqueue(job service.FiscalJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func as[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected %T, got %v", target, err)
	}
	return target
}
