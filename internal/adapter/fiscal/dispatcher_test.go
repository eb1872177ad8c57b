package fiscal_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/adapter/fiscal"
	"github.com/hugohenrick/nexum-erp/internal/adapter/repository/memory"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeEmitter struct {
	mu   sync.Mutex
	jobs []service.FiscalJob
	err  error
}

func (f *fakeEmitter) Emit(_ context.Context, job service.FiscalJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return f.err
}

func (f *fakeEmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func seedSale(t *testing.T, store *memory.Store) (*tenant.Tenant, *sale.Sale) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	tn, err := tenant.NewTenant("Loja Fiscal", "", tenant.SegmentMarket, now)
	if err != nil {
		t.Fatalf("tenant: %v", err)
	}
	if err := store.Tenants().Create(ctx, tn); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	p, err := catalog.NewProduct(tn.ID, catalog.ProductData{
		Name:              "Camiseta",
		CostPrice:         decimal.NewFromInt(5),
		SalePrice:         decimal.NewFromInt(10),
		CommissionPercent: decimal.Zero,
	}, 10)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if err := store.Products().Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}

	s, err := sale.NewSale(tn.ID, "operador", "turno", "", now)
	if err != nil {
		t.Fatalf("sale: %v", err)
	}
	if err := store.Sales().Create(ctx, s); err != nil {
		t.Fatalf("create sale: %v", err)
	}
	item, err := s.AddItem(p, 1, now)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := store.Sales().AddItem(ctx, tn.ID, item); err != nil {
		t.Fatalf("store item: %v", err)
	}
	if err := s.Finalize("dinheiro", true, now); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := store.Sales().MarkFinalized(ctx, s); err != nil {
		t.Fatalf("mark finalized: %v", err)
	}
	return tn, s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcher_ProcessesQueuedJobs(t *testing.T) {
	store := memory.NewStore()
	emitter := &fakeEmitter{}
	d := fiscal.NewDispatcher(emitter, store.Sales(), 2, 8, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	for i := 0; i < 5; i++ {
		if err := d.Enqueue(service.FiscalJob{TenantID: "t", SaleID: "s"}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	waitFor(t, func() bool { return emitter.count() == 5 })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := d.Enqueue(service.FiscalJob{}); !errors.Is(err, fiscal.ErrStopped) {
		t.Errorf("expected ErrStopped after shutdown, got %v", err)
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	store := memory.NewStore()
	d := fiscal.NewDispatcher(&fakeEmitter{}, store.Sales(), 1, 1, logger.NewNop())

	if err := d.Enqueue(service.FiscalJob{SaleID: "1"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := d.Enqueue(service.FiscalJob{SaleID: "2"}); !errors.Is(err, fiscal.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_FailureRecordsWarning(t *testing.T) {
	store := memory.NewStore()
	tn, s := seedSale(t, store)
	emitter := fiscal.NewPreflightEmitter(store.Tenants(), store.Sales(), store.Certificates(), logger.NewNop())
	d := fiscal.NewDispatcher(emitter, store.Sales(), 1, 4, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	if err := d.Enqueue(service.FiscalJob{TenantID: tn.ID, SaleID: s.ID}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	waitFor(t, func() bool {
		got, err := store.Sales().FindByID(context.Background(), tn.ID, s.ID)
		return err == nil && got.FiscalWarning != ""
	})

	got, _ := store.Sales().FindByID(context.Background(), tn.ID, s.ID)
	if got.Status != sale.StatusFinalized {
		t.Errorf("fiscal failure must not change the sale, got %s", got.Status)
	}
}

func TestPreflightEmitter_RequiresCertificate(t *testing.T) {
	store := memory.NewStore()
	tn, s := seedSale(t, store)
	ctx := context.Background()

	if err := tn.UpdateFiscal(tenant.FiscalHomologation, "api", "csc", time.Now()); err != nil {
		t.Fatalf("update fiscal: %v", err)
	}
	if err := store.Tenants().Update(ctx, tn); err != nil {
		t.Fatalf("update tenant: %v", err)
	}

	emitter := fiscal.NewPreflightEmitter(store.Tenants(), store.Sales(), store.Certificates(), logger.NewNop())
	err := emitter.Emit(ctx, service.FiscalJob{TenantID: tn.ID, SaleID: s.ID})
	if !errors.Is(err, fiscal.ErrMissingCertificate) {
		t.Fatalf("expected ErrMissingCertificate, got %v", err)
	}
}
