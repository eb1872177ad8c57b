package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestStartSale_RequiresOpenShift(t *testing.T) {
	e := newEnv(t, false)
	s := e.signup(t, "ana")

	_, err := e.sales.StartSale(context.Background(), s.actor)
	as[*apperror.PreconditionError](t, err)
}

func TestFinalize_AppliesStockLedgerAndFiscalQueue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)

	shirt := e.product(t, s, "Camiseta", 10, 10, 5)
	socks := e.product(t, s, "Meia", 5, 0, 3)

	sl, err := e.sales.StartSale(ctx, s.actor)
	if err != nil {
		t.Fatalf("start sale: %v", err)
	}
	if _, err := e.sales.AddItem(ctx, s.actor, sl.ID, shirt.ID, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := e.sales.AddItem(ctx, s.actor, sl.ID, socks.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := e.sales.SetDiscount(ctx, s.actor, sl.ID, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	res, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{
		SaleID:              sl.ID,
		PaymentMethodID:     s.paymentID,
		IssueFiscalDocument: true,
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !res.Sale.Total.Equal(decimal.NewFromInt(22)) {
		t.Errorf("expected total 22, got %s", res.Sale.Total)
	}
	if res.Sale.Status != sale.StatusFinalized {
		t.Errorf("expected FECHADA, got %s", res.Sale.Status)
	}

	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, shirt.ID)
	if got.Stock != 3 {
		t.Errorf("expected stock 3, got %d", got.Stock)
	}

	entry, err := e.repos.Ledger.FindBySale(ctx, s.tenant.ID, sl.ID)
	if err != nil {
		t.Fatalf("expected revenue entry: %v", err)
	}
	if entry.Type != ledger.TypeRevenue || !entry.Paid || !entry.Amount.Equal(decimal.NewFromInt(22)) {
		t.Errorf("unexpected revenue entry: %+v", entry)
	}
	if e.fiscal.count() != 1 {
		t.Errorf("expected 1 fiscal job, got %d", e.fiscal.count())
	}
}

func TestFinalize_EmptySaleChangesNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)

	sl, err := e.sales.StartSale(ctx, s.actor)
	if err != nil {
		t.Fatalf("start sale: %v", err)
	}

	_, err = e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID})
	as[*apperror.ValidationError](t, err)

	stored, _ := e.repos.Sales.FindByID(ctx, s.tenant.ID, sl.ID)
	if stored.Status != sale.StatusDraft {
		t.Errorf("expected draft, got %s", stored.Status)
	}
	entries, _ := e.repos.Ledger.List(ctx, s.tenant.ID)
	if len(entries) != 0 {
		t.Errorf("expected no ledger entries, got %d", len(entries))
	}
}

func TestFinalize_SecondAttemptIsInvalidState(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)
	p := e.product(t, s, "Calça", 50, 0, 10)

	sl, _ := e.sales.StartSale(ctx, s.actor)
	if _, err := e.sales.AddItem(ctx, s.actor, sl.ID, p.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	in := service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID}
	if _, err := e.sales.Finalize(ctx, s.actor, in); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	_, err := e.sales.Finalize(ctx, s.actor, in)
	as[*apperror.InvalidStateError](t, err)

	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, p.ID)
	if got.Stock != 9 {
		t.Errorf("stock must be decremented once, got %d", got.Stock)
	}
	entries, _ := e.repos.Ledger.List(ctx, s.tenant.ID)
	if len(entries) != 1 {
		t.Errorf("expected a single revenue entry, got %d", len(entries))
	}
}

func TestFinalize_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)
	plenty := e.product(t, s, "Bermuda", 40, 0, 10)
	scarce := e.product(t, s, "Boné", 20, 0, 1)

	sl, _ := e.sales.StartSale(ctx, s.actor)
	e.sales.AddItem(ctx, s.actor, sl.ID, plenty.ID, 2)
	e.sales.AddItem(ctx, s.actor, sl.ID, scarce.ID, 2)

	_, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID})
	as[*apperror.PreconditionError](t, err)

	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, plenty.ID)
	if got.Stock != 10 {
		t.Errorf("stock must be restored, got %d", got.Stock)
	}
	stored, _ := e.repos.Sales.FindByID(ctx, s.tenant.ID, sl.ID)
	if stored.Status != sale.StatusDraft {
		t.Errorf("sale must stay draft, got %s", stored.Status)
	}
}

func TestFinalize_NegativeStockAllowedWithWarning(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)
	p := e.product(t, s, "Boné", 20, 0, 1)

	sl, _ := e.sales.StartSale(ctx, s.actor)
	e.sales.AddItem(ctx, s.actor, sl.ID, p.ID, 3)

	res, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected negative stock warning, got %v", res.Warnings)
	}
	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, p.ID)
	if got.Stock != -2 {
		t.Errorf("expected stock -2, got %d", got.Stock)
	}
}

func TestFinalize_FiscalQueueFailureKeepsSale(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	e.fiscal.err = errors.New("fila cheia")
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)
	p := e.product(t, s, "Vestido", 90, 0, 2)

	sl, _ := e.sales.StartSale(ctx, s.actor)
	e.sales.AddItem(ctx, s.actor, sl.ID, p.ID, 1)

	res, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{
		SaleID:              sl.ID,
		PaymentMethodID:     s.paymentID,
		IssueFiscalDocument: true,
	})
	if err != nil {
		t.Fatalf("finalize must succeed without fiscal queue: %v", err)
	}
	if res.Sale.FiscalWarning == "" || len(res.Warnings) == 0 {
		t.Errorf("expected fiscal warning, got %+v", res)
	}
}

func TestSale_CrossTenantIsNotFound(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	a := e.signup(t, "ana")
	b := e.signup(t, "bia")
	e.openShift(t, a, a.actor)
	foreign := e.product(t, b, "Saia", 60, 0, 5)

	sl, _ := e.sales.StartSale(ctx, a.actor)

	_, err := e.sales.GetSale(ctx, b.actor, sl.ID)
	as[*apperror.NotFoundError](t, err)

	_, err = e.sales.AddItem(ctx, a.actor, sl.ID, foreign.ID, 1)
	as[*apperror.NotFoundError](t, err)
}

func TestSale_BlockedAndExpiredTenants(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)

	e.updateTenant(t, s, func(tn *tenant.Tenant) {
		past := tenant.Date(time.Now()).AddDate(0, 0, -1)
		tn.ExpiresAt = &past
	})
	_, err := e.sales.StartSale(ctx, s.actor)
	as[*apperror.PaymentRequiredError](t, err)

	e.updateTenant(t, s, func(tn *tenant.Tenant) { tn.Block(time.Now()) })
	_, err = e.sales.StartSale(ctx, s.actor)
	as[*apperror.AuthorizationError](t, err)
}

func TestSale_StockClerkCannotSell(t *testing.T) {
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	clerk := e.member(t, s, "caio", user.RoleStockClerk)

	_, err := e.sales.StartSale(context.Background(), clerk)
	as[*apperror.AuthorizationError](t, err)
}

func TestCommissionsReport(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	seller := e.member(t, s, "vera", user.RoleSeller)
	e.openShift(t, s, seller)
	p := e.product(t, s, "Jaqueta", 30, 10, 10)

	sl, err := e.sales.StartSale(ctx, seller)
	if err != nil {
		t.Fatalf("start sale: %v", err)
	}
	e.sales.AddItem(ctx, seller, sl.ID, p.ID, 2)
	if _, err := e.sales.Finalize(ctx, seller, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	report, err := e.reports.MyCommissions(ctx, seller, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("commissions: %v", err)
	}
	if len(report.Sales) != 1 || report.Total.StringFixed(2) != "6.00" {
		t.Errorf("expected one sale with commission 6.00, got %+v", report)
	}

	other, err := e.reports.MyCommissions(ctx, s.actor, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("commissions: %v", err)
	}
	if len(other.Sales) != 0 {
		t.Errorf("manager should not see seller commissions, got %d", len(other.Sales))
	}

	dash, err := e.reports.Dashboard(ctx, s.actor)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.SalesToday != 1 || !dash.RevenueToday.Equal(decimal.NewFromInt(60)) {
		t.Errorf("unexpected dashboard: %+v", dash)
	}
	if len(dash.Last7Days) != 7 {
		t.Errorf("expected 7 chart points, got %d", len(dash.Last7Days))
	}
}

func TestFinalize_AfterShiftClosedKeepsDiscrepancy(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	cashier := e.member(t, s, "caio", user.RoleCashier)
	e.openShift(t, s, cashier)
	p := e.product(t, s, "Casaco", 50, 0, 5)

	sl, err := e.sales.StartSale(ctx, cashier)
	if err != nil {
		t.Fatalf("start sale: %v", err)
	}
	if _, err := e.sales.AddItem(ctx, cashier, sl.ID, p.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	closed, err := e.shifts.CloseShift(ctx, cashier, service.CloseShiftInput{
		ShiftID:         sl.ShiftID,
		CountedAmount:   decimal.NewFromInt(100),
		ManagerID:       s.manager.ID,
		ManagerPassword: managerPassword,
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}

	_, err = e.sales.Finalize(ctx, cashier, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID})
	as[*apperror.PreconditionError](t, err)

	stored, _ := e.repos.Sales.FindByID(ctx, s.tenant.ID, sl.ID)
	if stored.Status != sale.StatusDraft {
		t.Errorf("sale must stay draft, got %s", stored.Status)
	}
	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, p.ID)
	if got.Stock != 5 {
		t.Errorf("stock must not change, got %d", got.Stock)
	}
	sum, err := e.repos.Sales.SumFinalizedByShift(ctx, s.tenant.ID, sl.ShiftID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if closed.CountedAmount == nil || closed.Discrepancy == nil {
		t.Fatalf("closed shift without counted amount or discrepancy: %+v", closed)
	}
	expected := closed.OpeningAmount.Add(sum)
	if !closed.CountedAmount.Sub(expected).Equal(*closed.Discrepancy) {
		t.Errorf("discrepancy %s no longer matches counted %s minus expected %s",
			closed.Discrepancy, closed.CountedAmount, expected)
	}
}

func TestFinalize_FinalizedSaleWithForeignMethodIsInvalidState(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	other := e.signup(t, "bia")
	e.openShift(t, s, s.actor)
	p := e.product(t, s, "Luva", 15, 0, 4)

	sl, _ := e.sales.StartSale(ctx, s.actor)
	if _, err := e.sales.AddItem(ctx, s.actor, sl.ID, p.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	for _, method := range []string{other.paymentID, "inexistente"} {
		_, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: method})
		as[*apperror.InvalidStateError](t, err)
	}
}

func TestFinalize_ConcurrentSalesCompeteForLastUnit(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	p := e.product(t, s, "Relógio", 200, 0, 1)

	sellers := []access.Actor{
		e.member(t, s, "vera", user.RoleSeller),
		e.member(t, s, "caio", user.RoleCashier),
	}
	saleIDs := make([]string, len(sellers))
	for i, seller := range sellers {
		e.openShift(t, s, seller)
		sl, err := e.sales.StartSale(ctx, seller)
		if err != nil {
			t.Fatalf("start sale: %v", err)
		}
		if _, err := e.sales.AddItem(ctx, seller, sl.ID, p.ID, 1); err != nil {
			t.Fatalf("add item: %v", err)
		}
		saleIDs[i] = sl.ID
	}

	errs := make([]error, len(sellers))
	var wg sync.WaitGroup
	for i, seller := range sellers {
		wg.Add(1)
		go func(i int, seller access.Actor) {
			defer wg.Done()
			_, errs[i] = e.sales.Finalize(ctx, seller, service.FinalizeInput{SaleID: saleIDs[i], PaymentMethodID: s.paymentID})
		}(i, seller)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		var precondition *apperror.PreconditionError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &precondition):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Errorf("expected 1 success and 1 rejection, got %d and %d", ok, rejected)
	}

	got, _ := e.repos.Products.FindByID(ctx, s.tenant.ID, p.ID)
	if got.Stock != 0 {
		t.Errorf("expected stock 0, got %d", got.Stock)
	}
	entries, _ := e.repos.Ledger.List(ctx, s.tenant.ID)
	if len(entries) != 1 {
		t.Errorf("expected a single revenue entry, got %d", len(entries))
	}
}
