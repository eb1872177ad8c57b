package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestOpenShift_ConcurrentRequestsOpenOnlyOne(t *testing.T) {
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	cashier := e.member(t, s, "caio", user.RoleCashier)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		opened    int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.shifts.OpenShift(context.Background(), cashier, s.registerID, decimal.NewFromInt(50))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				opened++
			case apperror.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if opened != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 open and %d conflicts, got %d and %d", attempts-1, opened, conflicts)
	}
}

func TestCloseShift_RequiresManagerAuthorization(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	cashier := e.member(t, s, "caio", user.RoleCashier)
	other := e.member(t, s, "vera", user.RoleSeller)
	e.openShift(t, s, cashier)

	shift, err := e.shifts.CurrentShift(ctx, cashier)
	if err != nil {
		t.Fatalf("current shift: %v", err)
	}

	tests := []struct {
		name     string
		manager  string
		password string
	}{
		{"missing manager", "", ""},
		{"wrong password", s.manager.ID, "errada"},
		{"not a manager", other.UserID, "senha123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.shifts.CloseShift(ctx, cashier, service.CloseShiftInput{
				ShiftID:         shift.ID,
				CountedAmount:   decimal.NewFromInt(100),
				ManagerID:       tt.manager,
				ManagerPassword: tt.password,
			})
			as[*apperror.AuthorizationError](t, err)
		})
	}

	if current, err := e.shifts.CurrentShift(ctx, cashier); err != nil || !current.IsOpen() {
		t.Fatalf("shift must remain open, got %v (%v)", current, err)
	}
}

func TestCloseShift_DiscrepancyAgainstFinalizedSales(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	cashier := e.member(t, s, "caio", user.RoleCashier)
	e.openShift(t, s, cashier)
	p := e.product(t, s, "Camisa", 80, 0, 5)

	sl, err := e.sales.StartSale(ctx, cashier)
	if err != nil {
		t.Fatalf("start sale: %v", err)
	}
	e.sales.AddItem(ctx, cashier, sl.ID, p.ID, 1)
	if _, err := e.sales.Finalize(ctx, cashier, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	in := service.CloseShiftInput{
		ShiftID:         sl.ShiftID,
		CountedAmount:   decimal.NewFromInt(170),
		Notes:           "conferido",
		ManagerID:       s.manager.ID,
		ManagerPassword: managerPassword,
	}
	closed, err := e.shifts.CloseShift(ctx, cashier, in)
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	if !closed.ExpectedAmount.Equal(decimal.NewFromInt(180)) || !closed.Discrepancy.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("expected 180 expected and -10 discrepancy, got %s and %s", closed.ExpectedAmount, closed.Discrepancy)
	}

	_, err = e.shifts.CloseShift(ctx, cashier, in)
	as[*apperror.NotFoundError](t, err)

	if _, err := e.shifts.CurrentShift(ctx, cashier); !apperror.IsNotFound(err) {
		t.Errorf("expected no open shift, got %v", err)
	}
}

func TestOpenShift_ForeignRegister(t *testing.T) {
	e := newEnv(t, false)
	a := e.signup(t, "ana")
	b := e.signup(t, "bia")

	_, err := e.shifts.OpenShift(context.Background(), a.actor, b.registerID, decimal.Zero)
	as[*apperror.NotFoundError](t, err)
}
