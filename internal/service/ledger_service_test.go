package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestLedger_ExpenseLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")

	entry, err := e.ledger.AddExpense(ctx, s.actor, service.ExpenseInput{
		Title:   "Aluguel",
		Amount:  decimal.NewFromInt(1200),
		DueDate: time.Now().AddDate(0, 0, 5),
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	balance, _ := e.ledger.Balance(ctx, s.actor)
	if !balance.Expense.IsZero() {
		t.Errorf("open expense must not count, got %s", balance.Expense)
	}

	if _, err := e.ledger.MarkPaid(ctx, s.actor, entry.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	_, err = e.ledger.MarkPaid(ctx, s.actor, entry.ID)
	as[*apperror.InvalidStateError](t, err)

	balance, _ = e.ledger.Balance(ctx, s.actor)
	if !balance.Net.Equal(decimal.NewFromInt(-1200)) {
		t.Errorf("expected net -1200, got %s", balance.Net)
	}
}

func TestLedger_AccessRules(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	s := e.signup(t, "ana")
	cashier := e.member(t, s, "caio", user.RoleCashier)

	_, err := e.ledger.ListEntries(ctx, cashier)
	as[*apperror.AuthorizationError](t, err)

	e.updateTenant(t, s, func(tn *tenant.Tenant) {
		past := tenant.Date(time.Now()).AddDate(0, 0, -1)
		tn.ExpiresAt = &past
	})
	_, err = e.ledger.ListEntries(ctx, s.actor)
	as[*apperror.PaymentRequiredError](t, err)
}
