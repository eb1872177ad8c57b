package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

func TestSummarize_OnlyPaidEntries(t *testing.T) {
	now := time.Now()
	revenue, _ := ledger.NewSaleRevenue("t1", "s1", "abcd1234", "PIX", decimal.NewFromInt(100), now)
	rent, _ := ledger.NewExpense("t1", "Aluguel", decimal.NewFromInt(40), now, true, now)
	open, _ := ledger.NewExpense("t1", "Energia", decimal.NewFromInt(25), now, false, now)

	b := ledger.Summarize([]*ledger.Entry{revenue, rent, open})

	if !b.Revenue.Equal(decimal.NewFromInt(100)) || !b.Expense.Equal(decimal.NewFromInt(40)) {
		t.Errorf("unexpected balance %+v", b)
	}
	if !b.Net.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected net 60, got %s", b.Net)
	}
}

func TestMarkPaid(t *testing.T) {
	e, err := ledger.NewExpense("t1", "Energia", decimal.NewFromInt(25), time.Now(), false, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.MarkPaid(time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Paid || e.PaidAt == nil {
		t.Error("entry should be paid")
	}
	if err := e.MarkPaid(time.Now()); !errors.Is(err, ledger.ErrAlreadyPaid) {
		t.Errorf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestNewExpense_Validation(t *testing.T) {
	if _, err := ledger.NewExpense("t1", "x", decimal.Zero, time.Now(), false, time.Now()); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ledger.NewExpense("t1", " ", decimal.NewFromInt(1), time.Now(), false, time.Now()); !errors.Is(err, ledger.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := ledger.NewExpense("t1", "x", decimal.NewFromInt(1), time.Time{}, false, time.Now()); !errors.Is(err, ledger.ErrMissingDueDate) {
		t.Errorf("expected ErrMissingDueDate, got %v", err)
	}
}
