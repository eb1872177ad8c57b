package cash_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/shopspring/decimal"
)

func TestClose_ComputesDiscrepancy(t *testing.T) {
	s, err := cash.NewShift("t1", "reg1", "op1", decimal.NewFromInt(100), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = s.Close(decimal.NewFromInt(340), decimal.NewFromInt(250), " faltou troco ", "mgr1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ExpectedAmount == nil || !s.ExpectedAmount.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected 350, got %v", s.ExpectedAmount)
	}
	if s.Discrepancy == nil || !s.Discrepancy.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("expected discrepancy -10, got %v", s.Discrepancy)
	}
	if s.ClosedBy != "mgr1" || s.ClosingNotes != "faltou troco" {
		t.Errorf("unexpected closing data: %+v", s)
	}
	if s.IsOpen() {
		t.Error("shift should be closed")
	}
}

func TestClose_Twice(t *testing.T) {
	s, _ := cash.NewShift("t1", "reg1", "op1", decimal.Zero, time.Now())
	if err := s.Close(decimal.Zero, decimal.Zero, "", "mgr1", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(decimal.Zero, decimal.Zero, "", "mgr1", time.Now()); !errors.Is(err, cash.ErrShiftClosed) {
		t.Fatalf("expected ErrShiftClosed, got %v", err)
	}
}

func TestNewShift_Validation(t *testing.T) {
	if _, err := cash.NewShift("t1", "reg1", "op1", decimal.NewFromInt(-1), time.Now()); !errors.Is(err, cash.ErrNegativeOpening) {
		t.Errorf("expected ErrNegativeOpening, got %v", err)
	}
	if _, err := cash.NewShift("t1", "", "op1", decimal.Zero, time.Now()); !errors.Is(err, cash.ErrEmptyRegister) {
		t.Errorf("expected ErrEmptyRegister, got %v", err)
	}
	if _, err := cash.NewShift("", "reg1", "op1", decimal.Zero, time.Now()); err == nil {
		t.Error("expected error for missing tenant")
	}
}
