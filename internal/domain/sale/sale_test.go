package sale_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/shopspring/decimal"
)

func product(t *testing.T, tenantID, name string, price, commission int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, catalog.ProductData{
		Name:              name,
		SalePrice:         decimal.NewFromInt(price),
		CommissionPercent: decimal.NewFromInt(commission),
	}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func draft(t *testing.T) *sale.Sale {
	t.Helper()
	s, err := sale.NewSale("t1", "op1", "shift1", "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestFinalize_TotalFromItemsMinusDiscount(t *testing.T) {
	s := draft(t)
	if _, err := s.AddItem(product(t, "t1", "Camiseta", 10, 0), 2, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddItem(product(t, "t1", "Meia", 5, 0), 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetDiscount(decimal.NewFromInt(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Finalize("pix", false, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Total.Equal(decimal.NewFromInt(22)) {
		t.Errorf("expected total 22, got %s", s.Total)
	}
	if s.Status != sale.StatusFinalized || s.FinalizedAt == nil {
		t.Errorf("expected finalized sale, got %s", s.Status)
	}
	if qty := s.QuantitiesByProduct(); len(qty) != 2 {
		t.Errorf("expected 2 products, got %v", qty)
	}
}

func TestAddItem_FreezesPriceAndCommission(t *testing.T) {
	s := draft(t)
	p := product(t, "t1", "Calça", 30, 10)

	item, err := s.AddItem(p, 2, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.SalePrice = decimal.NewFromInt(99)
	if !item.UnitPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected frozen price 30, got %s", item.UnitPrice)
	}
	if item.Commission.StringFixed(2) != "6.00" {
		t.Errorf("expected commission 6.00, got %s", item.Commission.StringFixed(2))
	}
	if s.CommissionTotal().StringFixed(2) != "6.00" {
		t.Errorf("expected commission total 6.00, got %s", s.CommissionTotal())
	}
}

func TestAddItem_Rejections(t *testing.T) {
	s := draft(t)

	if _, err := s.AddItem(product(t, "t1", "A", 1, 0), 0, time.Now()); !errors.Is(err, sale.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := s.AddItem(product(t, "t2", "B", 1, 0), 1, time.Now()); !errors.Is(err, sale.ErrForeignProduct) {
		t.Errorf("expected ErrForeignProduct, got %v", err)
	}

	inactive := product(t, "t1", "C", 1, 0)
	inactive.Deactivate()
	if _, err := s.AddItem(inactive, 1, time.Now()); !errors.Is(err, sale.ErrInactiveProduct) {
		t.Errorf("expected ErrInactiveProduct, got %v", err)
	}
}

func TestFinalize_EmptySale(t *testing.T) {
	s := draft(t)
	if err := s.Finalize("pix", false, time.Now()); !errors.Is(err, sale.ErrEmptySale) {
		t.Fatalf("expected ErrEmptySale, got %v", err)
	}
	if s.Status != sale.StatusDraft {
		t.Errorf("expected draft, got %s", s.Status)
	}
}

func TestFinalizedSaleIsImmutable(t *testing.T) {
	s := draft(t)
	if _, err := s.AddItem(product(t, "t1", "A", 10, 0), 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Finalize("pix", false, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Finalize("pix", false, time.Now()); !errors.Is(err, sale.ErrNotDraft) {
		t.Errorf("expected ErrNotDraft on second finalize, got %v", err)
	}
	if _, err := s.AddItem(product(t, "t1", "B", 10, 0), 1, time.Now()); !errors.Is(err, sale.ErrNotDraft) {
		t.Errorf("expected ErrNotDraft on add item, got %v", err)
	}
	if err := s.Cancel(time.Now()); !errors.Is(err, sale.ErrNotDraft) {
		t.Errorf("expected ErrNotDraft on cancel, got %v", err)
	}
}

func TestSetDiscount_Bounds(t *testing.T) {
	s := draft(t)
	if _, err := s.AddItem(product(t, "t1", "A", 10, 0), 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SetDiscount(decimal.NewFromInt(-1)); !errors.Is(err, sale.ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount, got %v", err)
	}
	if err := s.SetDiscount(decimal.NewFromInt(11)); !errors.Is(err, sale.ErrDiscountTooHigh) {
		t.Errorf("expected ErrDiscountTooHigh, got %v", err)
	}
	if err := s.SetDiscount(decimal.NewFromInt(10)); err != nil {
		t.Errorf("discount equal to subtotal should be accepted: %v", err)
	}
}
