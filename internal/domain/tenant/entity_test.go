package tenant_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

func TestNewTenant_TrialWithProvisionalDocument(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	tn, err := tenant.NewTenant("Loja da Ana", "", tenant.SegmentClothing, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tn.Plan != tenant.PlanEssential || !tn.Active {
		t.Errorf("expected active ESSENCIAL tenant, got %s active=%v", tn.Plan, tn.Active)
	}
	if !strings.HasPrefix(tn.Document, tenant.ProvisionalDocumentPrefix) || !tn.HasProvisionalDocument() {
		t.Errorf("expected provisional document, got %q", tn.Document)
	}
	if got := tn.DaysRemaining(now); got != tenant.TrialDays {
		t.Errorf("expected %d trial days, got %d", tenant.TrialDays, got)
	}
}

func TestWithinPeriod_ExpiryDayIsInclusive(t *testing.T) {
	expires := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	tn := &tenant.Tenant{ExpiresAt: &expires, Plan: tenant.PlanEssential}

	if !tn.WithinPeriod(time.Date(2026, 3, 17, 23, 59, 0, 0, time.UTC)) {
		t.Error("expiry day should still be within period")
	}
	if tn.WithinPeriod(time.Date(2026, 3, 18, 0, 1, 0, 0, time.UTC)) {
		t.Error("day after expiry should be outside period")
	}
	if tn.HasFinancialAccess(time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)) {
		t.Error("expired ESSENCIAL should lose financial access")
	}
}

func TestApplyPayment_ProAmountExtendsThirtyDays(t *testing.T) {
	now := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	tn := &tenant.Tenant{Plan: tenant.PlanEssential, Active: false}

	tn.ApplyPayment(decimal.NewFromInt(249), now)

	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if tn.ExpiresAt == nil || !tn.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %v", want, tn.ExpiresAt)
	}
	if tn.Plan != tenant.PlanPro || !tn.Active {
		t.Errorf("expected active PRO, got %s active=%v", tn.Plan, tn.Active)
	}
	if !tn.MonthlyFee.Equal(decimal.NewFromInt(249)) {
		t.Errorf("expected fee 249, got %s", tn.MonthlyFee)
	}
}

func TestPlanForAmount(t *testing.T) {
	tests := []struct {
		value int64
		want  tenant.Plan
	}{
		{129, tenant.PlanEssential},
		{248, tenant.PlanEssential},
		{249, tenant.PlanPro},
		{500, tenant.PlanPro},
	}
	for _, tt := range tests {
		if got := tenant.PlanForAmount(decimal.NewFromInt(tt.value)); got != tt.want {
			t.Errorf("PlanForAmount(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}
