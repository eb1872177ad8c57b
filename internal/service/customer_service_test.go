package service_test

import (
	"context"
	"testing"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

func TestCustomer_CreateUpdateAndIsolation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	customers := service.NewCustomerService(e.repos.Customers, logger.NewNop())
	a := e.signup(t, "ana")
	b := e.signup(t, "bia")

	c, err := customers.Create(ctx, a.actor, service.CustomerInput{
		Name:     "  Joana Lima ",
		Document: "123.456.789-00",
		Email:    "joana@cliente.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "Joana Lima" || c.TenantID != a.tenant.ID {
		t.Errorf("unexpected customer: %+v", c)
	}

	updated, err := customers.Update(ctx, a.actor, c.ID, service.CustomerInput{Name: "Joana L. Souza", Phone: "11 99999-0000"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Joana L. Souza" || updated.Phone != "11 99999-0000" {
		t.Errorf("unexpected update: %+v", updated)
	}

	_, err = customers.Get(ctx, b.actor, c.ID)
	as[*apperror.NotFoundError](t, err)

	_, err = customers.Update(ctx, b.actor, c.ID, service.CustomerInput{Name: "Invasor"})
	as[*apperror.NotFoundError](t, err)

	stored, err := customers.Get(ctx, a.actor, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Joana L. Souza" {
		t.Errorf("foreign update must not apply, got %q", stored.Name)
	}

	list, err := customers.List(ctx, b.actor, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no customers for the other store, got %d", len(list))
	}
}

func TestCustomer_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	customers := service.NewCustomerService(e.repos.Customers, logger.NewNop())
	s := e.signup(t, "ana")

	tests := []struct {
		name string
		in   service.CustomerInput
	}{
		{"nome vazio", service.CustomerInput{Name: "   "}},
		{"email inválido", service.CustomerInput{Name: "Joana", Email: "joana@"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customers.Create(ctx, s.actor, tt.in)
			as[*apperror.ValidationError](t, err)
		})
	}

	clerk := e.member(t, s, "caio", user.RoleStockClerk)
	_, err := customers.Create(ctx, clerk, service.CustomerInput{Name: "Joana"})
	as[*apperror.AuthorizationError](t, err)
}

func TestCustomer_FinalizeRegistersLastPurchase(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	customers := service.NewCustomerService(e.repos.Customers, logger.NewNop())
	s := e.signup(t, "ana")
	e.openShift(t, s, s.actor)
	p := e.product(t, s, "Cinto", 25, 0, 3)

	c, err := customers.Create(ctx, s.actor, service.CustomerInput{Name: "Joana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.LastPurchaseAt != nil {
		t.Fatalf("new customer must not have purchases")
	}

	sl, _ := e.sales.StartSale(ctx, s.actor)
	if _, err := e.sales.AddItem(ctx, s.actor, sl.ID, p.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := e.sales.SetCustomer(ctx, s.actor, sl.ID, c.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := e.sales.Finalize(ctx, s.actor, service.FinalizeInput{SaleID: sl.ID, PaymentMethodID: s.paymentID}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	stored, err := customers.Get(ctx, s.actor, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.LastPurchaseAt == nil {
		t.Error("expected last purchase to be registered")
	}
}
