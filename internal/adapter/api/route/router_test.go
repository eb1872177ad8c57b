package route_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/route"
	"github.com/hugohenrick/nexum-erp/internal/adapter/repository/memory"
	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/auth"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/shopspring/decimal"
)

const webhookToken = "segredo-webhook"

type noopQueue struct{}

func (noopQueue) Enqueue(service.FiscalJob) error { return nil }

type nopProvider struct{ billing.Provider }

type server struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.NewNop()
	metrics := observability.NewMetrics()

	jwtService, err := auth.NewJWTService("segredo-de-teste", time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	accessService := service.NewAccessService(repos.Users, repos.Tenants, nil, log)
	tenantService := service.NewTenantService(repos, store, accessService, log)
	catalogService := service.NewCatalogService(repos, store, log)
	billingService := service.NewBillingService(repos, store, nopProvider{}, accessService, metrics, log)

	router := route.NewRouter(route.RouterConfig{
		JWT:          jwtService,
		Actors:       accessService,
		WebhookToken: webhookToken,
		Logger:       log,
		Metrics:      metrics,
		Gatherer:     metrics.Registry,
	}, route.Controllers{
		Auth:      controller.NewAuthController(service.NewAuthService(repos.Users, jwtService, log), tenantService, jwtService, log),
		Tenant:    controller.NewTenantController(tenantService, log),
		User:      controller.NewUserController(service.NewTeamService(repos, store, log), log),
		Shift:     controller.NewShiftController(service.NewShiftService(repos, store, metrics, log), log),
		Sale:      controller.NewSaleController(service.NewSaleService(repos, store, noopQueue{}, false, metrics, log), log),
		Product:   controller.NewProductController(catalogService, log),
		Reference: controller.NewReferenceController(catalogService, log),
		Customer:  controller.NewCustomerController(service.NewCustomerService(repos.Customers, log), log),
		Ledger:    controller.NewLedgerController(service.NewLedgerService(repos.Ledger, store, log), log),
		Billing:   controller.NewBillingController(billingService, log),
		Report:    controller.NewReportController(service.NewReportService(repos), log),
	})

	return &server{t: t, router: router, store: store}
}

func (s *server) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

// signupAndLogin cadastra uma loja e retorna o token do gerente e o ID da empresa
func (s *server) signupAndLogin(username string) (string, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/signup", "", dto.SignupRequest{
		StoreName:   "Loja " + username,
		ManagerName: "Gerente " + username,
		Username:    username,
		Email:       username + "@loja.com",
		Password:    "gerente123",
	})
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	signup := decode[dto.SignupResponse](s.t, rec)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: username, Password: "gerente123"})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	return decode[dto.LoginResponse](s.t, rec).AccessToken, signup.Tenant.ID
}

func (s *server) updateTenant(id string, fn func(*tenant.Tenant)) {
	s.t.Helper()
	ctx := context.Background()
	tn, err := s.store.Tenants().FindByID(ctx, id)
	if err != nil {
		s.t.Fatalf("find tenant: %v", err)
	}
	fn(tn)
	if err := s.store.Tenants().Update(ctx, tn); err != nil {
		s.t.Fatalf("update tenant: %v", err)
	}
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	s := newServer(t)

	if rec := s.do(http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/v1/billing/plans", "", nil); rec.Code != http.StatusOK {
		t.Errorf("plans: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/metrics", "", nil); rec.Code != http.StatusOK {
		t.Errorf("metrics: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/v1/products", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("products without token: expected 401, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/v1/products", "token-invalido", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("products with bad token: expected 401, got %d", rec.Code)
	}
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	s := newServer(t)
	s.signupAndLogin("ana")

	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: "ana", Password: "errada"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSaleFlowOverHTTP(t *testing.T) {
	s := newServer(t)
	token, _ := s.signupAndLogin("ana")

	rec := s.do(http.MethodGet, "/api/v1/registers", token, nil)
	registers := decode[[]cash.Register](t, rec)
	if len(registers) == 0 {
		t.Fatalf("expected default register, got %s", rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/v1/sales", token, nil)
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("sale without shift: expected 412, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/v1/shifts", token, dto.OpenShiftRequest{RegisterID: registers[0].ID, OpeningAmount: decimal.NewFromInt(100)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open shift: %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodPost, "/api/v1/shifts", token, dto.OpenShiftRequest{RegisterID: registers[0].ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second shift: expected 409, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/v1/products", token, dto.ProductRequest{
		Name:         "Camiseta",
		SalePrice:    decimal.NewFromInt(10),
		InitialStock: 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}
	product := decode[catalog.Product](t, rec)

	rec = s.do(http.MethodGet, "/api/v1/payment-methods", token, nil)
	methods := decode[[]catalog.PaymentMethod](t, rec)
	if len(methods) == 0 {
		t.Fatalf("expected default payment methods, got %s", rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/v1/sales", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start sale: %d %s", rec.Code, rec.Body.String())
	}
	sl := decode[sale.Sale](t, rec)

	rec = s.do(http.MethodPost, "/api/v1/sales/"+sl.ID+"/finalize", token, dto.FinalizeSaleRequest{PaymentMethodID: methods[0].ID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty sale: expected 400, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/v1/sales/"+sl.ID+"/items", token, dto.AddItemRequest{ProductID: product.ID, Quantity: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/v1/sales/"+sl.ID+"/finalize", token, dto.FinalizeSaleRequest{PaymentMethodID: methods[0].ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize: %d %s", rec.Code, rec.Body.String())
	}
	finalized := decode[dto.FinalizeSaleResponse](t, rec)
	if !finalized.Sale.Total.Equal(decimal.NewFromInt(20)) || finalized.Warnings == nil {
		t.Errorf("unexpected finalize response: %s", rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/v1/sales/"+sl.ID+"/finalize", token, dto.FinalizeSaleRequest{PaymentMethodID: methods[0].ID})
	if rec.Code != http.StatusConflict {
		t.Errorf("second finalize: expected 409, got %d", rec.Code)
	}
}

func TestGate_BlockedTenant(t *testing.T) {
	s := newServer(t)
	token, tenantID := s.signupAndLogin("ana")
	s.updateTenant(tenantID, func(tn *tenant.Tenant) { tn.Block(time.Now()) })

	rec := s.do(http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["motivo"] != "bloqueada" {
		t.Errorf("expected motivo bloqueada, got %v", body)
	}
}

func TestGate_ExpiredTenant(t *testing.T) {
	s := newServer(t)
	token, tenantID := s.signupAndLogin("ana")
	s.updateTenant(tenantID, func(tn *tenant.Tenant) {
		past := tenant.Date(time.Now()).AddDate(0, 0, -2)
		tn.ExpiresAt = &past
	})

	rec := s.do(http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reads stay available: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.PlanExpiredHeader) != "true" {
		t.Errorf("expected %s header", middleware.PlanExpiredHeader)
	}

	rec = s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Camisetas"})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("mutation: expected 402, got %d", rec.Code)
	}
	resp := decode[dto.ErrorResponse](t, rec)
	if resp.RedirectTo == "" {
		t.Errorf("expected redirect to plan selection, got %+v", resp)
	}
}

func TestWebhook(t *testing.T) {
	s := newServer(t)
	_, tenantID := s.signupAndLogin("ana")
	s.updateTenant(tenantID, func(tn *tenant.Tenant) { tn.BillingCustomerID = "cus_ana" })

	event := map[string]interface{}{
		"event":   billing.EventPaymentConfirmed,
		"payment": map[string]interface{}{"id": "pay_1", "customer": "cus_ana", "value": 249},
	}

	if rec := s.do(http.MethodPost, "/api/v1/billing/webhook", "", event); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/v1/billing/webhook", "", event, middleware.WebhookTokenHeader, webhookToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: %d %s", rec.Code, rec.Body.String())
	}

	tn, _ := s.store.Tenants().FindByID(context.Background(), tenantID)
	if tn.Plan != tenant.PlanPro {
		t.Errorf("expected PRO after payment, got %s", tn.Plan)
	}

	unknown := map[string]interface{}{
		"event":   billing.EventPaymentReceived,
		"payment": map[string]interface{}{"id": "pay_2", "customer": "cus_x", "value": 129},
	}
	rec = s.do(http.MethodPost, "/api/v1/billing/webhook", "", unknown, middleware.WebhookTokenHeader, webhookToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown customer: expected 404, got %d", rec.Code)
	}
}

func TestSuperuserSelectsTenantByHeader(t *testing.T) {
	s := newServer(t)
	_, tenantID := s.signupAndLogin("ana")

	authSvc := service.NewAuthService(s.store.Users(), nil, logger.NewNop())
	if _, err := authSvc.CreateSuperuser(context.Background(), "Suporte", "suporte", "suporte@nexum.com", "suporte123"); err != nil {
		t.Fatalf("superuser: %v", err)
	}
	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: "suporte", Password: "suporte123"})
	token := decode[dto.LoginResponse](t, rec).AccessToken

	rec = s.do(http.MethodGet, "/api/v1/tenant", token, nil, middleware.TenantHeader, tenantID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/v1/admin/tenants", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", rec.Code)
	}
}

func TestUpdateUserOverHTTP(t *testing.T) {
	s := newServer(t)
	token, _ := s.signupAndLogin("ana")

	rec := s.do(http.MethodPost, "/api/v1/users", token, dto.UserRequest{
		Name: "Vera", Username: "vera", Password: "senha123", Role: "VENDEDOR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.UserResponse](t, rec)

	rec = s.do(http.MethodPut, "/api/v1/users/"+created.ID, token, dto.UpdateUserRequest{
		Name: "Vera Lima", Password: "novasenha", Role: "CAIXA",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update user: %d %s", rec.Code, rec.Body.String())
	}
	if updated := decode[dto.UserResponse](t, rec); updated.Role != "CAIXA" || updated.Name != "Vera Lima" {
		t.Errorf("unexpected user: %+v", updated)
	}

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: "vera", Password: "novasenha"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected login with the new password, got %d", rec.Code)
	}

	otherToken, _ := s.signupAndLogin("bia")
	rec = s.do(http.MethodPut, "/api/v1/users/"+created.ID, otherToken, dto.UpdateUserRequest{Name: "Invasor", Role: "GERENTE"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another store, got %d", rec.Code)
	}
}
