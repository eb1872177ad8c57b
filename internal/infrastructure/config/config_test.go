package config_test

import (
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STOCK_POLICY", "")
	t.Setenv("STORAGE", "memory")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sales.StockPolicy != config.StockPolicyReject {
		t.Errorf("expected reject policy, got %q", cfg.Sales.StockPolicy)
	}
	if cfg.Sales.AllowNegativeStock() {
		t.Error("reject policy must not allow negative stock")
	}
	if cfg.Billing.Timeout != 5*time.Second {
		t.Errorf("expected 5s billing timeout, got %s", cfg.Billing.Timeout)
	}
	if cfg.Billing.MaxRetries != 1 {
		t.Errorf("expected 1 retry, got %d", cfg.Billing.MaxRetries)
	}
}

func TestLoad_InvalidStockPolicy(t *testing.T) {
	t.Setenv("STOCK_POLICY", "backorder")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for unknown stock policy")
	}
}

func TestPostgresConfig_ConnectionString(t *testing.T) {
	pg := config.PostgresConfig{User: "u", Password: "p", Host: "db", Port: 5432, Database: "erp", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/erp?sslmode=disable"
	if got := pg.ConnectionString(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	pg.URL = "postgres://override"
	if got := pg.ConnectionString(); got != "postgres://override" {
		t.Errorf("DATABASE_URL must take precedence, got %q", got)
	}
}
