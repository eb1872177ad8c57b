package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Políticas de venda acima do estoque disponível
const (
	StockPolicyReject        = "reject"
	StockPolicyAllowNegative = "allow_negative"
)

// Config agrupa toda a configuração da aplicação, lida de variáveis de ambiente
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Log      LogConfig
	Billing  BillingConfig
	Sales    SalesConfig
	Fiscal   FiscalConfig
	Cache    CacheConfig
	Admin    AdminConfig

	// Storage escolhe o armazenamento: postgres ou memory
	Storage      string
	OTLPEndpoint string
}

// ServerConfig configura o servidor HTTP
type ServerConfig struct {
	Port    string
	GinMode string
}

// PostgresConfig contém as configurações para conexão com o PostgreSQL
type PostgresConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
}

// JWTConfig configura a emissão de tokens
type JWTConfig struct {
	SecretKey       string
	ExpirationHours int
}

// LogConfig configura o logger
type LogConfig struct {
	Level string
}

// BillingConfig configura o provedor de cobrança (Asaas)
type BillingConfig struct {
	URL          string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	WebhookToken string
}

// SalesConfig configura regras de venda
type SalesConfig struct {
	StockPolicy string
}

// FiscalConfig configura o despacho assíncrono de NFC-e
type FiscalConfig struct {
	Workers   int
	QueueSize int
}

// CacheConfig configura o cache de entitlement
type CacheConfig struct {
	EntitlementTTL time.Duration
}

// AdminConfig define o superusuário criado na inicialização, se ainda não existir
type AdminConfig struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Enabled informa se o superusuário deve ser criado
func (c AdminConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// Load lê a configuração das variáveis de ambiente com valores padrão
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("APP_PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "nexum_erp"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  int32(getEnvInt("DB_MAX_CONNECTIONS", 10)),
			MinConnections:  int32(getEnvInt("DB_MIN_CONNECTIONS", 2)),
			MaxConnLifetime: getEnvDuration("DB_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", "nexum-erp-dev-secret-change-me"),
			ExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Billing: BillingConfig{
			URL:          getEnv("ASAAS_URL", "https://sandbox.asaas.com/api/v3"),
			APIKey:       getEnv("ASAAS_API_KEY", ""),
			Timeout:      getEnvDuration("ASAAS_TIMEOUT", 5*time.Second),
			MaxRetries:   getEnvInt("ASAAS_MAX_RETRIES", 1),
			WebhookToken: getEnv("BILLING_WEBHOOK_TOKEN", ""),
		},
		Sales: SalesConfig{
			StockPolicy: getEnv("STOCK_POLICY", StockPolicyReject),
		},
		Fiscal: FiscalConfig{
			Workers:   getEnvInt("FISCAL_WORKERS", 2),
			QueueSize: getEnvInt("FISCAL_QUEUE_SIZE", 64),
		},
		Cache: CacheConfig{
			EntitlementTTL: getEnvDuration("ENTITLEMENT_CACHE_TTL", 30*time.Second),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Suporte Nexum"),
			Username: getEnv("ADMIN_USERNAME", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Storage:      getEnv("STORAGE", "postgres"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sales.StockPolicy {
	case StockPolicyReject, StockPolicyAllowNegative:
	default:
		return fmt.Errorf("STOCK_POLICY inválida: %q", c.Sales.StockPolicy)
	}
	switch c.Storage {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORAGE inválido: %q", c.Storage)
	}
	if c.Fiscal.Workers < 1 {
		return fmt.Errorf("FISCAL_WORKERS deve ser maior que zero")
	}
	return nil
}

// AllowNegativeStock informa se a venda pode deixar o estoque negativo
func (c SalesConfig) AllowNegativeStock() bool {
	return c.StockPolicy == StockPolicyAllowNegative
}

// ConnectionString retorna a string de conexão para o PostgreSQL
func (c PostgresConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
