package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

// Category agrupa produtos
type Category struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory cria uma categoria
func NewCategory(tenantID, name string) (*Category, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Category{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}

// Owner retorna a empresa dona do registro
func (c *Category) Owner() string { return c.TenantID }

// Supplier representa um fornecedor
type Supplier struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	LegalName string    `json:"legal_name"`
	Document  string    `json:"document,omitempty"` // CNPJ
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSupplier cria um fornecedor
func NewSupplier(tenantID, legalName, document, phone, email string) (*Supplier, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	legalName = strings.TrimSpace(legalName)
	if legalName == "" {
		return nil, ErrEmptyName
	}
	return &Supplier{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		LegalName: legalName,
		Document:  strings.TrimSpace(document),
		Phone:     strings.TrimSpace(phone),
		Email:     strings.TrimSpace(email),
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}

// Owner retorna a empresa dona do registro
func (s *Supplier) Owner() string { return s.TenantID }

// PaymentMethod representa uma forma de pagamento aceita pela loja
type PaymentMethod struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Name          string          `json:"name"`
	FeePercent    decimal.Decimal `json:"fee_percent"`     // taxa da operadora
	DaysToReceive int             `json:"days_to_receive"` // prazo de repasse
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPaymentMethod cria uma forma de pagamento
func NewPaymentMethod(tenantID, name string, feePercent decimal.Decimal, daysToReceive int) (*PaymentMethod, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if feePercent.IsNegative() || feePercent.GreaterThan(hundred) {
		return nil, ErrInvalidFee
	}
	if daysToReceive < 0 {
		return nil, ErrInvalidReceiveDays
	}
	return &PaymentMethod{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Name:          name,
		FeePercent:    feePercent,
		DaysToReceive: daysToReceive,
		Active:        true,
		CreatedAt:     time.Now(),
	}, nil
}

// Owner retorna a empresa dona do registro
func (m *PaymentMethod) Owner() string { return m.TenantID }

// DefaultPaymentMethods são as formas criadas no cadastro de uma nova empresa
func DefaultPaymentMethods(tenantID string) []*PaymentMethod {
	defaults := []struct {
		name string
		fee  decimal.Decimal
		days int
	}{
		{"Dinheiro", decimal.Zero, 0},
		{"Cartão Crédito", decimal.RequireFromString("3.5"), 30},
		{"PIX", decimal.Zero, 0},
	}

	methods := make([]*PaymentMethod, 0, len(defaults))
	for _, d := range defaults {
		m, err := NewPaymentMethod(tenantID, d.name, d.fee, d.days)
		if err != nil {
			continue
		}
		methods = append(methods, m)
	}
	return methods
}
