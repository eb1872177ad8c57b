package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName          = errors.New("nome não pode ser vazio")
	ErrInvalidPrice       = errors.New("preço não pode ser negativo")
	ErrInvalidCommission  = errors.New("comissão deve estar entre 0 e 100")
	ErrInvalidMinStock    = errors.New("estoque mínimo não pode ser negativo")
	ErrInsufficientStock  = errors.New("estoque insuficiente")
	ErrInvalidQuantity    = errors.New("quantidade deve ser maior que zero")
	ErrInvalidReason      = errors.New("motivo de ajuste inválido")
	ErrInvalidFee         = errors.New("taxa deve estar entre 0 e 100")
	ErrInvalidReceiveDays = errors.New("prazo de recebimento não pode ser negativo")
)

// DefaultMinStock é o estoque mínimo sugerido para novos produtos
const DefaultMinStock = 5

var hundred = decimal.NewFromInt(100)

// Product representa um item vendável da empresa
type Product struct {
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	Name              string          `json:"name"`
	CategoryID        string          `json:"category_id,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	Size              string          `json:"size,omitempty"`  // Ex: P, M, G, 38, 42
	Color             string          `json:"color,omitempty"` // Ex: Azul, Estampado
	Description       string          `json:"description,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Stock             int             `json:"stock"`
	MinStock          int             `json:"min_stock"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductData agrupa os campos editáveis de um produto
type ProductData struct {
	Name              string
	CategoryID        string
	SupplierID        string
	Barcode           string
	Size              string
	Color             string
	Description       string
	CostPrice         decimal.Decimal
	SalePrice         decimal.Decimal
	CommissionPercent decimal.Decimal
	MinStock          int
}

// NewProduct cria um produto com o estoque inicial informado
func NewProduct(tenantID string, data ProductData, initialStock int) (*Product, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if initialStock < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	p := &Product{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Stock:     initialStock,
		Active:    true,
		CreatedAt: now,
	}
	if err := p.Update(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Owner retorna a empresa dona do registro
func (p *Product) Owner() string {
	return p.TenantID
}

// Update aplica os dados editáveis. O estoque só muda por venda ou ajuste.
func (p *Product) Update(data ProductData) error {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return ErrEmptyName
	}
	if data.CostPrice.IsNegative() || data.SalePrice.IsNegative() {
		return ErrInvalidPrice
	}
	if data.CommissionPercent.IsNegative() || data.CommissionPercent.GreaterThan(hundred) {
		return ErrInvalidCommission
	}
	if data.MinStock < 0 {
		return ErrInvalidMinStock
	}

	p.Name = name
	p.CategoryID = data.CategoryID
	p.SupplierID = data.SupplierID
	p.Barcode = strings.TrimSpace(data.Barcode)
	p.Size = data.Size
	p.Color = data.Color
	p.Description = data.Description
	p.CostPrice = data.CostPrice
	p.SalePrice = data.SalePrice
	p.CommissionPercent = data.CommissionPercent
	p.MinStock = data.MinStock
	p.UpdatedAt = time.Now()
	return nil
}

// IsLowStock informa se o estoque está no mínimo ou abaixo dele
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// Deactivate remove o produto do catálogo sem apagar o histórico de vendas
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Commission calcula a comissão de uma venda deste produto
func Commission(unitPrice decimal.Decimal, quantity int, percent decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Mul(percent).Div(hundred).Round(2)
}
