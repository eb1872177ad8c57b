package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

var (
	ErrNotDraft        = errors.New("venda não está em orçamento")
	ErrEmptySale       = errors.New("venda sem itens não pode ser finalizada")
	ErrInvalidQuantity = errors.New("quantidade deve ser um inteiro positivo")
	ErrInvalidDiscount = errors.New("desconto não pode ser negativo")
	ErrDiscountTooHigh = errors.New("desconto maior que o subtotal")
	ErrMissingPayment  = errors.New("forma de pagamento não informada")
	ErrInactiveProduct = errors.New("produto inativo")
	ErrForeignProduct  = errors.New("produto pertence a outra empresa")
	ErrMissingShift    = errors.New("venda precisa de um turno aberto")
	ErrMissingOperator = errors.New("venda precisa de um operador")
)

// Status representa o estado da venda
type Status string

const (
	StatusDraft     Status = "ORCAMENTO"
	StatusFinalized Status = "FECHADA"
	StatusCancelled Status = "CANCELADA"
)

// Item é uma linha da venda. Preço e comissão são congelados na inclusão.
type Item struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Commission  decimal.Decimal `json:"commission"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Subtotal retorna quantidade * preço unitário
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale é o agregado de venda (carrinho). ORCAMENTO é editável;
// FECHADA é imutável e já aplicou estoque e lançamento financeiro.
type Sale struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	OperatorID      string          `json:"operator_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	ShiftID         string          `json:"shift_id"`
	PaymentMethodID string          `json:"payment_method_id,omitempty"`
	Status          Status          `json:"status"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	FiscalIssued    bool            `json:"fiscal_issued"`
	FiscalWarning   string          `json:"fiscal_warning,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	FinalizedAt     *time.Time      `json:"finalized_at"`
	CancelledAt     *time.Time      `json:"cancelled_at"`
	Items           []Item          `json:"items"`
}

// NewSale cria uma venda em orçamento vinculada ao turno aberto do operador
func NewSale(tenantID, operatorID, shiftID, customerID string, now time.Time) (*Sale, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if operatorID == "" {
		return nil, ErrMissingOperator
	}
	if shiftID == "" {
		return nil, ErrMissingShift
	}
	return &Sale{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		OperatorID: operatorID,
		CustomerID: customerID,
		ShiftID:    shiftID,
		Status:     StatusDraft,
		Discount:   decimal.Zero,
		Total:      decimal.Zero,
		CreatedAt:  now,
	}, nil
}

// Owner retorna a empresa dona do registro
func (s *Sale) Owner() string {
	return s.TenantID
}

// IsDraft informa se a venda ainda pode ser editada
func (s *Sale) IsDraft() bool {
	return s.Status == StatusDraft
}

// AddItem inclui um produto congelando preço de venda e comissão atuais
func (s *Sale) AddItem(p *catalog.Product, quantity int, now time.Time) (*Item, error) {
	if !s.IsDraft() {
		return nil, ErrNotDraft
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if p.TenantID != s.TenantID {
		return nil, ErrForeignProduct
	}
	if !p.Active {
		return nil, ErrInactiveProduct
	}

	item := Item{
		ID:          uuid.New().String(),
		SaleID:      s.ID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.SalePrice,
		Commission:  catalog.Commission(p.SalePrice, quantity, p.CommissionPercent),
		CreatedAt:   now,
	}
	s.Items = append(s.Items, item)
	return &item, nil
}

// SetCustomer define o cliente da venda
func (s *Sale) SetCustomer(customerID string) error {
	if !s.IsDraft() {
		return ErrNotDraft
	}
	s.CustomerID = customerID
	return nil
}

// SetDiscount define o desconto em valor
func (s *Sale) SetDiscount(discount decimal.Decimal) error {
	if !s.IsDraft() {
		return ErrNotDraft
	}
	if discount.IsNegative() {
		return ErrInvalidDiscount
	}
	if discount.GreaterThan(s.Subtotal()) {
		return ErrDiscountTooHigh
	}
	s.Discount = discount
	return nil
}

// Subtotal soma os subtotais dos itens
func (s *Sale) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CurrentTotal recalcula o total a partir dos itens atuais.
// Para vendas fechadas retorna o total gravado na finalização.
func (s *Sale) CurrentTotal() decimal.Decimal {
	if s.Status == StatusFinalized {
		return s.Total
	}
	return s.Subtotal().Sub(s.Discount)
}

// CommissionTotal soma as comissões dos itens
func (s *Sale) CommissionTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Commission)
	}
	return total
}

// QuantitiesByProduct agrega as quantidades vendidas por produto
func (s *Sale) QuantitiesByProduct() map[string]int {
	qty := make(map[string]int, len(s.Items))
	for _, item := range s.Items {
		qty[item.ProductID] += item.Quantity
	}
	return qty
}

// Finalize fecha a venda calculando o total a partir dos itens
func (s *Sale) Finalize(paymentMethodID string, issueFiscal bool, now time.Time) error {
	if !s.IsDraft() {
		return ErrNotDraft
	}
	if len(s.Items) == 0 {
		return ErrEmptySale
	}
	if paymentMethodID == "" {
		return ErrMissingPayment
	}
	total := s.Subtotal().Sub(s.Discount)
	if total.IsNegative() {
		return ErrDiscountTooHigh
	}

	s.Total = total
	s.PaymentMethodID = paymentMethodID
	s.FiscalIssued = issueFiscal
	s.Status = StatusFinalized
	s.FinalizedAt = &now
	return nil
}

// Cancel cancela um orçamento
func (s *Sale) Cancel(now time.Time) error {
	if !s.IsDraft() {
		return ErrNotDraft
	}
	s.Status = StatusCancelled
	s.CancelledAt = &now
	return nil
}

// ShortID retorna o prefixo do ID usado em títulos e recibos
func (s *Sale) ShortID() string {
	if len(s.ID) < 8 {
		return s.ID
	}
	return s.ID[:8]
}
