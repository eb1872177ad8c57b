package cash

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeOpening   = errors.New("valor de abertura não pode ser negativo")
	ErrNegativeCounted   = errors.New("valor contado não pode ser negativo")
	ErrShiftClosed       = errors.New("turno já está fechado")
	ErrEmptyRegister     = errors.New("caixa não informado")
	ErrEmptyOperator     = errors.New("operador não informado")
	ErrEmptyRegisterName = errors.New("nome do caixa não pode ser vazio")
)

// Status representa o estado de um turno de caixa
type Status string

const (
	StatusOpen   Status = "ABERTO"
	StatusClosed Status = "FECHADO"
)

// Shift é o período em que um operador responde por um caixa físico.
// Transição única: ABERTO -> FECHADO.
type Shift struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"tenant_id"`
	RegisterID     string           `json:"register_id"`
	OperatorID     string           `json:"operator_id"`
	Status         Status           `json:"status"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	OpenedAt       time.Time        `json:"opened_at"`
	CountedAmount  *decimal.Decimal `json:"counted_amount"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
	Discrepancy    *decimal.Decimal `json:"discrepancy"`
	ClosingNotes   string           `json:"closing_notes,omitempty"`
	ClosedBy       string           `json:"closed_by,omitempty"` // gerente que autorizou
	ClosedAt       *time.Time       `json:"closed_at"`
}

// NewShift abre um turno para o operador no caixa informado
func NewShift(tenantID, registerID, operatorID string, openingAmount decimal.Decimal, now time.Time) (*Shift, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if registerID == "" {
		return nil, ErrEmptyRegister
	}
	if operatorID == "" {
		return nil, ErrEmptyOperator
	}
	if openingAmount.IsNegative() {
		return nil, ErrNegativeOpening
	}

	return &Shift{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		RegisterID:    registerID,
		OperatorID:    operatorID,
		Status:        StatusOpen,
		OpeningAmount: openingAmount,
		OpenedAt:      now,
	}, nil
}

// Owner retorna a empresa dona do registro
func (s *Shift) Owner() string {
	return s.TenantID
}

// IsOpen informa se o turno está aberto
func (s *Shift) IsOpen() bool {
	return s.Status == StatusOpen
}

// Expected calcula o valor esperado na gaveta: abertura + vendas finalizadas
func Expected(opening, finalizedSales decimal.Decimal) decimal.Decimal {
	return opening.Add(finalizedSales)
}

// Close fecha o turno conferindo o valor contado contra o esperado
func (s *Shift) Close(counted, finalizedSales decimal.Decimal, notes, managerID string, now time.Time) error {
	if !s.IsOpen() {
		return ErrShiftClosed
	}
	if counted.IsNegative() {
		return ErrNegativeCounted
	}

	expected := Expected(s.OpeningAmount, finalizedSales)
	discrepancy := counted.Sub(expected)

	s.Status = StatusClosed
	s.CountedAmount = &counted
	s.ExpectedAmount = &expected
	s.Discrepancy = &discrepancy
	s.ClosingNotes = strings.TrimSpace(notes)
	s.ClosedBy = managerID
	s.ClosedAt = &now
	return nil
}

// Register representa um caixa físico da loja
type Register struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultRegisterName é o caixa criado no cadastro da empresa
const DefaultRegisterName = "Caixa Principal"

// NewRegister cria um caixa físico
func NewRegister(tenantID, name, notes string) (*Register, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRegisterName
	}
	return &Register{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Notes:     notes,
		Active:    true,
		CreatedAt: time.Now(),
	}, nil
}

// Owner retorna a empresa dona do registro
func (r *Register) Owner() string {
	return r.TenantID
}
