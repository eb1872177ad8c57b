package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle     = errors.New("título não pode ser vazio")
	ErrInvalidAmount  = errors.New("valor deve ser positivo")
	ErrMissingDueDate = errors.New("data de vencimento não informada")
	ErrAlreadyPaid    = errors.New("lançamento já está pago")
)

// Type representa o tipo do lançamento
type Type string

const (
	TypeRevenue Type = "RECEITA"
	TypeExpense Type = "DESPESA"
)

// Entry é um lançamento financeiro. Lançamentos não são apagados;
// a única mutação permitida é a baixa de pagamento.
type Entry struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Title     string          `json:"title"`
	Type      Type            `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	PaidAt    *time.Time      `json:"paid_at"`
	Paid      bool            `json:"paid"`
	SaleID    string          `json:"sale_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSaleRevenue cria a receita paga gerada pela finalização de uma venda
func NewSaleRevenue(tenantID, saleID, saleNumber, paymentMethod string, amount decimal.Decimal, now time.Time) (*Entry, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	today := dateOf(now)
	return &Entry{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Title:     fmt.Sprintf("Venda #%s - %s", saleNumber, paymentMethod),
		Type:      TypeRevenue,
		Amount:    amount,
		DueDate:   today,
		PaidAt:    &today,
		Paid:      true,
		SaleID:    saleID,
		CreatedAt: now,
	}, nil
}

// NewExpense cria uma despesa, opcionalmente já paga
func NewExpense(tenantID, title string, amount decimal.Decimal, dueDate time.Time, paid bool, now time.Time) (*Entry, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if dueDate.IsZero() {
		return nil, ErrMissingDueDate
	}

	e := &Entry{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Title:     title,
		Type:      TypeExpense,
		Amount:    amount,
		DueDate:   dateOf(dueDate),
		CreatedAt: now,
	}
	if paid {
		due := e.DueDate
		e.Paid = true
		e.PaidAt = &due
	}
	return e, nil
}

// Owner retorna a empresa dona do registro
func (e *Entry) Owner() string {
	return e.TenantID
}

// MarkPaid dá baixa no lançamento
func (e *Entry) MarkPaid(at time.Time) error {
	if e.Paid {
		return ErrAlreadyPaid
	}
	day := dateOf(at)
	e.Paid = true
	e.PaidAt = &day
	return nil
}

// Balance resume receitas e despesas pagas
type Balance struct {
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Summarize calcula o saldo considerando apenas lançamentos pagos
func Summarize(entries []*Entry) Balance {
	b := Balance{Revenue: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		if !e.Paid {
			continue
		}
		switch e.Type {
		case TypeRevenue:
			b.Revenue = b.Revenue.Add(e.Amount)
		case TypeExpense:
			b.Expense = b.Expense.Add(e.Amount)
		}
	}
	b.Net = b.Revenue.Sub(b.Expense)
	return b
}

// Repository define as operações de persistência do livro financeiro
type Repository interface {
	// Create grava um lançamento. Uma venda gera no máximo uma receita.
	Create(ctx context.Context, e *Entry) error

	// FindByID busca um lançamento da empresa
	FindByID(ctx context.Context, tenantID, id string) (*Entry, error)

	// FindBySale busca a receita gerada por uma venda
	FindBySale(ctx context.Context, tenantID, saleID string) (*Entry, error)

	// List lista os lançamentos da empresa, vencimentos mais recentes primeiro
	List(ctx context.Context, tenantID string) ([]*Entry, error)

	// MarkPaid grava a baixa de pagamento
	MarkPaid(ctx context.Context, e *Entry) error
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
