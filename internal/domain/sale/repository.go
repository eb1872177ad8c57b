package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository define as operações de persistência de vendas
type Repository interface {
	// Create grava uma venda em orçamento
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda da empresa com seus itens
	FindByID(ctx context.Context, tenantID, id string) (*Sale, error)

	// AddItem grava um item somente se a venda ainda estiver em orçamento
	AddItem(ctx context.Context, tenantID string, item *Item) error

	// UpdateDraft grava cliente e desconto de uma venda em orçamento
	UpdateDraft(ctx context.Context, s *Sale) error

	// MarkFinalized grava a transição ORCAMENTO -> FECHADA de forma condicional.
	// Retorna ErrNotDraft se outra requisição já finalizou ou cancelou a venda.
	MarkFinalized(ctx context.Context, s *Sale) error

	// MarkCancelled grava a transição ORCAMENTO -> CANCELADA de forma condicional
	MarkCancelled(ctx context.Context, s *Sale) error

	// SetFiscalWarning registra o aviso da emissão fiscal assíncrona
	SetFiscalWarning(ctx context.Context, tenantID, id, warning string) error

	// SumFinalizedByShift soma os totais das vendas fechadas do turno
	SumFinalizedByShift(ctx context.Context, tenantID, shiftID string) (decimal.Decimal, error)

	// ListFinalized lista as vendas fechadas no intervalo [from, to), com itens
	ListFinalized(ctx context.Context, tenantID string, from, to time.Time) ([]*Sale, error)

	// ListRecent lista as últimas vendas da empresa, sem itens
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*Sale, error)
}
