package cash

import (
	"context"
)

// RegisterRepository persiste os caixas físicos
type RegisterRepository interface {
	Create(ctx context.Context, r *Register) error
	FindByID(ctx context.Context, tenantID, id string) (*Register, error)
	List(ctx context.Context, tenantID string) ([]*Register, error)
}

// ShiftRepository persiste os turnos de caixa
type ShiftRepository interface {
	// Create grava um turno aberto. Falha com conflito se o operador já
	// possui turno aberto; a unicidade é garantida pelo armazenamento.
	Create(ctx context.Context, s *Shift) error

	// FindByID busca um turno da empresa pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*Shift, error)

	// FindOpenByOperator busca o turno aberto do operador
	FindOpenByOperator(ctx context.Context, tenantID, operatorID string) (*Shift, error)

	// LockOpen bloqueia para fechamento o turno aberto do operador com o ID informado
	LockOpen(ctx context.Context, tenantID, id, operatorID string) (*Shift, error)

	// LockOpenForSale bloqueia em modo compartilhado o turno aberto em que a
	// venda é finalizada, impedindo o fechamento concorrente
	LockOpenForSale(ctx context.Context, tenantID, id string) (*Shift, error)

	// SaveClosing grava o fechamento somente se o turno ainda estiver aberto
	SaveClosing(ctx context.Context, s *Shift) error
}
