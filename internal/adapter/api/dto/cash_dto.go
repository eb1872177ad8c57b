package dto

import (
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/shopspring/decimal"
)

// RegisterRequest representa um novo caixa físico
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes"`
}

// OpenShiftRequest representa a abertura de um turno de caixa
type OpenShiftRequest struct {
	RegisterID    string          `json:"register_id" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseShiftRequest representa o fechamento autorizado por um gerente
type CloseShiftRequest struct {
	CountedAmount   decimal.Decimal `json:"counted_amount"`
	Notes           string          `json:"notes"`
	ManagerID       string          `json:"manager_id" binding:"required"`
	ManagerPassword string          `json:"manager_password" binding:"required"`
}

// ToInput converte a requisição para a entrada do serviço
func (r CloseShiftRequest) ToInput(shiftID string) service.CloseShiftInput {
	return service.CloseShiftInput{
		ShiftID:         shiftID,
		CountedAmount:   r.CountedAmount,
		Notes:           r.Notes,
		ManagerID:       r.ManagerID,
		ManagerPassword: r.ManagerPassword,
	}
}
