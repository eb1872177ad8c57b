package dto

import (
	"time"

	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ExpenseRequest representa o lançamento de uma despesa
type ExpenseRequest struct {
	Title   string          `json:"title" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date" binding:"required" example:"2026-10-31"`
	Paid    bool            `json:"paid"`
}

// ToInput converte a requisição para a entrada do serviço
func (r ExpenseRequest) ToInput() (service.ExpenseInput, error) {
	due, err := time.Parse(dateLayout, r.DueDate)
	if err != nil {
		return service.ExpenseInput{}, apperror.Invalid("due_date", "use o formato AAAA-MM-DD")
	}
	return service.ExpenseInput{
		Title:   r.Title,
		Amount:  r.Amount,
		DueDate: due,
		Paid:    r.Paid,
	}, nil
}

// ParseDate lê uma data opcional de query string
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, apperror.Invalid(field, "use o formato AAAA-MM-DD")
	}
	return t, nil
}
