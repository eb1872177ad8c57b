package dto

import (
	"errors"

	"github.com/hugohenrick/nexum-erp/pkg/apperror"
)

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Field      string `json:"field,omitempty"`
	Retryable  bool   `json:"retryable"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// SuccessResponse representa a estrutura de resposta para operações bem-sucedidas
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse envolve uma listagem paginada
type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Pagination representa a estrutura de paginação
type Pagination struct {
	Page     int
	PageSize int
}

// Offset retorna o deslocamento da página no conjunto completo
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// GetPagination retorna uma estrutura de paginação com valores padrão
func GetPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	return Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// NewListResponse monta a listagem paginada, nunca com items nulo
func NewListResponse[T any](items []T, p Pagination) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Page: p.Page, PageSize: p.PageSize}
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// upgradeHint é exibido quando um limite do plano é atingido
const upgradeHint = "Faça upgrade para o plano PRO para liberar mais usuários e o módulo financeiro."

// FromError traduz um erro da aplicação na resposta HTTP correspondente.
// Falhas internas não expõem a mensagem original.
func FromError(err error) (int, ErrorResponse) {
	status := apperror.HTTPStatus(err)
	resp := ErrorResponse{
		Code:      status,
		Message:   err.Error(),
		Retryable: apperror.Retryable(err),
	}

	var (
		validation   *apperror.ValidationError
		precondition *apperror.PreconditionError
		limit        *apperror.LimitExceededError
		payment      *apperror.PaymentRequiredError
		external     *apperror.ExternalError
	)
	switch {
	case errors.As(err, &validation):
		resp.Field = validation.Field
	case errors.As(err, &precondition):
		resp.Details = precondition.Action
	case errors.As(err, &limit):
		resp.Details = upgradeHint
	case errors.As(err, &payment):
		resp.RedirectTo = payment.RedirectTo
	case errors.As(err, &external):
		resp.Message = "Serviço externo indisponível"
		resp.Details = external.Service
	case status >= 500:
		resp.Message = "Erro interno do servidor"
	}
	return status, resp
}
