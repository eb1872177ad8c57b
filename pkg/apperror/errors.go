// Package apperror define a taxonomia de erros compartilhada pelos serviços.
// Cada tipo indica ao chamador se a falha é corrigível pelo usuário
// ou se é uma falha de sistema que pode ser tentada novamente.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError indica entrada malformada ou fora do intervalo permitido
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("campo '%s' inválido: %s", e.Field, e.Message)
}

// ConflictError indica violação de unicidade ou operação concorrente duplicada
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PreconditionError indica que a operação exige um estado prévio que não existe
type PreconditionError struct {
	Action  string
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// AuthorizationError indica que o usuário não pode executar a operação
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "acesso negado"
	}
	return e.Message
}

// LimitExceededError indica que o limite do plano foi atingido
type LimitExceededError struct {
	Resource string
	Limit    int
	Current  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limite de %s atingido: %d de %d", e.Resource, e.Current, e.Limit)
}

// NotFoundError indica registro inexistente ou pertencente a outra empresa
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s não encontrado", e.Resource)
	}
	return fmt.Sprintf("%s não encontrado: %s", e.Resource, e.ID)
}

// InvalidStateError indica transição de estado não permitida
type InvalidStateError struct {
	Resource string
	State    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s em estado %s não permite esta operação", e.Resource, e.State)
}

// PaymentRequiredError indica assinatura vencida para operações financeiras
type PaymentRequiredError struct {
	RedirectTo string
}

func (e *PaymentRequiredError) Error() string {
	return "assinatura vencida: escolha um plano para continuar"
}

// ExternalError indica falha em serviço externo (cobrança, emissão fiscal)
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("falha no serviço externo [%s]: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// NotFound cria um NotFoundError
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Invalid cria um ValidationError
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Forbidden cria um AuthorizationError
func Forbidden(message string) error {
	return &AuthorizationError{Message: message}
}

// Conflict cria um ConflictError
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// IsNotFound informa se err é (ou envolve) um NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict informa se err é (ou envolve) um ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// Retryable informa se a falha é de sistema e pode ser tentada novamente.
// Erros de domínio nunca são repetíveis.
func Retryable(err error) bool {
	var (
		validation   *ValidationError
		conflict     *ConflictError
		precondition *PreconditionError
		authz        *AuthorizationError
		limit        *LimitExceededError
		notFound     *NotFoundError
		state        *InvalidStateError
		payment      *PaymentRequiredError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &conflict),
		errors.As(err, &precondition), errors.As(err, &authz),
		errors.As(err, &limit), errors.As(err, &notFound),
		errors.As(err, &state), errors.As(err, &payment):
		return false
	}
	return true
}
