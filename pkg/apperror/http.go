package apperror

import (
	"errors"
	"net/http"
)

// HTTPStatus mapeia a taxonomia de erros para o status HTTP da resposta
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		conflict     *ConflictError
		precondition *PreconditionError
		authz        *AuthorizationError
		limit        *LimitExceededError
		notFound     *NotFoundError
		state        *InvalidStateError
		payment      *PaymentRequiredError
		external     *ExternalError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict), errors.As(err, &state):
		return http.StatusConflict
	case errors.As(err, &precondition):
		return http.StatusPreconditionFailed
	case errors.As(err, &limit), errors.As(err, &payment):
		return http.StatusPaymentRequired
	case errors.As(err, &external):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
