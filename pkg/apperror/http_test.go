package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hugohenrick/nexum-erp/pkg/apperror"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", apperror.Invalid("quantity", "deve ser positiva"), http.StatusBadRequest},
		{"authorization", apperror.Forbidden(""), http.StatusForbidden},
		{"not found", apperror.NotFound("venda", "1"), http.StatusNotFound},
		{"conflict", apperror.Conflict("turno já aberto"), http.StatusConflict},
		{"invalid state", &apperror.InvalidStateError{Resource: "venda", State: "FECHADA"}, http.StatusConflict},
		{"precondition", &apperror.PreconditionError{Action: "abrir turno", Message: "sem turno"}, http.StatusPreconditionFailed},
		{"limit", &apperror.LimitExceededError{Resource: "usuários", Limit: 4, Current: 4}, http.StatusPaymentRequired},
		{"payment", &apperror.PaymentRequiredError{}, http.StatusPaymentRequired},
		{"external", &apperror.ExternalError{Service: "asaas", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"wrapped", fmt.Errorf("finalizar venda: %w", apperror.NotFound("produto", "")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if apperror.Retryable(apperror.Conflict("x")) {
		t.Error("domain errors must not be retryable")
	}
	if !apperror.Retryable(&apperror.ExternalError{Service: "asaas", Err: errors.New("503")}) {
		t.Error("external failures should be retryable")
	}
}
