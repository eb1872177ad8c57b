package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"nil", nil, func(err error) bool { return err == nil }},
		{"no rows", pgx.ErrNoRows, apperror.IsNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperror.IsNotFound},
		{
			"unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: "uq_cash_shifts_operator_open"},
			func(err error) bool {
				return apperror.IsConflict(err) && err.Error() == "operador já possui um turno aberto"
			},
		},
		{
			"other",
			errors.New("connection reset"),
			func(err error) bool { return err != nil && apperror.Retryable(err) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "turno", "1")
			if !tt.check(got) {
				t.Errorf("unexpected mapping for %v: %v", tt.err, got)
			}
		})
	}
}

func TestNullable(t *testing.T) {
	if nullable("") != nil {
		t.Error("empty string must map to NULL")
	}
	if v := nullable("x"); v == nil || *v != "x" {
		t.Error("non-empty string must be preserved")
	}
	if deref(nil) != "" {
		t.Error("deref(nil) must be empty")
	}
}
