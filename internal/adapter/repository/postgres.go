// Package repository implementa os repositórios do domínio sobre PostgreSQL (pgx).
// Todos os métodos usam a conexão devolvida por database.PostgresDB.Conn, o que
// faz cada repositório participar da transação aberta pelo serviço.
package repository

import (
	"errors"
	"fmt"

	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// mapError traduz erros do driver para a taxonomia de apperror
func mapError(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(resource, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Conflict(conflictMessage(pgErr.ConstraintName, resource))
	}
	return fmt.Errorf("erro ao acessar %s: %w", resource, err)
}

func conflictMessage(constraint, resource string) string {
	switch constraint {
	case "uq_cash_shifts_operator_open":
		return "operador já possui um turno aberto"
	case "uq_ledger_revenue_sale":
		return "venda já possui lançamento de receita"
	case "users_username_key":
		return "nome de usuário já está em uso"
	case "tenants_document_key":
		return "já existe uma empresa com este documento"
	case "billing_events_pkey":
		return "pagamento já processado"
	}
	return fmt.Sprintf("%s duplicado", resource)
}

// nullable converte string vazia em NULL para colunas opcionais
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
