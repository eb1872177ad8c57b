package repository

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// RegisterRepository implementa a interface cash.RegisterRepository
type RegisterRepository struct {
	db *database.PostgresDB
}

// NewRegisterRepository cria uma nova instância de RegisterRepository
func NewRegisterRepository(db *database.PostgresDB) cash.RegisterRepository {
	return &RegisterRepository{db: db}
}

func (r *RegisterRepository) Create(ctx context.Context, reg *cash.Register) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO registers (id, tenant_id, name, notes, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reg.ID, reg.TenantID, reg.Name, reg.Notes, reg.Active, reg.CreatedAt)
	return mapError(err, "caixa", reg.ID)
}

func (r *RegisterRepository) FindByID(ctx context.Context, tenantID, id string) (*cash.Register, error) {
	var reg cash.Register
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, tenant_id, name, notes, active, created_at FROM registers
		WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(
		&reg.ID, &reg.TenantID, &reg.Name, &reg.Notes, &reg.Active, &reg.CreatedAt)
	if err != nil {
		return nil, mapError(err, "caixa", id)
	}
	return &reg, nil
}

func (r *RegisterRepository) List(ctx context.Context, tenantID string) ([]*cash.Register, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, tenant_id, name, notes, active, created_at FROM registers
		WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, mapError(err, "caixa", "")
	}
	defer rows.Close()

	var list []*cash.Register
	for rows.Next() {
		var reg cash.Register
		if err := rows.Scan(&reg.ID, &reg.TenantID, &reg.Name, &reg.Notes, &reg.Active, &reg.CreatedAt); err != nil {
			return nil, mapError(err, "caixa", "")
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}

const shiftColumns = `id, tenant_id, register_id, operator_id, status, opening_amount, opened_at,
	counted_amount, expected_amount, discrepancy, closing_notes, closed_by, closed_at`

// ShiftRepository implementa a interface cash.ShiftRepository. A unicidade do
// turno aberto por operador é garantida pelo índice uq_cash_shifts_operator_open.
type ShiftRepository struct {
	db *database.PostgresDB
}

// NewShiftRepository cria uma nova instância de ShiftRepository
func NewShiftRepository(db *database.PostgresDB) cash.ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, s *cash.Shift) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO cash_shifts (`+shiftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.TenantID, s.RegisterID, s.OperatorID, s.Status, s.OpeningAmount, s.OpenedAt,
		s.CountedAmount, s.ExpectedAmount, s.Discrepancy, s.ClosingNotes, nullable(s.ClosedBy), s.ClosedAt)
	return mapError(err, "turno", s.ID)
}

func (r *ShiftRepository) FindByID(ctx context.Context, tenantID, id string) (*cash.Shift, error) {
	s, err := scanShift(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, mapError(err, "turno", id)
	}
	return s, nil
}

func (r *ShiftRepository) FindOpenByOperator(ctx context.Context, tenantID, operatorID string) (*cash.Shift, error) {
	s, err := scanShift(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts
		WHERE tenant_id = $1 AND operator_id = $2 AND status = $3`,
		tenantID, operatorID, cash.StatusOpen))
	if err != nil {
		return nil, mapError(err, "turno aberto", operatorID)
	}
	return s, nil
}

// LockOpen bloqueia a linha do turno (SELECT ... FOR UPDATE) até o fim da transação
func (r *ShiftRepository) LockOpen(ctx context.Context, tenantID, id, operatorID string) (*cash.Shift, error) {
	s, err := scanShift(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts
		WHERE tenant_id = $1 AND id = $2 AND operator_id = $3 AND status = $4
		FOR UPDATE`,
		tenantID, id, operatorID, cash.StatusOpen))
	if err != nil {
		return nil, mapError(err, "turno aberto", id)
	}
	return s, nil
}

// LockOpenForSale usa FOR SHARE: finalizações do mesmo turno não se bloqueiam
// entre si, mas o FOR UPDATE do fechamento espera por elas
func (r *ShiftRepository) LockOpenForSale(ctx context.Context, tenantID, id string) (*cash.Shift, error) {
	s, err := scanShift(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM cash_shifts
		WHERE tenant_id = $1 AND id = $2 AND status = $3
		FOR SHARE`,
		tenantID, id, cash.StatusOpen))
	if err != nil {
		return nil, mapError(err, "turno aberto", id)
	}
	return s, nil
}

func (r *ShiftRepository) SaveClosing(ctx context.Context, s *cash.Shift) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE cash_shifts SET status = $3, counted_amount = $4, expected_amount = $5,
			discrepancy = $6, closing_notes = $7, closed_by = $8, closed_at = $9
		WHERE tenant_id = $1 AND id = $2 AND status = $10`,
		s.TenantID, s.ID, s.Status, s.CountedAmount, s.ExpectedAmount, s.Discrepancy,
		s.ClosingNotes, nullable(s.ClosedBy), s.ClosedAt, cash.StatusOpen)
	if err != nil {
		return mapError(err, "turno", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return cash.ErrShiftClosed
	}
	return nil
}

func scanShift(row pgx.Row) (*cash.Shift, error) {
	var s cash.Shift
	var closedBy *string
	err := row.Scan(&s.ID, &s.TenantID, &s.RegisterID, &s.OperatorID, &s.Status, &s.OpeningAmount,
		&s.OpenedAt, &s.CountedAmount, &s.ExpectedAmount, &s.Discrepancy, &s.ClosingNotes,
		&closedBy, &s.ClosedAt)
	if err != nil {
		return nil, err
	}
	s.ClosedBy = deref(closedBy)
	return &s, nil
}
