package repository

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `id, tenant_id, title, type, amount, due_date, paid_at, paid, sale_id, created_at`

// LedgerRepository implementa a interface ledger.Repository
type LedgerRepository struct {
	db *database.PostgresDB
}

// NewLedgerRepository cria uma nova instância de LedgerRepository
func NewLedgerRepository(db *database.PostgresDB) ledger.Repository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, e *ledger.Entry) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.TenantID, e.Title, e.Type, e.Amount, e.DueDate, e.PaidAt, e.Paid,
		nullable(e.SaleID), e.CreatedAt)
	return mapError(err, "lançamento", e.ID)
}

func (r *LedgerRepository) FindByID(ctx context.Context, tenantID, id string) (*ledger.Entry, error) {
	e, err := scanEntry(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, mapError(err, "lançamento", id)
	}
	return e, nil
}

func (r *LedgerRepository) FindBySale(ctx context.Context, tenantID, saleID string) (*ledger.Entry, error) {
	e, err := scanEntry(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE tenant_id = $1 AND sale_id = $2 AND type = $3`, tenantID, saleID, ledger.TypeRevenue))
	if err != nil {
		return nil, mapError(err, "lançamento", saleID)
	}
	return e, nil
}

func (r *LedgerRepository) List(ctx context.Context, tenantID string) ([]*ledger.Entry, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE tenant_id = $1
		ORDER BY due_date DESC, created_at DESC`, tenantID)
	if err != nil {
		return nil, mapError(err, "lançamento", "")
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapError(err, "lançamento", "")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkPaid grava a baixa somente de lançamentos em aberto
func (r *LedgerRepository) MarkPaid(ctx context.Context, e *ledger.Entry) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE ledger_entries SET paid = TRUE, paid_at = $3
		WHERE tenant_id = $1 AND id = $2 AND NOT paid`, e.TenantID, e.ID, e.PaidAt)
	if err != nil {
		return mapError(err, "lançamento", e.ID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, e.TenantID, e.ID); err != nil {
			return err
		}
		return ledger.ErrAlreadyPaid
	}
	return nil
}

func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var e ledger.Entry
	var saleID *string
	err := row.Scan(&e.ID, &e.TenantID, &e.Title, &e.Type, &e.Amount, &e.DueDate, &e.PaidAt,
		&e.Paid, &saleID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.SaleID = deref(saleID)
	return &e, nil
}

// BillingEventRepository implementa a interface billing.EventStore
type BillingEventRepository struct {
	db *database.PostgresDB
}

// NewBillingEventRepository cria uma nova instância de BillingEventRepository
func NewBillingEventRepository(db *database.PostgresDB) billing.EventStore {
	return &BillingEventRepository{db: db}
}

// Record grava o pagamento; a chave primária rejeita reentregas
func (r *BillingEventRepository) Record(ctx context.Context, e *billing.ProcessedEvent) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO billing_events (event_key, event, tenant_id, customer_ref, value, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.Key, e.Event, e.TenantID, e.CustomerRef, e.Value, e.ProcessedAt)
	return mapError(err, "evento de cobrança", e.Key)
}
