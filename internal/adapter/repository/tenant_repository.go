package repository

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const tenantColumns = `id, trade_name, legal_name, document, segment, active, plan, monthly_fee,
	expires_at, billing_customer_id, receipt_message, fiscal_environment,
	fiscal_api_token, fiscal_csc_token, created_at, updated_at`

// TenantRepository implementa a interface tenant.Repository usando PostgreSQL
type TenantRepository struct {
	db *database.PostgresDB
}

// NewTenantRepository cria uma nova instância de TenantRepository
func NewTenantRepository(db *database.PostgresDB) tenant.Repository {
	return &TenantRepository{db: db}
}

// Create implementa tenant.Repository.Create
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		t.ID, t.TradeName, t.LegalName, t.Document, t.Segment, t.Active, t.Plan, t.MonthlyFee,
		t.ExpiresAt, nullable(t.BillingCustomerID), t.ReceiptMessage, t.Fiscal.Environment,
		t.Fiscal.APIToken, t.Fiscal.CSCToken, t.CreatedAt, t.UpdatedAt)
	return mapError(err, "empresa", t.ID)
}

// FindByID implementa tenant.Repository.FindByID
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		return nil, mapError(err, "empresa", id)
	}
	return t, nil
}

// FindByBillingCustomer implementa tenant.Repository.FindByBillingCustomer
func (r *TenantRepository) FindByBillingCustomer(ctx context.Context, customerRef string) (*tenant.Tenant, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE billing_customer_id = $1`, customerRef)
	t, err := scanTenant(row)
	if err != nil {
		return nil, mapError(err, "empresa", customerRef)
	}
	return t, nil
}

// Update implementa tenant.Repository.Update
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE tenants SET
			trade_name = $2, legal_name = $3, document = $4, segment = $5, active = $6,
			plan = $7, monthly_fee = $8, expires_at = $9, billing_customer_id = $10,
			receipt_message = $11, fiscal_environment = $12, fiscal_api_token = $13,
			fiscal_csc_token = $14, updated_at = $15
		WHERE id = $1`,
		t.ID, t.TradeName, t.LegalName, t.Document, t.Segment, t.Active,
		t.Plan, t.MonthlyFee, t.ExpiresAt, nullable(t.BillingCustomerID),
		t.ReceiptMessage, t.Fiscal.Environment, t.Fiscal.APIToken,
		t.Fiscal.CSCToken, t.UpdatedAt)
	if err != nil {
		return mapError(err, "empresa", t.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "empresa", t.ID)
	}
	return nil
}

// List implementa tenant.Repository.List
func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limitOrAll(limit), offset)
	if err != nil {
		return nil, mapError(err, "empresa", "")
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, mapError(err, "empresa", "")
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var billingCustomer *string
	err := row.Scan(
		&t.ID, &t.TradeName, &t.LegalName, &t.Document, &t.Segment, &t.Active, &t.Plan, &t.MonthlyFee,
		&t.ExpiresAt, &billingCustomer, &t.ReceiptMessage, &t.Fiscal.Environment,
		&t.Fiscal.APIToken, &t.Fiscal.CSCToken, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.BillingCustomerID = deref(billingCustomer)
	return &t, nil
}

// limitOrAll converte limite zero em "sem limite" (LIMIT NULL)
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
