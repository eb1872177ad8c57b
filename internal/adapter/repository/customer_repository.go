package repository

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/customer"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, tenant_id, name, document, phone, email, address, active,
	last_purchase_at, created_at, updated_at`

// CustomerRepository implementa a interface customer.Repository
type CustomerRepository struct {
	db *database.PostgresDB
}

// NewCustomerRepository cria uma nova instância de CustomerRepository
func NewCustomerRepository(db *database.PostgresDB) customer.Repository {
	return &CustomerRepository{db: db}
}

// Create implementa customer.Repository.Create
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.TenantID, c.Name, c.Document, c.Phone, c.Email, c.Address, c.Active,
		c.LastPurchaseAt, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "cliente", c.ID)
}

// FindByID implementa customer.Repository.FindByID
func (r *CustomerRepository) FindByID(ctx context.Context, tenantID, id string) (*customer.Customer, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, mapError(err, "cliente", id)
	}
	return c, nil
}

// FindFirst implementa customer.Repository.FindFirst
func (r *CustomerRepository) FindFirst(ctx context.Context, tenantID string) (*customer.Customer, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE tenant_id = $1 AND active ORDER BY created_at, id LIMIT 1`, tenantID)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, mapError(err, "cliente", "")
	}
	return c, nil
}

// List implementa customer.Repository.List
func (r *CustomerRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*customer.Customer, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`, tenantID, limitOrAll(limit), offset)
	if err != nil {
		return nil, mapError(err, "cliente", "")
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, mapError(err, "cliente", "")
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Update implementa customer.Repository.Update
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE customers SET name = $3, document = $4, phone = $5, email = $6, address = $7,
			active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address, c.Active, c.UpdatedAt)
	if err != nil {
		return mapError(err, "cliente", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "cliente", c.ID)
	}
	return nil
}

// TouchLastPurchase implementa customer.Repository.TouchLastPurchase
func (r *CustomerRepository) TouchLastPurchase(ctx context.Context, tenantID, id string, at time.Time) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE customers SET last_purchase_at = $3, updated_at = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, at)
	if err != nil {
		return mapError(err, "cliente", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "cliente", id)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address,
		&c.Active, &c.LastPurchaseAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
