package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, tenant_id, name, category_id, supplier_id, barcode, size, color,
	description, cost_price, sale_price, commission_percent, stock, min_stock, active,
	created_at, updated_at`

// ProductRepository implementa a interface catalog.ProductRepository
type ProductRepository struct {
	db *database.PostgresDB
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *database.PostgresDB) catalog.ProductRepository {
	return &ProductRepository{db: db}
}

// Create implementa catalog.ProductRepository.Create
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.TenantID, p.Name, nullable(p.CategoryID), nullable(p.SupplierID), p.Barcode,
		p.Size, p.Color, p.Description, p.CostPrice, p.SalePrice, p.CommissionPercent,
		p.Stock, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt)
	return mapError(err, "produto", p.ID)
}

// FindByID implementa catalog.ProductRepository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, tenantID, id string) (*catalog.Product, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err, "produto", id)
	}
	return p, nil
}

// List implementa catalog.ProductRepository.List
func (r *ProductRepository) List(ctx context.Context, tenantID string, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if filter.OnlyActive {
		conditions = append(conditions, "active")
	}
	if filter.LowStock {
		conditions = append(conditions, "stock <= min_stock")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%", search)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR barcode = $%d)", len(args)-1, len(args)))
	}
	args = append(args, limitOrAll(filter.Limit), filter.Offset)

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		productColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "produto", "")
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err, "produto", "")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update implementa catalog.ProductRepository.Update. O estoque não é alterado aqui.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE products SET name = $3, category_id = $4, supplier_id = $5, barcode = $6,
			size = $7, color = $8, description = $9, cost_price = $10, sale_price = $11,
			commission_percent = $12, min_stock = $13, active = $14, updated_at = $15
		WHERE tenant_id = $1 AND id = $2`,
		p.TenantID, p.ID, p.Name, nullable(p.CategoryID), nullable(p.SupplierID), p.Barcode,
		p.Size, p.Color, p.Description, p.CostPrice, p.SalePrice, p.CommissionPercent,
		p.MinStock, p.Active, p.UpdatedAt)
	if err != nil {
		return mapError(err, "produto", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "produto", p.ID)
	}
	return nil
}

// DecrementStock implementa catalog.ProductRepository.DecrementStock com um
// UPDATE condicional; a linha fica bloqueada até o fim da transação
func (r *ProductRepository) DecrementStock(ctx context.Context, tenantID, id string, qty int, allowNegative bool) (int, error) {
	var stock int
	err := r.db.Conn(ctx).QueryRow(ctx,
		`UPDATE products SET stock = stock - $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND ($4 OR stock >= $3)
		RETURNING stock`,
		tenantID, id, qty, allowNegative).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, mapError(err, "produto", id)
	}

	// Nenhuma linha: produto inexistente ou saldo insuficiente
	if _, err := r.FindByID(ctx, tenantID, id); err != nil {
		return 0, err
	}
	return 0, catalog.ErrInsufficientStock
}

// AdjustStock implementa catalog.ProductRepository.AdjustStock
func (r *ProductRepository) AdjustStock(ctx context.Context, tenantID, id string, delta int) (int, error) {
	var stock int
	err := r.db.Conn(ctx).QueryRow(ctx,
		`UPDATE products SET stock = stock + $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 RETURNING stock`,
		tenantID, id, delta).Scan(&stock)
	if err != nil {
		return 0, mapError(err, "produto", id)
	}
	return stock, nil
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	var categoryID, supplierID *string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &categoryID, &supplierID, &p.Barcode, &p.Size,
		&p.Color, &p.Description, &p.CostPrice, &p.SalePrice, &p.CommissionPercent, &p.Stock,
		&p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID = deref(categoryID)
	p.SupplierID = deref(supplierID)
	return &p, nil
}

// AdjustmentRepository implementa a interface catalog.AdjustmentRepository
type AdjustmentRepository struct {
	db *database.PostgresDB
}

// NewAdjustmentRepository cria uma nova instância de AdjustmentRepository
func NewAdjustmentRepository(db *database.PostgresDB) catalog.AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

func (r *AdjustmentRepository) Create(ctx context.Context, a *catalog.StockAdjustment) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO stock_adjustments (id, tenant_id, product_id, quantity, reason, notes,
			responsible_id, stock_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.TenantID, a.ProductID, a.Quantity, a.Reason, a.Notes,
		nullable(a.ResponsibleID), a.StockAfter, a.CreatedAt)
	return mapError(err, "ajuste de estoque", a.ID)
}

func (r *AdjustmentRepository) ListByProduct(ctx context.Context, tenantID, productID string) ([]*catalog.StockAdjustment, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, tenant_id, product_id, quantity, reason, notes, responsible_id, stock_after, created_at
		FROM stock_adjustments WHERE tenant_id = $1 AND product_id = $2 ORDER BY created_at DESC`,
		tenantID, productID)
	if err != nil {
		return nil, mapError(err, "ajuste de estoque", "")
	}
	defer rows.Close()

	var list []*catalog.StockAdjustment
	for rows.Next() {
		var a catalog.StockAdjustment
		var responsible *string
		if err := rows.Scan(&a.ID, &a.TenantID, &a.ProductID, &a.Quantity, &a.Reason, &a.Notes,
			&responsible, &a.StockAfter, &a.CreatedAt); err != nil {
			return nil, mapError(err, "ajuste de estoque", "")
		}
		a.ResponsibleID = deref(responsible)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CategoryRepository implementa a interface catalog.CategoryRepository
type CategoryRepository struct {
	db *database.PostgresDB
}

// NewCategoryRepository cria uma nova instância de CategoryRepository
func NewCategoryRepository(db *database.PostgresDB) catalog.CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TenantID, c.Name, c.Active, c.CreatedAt)
	return mapError(err, "categoria", c.ID)
}

func (r *CategoryRepository) FindByID(ctx context.Context, tenantID, id string) (*catalog.Category, error) {
	var c catalog.Category
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, tenant_id, name, active, created_at FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).Scan(&c.ID, &c.TenantID, &c.Name, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, mapError(err, "categoria", id)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, tenantID string) ([]*catalog.Category, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, tenant_id, name, active, created_at FROM categories WHERE tenant_id = $1 ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, mapError(err, "categoria", "")
	}
	defer rows.Close()

	var list []*catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, mapError(err, "categoria", "")
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SupplierRepository implementa a interface catalog.SupplierRepository
type SupplierRepository struct {
	db *database.PostgresDB
}

// NewSupplierRepository cria uma nova instância de SupplierRepository
func NewSupplierRepository(db *database.PostgresDB) catalog.SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `id, tenant_id, legal_name, document, phone, email, active, created_at`

func (r *SupplierRepository) Create(ctx context.Context, s *catalog.Supplier) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TenantID, s.LegalName, s.Document, s.Phone, s.Email, s.Active, s.CreatedAt)
	return mapError(err, "fornecedor", s.ID)
}

func (r *SupplierRepository) FindByID(ctx context.Context, tenantID, id string) (*catalog.Supplier, error) {
	var s catalog.Supplier
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(
		&s.ID, &s.TenantID, &s.LegalName, &s.Document, &s.Phone, &s.Email, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err, "fornecedor", id)
	}
	return &s, nil
}

func (r *SupplierRepository) List(ctx context.Context, tenantID string) ([]*catalog.Supplier, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 ORDER BY legal_name`, tenantID)
	if err != nil {
		return nil, mapError(err, "fornecedor", "")
	}
	defer rows.Close()

	var list []*catalog.Supplier
	for rows.Next() {
		var s catalog.Supplier
		if err := rows.Scan(&s.ID, &s.TenantID, &s.LegalName, &s.Document, &s.Phone, &s.Email,
			&s.Active, &s.CreatedAt); err != nil {
			return nil, mapError(err, "fornecedor", "")
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// PaymentMethodRepository implementa a interface catalog.PaymentMethodRepository
type PaymentMethodRepository struct {
	db *database.PostgresDB
}

// NewPaymentMethodRepository cria uma nova instância de PaymentMethodRepository
func NewPaymentMethodRepository(db *database.PostgresDB) catalog.PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

const paymentMethodColumns = `id, tenant_id, name, fee_percent, days_to_receive, active, created_at`

func (r *PaymentMethodRepository) Create(ctx context.Context, m *catalog.PaymentMethod) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO payment_methods (`+paymentMethodColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.TenantID, m.Name, m.FeePercent, m.DaysToReceive, m.Active, m.CreatedAt)
	return mapError(err, "forma de pagamento", m.ID)
}

func (r *PaymentMethodRepository) FindByID(ctx context.Context, tenantID, id string) (*catalog.PaymentMethod, error) {
	var m catalog.PaymentMethod
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).Scan(&m.ID, &m.TenantID, &m.Name, &m.FeePercent, &m.DaysToReceive, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, mapError(err, "forma de pagamento", id)
	}
	return &m, nil
}

func (r *PaymentMethodRepository) List(ctx context.Context, tenantID string) ([]*catalog.PaymentMethod, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, mapError(err, "forma de pagamento", "")
	}
	defer rows.Close()

	var list []*catalog.PaymentMethod
	for rows.Next() {
		var m catalog.PaymentMethod
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.FeePercent, &m.DaysToReceive,
			&m.Active, &m.CreatedAt); err != nil {
			return nil, mapError(err, "forma de pagamento", "")
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
