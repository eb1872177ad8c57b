package repository

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const saleColumns = `id, tenant_id, operator_id, customer_id, cash_shift_id, payment_method_id,
	status, discount, total, fiscal_issued, fiscal_warning, created_at, finalized_at, cancelled_at`

// SaleRepository implementa a interface sale.Repository. As transições de
// status são UPDATEs condicionais em status = 'ORCAMENTO'.
type SaleRepository struct {
	db *database.PostgresDB
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *database.PostgresDB) sale.Repository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.TenantID, s.OperatorID, nullable(s.CustomerID), s.ShiftID, nullable(s.PaymentMethodID),
		s.Status, s.Discount, s.Total, s.FiscalIssued, s.FiscalWarning, s.CreatedAt,
		s.FinalizedAt, s.CancelledAt)
	return mapError(err, "venda", s.ID)
}

func (r *SaleRepository) FindByID(ctx context.Context, tenantID, id string) (*sale.Sale, error) {
	s, err := scanSale(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return nil, mapError(err, "venda", id)
	}

	items, err := r.items(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// AddItem insere o item somente se a venda da empresa ainda estiver em orçamento
func (r *SaleRepository) AddItem(ctx context.Context, tenantID string, item *sale.Item) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, commission, created_at)
		SELECT $1, s.id, $4, $5, $6, $7, $8, $9 FROM sales s
		WHERE s.id = $2 AND s.tenant_id = $3 AND s.status = $10`,
		item.ID, item.SaleID, tenantID, item.ProductID, item.ProductName, item.Quantity,
		item.UnitPrice, item.Commission, item.CreatedAt, sale.StatusDraft)
	if err != nil {
		return mapError(err, "item de venda", item.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, tenantID, item.SaleID)
	}
	return nil
}

func (r *SaleRepository) UpdateDraft(ctx context.Context, s *sale.Sale) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE sales SET customer_id = $3, discount = $4
		WHERE tenant_id = $1 AND id = $2 AND status = $5`,
		s.TenantID, s.ID, nullable(s.CustomerID), s.Discount, sale.StatusDraft)
	if err != nil {
		return mapError(err, "venda", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, s.TenantID, s.ID)
	}
	return nil
}

func (r *SaleRepository) MarkFinalized(ctx context.Context, s *sale.Sale) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE sales SET status = $3, payment_method_id = $4, customer_id = $5, discount = $6,
			total = $7, fiscal_issued = $8, finalized_at = $9
		WHERE tenant_id = $1 AND id = $2 AND status = $10`,
		s.TenantID, s.ID, sale.StatusFinalized, nullable(s.PaymentMethodID), nullable(s.CustomerID),
		s.Discount, s.Total, s.FiscalIssued, s.FinalizedAt, sale.StatusDraft)
	if err != nil {
		return mapError(err, "venda", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, s.TenantID, s.ID)
	}
	return nil
}

func (r *SaleRepository) MarkCancelled(ctx context.Context, s *sale.Sale) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE sales SET status = $3, cancelled_at = $4
		WHERE tenant_id = $1 AND id = $2 AND status = $5`,
		s.TenantID, s.ID, sale.StatusCancelled, s.CancelledAt, sale.StatusDraft)
	if err != nil {
		return mapError(err, "venda", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.draftMiss(ctx, s.TenantID, s.ID)
	}
	return nil
}

func (r *SaleRepository) SetFiscalWarning(ctx context.Context, tenantID, id, warning string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE sales SET fiscal_warning = $3 WHERE tenant_id = $1 AND id = $2`, tenantID, id, warning)
	if err != nil {
		return mapError(err, "venda", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "venda", id)
	}
	return nil
}

func (r *SaleRepository) SumFinalizedByShift(ctx context.Context, tenantID, shiftID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM sales
		WHERE tenant_id = $1 AND cash_shift_id = $2 AND status = $3`,
		tenantID, shiftID, sale.StatusFinalized).Scan(&total)
	if err != nil {
		return decimal.Zero, mapError(err, "venda", "")
	}
	return total, nil
}

func (r *SaleRepository) ListFinalized(ctx context.Context, tenantID string, from, to time.Time) ([]*sale.Sale, error) {
	sales, err := r.list(ctx,
		`SELECT `+saleColumns+` FROM sales
		WHERE tenant_id = $1 AND status = $2 AND finalized_at >= $3 AND finalized_at < $4
		ORDER BY finalized_at`,
		tenantID, sale.StatusFinalized, from, to)
	if err != nil || len(sales) == 0 {
		return sales, err
	}

	ids := make([]string, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		s.Items = items[s.ID]
	}
	return sales, nil
}

func (r *SaleRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]*sale.Sale, error) {
	return r.list(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2`,
		tenantID, limitOrAll(limit))
}

func (r *SaleRepository) list(ctx context.Context, query string, args ...any) ([]*sale.Sale, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "venda", "")
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, mapError(err, "venda", "")
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *SaleRepository) items(ctx context.Context, saleIDs []string) (map[string][]sale.Item, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, sale_id, product_id, product_name, quantity, unit_price, commission, created_at
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY created_at, id`, saleIDs)
	if err != nil {
		return nil, mapError(err, "item de venda", "")
	}
	defer rows.Close()

	items := make(map[string][]sale.Item, len(saleIDs))
	for rows.Next() {
		var it sale.Item
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Commission, &it.CreatedAt); err != nil {
			return nil, mapError(err, "item de venda", "")
		}
		items[it.SaleID] = append(items[it.SaleID], it)
	}
	return items, rows.Err()
}

// draftMiss distingue venda inexistente de venda que já saiu do orçamento
func (r *SaleRepository) draftMiss(ctx context.Context, tenantID, id string) error {
	var status sale.Status
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT status FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(&status)
	if err != nil {
		return mapError(err, "venda", id)
	}
	return sale.ErrNotDraft
}

func scanSale(row pgx.Row) (*sale.Sale, error) {
	var s sale.Sale
	var customerID, paymentMethodID *string
	err := row.Scan(&s.ID, &s.TenantID, &s.OperatorID, &customerID, &s.ShiftID, &paymentMethodID,
		&s.Status, &s.Discount, &s.Total, &s.FiscalIssued, &s.FiscalWarning, &s.CreatedAt,
		&s.FinalizedAt, &s.CancelledAt)
	if err != nil {
		return nil, err
	}
	s.CustomerID = deref(customerID)
	s.PaymentMethodID = deref(paymentMethodID)
	return &s, nil
}
