package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
)

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, p *catalog.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) FindByID(_ context.Context, tenantID, id string) (*catalog.Product, error) {
	var (
		p  catalog.Product
		ok bool
	)
	r.s.read(func(d *dataset) { p, ok = d.products[id] })
	if !ok || !pkgtenant.Owns(tenantID, &p) {
		return nil, apperror.NotFound("produto", id)
	}
	return &p, nil
}

func (r productRepo) List(_ context.Context, tenantID string, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var list []*catalog.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			if p.TenantID != tenantID {
				continue
			}
			if filter.OnlyActive && !p.Active {
				continue
			}
			if filter.LowStock && !p.IsLowStock() {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && p.Barcode != filter.Search {
				continue
			}
			p := p
			list = append(list, &p)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r productRepo) Update(ctx context.Context, p *catalog.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.products[p.ID]
		if !ok || existing.TenantID != p.TenantID {
			return apperror.NotFound("produto", p.ID)
		}
		// estoque só muda por venda ou ajuste
		p.Stock = existing.Stock
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) DecrementStock(ctx context.Context, tenantID, id string, qty int, allowNegative bool) (int, error) {
	var stock int
	err := r.s.write(ctx, func(d *dataset) error {
		p, ok := d.products[id]
		if !ok || !pkgtenant.Owns(tenantID, &p) {
			return apperror.NotFound("produto", id)
		}
		if !allowNegative && p.Stock < qty {
			return catalog.ErrInsufficientStock
		}
		p.Stock -= qty
		p.UpdatedAt = time.Now()
		d.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r productRepo) AdjustStock(ctx context.Context, tenantID, id string, delta int) (int, error) {
	var stock int
	err := r.s.write(ctx, func(d *dataset) error {
		p, ok := d.products[id]
		if !ok || !pkgtenant.Owns(tenantID, &p) {
			return apperror.NotFound("produto", id)
		}
		p.Stock += delta
		p.UpdatedAt = time.Now()
		d.products[id] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

type adjustmentRepo struct{ s *Store }

func (r adjustmentRepo) Create(ctx context.Context, a *catalog.StockAdjustment) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.adjustments[a.ID] = *a
		return nil
	})
}

func (r adjustmentRepo) ListByProduct(_ context.Context, tenantID, productID string) ([]*catalog.StockAdjustment, error) {
	var list []*catalog.StockAdjustment
	r.s.read(func(d *dataset) {
		for _, a := range d.adjustments {
			if a.TenantID == tenantID && a.ProductID == productID {
				a := a
				list = append(list, &a)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(ctx context.Context, c *catalog.Category) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.categories[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) FindByID(_ context.Context, tenantID, id string) (*catalog.Category, error) {
	var (
		c  catalog.Category
		ok bool
	)
	r.s.read(func(d *dataset) { c, ok = d.categories[id] })
	if !ok || !pkgtenant.Owns(tenantID, &c) {
		return nil, apperror.NotFound("categoria", id)
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context, tenantID string) ([]*catalog.Category, error) {
	var list []*catalog.Category
	r.s.read(func(d *dataset) {
		for _, c := range d.categories {
			if c.TenantID == tenantID {
				c := c
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type supplierRepo struct{ s *Store }

func (r supplierRepo) Create(ctx context.Context, s *catalog.Supplier) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r supplierRepo) FindByID(_ context.Context, tenantID, id string) (*catalog.Supplier, error) {
	var (
		s  catalog.Supplier
		ok bool
	)
	r.s.read(func(d *dataset) { s, ok = d.suppliers[id] })
	if !ok || !pkgtenant.Owns(tenantID, &s) {
		return nil, apperror.NotFound("fornecedor", id)
	}
	return &s, nil
}

func (r supplierRepo) List(_ context.Context, tenantID string) ([]*catalog.Supplier, error) {
	var list []*catalog.Supplier
	r.s.read(func(d *dataset) {
		for _, s := range d.suppliers {
			if s.TenantID == tenantID {
				s := s
				list = append(list, &s)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].LegalName < list[j].LegalName })
	return list, nil
}

type paymentMethodRepo struct{ s *Store }

func (r paymentMethodRepo) Create(ctx context.Context, m *catalog.PaymentMethod) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.paymentMethods[m.ID] = *m
		return nil
	})
}

func (r paymentMethodRepo) FindByID(_ context.Context, tenantID, id string) (*catalog.PaymentMethod, error) {
	var (
		m  catalog.PaymentMethod
		ok bool
	)
	r.s.read(func(d *dataset) { m, ok = d.paymentMethods[id] })
	if !ok || !pkgtenant.Owns(tenantID, &m) {
		return nil, apperror.NotFound("forma de pagamento", id)
	}
	return &m, nil
}

func (r paymentMethodRepo) List(_ context.Context, tenantID string) ([]*catalog.PaymentMethod, error) {
	var list []*catalog.PaymentMethod
	r.s.read(func(d *dataset) {
		for _, m := range d.paymentMethods {
			if m.TenantID == tenantID {
				m := m
				list = append(list, &m)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
