package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/cash"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
	"github.com/shopspring/decimal"
)

type registerRepo struct{ s *Store }

func (r registerRepo) Create(ctx context.Context, reg *cash.Register) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.registers[reg.ID] = *reg
		return nil
	})
}

func (r registerRepo) FindByID(_ context.Context, tenantID, id string) (*cash.Register, error) {
	var (
		reg cash.Register
		ok  bool
	)
	r.s.read(func(d *dataset) { reg, ok = d.registers[id] })
	if !ok || !pkgtenant.Owns(tenantID, &reg) {
		return nil, apperror.NotFound("caixa", id)
	}
	return &reg, nil
}

func (r registerRepo) List(_ context.Context, tenantID string) ([]*cash.Register, error) {
	var list []*cash.Register
	r.s.read(func(d *dataset) {
		for _, reg := range d.registers {
			if reg.TenantID == tenantID {
				reg := reg
				list = append(list, &reg)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type shiftRepo struct{ s *Store }

// Create aplica a mesma regra do índice parcial uq_cash_shifts_operator_open
func (r shiftRepo) Create(ctx context.Context, sh *cash.Shift) error {
	return r.s.write(ctx, func(d *dataset) error {
		for _, existing := range d.shifts {
			if existing.OperatorID == sh.OperatorID && existing.IsOpen() {
				return apperror.Conflict("operador já possui um turno aberto")
			}
		}
		d.shifts[sh.ID] = *sh
		return nil
	})
}

func (r shiftRepo) FindByID(_ context.Context, tenantID, id string) (*cash.Shift, error) {
	var (
		sh cash.Shift
		ok bool
	)
	r.s.read(func(d *dataset) { sh, ok = d.shifts[id] })
	if !ok || !pkgtenant.Owns(tenantID, &sh) {
		return nil, apperror.NotFound("turno", id)
	}
	return &sh, nil
}

func (r shiftRepo) FindOpenByOperator(_ context.Context, tenantID, operatorID string) (*cash.Shift, error) {
	var found *cash.Shift
	r.s.read(func(d *dataset) {
		for _, sh := range d.shifts {
			if sh.TenantID == tenantID && sh.OperatorID == operatorID && sh.IsOpen() {
				sh := sh
				found = &sh
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("turno aberto", "")
	}
	return found, nil
}

// LockOpen não precisa de bloqueio de linha: dentro de WithinTx as escritas já são serializadas
func (r shiftRepo) LockOpen(_ context.Context, tenantID, id, operatorID string) (*cash.Shift, error) {
	var (
		sh cash.Shift
		ok bool
	)
	r.s.read(func(d *dataset) { sh, ok = d.shifts[id] })
	if !ok || !pkgtenant.Owns(tenantID, &sh) || sh.OperatorID != operatorID || !sh.IsOpen() {
		return nil, apperror.NotFound("turno aberto", id)
	}
	return &sh, nil
}

func (r shiftRepo) LockOpenForSale(_ context.Context, tenantID, id string) (*cash.Shift, error) {
	var (
		sh cash.Shift
		ok bool
	)
	r.s.read(func(d *dataset) { sh, ok = d.shifts[id] })
	if !ok || !pkgtenant.Owns(tenantID, &sh) || !sh.IsOpen() {
		return nil, apperror.NotFound("turno aberto", id)
	}
	return &sh, nil
}

func (r shiftRepo) SaveClosing(ctx context.Context, sh *cash.Shift) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.shifts[sh.ID]
		if !ok || existing.TenantID != sh.TenantID {
			return apperror.NotFound("turno", sh.ID)
		}
		if !existing.IsOpen() {
			return cash.ErrShiftClosed
		}
		d.shifts[sh.ID] = *sh
		return nil
	})
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(ctx context.Context, s *sale.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		stored := *s
		stored.Items = nil
		d.sales[s.ID] = stored
		d.saleItems[s.ID] = slices.Clone(s.Items)
		return nil
	})
}

func (r saleRepo) FindByID(_ context.Context, tenantID, id string) (*sale.Sale, error) {
	var (
		s  sale.Sale
		ok bool
	)
	r.s.read(func(d *dataset) {
		s, ok = d.sales[id]
		s.Items = slices.Clone(d.saleItems[id])
	})
	if !ok || !pkgtenant.Owns(tenantID, &s) {
		return nil, apperror.NotFound("venda", id)
	}
	return &s, nil
}

func (r saleRepo) AddItem(ctx context.Context, tenantID string, item *sale.Item) error {
	return r.s.write(ctx, func(d *dataset) error {
		s, ok := d.sales[item.SaleID]
		if !ok || !pkgtenant.Owns(tenantID, &s) {
			return apperror.NotFound("venda", item.SaleID)
		}
		if !s.IsDraft() {
			return sale.ErrNotDraft
		}
		d.saleItems[s.ID] = append(slices.Clip(d.saleItems[s.ID]), *item)
		return nil
	})
}

func (r saleRepo) UpdateDraft(ctx context.Context, s *sale.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.sales[s.ID]
		if !ok || existing.TenantID != s.TenantID {
			return apperror.NotFound("venda", s.ID)
		}
		if !existing.IsDraft() {
			return sale.ErrNotDraft
		}
		existing.CustomerID = s.CustomerID
		existing.Discount = s.Discount
		d.sales[s.ID] = existing
		return nil
	})
}

func (r saleRepo) MarkFinalized(ctx context.Context, s *sale.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.sales[s.ID]
		if !ok || existing.TenantID != s.TenantID {
			return apperror.NotFound("venda", s.ID)
		}
		if !existing.IsDraft() {
			return sale.ErrNotDraft
		}
		existing.Status = sale.StatusFinalized
		existing.PaymentMethodID = s.PaymentMethodID
		existing.CustomerID = s.CustomerID
		existing.Discount = s.Discount
		existing.Total = s.Total
		existing.FiscalIssued = s.FiscalIssued
		existing.FinalizedAt = s.FinalizedAt
		d.sales[s.ID] = existing
		return nil
	})
}

func (r saleRepo) MarkCancelled(ctx context.Context, s *sale.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.sales[s.ID]
		if !ok || existing.TenantID != s.TenantID {
			return apperror.NotFound("venda", s.ID)
		}
		if !existing.IsDraft() {
			return sale.ErrNotDraft
		}
		existing.Status = sale.StatusCancelled
		existing.CancelledAt = s.CancelledAt
		d.sales[s.ID] = existing
		return nil
	})
}

func (r saleRepo) SetFiscalWarning(ctx context.Context, tenantID, id, warning string) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.sales[id]
		if !ok || !pkgtenant.Owns(tenantID, &existing) {
			return apperror.NotFound("venda", id)
		}
		existing.FiscalWarning = warning
		d.sales[id] = existing
		return nil
	})
}

func (r saleRepo) SumFinalizedByShift(_ context.Context, tenantID, shiftID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if s.TenantID == tenantID && s.ShiftID == shiftID && s.Status == sale.StatusFinalized {
				total = total.Add(s.Total)
			}
		}
	})
	return total, nil
}

func (r saleRepo) ListFinalized(_ context.Context, tenantID string, from, to time.Time) ([]*sale.Sale, error) {
	var list []*sale.Sale
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if s.TenantID != tenantID || s.Status != sale.StatusFinalized || s.FinalizedAt == nil {
				continue
			}
			if s.FinalizedAt.Before(from) || !s.FinalizedAt.Before(to) {
				continue
			}
			s := s
			s.Items = slices.Clone(d.saleItems[s.ID])
			list = append(list, &s)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].FinalizedAt.Before(*list[j].FinalizedAt) })
	return list, nil
}

func (r saleRepo) ListRecent(_ context.Context, tenantID string, limit int) ([]*sale.Sale, error) {
	var list []*sale.Sale
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if s.TenantID == tenantID {
				s := s
				list = append(list, &s)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, 0), nil
}

type ledgerRepo struct{ s *Store }

// Create aplica a mesma regra do índice uq_ledger_revenue_sale
func (r ledgerRepo) Create(ctx context.Context, e *ledger.Entry) error {
	return r.s.write(ctx, func(d *dataset) error {
		if e.Type == ledger.TypeRevenue && e.SaleID != "" {
			for _, existing := range d.ledger {
				if existing.Type == ledger.TypeRevenue && existing.SaleID == e.SaleID {
					return apperror.Conflict("venda já possui lançamento de receita")
				}
			}
		}
		d.ledger[e.ID] = *e
		return nil
	})
}

func (r ledgerRepo) FindByID(_ context.Context, tenantID, id string) (*ledger.Entry, error) {
	var (
		e  ledger.Entry
		ok bool
	)
	r.s.read(func(d *dataset) { e, ok = d.ledger[id] })
	if !ok || !pkgtenant.Owns(tenantID, &e) {
		return nil, apperror.NotFound("lançamento", id)
	}
	return &e, nil
}

func (r ledgerRepo) FindBySale(_ context.Context, tenantID, saleID string) (*ledger.Entry, error) {
	var found *ledger.Entry
	r.s.read(func(d *dataset) {
		for _, e := range d.ledger {
			if e.TenantID == tenantID && e.SaleID == saleID && e.Type == ledger.TypeRevenue {
				e := e
				found = &e
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("lançamento", saleID)
	}
	return found, nil
}

func (r ledgerRepo) List(_ context.Context, tenantID string) ([]*ledger.Entry, error) {
	var list []*ledger.Entry
	r.s.read(func(d *dataset) {
		for _, e := range d.ledger {
			if e.TenantID == tenantID {
				e := e
				list = append(list, &e)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].DueDate.After(list[j].DueDate)
	})
	return list, nil
}

func (r ledgerRepo) MarkPaid(ctx context.Context, e *ledger.Entry) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.ledger[e.ID]
		if !ok || existing.TenantID != e.TenantID {
			return apperror.NotFound("lançamento", e.ID)
		}
		existing.Paid = e.Paid
		existing.PaidAt = e.PaidAt
		d.ledger[e.ID] = existing
		return nil
	})
}

type eventStore struct{ s *Store }

func (r eventStore) Record(ctx context.Context, e *billing.ProcessedEvent) error {
	return r.s.write(ctx, func(d *dataset) error {
		if _, ok := d.billingEvents[e.Key]; ok {
			return apperror.Conflict("pagamento já processado")
		}
		d.billingEvents[e.Key] = *e
		return nil
	})
}
