package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/domain/customer"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
)

type tenantRepo struct{ s *Store }

func (r tenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	return r.s.write(ctx, func(d *dataset) error {
		if _, ok := d.tenants[t.ID]; ok {
			return apperror.Conflict("empresa já cadastrada")
		}
		for _, existing := range d.tenants {
			if existing.Document == t.Document {
				return apperror.Conflict("documento já cadastrado")
			}
		}
		d.tenants[t.ID] = *t
		return nil
	})
}

func (r tenantRepo) FindByID(_ context.Context, id string) (*tenant.Tenant, error) {
	var (
		t  tenant.Tenant
		ok bool
	)
	r.s.read(func(d *dataset) { t, ok = d.tenants[id] })
	if !ok {
		return nil, apperror.NotFound("empresa", id)
	}
	return &t, nil
}

func (r tenantRepo) FindByBillingCustomer(_ context.Context, customerRef string) (*tenant.Tenant, error) {
	var found *tenant.Tenant
	r.s.read(func(d *dataset) {
		for _, t := range d.tenants {
			if customerRef != "" && t.BillingCustomerID == customerRef {
				t := t
				found = &t
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("empresa", customerRef)
	}
	return found, nil
}

func (r tenantRepo) Update(ctx context.Context, t *tenant.Tenant) error {
	return r.s.write(ctx, func(d *dataset) error {
		if _, ok := d.tenants[t.ID]; !ok {
			return apperror.NotFound("empresa", t.ID)
		}
		for id, existing := range d.tenants {
			if id == t.ID {
				continue
			}
			if existing.Document == t.Document {
				return apperror.Conflict("documento já cadastrado")
			}
			if t.BillingCustomerID != "" && existing.BillingCustomerID == t.BillingCustomerID {
				return apperror.Conflict("cliente de cobrança já vinculado a outra empresa")
			}
		}
		d.tenants[t.ID] = *t
		return nil
	})
}

func (r tenantRepo) List(_ context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	var list []*tenant.Tenant
	r.s.read(func(d *dataset) {
		for _, t := range d.tenants {
			t := t
			list = append(list, &t)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *user.User) error {
	return r.s.write(ctx, func(d *dataset) error {
		for _, existing := range d.users {
			if existing.Username == u.Username {
				return apperror.Conflict("nome de usuário já está em uso")
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	var (
		u  user.User
		ok bool
	)
	r.s.read(func(d *dataset) { u, ok = d.users[id] })
	if !ok {
		return nil, apperror.NotFound("usuário", id)
	}
	return &u, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	var found *user.User
	r.s.read(func(d *dataset) {
		for _, u := range d.users {
			if u.Username == username {
				u := u
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("usuário", username)
	}
	return found, nil
}

func (r userRepo) List(_ context.Context, tenantID string) ([]*user.User, error) {
	var list []*user.User
	r.s.read(func(d *dataset) {
		for _, u := range d.users {
			if u.TenantID == tenantID {
				u := u
				list = append(list, &u)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r userRepo) Update(ctx context.Context, u *user.User) error {
	return r.s.write(ctx, func(d *dataset) error {
		if _, ok := d.users[u.ID]; !ok {
			return apperror.NotFound("usuário", u.ID)
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) UpdateLastLogin(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return apperror.NotFound("usuário", id)
		}
		now := time.Now()
		u.LastLoginAt = &now
		d.users[id] = u
		return nil
	})
}

func (r userRepo) CountByTenant(_ context.Context, tenantID string) (int, error) {
	count := 0
	r.s.read(func(d *dataset) {
		for _, u := range d.users {
			if u.TenantID == tenantID && u.Active {
				count++
			}
		}
	})
	return count, nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) FindByID(_ context.Context, tenantID, id string) (*customer.Customer, error) {
	var (
		c  customer.Customer
		ok bool
	)
	r.s.read(func(d *dataset) { c, ok = d.customers[id] })
	if !ok || !pkgtenant.Owns(tenantID, &c) {
		return nil, apperror.NotFound("cliente", id)
	}
	return &c, nil
}

func (r customerRepo) FindFirst(_ context.Context, tenantID string) (*customer.Customer, error) {
	var first *customer.Customer
	r.s.read(func(d *dataset) {
		for _, c := range d.customers {
			if c.TenantID != tenantID {
				continue
			}
			if first == nil || c.CreatedAt.Before(first.CreatedAt) {
				c := c
				first = &c
			}
		}
	})
	if first == nil {
		return nil, apperror.NotFound("cliente", "")
	}
	return first, nil
}

func (r customerRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*customer.Customer, error) {
	var list []*customer.Customer
	r.s.read(func(d *dataset) {
		for _, c := range d.customers {
			if c.TenantID == tenantID {
				c := c
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r customerRepo) Update(ctx context.Context, c *customer.Customer) error {
	return r.s.write(ctx, func(d *dataset) error {
		existing, ok := d.customers[c.ID]
		if !ok || existing.TenantID != c.TenantID {
			return apperror.NotFound("cliente", c.ID)
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) TouchLastPurchase(ctx context.Context, tenantID, id string, at time.Time) error {
	return r.s.write(ctx, func(d *dataset) error {
		c, ok := d.customers[id]
		if !ok || !pkgtenant.Owns(tenantID, &c) {
			return apperror.NotFound("cliente", id)
		}
		c.RegisterPurchase(at)
		d.customers[id] = c
		return nil
	})
}

type certificateRepo struct{ s *Store }

func (r certificateRepo) Save(ctx context.Context, cert *certificate.Certificate) error {
	return r.s.write(ctx, func(d *dataset) error {
		for id, existing := range d.certificates {
			if existing.TenantID == cert.TenantID && existing.Active {
				existing.Active = false
				d.certificates[id] = existing
			}
		}
		d.certificates[cert.ID] = *cert
		return nil
	})
}

func (r certificateRepo) FindActive(_ context.Context, tenantID string) (*certificate.Certificate, error) {
	var found *certificate.Certificate
	r.s.read(func(d *dataset) {
		for _, c := range d.certificates {
			if c.TenantID == tenantID && c.Active {
				c := c
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound("certificado", "")
	}
	return found, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
