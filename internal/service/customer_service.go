package service

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/customer"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// CustomerInput são os dados cadastrais de um cliente
type CustomerInput struct {
	Name     string
	Document string
	Phone    string
	Email    string
	Address  string
}

// CustomerService administra os clientes da loja
type CustomerService struct {
	customers customer.Repository
	logger    logger.Logger
}

// NewCustomerService cria uma nova instância de CustomerService
func NewCustomerService(customers customer.Repository, log logger.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: log}
}

// Create cadastra um cliente
func (s *CustomerService) Create(ctx context.Context, actor access.Actor, in CustomerInput) (*customer.Customer, error) {
	if err := authorize(actor, access.OpCustomerWrite); err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(actor.TenantID, in.Name, in.Document, in.Phone, in.Email, in.Address)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get busca um cliente da empresa
func (s *CustomerService) Get(ctx context.Context, actor access.Actor, id string) (*customer.Customer, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.customers.FindByID(ctx, actor.TenantID, id)
}

// List lista os clientes com paginação
func (s *CustomerService) List(ctx context.Context, actor access.Actor, limit, offset int) ([]*customer.Customer, error) {
	if err := authorize(actor, access.OpCatalogRead); err != nil {
		return nil, err
	}
	return s.customers.List(ctx, actor.TenantID, limit, offset)
}

// Update atualiza os dados de um cliente
func (s *CustomerService) Update(ctx context.Context, actor access.Actor, id string, in CustomerInput) (*customer.Customer, error) {
	if err := authorize(actor, access.OpCustomerWrite); err != nil {
		return nil, err
	}
	c, err := s.customers.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(in.Name, in.Document, in.Phone, in.Email, in.Address); err != nil {
		return nil, domainError(err)
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
