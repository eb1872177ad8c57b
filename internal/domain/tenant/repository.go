package tenant

import (
	"context"
)

// Repository define a interface para operações de repositório de empresas
type Repository interface {
	// Create cria uma nova empresa
	Create(ctx context.Context, t *Tenant) error

	// FindByID busca uma empresa pelo ID
	FindByID(ctx context.Context, id string) (*Tenant, error)

	// FindByBillingCustomer busca uma empresa pela referência do cliente no provedor de cobrança
	FindByBillingCustomer(ctx context.Context, customerRef string) (*Tenant, error)

	// Update atualiza os dados de uma empresa existente
	Update(ctx context.Context, t *Tenant) error

	// List lista empresas com paginação (uso do superusuário)
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
}
