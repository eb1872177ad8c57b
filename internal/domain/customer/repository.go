package customer

import (
	"context"
	"time"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// Create cria um novo cliente
	Create(ctx context.Context, c *Customer) error

	// FindByID busca um cliente da empresa pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*Customer, error)

	// FindFirst retorna o primeiro cliente cadastrado da empresa (cliente padrão do PDV)
	FindFirst(ctx context.Context, tenantID string) (*Customer, error)

	// List lista os clientes de uma empresa com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Customer, error)

	// Update atualiza os dados de um cliente existente
	Update(ctx context.Context, c *Customer) error

	// TouchLastPurchase atualiza a data da última compra
	TouchLastPurchase(ctx context.Context, tenantID, id string, at time.Time) error
}
