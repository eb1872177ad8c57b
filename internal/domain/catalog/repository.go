package catalog

import (
	"context"
)

// ProductFilter restringe a listagem de produtos
type ProductFilter struct {
	OnlyActive bool
	LowStock   bool
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository define as operações de persistência de produtos
type ProductRepository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto da empresa pelo ID
	FindByID(ctx context.Context, tenantID, id string) (*Product, error)

	// List lista os produtos da empresa
	List(ctx context.Context, tenantID string, filter ProductFilter) ([]*Product, error)

	// Update atualiza os dados cadastrais (não altera o estoque)
	Update(ctx context.Context, p *Product) error

	// DecrementStock baixa o estoque de forma atômica e retorna o saldo resultante.
	// Com allowNegative=false falha com ErrInsufficientStock se o saldo não cobre qty.
	DecrementStock(ctx context.Context, tenantID, id string, qty int, allowNegative bool) (int, error)

	// AdjustStock aplica uma variação com sinal ao estoque e retorna o saldo resultante
	AdjustStock(ctx context.Context, tenantID, id string, delta int) (int, error)
}

// AdjustmentRepository persiste o histórico de ajustes de estoque
type AdjustmentRepository interface {
	Create(ctx context.Context, a *StockAdjustment) error
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*StockAdjustment, error)
}

// CategoryRepository persiste categorias
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, tenantID, id string) (*Category, error)
	List(ctx context.Context, tenantID string) ([]*Category, error)
}

// SupplierRepository persiste fornecedores
type SupplierRepository interface {
	Create(ctx context.Context, s *Supplier) error
	FindByID(ctx context.Context, tenantID, id string) (*Supplier, error)
	List(ctx context.Context, tenantID string) ([]*Supplier, error)
}

// PaymentMethodRepository persiste formas de pagamento
type PaymentMethodRepository interface {
	Create(ctx context.Context, m *PaymentMethod) error
	FindByID(ctx context.Context, tenantID, id string) (*PaymentMethod, error)
	List(ctx context.Context, tenantID string) ([]*PaymentMethod, error)
}
