package user

import (
	"context"
)

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// Create cria um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID, sem filtro de empresa (uso do controle de acesso)
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername busca um usuário pelo login
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List lista os usuários de uma empresa
	List(ctx context.Context, tenantID string) ([]*User, error)

	// Update atualiza os dados de um usuário existente
	Update(ctx context.Context, u *User) error

	// UpdateLastLogin atualiza o timestamp de último login do usuário
	UpdateLastLogin(ctx context.Context, id string) error

	// CountByTenant conta quantos usuários ativos existem para uma empresa
	CountByTenant(ctx context.Context, tenantID string) (int, error)
}
