package dto

import (
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
)

// UserRequest representa a criação de um colaborador
type UserRequest struct {
	Name     string    `json:"name" binding:"required"`
	Username string    `json:"username" binding:"required"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Password string    `json:"password" binding:"required,min=6"`
	Role     user.Role `json:"role" binding:"required"`
}

// ToInput converte a requisição para a entrada do serviço
func (r UserRequest) ToInput() service.NewMemberInput {
	return service.NewMemberInput{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

// UpdateUserRequest representa a edição de um colaborador
type UpdateUserRequest struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Password string    `json:"password" binding:"omitempty,min=6"`
	Role     user.Role `json:"role" binding:"required"`
}

// ToInput converte a requisição para a entrada do serviço
func (r UpdateUserRequest) ToInput() service.UpdateMemberInput {
	return service.UpdateMemberInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

// UserResponse representa um colaborador sem dados sensíveis
type UserResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id,omitempty"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        user.Role  `json:"role"`
	Superuser   bool       `json:"superuser"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converte uma entidade de usuário para resposta
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Superuser:   u.Superuser,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converte uma lista de usuários
func ToUserResponses(users []*user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
