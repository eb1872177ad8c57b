package dto

import (
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/service"
)

// LoginRequest representa os dados para login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse representa a resposta de login bem-sucedido
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// RefreshTokenRequest representa os dados para renovação de token
type RefreshTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// RefreshTokenResponse representa a resposta de renovação de token bem-sucedida
type RefreshTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SignupRequest representa o cadastro rápido de uma loja com seu gerente
type SignupRequest struct {
	StoreName   string         `json:"store_name" binding:"required"`
	Document    string         `json:"document"`
	Segment     tenant.Segment `json:"segment"`
	ManagerName string         `json:"manager_name" binding:"required"`
	Username    string         `json:"username" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=6"`
}

// ToInput converte a requisição para a entrada do serviço
func (r SignupRequest) ToInput() service.SignupInput {
	return service.SignupInput{
		StoreName:   r.StoreName,
		Document:    r.Document,
		Segment:     r.Segment,
		ManagerName: r.ManagerName,
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
	}
}

// SignupResponse representa a loja criada
type SignupResponse struct {
	Tenant  TenantResponse `json:"tenant"`
	Manager UserResponse   `json:"manager"`
}

// MeResponse representa o ator autenticado e a situação da assinatura
type MeResponse struct {
	UserID      string             `json:"user_id"`
	Username    string             `json:"username"`
	Role        user.Role          `json:"role"`
	Superuser   bool               `json:"superuser"`
	TenantID    string             `json:"tenant_id,omitempty"`
	Entitlement access.Entitlement `json:"entitlement"`
}

// ToMeResponse converte o ator para resposta
func ToMeResponse(actor access.Actor) MeResponse {
	return MeResponse{
		UserID:      actor.UserID,
		Username:    actor.Username,
		Role:        actor.Role,
		Superuser:   actor.Superuser,
		TenantID:    actor.TenantID,
		Entitlement: actor.Entitlement,
	}
}
