package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// TokenRefresher renova tokens de acesso
type TokenRefresher interface {
	RefreshToken(token string) (string, time.Time, error)
}

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	auth    *service.AuthService
	tenants *service.TenantService
	tokens  TokenRefresher
	logger  logger.Logger
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(auth *service.AuthService, tenants *service.TenantService, tokens TokenRefresher, log logger.Logger) *AuthController {
	return &AuthController{auth: auth, tenants: tenants, tokens: tokens, logger: log}
}

// Login autentica um usuário e retorna um token JWT
// @Summary Autentica um usuário
// @Description Verifica as credenciais do usuário e retorna um token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if !bindJSON(ctx, &request) {
		return
	}

	result, err := c.auth.Login(ctx.Request.Context(), request.Username, request.Password)
	if err != nil {
		if apperror.HTTPStatus(err) == http.StatusForbidden {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Credenciais inválidas", err.Error()))
			return
		}
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.ToUserResponse(result.User),
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
	})
}

// RefreshToken renova um token JWT
// @Summary Renova o token de acesso
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Token atual"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var request dto.RefreshTokenRequest
	if !bindJSON(ctx, &request) {
		return
	}

	token, expiresAt, err := c.tokens.RefreshToken(request.AccessToken)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Token inválido", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.RefreshTokenResponse{AccessToken: token, ExpiresAt: expiresAt})
}

// Signup cadastra uma loja com seu primeiro gerente
// @Summary Cadastro rápido de loja
// @Description Cria a empresa em período de degustação e o usuário gerente
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Dados da loja e do gerente"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var request dto.SignupRequest
	if !bindJSON(ctx, &request) {
		return
	}

	result, err := c.tenants.Signup(ctx.Request.Context(), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SignupResponse{
		Tenant:  dto.ToTenantResponse(result.Tenant),
		Manager: dto.ToUserResponse(result.Manager),
	})
}

// Me retorna o usuário autenticado
// @Summary Usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToMeResponse(middleware.Actor(ctx)))
}
