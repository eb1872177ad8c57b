package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
)

// Chaves gravadas no contexto do gin após a validação do token
const (
	ContextUserID    = "user_id"
	ContextTenantID  = "tenant_id"
	ContextUsername  = "username"
	ContextRole      = "user_role"
	ContextSuperuser = "superuser"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT.
// Rotas para as quais skip retorna verdadeiro passam sem token.
func JWTAuthMiddleware(jwtService *JWTService, skip func(path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skip != nil && skip(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Obter o token do cabeçalho Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextSuperuser, claims.Superuser)

		c.Next()
	}
}

// GetCurrentUser obtém o usuário autenticado do contexto
func GetCurrentUser(c *gin.Context) (userID, tenantID, role string) {
	return c.GetString(ContextUserID), c.GetString(ContextTenantID), c.GetString(ContextRole)
}
