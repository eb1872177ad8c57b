// Package middleware contém o controle de acesso aplicado a todas as rotas da API
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/pkg/auth"
)

const (
	// TenantHeader permite ao superusuário escolher a empresa sobre a qual age
	TenantHeader = "tenant-id"
	// PlanExpiredHeader sinaliza ao cliente que a assinatura está vencida
	PlanExpiredHeader = "X-Plan-Expired"
	// WebhookTokenHeader carrega o token compartilhado com o provedor de cobrança
	WebhookTokenHeader = "asaas-access-token"

	actorKey = "actor"
)

// ActorResolver monta o ator a partir do usuário autenticado
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID, tenantOverride string) (access.Actor, error)
}

// publicPaths dispensam autenticação
var publicPaths = []string{
	"/health",
	"/metrics",
	"/api/v1/health",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/signup",
	"/api/v1/billing/webhook",
	"/api/v1/billing/plans",
}

// IsPublic verifica se o caminho está excluído da autenticação
func IsPublic(path string) bool {
	if strings.HasPrefix(path, "/swagger/") {
		return true
	}
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// Gate resolve o ator de cada requisição autenticada e barra empresas bloqueadas.
// Deve ser registrado depois de auth.JWTAuthMiddleware.
func Gate(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		userID := c.GetString(auth.ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"",
			))
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), userID, c.GetHeader(TenantHeader))
		if err != nil {
			status, resp := dto.FromError(err)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		if !actor.Superuser && actor.TenantID != "" && !actor.Entitlement.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"motivo": "bloqueada"})
			return
		}
		if actor.TenantID != "" && !actor.Entitlement.WithinPeriod {
			c.Header(PlanExpiredHeader, "true")
		}

		c.Set(actorKey, actor)
		c.Set(auth.ContextTenantID, actor.TenantID)
		c.Request = c.Request.WithContext(access.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// Actor recupera o ator gravado pelo Gate
func Actor(c *gin.Context) access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	actor, _ := access.ActorFromContext(c.Request.Context())
	return actor
}

// WebhookToken exige o token compartilhado quando ele está configurado
func WebhookToken(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		got := c.GetHeader(WebhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Token do webhook inválido",
				"",
			))
			return
		}
		c.Next()
	}
}
