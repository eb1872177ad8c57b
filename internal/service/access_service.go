package service

import (
	"context"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/cache"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// AccessService monta o ator de cada requisição a partir do usuário autenticado
type AccessService struct {
	users   user.Repository
	tenants tenant.Repository
	cache   *cache.InMemory[tenant.Tenant]
	logger  logger.Logger
}

// NewAccessService cria uma nova instância de AccessService
func NewAccessService(users user.Repository, tenants tenant.Repository, tenantCache *cache.InMemory[tenant.Tenant], log logger.Logger) *AccessService {
	return &AccessService{users: users, tenants: tenants, cache: tenantCache, logger: log}
}

// ResolveActor carrega usuário e empresa. O superusuário pode agir sobre
// qualquer empresa informada em tenantOverride.
func (s *AccessService) ResolveActor(ctx context.Context, userID, tenantOverride string) (access.Actor, error) {
	ctx, span := tracer.Start(ctx, "AccessService.ResolveActor")
	defer span.End()

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return access.Actor{}, apperror.Forbidden("usuário não encontrado")
		}
		return access.Actor{}, err
	}
	if !u.Active {
		return access.Actor{}, apperror.Forbidden("usuário inativo")
	}

	actor := access.Actor{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.Superuser,
	}

	tenantID := u.TenantID
	if u.Superuser {
		tenantID = tenantOverride
	}
	if tenantID == "" {
		return actor, nil
	}

	t, err := s.tenant(ctx, tenantID)
	if err != nil {
		return access.Actor{}, err
	}
	actor.TenantID = t.ID
	actor.Entitlement = access.Resolve(t, time.Now())
	return actor, nil
}

// Invalidate descarta a empresa do cache após mudanças de assinatura
func (s *AccessService) Invalidate(tenantID string) {
	if s.cache != nil {
		s.cache.Delete(tenantID)
	}
}

func (s *AccessService) tenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	if s.cache != nil {
		if t, ok := s.cache.Get(id); ok {
			return &t, nil
		}
	}
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(id, *t)
	}
	return t, nil
}
