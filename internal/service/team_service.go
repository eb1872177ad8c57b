package service

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// NewMemberInput são os dados de um novo colaborador
type NewMemberInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     user.Role
}

// UpdateMemberInput são os dados editáveis de um colaborador. Password vazio
// mantém a senha atual.
type UpdateMemberInput struct {
	Name     string
	Email    string
	Password string
	Role     user.Role
}

// TeamService administra os colaboradores da empresa
type TeamService struct {
	repos  Repositories
	tx     Transactor
	logger logger.Logger
}

// NewTeamService cria uma nova instância de TeamService
func NewTeamService(repos Repositories, tx Transactor, log logger.Logger) *TeamService {
	return &TeamService{repos: repos, tx: tx, logger: log}
}

// CreateUser cadastra um colaborador respeitando o limite de usuários do plano
func (s *TeamService) CreateUser(ctx context.Context, actor access.Actor, in NewMemberInput) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "TeamService.CreateUser")
	defer span.End()

	if err := authorize(actor, access.OpTeamManage); err != nil {
		return nil, err
	}

	u, err := user.NewUser(actor.TenantID, in.Name, in.Username, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, domainError(err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.repos.Tenants.FindByID(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		count, err := s.repos.Users.CountByTenant(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		if count >= t.UserLimit() {
			return &apperror.LimitExceededError{Resource: "usuários", Limit: t.UserLimit(), Current: count}
		}
		return s.repos.Users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("colaborador cadastrado", "tenant_id", actor.TenantID, "user_id", u.ID, "role", u.Role)
	return u, nil
}

// ListUsers lista os colaboradores da empresa
func (s *TeamService) ListUsers(ctx context.Context, actor access.Actor) ([]*user.User, error) {
	if err := authorize(actor, access.OpTeamManage); err != nil {
		return nil, err
	}
	return s.repos.Users.List(ctx, actor.TenantID)
}

// UpdateUser edita um colaborador da mesma empresa
func (s *TeamService) UpdateUser(ctx context.Context, actor access.Actor, userID string, in UpdateMemberInput) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "TeamService.UpdateUser")
	defer span.End()

	if err := authorize(actor, access.OpTeamManage); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TenantID != actor.TenantID || u.Superuser {
		return nil, apperror.NotFound("usuário", userID)
	}
	if u.ID == actor.UserID && in.Role != u.Role {
		return nil, apperror.Invalid("role", "não é possível alterar a própria função")
	}

	if err := u.UpdateProfile(in.Name, in.Email, in.Role); err != nil {
		return nil, domainError(err)
	}
	if in.Password != "" {
		if err := u.SetPassword(in.Password); err != nil {
			return nil, domainError(err)
		}
	}
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("colaborador atualizado", "tenant_id", actor.TenantID, "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Deactivate desativa um colaborador da mesma empresa
func (s *TeamService) Deactivate(ctx context.Context, actor access.Actor, userID string) (*user.User, error) {
	if err := authorize(actor, access.OpTeamManage); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TenantID != actor.TenantID {
		return nil, apperror.NotFound("usuário", userID)
	}
	if u.ID == actor.UserID {
		return nil, apperror.Invalid("id", "não é possível desativar o próprio usuário")
	}

	u.Deactivate()
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
