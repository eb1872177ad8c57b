package service

import (
	"context"
	"strings"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// TokenIssuer emite o token de acesso de um usuário autenticado
type TokenIssuer interface {
	GenerateToken(u *user.User) (string, time.Time, error)
}

// LoginResult é o resultado de uma autenticação bem-sucedida
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// AuthService autentica operadores
type AuthService struct {
	users  user.Repository
	tokens TokenIssuer
	logger logger.Logger
}

// NewAuthService cria uma nova instância de AuthService
func NewAuthService(users user.Repository, tokens TokenIssuer, log logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: log}
}

var errInvalidCredentials = apperror.Forbidden("usuário ou senha inválidos")

// Login valida usuário e senha e emite o token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	u, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !u.Active || !u.CheckPassword(password) {
		s.logger.Warn("falha de login", "username", u.Username)
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		// Não impede o login
		s.logger.Error("erro ao atualizar último login", "user_id", u.ID, "error", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// CreateSuperuser cria o operador global caso ainda não exista
func (s *AuthService) CreateSuperuser(ctx context.Context, name, username, email, password string) (*user.User, error) {
	if _, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username))); err == nil {
		return nil, apperror.Conflict("nome de usuário já está em uso")
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	u, err := user.NewSuperuser(name, username, email, password)
	if err != nil {
		return nil, domainError(err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("superusuário criado", "username", u.Username)
	return u, nil
}
