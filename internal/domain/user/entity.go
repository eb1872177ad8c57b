package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername = errors.New("usuário não pode ser vazio")
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrWeakPassword  = errors.New("senha deve ter pelo menos 6 caracteres")
	ErrInvalidRole   = errors.New("função inválida")
	ErrMissingTenant = errors.New("usuário precisa pertencer a uma empresa")
)

// Role representa a função do usuário na empresa
type Role string

// Constantes para Role
const (
	RoleSeller     Role = "VENDEDOR"   // Vendedor
	RoleCashier    Role = "CAIXA"      // Operador de caixa
	RoleStockClerk Role = "ESTOQUISTA" // Estoquista
	RoleManager    Role = "GERENTE"    // Gerente
	RoleSupport    Role = "SUPORTE"    // Suporte técnico
)

// IsValid verifica se a função é conhecida
func (r Role) IsValid() bool {
	switch r {
	case RoleSeller, RoleCashier, RoleStockClerk, RoleManager, RoleSupport:
		return true
	}
	return false
}

// CanAuthorizeClosing informa se a função pode autorizar fechamento de caixa
func (r Role) CanAuthorizeClosing() bool {
	return r == RoleManager || r == RoleSupport
}

// User representa um usuário (operador) do sistema
type User struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id,omitempty"` // vazio apenas para o superusuário
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"-"` // O campo senha não é retornado nas respostas JSON
	Role        Role       `json:"role"`
	Superuser   bool       `json:"superuser"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUser cria um usuário vinculado a uma empresa
func NewUser(tenantID, name, username, email, password string, role Role) (*User, error) {
	if tenantID == "" {
		return nil, ErrMissingTenant
	}
	u, err := newUser(name, username, email, password, role)
	if err != nil {
		return nil, err
	}
	u.TenantID = tenantID
	return u, nil
}

// NewSuperuser cria o operador global, sem empresa
func NewSuperuser(name, username, email, password string) (*User, error) {
	u, err := newUser(name, username, email, password, RoleSupport)
	if err != nil {
		return nil, err
	}
	u.Superuser = true
	return u, nil
}

func newUser(name, username, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))
	if name == "" {
		return nil, ErrEmptyName
	}
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	u := &User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  username,
		Email:     strings.TrimSpace(email),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Owner retorna a empresa dona do registro
func (u *User) Owner() string {
	return u.TenantID
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasAccessToTenant verifica se o usuário tem acesso à empresa especificada
func (u *User) HasAccessToTenant(tenantID string) bool {
	return u.Superuser || u.TenantID == tenantID
}

// UpdateProfile altera nome, email e função do colaborador
func (u *User) UpdateProfile(name, email string, role Role) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if !role.IsValid() {
		return ErrInvalidRole
	}
	u.Name = name
	u.Email = strings.TrimSpace(email)
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// Deactivate desativa o usuário sem removê-lo do histórico de vendas
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
}
