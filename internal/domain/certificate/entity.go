package certificate

import (
	"errors"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
)

var (
	ErrEmptyData     = errors.New("dados do certificado não podem estar vazios")
	ErrEmptyPassword = errors.New("senha do certificado é obrigatória")
	ErrExpired       = errors.New("certificado expirado")
)

// Certificate é o certificado digital A1 usado na emissão de NFC-e da empresa
type Certificate struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Subject   string    `json:"subject"`
	Data      []byte    `json:"-"` // Não expor ao serializar para JSON
	Password  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCertificate cria um certificado já validado (subject e validade extraídos do PFX)
func NewCertificate(tenantID string, data []byte, password, subject string, expiresAt, now time.Time) (*Certificate, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if !expiresAt.After(now) {
		return nil, ErrExpired
	}

	return &Certificate{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Subject:   subject,
		Data:      data,
		Password:  password,
		ExpiresAt: expiresAt,
		Active:    true,
		CreatedAt: now,
	}, nil
}

// Owner retorna a empresa dona do registro
func (c *Certificate) Owner() string {
	return c.TenantID
}

// IsExpired verifica se o certificado está expirado em now
func (c *Certificate) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
