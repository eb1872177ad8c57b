package customer

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
)

var (
	ErrEmptyName    = errors.New("nome não pode ser vazio")
	ErrInvalidEmail = errors.New("email inválido")
)

// Customer representa um cliente da loja
type Customer struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	Name           string     `json:"name"`
	Document       string     `json:"document"` // CPF/CNPJ
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Address        string     `json:"address"`
	Active         bool       `json:"active"`
	LastPurchaseAt *time.Time `json:"last_purchase_at"` // Data da Última Compra
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCustomer cria um novo cliente
func NewCustomer(tenantID, name, document, phone, email, address string) (*Customer, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Active:    true,
		CreatedAt: now,
	}
	if err := c.Update(name, document, phone, email, address); err != nil {
		return nil, err
	}
	return c, nil
}

// Owner retorna a empresa dona do registro
func (c *Customer) Owner() string {
	return c.TenantID
}

// Update atualiza os dados cadastrais do cliente
func (c *Customer) Update(name, document, phone, email, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrInvalidEmail
		}
	}

	c.Name = name
	c.Document = strings.TrimSpace(document)
	c.Phone = strings.TrimSpace(phone)
	c.Email = email
	c.Address = strings.TrimSpace(address)
	c.UpdatedAt = time.Now()
	return nil
}

// RegisterPurchase marca o instante da última compra
func (c *Customer) RegisterPurchase(at time.Time) {
	c.LastPurchaseAt = &at
	c.UpdatedAt = at
}
