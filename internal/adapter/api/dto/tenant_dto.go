package dto

import (
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/access"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/shopspring/decimal"
)

// TenantSettingsRequest representa a atualização do cadastro da empresa
type TenantSettingsRequest struct {
	TradeName      string `json:"trade_name" binding:"required"`
	LegalName      string `json:"legal_name"`
	Document       string `json:"document" binding:"required"`
	ReceiptMessage string `json:"receipt_message"`
}

// ToInput converte a requisição para a entrada do serviço
func (r TenantSettingsRequest) ToInput() service.SettingsInput {
	return service.SettingsInput{
		TradeName:      r.TradeName,
		LegalName:      r.LegalName,
		Document:       r.Document,
		ReceiptMessage: r.ReceiptMessage,
	}
}

// FiscalSettingsRequest representa a configuração de emissão de NFC-e
type FiscalSettingsRequest struct {
	Environment tenant.FiscalEnvironment `json:"environment" binding:"required"`
	APIToken    string                   `json:"api_token"`
	CSCToken    string                   `json:"csc_token"`
}

// ToInput converte a requisição para a entrada do serviço
func (r FiscalSettingsRequest) ToInput() service.FiscalInput {
	return service.FiscalInput{
		Environment: r.Environment,
		APIToken:    r.APIToken,
		CSCToken:    r.CSCToken,
	}
}

// TenantStatusRequest ativa ou bloqueia uma empresa
type TenantStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// TenantResponse representa a estrutura de dados de resposta para tenant
type TenantResponse struct {
	ID                string                   `json:"id"`
	TradeName         string                   `json:"trade_name"`
	LegalName         string                   `json:"legal_name"`
	Document          string                   `json:"document"`
	Segment           tenant.Segment           `json:"segment"`
	Active            bool                     `json:"active"`
	Plan              tenant.Plan              `json:"plan"`
	MonthlyFee        decimal.Decimal          `json:"monthly_fee"`
	ExpiresAt         *time.Time               `json:"expires_at"`
	ReceiptMessage    string                   `json:"receipt_message"`
	FiscalEnvironment tenant.FiscalEnvironment `json:"fiscal_environment"`
	FiscalConfigured  bool                     `json:"fiscal_configured"`
	Entitlement       *access.Entitlement      `json:"entitlement,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// ToTenantResponse converte um modelo de domínio em uma resposta DTO
func ToTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:                t.ID,
		TradeName:         t.TradeName,
		LegalName:         t.LegalName,
		Document:          t.Document,
		Segment:           t.Segment,
		Active:            t.Active,
		Plan:              t.Plan,
		MonthlyFee:        t.MonthlyFee,
		ExpiresAt:         t.ExpiresAt,
		ReceiptMessage:    t.ReceiptMessage,
		FiscalEnvironment: t.Fiscal.Environment,
		FiscalConfigured:  t.Fiscal.APIToken != "" && t.Fiscal.CSCToken != "",
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// ToTenantResponses converte uma lista de tenants para o formato de resposta
func ToTenantResponses(tenants []*tenant.Tenant) []TenantResponse {
	out := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, ToTenantResponse(t))
	}
	return out
}
