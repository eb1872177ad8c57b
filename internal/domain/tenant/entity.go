package tenant

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyID          = errors.New("id não pode ser vazio")
	ErrEmptyName        = errors.New("nome fantasia não pode ser vazio")
	ErrInvalidDocument  = errors.New("documento inválido")
	ErrInvalidTenantID  = errors.New("ID de empresa inválido")
	ErrInvalidPlan      = errors.New("plano inválido")
	ErrInvalidFiscalEnv = errors.New("ambiente fiscal inválido")
)

// Plan representa o plano de assinatura contratado
type Plan string

const (
	PlanEssential  Plan = "ESSENCIAL"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "EXPANSAO"
)

// Segment representa o ramo de atividade da empresa
type Segment string

const (
	SegmentClothing Segment = "ROUPAS"
	SegmentMarket   Segment = "MERCADO"
	SegmentServices Segment = "SERVICOS"
	SegmentOther    Segment = "OUTROS"
)

// FiscalEnvironment representa o ambiente de emissão fiscal
type FiscalEnvironment string

const (
	FiscalHomologation FiscalEnvironment = "HOMOLOGACAO"
	FiscalProduction   FiscalEnvironment = "PRODUCAO"
)

const (
	// TrialDays é o período de degustação concedido no cadastro
	TrialDays = 7
	// RenewalDays é o período liberado a cada pagamento confirmado
	RenewalDays = 30
	// ProvisionalDocumentPrefix marca documentos gerados no cadastro rápido
	ProvisionalDocumentPrefix = "TEMP-"
	// UnlimitedUsers é o limite usado pelo plano corporativo
	UnlimitedUsers = 999
)

var (
	essentialPrice = decimal.NewFromInt(129)
	proPrice       = decimal.NewFromInt(249)
)

// Price retorna a mensalidade do plano. O plano corporativo é negociado
// fora do sistema e não possui preço de tabela.
func (p Plan) Price() (decimal.Decimal, bool) {
	switch p {
	case PlanEssential:
		return essentialPrice, true
	case PlanPro:
		return proPrice, true
	}
	return decimal.Zero, false
}

// UserLimit retorna a quantidade máxima de usuários do plano
func (p Plan) UserLimit() int {
	switch p {
	case PlanEssential:
		return 4
	case PlanPro:
		return 10
	}
	return UnlimitedUsers
}

// IsValid verifica se o plano é conhecido
func (p Plan) IsValid() bool {
	return p == PlanEssential || p == PlanPro || p == PlanEnterprise
}

// PlanForAmount escolhe o plano a partir do valor pago
func PlanForAmount(value decimal.Decimal) Plan {
	if value.GreaterThanOrEqual(proPrice) {
		return PlanPro
	}
	return PlanEssential
}

// FiscalSettings agrupa os dados de emissão de NFC-e da empresa
type FiscalSettings struct {
	Environment FiscalEnvironment `json:"environment"`
	APIToken    string            `json:"-"`
	CSCToken    string            `json:"-"`
}

// Tenant representa uma empresa assinante, unidade de isolamento dos dados
type Tenant struct {
	ID                string          `json:"id"`
	TradeName         string          `json:"trade_name"`
	LegalName         string          `json:"legal_name"`
	Document          string          `json:"document"` // CNPJ ou CPF
	Segment           Segment         `json:"segment"`
	Active            bool            `json:"active"`
	Plan              Plan            `json:"plan"`
	MonthlyFee        decimal.Decimal `json:"monthly_fee"`
	ExpiresAt         *time.Time      `json:"expires_at"`
	BillingCustomerID string          `json:"billing_customer_id,omitempty"`
	ReceiptMessage    string          `json:"receipt_message"`
	Fiscal            FiscalSettings  `json:"fiscal"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewTenant cria uma empresa em período de degustação no plano Essencial.
// Sem documento informado é gerado um documento provisório.
func NewTenant(tradeName, document string, segment Segment, now time.Time) (*Tenant, error) {
	tradeName = strings.TrimSpace(tradeName)
	if tradeName == "" {
		return nil, ErrEmptyName
	}
	if segment == "" {
		segment = SegmentOther
	}

	id := uuid.New().String()
	document = strings.TrimSpace(document)
	if document == "" {
		document = ProvisionalDocumentPrefix + id[:8]
	}

	expires := Date(now).AddDate(0, 0, TrialDays)
	return &Tenant{
		ID:             id,
		TradeName:      tradeName,
		Document:       document,
		Segment:        segment,
		Active:         true,
		Plan:           PlanEssential,
		MonthlyFee:     essentialPrice,
		ExpiresAt:      &expires,
		ReceiptMessage: "Obrigado pela preferência!",
		Fiscal:         FiscalSettings{Environment: FiscalHomologation},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Date trunca um instante para o início do dia no mesmo fuso
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WithinPeriod informa se a assinatura está vigente em today.
// Empresas sem data de vencimento não expiram.
func (t *Tenant) WithinPeriod(today time.Time) bool {
	if t.ExpiresAt == nil {
		return true
	}
	return !Date(*t.ExpiresAt).Before(Date(today))
}

// DaysRemaining retorna os dias até o vencimento (negativo se vencida)
func (t *Tenant) DaysRemaining(today time.Time) int {
	if t.ExpiresAt == nil {
		return 0
	}
	return int(Date(*t.ExpiresAt).Sub(Date(today)).Hours() / 24)
}

// UserLimit retorna o limite de usuários do plano atual
func (t *Tenant) UserLimit() int {
	return t.Plan.UserLimit()
}

// HasFinancialAccess informa se o módulo financeiro está liberado.
// Planos pagos sempre têm acesso; o Essencial somente durante a degustação.
func (t *Tenant) HasFinancialAccess(today time.Time) bool {
	if t.Plan == PlanPro || t.Plan == PlanEnterprise {
		return true
	}
	return t.ExpiresAt != nil && !Date(*t.ExpiresAt).Before(Date(today))
}

// HasProvisionalDocument informa se o documento ainda é o provisório do cadastro
func (t *Tenant) HasProvisionalDocument() bool {
	return strings.HasPrefix(t.Document, ProvisionalDocumentPrefix) || len(t.Document) < 11
}

// ApplyPayment libera a empresa por RenewalDays a partir de now e ajusta o plano pelo valor pago
func (t *Tenant) ApplyPayment(value decimal.Decimal, now time.Time) {
	expires := Date(now).AddDate(0, 0, RenewalDays)
	t.Active = true
	t.ExpiresAt = &expires
	t.Plan = PlanForAmount(value)
	if price, ok := t.Plan.Price(); ok {
		t.MonthlyFee = price
	}
	t.UpdatedAt = now
}

// Activate ativa a empresa
func (t *Tenant) Activate(now time.Time) {
	t.Active = true
	t.UpdatedAt = now
}

// Block bloqueia a empresa manualmente
func (t *Tenant) Block(now time.Time) {
	t.Active = false
	t.UpdatedAt = now
}

// UpdateProfile atualiza os dados cadastrais editáveis pela própria empresa
func (t *Tenant) UpdateProfile(tradeName, legalName, document, receiptMessage string, now time.Time) error {
	tradeName = strings.TrimSpace(tradeName)
	if tradeName == "" {
		return ErrEmptyName
	}
	document = strings.TrimSpace(document)
	if document != "" {
		if len(onlyDigits(document)) != 11 && len(onlyDigits(document)) != 14 {
			return ErrInvalidDocument
		}
		t.Document = document
	}

	t.TradeName = tradeName
	t.LegalName = strings.TrimSpace(legalName)
	if receiptMessage != "" {
		t.ReceiptMessage = receiptMessage
	}
	t.UpdatedAt = now
	return nil
}

// UpdateFiscal atualiza as configurações de emissão fiscal
func (t *Tenant) UpdateFiscal(env FiscalEnvironment, apiToken, cscToken string, now time.Time) error {
	if env != FiscalHomologation && env != FiscalProduction {
		return ErrInvalidFiscalEnv
	}
	t.Fiscal = FiscalSettings{Environment: env, APIToken: apiToken, CSCToken: cscToken}
	t.UpdatedAt = now
	return nil
}

// ContractSummary é a visão somente leitura usada na geração do contrato
type ContractSummary struct {
	TenantID      string          `json:"tenant_id"`
	TradeName     string          `json:"trade_name"`
	LegalName     string          `json:"legal_name"`
	Document      string          `json:"document"`
	Plan          Plan            `json:"plan"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	UserLimit     int             `json:"user_limit"`
	StartedAt     time.Time       `json:"started_at"`
	ExpiresAt     *time.Time      `json:"expires_at"`
	DaysRemaining int             `json:"days_remaining"`
	Active        bool            `json:"active"`
}

// Contract monta o resumo contratual da empresa
func (t *Tenant) Contract(today time.Time) ContractSummary {
	return ContractSummary{
		TenantID:      t.ID,
		TradeName:     t.TradeName,
		LegalName:     t.LegalName,
		Document:      t.Document,
		Plan:          t.Plan,
		MonthlyFee:    t.MonthlyFee,
		UserLimit:     t.UserLimit(),
		StartedAt:     t.CreatedAt,
		ExpiresAt:     t.ExpiresAt,
		DaysRemaining: t.DaysRemaining(today),
		Active:        t.Active,
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
