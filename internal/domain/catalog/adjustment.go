package catalog

import (
	"time"

	"github.com/google/uuid"
	pkgtenant "github.com/hugohenrick/nexum-erp/pkg/tenant"
)

// AdjustmentReason representa o motivo de um ajuste manual de estoque
type AdjustmentReason string

const (
	ReasonDefect      AdjustmentReason = "DEFEITO"     // Defeito / Avaria
	ReasonLoss        AdjustmentReason = "PERDA"       // Perda / Roubo
	ReasonExpired     AdjustmentReason = "VALIDADE"    // Vencimento
	ReasonInternalUse AdjustmentReason = "USO_INTERNO" // Uso Interno / Consumo
	ReasonEntry       AdjustmentReason = "ENTRADA"     // Entrada Avulsa / Correção
)

// IsValid verifica se o motivo é conhecido
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonDefect, ReasonLoss, ReasonExpired, ReasonInternalUse, ReasonEntry:
		return true
	}
	return false
}

// StockAdjustment registra uma movimentação manual de estoque.
// Quantity é sempre positiva; o sentido vem do motivo.
type StockAdjustment struct {
	ID            string           `json:"id"`
	TenantID      string           `json:"tenant_id"`
	ProductID     string           `json:"product_id"`
	Quantity      int              `json:"quantity"`
	Reason        AdjustmentReason `json:"reason"`
	Notes         string           `json:"notes,omitempty"`
	ResponsibleID string           `json:"responsible_id"`
	StockAfter    int              `json:"stock_after"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewStockAdjustment cria um ajuste de estoque
func NewStockAdjustment(tenantID, productID, responsibleID string, quantity int, reason AdjustmentReason, notes string) (*StockAdjustment, error) {
	if err := pkgtenant.Require(tenantID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !reason.IsValid() {
		return nil, ErrInvalidReason
	}
	return &StockAdjustment{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductID:     productID,
		Quantity:      quantity,
		Reason:        reason,
		Notes:         notes,
		ResponsibleID: responsibleID,
		CreatedAt:     time.Now(),
	}, nil
}

// Owner retorna a empresa dona do registro
func (a *StockAdjustment) Owner() string { return a.TenantID }

// Delta retorna a variação de estoque com sinal
func (a *StockAdjustment) Delta() int {
	if a.Reason == ReasonEntry {
		return a.Quantity
	}
	return -a.Quantity
}
