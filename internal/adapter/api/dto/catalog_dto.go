package dto

import (
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/shopspring/decimal"
)

// ProductRequest representa o cadastro ou a edição de um produto
type ProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	CategoryID        string          `json:"category_id"`
	SupplierID        string          `json:"supplier_id"`
	Barcode           string          `json:"barcode"`
	Size              string          `json:"size"`
	Color             string          `json:"color"`
	Description       string          `json:"description"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	MinStock          int             `json:"min_stock"`
	InitialStock      int             `json:"initial_stock"`
}

// ToData converte a requisição para os dados editáveis do produto
func (r ProductRequest) ToData() catalog.ProductData {
	return catalog.ProductData{
		Name:              r.Name,
		CategoryID:        r.CategoryID,
		SupplierID:        r.SupplierID,
		Barcode:           r.Barcode,
		Size:              r.Size,
		Color:             r.Color,
		Description:       r.Description,
		CostPrice:         r.CostPrice,
		SalePrice:         r.SalePrice,
		CommissionPercent: r.CommissionPercent,
		MinStock:          r.MinStock,
	}
}

// AdjustmentRequest representa um ajuste manual de estoque
type AdjustmentRequest struct {
	Quantity int                      `json:"quantity" binding:"required"`
	Reason   catalog.AdjustmentReason `json:"reason" binding:"required"`
	Notes    string                   `json:"notes"`
}

// ToInput converte a requisição para a entrada do serviço
func (r AdjustmentRequest) ToInput(productID string) service.AdjustmentInput {
	return service.AdjustmentInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		Reason:    r.Reason,
		Notes:     r.Notes,
	}
}

// CategoryRequest representa uma nova categoria
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// SupplierRequest representa um novo fornecedor
type SupplierRequest struct {
	LegalName string `json:"legal_name" binding:"required"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// PaymentMethodRequest representa uma nova forma de pagamento
type PaymentMethodRequest struct {
	Name          string          `json:"name" binding:"required"`
	FeePercent    decimal.Decimal `json:"fee_percent"`
	DaysToReceive int             `json:"days_to_receive"`
}
