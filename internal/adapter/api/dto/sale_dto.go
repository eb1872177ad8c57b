package dto

import (
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// AddItemRequest adiciona um produto à venda em aberto
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// SetCustomerRequest vincula um cliente à venda
type SetCustomerRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

// SetDiscountRequest aplica desconto em valor sobre o subtotal
type SetDiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

// FinalizeSaleRequest representa o fechamento da venda
type FinalizeSaleRequest struct {
	PaymentMethodID     string `json:"payment_method_id"`
	IssueFiscalDocument bool   `json:"issue_fiscal_document"`
}

// FinalizeSaleResponse traz a venda fechada e os avisos não bloqueantes
type FinalizeSaleResponse struct {
	Sale     *sale.Sale `json:"sale"`
	Warnings []string   `json:"warnings"`
}
