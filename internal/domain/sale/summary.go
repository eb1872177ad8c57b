package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryItem é uma linha do resumo de venda
type SummaryItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Summary é a visão somente leitura consumida pela geração de recibos
type Summary struct {
	SaleID         string          `json:"sale_id"`
	Number         string          `json:"number"`
	Status         Status          `json:"status"`
	StoreName      string          `json:"store_name"`
	OperatorName   string          `json:"operator_name"`
	CustomerName   string          `json:"customer_name,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Items          []SummaryItem   `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	FiscalIssued   bool            `json:"fiscal_issued"`
	ReceiptMessage string          `json:"receipt_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	FinalizedAt    *time.Time      `json:"finalized_at"`
}

// SummaryNames carrega os nomes resolvidos fora do agregado
type SummaryNames struct {
	StoreName      string
	OperatorName   string
	CustomerName   string
	PaymentMethod  string
	ReceiptMessage string
}

// Summarize monta o resumo da venda
func (s *Sale) Summarize(names SummaryNames) Summary {
	items := make([]SummaryItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SummaryItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	return Summary{
		SaleID:         s.ID,
		Number:         s.ShortID(),
		Status:         s.Status,
		StoreName:      names.StoreName,
		OperatorName:   names.OperatorName,
		CustomerName:   names.CustomerName,
		PaymentMethod:  names.PaymentMethod,
		Items:          items,
		Subtotal:       s.Subtotal(),
		Discount:       s.Discount,
		Total:          s.CurrentTotal(),
		FiscalIssued:   s.FiscalIssued,
		ReceiptMessage: names.ReceiptMessage,
		CreatedAt:      s.CreatedAt,
		FinalizedAt:    s.FinalizedAt,
	}
}
