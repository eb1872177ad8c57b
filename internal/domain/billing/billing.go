// Package billing descreve a integração com o provedor de cobrança recorrente:
// eventos de pagamento recebidos por webhook e a porta de saída usada no checkout.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Eventos de pagamento reconhecidos
const (
	EventPaymentReceived  = "PAYMENT_RECEIVED"
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
)

var (
	ErrMalformedEvent  = errors.New("evento de cobrança malformado")
	ErrMissingCustomer = errors.New("evento sem referência de cliente")
)

// Payment é o pagamento informado pelo provedor
type Payment struct {
	ID           string          `json:"id"`
	Customer     string          `json:"customer"`
	Subscription string          `json:"subscription,omitempty"`
	Value        decimal.Decimal `json:"value"`
}

// Event é o corpo do webhook do provedor de cobrança
type Event struct {
	ID      string   `json:"id,omitempty"`
	Event   string   `json:"event"`
	Payment *Payment `json:"payment"`
}

// ConfirmsPayment informa se o evento libera a assinatura
func (e Event) ConfirmsPayment() bool {
	return e.Event == EventPaymentReceived || e.Event == EventPaymentConfirmed
}

// Validate verifica os campos exigidos de um evento de pagamento
func (e Event) Validate() error {
	if e.Event == "" {
		return ErrMalformedEvent
	}
	if !e.ConfirmsPayment() {
		return nil
	}
	if e.Payment == nil || e.Payment.Customer == "" {
		return ErrMissingCustomer
	}
	return nil
}

// DedupeKey identifica o pagamento para descartar reentregas.
// RECEIVED e CONFIRMED do mesmo pagamento liberam a assinatura uma única vez.
func (e Event) DedupeKey() string {
	if e.Payment == nil {
		return ""
	}
	return e.Payment.ID
}

// ProcessedEvent registra um pagamento já aplicado
type ProcessedEvent struct {
	Key         string          `json:"key"`
	Event       string          `json:"event"`
	TenantID    string          `json:"tenant_id"`
	CustomerRef string          `json:"customer_ref"`
	Value       decimal.Decimal `json:"value"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// EventStore persiste os pagamentos processados
type EventStore interface {
	// Record grava o pagamento. Falha com conflito se a chave já foi registrada.
	Record(ctx context.Context, e *ProcessedEvent) error
}

// Customer é o cliente no provedor de cobrança
type Customer struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Document string `json:"cpfCnpj"`
	Email    string `json:"email"`
}

// Subscription é a assinatura recorrente no provedor
type Subscription struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer"`
	Status      string          `json:"status"`
	Value       decimal.Decimal `json:"value"`
	Cycle       string          `json:"cycle"`
	NextDueDate string          `json:"nextDueDate"`
}

// SubscriptionRequest são os dados para criar uma assinatura mensal
type SubscriptionRequest struct {
	CustomerID  string
	Value       decimal.Decimal
	NextDueDate time.Time
	Description string
}

// Provider é a porta de saída para o provedor de cobrança.
// Implementações devem limitar o tempo de cada chamada.
type Provider interface {
	FindCustomerByDocument(ctx context.Context, document string) (*Customer, error)
	CreateCustomer(ctx context.Context, name, document, email string) (*Customer, error)
	FindActiveSubscription(ctx context.Context, customerID string) (*Subscription, error)
	CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Subscription, error)
	PaymentURL(ctx context.Context, subscriptionID string) (string, error)
}

// Checkout é o resultado do início de uma assinatura
type Checkout struct {
	Plan           string          `json:"plan"`
	Value          decimal.Decimal `json:"value"`
	CustomerID     string          `json:"customer_id"`
	SubscriptionID string          `json:"subscription_id"`
	PaymentURL     string          `json:"payment_url"`
}
