// Package billing implementa o cliente do provedor de cobrança Asaas
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	domain "github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/resilience"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("adapter/billing")

// ErrUnavailable indica resposta de erro do servidor do provedor
var ErrUnavailable = errors.New("provedor de cobrança indisponível")

// StatusError é uma resposta inesperada do provedor
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("asaas respondeu status %d: %s", e.Status, e.Body)
}

// AsaasClient fala com a API v3 do Asaas
type AsaasClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAsaasClient cria o cliente. O timeout de cada chamada vem do httpClient.
func NewAsaasClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AsaasClient {
	return &AsaasClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
	}
}

type page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}

// FindCustomerByDocument procura o cliente pelo CPF/CNPJ
func (c *AsaasClient) FindCustomerByDocument(ctx context.Context, document string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "AsaasClient.FindCustomerByDocument")
	defer span.End()

	var result page[domain.Customer]
	path := "/customers?cpfCnpj=" + url.QueryEscape(document)
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, apperror.NotFound("cliente de cobrança", document)
	}
	return &result.Data[0], nil
}

// CreateCustomer cadastra o cliente no provedor
func (c *AsaasClient) CreateCustomer(ctx context.Context, name, document, email string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "AsaasClient.CreateCustomer")
	defer span.End()

	body := domain.Customer{Name: name, Document: document, Email: email}
	var created domain.Customer
	if err := c.call(ctx, http.MethodPost, "/customers", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// FindActiveSubscription busca a assinatura ativa do cliente
func (c *AsaasClient) FindActiveSubscription(ctx context.Context, customerID string) (*domain.Subscription, error) {
	ctx, span := tracer.Start(ctx, "AsaasClient.FindActiveSubscription")
	defer span.End()
	span.SetAttributes(attribute.String("billing.customer", customerID))

	var result page[domain.Subscription]
	path := "/subscriptions?status=ACTIVE&customer=" + url.QueryEscape(customerID)
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, apperror.NotFound("assinatura", customerID)
	}
	return &result.Data[0], nil
}

type subscriptionBody struct {
	Customer    string  `json:"customer"`
	BillingType string  `json:"billingType"`
	Value       float64 `json:"value"`
	NextDueDate string  `json:"nextDueDate"`
	Cycle       string  `json:"cycle"`
	Description string  `json:"description"`
}

// CreateSubscription cria uma assinatura mensal. O cliente escolhe a forma
// de pagamento na fatura.
func (c *AsaasClient) CreateSubscription(ctx context.Context, req domain.SubscriptionRequest) (*domain.Subscription, error) {
	ctx, span := tracer.Start(ctx, "AsaasClient.CreateSubscription")
	defer span.End()

	body := subscriptionBody{
		Customer:    req.CustomerID,
		BillingType: "UNDEFINED",
		Value:       req.Value.InexactFloat64(),
		NextDueDate: req.NextDueDate.Format("2006-01-02"),
		Cycle:       "MONTHLY",
		Description: req.Description,
	}
	var created domain.Subscription
	if err := c.call(ctx, http.MethodPost, "/subscriptions", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type payment struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoiceUrl"`
}

// PaymentURL retorna o link da primeira fatura da assinatura
func (c *AsaasClient) PaymentURL(ctx context.Context, subscriptionID string) (string, error) {
	ctx, span := tracer.Start(ctx, "AsaasClient.PaymentURL")
	defer span.End()

	var result page[payment]
	path := "/subscriptions/" + url.PathEscape(subscriptionID) + "/payments"
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 || result.Data[0].InvoiceURL == "" {
		return "", apperror.NotFound("fatura", subscriptionID)
	}
	return result.Data[0].InvoiceURL, nil
}

// call executa a requisição pelo circuit breaker. Somente consultas (GET) são
// repetidas; criações não são repetidas para não duplicar cadastros.
func (c *AsaasClient) call(ctx context.Context, method, path string, in, out any) error {
	cfg := c.cfg
	if method != http.MethodGet {
		cfg.MaxRetries = 0
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, cfg, retryable, func() error {
			return c.do(ctx, method, path, in, out)
		})
	})
	if err == nil {
		return nil
	}

	var status *StatusError
	if errors.As(err, &status) && status.Status < http.StatusInternalServerError {
		return &apperror.ExternalError{Service: "asaas", Err: err}
	}
	return &apperror.ExternalError{Service: "asaas", Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}

func (c *AsaasClient) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &StatusError{Status: resp.StatusCode, Body: buf.String()}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// retryable repete falhas de rede e respostas 5xx
func retryable(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}
