package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics reúne as métricas Prometheus da aplicação
type Metrics struct {
	// Registry é exposto para o endpoint /metrics
	Registry *prometheus.Registry

	salesFinalized  prometheus.Counter
	shifts          *prometheus.CounterVec
	billingEvents   *prometheus.CounterVec
	externalErrors  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics cria um registry dedicado. Um registry privado permite chamar
// NewMetrics mais de uma vez (por exemplo, em testes) sem coletores duplicados.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		salesFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexum_sales_finalized_total",
			Help: "Total de vendas finalizadas.",
		}),
		shifts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexum_shifts_total",
				Help: "Aberturas e fechamentos de turno de caixa.",
			},
			[]string{"event"},
		),
		billingEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexum_billing_events_total",
				Help: "Eventos de cobrança recebidos por resultado.",
			},
			[]string{"result"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexum_external_errors_total",
				Help: "Falhas em serviços externos.",
			},
			[]string{"service"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexum_http_request_duration_seconds",
				Help:    "Duração das requisições HTTP por rota.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// SaleFinalized incrementa o contador de vendas finalizadas
func (m *Metrics) SaleFinalized() {
	if m == nil {
		return
	}
	m.salesFinalized.Inc()
}

// ShiftEvent registra abertura ("open") ou fechamento ("close") de turno
func (m *Metrics) ShiftEvent(event string) {
	if m == nil {
		return
	}
	m.shifts.WithLabelValues(event).Inc()
}

// BillingEvent registra o resultado do processamento de um webhook
func (m *Metrics) BillingEvent(result string) {
	if m == nil {
		return
	}
	m.billingEvents.WithLabelValues(result).Inc()
}

// ExternalError registra falha em um serviço externo
func (m *Metrics) ExternalError(service string) {
	if m == nil {
		return
	}
	m.externalErrors.WithLabelValues(service).Inc()
}

// ObserveRequest registra a duração de uma requisição
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}
