// Package fiscal processa a emissão de NFC-e fora da transação da venda
package fiscal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/certificate"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/hugohenrick/nexum-erp/pkg/pkcs12"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("adapter/fiscal")

var (
	ErrQueueFull          = errors.New("fila de emissão fiscal cheia")
	ErrStopped            = errors.New("emissor fiscal encerrado")
	ErrMissingTokens      = errors.New("empresa sem token fiscal ou CSC configurado")
	ErrMissingCertificate = errors.New("empresa sem certificado A1 ativo")
	ErrExpiredCertificate = errors.New("certificado A1 vencido")
)

// Emitter transmite a NFC-e de uma venda
type Emitter interface {
	Emit(ctx context.Context, job service.FiscalJob) error
}

// Dispatcher mantém uma fila limitada drenada por um número fixo de workers
type Dispatcher struct {
	queue   chan service.FiscalJob
	workers int
	emitter Emitter
	sales   sale.Repository
	logger  logger.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher cria o despachante com a fila do tamanho informado
func NewDispatcher(emitter Emitter, sales sale.Repository, workers, queueSize int, log logger.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		queue:   make(chan service.FiscalJob, queueSize),
		workers: workers,
		emitter: emitter,
		sales:   sales,
		logger:  log,
	}
}

// Enqueue agenda a emissão sem bloquear
func (d *Dispatcher) Enqueue(job service.FiscalJob) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run executa os workers até o contexto ser cancelado. Os pedidos já
// enfileirados são processados antes do retorno.
func (d *Dispatcher) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for job := range d.queue {
				d.process(job)
			}
			return nil
		})
	}

	<-ctx.Done()
	d.mu.Lock()
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	return g.Wait()
}

func (d *Dispatcher) process(job service.FiscalJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.emitter.Emit(ctx, job); err != nil {
		warning := fmt.Sprintf("falha na emissão fiscal: %v", err)
		d.logger.Warn("falha na emissão fiscal", "tenant_id", job.TenantID, "sale_id", job.SaleID, "error", err)
		if err := d.sales.SetFiscalWarning(ctx, job.TenantID, job.SaleID, warning); err != nil {
			d.logger.Error("erro ao registrar aviso fiscal", "sale_id", job.SaleID, "error", err)
		}
		return
	}
	d.logger.Info("NFC-e emitida", "tenant_id", job.TenantID, "sale_id", job.SaleID)
}

// PreflightEmitter confere os pré-requisitos da NFC-e (tokens e certificado A1).
// A transmissão à SEFAZ é feita pelo provedor fiscal contratado pela empresa.
type PreflightEmitter struct {
	tenants      tenant.Repository
	sales        sale.Repository
	certificates certificate.Repository
	logger       logger.Logger
}

// NewPreflightEmitter cria o emissor
func NewPreflightEmitter(tenants tenant.Repository, sales sale.Repository, certificates certificate.Repository, log logger.Logger) *PreflightEmitter {
	return &PreflightEmitter{tenants: tenants, sales: sales, certificates: certificates, logger: log}
}

// Emit valida a venda e as credenciais fiscais da empresa
func (e *PreflightEmitter) Emit(ctx context.Context, job service.FiscalJob) error {
	ctx, span := tracer.Start(ctx, "PreflightEmitter.Emit")
	defer span.End()

	s, err := e.sales.FindByID(ctx, job.TenantID, job.SaleID)
	if err != nil {
		return err
	}
	if s.Status != sale.StatusFinalized || !s.FiscalIssued {
		return fmt.Errorf("venda %s não está marcada para emissão", s.ShortID())
	}

	t, err := e.tenants.FindByID(ctx, job.TenantID)
	if err != nil {
		return err
	}
	if t.Fiscal.APIToken == "" || t.Fiscal.CSCToken == "" {
		return ErrMissingTokens
	}

	cert, err := e.certificates.FindActive(ctx, job.TenantID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return ErrMissingCertificate
		}
		return err
	}
	now := time.Now()
	if cert.IsExpired(now) {
		return ErrExpiredCertificate
	}
	info, err := pkcs12.Inspect(cert.Data, cert.Password)
	if err != nil {
		return fmt.Errorf("certificado A1 inválido: %w", err)
	}

	e.logger.Debug("NFC-e pronta para transmissão",
		"tenant_id", t.ID,
		"environment", t.Fiscal.Environment,
		"certificate", info.Subject,
		"total", s.Total.StringFixed(2),
	)
	return nil
}
