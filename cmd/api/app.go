package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/route"
	"github.com/hugohenrick/nexum-erp/internal/adapter/billing"
	"github.com/hugohenrick/nexum-erp/internal/adapter/fiscal"
	"github.com/hugohenrick/nexum-erp/internal/adapter/repository"
	"github.com/hugohenrick/nexum-erp/internal/adapter/repository/memory"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/cache"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/config"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/resilience"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/apperror"
	"github.com/hugohenrick/nexum-erp/pkg/auth"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"golang.org/x/sync/errgroup"

	_ "github.com/hugohenrick/nexum-erp/docs"
)

const shutdownTimeout = 10 * time.Second

// App representa a aplicação e suas dependências
type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *http.Server
	dispatcher *fiscal.Dispatcher
	tenantTTL  *cache.InMemory[tenant.Tenant]
	shutdown   func(context.Context) error
	closers    []func()
}

// storage reúne repositórios e unidade de trabalho do armazenamento escolhido
type storage struct {
	repos service.Repositories
	tx    service.Transactor
	ping  func(context.Context) error
	close func()
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	shutdownTracer, err := observability.InitTracer(ctx, "nexum-erp", cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	tenantCache := cache.New[tenant.Tenant](cfg.Cache.EntitlementTTL)

	jwtService, err := auth.NewJWTService(cfg.JWT.SecretKey, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	if err != nil {
		store.close()
		return nil, err
	}

	asaas := billing.NewAsaasClient(
		&http.Client{Timeout: cfg.Billing.Timeout},
		cfg.Billing.URL,
		cfg.Billing.APIKey,
		resilience.NewCircuitBreaker("asaas"),
		resilience.Config{MaxRetries: cfg.Billing.MaxRetries, InitialBackoff: 200 * time.Millisecond},
	)
	if cfg.Billing.APIKey == "" {
		log.Warn("ASAAS_API_KEY não configurada: checkout indisponível")
	}

	repos := store.repos
	dispatcher := fiscal.NewDispatcher(
		fiscal.NewPreflightEmitter(repos.Tenants, repos.Sales, repos.Certificates, log),
		repos.Sales,
		cfg.Fiscal.Workers,
		cfg.Fiscal.QueueSize,
		log,
	)

	// Serviços
	accessService := service.NewAccessService(repos.Users, repos.Tenants, tenantCache, log)
	authService := service.NewAuthService(repos.Users, jwtService, log)
	tenantService := service.NewTenantService(repos, store.tx, accessService, log)
	teamService := service.NewTeamService(repos, store.tx, log)
	shiftService := service.NewShiftService(repos, store.tx, metrics, log)
	catalogService := service.NewCatalogService(repos, store.tx, log)
	customerService := service.NewCustomerService(repos.Customers, log)
	saleService := service.NewSaleService(repos, store.tx, dispatcher, cfg.Sales.AllowNegativeStock(), metrics, log)
	ledgerService := service.NewLedgerService(repos.Ledger, store.tx, log)
	billingService := service.NewBillingService(repos, store.tx, asaas, accessService, metrics, log)
	reportService := service.NewReportService(repos)

	if cfg.Admin.Enabled() {
		_, err := authService.CreateSuperuser(ctx, cfg.Admin.Name, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil && !apperror.IsConflict(err) {
			store.close()
			return nil, fmt.Errorf("erro ao criar superusuário: %w", err)
		}
	}

	gin.SetMode(cfg.Server.GinMode)
	router := route.NewRouter(route.RouterConfig{
		JWT:          jwtService,
		Actors:       accessService,
		WebhookToken: cfg.Billing.WebhookToken,
		Logger:       log,
		Metrics:      metrics,
		Gatherer:     metrics.Registry,
		Health:       func(c *gin.Context) error { return store.ping(c.Request.Context()) },
	}, route.Controllers{
		Auth:      controller.NewAuthController(authService, tenantService, jwtService, log),
		Tenant:    controller.NewTenantController(tenantService, log),
		User:      controller.NewUserController(teamService, log),
		Shift:     controller.NewShiftController(shiftService, log),
		Sale:      controller.NewSaleController(saleService, log),
		Product:   controller.NewProductController(catalogService, log),
		Reference: controller.NewReferenceController(catalogService, log),
		Customer:  controller.NewCustomerController(customerService, log),
		Ledger:    controller.NewLedgerController(ledgerService, log),
		Billing:   controller.NewBillingController(billingService, log),
		Report:    controller.NewReportController(reportService, log),
	})

	return &App{
		cfg:    cfg,
		logger: log,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		dispatcher: dispatcher,
		tenantTTL:  tenantCache,
		shutdown:   shutdownTracer,
		closers:    []func(){store.close},
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage, error) {
	if cfg.Storage == "memory" {
		log.Warn("armazenamento em memória: dados não persistem entre reinícios")
		s := memory.NewStore()
		return &storage{repos: s.Repositories(), tx: s, ping: s.Ping, close: func() {}}, nil
	}

	if err := database.RunMigrations(cfg.Postgres.ConnectionString(), log); err != nil {
		return nil, err
	}
	db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, err
	}
	return &storage{repos: repository.NewRepositories(db), tx: db, ping: db.Ping, close: db.Close}, nil
}

// Run atende requisições e processa a fila fiscal até ctx ser cancelado
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})

	g.Go(func() error {
		a.logger.Info("servidor HTTP iniciado", "addr", a.server.Addr, "storage", a.cfg.Storage)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("erro no servidor HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("encerrando servidor HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	a.tenantTTL.Close()
	for _, c := range a.closers {
		c()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Error("erro ao encerrar tracer", "error", err)
	}
}
