// Package route monta o roteador HTTP da API
package route

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/observability"
	"github.com/hugohenrick/nexum-erp/pkg/auth"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// BasePath é o prefixo das rotas versionadas
const BasePath = "/api/v1"

// Controllers agrupa os controllers registrados no roteador
type Controllers struct {
	Auth      *controller.AuthController
	Tenant    *controller.TenantController
	User      *controller.UserController
	Shift     *controller.ShiftController
	Sale      *controller.SaleController
	Product   *controller.ProductController
	Reference *controller.ReferenceController
	Customer  *controller.CustomerController
	Ledger    *controller.LedgerController
	Billing   *controller.BillingController
	Report    *controller.ReportController
}

// RouterConfig reúne as dependências transversais do roteador
type RouterConfig struct {
	JWT          *auth.JWTService
	Actors       middleware.ActorResolver
	WebhookToken string
	Logger       logger.Logger
	Metrics      *observability.Metrics
	// Gatherer expõe as métricas em /metrics; nil desativa a rota
	Gatherer prometheus.Gatherer
	// Health responde à verificação de saúde; nil responde sempre ok
	Health func(*gin.Context) error
}

// NewRouter cria o gin.Engine com middlewares globais e todas as rotas
func NewRouter(cfg RouterConfig, c Controllers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.TenantHeader},
		ExposeHeaders:    []string{middleware.PlanExpiredHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	health := func(ctx *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(ctx); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "indisponível", "error": err.Error()})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", health)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(BasePath)
	api.Use(auth.JWTAuthMiddleware(cfg.JWT, middleware.IsPublic))
	api.Use(middleware.Gate(cfg.Actors))

	api.GET("/health", health)
	SetupAuthRoutes(api, c.Auth)
	SetupTenantRoutes(api, c.Tenant)
	SetupUserRoutes(api, c.User)
	SetupShiftRoutes(api, c.Shift)
	SetupSaleRoutes(api, c.Sale)
	SetupCatalogRoutes(api, c.Product, c.Reference)
	SetupCustomerRoutes(api, c.Customer)
	SetupLedgerRoutes(api, c.Ledger)
	SetupBillingRoutes(api, c.Billing, middleware.WebhookToken(cfg.WebhookToken))
	SetupReportRoutes(api, c.Report)

	return router
}
