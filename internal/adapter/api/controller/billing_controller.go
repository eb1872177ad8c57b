package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/domain/billing"
	"github.com/hugohenrick/nexum-erp/internal/domain/tenant"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// BillingController expõe planos, checkout e o webhook do provedor de cobrança
type BillingController struct {
	billing *service.BillingService
	logger  logger.Logger
}

// NewBillingController cria uma nova instância de BillingController
func NewBillingController(billing *service.BillingService, log logger.Logger) *BillingController {
	return &BillingController{billing: billing, logger: log}
}

// Plans lista os planos contratáveis
// @Summary Planos disponíveis
// @Tags billing
// @Produce json
// @Success 200 {array} service.PlanOffer
// @Router /billing/plans [get]
func (c *BillingController) Plans(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.billing.Plans())
}

// Checkout inicia a assinatura do plano e retorna o link de pagamento
// @Summary Contratar plano
// @Description Permitido com assinatura vencida
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param plan path string true "Plano (ESSENCIAL ou PRO)"
// @Success 200 {object} billing.Checkout
// @Failure 400 {object} dto.ErrorResponse
// @Failure 412 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /billing/checkout/{plan} [post]
func (c *BillingController) Checkout(ctx *gin.Context) {
	checkout, err := c.billing.StartCheckout(ctx.Request.Context(), middleware.Actor(ctx), tenant.Plan(ctx.Param("plan")))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, checkout)
}

// Webhook recebe os eventos de pagamento do provedor
// @Summary Webhook de cobrança
// @Tags billing
// @Accept json
// @Produce json
// @Param asaas-access-token header string false "Token compartilhado"
// @Param event body billing.Event true "Evento"
// @Success 200 {object} service.WebhookResult
// @Failure 400 {object} service.WebhookResult
// @Failure 404 {object} service.WebhookResult
// @Router /billing/webhook [post]
func (c *BillingController) Webhook(ctx *gin.Context) {
	var event billing.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		c.logger.Warn("corpo do webhook ilegível", "error", err)
		ctx.JSON(http.StatusBadRequest, service.WebhookResult{Status: service.WebhookInvalid})
		return
	}

	result, err := c.billing.HandleWebhook(ctx.Request.Context(), event)
	if err != nil {
		status, resp := dto.FromError(err)
		c.logger.Error("erro ao processar webhook", "event", event.Event, "error", err)
		ctx.JSON(status, resp)
		return
	}
	ctx.JSON(result.HTTP, result)
}
