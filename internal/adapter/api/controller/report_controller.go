package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// ReportController expõe o painel e o relatório de comissões
type ReportController struct {
	reports *service.ReportService
	logger  logger.Logger
}

// NewReportController cria uma nova instância de ReportController
func NewReportController(reports *service.ReportService, log logger.Logger) *ReportController {
	return &ReportController{reports: reports, logger: log}
}

// Dashboard retorna os indicadores do dia
// @Summary Painel
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /reports/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	d, err := c.reports.Dashboard(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

// Commissions retorna as comissões do vendedor autenticado no período
// @Summary Minhas comissões
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Início (AAAA-MM-DD)"
// @Param to query string false "Fim inclusivo (AAAA-MM-DD)"
// @Success 200 {object} service.CommissionReport
// @Failure 400 {object} dto.ErrorResponse
// @Router /reports/commissions [get]
func (c *ReportController) Commissions(ctx *gin.Context) {
	from, err := dto.ParseDate("from", ctx.Query("from"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	to, err := dto.ParseDate("to", ctx.Query("to"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	if !to.IsZero() {
		// data final inclusiva
		to = to.AddDate(0, 0, 1)
	}

	report, err := c.reports.MyCommissions(ctx.Request.Context(), middleware.Actor(ctx), from, to)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}
