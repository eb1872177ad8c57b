package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/domain/ledger"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// LedgerController expõe o módulo financeiro (plano PRO)
type LedgerController struct {
	ledger *service.LedgerService
	logger logger.Logger
}

// NewLedgerController cria uma nova instância de LedgerController
func NewLedgerController(ledger *service.LedgerService, log logger.Logger) *LedgerController {
	return &LedgerController{ledger: ledger, logger: log}
}

// List lista os lançamentos financeiros
// @Summary Listar lançamentos
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ledger.Entry
// @Failure 402 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /ledger [get]
func (c *LedgerController) List(ctx *gin.Context) {
	entries, err := c.ledger.ListEntries(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	if entries == nil {
		entries = []*ledger.Entry{}
	}
	ctx.JSON(http.StatusOK, entries)
}

// AddExpense lança uma despesa
// @Summary Lançar despesa
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param expense body dto.ExpenseRequest true "Despesa"
// @Success 201 {object} ledger.Entry
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Router /ledger/expenses [post]
func (c *LedgerController) AddExpense(ctx *gin.Context) {
	var request dto.ExpenseRequest
	if !bindJSON(ctx, &request) {
		return
	}
	in, err := request.ToInput()
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	entry, err := c.ledger.AddExpense(ctx.Request.Context(), middleware.Actor(ctx), in)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// MarkPaid marca um lançamento como pago
// @Summary Baixar lançamento
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do lançamento"
// @Success 200 {object} ledger.Entry
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /ledger/{id}/paid [patch]
func (c *LedgerController) MarkPaid(ctx *gin.Context) {
	entry, err := c.ledger.MarkPaid(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// Balance retorna receitas, despesas e saldo dos lançamentos pagos
// @Summary Saldo
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ledger.Balance
// @Failure 402 {object} dto.ErrorResponse
// @Router /ledger/balance [get]
func (c *LedgerController) Balance(ctx *gin.Context) {
	balance, err := c.ledger.Balance(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, balance)
}
