package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/domain/sale"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// SaleController gerencia o ciclo de vida das vendas no PDV
type SaleController struct {
	sales  *service.SaleService
	logger logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(sales *service.SaleService, log logger.Logger) *SaleController {
	return &SaleController{sales: sales, logger: log}
}

// Start abre uma venda no turno atual do operador
// @Summary Iniciar venda
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 201 {object} sale.Sale
// @Failure 402 {object} dto.ErrorResponse
// @Failure 412 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Start(ctx *gin.Context) {
	s, err := c.sales.StartSale(ctx.Request.Context(), middleware.Actor(ctx))
	c.reply(ctx, http.StatusCreated, s, err)
}

// Get retorna uma venda
// @Summary Consultar venda
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	s, err := c.sales.GetSale(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	c.reply(ctx, http.StatusOK, s, err)
}

// Summary retorna o resumo da venda para impressão do recibo
// @Summary Resumo da venda
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Summary
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id}/summary [get]
func (c *SaleController) Summary(ctx *gin.Context) {
	summary, err := c.sales.Summary(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// AddItem adiciona um produto à venda
// @Summary Adicionar item
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param item body dto.AddItemRequest true "Produto e quantidade"
// @Success 200 {object} sale.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/items [post]
func (c *SaleController) AddItem(ctx *gin.Context) {
	var request dto.AddItemRequest
	if !bindJSON(ctx, &request) {
		return
	}
	s, err := c.sales.AddItem(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.ProductID, request.Quantity)
	c.reply(ctx, http.StatusOK, s, err)
}

// SetCustomer vincula um cliente à venda
// @Summary Vincular cliente
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param customer body dto.SetCustomerRequest true "Cliente"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/customer [put]
func (c *SaleController) SetCustomer(ctx *gin.Context) {
	var request dto.SetCustomerRequest
	if !bindJSON(ctx, &request) {
		return
	}
	s, err := c.sales.SetCustomer(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.CustomerID)
	c.reply(ctx, http.StatusOK, s, err)
}

// SetDiscount aplica desconto à venda
// @Summary Aplicar desconto
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param discount body dto.SetDiscountRequest true "Desconto em valor"
// @Success 200 {object} sale.Sale
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/discount [put]
func (c *SaleController) SetDiscount(ctx *gin.Context) {
	var request dto.SetDiscountRequest
	if !bindJSON(ctx, &request) {
		return
	}
	s, err := c.sales.SetDiscount(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.Discount)
	c.reply(ctx, http.StatusOK, s, err)
}

// Finalize fecha a venda, baixa o estoque e lança a receita
// @Summary Finalizar venda
// @Description Repetir a finalização de uma venda já fechada retorna 409 sem efeitos
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param payment body dto.FinalizeSaleRequest true "Forma de pagamento"
// @Success 200 {object} dto.FinalizeSaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 412 {object} dto.ErrorResponse
// @Router /sales/{id}/finalize [post]
func (c *SaleController) Finalize(ctx *gin.Context) {
	var request dto.FinalizeSaleRequest
	if !bindJSON(ctx, &request) {
		return
	}

	result, err := c.sales.Finalize(ctx.Request.Context(), middleware.Actor(ctx), service.FinalizeInput{
		SaleID:              ctx.Param("id"),
		PaymentMethodID:     request.PaymentMethodID,
		IssueFiscalDocument: request.IssueFiscalDocument,
	})
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	ctx.JSON(http.StatusOK, dto.FinalizeSaleResponse{Sale: result.Sale, Warnings: warnings})
}

// Cancel cancela uma venda em aberto
// @Summary Cancelar venda
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/cancel [post]
func (c *SaleController) Cancel(ctx *gin.Context) {
	s, err := c.sales.Cancel(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	c.reply(ctx, http.StatusOK, s, err)
}

func (c *SaleController) reply(ctx *gin.Context, status int, s *sale.Sale, err error) {
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(status, s)
}
