package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// ReferenceController gerencia categorias, fornecedores e formas de pagamento
type ReferenceController struct {
	catalog *service.CatalogService
	logger  logger.Logger
}

// NewReferenceController cria uma nova instância de ReferenceController
func NewReferenceController(catalog *service.CatalogService, log logger.Logger) *ReferenceController {
	return &ReferenceController{catalog: catalog, logger: log}
}

// CreateCategory cadastra uma categoria
// @Summary Criar categoria
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryRequest true "Categoria"
// @Success 201 {object} catalog.Category
// @Failure 400 {object} dto.ErrorResponse
// @Router /categories [post]
func (c *ReferenceController) CreateCategory(ctx *gin.Context) {
	var request dto.CategoryRequest
	if !bindJSON(ctx, &request) {
		return
	}
	created, err := c.catalog.CreateCategory(ctx.Request.Context(), middleware.Actor(ctx), request.Name)
	c.reply(ctx, http.StatusCreated, created, err)
}

// ListCategories lista as categorias
// @Summary Listar categorias
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} catalog.Category
// @Router /categories [get]
func (c *ReferenceController) ListCategories(ctx *gin.Context) {
	list, err := c.catalog.ListCategories(ctx.Request.Context(), middleware.Actor(ctx))
	c.reply(ctx, http.StatusOK, list, err)
}

// CreateSupplier cadastra um fornecedor
// @Summary Criar fornecedor
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body dto.SupplierRequest true "Fornecedor"
// @Success 201 {object} catalog.Supplier
// @Failure 400 {object} dto.ErrorResponse
// @Router /suppliers [post]
func (c *ReferenceController) CreateSupplier(ctx *gin.Context) {
	var request dto.SupplierRequest
	if !bindJSON(ctx, &request) {
		return
	}
	created, err := c.catalog.CreateSupplier(ctx.Request.Context(), middleware.Actor(ctx),
		request.LegalName, request.Document, request.Phone, request.Email)
	c.reply(ctx, http.StatusCreated, created, err)
}

// ListSuppliers lista os fornecedores
// @Summary Listar fornecedores
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} catalog.Supplier
// @Router /suppliers [get]
func (c *ReferenceController) ListSuppliers(ctx *gin.Context) {
	list, err := c.catalog.ListSuppliers(ctx.Request.Context(), middleware.Actor(ctx))
	c.reply(ctx, http.StatusOK, list, err)
}

// CreatePaymentMethod cadastra uma forma de pagamento
// @Summary Criar forma de pagamento
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param method body dto.PaymentMethodRequest true "Forma de pagamento"
// @Success 201 {object} catalog.PaymentMethod
// @Failure 400 {object} dto.ErrorResponse
// @Router /payment-methods [post]
func (c *ReferenceController) CreatePaymentMethod(ctx *gin.Context) {
	var request dto.PaymentMethodRequest
	if !bindJSON(ctx, &request) {
		return
	}
	created, err := c.catalog.CreatePaymentMethod(ctx.Request.Context(), middleware.Actor(ctx),
		request.Name, request.FeePercent, request.DaysToReceive)
	c.reply(ctx, http.StatusCreated, created, err)
}

// ListPaymentMethods lista as formas de pagamento
// @Summary Listar formas de pagamento
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} catalog.PaymentMethod
// @Router /payment-methods [get]
func (c *ReferenceController) ListPaymentMethods(ctx *gin.Context) {
	list, err := c.catalog.ListPaymentMethods(ctx.Request.Context(), middleware.Actor(ctx))
	c.reply(ctx, http.StatusOK, list, err)
}

func (c *ReferenceController) reply(ctx *gin.Context, status int, body interface{}, err error) {
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(status, body)
}
