package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/domain/catalog"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// ProductController gerencia produtos e estoque
type ProductController struct {
	catalog *service.CatalogService
	logger  logger.Logger
}

// NewProductController cria uma nova instância de ProductController
func NewProductController(catalog *service.CatalogService, log logger.Logger) *ProductController {
	return &ProductController{catalog: catalog, logger: log}
}

// Create cadastra um produto com estoque inicial
// @Summary Criar produto
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.ProductRequest true "Produto"
// @Success 201 {object} catalog.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var request dto.ProductRequest
	if !bindJSON(ctx, &request) {
		return
	}

	p, err := c.catalog.CreateProduct(ctx.Request.Context(), middleware.Actor(ctx), request.ToData(), request.InitialStock)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

// List lista os produtos com busca por nome ou código de barras
// @Summary Listar produtos
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busca"
// @Param active query bool false "Somente ativos"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[catalog.Product]
// @Router /products [get]
func (c *ProductController) List(ctx *gin.Context) {
	p := pagination(ctx)
	filter := catalog.ProductFilter{
		OnlyActive: ctx.Query("active") == "true",
		Search:     ctx.Query("q"),
		Limit:      p.PageSize,
		Offset:     p.Offset(),
	}

	products, err := c.catalog.ListProducts(ctx.Request.Context(), middleware.Actor(ctx), filter)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(products, p))
}

// LowStock lista os produtos no estoque mínimo ou abaixo
// @Summary Produtos com estoque baixo
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} catalog.Product
// @Router /products/low-stock [get]
func (c *ProductController) LowStock(ctx *gin.Context) {
	products, err := c.catalog.LowStock(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	ctx.JSON(http.StatusOK, products)
}

// Get retorna um produto
// @Summary Consultar produto
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *ProductController) Get(ctx *gin.Context) {
	p, err := c.catalog.GetProduct(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// Update atualiza os dados cadastrais de um produto
// @Summary Atualizar produto
// @Description O estoque só muda por vendas ou ajustes
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Param product body dto.ProductRequest true "Produto"
// @Success 200 {object} catalog.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	var request dto.ProductRequest
	if !bindJSON(ctx, &request) {
		return
	}

	p, err := c.catalog.UpdateProduct(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.ToData())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// Delete desativa um produto
// @Summary Desativar produto
// @Tags products
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [delete]
func (c *ProductController) Delete(ctx *gin.Context) {
	if err := c.catalog.DeactivateProduct(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Adjust registra um ajuste manual de estoque
// @Summary Ajustar estoque
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Param adjustment body dto.AdjustmentRequest true "Ajuste"
// @Success 201 {object} catalog.StockAdjustment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id}/adjustments [post]
func (c *ProductController) Adjust(ctx *gin.Context) {
	var request dto.AdjustmentRequest
	if !bindJSON(ctx, &request) {
		return
	}

	adj, err := c.catalog.AdjustStock(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput(ctx.Param("id")))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, adj)
}

// ListAdjustments lista o histórico de ajustes do produto
// @Summary Histórico de ajustes
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 200 {array} catalog.StockAdjustment
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id}/adjustments [get]
func (c *ProductController) ListAdjustments(ctx *gin.Context) {
	adjustments, err := c.catalog.ListAdjustments(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	if adjustments == nil {
		adjustments = []*catalog.StockAdjustment{}
	}
	ctx.JSON(http.StatusOK, adjustments)
}
