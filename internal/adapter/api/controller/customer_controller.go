package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// CustomerController gerencia as requisições relacionadas a clientes
type CustomerController struct {
	customers *service.CustomerService
	logger    logger.Logger
}

// NewCustomerController cria uma nova instância de CustomerController
func NewCustomerController(customers *service.CustomerService, log logger.Logger) *CustomerController {
	return &CustomerController{customers: customers, logger: log}
}

// Create cria um novo cliente
// @Summary Criar cliente
// @Description Cria um novo cliente na empresa
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body dto.CustomerRequest true "Dados do cliente"
// @Success 201 {object} customer.Customer
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /customers [post]
func (c *CustomerController) Create(ctx *gin.Context) {
	var request dto.CustomerRequest
	if !bindJSON(ctx, &request) {
		return
	}

	created, err := c.customers.Create(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// List lista os clientes
// @Summary Listar clientes
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[customer.Customer]
// @Router /customers [get]
func (c *CustomerController) List(ctx *gin.Context) {
	p := pagination(ctx)
	list, err := c.customers.List(ctx.Request.Context(), middleware.Actor(ctx), p.PageSize, p.Offset())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(list, p))
}

// Get obtém um cliente pelo ID
// @Summary Obter cliente
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Success 200 {object} customer.Customer
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [get]
func (c *CustomerController) Get(ctx *gin.Context) {
	found, err := c.customers.Get(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, found)
}

// Update atualiza um cliente
// @Summary Atualizar cliente
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Param customer body dto.CustomerRequest true "Dados do cliente"
// @Success 200 {object} customer.Customer
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [put]
func (c *CustomerController) Update(ctx *gin.Context) {
	var request dto.CustomerRequest
	if !bindJSON(ctx, &request) {
		return
	}

	updated, err := c.customers.Update(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}
