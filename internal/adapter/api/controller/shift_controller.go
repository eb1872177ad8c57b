package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// ShiftController gerencia caixas e turnos
type ShiftController struct {
	shifts *service.ShiftService
	logger logger.Logger
}

// NewShiftController cria uma nova instância de ShiftController
func NewShiftController(shifts *service.ShiftService, log logger.Logger) *ShiftController {
	return &ShiftController{shifts: shifts, logger: log}
}

// CreateRegister cadastra um caixa físico
// @Summary Criar caixa
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param register body dto.RegisterRequest true "Caixa"
// @Success 201 {object} cash.Register
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /registers [post]
func (c *ShiftController) CreateRegister(ctx *gin.Context) {
	var request dto.RegisterRequest
	if !bindJSON(ctx, &request) {
		return
	}

	r, err := c.shifts.CreateRegister(ctx.Request.Context(), middleware.Actor(ctx), request.Name, request.Notes)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, r)
}

// ListRegisters lista os caixas da empresa
// @Summary Listar caixas
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} cash.Register
// @Router /registers [get]
func (c *ShiftController) ListRegisters(ctx *gin.Context) {
	registers, err := c.shifts.ListRegisters(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, registers)
}

// Open abre um turno para o operador autenticado
// @Summary Abrir caixa
// @Description Falha com 409 se o operador já possui turno aberto
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shift body dto.OpenShiftRequest true "Caixa e fundo de troco"
// @Success 201 {object} cash.Shift
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /shifts [post]
func (c *ShiftController) Open(ctx *gin.Context) {
	var request dto.OpenShiftRequest
	if !bindJSON(ctx, &request) {
		return
	}

	shift, err := c.shifts.OpenShift(ctx.Request.Context(), middleware.Actor(ctx), request.RegisterID, request.OpeningAmount)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, shift)
}

// Current retorna o turno aberto do operador
// @Summary Turno atual
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cash.Shift
// @Failure 404 {object} dto.ErrorResponse
// @Router /shifts/current [get]
func (c *ShiftController) Current(ctx *gin.Context) {
	shift, err := c.shifts.CurrentShift(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, shift)
}

// Close fecha o turno com autorização de um gerente
// @Summary Fechar caixa
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do turno"
// @Param closing body dto.CloseShiftRequest true "Valor contado e autorização"
// @Success 200 {object} cash.Shift
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /shifts/{id}/close [post]
func (c *ShiftController) Close(ctx *gin.Context) {
	var request dto.CloseShiftRequest
	if !bindJSON(ctx, &request) {
		return
	}

	shift, err := c.shifts.CloseShift(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput(ctx.Param("id")))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, shift)
}
