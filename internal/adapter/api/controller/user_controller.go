package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// UserController gerencia a equipe da empresa
type UserController struct {
	team   *service.TeamService
	logger logger.Logger
}

// NewUserController cria uma nova instância de UserController
func NewUserController(team *service.TeamService, log logger.Logger) *UserController {
	return &UserController{team: team, logger: log}
}

// Create cadastra um colaborador respeitando o limite do plano
// @Summary Criar colaborador
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UserRequest true "Dados do colaborador"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var request dto.UserRequest
	if !bindJSON(ctx, &request) {
		return
	}

	u, err := c.team.CreateUser(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

// List lista os colaboradores da empresa
// @Summary Listar colaboradores
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.team.ListUsers(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// Update edita nome, email, função e opcionalmente a senha de um colaborador
// @Summary Editar colaborador
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do colaborador"
// @Param user body dto.UpdateUserRequest true "Dados do colaborador"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	var request dto.UpdateUserRequest
	if !bindJSON(ctx, &request) {
		return
	}

	u, err := c.team.UpdateUser(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// Deactivate desativa um colaborador
// @Summary Desativar colaborador
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do colaborador"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/deactivate [patch]
func (c *UserController) Deactivate(ctx *gin.Context) {
	u, err := c.team.Deactivate(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}
