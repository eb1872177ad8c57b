package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/middleware"
	"github.com/hugohenrick/nexum-erp/internal/service"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// maxCertificateSize limita o upload do arquivo PFX
const maxCertificateSize = 1 << 20

// TenantController gerencia as requisições relacionadas a tenants
type TenantController struct {
	tenants *service.TenantService
	logger  logger.Logger
}

// NewTenantController cria uma nova instância de TenantController
func NewTenantController(tenants *service.TenantService, log logger.Logger) *TenantController {
	return &TenantController{tenants: tenants, logger: log}
}

// Get retorna a empresa do usuário com a situação da assinatura
// @Summary Dados da empresa
// @Tags tenant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /tenant [get]
func (c *TenantController) Get(ctx *gin.Context) {
	actor := middleware.Actor(ctx)
	t, err := c.tenants.Get(ctx.Request.Context(), actor)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	resp := dto.ToTenantResponse(t)
	resp.Entitlement = &actor.Entitlement
	ctx.JSON(http.StatusOK, resp)
}

// UpdateSettings atualiza o cadastro da empresa
// @Summary Atualizar cadastro da empresa
// @Description Permitido mesmo com assinatura vencida
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body dto.TenantSettingsRequest true "Dados cadastrais"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tenant [patch]
func (c *TenantController) UpdateSettings(ctx *gin.Context) {
	var request dto.TenantSettingsRequest
	if !bindJSON(ctx, &request) {
		return
	}

	t, err := c.tenants.UpdateSettings(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// Contract retorna o resumo do contrato de assinatura
// @Summary Resumo do contrato
// @Tags tenant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tenant.ContractSummary
// @Failure 403 {object} dto.ErrorResponse
// @Router /tenant/contract [get]
func (c *TenantController) Contract(ctx *gin.Context) {
	summary, err := c.tenants.ContractSummary(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// UpdateFiscal configura a emissão de NFC-e
// @Summary Configuração fiscal
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fiscal body dto.FiscalSettingsRequest true "Ambiente e tokens"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /tenant/fiscal [put]
func (c *TenantController) UpdateFiscal(ctx *gin.Context) {
	var request dto.FiscalSettingsRequest
	if !bindJSON(ctx, &request) {
		return
	}

	t, err := c.tenants.UpdateFiscal(ctx.Request.Context(), middleware.Actor(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// UploadCertificate recebe o certificado digital A1 da empresa
// @Summary Enviar certificado digital
// @Tags tenant
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param certificate formData file true "Arquivo PFX"
// @Param password formData string true "Senha do certificado"
// @Success 201 {object} certificate.Certificate
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /tenant/certificate [post]
func (c *TenantController) UploadCertificate(ctx *gin.Context) {
	file, err := ctx.FormFile("certificate")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "arquivo não enviado", err.Error()))
		return
	}
	if file.Size > maxCertificateSize {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "arquivo muito grande", "limite de 1 MB"))
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCertificateSize))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	cert, err := c.tenants.UploadCertificate(ctx.Request.Context(), middleware.Actor(ctx), data, ctx.PostForm("password"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, cert)
}

// List lista todas as empresas (superusuário)
// @Summary Listar empresas
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.ListResponse[dto.TenantResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/tenants [get]
func (c *TenantController) List(ctx *gin.Context) {
	p := pagination(ctx)
	tenants, err := c.tenants.List(ctx.Request.Context(), middleware.Actor(ctx), p.PageSize, p.Offset())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(dto.ToTenantResponses(tenants), p))
}

// SetStatus ativa ou bloqueia uma empresa (superusuário)
// @Summary Ativar ou bloquear empresa
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da empresa"
// @Param status body dto.TenantStatusRequest true "Situação"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tenants/{id}/status [patch]
func (c *TenantController) SetStatus(ctx *gin.Context) {
	var request dto.TenantStatusRequest
	if !bindJSON(ctx, &request) {
		return
	}

	t, err := c.tenants.SetActive(ctx.Request.Context(), middleware.Actor(ctx), ctx.Param("id"), *request.Active)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}
