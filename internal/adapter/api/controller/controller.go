// Package controller expõe os serviços do PDV como handlers HTTP do gin
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/dto"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
)

// respondError traduz o erro da aplicação em status e corpo padronizados
func respondError(ctx *gin.Context, log logger.Logger, err error) {
	status, resp := dto.FromError(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("erro ao processar requisição",
			"route", ctx.FullPath(),
			"status", status,
			"error", err,
		)
	}
	ctx.JSON(status, resp)
}

// bindJSON lê o corpo da requisição e responde 400 quando inválido
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return false
	}
	return true
}

// pagination lê page e page_size da query string
func pagination(ctx *gin.Context) dto.Pagination {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	return dto.GetPagination(page, pageSize)
}
