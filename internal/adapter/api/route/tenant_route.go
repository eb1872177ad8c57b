package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupTenantRoutes configura as rotas da própria empresa e da administração global
func SetupTenantRoutes(router *gin.RouterGroup, tenantController *controller.TenantController) {
	tenantRouter := router.Group("/tenant")
	{
		tenantRouter.GET("", tenantController.Get)
		tenantRouter.PATCH("", tenantController.UpdateSettings)
		tenantRouter.GET("/contract", tenantController.Contract)
		tenantRouter.PUT("/fiscal", tenantController.UpdateFiscal)
		tenantRouter.POST("/certificate", tenantController.UploadCertificate)
	}

	adminRouter := router.Group("/admin/tenants")
	{
		adminRouter.GET("", tenantController.List)
		adminRouter.PATCH("/:id/status", tenantController.SetStatus)
	}
}
