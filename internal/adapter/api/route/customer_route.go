package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupCustomerRoutes registra as rotas do módulo de clientes
func SetupCustomerRoutes(router *gin.RouterGroup, customerController *controller.CustomerController) {
	customers := router.Group("/customers")
	{
		customers.POST("", customerController.Create)
		customers.GET("", customerController.List)
		customers.GET("/:id", customerController.Get)
		customers.PUT("/:id", customerController.Update)
	}
}
