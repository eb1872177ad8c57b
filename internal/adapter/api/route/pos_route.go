package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupShiftRoutes configura as rotas de caixas e turnos
func SetupShiftRoutes(router *gin.RouterGroup, shiftController *controller.ShiftController) {
	registers := router.Group("/registers")
	{
		registers.GET("", shiftController.ListRegisters)
		registers.POST("", shiftController.CreateRegister)
	}

	shifts := router.Group("/shifts")
	{
		shifts.POST("", shiftController.Open)
		shifts.GET("/current", shiftController.Current)
		shifts.POST("/:id/close", shiftController.Close)
	}
}

// SetupSaleRoutes configura as rotas do ciclo de vida da venda
func SetupSaleRoutes(router *gin.RouterGroup, saleController *controller.SaleController) {
	sales := router.Group("/sales")
	{
		sales.POST("", saleController.Start)
		sales.GET("/:id", saleController.Get)
		sales.GET("/:id/summary", saleController.Summary)
		sales.POST("/:id/items", saleController.AddItem)
		sales.PUT("/:id/customer", saleController.SetCustomer)
		sales.PUT("/:id/discount", saleController.SetDiscount)
		sales.POST("/:id/finalize", saleController.Finalize)
		sales.POST("/:id/cancel", saleController.Cancel)
	}
}
