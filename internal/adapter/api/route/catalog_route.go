package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupCatalogRoutes configura as rotas de produtos e cadastros de apoio
func SetupCatalogRoutes(router *gin.RouterGroup, productController *controller.ProductController, referenceController *controller.ReferenceController) {
	products := router.Group("/products")
	{
		products.GET("", productController.List)
		products.POST("", productController.Create)
		products.GET("/low-stock", productController.LowStock)
		products.GET("/:id", productController.Get)
		products.PUT("/:id", productController.Update)
		products.DELETE("/:id", productController.Delete)
		products.GET("/:id/adjustments", productController.ListAdjustments)
		products.POST("/:id/adjustments", productController.Adjust)
	}

	router.GET("/categories", referenceController.ListCategories)
	router.POST("/categories", referenceController.CreateCategory)
	router.GET("/suppliers", referenceController.ListSuppliers)
	router.POST("/suppliers", referenceController.CreateSupplier)
	router.GET("/payment-methods", referenceController.ListPaymentMethods)
	router.POST("/payment-methods", referenceController.CreatePaymentMethod)
}
