package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupUserRoutes configura as rotas da equipe
func SetupUserRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	userRouter := router.Group("/users")
	{
		userRouter.GET("", userController.List)
		userRouter.POST("", userController.Create)
		userRouter.PUT("/:id", userController.Update)
		userRouter.PATCH("/:id/deactivate", userController.Deactivate)
	}
}
