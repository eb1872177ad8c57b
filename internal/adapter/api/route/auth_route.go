package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/nexum-erp/internal/adapter/api/controller"
)

// SetupAuthRoutes configura as rotas públicas de autenticação e cadastro
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/login", authController.Login)
		authRouter.POST("/refresh", authController.RefreshToken)
		authRouter.GET("/me", authController.Me)
	}

	router.POST("/signup", authController.Signup)
}
