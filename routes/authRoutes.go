package routes

import (
	"campus-portal-be/controllers"
	"campus-portal-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	group := r.Group("/api/auth")
	{
		group.POST("/register", auth.RegisterUser)
		group.POST("/login", auth.LoginUser)
		group.POST("/forgot-password", auth.ForgotPassword)
		group.POST("/reset-password", auth.ResetPassword)
		group.GET("/me", middlewares.AuthMiddleware(), auth.GetMe)
	}
}
