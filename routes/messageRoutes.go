package routes

import (
	"campus-portal-be/controllers"
	"campus-portal-be/middlewares"

	"github.com/gin-gonic/gin"
)

// MessageRoutes sets up the communication center and the upload stub.
func MessageRoutes(r *gin.Engine, messages *controllers.MessageController) {
	group := r.Group("/api/messages", middlewares.AuthMiddleware())
	{
		group.GET("", messages.ListMessages)
		group.POST("", messages.SendMessage)
	}

	r.POST("/api/upload", middlewares.AuthMiddleware(), controllers.UploadFile)
}
