package routes

import (
	"campus-portal-be/controllers"
	"campus-portal-be/middlewares"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRoutes sets up the student dashboard routes.
func UserRoutes(r *gin.Engine, users *controllers.UserController, configCollection *mongo.Collection) {
	maintenance := middlewares.CheckMaintenanceMode(configCollection)

	group := r.Group("/api/user", middlewares.AuthMiddleware(), maintenance)
	{
		group.GET("/stats", users.GetStats)
		group.GET("/activities", users.GetActivities)
		group.GET("/announcements", users.GetAnnouncements)
	}
}
