package routes

import (
	"campus-portal-be/controllers"
	"campus-portal-be/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueRoutes sets up the issue routes. The list endpoint stays public;
// everything else requires a token, and mutating endpoints honor the
// maintenance flag.
func IssueRoutes(r *gin.Engine, issues *controllers.IssueController, rdb *redis.Client, configCollection *mongo.Collection) {
	maintenance := middlewares.CheckMaintenanceMode(configCollection)

	r.GET("/api/issues", issues.ListIssues)

	group := r.Group("/api/issues", middlewares.AuthMiddleware())
	{
		group.POST("", maintenance, middlewares.IssueRateLimiter(rdb, 20), issues.CreateIssue)
		group.GET("/:id", maintenance, issues.GetIssue)
		group.PATCH("/:id", maintenance, issues.UpdateIssue)
		group.PUT("/:id/status", middlewares.RequireAdmin(), issues.SetIssueStatus)
		group.PUT("/:id/vote", maintenance, middlewares.IssueRateLimiter(rdb, 100), issues.VoteOnIssue)
		group.DELETE("/:id", middlewares.RequireAdmin(), issues.DeleteIssue)
	}
}
