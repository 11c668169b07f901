package routes

import (
	"campus-portal-be/controllers"
	"campus-portal-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the triage dashboard routes, all admin-only.
func AdminRoutes(r *gin.Engine, admin *controllers.AdminController, kb *controllers.KnowledgeBaseController) {
	group := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		group.GET("/stats", admin.GetStats)
		group.GET("/analytics", admin.GetAnalytics)
		group.GET("/activity", admin.GetActivity)
		group.GET("/audit-logs", admin.GetAuditLogs)

		group.GET("/system-config", admin.GetSystemConfig)
		group.POST("/system-config", admin.SetSystemConfig)

		group.GET("/users", admin.ListUsers)
		group.PATCH("/users/:id/block", admin.BlockUser)
		group.POST("/users/:id/reset-password", admin.ResetUserPassword)
		group.GET("/users/:id/stats", admin.GetUserStats)

		group.POST("/send-bulk-email", admin.SendBulkEmail)

		group.GET("/knowledge-base", kb.ListArticles)
		group.POST("/knowledge-base", kb.CreateArticle)
		group.PUT("/knowledge-base/:id", kb.UpdateArticle)
		group.DELETE("/knowledge-base/:id", kb.DeleteArticle)
	}
}
