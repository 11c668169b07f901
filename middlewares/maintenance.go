package middlewares

import (
	"context"
	"net/http"
	"time"

	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckMaintenanceMode blocks non-admin requests with 503 while the
// maintenance flag is set. A failed config read fails open to prevent
// locking everyone out.
func CheckMaintenanceMode(configCollection *mongo.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var config models.SystemConfig
		err := configCollection.FindOne(ctx, bson.M{}).Decode(&config)
		if err != nil {
			c.Next()
			return
		}

		role, _ := c.Get(CtxRole)
		if config.MaintenanceMode && role != models.RoleAdmin {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message":         "System is under maintenance. Please try again later.",
				"maintenanceMode": true,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
