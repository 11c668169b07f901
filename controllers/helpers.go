package controllers

import (
	"net/http"

	"campus-portal-be/middlewares"
	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser pulls the authenticated identity out of the Gin context.
// Responds 401 and returns false when the request carries no valid identity.
func currentUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	userIDVal, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return primitive.NilObjectID, "", false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return primitive.NilObjectID, "", false
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return primitive.NilObjectID, "", false
	}

	role, _ := c.Get(middlewares.CtxRole)
	roleStr, _ := role.(string)
	if roleStr == "" {
		roleStr = models.RoleUser
	}

	return userID, roleStr, true
}

// CanModifyIssue implements the owner-or-admin policy used by issue edits.
func CanModifyIssue(role string, userID primitive.ObjectID, issue *models.Issue) bool {
	return role == models.RoleAdmin || issue.SubmittedBy == userID
}
