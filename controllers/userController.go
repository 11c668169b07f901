package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campus-portal-be/config"
	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserController serves the student dashboard endpoints.
type UserController struct {
	issues   *mongo.Collection
	messages *mongo.Collection
}

func NewUserController(db *config.Database) *UserController {
	return &UserController{
		issues:   db.Issues,
		messages: db.Messages,
	}
}

func (uc *UserController) countIssues(ctx context.Context, filter bson.M) int64 {
	count, err := uc.issues.CountDocuments(ctx, filter)
	if err != nil {
		return 0
	}
	return count
}

// GetStats returns the caller's own issue counts.
func (uc *UserController) GetStats(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"total":      uc.countIssues(ctx, bson.M{"submittedBy": userID}),
		"pending":    uc.countIssues(ctx, bson.M{"submittedBy": userID, "status": models.StatusPending}),
		"inProgress": uc.countIssues(ctx, bson.M{"submittedBy": userID, "status": models.StatusInProgress}),
		"resolved":   uc.countIssues(ctx, bson.M{"submittedBy": userID, "status": models.StatusResolved}),
		"criticalCount": uc.countIssues(ctx, bson.M{
			"submittedBy": userID,
			"priority":    bson.M{"$in": []string{"high", "critical"}},
			"status":      bson.M{"$ne": models.StatusResolved},
		}),
		"avgResolutionTime": 0,
	})
}

// GetActivities lists the caller's recently updated issues as an activity feed.
func (uc *UserController) GetActivities(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(10)

	cursor, err := uc.issues.Find(ctx, bson.M{"submittedBy": userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve activities"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode activities"})
		return
	}

	activities := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		activities = append(activities, gin.H{
			"id":        issue.ID,
			"type":      "issue_update",
			"message":   fmt.Sprintf("Issue %q - Status: %s", issue.Title, issue.Status),
			"timestamp": issue.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, activities)
}

// GetAnnouncements surfaces the latest broadcast messages.
func (uc *UserController) GetAnnouncements(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5)

	cursor, err := uc.messages.Find(ctx, bson.M{"type": models.MessageBroadcast}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve announcements"})
		return
	}
	defer cursor.Close(ctx)

	var broadcasts []models.Message
	if err := cursor.All(ctx, &broadcasts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode announcements"})
		return
	}

	announcements := make([]gin.H, 0, len(broadcasts))
	for _, broadcast := range broadcasts {
		title := broadcast.Subject
		if title == "" {
			title = "System Announcement"
		}
		announcements = append(announcements, gin.H{
			"_id":       broadcast.ID,
			"title":     title,
			"message":   broadcast.Message,
			"type":      "info",
			"createdAt": broadcast.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, announcements)
}
