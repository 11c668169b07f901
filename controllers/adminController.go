package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campus-portal-be/config"
	"campus-portal-be/mailer"
	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default password applied by the admin reset endpoint.
const defaultResetPassword = "123456"

// AdminController serves the triage dashboard: stats, analytics, user
// management, audit logs, system config and the bulk email broadcast.
// All routes are behind RequireAdmin.
type AdminController struct {
	users     *mongo.Collection
	issues    *mongo.Collection
	auditLogs *mongo.Collection
	messages  *mongo.Collection
	sysConfig *mongo.Collection
	audit     *AuditRecorder
	mail      *mailer.Mailer
}

func NewAdminController(db *config.Database, audit *AuditRecorder, mail *mailer.Mailer) *AdminController {
	return &AdminController{
		users:     db.Users,
		issues:    db.Issues,
		auditLogs: db.AuditLogs,
		messages:  db.Messages,
		sysConfig: db.SystemConfig,
		audit:     audit,
		mail:      mail,
	}
}

func (ad *AdminController) countIssues(ctx context.Context, filter bson.M) int64 {
	count, err := ad.issues.CountDocuments(ctx, filter)
	if err != nil {
		return 0
	}
	return count
}

// GetStats returns the headline dashboard numbers.
func (ad *AdminController) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	today := time.Now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	weekAgo := time.Now().AddDate(0, 0, -7)

	totalUsers, _ := ad.users.CountDocuments(ctx, bson.M{"role": models.RoleUser})
	activeUsers, _ := ad.users.CountDocuments(ctx, bson.M{"role": models.RoleUser, "isBlocked": bson.M{"$ne": true}})

	c.JSON(http.StatusOK, gin.H{
		"total":      ad.countIssues(ctx, bson.M{}),
		"pending":    ad.countIssues(ctx, bson.M{"status": models.StatusPending}),
		"inProgress": ad.countIssues(ctx, bson.M{"status": models.StatusInProgress}),
		"resolved":   ad.countIssues(ctx, bson.M{"status": models.StatusResolved}),
		"todayCount": ad.countIssues(ctx, bson.M{"createdAt": bson.M{"$gte": today}}),
		"weekCount":  ad.countIssues(ctx, bson.M{"createdAt": bson.M{"$gte": weekAgo}}),
		"criticalCount": ad.countIssues(ctx, bson.M{
			"priority": bson.M{"$in": []string{"high", "critical"}},
			"status":   models.StatusPending,
		}),
		"avgResolutionTime": 0,
		"totalUsers":        totalUsers,
		"activeUsers":       activeUsers,
	})
}

// GetAnalytics recomputes the reporting aggregates on every call. Not a
// performance-critical path at this scale.
func (ad *AdminController) GetAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		days = 30
	}

	groupBy := func(field string) ([]gin.H, error) {
		pipeline := []bson.M{
			{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		}
		cursor, err := ad.issues.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var rows []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}

		out := make([]gin.H, 0, len(rows))
		for _, row := range rows {
			name := row.ID
			if name == "" {
				name = "Other"
			}
			out = append(out, gin.H{"name": name, "value": row.Count})
		}
		return out, nil
	}

	issuesByCategory, err := groupBy("category")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to aggregate categories"})
		return
	}
	issuesByStatus, err := groupBy("status")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to aggregate statuses"})
		return
	}

	// Per-day trend over the requested window
	trendData := make([]gin.H, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		window := bson.M{"$gte": date, "$lt": nextDate}
		trendData = append(trendData, gin.H{
			"date":     fmt.Sprintf("%d/%d", date.Month(), date.Day()),
			"issues":   ad.countIssues(ctx, bson.M{"createdAt": window}),
			"resolved": ad.countIssues(ctx, bson.M{"createdAt": window, "status": models.StatusResolved}),
		})
	}

	// Department rollup via each user's submissions
	userCursor, err := ad.users.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1, "department": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load users"})
		return
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode users"})
		return
	}

	type deptStat struct {
		Department string `json:"department"`
		Total      int64  `json:"total"`
		Resolved   int64  `json:"resolved"`
		Pending    int64  `json:"pending"`
	}
	deptMap := map[string]*deptStat{}
	for _, user := range users {
		dept := user.Department
		if dept == "" {
			dept = "Unknown"
		}
		stat, okDept := deptMap[dept]
		if !okDept {
			stat = &deptStat{Department: dept}
			deptMap[dept] = stat
		}
		stat.Total += ad.countIssues(ctx, bson.M{"submittedBy": user.ID})
		stat.Resolved += ad.countIssues(ctx, bson.M{"submittedBy": user.ID, "status": models.StatusResolved})
		stat.Pending += ad.countIssues(ctx, bson.M{"submittedBy": user.ID, "status": models.StatusPending})
	}

	departmentStats := make([]deptStat, 0, len(deptMap))
	for _, stat := range deptMap {
		if stat.Total > 0 {
			departmentStats = append(departmentStats, *stat)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesByCategory": issuesByCategory,
		"issuesByStatus":   issuesByStatus,
		"trendData":        trendData,
		"departmentStats":  departmentStats,
	})
}

// GetSystemConfig returns the singleton config, creating defaults on first read.
func (ad *AdminController) GetSystemConfig(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cfg models.SystemConfig
	err := ad.sysConfig.FindOne(ctx, bson.M{}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		cfg = models.DefaultSystemConfig()
		result, insertErr := ad.sysConfig.InsertOne(ctx, cfg)
		if insertErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create config"})
			return
		}
		cfg.ID = result.InsertedID.(primitive.ObjectID)
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SetSystemConfig upserts the singleton config and audits the change.
func (ad *AdminController) SetSystemConfig(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Categories        *[]string        `json:"categories,omitempty"`
		Priorities        *[]string        `json:"priorities,omitempty"`
		MaintenanceMode   *bool            `json:"maintenanceMode,omitempty"`
		AllowRegistration *bool            `json:"allowRegistration,omitempty"`
		SLARules          *models.SLARules `json:"slaRules,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{}
	if input.Categories != nil {
		update["categories"] = *input.Categories
	}
	if input.Priorities != nil {
		update["priorities"] = *input.Priorities
	}
	if input.MaintenanceMode != nil {
		update["maintenanceMode"] = *input.MaintenanceMode
	}
	if input.AllowRegistration != nil {
		update["allowRegistration"] = *input.AllowRegistration
	}
	if input.SLARules != nil {
		update["slaRules"] = *input.SLARules
	}

	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No configuration fields provided"})
		return
	}

	var cfg models.SystemConfig
	err := ad.sysConfig.FindOneAndUpdate(ctx,
		bson.M{},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save config"})
		return
	}

	ad.audit.Record(adminID, cfg.ID.Hex(), models.TargetSystem, models.ActionUpdateConfig,
		"System configuration updated", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved", "config": cfg})
}

// GetActivity returns the latest submissions for the dashboard feed.
func (ad *AdminController) GetActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10)

	cursor, err := ad.issues.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve activity"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode activity"})
		return
	}

	activities := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		submitter := "Anonymous"
		var user models.User
		if err := ad.users.FindOne(ctx, bson.M{"_id": issue.SubmittedBy}).Decode(&user); err == nil {
			submitter = user.Name
		}
		activities = append(activities, gin.H{
			"id":          issue.ID,
			"type":        "new_issue",
			"title":       "New Issue Submitted",
			"description": fmt.Sprintf("%s (%s)", issue.Title, issue.Priority),
			"user":        submitter,
			"timestamp":   issue.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, activities)
}

// GetAuditLogs lists the most recent 100 audit entries, newest first.
func (ad *AdminController) GetAuditLogs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(100)

	cursor, err := ad.auditLogs.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve audit logs"})
		return
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// ListUsers returns all users (password omitted) with their issue counts.
func (ad *AdminController) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cursor, err := ad.users.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode users"})
		return
	}

	type userWithCount struct {
		models.User
		IssueCount int64 `json:"issueCount"`
	}

	out := make([]userWithCount, 0, len(users))
	for _, user := range users {
		out = append(out, userWithCount{
			User:       user,
			IssueCount: ad.countIssues(ctx, bson.M{"submittedBy": user.ID}),
		})
	}

	c.JSON(http.StatusOK, out)
}

// BlockUser toggles the block flag and audits the action.
func (ad *AdminController) BlockUser(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := ad.users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	blocked := !user.IsBlocked
	_, err = ad.users.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{"isBlocked": blocked, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		return
	}

	action := models.ActionUnblockUser
	state := "unblocked"
	if blocked {
		action = models.ActionBlockUser
		state = "blocked"
	}
	ad.audit.Record(adminID, targetID.Hex(), models.TargetUser, action,
		fmt.Sprintf("User %s was %s", user.Email, state), c.ClientIP())

	if blocked {
		c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "User active"})
	}
}

// ResetUserPassword sets the target account back to the default password.
func (ad *AdminController) ResetUserPassword(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := ad.users.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	hashed, err := models.HashPasswordString(defaultResetPassword)
	if err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reset password"})
		return
	}

	_, err = ad.users.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reset password"})
		return
	}

	ad.audit.Record(adminID, targetID.Hex(), models.TargetUser, models.ActionResetPassword,
		fmt.Sprintf("Password reset for %s", user.Email), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetUserStats returns one user's issue totals plus a category breakdown.
func (ad *AdminController) GetUserStats(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"submittedBy": targetID}},
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := ad.issues.Aggregate(ctx, pipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to aggregate categories"})
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode categories"})
		return
	}

	categoryBreakdown := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		category := row.ID
		if category == "" {
			category = "Other"
		}
		categoryBreakdown = append(categoryBreakdown, gin.H{"category": category, "count": row.Count})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":             ad.countIssues(ctx, bson.M{"submittedBy": targetID}),
		"pending":           ad.countIssues(ctx, bson.M{"submittedBy": targetID, "status": models.StatusPending}),
		"inProgress":        ad.countIssues(ctx, bson.M{"submittedBy": targetID, "status": models.StatusInProgress}),
		"resolved":          ad.countIssues(ctx, bson.M{"submittedBy": targetID, "status": models.StatusResolved}),
		"categoryBreakdown": categoryBreakdown,
	})
}

// SendBulkEmail stores the broadcast and queues the mail without waiting
// for delivery.
func (ad *AdminController) SendBulkEmail(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Subject      string `json:"subject" binding:"required"`
		Body         string `json:"body" binding:"required"`
		Recipients   string `json:"recipients,omitempty"`
		CustomEmails string `json:"customEmails,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject and body are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var addresses []string
	if input.Recipients == "custom" {
		for _, raw := range strings.Split(input.CustomEmails, ",") {
			email := strings.TrimSpace(raw)
			if email != "" && strings.Contains(email, "@") {
				addresses = append(addresses, email)
			}
		}
		if len(addresses) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No valid email addresses found"})
			return
		}
	} else {
		filter := bson.M{}
		if input.Recipients == "students" {
			filter = bson.M{"role": models.RoleUser}
		}

		cursor, err := ad.users.Find(ctx, filter,
			options.Find().SetProjection(bson.M{"email": 1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load recipients"})
			return
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode recipients"})
			return
		}
		if len(users) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No users found"})
			return
		}
		for _, user := range users {
			addresses = append(addresses, user.Email)
		}
	}

	targetGroup := input.Recipients
	if targetGroup == "" {
		targetGroup = "all"
	}

	_, err := ad.messages.InsertOne(ctx, models.Message{
		From:        adminID,
		Subject:     input.Subject,
		Message:     input.Body,
		Type:        models.MessageBroadcast,
		TargetGroup: targetGroup,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store broadcast"})
		return
	}

	for _, address := range addresses {
		ad.mail.Enqueue(mailer.BulkEmail(address, input.Subject, input.Body))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Broadcast sent successfully",
		"queued":  len(addresses),
	})
}
