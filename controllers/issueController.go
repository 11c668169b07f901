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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueController owns the issue lifecycle: creation, listing, detail views
// with view counting, edits, the status workflow, voting and deletion.
type IssueController struct {
	issues *mongo.Collection
	users  *mongo.Collection
	audit  *AuditRecorder
}

func NewIssueController(db *config.Database, audit *AuditRecorder) *IssueController {
	return &IssueController{
		issues: db.Issues,
		users:  db.Users,
		audit:  audit,
	}
}

// issueWithVoters is the detail/vote response shape: the issue plus the
// voter set materialized as a map so the client can test membership.
type issueWithVoters struct {
	models.Issue
	Voters map[string]string `json:"voters"`
}

// ListIssues returns every issue, newest first. Intentionally public:
// the issue board is open for transparency, so no auth middleware here.
func (ic *IssueController) ListIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := ic.issues.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// CreateIssue persists a new issue for the authenticated user. Vote
// tallies, views, status and ownership are always server-assigned.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=2000"`
		Category    string `json:"category" binding:"required"`
		Priority    string `json:"priority,omitempty"`
		Location    string `json:"location,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		if !models.ValidPriority(input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
			return
		}
		priority = models.IssuePriority(input.Priority)
	}

	now := time.Now()
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      models.StatusPending,
		Location:    input.Location,
		Votes:       models.VoteCounts{Good: 0, Bad: 0},
		VotedUsers:  []primitive.ObjectID{},
		Views:       0,
		SubmittedBy: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := ic.issues.InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetIssue returns a single issue and counts the view. The increment and
// the read are one FindOneAndUpdate so every authenticated detail request
// bumps views by exactly one.
func (ic *IssueController) GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = ic.issues.FindOneAndUpdate(ctx,
		bson.M{"_id": issueID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issueWithVoters{Issue: issue, Voters: issue.Voters()})
}

// UpdateIssue is the general edit endpoint: the issue's owner or an admin
// may change any whitelisted field, including status. Admin edits are
// audited; status changes go through applyStatusChange.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID"})
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Title              *string    `json:"title,omitempty"`
		Description        *string    `json:"description,omitempty"`
		Category           *string    `json:"category,omitempty"`
		Priority           *string    `json:"priority,omitempty"`
		Status             *string    `json:"status,omitempty"`
		AssignedTo         *string    `json:"assignedTo,omitempty"`
		ExpectedResolution *time.Time `json:"expectedResolution,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = ic.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	if !CanModifyIssue(role, userID, &issue) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	if input.Status != nil && !models.ValidStatus(*input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("invalid status %q", *input.Status)})
		return
	}

	// submittedBy, votes, votedUsers and views are never client-writable
	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Category != nil {
		update["category"] = *input.Category
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
			return
		}
		update["priority"] = *input.Priority
	}
	if input.AssignedTo != nil {
		assignee, err := primitive.ObjectIDFromHex(*input.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid assignee ID"})
			return
		}
		update["assignedTo"] = assignee
	}
	if input.ExpectedResolution != nil {
		update["expectedResolution"] = *input.ExpectedResolution
	}

	if _, err := ic.issues.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update issue"})
		return
	}

	if input.Status != nil {
		if _, err := ic.applyStatusChange(ctx, &issue, *input.Status, userID, role, c.ClientIP()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	} else if role == models.RoleAdmin {
		ic.audit.Record(userID, issue.ID.Hex(), models.TargetIssue, models.ActionUpdateIssue,
			fmt.Sprintf("Issue %q updated", issue.Title), c.ClientIP())
	}

	var updated models.Issue
	if err := ic.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SetIssueStatus is the admin-only triage endpoint: it changes status and
// nothing else. Route-level RequireAdmin enforces the policy.
func (ic *IssueController) SetIssueStatus(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID"})
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = ic.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	updated, err := ic.applyStatusChange(ctx, &issue, input.Status, userID, role, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "issue": updated})
}

// applyStatusChange is the shared core of the two status-mutation
// endpoints: validate the new status, persist it, and record an audit
// entry when the actor is an admin. Returns the post-update document.
func (ic *IssueController) applyStatusChange(ctx context.Context, issue *models.Issue, newStatus string, actorID primitive.ObjectID, actorRole, ip string) (*models.Issue, error) {
	if !models.ValidStatus(newStatus) {
		return nil, fmt.Errorf("invalid status %q", newStatus)
	}

	var updated models.Issue
	err := ic.issues.FindOneAndUpdate(ctx,
		bson.M{"_id": issue.ID},
		bson.M{"$set": bson.M{"status": newStatus, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update status")
	}

	if actorRole == models.RoleAdmin {
		ic.audit.Record(actorID, issue.ID.Hex(), models.TargetIssue, models.ActionUpdateStatus,
			fmt.Sprintf("Status changed from %q to %q for issue %q", issue.Status, newStatus, issue.Title),
			ip)
	}

	return &updated, nil
}

// VoteOnIssue casts the caller's single vote on an issue. The membership
// check and the tally increment are one conditional update, so two racing
// requests from the same user cannot both count.
func (ic *IssueController) VoteOnIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID"})
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !models.ValidVoteType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid vote type"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = ic.issues.FindOneAndUpdate(ctx,
		bson.M{"_id": issueID, "votedUsers": bson.M{"$ne": userID}},
		bson.M{
			"$inc":      bson.M{"votes." + input.Type: 1},
			"$addToSet": bson.M{"votedUsers": userID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)

	if err == mongo.ErrNoDocuments {
		// Either the issue is gone or the caller already voted.
		count, countErr := ic.issues.CountDocuments(ctx, bson.M{"_id": issueID})
		if countErr == nil && count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "already"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cast vote"})
		return
	}

	c.JSON(http.StatusOK, issueWithVoters{Issue: issue, Voters: issue.Voters()})
}

// DeleteIssue permanently removes an issue. Admin-only via route
// middleware; the title is captured before deletion for the audit entry.
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID"})
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = ic.issues.FindOneAndDelete(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete issue"})
		}
		return
	}

	ic.audit.Record(userID, issueID.Hex(), models.TargetIssue, models.ActionDeleteIssue,
		fmt.Sprintf("Issue %q permanently deleted", issue.Title), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
