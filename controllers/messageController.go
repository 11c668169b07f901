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

// MessageController is the communication center: direct admin-to-user
// messages plus broadcasts.
type MessageController struct {
	messages *mongo.Collection
	users    *mongo.Collection
}

func NewMessageController(db *config.Database) *MessageController {
	return &MessageController{
		messages: db.Messages,
		users:    db.Users,
	}
}

// ListMessages returns everything visible to the caller: messages sent to
// them, sent by them, and broadcasts.
func (mc *MessageController) ListMessages(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"to": userID},
		{"from": userID},
		{"type": models.MessageBroadcast},
	}}

	cursor, err := mc.messages.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage creates a direct message. Admin-only; recipients may be
// addressed by id or by roll number.
func (mc *MessageController) SendMessage(c *gin.Context) {
	adminID, role, ok := currentUser(c)
	if !ok {
		return
	}
	if role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only admins can send messages"})
		return
	}

	var input struct {
		To      string `json:"to,omitempty"`
		ToRoll  string `json:"toRoll,omitempty"`
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var recipientID *primitive.ObjectID
	if input.ToRoll != "" {
		var recipient models.User
		if err := mc.users.FindOne(ctx, bson.M{"roll": input.ToRoll}).Decode(&recipient); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("User with roll %s not found", input.ToRoll)})
			return
		}
		recipientID = &recipient.ID
	} else if input.To != "" {
		id, err := primitive.ObjectIDFromHex(input.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipient ID"})
			return
		}
		recipientID = &id
	}

	msgType := input.Type
	if msgType == "" {
		msgType = models.MessageDirect
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		From:      adminID,
		To:        recipientID,
		Subject:   input.Subject,
		Message:   input.Message,
		Type:      msgType,
		CreatedAt: time.Now(),
	}

	if _, err := mc.messages.InsertOne(ctx, message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, message)
}
