package controllers

import (
	"context"
	"log"
	"time"

	"campus-portal-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRecorder appends admin-action entries after the primary mutation
// has succeeded. Writes are best effort: a failed insert is logged and
// never rolls back or fails the action it describes.
type AuditRecorder struct {
	collection *mongo.Collection
}

func NewAuditRecorder(collection *mongo.Collection) *AuditRecorder {
	return &AuditRecorder{collection: collection}
}

func (a *AuditRecorder) Record(adminID primitive.ObjectID, targetID, targetType, action, details, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry := models.AuditLog{
		AdminID:    adminID,
		TargetID:   targetID,
		TargetType: targetType,
		Action:     action,
		Details:    details,
		IP:         ip,
		Timestamp:  time.Now(),
	}

	if _, err := a.collection.InsertOne(ctx, entry); err != nil {
		log.Printf("Audit log failed: %v", err)
	}
}
