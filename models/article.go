package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is a knowledge-base entry maintained by admins.
type Article struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Category  string             `bson:"category" json:"category"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Views     int64              `bson:"views" json:"views"`
	Helpful   int64              `bson:"helpful" json:"helpful"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
