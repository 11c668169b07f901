package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types
const (
	MessageDirect    = "direct"
	MessageBroadcast = "broadcast"
)

// Message is a direct or broadcast notice sent by an admin. Broadcast
// messages have no recipient and double as user-facing announcements.
type Message struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	From        primitive.ObjectID  `bson:"from" json:"from"`
	To          *primitive.ObjectID `bson:"to,omitempty" json:"to,omitempty"`
	Subject     string              `bson:"subject" json:"subject"`
	Message     string              `bson:"message" json:"message"`
	Read        bool                `bson:"read" json:"read"`
	Type        string              `bson:"type" json:"type"`
	TargetGroup string              `bson:"targetGroup,omitempty" json:"targetGroup,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
