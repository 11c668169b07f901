package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit target types
const (
	TargetUser      = "user"
	TargetIssue     = "issue"
	TargetSystem    = "system"
	TargetKnowledge = "knowledge_base"
)

// Audit action labels
const (
	ActionUpdateIssue   = "update_issue"
	ActionUpdateStatus  = "update_status"
	ActionDeleteIssue   = "delete_issue"
	ActionBlockUser     = "block_user"
	ActionUnblockUser   = "unblock_user"
	ActionResetPassword = "reset_password"
	ActionUpdateConfig  = "update_config"
	ActionCreateArticle = "create_article"
	ActionUpdateArticle = "update_article"
	ActionDeleteArticle = "delete_article"
)

// AuditLog is an append-only record of an administrative action. Entries
// are written after the primary mutation succeeds and are never updated
// or deleted.
type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AdminID    primitive.ObjectID `bson:"adminId" json:"adminId"`
	TargetID   string             `bson:"targetId" json:"targetId"`
	TargetType string             `bson:"targetType" json:"targetType"`
	Action     string             `bson:"action" json:"action"`
	Details    string             `bson:"details" json:"details"`
	IP         string             `bson:"ip" json:"ip"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
