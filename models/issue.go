package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusVerified   IssueStatus = "verified"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

// Vote types accepted by the voting endpoint
const (
	VoteGood = "good"
	VoteBad  = "bad"
)

// VoteCounts holds the embedded tallies for an issue. The invariant
// Good+Bad == len(Issue.VotedUsers) is maintained by casting every vote
// as a single conditional update on the issue document.
type VoteCounts struct {
	Good int64 `bson:"good" json:"good"`
	Bad  int64 `bson:"bad" json:"bad"`
}

// Issue represents a grievance submitted by a student
type Issue struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title              string               `bson:"title" json:"title"`
	Description        string               `bson:"description" json:"description"`
	Category           string               `bson:"category" json:"category"`
	Priority           IssuePriority        `bson:"priority" json:"priority"`
	Status             IssueStatus          `bson:"status" json:"status"`
	Location           string               `bson:"location,omitempty" json:"location,omitempty"`
	Votes              VoteCounts           `bson:"votes" json:"votes"`
	VotedUsers         []primitive.ObjectID `bson:"votedUsers" json:"votedUsers"`
	Views              int64                `bson:"views" json:"views"`
	SubmittedBy        primitive.ObjectID   `bson:"submittedBy" json:"submittedBy"`
	AssignedTo         *primitive.ObjectID  `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	ExpectedResolution *time.Time           `bson:"expectedResolution,omitempty" json:"expectedResolution,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ValidStatus reports whether s is one of the recognized issue statuses.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case StatusPending, StatusVerified, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the recognized priorities.
func ValidPriority(p string) bool {
	switch IssuePriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ValidVoteType reports whether t is a countable vote type. Anything else
// is rejected outright rather than silently dropped, since an uncounted
// vote would still consume the caller's only vote on the issue.
func ValidVoteType(t string) bool {
	return t == VoteGood || t == VoteBad
}

// Voters materializes the voter set as a map keyed by user id hex, so the
// client can test whether a specific identity has voted.
func (i *Issue) Voters() map[string]string {
	voters := make(map[string]string, len(i.VotedUsers))
	for _, uid := range i.VotedUsers {
		voters[uid.Hex()] = "voted"
	}
	return voters
}

// HasVoted reports whether the given user already appears in the voter set.
func (i *Issue) HasVoted(userID primitive.ObjectID) bool {
	for _, uid := range i.VotedUsers {
		if uid == userID {
			return true
		}
	}
	return false
}
