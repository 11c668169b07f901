package models_test

import (
	"testing"

	"campus-portal-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidVoteType(t *testing.T) {
	assert.True(t, models.ValidVoteType("good"))
	assert.True(t, models.ValidVoteType("bad"))

	// Unknown types are rejected outright instead of being silently
	// ignored: an ignored vote would still burn the caller's only vote.
	assert.False(t, models.ValidVoteType("meh"))
	assert.False(t, models.ValidVoteType("GOOD"))
	assert.False(t, models.ValidVoteType(""))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "verified", "in-progress", "resolved", "rejected"} {
		assert.True(t, models.ValidStatus(s), s)
	}

	assert.False(t, models.ValidStatus("Pending"))
	assert.False(t, models.ValidStatus("done"))
	assert.False(t, models.ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"low", "medium", "high", "critical"} {
		assert.True(t, models.ValidPriority(p), p)
	}

	assert.False(t, models.ValidPriority("urgent"))
	assert.False(t, models.ValidPriority(""))
}

func TestVotersProjection(t *testing.T) {
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	issue := models.Issue{
		VotedUsers: []primitive.ObjectID{u1, u2},
		Votes:      models.VoteCounts{Good: 1, Bad: 1},
	}

	voters := issue.Voters()
	assert.Len(t, voters, 2)
	assert.Equal(t, "voted", voters[u1.Hex()])
	assert.Equal(t, "voted", voters[u2.Hex()])

	// Tallies and voter set stay in step
	assert.Equal(t, issue.Votes.Good+issue.Votes.Bad, int64(len(issue.VotedUsers)))
}

func TestVotersProjectionEmpty(t *testing.T) {
	issue := models.Issue{}
	voters := issue.Voters()
	assert.NotNil(t, voters)
	assert.Empty(t, voters)
}

func TestHasVoted(t *testing.T) {
	voter := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	issue := models.Issue{VotedUsers: []primitive.ObjectID{voter}}

	assert.True(t, issue.HasVoted(voter))
	assert.False(t, issue.HasVoted(stranger))
}
