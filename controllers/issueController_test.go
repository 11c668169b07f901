package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-portal-be/middlewares"
	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func issueDoc(issueID, owner primitive.ObjectID, good, bad int32, voters bson.A, views int32, status string, updatedAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: issueID},
		{Key: "title", Value: "Broken projector in LT-2"},
		{Key: "description", Value: "Projector flickers and shuts off mid-lecture"},
		{Key: "category", Value: "Infrastructure"},
		{Key: "priority", Value: "medium"},
		{Key: "status", Value: status},
		{Key: "votes", Value: bson.D{{Key: "good", Value: good}, {Key: "bad", Value: bad}}},
		{Key: "votedUsers", Value: voters},
		{Key: "views", Value: views},
		{Key: "submittedBy", Value: owner},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(updatedAt.Add(-24 * time.Hour))},
		{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(updatedAt)},
	}
}

func jsonRequest(c *gin.Context, method, path, body string) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestVoteOnIssue(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	voterID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	issueID := primitive.NewObjectID()

	vote := func(mt *mtest.T, body string) *httptest.ResponseRecorder {
		ic := &IssueController{issues: mt.Coll, users: mt.Coll, audit: NewAuditRecorder(mt.Coll)}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(c, http.MethodPut, "/api/issues/"+issueID.Hex()+"/vote", body)
		c.Params = gin.Params{{Key: "id", Value: issueID.Hex()}}
		c.Set(middlewares.CtxUserID, voterID.Hex())
		c.Set(middlewares.CtxRole, models.RoleUser)
		ic.VoteOnIssue(c)
		return w
	}

	mt.Run("first vote counts and returns the voter set", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: issueDoc(issueID, ownerID, 1, 0, bson.A{voterID}, 3, "pending", time.Now())},
		})

		w := vote(mt, `{"type":"good"}`)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		votes := body["votes"].(map[string]any)
		assert.Equal(t, float64(1), votes["good"])
		assert.Equal(t, float64(0), votes["bad"])
		voters := body["voters"].(map[string]any)
		assert.Equal(t, "voted", voters[voterID.Hex()])
	})

	mt.Run("second vote from the same user is rejected", func(mt *mtest.T) {
		// The conditional update matches nothing, and the issue still exists.
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "portal.issues", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		w := vote(mt, `{"type":"good"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "already", decodeBody(t, w)["message"])
	})

	mt.Run("vote on a missing issue is 404", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, "portal.issues", mtest.FirstBatch),
		)

		w := vote(mt, `{"type":"bad"}`)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found", decodeBody(t, w)["message"])
	})

	mt.Run("unknown vote type never reaches the database", func(mt *mtest.T) {
		w := vote(mt, `{"type":"sideways"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid vote type", decodeBody(t, w)["message"])
	})
}

func TestGetIssue(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	ownerID := primitive.NewObjectID()
	issueID := primitive.NewObjectID()

	get := func(mt *mtest.T, id string) *httptest.ResponseRecorder {
		ic := &IssueController{issues: mt.Coll, users: mt.Coll, audit: NewAuditRecorder(mt.Coll)}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(c, http.MethodGet, "/api/issues/"+id, "")
		c.Params = gin.Params{{Key: "id", Value: id}}
		ic.GetIssue(c)
		return w
	}

	mt.Run("detail request returns the incremented view count", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: issueDoc(issueID, ownerID, 2, 1, bson.A{ownerID}, 8, "verified", time.Now())},
		})

		w := get(mt, issueID.Hex())

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(8), body["views"])
		assert.Contains(t, body, "voters")
	})

	mt.Run("missing issue is 404", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		w := get(mt, issueID.Hex())

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	mt.Run("malformed id is 400", func(mt *mtest.T) {
		w := get(mt, "not-an-object-id")

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSetIssueStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	adminID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	issueID := primitive.NewObjectID()

	mt.Run("response carries the persisted document", func(mt *mtest.T) {
		before := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
		after := time.Now().Truncate(time.Millisecond)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "portal.issues", mtest.FirstBatch,
				issueDoc(issueID, ownerID, 0, 0, bson.A{}, 1, "pending", before)),
			bson.D{
				{Key: "ok", Value: 1},
				{Key: "value", Value: issueDoc(issueID, ownerID, 0, 0, bson.A{}, 1, "resolved", after)},
			},
			mtest.CreateSuccessResponse(), // audit entry
		)

		ic := &IssueController{issues: mt.Coll, users: mt.Coll, audit: NewAuditRecorder(mt.Coll)}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(c, http.MethodPut, "/api/issues/"+issueID.Hex()+"/status", `{"status":"resolved"}`)
		c.Params = gin.Params{{Key: "id", Value: issueID.Hex()}}
		c.Set(middlewares.CtxUserID, adminID.Hex())
		c.Set(middlewares.CtxRole, models.RoleAdmin)
		ic.SetIssueStatus(c)

		require.Equal(t, http.StatusOK, w.Code)
		issue := decodeBody(t, w)["issue"].(map[string]any)
		assert.Equal(t, "resolved", issue["status"])

		updatedAt, err := time.Parse(time.RFC3339Nano, issue["updatedAt"].(string))
		require.NoError(t, err)
		assert.WithinDuration(t, after, updatedAt, time.Second)
	})
}

func TestCurrentUserRejectsNonStringIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	c.Set(middlewares.CtxUserID, 42)

	_, _, ok := currentUser(c)

	require.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
