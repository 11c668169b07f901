package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-portal-be/mailer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newTestAuthController(mt *mtest.T) *AuthController {
	return &AuthController{
		users:       mt.Coll,
		resetTokens: mt.Coll,
		sysConfig:   mt.Coll,
		mail:        mailer.NewWithSender(4, func(mailer.Email) error { return nil }),
	}
}

func TestRegisterUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email rejected by the unique index", func(mt *mtest.T) {
		// Simulates the losing side of a registration race: the existence
		// check sees nothing, then the insert hits the unique index.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "portal.systemconfig", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "portal.users", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: portal.users index: email_1",
			}),
		)

		ac := newTestAuthController(mt)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(c, http.MethodPost, "/api/auth/register",
			`{"name":"Asha","email":"asha@campus.edu","password":"secret1"}`)
		ac.RegisterUser(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User with this email already exists", decodeBody(t, w)["message"])
	})
}

func TestResetPassword(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	reset := func(mt *mtest.T, body string) *httptest.ResponseRecorder {
		ac := newTestAuthController(mt)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(c, http.MethodPost, "/api/auth/reset-password", body)
		ac.ResetPassword(c)
		return w
	}

	mt.Run("valid token sets the new password", func(mt *mtest.T) {
		tokenDoc := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "userId", Value: primitive.NewObjectID()},
			{Key: "token", Value: "a3f09c2d41be4d0f9c7a5e8b6d123456"},
			{Key: "expiresAt", Value: primitive.NewDateTimeFromTime(time.Now().Add(10 * time.Minute))},
			{Key: "used", Value: false},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
		}
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: tokenDoc}},
			mtest.CreateSuccessResponse(), // password update
		)

		w := reset(mt, `{"token":"a3f09c2d41be4d0f9c7a5e8b6d123456","newPassword":"newsecret"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["success"])
	})

	mt.Run("consumed token is rejected", func(mt *mtest.T) {
		// The find-and-mark-used filter no longer matches, so a second
		// submission of the same token gets nothing back.
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		w := reset(mt, `{"token":"a3f09c2d41be4d0f9c7a5e8b6d123456","newPassword":"newsecret"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Invalid or expired reset token", body["message"])
		assert.Equal(t, true, body["expired"])
	})
}
