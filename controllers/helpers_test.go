package controllers_test

import (
	"testing"

	"campus-portal-be/controllers"
	"campus-portal-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanModifyIssue(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	issue := models.Issue{SubmittedBy: owner}

	// Owner may edit their own issue
	assert.True(t, controllers.CanModifyIssue(models.RoleUser, owner, &issue))

	// Admins may edit anything
	assert.True(t, controllers.CanModifyIssue(models.RoleAdmin, stranger, &issue))

	// Everyone else is forbidden
	assert.False(t, controllers.CanModifyIssue(models.RoleUser, stranger, &issue))
}
