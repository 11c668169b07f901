package models_test

import (
	"testing"

	"campus-portal-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	user := models.User{Password: "hunter22"}

	require.NoError(t, user.HashPassword())
	assert.NotEqual(t, "hunter22", user.Password)

	assert.True(t, user.ComparePassword("hunter22"))
	assert.False(t, user.ComparePassword("hunter23"))
	assert.False(t, user.ComparePassword(""))
}

func TestHashPasswordString(t *testing.T) {
	hashed, err := models.HashPasswordString("123456")
	require.NoError(t, err)

	user := models.User{Password: hashed}
	assert.True(t, user.ComparePassword("123456"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&models.User{Role: models.RoleAdmin}).IsAdmin())
	assert.False(t, (&models.User{Role: models.RoleUser}).IsAdmin())
	assert.False(t, (&models.User{}).IsAdmin())
}

func TestDefaultSystemConfig(t *testing.T) {
	cfg := models.DefaultSystemConfig()

	assert.True(t, cfg.AllowRegistration)
	assert.False(t, cfg.MaintenanceMode)
	assert.Contains(t, cfg.Priorities, "critical")
	assert.NotEmpty(t, cfg.Categories)
}
