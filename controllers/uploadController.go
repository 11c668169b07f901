package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadFile is a mock endpoint: real storage is not wired yet, so it
// accepts the multipart form and returns a placeholder URL.
func UploadFile(c *gin.Context) {
	if _, err := c.FormFile("file"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file provided"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     "https://placehold.co/600x400?text=Uploaded+Image",
		"message": "Mock upload successful",
	})
}
