package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"campus-portal-be/config"
	"campus-portal-be/mailer"
	"campus-portal-be/models"
	authUtils "campus-portal-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Identical response for existing and unknown emails so the endpoint
// cannot be used to enumerate accounts.
const forgotPasswordMessage = "If this email exists, a reset link has been sent"

const resetTokenTTL = 30 * time.Minute

type AuthController struct {
	users       *mongo.Collection
	resetTokens *mongo.Collection
	sysConfig   *mongo.Collection
	mail        *mailer.Mailer
}

func NewAuthController(db *config.Database, mail *mailer.Mailer) *AuthController {
	return &AuthController{
		users:       db.Users,
		resetTokens: db.ResetTokens,
		sysConfig:   db.SystemConfig,
		mail:        mail,
	}
}

// RegisterUser creates an account, unless registration has been disabled
// in the system config. The welcome email is queued, never awaited.
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required,max=50"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=6"`
		Department string `json:"department,omitempty"`
		Roll       string `json:"roll,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var sysCfg models.SystemConfig
	if err := ac.sysConfig.FindOne(ctx, bson.M{}).Decode(&sysCfg); err == nil && !sysCfg.AllowRegistration {
		c.JSON(http.StatusForbidden, gin.H{
			"message":              "Registration is currently disabled. Please contact administrator.",
			"registrationDisabled": true,
		})
		return
	}

	count, err := ac.users.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
		return
	}

	user := models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		Role:       models.RoleUser,
		Department: input.Department,
		Roll:       input.Roll,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	result, err := ac.users.InsertOne(ctx, user)
	if err != nil {
		// The unique email index is the authoritative guard; the count
		// above only exists for the friendly early response.
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
			return
		}
		log.Println("Error inserting user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	userID := result.InsertedID.(primitive.ObjectID).Hex()

	token, err := authUtils.GenerateToken(userID, user.Role)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	ac.mail.Enqueue(mailer.WelcomeEmail(user.Email, user.Name))

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"_id":        result.InsertedID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"department": user.Department,
		"roll":       user.Roll,
		"createdAt":  user.CreatedAt,
	})
}

// LoginUser verifies credentials and issues a bearer token. Blocked
// accounts are rejected even with valid credentials.
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := ac.users.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account is blocked"})
		return
	}

	token, err := authUtils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"_id":        user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"department": user.Department,
		"roll":       user.Roll,
	})
}

// GetMe returns the authenticated user's record.
func (ac *AuthController) GetMe(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := ac.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ForgotPassword mints a single-use reset token and mails it. The response
// is the same whether or not the email exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := ac.users.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
		return
	}

	resetToken := strings.ReplaceAll(uuid.NewString(), "-", "")

	// One outstanding token per user
	if _, err := ac.resetTokens.DeleteMany(ctx, bson.M{"userId": user.ID}); err != nil {
		log.Println("Error clearing old reset tokens:", err)
	}

	_, err = ac.resetTokens.InsertOne(ctx, models.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		Used:      false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Println("Error creating reset token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process request"})
		return
	}

	ac.mail.Enqueue(mailer.PasswordResetEmail(user.Email, user.Name, resetToken))

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

// ResetPassword consumes a valid reset token and sets the new password.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token and new password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Marking the token used in the same operation that finds it means two
	// concurrent submissions cannot both consume it.
	var resetToken models.PasswordResetToken
	err := ac.resetTokens.FindOneAndUpdate(ctx,
		bson.M{
			"token":     input.Token,
			"used":      false,
			"expiresAt": bson.M{"$gt": time.Now()},
		},
		bson.M{"$set": bson.M{"used": true}},
	).Decode(&resetToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid or expired reset token",
			"expired": true,
		})
		return
	}

	hashed, err := models.HashPasswordString(input.NewPassword)
	if err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reset password"})
		return
	}

	_, err = ac.users.UpdateOne(ctx,
		bson.M{"_id": resetToken.UserID},
		bson.M{"$set": bson.M{"password": hashed, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful. You can now login with your new password.",
		"success": true,
	})
}
