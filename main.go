package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"campus-portal-be/config"
	"campus-portal-be/controllers"
	"campus-portal-be/mailer"
	"campus-portal-be/models"
	"campus-portal-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx := context.Background()

	db, err := config.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Disconnect(ctx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	log.Println("MongoDB connection established successfully!")

	if err := models.EnsureResetTokenIndex(db.ResetTokens); err != nil {
		log.Printf("Failed to ensure reset token index: %v", err)
	}
	if err := models.EnsureUserEmailIndex(db.Users); err != nil {
		log.Printf("Failed to ensure user email index: %v", err)
	}

	rdb, err := config.ConnectRedis(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	mail := mailer.New(256)
	defer mail.Close()

	// Daily purge of consumed and expired reset tokens
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := db.ResetTokens.DeleteMany(purgeCtx, bson.M{"$or": []bson.M{
			{"used": true},
			{"expiresAt": bson.M{"$lt": time.Now()}},
		}})
		if err != nil {
			log.Printf("Reset token purge failed: %v", err)
			return
		}
		log.Printf("Purged %d stale reset tokens", result.DeletedCount)
	}); err != nil {
		log.Fatalf("Failed to schedule reset token purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	audit := controllers.NewAuditRecorder(db.AuditLogs)
	authController := controllers.NewAuthController(db, mail)
	issueController := controllers.NewIssueController(db, audit)
	userController := controllers.NewUserController(db)
	adminController := controllers.NewAdminController(db, audit, mail)
	kbController := controllers.NewKnowledgeBaseController(db, audit)
	messageController := controllers.NewMessageController(db)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, rdb, db.SystemConfig)
	routes.UserRoutes(r, userController, db.SystemConfig)
	routes.AdminRoutes(r, adminController, kbController)
	routes.MessageRoutes(r, messageController)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Campus Issue Portal Backend"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
