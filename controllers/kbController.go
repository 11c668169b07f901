package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campus-portal-be/config"
	"campus-portal-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KnowledgeBaseController is the admin CRUD surface for FAQ articles.
type KnowledgeBaseController struct {
	articles *mongo.Collection
	audit    *AuditRecorder
}

func NewKnowledgeBaseController(db *config.Database, audit *AuditRecorder) *KnowledgeBaseController {
	return &KnowledgeBaseController{
		articles: db.Articles,
		audit:    audit,
	}
}

func (kb *KnowledgeBaseController) ListArticles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := kb.articles.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve articles"})
		return
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode articles"})
		return
	}

	c.JSON(http.StatusOK, articles)
}

func (kb *KnowledgeBaseController) CreateArticle(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Title    string   `json:"title" binding:"required"`
		Content  string   `json:"content" binding:"required"`
		Category string   `json:"category,omitempty"`
		Tags     []string `json:"tags,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category := input.Category
	if category == "" {
		category = "FAQ"
	}

	now := time.Now()
	article := models.Article{
		ID:        primitive.NewObjectID(),
		Title:     input.Title,
		Content:   input.Content,
		Category:  category,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := kb.articles.InsertOne(ctx, article); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create article"})
		return
	}

	kb.audit.Record(adminID, article.ID.Hex(), models.TargetKnowledge, models.ActionCreateArticle,
		fmt.Sprintf("Article created: %s", article.Title), c.ClientIP())

	c.JSON(http.StatusCreated, article)
}

func (kb *KnowledgeBaseController) UpdateArticle(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	articleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid article ID"})
		return
	}

	var input struct {
		Title    *string   `json:"title,omitempty"`
		Content  *string   `json:"content,omitempty"`
		Category *string   `json:"category,omitempty"`
		Tags     *[]string `json:"tags,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Content != nil {
		update["content"] = *input.Content
	}
	if input.Category != nil {
		update["category"] = *input.Category
	}
	if input.Tags != nil {
		update["tags"] = *input.Tags
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var article models.Article
	err = kb.articles.FindOneAndUpdate(ctx,
		bson.M{"_id": articleID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&article)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Article not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update article"})
		}
		return
	}

	kb.audit.Record(adminID, article.ID.Hex(), models.TargetKnowledge, models.ActionUpdateArticle,
		fmt.Sprintf("Article updated: %s", article.Title), c.ClientIP())

	c.JSON(http.StatusOK, article)
}

func (kb *KnowledgeBaseController) DeleteArticle(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		return
	}

	articleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid article ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var article models.Article
	err = kb.articles.FindOneAndDelete(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Article not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete article"})
		}
		return
	}

	kb.audit.Record(adminID, articleID.Hex(), models.TargetKnowledge, models.ActionDeleteArticle,
		fmt.Sprintf("Article deleted: %s", article.Title), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
