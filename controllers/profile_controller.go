package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"taskhero/db"
	"taskhero/models"
)

// GetProfile returns the caller's account and progression profile.
func GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.GetCollection(db.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	avatarURL := user.AvatarURL
	if avatarURL == "" {
		name := user.DisplayName
		if name == "" {
			name = user.Email
		}
		avatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID.Hex(),
		"email":       user.Email,
		"displayName": user.DisplayName,
		"avatarUrl":   avatarURL,
		"profile":     user.Profile,
		"createdAt":   user.CreatedAt,
	})
}
