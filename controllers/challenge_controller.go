package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhero/db"
	"taskhero/models"
)

// ChallengeView joins a catalog entry with the caller's progress.
type ChallengeView struct {
	models.Challenge
	UserStatus   string     `json:"userStatus"`
	UserProgress float64    `json:"userProgress"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	XPRewarded   int        `json:"xpRewarded,omitempty"`
}

// GetChallenges returns the full catalog with the caller's per-challenge
// state. Entries above the caller's level show as locked.
func GetChallenges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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

	catalogCursor, err := db.GetCollection(db.ChallengesCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	var catalog []models.Challenge
	if err := catalogCursor.All(ctx, &catalog); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	userCursor, err := db.GetCollection(db.UserChallengesCollection).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenge progress"})
		return
	}
	var docs []models.UserChallenge
	if err := userCursor.All(ctx, &docs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenge progress"})
		return
	}
	progress := make(map[string]models.UserChallenge, len(docs))
	for _, d := range docs {
		progress[d.ChallengeID] = d
	}

	views := make([]ChallengeView, 0, len(catalog))
	completed := 0
	for _, ch := range catalog {
		view := ChallengeView{Challenge: ch}
		if uc, ok := progress[ch.ID]; ok {
			view.UserStatus = uc.Status
			view.UserProgress = uc.Progress
			view.CompletedAt = uc.CompletedAt
			view.XPRewarded = uc.XPRewarded
		} else if ch.RequiredLevel > user.Profile.Level {
			view.UserStatus = models.ChallengeStatusLocked
		} else {
			view.UserStatus = models.ChallengeStatusActive
		}
		if view.UserStatus == models.ChallengeStatusCompleted {
			completed++
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges":     views,
		"total":          len(views),
		"completedCount": completed,
	})
}
