package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhero/db"
	"taskhero/models"
)

// LeaderboardEntry is one row of the ranking.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Streak      int    `json:"streak"`
	CurrentUser bool   `json:"currentUser"`
}

// GetLeaderboard ranks users by level, then XP within the level.
func GetLeaderboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "profile.level", Value: -1}, {Key: "profile.xp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := db.GetCollection(db.UsersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leaderboard"})
		return
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		name := u.DisplayName
		if name == "" {
			name = u.Email
		}
		avatarURL := u.AvatarURL
		if avatarURL == "" {
			avatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			DisplayName: name,
			AvatarURL:   avatarURL,
			Level:       u.Profile.Level,
			XP:          u.Profile.XP,
			Streak:      u.Profile.CurrentStreak,
			CurrentUser: u.ID == userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
