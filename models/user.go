package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines an account together with its gamification profile.
// The profile fields are mutated only by the progression evaluator,
// the challenge evaluator and the decay scheduler.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	PushToken    string             `bson:"pushToken,omitempty" json:"-"`

	Profile Profile `bson:"profile" json:"profile"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Profile holds the progression state. Level is monotone non-decreasing;
// XP carries over on level-up instead of clamping. Health and hunger stay
// within [0, maxHealth] / [0, maxHunger].
type Profile struct {
	Level         int     `bson:"level" json:"level"`
	XP            int     `bson:"xp" json:"xp"`
	Health        float64 `bson:"health" json:"health"`
	Hunger        float64 `bson:"hunger" json:"hunger"`
	MaxHealth     int     `bson:"maxHealth" json:"maxHealth"`
	MaxHunger     int     `bson:"maxHunger" json:"maxHunger"`
	MaxXP         int     `bson:"maxXp" json:"maxXp"`
	CurrentStreak int     `bson:"currentStreak" json:"currentStreak"`
}
