package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserChallenge statuses.
const (
	ChallengeStatusLocked    = "locked"
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"
)

// ChallengeCondition is the stored form of a challenge condition: a type
// tag plus whichever parameters that kind of condition uses. Parsing into
// a typed condition happens in the progression package.
type ChallengeCondition struct {
	Type    string `bson:"type" json:"type"`
	Target  int    `bson:"target,omitempty" json:"target,omitempty"`
	Level   int    `bson:"level,omitempty" json:"level,omitempty"`
	Minutes int    `bson:"minutes,omitempty" json:"minutes,omitempty"`
	Hour    int    `bson:"hour,omitempty" json:"hour,omitempty"`
	Hours   int    `bson:"hours,omitempty" json:"hours,omitempty"`
	Days    int    `bson:"days,omitempty" json:"days,omitempty"`
}

// Challenge is a static catalog entry. The catalog is seeded at startup
// and read-only afterwards.
type Challenge struct {
	ID            string             `bson:"_id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Icon          string             `bson:"icon" json:"icon"`
	Category      string             `bson:"category" json:"category"`
	RequiredLevel int                `bson:"requiredLevel" json:"requiredLevel"`
	Condition     ChallengeCondition `bson:"condition" json:"condition"`
	XPReward      int                `bson:"xpReward" json:"xpReward"`
	Order         int                `bson:"order" json:"order"`
}

// UserChallenge is per-user, per-challenge progress. Once Status is
// completed the document is never re-evaluated or reverted.
type UserChallenge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ChallengeID string             `bson:"challengeId" json:"challengeId"`
	Status      string             `bson:"status" json:"status"`
	Progress    float64            `bson:"progress" json:"progress"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	XPRewarded  int                `bson:"xpRewarded,omitempty" json:"xpRewarded,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
