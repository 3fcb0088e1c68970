package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhero/db"
	"taskhero/models"
	"taskhero/progression"
)

func challengeCatalog() []models.Challenge {
	return []models.Challenge{
		{
			ID:            "first-steps",
			Title:         "First Steps",
			Description:   "Complete your first task",
			Icon:          "footsteps",
			Category:      "starter",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondTasksCompleted, Target: 1},
			XPReward:      20,
			Order:         1,
		},
		{
			ID:            "planner",
			Title:         "Planner",
			Description:   "Create 10 tasks",
			Icon:          "list",
			Category:      "starter",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondTasksCreated, Target: 10},
			XPReward:      30,
			Order:         2,
		},
		{
			ID:            "task-machine",
			Title:         "Task Machine",
			Description:   "Complete 25 tasks",
			Icon:          "cog",
			Category:      "productivity",
			RequiredLevel: 2,
			Condition:     models.ChallengeCondition{Type: progression.CondTasksCompleted, Target: 25},
			XPReward:      75,
			Order:         3,
		},
		{
			ID:            "deadline-keeper",
			Title:         "Deadline Keeper",
			Description:   "Finish 5 tasks before their due date",
			Icon:          "clock",
			Category:      "productivity",
			RequiredLevel: 2,
			Condition:     models.ChallengeCondition{Type: progression.CondTasksOnTime, Target: 5},
			XPReward:      60,
			Order:         4,
		},
		{
			ID:            "heavy-lifter",
			Title:         "Heavy Lifter",
			Description:   "Complete 5 hard tasks",
			Icon:          "barbell",
			Category:      "productivity",
			RequiredLevel: 3,
			Condition:     models.ChallengeCondition{Type: progression.CondHardTasksCompleted, Target: 5},
			XPReward:      100,
			Order:         5,
		},
		{
			ID:            "on-a-roll",
			Title:         "On a Roll",
			Description:   "Keep a 3-day completion streak",
			Icon:          "flame",
			Category:      "consistency",
			RequiredLevel: 2,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskStreak, Target: 3},
			XPReward:      80,
			Order:         6,
		},
		{
			ID:            "unstoppable",
			Title:         "Unstoppable",
			Description:   "Keep a 7-day completion streak",
			Icon:          "bonfire",
			Category:      "consistency",
			RequiredLevel: 4,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskStreak, Target: 7},
			XPReward:      200,
			Order:         7,
		},
		{
			ID:            "level-three",
			Title:         "Apprentice Hero",
			Description:   "Reach level 3",
			Icon:          "shield",
			Category:      "progression",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondLevelReached, Level: 3},
			XPReward:      50,
			Order:         8,
		},
		{
			ID:            "xp-collector",
			Title:         "XP Collector",
			Description:   "Earn 1000 XP from completed tasks",
			Icon:          "star",
			Category:      "progression",
			RequiredLevel: 3,
			Condition:     models.ChallengeCondition{Type: progression.CondTotalXPEarned, Target: 1000},
			XPReward:      150,
			Order:         9,
		},
		{
			ID:            "lightning-round",
			Title:         "Lightning Round",
			Description:   "Finish a task in under 15 minutes",
			Icon:          "flash",
			Category:      "speed",
			RequiredLevel: 2,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskCompletedUnder, Minutes: 15},
			XPReward:      40,
			Order:         10,
		},
		{
			ID:            "speed-runner",
			Title:         "Speed Runner",
			Description:   "Finish 10 tasks in under 30 minutes each",
			Icon:          "speedometer",
			Category:      "speed",
			RequiredLevel: 3,
			Condition:     models.ChallengeCondition{Type: progression.CondFastTasksCompleted, Target: 10, Minutes: 30},
			XPReward:      120,
			Order:         11,
		},
		{
			ID:            "early-bird",
			Title:         "Early Bird",
			Description:   "Complete a task before noon",
			Icon:          "sunny",
			Category:      "habits",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskBeforeHour, Hour: 12},
			XPReward:      25,
			Order:         12,
		},
		{
			ID:            "night-owl",
			Title:         "Night Owl",
			Description:   "Complete a task after 11 PM",
			Icon:          "moon",
			Category:      "habits",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskAfterHour, Hour: 23},
			XPReward:      25,
			Order:         13,
		},
		{
			ID:            "same-day-hero",
			Title:         "Same-Day Hero",
			Description:   "Complete a task the day you created it",
			Icon:          "calendar",
			Category:      "habits",
			RequiredLevel: 1,
			Condition:     models.ChallengeCondition{Type: progression.CondTaskSameDay},
			XPReward:      30,
			Order:         14,
		},
		{
			ID:            "productive-week",
			Title:         "Productive Week",
			Description:   "Complete 15 tasks within 7 days",
			Icon:          "trophy",
			Category:      "consistency",
			RequiredLevel: 3,
			Condition:     models.ChallengeCondition{Type: progression.CondTasksInDays, Target: 15, Days: 7},
			XPReward:      180,
			Order:         15,
		},
		{
			ID:            "marathon",
			Title:         "Marathon",
			Description:   "Track 20 hours of work across your tasks",
			Icon:          "hourglass",
			Category:      "dedication",
			RequiredLevel: 4,
			Condition:     models.ChallengeCondition{Type: progression.CondTotalTimeSpent, Hours: 20},
			XPReward:      250,
			Order:         16,
		},
	}
}

// SeedChallengeCatalog upserts the static challenge catalog. Existing
// user progress is untouched; catalog edits take effect on restart.
func SeedChallengeCatalog(ctx context.Context) error {
	collection := db.GetCollection(db.ChallengesCollection)
	catalog := challengeCatalog()

	for _, challenge := range catalog {
		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": challenge.ID},
			bson.M{"$set": challenge},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}

	log.Printf("Seeded %d challenges", len(catalog))
	return nil
}

// SeedChallengeData is the startup entry point.
func SeedChallengeData() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := SeedChallengeCatalog(ctx); err != nil {
		log.Printf("Failed to seed challenge catalog: %v", err)
	}
}
