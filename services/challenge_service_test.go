package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"taskhero/events"
	"taskhero/models"
	"taskhero/progression"
)

func catalogEntry(id, condType string, target, xp int) models.Challenge {
	return models.Challenge{
		ID:        id,
		Title:     id,
		Condition: models.ChallengeCondition{Type: condType, Target: target},
		XPReward:  xp,
	}
}

func TestPlanEvaluationSkipsCompleted(t *testing.T) {
	catalog := []models.Challenge{
		catalogEntry("first-task", "tasksCompleted", 1, 50),
		catalogEntry("ten-tasks", "tasksCompleted", 10, 200),
	}
	existing := map[string]models.UserChallenge{
		"first-task": {ChallengeID: "first-task", Status: models.ChallengeStatusCompleted, Progress: 1},
	}
	stats := progression.Stats{TotalCompleted: 12}

	updates := planEvaluation(catalog, existing, stats, nil)

	// first-task is completed and monotonic: it must never reappear even
	// though its condition still holds.
	require.Len(t, updates, 1)
	assert.Equal(t, "ten-tasks", updates[0].ChallengeID)
	assert.True(t, updates[0].Completed)
	assert.Equal(t, 200, updates[0].XPReward)
}

func TestPlanEvaluationProgressOnly(t *testing.T) {
	catalog := []models.Challenge{
		catalogEntry("ten-tasks", "tasksCompleted", 10, 200),
	}
	stats := progression.Stats{TotalCompleted: 4}

	updates := planEvaluation(catalog, nil, stats, nil)

	require.Len(t, updates, 1)
	assert.False(t, updates[0].Completed)
	assert.Equal(t, 0.4, updates[0].Progress)
}

func TestPlanEvaluationSkipsUnchangedProgress(t *testing.T) {
	catalog := []models.Challenge{
		catalogEntry("ten-tasks", "tasksCompleted", 10, 200),
	}
	existing := map[string]models.UserChallenge{
		"ten-tasks": {ChallengeID: "ten-tasks", Status: models.ChallengeStatusActive, Progress: 0.4},
	}
	stats := progression.Stats{TotalCompleted: 4}

	updates := planEvaluation(catalog, existing, stats, nil)
	assert.Empty(t, updates)
}

func TestPlanEvaluationUnknownConditionFailsOpen(t *testing.T) {
	catalog := []models.Challenge{
		catalogEntry("weird", "foo", 1, 999),
		catalogEntry("first-task", "tasksCompleted", 1, 50),
	}
	stats := progression.Stats{TotalCompleted: 3}

	updates := planEvaluation(catalog, nil, stats, nil)

	// The malformed entry yields a zero-progress record but does not
	// prevent the valid one from completing.
	require.Len(t, updates, 2)
	assert.Equal(t, "weird", updates[0].ChallengeID)
	assert.False(t, updates[0].Completed)
	assert.Equal(t, 0.0, updates[0].Progress)
	assert.True(t, updates[1].Completed)
}

func TestPlanEvaluationTriggerCondition(t *testing.T) {
	catalog := []models.Challenge{
		{
			ID:        "speedrun",
			Title:     "speedrun",
			Condition: models.ChallengeCondition{Type: "taskCompletedUnder", Minutes: 30},
			XPReward:  75,
		},
	}

	created := time.Now().Add(-10 * time.Minute)
	completed := time.Now()
	trigger := &models.Task{CreatedAt: created, CompletedAt: &completed, Status: models.TaskStatusDone}

	updates := planEvaluation(catalog, nil, progression.Stats{}, trigger)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Completed)

	// Without a qualifying trigger the same stats never complete it.
	updates = planEvaluation(catalog, nil, progression.Stats{CompletedUnder30: 5}, nil)
	require.Len(t, updates, 1)
	assert.False(t, updates[0].Completed)
}

func TestStreakRatchetPersistsWhenCatalogExhausted(t *testing.T) {
	// A user who has completed every eligible challenge produces no
	// challenge writes, but the pass must still carry the streak to the
	// profile or currentStreak freezes forever.
	catalog := []models.Challenge{
		catalogEntry("first-task", "tasksCompleted", 1, 50),
		catalogEntry("ten-tasks", "tasksCompleted", 10, 200),
	}
	existing := map[string]models.UserChallenge{
		"first-task": {ChallengeID: "first-task", Status: models.ChallengeStatusCompleted, Progress: 1},
		"ten-tasks":  {ChallengeID: "ten-tasks", Status: models.ChallengeStatusCompleted, Progress: 1},
	}
	stats := progression.Stats{TotalCompleted: 12, CurrentStreak: 5}

	updates := planEvaluation(catalog, existing, stats, nil)
	assert.Empty(t, updates)

	update := profileRatchet(stats.CurrentStreak, 0, time.Now())
	assert.Equal(t, bson.M{"profile.currentStreak": 5}, update["$max"])
	assert.NotContains(t, update, "$inc")
}

func TestProfileRatchetCreditsAwardedXP(t *testing.T) {
	update := profileRatchet(3, 250, time.Now())

	assert.Equal(t, bson.M{"profile.currentStreak": 3}, update["$max"])
	assert.Equal(t, bson.M{"profile.xp": 250}, update["$inc"])
}

func TestHandleTaskWrittenIgnoresNonTransitions(t *testing.T) {
	// A service with no database must not be reached for writes that are
	// not transitions into done: the guard returns before any I/O.
	s := NewChallengeService(nil, nil)

	done := &models.Task{Status: models.TaskStatusDone}
	open := &models.Task{Status: models.TaskStatusInProgress}

	assert.NoError(t, s.HandleTaskWritten(nil, events.TaskWritten{Before: done, After: done}))
	assert.NoError(t, s.HandleTaskWritten(nil, events.TaskWritten{Before: nil, After: open}))
	assert.NoError(t, s.HandleTaskWritten(nil, events.TaskWritten{Before: done, After: open}))
}
