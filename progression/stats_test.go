package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskhero/models"
)

func doneTask(created, completed time.Time, difficulty string) models.Task {
	return models.Task{
		Title:       "t",
		Difficulty:  difficulty,
		Status:      models.TaskStatusDone,
		DueDate:     completed.Add(time.Hour),
		CreatedAt:   created,
		CompletedAt: &completed,
	}
}

func TestStreakRollingWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	// T, T-20h, T-50h: the 30h gap between the last two breaks the chain.
	completions := []time.Time{
		now,
		now.Add(-20 * time.Hour),
		now.Add(-50 * time.Hour),
	}
	assert.Equal(t, 2, Streak(completions, now))
}

func TestStreakStaleAndEmpty(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, Streak(nil, now))
	assert.Equal(t, 0, Streak([]time.Time{now.Add(-25 * time.Hour)}, now))
	assert.Equal(t, 1, Streak([]time.Time{now.Add(-23 * time.Hour)}, now))
}

func TestStreakUnsortedInput(t *testing.T) {
	now := time.Now()
	completions := []time.Time{
		now.Add(-40 * time.Hour),
		now.Add(-1 * time.Hour),
		now.Add(-22 * time.Hour),
	}
	// -1h, -22h (gap 21h), -40h (gap 18h): all chained.
	assert.Equal(t, 3, Streak(completions, now))
}

func TestComputeStatsCounters(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	fastDone := now.Add(-2 * time.Hour)
	slowCreated := now.Add(-72 * time.Hour)
	slowDone := now.Add(-48 * time.Hour)
	morning := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	tasks := []models.Task{
		// Completed 20 minutes after creation, today.
		doneTask(fastDone.Add(-20*time.Minute), fastDone, DifficultyHard),
		// Completed after two days, outside the fast buckets.
		doneTask(slowCreated, slowDone, DifficultyEasy),
		// Morning completion, same day as created.
		doneTask(morning.Add(-45*time.Minute), morning, DifficultyMedium),
		// Still open.
		{Title: "open", Status: models.TaskStatusInProgress, Difficulty: DifficultyEasy, CreatedAt: now, TimeSpent: 90},
	}

	s := ComputeStats(tasks, 2, now)

	assert.Equal(t, 4, s.TotalCreated)
	assert.Equal(t, 3, s.TotalCompleted)
	assert.Equal(t, 3, s.CompletedOnTime)
	assert.Equal(t, 1, s.CompletedEasy)
	assert.Equal(t, 1, s.CompletedMedium)
	assert.Equal(t, 1, s.CompletedHard)
	assert.Equal(t, 1, s.CompletedUnder30)
	assert.Equal(t, 2, s.CompletedUnder60)
	assert.Equal(t, 2, s.CompletedToday)
	assert.Equal(t, 1, s.CompletionsByHour[9])  // morning
	assert.Equal(t, 1, s.CompletionsByHour[16]) // fast task
	assert.Equal(t, 1, s.CompletionsByHour[18]) // slow task
	assert.Equal(t, 0, s.CompletionsByHour[23])
	assert.Equal(t, 2, s.CompletedSameDay)
	assert.Len(t, s.Completions, 3)
	assert.Equal(t, now, s.Now)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 175, s.TotalXPEarned) // 100 + 25 + 50
	assert.InDelta(t, 1.5, s.TotalTimeSpentHours, 1e-9)
}

func TestComputeStatsIgnoresDoneWithoutTimestamp(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{Title: "broken", Status: models.TaskStatusDone, Difficulty: DifficultyEasy, CreatedAt: now},
	}

	s := ComputeStats(tasks, 1, now)
	assert.Equal(t, 1, s.TotalCreated)
	assert.Equal(t, 0, s.TotalCompleted)
	assert.Equal(t, 0, s.CurrentStreak)
}
