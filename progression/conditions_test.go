package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskhero/models"
)

func TestParseConditionVariants(t *testing.T) {
	cases := []struct {
		cond models.ChallengeCondition
		want Condition
	}{
		{models.ChallengeCondition{Type: "tasksCompleted", Target: 10}, TasksCompleted{Target: 10}},
		{models.ChallengeCondition{Type: "tasksCreated", Target: 5}, TasksCreated{Target: 5}},
		{models.ChallengeCondition{Type: "tasksOnTime", Target: 3}, TasksOnTime{Target: 3}},
		{models.ChallengeCondition{Type: "hardTasksCompleted", Target: 2}, HardTasksCompleted{Target: 2}},
		{models.ChallengeCondition{Type: "taskStreak", Target: 7}, TaskStreak{Target: 7}},
		{models.ChallengeCondition{Type: "levelReached", Level: 3}, LevelReached{Level: 3}},
		{models.ChallengeCondition{Type: "totalXpEarned", Target: 500}, TotalXPEarned{Target: 500}},
		{models.ChallengeCondition{Type: "taskCompletedUnder", Minutes: 15}, TaskCompletedUnder{Minutes: 15}},
		{models.ChallengeCondition{Type: "fastTasksCompleted", Target: 3, Minutes: 30}, FastTasksCompleted{Target: 3, Minutes: 30}},
		{models.ChallengeCondition{Type: "taskBeforeHour", Hour: 12}, TaskBeforeHour{Hour: 12}},
		{models.ChallengeCondition{Type: "taskAfterHour", Hour: 23}, TaskAfterHour{Hour: 23}},
		{models.ChallengeCondition{Type: "taskSameDay", Target: 1}, TaskSameDay{Target: 1}},
		{models.ChallengeCondition{Type: "tasksInDays", Target: 10, Days: 7}, TasksInDays{Target: 10, Days: 7}},
		{models.ChallengeCondition{Type: "totalTimeSpent", Hours: 10}, TotalTimeSpent{Hours: 10}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCondition(tc.cond), "tag %s", tc.cond.Type)
	}
}

func TestUnknownConditionFailsOpen(t *testing.T) {
	cond := ParseCondition(models.ChallengeCondition{Type: "foo", Target: 5})

	unknown, ok := cond.(UnknownCondition)
	assert.True(t, ok)
	assert.Equal(t, "foo", unknown.Type)

	res := cond.Check(Stats{TotalCompleted: 100}, nil)
	assert.False(t, res.Completed)
	assert.Equal(t, 0.0, res.Progress)
}

func TestCountConditionsProgress(t *testing.T) {
	s := Stats{
		TotalCompleted:  5,
		TotalCreated:    8,
		CompletedOnTime: 2,
		CompletedHard:   1,
		CurrentStreak:   3,
		Level:           2,
		TotalXPEarned:   250,
	}

	res := TasksCompleted{Target: 10}.Check(s, nil)
	assert.False(t, res.Completed)
	assert.Equal(t, 0.5, res.Progress)

	res = TasksCompleted{Target: 5}.Check(s, nil)
	assert.True(t, res.Completed)
	assert.Equal(t, 1.0, res.Progress)

	res = TasksCreated{Target: 4}.Check(s, nil)
	assert.True(t, res.Completed)
	assert.Equal(t, 1.0, res.Progress) // progress clamps at 1

	assert.False(t, HardTasksCompleted{Target: 2}.Check(s, nil).Completed)
	assert.True(t, TaskStreak{Target: 3}.Check(s, nil).Completed)
	assert.True(t, LevelReached{Level: 2}.Check(s, nil).Completed)
	assert.False(t, LevelReached{Level: 5}.Check(s, nil).Completed)
	assert.False(t, TotalXPEarned{Target: 500}.Check(s, nil).Completed)
}

func TestTasksInDaysWindow(t *testing.T) {
	now := time.Now()
	s := Stats{
		Now: now,
		Completions: []time.Time{
			now.Add(-2 * time.Hour),
			now.Add(-2 * 24 * time.Hour),
			now.Add(-5 * 24 * time.Hour),
			now.Add(-10 * 24 * time.Hour),
		},
	}

	assert.True(t, TasksInDays{Target: 3, Days: 7}.Check(s, nil).Completed)
	assert.False(t, TasksInDays{Target: 4, Days: 7}.Check(s, nil).Completed)

	// Narrowing the window drops the older completions.
	assert.True(t, TasksInDays{Target: 2, Days: 3}.Check(s, nil).Completed)
	assert.False(t, TasksInDays{Target: 2, Days: 1}.Check(s, nil).Completed)

	// Days unset falls back to a week.
	assert.True(t, TasksInDays{Target: 3}.Check(s, nil).Completed)
}

func TestTaskCompletedUnderUsesTriggerOnly(t *testing.T) {
	created := time.Now().Add(-10 * time.Minute)
	completed := time.Now()
	trigger := &models.Task{CreatedAt: created, CompletedAt: &completed}

	// Aggregate stats say no fast tasks exist; only the trigger matters.
	res := TaskCompletedUnder{Minutes: 15}.Check(Stats{}, trigger)
	assert.True(t, res.Completed)

	res = TaskCompletedUnder{Minutes: 5}.Check(Stats{}, trigger)
	assert.False(t, res.Completed)

	res = TaskCompletedUnder{Minutes: 15}.Check(Stats{CompletedUnder30: 10}, nil)
	assert.False(t, res.Completed)
}

func TestFastTasksBucketSelection(t *testing.T) {
	s := Stats{CompletedUnder30: 1, CompletedUnder60: 4}

	assert.False(t, FastTasksCompleted{Target: 3, Minutes: 30}.Check(s, nil).Completed)
	assert.True(t, FastTasksCompleted{Target: 3, Minutes: 60}.Check(s, nil).Completed)
}

func TestBooleanConditions(t *testing.T) {
	var hours [24]int
	hours[9] = 1
	s := Stats{CompletionsByHour: hours, CompletedSameDay: 2}

	assert.True(t, TaskBeforeHour{Hour: 12}.Check(s, nil).Completed)
	assert.False(t, TaskAfterHour{Hour: 23}.Check(s, nil).Completed)
	assert.True(t, TaskSameDay{Target: 1}.Check(s, nil).Completed)
}

func TestHourConditionsHonorCatalogHour(t *testing.T) {
	var hours [24]int
	hours[10] = 1
	hours[21] = 1
	s := Stats{CompletionsByHour: hours}

	assert.False(t, TaskBeforeHour{Hour: 9}.Check(s, nil).Completed)
	assert.True(t, TaskBeforeHour{Hour: 11}.Check(s, nil).Completed)

	assert.True(t, TaskAfterHour{Hour: 20}.Check(s, nil).Completed)
	assert.False(t, TaskAfterHour{Hour: 22}.Check(s, nil).Completed)

	// Out-of-range hours fall back to the noon / 23:00 defaults.
	assert.True(t, TaskBeforeHour{Hour: -1}.Check(s, nil).Completed)
	assert.False(t, TaskAfterHour{Hour: 99}.Check(s, nil).Completed)
}

func TestTotalTimeSpent(t *testing.T) {
	s := Stats{TotalTimeSpentHours: 7.5}

	res := TotalTimeSpent{Hours: 10}.Check(s, nil)
	assert.False(t, res.Completed)
	assert.Equal(t, 0.75, res.Progress)

	assert.True(t, TotalTimeSpent{Hours: 7}.Check(s, nil).Completed)
}
