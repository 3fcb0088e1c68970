package progression

import (
	"time"

	"taskhero/models"
)

// CheckResult is the outcome of testing one challenge condition.
// Progress is a fraction in [0, 1].
type CheckResult struct {
	Completed bool
	Progress  float64
}

// Condition is one kind of challenge rule. Check receives the shared
// aggregate stats plus the task whose completion triggered the pass;
// trigger may be nil for conditions that only read aggregates.
type Condition interface {
	Check(s Stats, trigger *models.Task) CheckResult
}

// Condition type tags as stored in the challenge catalog.
const (
	CondTasksCompleted     = "tasksCompleted"
	CondTasksCreated       = "tasksCreated"
	CondTasksOnTime        = "tasksOnTime"
	CondHardTasksCompleted = "hardTasksCompleted"
	CondTaskStreak         = "taskStreak"
	CondLevelReached       = "levelReached"
	CondTotalXPEarned      = "totalXpEarned"
	CondTaskCompletedUnder = "taskCompletedUnder"
	CondFastTasksCompleted = "fastTasksCompleted"
	CondTaskBeforeHour     = "taskBeforeHour"
	CondTaskAfterHour      = "taskAfterHour"
	CondTaskSameDay        = "taskSameDay"
	CondTasksInDays        = "tasksInDays"
	CondTotalTimeSpent     = "totalTimeSpent"
)

// ParseCondition turns a stored condition descriptor into a typed
// condition. Unknown tags parse to UnknownCondition, which never
// completes and reports zero progress, so one malformed catalog entry
// cannot break evaluation for the rest.
func ParseCondition(c models.ChallengeCondition) Condition {
	switch c.Type {
	case CondTasksCompleted:
		return TasksCompleted{Target: c.Target}
	case CondTasksCreated:
		return TasksCreated{Target: c.Target}
	case CondTasksOnTime:
		return TasksOnTime{Target: c.Target}
	case CondHardTasksCompleted:
		return HardTasksCompleted{Target: c.Target}
	case CondTaskStreak:
		return TaskStreak{Target: c.Target}
	case CondLevelReached:
		return LevelReached{Level: c.Level}
	case CondTotalXPEarned:
		return TotalXPEarned{Target: c.Target}
	case CondTaskCompletedUnder:
		return TaskCompletedUnder{Minutes: c.Minutes}
	case CondFastTasksCompleted:
		return FastTasksCompleted{Target: c.Target, Minutes: c.Minutes}
	case CondTaskBeforeHour:
		return TaskBeforeHour{Hour: c.Hour}
	case CondTaskAfterHour:
		return TaskAfterHour{Hour: c.Hour}
	case CondTaskSameDay:
		return TaskSameDay{Target: c.Target}
	case CondTasksInDays:
		return TasksInDays{Target: c.Target, Days: c.Days}
	case CondTotalTimeSpent:
		return TotalTimeSpent{Hours: c.Hours}
	default:
		return UnknownCondition{Type: c.Type}
	}
}

func countResult(have, target int) CheckResult {
	if target <= 0 {
		target = 1
	}
	progress := float64(have) / float64(target)
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	return CheckResult{Completed: have >= target, Progress: progress}
}

func boolResult(ok bool) CheckResult {
	if ok {
		return CheckResult{Completed: true, Progress: 1}
	}
	return CheckResult{}
}

// TasksCompleted: at least Target tasks completed overall.
type TasksCompleted struct{ Target int }

func (c TasksCompleted) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.TotalCompleted, c.Target)
}

// TasksCreated: at least Target tasks ever created.
type TasksCreated struct{ Target int }

func (c TasksCreated) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.TotalCreated, c.Target)
}

// TasksOnTime: at least Target tasks completed on or before their due date.
type TasksOnTime struct{ Target int }

func (c TasksOnTime) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.CompletedOnTime, c.Target)
}

// HardTasksCompleted: at least Target hard-tier completions.
type HardTasksCompleted struct{ Target int }

func (c HardTasksCompleted) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.CompletedHard, c.Target)
}

// TaskStreak: rolling-24h completion streak of at least Target.
type TaskStreak struct{ Target int }

func (c TaskStreak) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.CurrentStreak, c.Target)
}

// LevelReached: profile level of at least Level.
type LevelReached struct{ Level int }

func (c LevelReached) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.Level, c.Level)
}

// TotalXPEarned: lifetime XP from task completions of at least Target.
type TotalXPEarned struct{ Target int }

func (c TotalXPEarned) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.TotalXPEarned, c.Target)
}

// TaskCompletedUnder applies to the triggering task only: it completes
// when that task went from creation to done within Minutes.
type TaskCompletedUnder struct{ Minutes int }

func (c TaskCompletedUnder) Check(_ Stats, trigger *models.Task) CheckResult {
	if trigger == nil || trigger.CompletedAt == nil || trigger.CreatedAt.IsZero() {
		return CheckResult{}
	}
	elapsed := trigger.CompletedAt.Sub(trigger.CreatedAt)
	return boolResult(elapsed >= 0 && elapsed <= time.Duration(c.Minutes)*time.Minute)
}

// FastTasksCompleted: at least Target tasks completed within Minutes of
// creation, over the whole collection. The shared stats track the 30 and
// 60 minute buckets the catalog uses.
type FastTasksCompleted struct {
	Target  int
	Minutes int
}

func (c FastTasksCompleted) Check(s Stats, _ *models.Task) CheckResult {
	have := s.CompletedUnder60
	if c.Minutes > 0 && c.Minutes <= 30 {
		have = s.CompletedUnder30
	}
	return countResult(have, c.Target)
}

// TaskBeforeHour: at least one completion strictly before the given
// hour of day. Hours outside [1,24] fall back to noon.
type TaskBeforeHour struct{ Hour int }

func (c TaskBeforeHour) Check(s Stats, _ *models.Task) CheckResult {
	hour := c.Hour
	if hour <= 0 || hour > 24 {
		hour = 12
	}
	have := 0
	for h := 0; h < hour; h++ {
		have += s.CompletionsByHour[h]
	}
	return boolResult(have > 0)
}

// TaskAfterHour: at least one completion at or after the given hour of
// day. Hours outside [1,23] fall back to 23:00.
type TaskAfterHour struct{ Hour int }

func (c TaskAfterHour) Check(s Stats, _ *models.Task) CheckResult {
	hour := c.Hour
	if hour <= 0 || hour > 23 {
		hour = 23
	}
	have := 0
	for h := hour; h < 24; h++ {
		have += s.CompletionsByHour[h]
	}
	return boolResult(have > 0)
}

// TaskSameDay: at least Target tasks completed the same calendar day
// they were created.
type TaskSameDay struct{ Target int }

func (c TaskSameDay) Check(s Stats, _ *models.Task) CheckResult {
	return countResult(s.CompletedSameDay, c.Target)
}

// TasksInDays: at least Target completions inside the trailing Days-day
// window. A missing window defaults to a week.
type TasksInDays struct {
	Target int
	Days   int
}

func (c TasksInDays) Check(s Stats, _ *models.Task) CheckResult {
	days := c.Days
	if days <= 0 {
		days = 7
	}
	window := time.Duration(days) * 24 * time.Hour
	have := 0
	for _, done := range s.Completions {
		if !done.After(s.Now) && s.Now.Sub(done) <= window {
			have++
		}
	}
	return countResult(have, c.Target)
}

// TotalTimeSpent: at least Hours of tracked time across all tasks.
type TotalTimeSpent struct{ Hours int }

func (c TotalTimeSpent) Check(s Stats, _ *models.Task) CheckResult {
	if c.Hours <= 0 {
		return boolResult(s.TotalTimeSpentHours > 0)
	}
	progress := s.TotalTimeSpentHours / float64(c.Hours)
	if progress > 1 {
		progress = 1
	}
	return CheckResult{Completed: s.TotalTimeSpentHours >= float64(c.Hours), Progress: progress}
}

// UnknownCondition is the fail-open variant for unrecognized tags: never
// completed, zero progress. Callers log the tag and move on.
type UnknownCondition struct{ Type string }

func (c UnknownCondition) Check(_ Stats, _ *models.Task) CheckResult {
	return CheckResult{}
}
