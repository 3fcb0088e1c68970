package progression

import (
	"sort"
	"time"

	"taskhero/models"
)

// Stats are the aggregate statistics one challenge-evaluation pass
// computes once over the user's full task collection and shares across
// every condition check.
type Stats struct {
	TotalCompleted int
	TotalCreated   int

	CompletedOnTime int

	CompletedEasy   int
	CompletedMedium int
	CompletedHard   int

	CompletedUnder30 int
	CompletedUnder60 int

	CompletedToday   int
	CompletedSameDay int

	// CompletionsByHour buckets completions by local hour of day;
	// Completions holds every completion timestamp and Now the instant
	// the pass ran. The hour and trailing-window conditions read these.
	CompletionsByHour [24]int
	Completions       []time.Time
	Now               time.Time

	CurrentStreak int

	TotalTimeSpentHours float64

	// Profile-derived figures needed by level and XP conditions.
	Level         int
	TotalXPEarned int
}

// ComputeStats scans the task collection once. Lifetime XP is recomputed
// from completed tasks' difficulty rewards because the stored profile XP
// loses history to level rollover.
func ComputeStats(tasks []models.Task, level int, now time.Time) Stats {
	s := Stats{Level: level}

	var completions []time.Time

	for _, t := range tasks {
		s.TotalCreated++
		s.TotalTimeSpentHours += float64(t.TimeSpent) / 60.0

		if t.Status != models.TaskStatusDone || t.CompletedAt == nil {
			continue
		}
		done := *t.CompletedAt

		s.TotalCompleted++
		completions = append(completions, done)

		if gain, err := XPRewardFor(t.Difficulty); err == nil {
			s.TotalXPEarned += gain
		}

		if !t.DueDate.IsZero() && !done.After(t.DueDate) {
			s.CompletedOnTime++
		}

		switch t.Difficulty {
		case DifficultyEasy:
			s.CompletedEasy++
		case DifficultyMedium:
			s.CompletedMedium++
		case DifficultyHard:
			s.CompletedHard++
		}

		if !t.CreatedAt.IsZero() {
			elapsed := done.Sub(t.CreatedAt)
			if elapsed >= 0 {
				if elapsed <= 30*time.Minute {
					s.CompletedUnder30++
				}
				if elapsed <= 60*time.Minute {
					s.CompletedUnder60++
				}
			}
			if sameDay(t.CreatedAt, done) {
				s.CompletedSameDay++
			}
		}

		if sameDay(done, now) {
			s.CompletedToday++
		}
		s.CompletionsByHour[done.Hour()]++
	}

	s.Completions = completions
	s.Now = now
	s.CurrentStreak = Streak(completions, now)
	return s
}

// Streak counts consecutive rolling-24h windows each containing at least
// one completion. If the most recent completion is older than 24h the
// streak is zero; otherwise it starts at one and grows for every
// consecutive pair of completions at most 24h apart, stopping at the
// first larger gap.
func Streak(completions []time.Time, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	sorted := make([]time.Time, len(completions))
	copy(sorted, completions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	if now.Sub(sorted[0]) > 24*time.Hour {
		return 0
	}

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Sub(sorted[i]) > 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
