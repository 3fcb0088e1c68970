package progression

import (
	"errors"
	"fmt"

	"taskhero/models"
)

// Difficulty tags as stored on task documents. The tags are the wire
// values the mobile client has always sent.
const (
	DifficultyEasy   = "latwy"
	DifficultyMedium = "sredni"
	DifficultyHard   = "trudny"
)

var (
	// ErrUnknownDifficulty signals an invalid difficulty tag.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrRewardNotConfigured signals a known difficulty with no reward
	// entry, i.e. a misconfigured reward table.
	ErrRewardNotConfigured = errors.New("reward not configured for difficulty")
)

var xpReward = map[string]int{
	DifficultyEasy:   25,
	DifficultyMedium: 50,
	DifficultyHard:   100,
}

// Hunger reduction and health gain are fractions of the current max
// values at evaluation time. Harder tasks satiate and heal more.
var hungerReduction = map[string]float64{
	DifficultyEasy:   0.05,
	DifficultyMedium: 0.10,
	DifficultyHard:   0.20,
}

var healthGain = map[string]float64{
	DifficultyEasy:   0.05,
	DifficultyMedium: 0.10,
	DifficultyHard:   0.20,
}

// ValidDifficulty reports whether d is one of the known difficulty tags.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// XPRewardFor returns the XP granted for completing a task of the given
// difficulty.
func XPRewardFor(d string) (int, error) {
	if !ValidDifficulty(d) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	gain, ok := xpReward[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrRewardNotConfigured, d)
	}
	return gain, nil
}

// Evaluator applies completion rewards and hourly decay to profiles.
// It is pure: callers own persistence and atomicity.
type Evaluator struct {
	table Table
}

// NewEvaluator builds an evaluator over the given level table. A nil or
// empty table falls back to the default curve.
func NewEvaluator(table Table) *Evaluator {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Evaluator{table: table}
}

// Table returns the level table the evaluator was built with.
func (e *Evaluator) Table() Table {
	return e.table
}

// NewProfile returns the level-1 defaults written at registration:
// full health, zero hunger, zero XP.
func (e *Evaluator) NewProfile() models.Profile {
	def := e.table.Def(1)
	return models.Profile{
		Level:     1,
		XP:        0,
		Health:    float64(def.MaxHealth),
		Hunger:    0,
		MaxHealth: def.MaxHealth,
		MaxHunger: def.MaxHunger,
		MaxXP:     def.MaxXP,
	}
}

// Result is the outcome of applying one task completion to a profile.
type Result struct {
	Profile   models.Profile
	XPGain    int
	LeveledUp bool
}

// Apply computes the profile after completing a task of the given
// difficulty. XP carries over through as many level boundaries as it
// crosses; the hunger and health deltas are taken against the caps in
// force after the level loop, so a completion that levels up heals
// against the new, larger maximums.
func (e *Evaluator) Apply(p models.Profile, difficulty string) (Result, error) {
	gain, err := XPRewardFor(difficulty)
	if err != nil {
		return Result{}, err
	}

	p = e.normalize(p)
	p.XP += gain

	leveledUp := false
	for p.XP >= e.table.XPRequired(p.Level) {
		p.XP -= e.table.XPRequired(p.Level)
		p.Level++
		leveledUp = true

		def := e.table.Def(p.Level)
		p.MaxHealth = def.MaxHealth
		p.MaxHunger = def.MaxHunger
		p.MaxXP = def.MaxXP
	}

	p.Hunger -= hungerReduction[difficulty] * float64(p.MaxHunger)
	if p.Hunger < 0 {
		p.Hunger = 0
	}

	p.Health += healthGain[difficulty] * float64(p.MaxHealth)
	if p.Health > float64(p.MaxHealth) {
		p.Health = float64(p.MaxHealth)
	}

	return Result{Profile: p, XPGain: gain, LeveledUp: leveledUp}, nil
}

// Decay applies one scheduler tick: hunger grows by hungerPerHour of its
// max, and a profile that was already starving (hunger saturated) loses
// starvingLoss of its max health, floored at zero.
func (e *Evaluator) Decay(p models.Profile, hungerPerHour, starvingLoss float64) models.Profile {
	p = e.normalize(p)

	starving := p.Hunger >= float64(p.MaxHunger)

	p.Hunger += hungerPerHour * float64(p.MaxHunger)
	if p.Hunger > float64(p.MaxHunger) {
		p.Hunger = float64(p.MaxHunger)
	}

	if starving {
		p.Health -= starvingLoss * float64(p.MaxHealth)
		if p.Health < 0 {
			p.Health = 0
		}
	}

	return p
}

// normalize repairs profiles written before the current level table, or
// partially written documents: missing caps are refilled from the table
// and out-of-range values are clamped.
func (e *Evaluator) normalize(p models.Profile) models.Profile {
	if p.Level < 1 {
		p.Level = 1
	}
	def := e.table.Def(p.Level)
	if p.MaxHealth <= 0 {
		p.MaxHealth = def.MaxHealth
	}
	if p.MaxHunger <= 0 {
		p.MaxHunger = def.MaxHunger
	}
	if p.MaxXP <= 0 {
		p.MaxXP = def.MaxXP
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Health < 0 {
		p.Health = 0
	}
	if p.Health > float64(p.MaxHealth) {
		p.Health = float64(p.MaxHealth)
	}
	if p.Hunger < 0 {
		p.Hunger = 0
	}
	if p.Hunger > float64(p.MaxHunger) {
		p.Hunger = float64(p.MaxHunger)
	}
	return p
}
