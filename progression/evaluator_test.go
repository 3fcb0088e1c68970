package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhero/models"
)

func TestNewProfileDefaults(t *testing.T) {
	e := NewEvaluator(nil)
	p := e.NewProfile()

	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 300, p.MaxHealth)
	assert.Equal(t, 250, p.MaxHunger)
	assert.Equal(t, 300, p.MaxXP)
	assert.Equal(t, 300.0, p.Health)
	assert.Equal(t, 0.0, p.Hunger)
}

func TestApplyRewards(t *testing.T) {
	e := NewEvaluator(nil)
	p := e.NewProfile()
	p.Hunger = 100

	res, err := e.Apply(p, DifficultyEasy)
	require.NoError(t, err)

	assert.Equal(t, 25, res.XPGain)
	assert.Equal(t, 25, res.Profile.XP)
	assert.Equal(t, 1, res.Profile.Level)
	assert.False(t, res.LeveledUp)
	// Easy: hunger -5% of 250 = 12.5, health +5% of 300 capped at max.
	assert.Equal(t, 87.5, res.Profile.Hunger)
	assert.Equal(t, 300.0, res.Profile.Health)
}

func TestApplyLevelRollover(t *testing.T) {
	e := NewEvaluator(nil)
	p := models.Profile{
		Level: 1, XP: 280,
		Health: 200, Hunger: 50,
		MaxHealth: 300, MaxHunger: 250, MaxXP: 300,
	}

	res, err := e.Apply(p, DifficultyHard)
	require.NoError(t, err)

	// 280 + 100 = 380 >= 300, carry over to level 2.
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Profile.Level)
	assert.Equal(t, 80, res.Profile.XP)
	assert.Equal(t, 350, res.Profile.MaxHealth)
	assert.Equal(t, 300, res.Profile.MaxHunger)
	assert.Equal(t, 450, res.Profile.MaxXP)
	// Deltas are taken against the level-2 caps.
	assert.Equal(t, 0.0, res.Profile.Hunger) // 50 - 0.2*300 floors at 0
	assert.Equal(t, 270.0, res.Profile.Health)
}

func TestApplyMultiLevelRollover(t *testing.T) {
	table := Table{
		{MaxHealth: 100, MaxHunger: 100, MaxXP: 10},
		{MaxHealth: 110, MaxHunger: 110, MaxXP: 20},
		{MaxHealth: 120, MaxHunger: 120, MaxXP: 30},
	}
	e := NewEvaluator(table)
	p := e.NewProfile()

	// 25 XP crosses level 1 (10) and level 2 (20 is not crossed: 25-10=15 < 20).
	res, err := e.Apply(p, DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Profile.Level)
	assert.Equal(t, 15, res.Profile.XP)
	assert.True(t, res.LeveledUp)

	// Hard completion from level 2: 15+100=115, -20 => level 3 (95), -30 => level 4
	// clamps to the last row, 65, -30 => level 5, 35, -30 => level 6, 5 < 30 stops.
	res2, err := e.Apply(res.Profile, DifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, 6, res2.Profile.Level)
	assert.Equal(t, 5, res2.Profile.XP)
	assert.Equal(t, 120, res2.Profile.MaxHealth)
	assert.Less(t, res2.Profile.XP, e.Table().XPRequired(res2.Profile.Level))
}

func TestApplyUnknownDifficulty(t *testing.T) {
	e := NewEvaluator(nil)
	_, err := e.Apply(e.NewProfile(), "foo")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestApplyMonotonicBounds(t *testing.T) {
	e := NewEvaluator(nil)
	p := e.NewProfile()

	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		before := p
		res, err := e.Apply(p, d)
		require.NoError(t, err)
		p = res.Profile

		assert.GreaterOrEqual(t, p.Level, before.Level)
		assert.GreaterOrEqual(t, p.Health, 0.0)
		assert.LessOrEqual(t, p.Health, float64(p.MaxHealth))
		assert.GreaterOrEqual(t, p.Hunger, 0.0)
		assert.LessOrEqual(t, p.Hunger, float64(p.MaxHunger))
	}
}

func TestDecay(t *testing.T) {
	e := NewEvaluator(nil)
	p := models.Profile{
		Level: 1, Health: 300, Hunger: 0,
		MaxHealth: 300, MaxHunger: 250, MaxXP: 300,
	}

	p = e.Decay(p, 0.05, 0.05)
	assert.Equal(t, 12.5, p.Hunger)
	assert.Equal(t, 300.0, p.Health) // not starving, health untouched
}

func TestDecayStarving(t *testing.T) {
	e := NewEvaluator(nil)
	p := models.Profile{
		Level: 1, Health: 100, Hunger: 250,
		MaxHealth: 300, MaxHunger: 250, MaxXP: 300,
	}

	p = e.Decay(p, 0.05, 0.05)
	assert.Equal(t, 250.0, p.Hunger) // stays saturated
	assert.Equal(t, 85.0, p.Health)  // 100 - 0.05*300
}

func TestDecayHealthFloor(t *testing.T) {
	e := NewEvaluator(nil)
	p := models.Profile{
		Level: 1, Health: 5, Hunger: 250,
		MaxHealth: 300, MaxHunger: 250, MaxXP: 300,
	}

	p = e.Decay(p, 0.05, 0.05)
	assert.Equal(t, 0.0, p.Health)
}

func TestTableClamping(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, table.Def(1), table.Def(0))
	assert.Equal(t, table.Def(7), table.Def(99))
	assert.Equal(t, 1900, table.XPRequired(99))
	assert.Equal(t, 7, table.MaxLevel())
}
