package progression

// LevelDef holds the resource caps for one level. MaxXP doubles as the
// XP requirement to leave the level.
type LevelDef struct {
	MaxHealth int
	MaxHunger int
	MaxXP     int
}

// Table maps level numbers to their definitions; index 0 is level 1.
// Tables are treated as immutable and injected into the Evaluator so
// tests can substitute their own curves.
type Table []LevelDef

// DefaultTable returns the production level curve.
func DefaultTable() Table {
	return Table{
		{MaxHealth: 300, MaxHunger: 250, MaxXP: 300},
		{MaxHealth: 350, MaxHunger: 300, MaxXP: 450},
		{MaxHealth: 400, MaxHunger: 350, MaxXP: 650},
		{MaxHealth: 450, MaxHunger: 400, MaxXP: 950},
		{MaxHealth: 500, MaxHunger: 450, MaxXP: 1200},
		{MaxHealth: 550, MaxHunger: 500, MaxXP: 1500},
		{MaxHealth: 650, MaxHunger: 600, MaxXP: 1900},
	}
}

// Def returns the definition for the given level. Levels past the end of
// the table clamp to the last row, so both caps and the XP requirement
// stay at their final values instead of falling back to something cheap.
func (t Table) Def(level int) LevelDef {
	if len(t) == 0 {
		return LevelDef{}
	}
	if level < 1 {
		level = 1
	}
	if level > len(t) {
		level = len(t)
	}
	return t[level-1]
}

// XPRequired returns the XP needed to advance past the given level.
func (t Table) XPRequired(level int) int {
	return t.Def(level).MaxXP
}

// MaxLevel returns the highest level the table defines.
func (t Table) MaxLevel() int {
	return len(t)
}
