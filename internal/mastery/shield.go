package mastery

// Level is a module's shield tier.
type Level int

const (
	Level1 Level = iota + 1
	Level2
	Level3
)

// MaxLevel is the highest shield tier.
const MaxLevel = Level3

// Color returns the fixed display colour of the level.
func (l Level) Color() string {
	switch l {
	case Level3:
		return "#FFD700"
	case Level2:
		return "#D9382C"
	default:
		return "#00A693"
	}
}

// Label returns the level's display text.
func (l Level) Label() string {
	switch l {
	case Level3:
		return "Level 3 (Max)"
	case Level2:
		return "Level 2"
	default:
		return "Level 1"
	}
}

// LevelFor derives the shield level from answered and total question counts.
// Level 2 needs a strict majority.
func LevelFor(answered, total int) Level {
	switch {
	case total > 0 && answered >= total:
		return Level3
	case answered*2 > total:
		return Level2
	default:
		return Level1
	}
}

// NeededForNext returns how many more correct answers reach the next level.
// It is 0 at the max level.
func NeededForNext(answered, total int) int {
	var n int
	switch LevelFor(answered, total) {
	case Level1:
		n = total/2 + 1 - answered
	case Level2:
		n = total - answered
	}
	return max(n, 0)
}

// Shield is a module's mastery summary.
type Shield struct {
	Level    Level `json:"level"`
	Answered int   `json:"answered"`
	Total    int   `json:"total"`
	Needed   int   `json:"needed"`

	// AnsweredPct is the integer share of questions answered correctly.
	AnsweredPct int `json:"answered_pct"`
}

// NewShield computes the shield for the given counts.
func NewShield(answered, total int) Shield {
	pct := 0
	if total > 0 {
		pct = min(100*answered/total, 100)
	}
	return Shield{
		Level:       LevelFor(answered, total),
		Answered:    answered,
		Total:       total,
		Needed:      NeededForNext(answered, total),
		AnsweredPct: pct,
	}
}

// Label returns the shield's level label.
func (s Shield) Label() string { return s.Level.Label() }

// Color returns the shield's level colour.
func (s Shield) Color() string { return s.Level.Color() }
