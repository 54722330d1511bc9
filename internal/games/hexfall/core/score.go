package core

// MinMatchSize is the smallest flood-filled group that clears.
const MinMatchSize = 3

// ScoreTable holds the award constants for matches and falling blocks.
type ScoreTable struct {
	Match3        int // Flat award for a group of 3
	Match4        int // Flat award for a group of 4
	Match5        int // Flat award for a group of 5 or more
	Match5Bonus   int // Quadratic bonus per block beyond 4
	FloatingBonus int // Flat award per floating block
}

// DefaultScoreTable returns the stock award constants.
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Match3:        30,
		Match4:        50,
		Match5:        100,
		Match5Bonus:   10,
		FloatingBonus: 20,
	}
}

// MatchScore returns the base award for a match of n blocks, before the
// multiplier is applied.
func (t ScoreTable) MatchScore(n int) int {
	switch {
	case n < MinMatchSize:
		return 0
	case n == 3:
		return t.Match3
	case n == 4:
		return t.Match4
	default:
		extra := n - 4
		return t.Match5 + t.Match5Bonus*extra*extra
	}
}

// FloatingScore returns the base award for n floating blocks.
func (t ScoreTable) FloatingScore(n int) int {
	return t.FloatingBonus * n
}
