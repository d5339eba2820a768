// Package eval implements the static position evaluator. It blends the
// output of two neural network sizes with material heuristics, optimism,
// and fifty-move damping into one bounded score.
package eval

// Score bounds. Mate and tablebase scores are sentinels reserved for the
// search; static evaluation never produces them.
const (
	MaxPly = 246

	ValueZero     = 0
	ValueDraw     = 0
	ValueMate     = 32000
	ValueInfinite = 32001
	ValueNone     = 32002

	ValueMateInMaxPly  = ValueMate - MaxPly
	ValueMatedInMaxPly = -ValueMateInMaxPly

	ValueTB             = ValueMateInMaxPly - 1
	ValueTBWinInMaxPly  = ValueTB - MaxPly
	ValueTBLossInMaxPly = -ValueTBWinInMaxPly
)

// PawnValue scales the pawn-count term of the materialistic estimate;
// dividing a score by it approximates the advantage in pawns.
const PawnValue = 208

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
