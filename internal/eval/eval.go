package eval

import (
	"fmt"
	"strings"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/nnue"
)

// SimpleEval is a purely materialistic estimate from the side to move's
// point of view: pawn count difference weighted by PawnValue plus the
// non-pawn material difference.
func SimpleEval(pos *board.Position) int {
	c := pos.SideToMove
	return PawnValue*(pos.Count(c, board.Pawn)-pos.Count(c.Other(), board.Pawn)) +
		(pos.NonPawnMaterial(c) - pos.NonPawnMaterial(c.Other()))
}

// UseSmallNet decides whether the cheap network suffices: clearly decided
// positions do not need the big one. The lastBig flag raises the
// threshold so the choice does not oscillate move to move.
func UseSmallNet(pos *board.Position, lastBig bool) bool {
	threshold := 900
	if lastBig {
		threshold += 80
	}
	return abs(SimpleEval(pos)) > threshold
}

// Evaluate returns a static evaluation of the position from the point of
// view of the side to move, strictly inside the tablebase score range.
//
// The position must not be in check.
func Evaluate(networks nnue.Networks, pos *board.Position, stack *nnue.AccumulatorStack, caches *nnue.Caches, optimism int) int {
	if pos.InCheck() {
		panic("eval: Evaluate called while in check")
	}

	lastBig := stack.LastBigComputed()
	smallNet := UseSmallNet(pos, lastBig)

	var psqt, positional int
	if smallNet {
		psqt, positional = networks.Small.Evaluate(pos, stack, caches.Small)
	} else {
		psqt, positional = networks.Big.Evaluate(pos, stack, caches.Big)
	}
	value := (125*psqt + 131*positional) / 128

	// Near equality accuracy matters more than speed, so redo the work
	// with the big network.
	if smallNet && abs(value) < 236 {
		psqt, positional = networks.Big.Evaluate(pos, stack, caches.Big)
		value = (125*psqt + 131*positional) / 128
	}

	// Blend optimism and eval with nnue complexity.
	complexity := abs(psqt - positional)
	optimism += optimism * complexity / 468
	value -= value * complexity / 18000

	material := 535*pos.CountAll(board.Pawn) + pos.NonPawnMaterialAll()
	v := (value*(77777+material) + optimism*(7777+material)) / 77777

	// Damp down the evaluation linearly when shuffling.
	v -= v * pos.HalfMoveClock / 212

	return clamp(v, ValueTBLossInMaxPly+1, ValueTBWinInMaxPly-1)
}

// Trace returns a human-readable evaluation breakdown for debugging.
// Scores are from white's point of view.
func Trace(pos *board.Position, networks nnue.Networks) string {
	if pos.InCheck() {
		return "Final evaluation: none (in check)"
	}

	stack := nnue.NewAccumulatorStack(networks)
	caches := nnue.NewCaches(networks)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Simple eval            %+.2f (side to move)\n", float64(SimpleEval(pos))/float64(PawnValue))

	psqt, positional := networks.Big.Evaluate(pos, stack, caches.Big)
	raw := psqt + positional
	if pos.SideToMove == board.Black {
		raw = -raw
	}
	fmt.Fprintf(&sb, "NNUE evaluation        %+.2f (white side)  [psqt %d, positional %d]\n",
		float64(raw)/100, psqt, positional)

	v := Evaluate(networks, pos, stack, caches, ValueZero)
	if pos.SideToMove == board.Black {
		v = -v
	}
	fmt.Fprintf(&sb, "Final evaluation       %+.2f (white side)  [with scaled NNUE, optimism, 50mr]\n",
		float64(v)/100)
	return sb.String()
}
