package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/nnue"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	require.NoError(t, err)
	return pos
}

func evaluate(t *testing.T, fen string, optimism int) int {
	t.Helper()
	networks := nnue.NewNetworks()
	pos := mustParseFEN(t, fen)
	return Evaluate(networks, pos, nnue.NewAccumulatorStack(networks), nnue.NewCaches(networks), optimism)
}

func TestSimpleEval(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"starting position", board.StartFEN, 0},
		{"white up a queen", "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", board.PieceValue[board.Queen]},
		{"same, black to move", "4k3/8/8/8/8/8/8/Q3K3 b - - 0 1", -board.PieceValue[board.Queen]},
		{"pawn for knight", "4k3/pp6/8/8/8/8/P7/N3K3 w - - 0 1",
			board.PieceValue[board.Knight] - PawnValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SimpleEval(mustParseFEN(t, tc.fen)))
		})
	}
}

func TestUseSmallNet(t *testing.T) {
	balanced := mustParseFEN(t, board.StartFEN)
	assert.False(t, UseSmallNet(balanced, false))
	assert.False(t, UseSmallNet(balanced, true))

	// A rook ahead is beyond either threshold.
	decided := mustParseFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	assert.True(t, UseSmallNet(decided, false))
	assert.True(t, UseSmallNet(decided, true))

	// A bishop ahead stays under the base threshold.
	narrow := mustParseFEN(t, "4k3/8/8/8/8/8/8/B3K3 w - - 0 1")
	assert.False(t, UseSmallNet(narrow, false))
}

func TestEvaluateDeterministic(t *testing.T) {
	fen := "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"
	assert.Equal(t, evaluate(t, fen, 0), evaluate(t, fen, 0))
}

func TestEvaluateBounds(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"QQQQQQQQ/QQQQQQQQ/8/8/k7/8/8/K7 w - - 0 1",
		"qqqqqqqq/qqqqqqqq/8/8/K7/8/8/k7 b - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",
	}

	for _, fen := range fens {
		require.False(t, mustParseFEN(t, fen).InCheck(), fen)
		for _, optimism := range []int{-30000, 0, 30000} {
			v := evaluate(t, fen, optimism)
			assert.Greater(t, v, ValueTBLossInMaxPly, fen)
			assert.Less(t, v, ValueTBWinInMaxPly, fen)
		}
	}
}

func TestEvaluateOptimism(t *testing.T) {
	v0 := evaluate(t, board.StartFEN, 0)
	v150 := evaluate(t, board.StartFEN, 150)
	assert.Greater(t, v150, v0, "positive optimism should raise the score")
}

func TestEvaluateRule50Damping(t *testing.T) {
	fresh := evaluate(t, "4k3/8/8/8/8/8/8/QQQ1K3 w - - 0 1", 0)
	require.NotZero(t, fresh)

	shuffled := evaluate(t, "4k3/8/8/8/8/8/8/QQQ1K3 w - - 100 1", 0)
	assert.Less(t, abs(shuffled), abs(fresh), "a high rule-50 counter should damp the score")
}

func TestEvaluatePanicsInCheck(t *testing.T) {
	networks := nnue.NewNetworks()
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	require.True(t, pos.InCheck())

	assert.Panics(t, func() {
		Evaluate(networks, pos, nnue.NewAccumulatorStack(networks), nnue.NewCaches(networks), 0)
	})
}

func TestTrace(t *testing.T) {
	networks := nnue.NewNetworks()

	out := Trace(mustParseFEN(t, board.StartFEN), networks)
	assert.Contains(t, out, "NNUE evaluation")
	assert.Contains(t, out, "Final evaluation")
	assert.Contains(t, out, "white side")

	checked := Trace(mustParseFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1"), networks)
	assert.Equal(t, "Final evaluation: none (in check)", checked)
}
