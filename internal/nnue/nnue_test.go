package nnue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/corvid/internal/board"
)

func TestFeatureIndexBounds(t *testing.T) {
	for _, perspective := range []board.Color{board.White, board.Black} {
		for ksq := board.A1; ksq <= board.H8; ksq++ {
			for p := board.WhitePawn; p < board.NoPiece; p++ {
				for sq := board.A1; sq <= board.H8; sq++ {
					idx := FeatureIndex(perspective, ksq, p, sq)
					require.GreaterOrEqual(t, idx, 0)
					require.Less(t, idx, FeatureCount)
				}
			}
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	run := func() (int, int, int, int) {
		nets := NewNetworks()
		stack := NewAccumulatorStack(nets)
		caches := NewCaches(nets)
		bp, bv := nets.Big.Evaluate(pos, stack, caches.Big)
		sp, sv := nets.Small.Evaluate(pos, stack, caches.Small)
		return bp, bv, sp, sv
	}

	bp1, bv1, sp1, sv1 := run()
	bp2, bv2, sp2, sv2 := run()
	assert.Equal(t, bp1, bp2, "big psqt differs between runs")
	assert.Equal(t, bv1, bv2, "big positional differs between runs")
	assert.Equal(t, sp1, sp2, "small psqt differs between runs")
	assert.Equal(t, sv1, sv2, "small positional differs between runs")
}

// TestStartposSymmetry relies on the mirror symmetry of the starting
// position: both perspectives accumulate the same feature set, so the
// piece-square score vanishes and the positional score matches for
// either side to move.
func TestStartposSymmetry(t *testing.T) {
	nets := NewNetworks()

	white := board.NewPosition()
	black, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)

	stack := NewAccumulatorStack(nets)
	caches := NewCaches(nets)
	wp, wv := nets.Big.Evaluate(white, stack, caches.Big)

	stack2 := NewAccumulatorStack(nets)
	caches2 := NewCaches(nets)
	bp, bv := nets.Big.Evaluate(black, stack2, caches2.Big)

	assert.Zero(t, wp, "piece-square score should vanish in the starting position")
	assert.Zero(t, bp)
	assert.Equal(t, wv, bv, "positional score should not depend on who is to move")
}

// TestCacheRefresh checks that a cache carrying state from other
// positions still produces the same result as a fresh one.
func TestCacheRefresh(t *testing.T) {
	nets := NewNetworks()

	a, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	b, err := board.ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	freshStack := NewAccumulatorStack(nets)
	freshCaches := NewCaches(nets)
	wantPSQT, wantPositional := nets.Big.Evaluate(a, freshStack, freshCaches.Big)

	stack := NewAccumulatorStack(nets)
	caches := NewCaches(nets)
	nets.Big.Evaluate(b, stack, caches.Big)
	stack.Push()
	nets.Big.Evaluate(a, stack, caches.Big)
	stack.Push()
	gotPSQT, gotPositional := nets.Big.Evaluate(a, stack, caches.Big)

	assert.Equal(t, wantPSQT, gotPSQT)
	assert.Equal(t, wantPositional, gotPositional)
}

func TestAccumulatorStack(t *testing.T) {
	nets := NewNetworks()
	stack := NewAccumulatorStack(nets)
	caches := NewCaches(nets)
	pos := board.NewPosition()

	assert.False(t, stack.LastBigComputed(), "empty stack has no previous frame")

	nets.Big.Evaluate(pos, stack, caches.Big)
	acc := stack.Current(Big)
	assert.True(t, acc.Computed[board.White] && acc.Computed[board.Black])

	stack.Push()
	assert.True(t, stack.LastBigComputed(), "previous frame was fully evaluated")
	assert.False(t, stack.Current(Big).Computed[board.White], "pushed frame starts invalid")

	stack.Push()
	assert.False(t, stack.LastBigComputed(), "previous frame was never evaluated")

	stack.Pop()
	stack.Pop()
	acc = stack.Current(Big)
	assert.True(t, acc.Computed[board.White] && acc.Computed[board.Black],
		"popping restores the evaluated frame")

	stack.Reset()
	assert.False(t, stack.Current(Big).Computed[board.White])
}
