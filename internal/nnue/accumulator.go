package nnue

import "github.com/corvidchess/corvid/internal/board"

// Accumulator holds one network's first-layer sums for both perspectives
// plus the piece-square totals, with per-perspective validity flags.
type Accumulator struct {
	Values   [2][]int16
	PSQT     [2]int32
	Computed [2]bool
}

func newAccumulator(l1 int) Accumulator {
	return Accumulator{Values: [2][]int16{make([]int16, l1), make([]int16, l1)}}
}

func (acc *Accumulator) invalidate() {
	acc.Computed[board.White] = false
	acc.Computed[board.Black] = false
}

// frame pairs the big and small accumulators of one ply.
type frame struct {
	big   Accumulator
	small Accumulator
}

// AccumulatorStack tracks accumulators per search ply. Push opens a fresh
// invalid frame; evaluation fills it lazily through the caches.
type AccumulatorStack struct {
	frames []frame
	top    int
	bigL1  int
	smlL1  int
}

// NewAccumulatorStack creates a stack with one empty frame on it.
func NewAccumulatorStack(nets Networks) *AccumulatorStack {
	s := &AccumulatorStack{bigL1: nets.Big.L1, smlL1: nets.Small.L1}
	s.frames = append(s.frames, s.newFrame())
	return s
}

func (s *AccumulatorStack) newFrame() frame {
	return frame{big: newAccumulator(s.bigL1), small: newAccumulator(s.smlL1)}
}

// Push opens a new frame; call when a move is made.
func (s *AccumulatorStack) Push() {
	s.top++
	if s.top == len(s.frames) {
		s.frames = append(s.frames, s.newFrame())
	}
	s.frames[s.top].big.invalidate()
	s.frames[s.top].small.invalidate()
}

// Pop discards the top frame; call when a move is unmade.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Reset drops all frames down to a single invalid one.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.frames[0].big.invalidate()
	s.frames[0].small.invalidate()
}

// Current returns the top accumulator for the given network size.
func (s *AccumulatorStack) Current(size Size) *Accumulator {
	if size == Big {
		return &s.frames[s.top].big
	}
	return &s.frames[s.top].small
}

// LastBigComputed reports whether the frame below the top had its big
// accumulator computed for both perspectives. The evaluator uses it as a
// hysteresis signal when choosing between network sizes.
func (s *AccumulatorStack) LastBigComputed() bool {
	if s.top == 0 {
		return false
	}
	prev := &s.frames[s.top-1].big
	return prev.Computed[board.White] && prev.Computed[board.Black]
}

// cacheEntry is one king-bucket of the refresh cache: the accumulated
// first layer for the board state recorded in pieces.
type cacheEntry struct {
	values []int16
	psqt   int32
	pieces [2][6]board.Bitboard
}

// Cache avoids full feature rebuilds on refresh: per perspective and king
// square it keeps the last accumulated board, so a refresh only applies
// the difference. Entries start from the bias, the empty-board sum.
type Cache struct {
	entries [2][64]cacheEntry
}

// NewCache builds an empty cache for the given network.
func NewCache(n *Network) *Cache {
	c := &Cache{}
	for p := 0; p < 2; p++ {
		for sq := 0; sq < 64; sq++ {
			values := make([]int16, n.L1)
			copy(values, n.Bias)
			c.entries[p][sq] = cacheEntry{values: values}
		}
	}
	return c
}

func (c *Cache) entry(perspective board.Color, ksq board.Square) *cacheEntry {
	return &c.entries[perspective][ksq]
}

// Caches pairs the refresh caches of both network sizes.
type Caches struct {
	Big   *Cache
	Small *Cache
}

// NewCaches builds fresh caches for both networks.
func NewCaches(nets Networks) *Caches {
	return &Caches{Big: NewCache(nets.Big), Small: NewCache(nets.Small)}
}
