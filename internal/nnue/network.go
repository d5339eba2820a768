package nnue

import "github.com/corvidchess/corvid/internal/board"

// Network holds the quantized weights of one network size. Layer 1 maps
// active features to the accumulator; the output layer maps the clipped
// accumulator of both perspectives to the positional score. A separate
// per-feature table yields the piece-square (material-like) score.
type Network struct {
	Size Size
	L1   int

	Weights       []int16 // FeatureCount rows of L1 columns
	Bias          []int16 // L1
	OutputWeights []int8  // 2 * L1, side to move first
	OutputBias    int32
	PSQT          []int32 // FeatureCount
}

// NewNetwork derives a network of the given width from a seed.
func NewNetwork(size Size, l1 int, seed uint64) *Network {
	n := &Network{
		Size:          size,
		L1:            l1,
		Weights:       make([]int16, FeatureCount*l1),
		Bias:          make([]int16, l1),
		OutputWeights: make([]int8, 2*l1),
		PSQT:          make([]int32, FeatureCount),
	}
	n.initWeights(seed)
	return n
}

// initWeights fills the weight arrays from an LCG. Magnitudes are kept
// small so the int16 accumulator cannot overflow with 32 active features.
func (n *Network) initWeights(seed uint64) {
	state := seed
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128
	}

	for i := range n.Weights {
		n.Weights[i] = next() >> 5
	}
	for i := range n.Bias {
		n.Bias[i] = next() >> 3
	}
	for i := range n.OutputWeights {
		n.OutputWeights[i] = int8(next() >> 2)
	}
	n.OutputBias = int32(next())

	// Piece-square values in rough centipawn range, with kings neutral.
	for class := 0; class < NumPieceClasses; class++ {
		pt := board.PieceType(class % 6)
		scale := int32(board.PieceValue[pt] / 8)
		sign := int32(1)
		if class >= 6 {
			sign = -1
		}
		for sq := 0; sq < 64; sq++ {
			n.PSQT[class*64+sq] = sign * (scale + int32(next()>>2))
		}
	}
}

// Evaluate returns the piece-square and positional scores for the
// position, both from the side to move's point of view. Accumulators are
// refreshed through the cache as needed.
func (n *Network) Evaluate(pos *board.Position, stack *AccumulatorStack, cache *Cache) (psqt, positional int) {
	acc := stack.Current(n.Size)
	for c := board.White; c <= board.Black; c++ {
		if !acc.Computed[c] {
			n.Refresh(pos, acc, cache, c)
		}
	}

	stm := pos.SideToMove
	psqt = int(acc.PSQT[stm]-acc.PSQT[stm.Other()]) / 2
	positional = n.forward(acc, stm)
	return psqt, positional
}

// forward runs the output layer over the clipped accumulator, side to
// move's perspective first.
func (n *Network) forward(acc *Accumulator, stm board.Color) int {
	sum := n.OutputBias
	stmValues := acc.Values[stm]
	oppValues := acc.Values[stm.Other()]
	for i := 0; i < n.L1; i++ {
		sum += int32(ClampedReLU(stmValues[i])) * int32(n.OutputWeights[i])
		sum += int32(ClampedReLU(oppValues[i])) * int32(n.OutputWeights[n.L1+i])
	}
	return int(sum) * OutputScale >> outputShift
}

// Refresh brings one perspective of the accumulator up to date using the
// king-bucket cache: only pieces that differ from the cached board are
// accumulated, then the entry is copied out and updated.
func (n *Network) Refresh(pos *board.Position, acc *Accumulator, cache *Cache, perspective board.Color) {
	ksq := pos.KingSquare[perspective]
	entry := cache.entry(perspective, ksq)

	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			added := pos.Pieces[c][pt] &^ entry.pieces[c][pt]
			removed := entry.pieces[c][pt] &^ pos.Pieces[c][pt]

			for added != 0 {
				idx := FeatureIndex(perspective, ksq, board.NewPiece(pt, c), added.PopLSB())
				row := n.Weights[idx*n.L1 : (idx+1)*n.L1]
				for i, w := range row {
					entry.values[i] += w
				}
				entry.psqt += n.PSQT[idx]
			}
			for removed != 0 {
				idx := FeatureIndex(perspective, ksq, board.NewPiece(pt, c), removed.PopLSB())
				row := n.Weights[idx*n.L1 : (idx+1)*n.L1]
				for i, w := range row {
					entry.values[i] -= w
				}
				entry.psqt -= n.PSQT[idx]
			}
			entry.pieces[c][pt] = pos.Pieces[c][pt]
		}
	}

	copy(acc.Values[perspective], entry.values)
	acc.PSQT[perspective] = entry.psqt
	acc.Computed[perspective] = true
}
