// Package nnue implements a two-size NNUE (Efficiently Updatable Neural
// Network) evaluator with perspective-relative features, a per-ply
// accumulator stack, and king-bucketed refresh caches.
//
// Weights are derived deterministically from fixed seeds, so evaluation
// is reproducible across runs without an external weight file.
package nnue

// Size distinguishes the two network flavors: a large accurate network
// and a small cheap one used when the position is clearly decided.
type Size int

const (
	Small Size = iota
	Big
)

func (s Size) String() string {
	if s == Big {
		return "big"
	}
	return "small"
}

// Hidden layer widths per network size.
const (
	BigL1   = 128
	SmallL1 = 32
)

const (
	// OutputScale converts the raw output sum to centipawn-like units.
	OutputScale = 16
	// outputShift divides away the quantization of the output layer.
	outputShift = 6
)

const (
	bigSeed   = 0x5851_F42D_4C95_7F2D
	smallSeed = 0x1405_7B7E_F767_814F
)

// ClampedReLU clamps a value to [0, 127] for quantized inference.
func ClampedReLU(x int16) int8 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return int8(x)
}

// Networks bundles the two network sizes the evaluator chooses between.
type Networks struct {
	Big   *Network
	Small *Network
}

// NewNetworks builds both networks from their fixed seeds.
func NewNetworks() Networks {
	return Networks{
		Big:   NewNetwork(Big, BigL1, bigSeed),
		Small: NewNetwork(Small, SmallL1, smallSeed),
	}
}
