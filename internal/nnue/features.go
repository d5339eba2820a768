package nnue

import "github.com/corvidchess/corvid/internal/board"

// Feature dimensions: 12 piece classes (both colors, kings included) on
// 64 squares, seen from one side's perspective.
const (
	NumPieceClasses = 12
	FeatureCount    = NumPieceClasses * 64 // 768
)

// FeatureIndex computes the input feature for a piece seen from the given
// perspective. Squares are flipped vertically for black, and flipped
// horizontally when the perspective's king stands on files e-h, so the
// king is always in the a-d half. A king crossing that boundary therefore
// invalidates every feature, which is what the refresh cache is for.
func FeatureIndex(perspective board.Color, ksq board.Square, piece board.Piece, sq board.Square) int {
	orientedKing := board.RelativeSquare(perspective, ksq)
	oriented := board.RelativeSquare(perspective, sq)
	if orientedKing.File() >= 4 {
		oriented ^= 7
	}

	class := int(piece.Type())
	if piece.Color() != perspective {
		class += 6
	}
	return class*64 + int(oriented)
}
