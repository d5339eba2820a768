package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-13: promotion piece (0=Knight .. 3=Queen)
// bits 14-15: flag (0=normal, 1=promotion, 2=en passant, 3=castling)
//
// Castling is encoded as king-takes-rook: the to square is the rook's
// square, which identifies the castling side without extra bits.
type Move uint16

const (
	flagNormal    Move = 0 << 14
	flagPromotion Move = 1 << 14
	flagEnPassant Move = 2 << 14
	flagCastling  Move = 3 << 14
)

// NoMove is the zero value; it is not a legal move encoding (a1a1).
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move to the given piece type.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | flagPromotion
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | flagEnPassant
}

// NewCastling creates a castling move from the king square to the rook
// square of the chosen side.
func NewCastling(kingSq, rookSq Square) Move {
	return Move(kingSq) | Move(rookSq)<<6 | flagCastling
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square. For castling this is the rook square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type; only meaningful when
// IsPromotion reports true.
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

func (m Move) flag() Move        { return m & 0xC000 }
func (m Move) IsPromotion() bool { return m.flag() == flagPromotion }
func (m Move) IsEnPassant() bool { return m.flag() == flagEnPassant }
func (m Move) IsCastling() bool  { return m.flag() == flagCastling }

// IsCapture reports whether the move captures a piece in the given
// position. Castling is never a capture even though the rook square is
// occupied.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsCastling() {
		return false
	}
	return m.IsEnPassant() || !pos.IsEmpty(m.To())
}

// KingTo returns the square the king ends on for a castling move.
func (m Move) KingTo() Square {
	if m.To() > m.From() {
		return NewSquare(6, m.From().Rank()) // kingside
	}
	return NewSquare(2, m.From().Rank())
}

// RookTo returns the square the rook ends on for a castling move.
func (m Move) RookTo() Square {
	if m.To() > m.From() {
		return NewSquare(5, m.From().Rank())
	}
	return NewSquare(3, m.From().Rank())
}

// String returns the move in UCI notation ("e2e4", "e7e8q"). Castling is
// rendered with the king's destination ("e1g1"), not the internal rook
// square.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	to := m.To()
	if m.IsCastling() {
		to = m.KingTo()
	}
	s := m.From().String() + to.String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses a UCI move string against a position, recognizing
// castling and en passant from context.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	switch {
	case piece.Type() == King && abs(to.File()-from.File()) == 2:
		rookFile := 0
		if to.File() > from.File() {
			rookFile = 7
		}
		return NewCastling(from, NewSquare(rookFile, from.Rank())), nil
	case piece.Type() == Pawn && to == pos.EnPassant:
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}
