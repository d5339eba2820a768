package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a bitset of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota // K
	WhiteQueenSide                           // Q
	BlackKingSide                            // k
	BlackQueenSide                           // q

	NoCastling  CastlingRights = 0
	AnyCastling CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// CastlingRightsOf returns both rights of the given color.
func CastlingRightsOf(c Color) CastlingRights {
	if c == White {
		return WhiteKingSide | WhiteQueenSide
	}
	return BlackKingSide | BlackQueenSide
}

// KingSideRight and QueenSideRight return the single right of a color.
func KingSideRight(c Color) CastlingRights {
	if c == White {
		return WhiteKingSide
	}
	return BlackKingSide
}

func QueenSideRight(c Color) CastlingRights {
	if c == White {
		return WhiteQueenSide
	}
	return BlackQueenSide
}

// String returns the FEN castling field ("KQkq", "-", ...).
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// castlingRightsMask maps a square to the rights lost when a piece moves
// from or to it.
var castlingRightsMask [64]CastlingRights

// castlingPath holds, per single right, the squares between king and rook
// that must be empty.
var (
	castlingPath = map[CastlingRights]Bitboard{
		WhiteKingSide:  SquareBB(F1) | SquareBB(G1),
		WhiteQueenSide: SquareBB(B1) | SquareBB(C1) | SquareBB(D1),
		BlackKingSide:  SquareBB(F8) | SquareBB(G8),
		BlackQueenSide: SquareBB(B8) | SquareBB(C8) | SquareBB(D8),
	}
	castlingRook = map[CastlingRights]Square{
		WhiteKingSide:  H1,
		WhiteQueenSide: A1,
		BlackKingSide:  H8,
		BlackQueenSide: A8,
	}
)

func init() {
	castlingRightsMask[E1] = WhiteKingSide | WhiteQueenSide
	castlingRightsMask[A1] = WhiteQueenSide
	castlingRightsMask[H1] = WhiteKingSide
	castlingRightsMask[E8] = BlackKingSide | BlackQueenSide
	castlingRightsMask[A8] = BlackQueenSide
	castlingRightsMask[H8] = BlackKingSide
}

// Position is a complete chess position: piece placement plus the state
// needed for move generation and evaluation.
type Position struct {
	Pieces [2][6]Bitboard // [Color][PieceType]

	Occupied    [2]Bitboard // all pieces of each color
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // en passant target square, NoSquare if none
	HalfMoveClock  int    // half-moves since last capture or pawn move
	FullMoveNumber int

	Hash uint64 // zobrist hash

	KingSquare [2]Square
	Checkers   Bitboard // pieces giving check to the side to move
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy returns a deep copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	return &cp
}

// PieceAt returns the piece on the given square, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

func (p *Position) setPiece(piece Piece, sq Square) {
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(piece Piece, sq Square) {
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
}

func (p *Position) movePiece(piece Piece, from, to Square) {
	c, pt := piece.Color(), piece.Type()
	moveBB := SquareBB(from) | SquareBB(to)
	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
	if pt == King {
		p.KingSquare[c] = to
	}
}

func (p *Position) updateOccupied() {
	p.Occupied[White] = 0
	p.Occupied[Black] = 0
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()
}

// AttackersTo returns all pieces of either color attacking sq under the
// given occupancy.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return p.AttackersByColor(sq, White, occupied) | p.AttackersByColor(sq, Black, occupied)
}

// AttackersByColor returns the pieces of color c attacking sq under the
// given occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	queens := p.Pieces[c][Queen]
	return (pawnAttacks[c.Other()][sq] & p.Pieces[c][Pawn]) |
		(knightAttacks[sq] & p.Pieces[c][Knight]) |
		(kingAttacks[sq] & p.Pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.Pieces[c][Bishop] | queens)) |
		(RookAttacks(sq, occupied) & (p.Pieces[c][Rook] | queens))
}

// IsSquareAttacked reports whether sq is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied) != 0
}

// UpdateCheckers recomputes the checkers bitboard for the side to move.
func (p *Position) UpdateCheckers() {
	us := p.SideToMove
	p.Checkers = p.AttackersByColor(p.KingSquare[us], us.Other(), p.AllOccupied)
}

// SliderBlockers computes the pieces that stand alone between square s and
// a sliding attacker from the sliders set. The returned blockers contain
// pieces of both colors; pinners are the sliders pinning a piece of the
// same color as the piece on s.
func (p *Position) SliderBlockers(sliders Bitboard, s Square) (blockers, pinners Bitboard) {
	rooksQueens := p.Pieces[White][Rook] | p.Pieces[Black][Rook] |
		p.Pieces[White][Queen] | p.Pieces[Black][Queen]
	bishopsQueens := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop] |
		p.Pieces[White][Queen] | p.Pieces[Black][Queen]

	snipers := ((RookAttacks(s, 0) & rooksQueens) | (BishopAttacks(s, 0) & bishopsQueens)) & sliders
	occupancy := p.AllOccupied ^ snipers
	owner := p.PieceAt(s).Color()

	for snipers != 0 {
		sniper := snipers.PopLSB()
		b := Between(s, sniper) & occupancy
		if b != 0 && !b.More() {
			blockers |= b
			if b&p.Occupied[owner] != 0 {
				pinners |= SquareBB(sniper)
			}
		}
	}
	return blockers, pinners
}

// BlockersForKing returns the pieces (of either color) whose removal would
// expose c's king to a sliding attack.
func (p *Position) BlockersForKing(c Color) Bitboard {
	blockers, _ := p.SliderBlockers(p.Occupied[c.Other()], p.KingSquare[c])
	return blockers
}

// Count returns the number of pieces of the given color and type.
func (p *Position) Count(c Color, pt PieceType) int {
	return p.Pieces[c][pt].PopCount()
}

// CountAll returns the number of pieces of the given type of both colors.
func (p *Position) CountAll(pt PieceType) int {
	return (p.Pieces[White][pt] | p.Pieces[Black][pt]).PopCount()
}

// NonPawnMaterial returns the summed material value of c's pieces
// excluding pawns and king.
func (p *Position) NonPawnMaterial(c Color) int {
	total := 0
	for pt := Knight; pt <= Queen; pt++ {
		total += p.Pieces[c][pt].PopCount() * PieceValue[pt]
	}
	return total
}

// NonPawnMaterialAll returns the non-pawn material of both sides combined.
func (p *Position) NonPawnMaterialAll() int {
	return p.NonPawnMaterial(White) + p.NonPawnMaterial(Black)
}

// CanCastle reports whether the given right is still held.
func (p *Position) CanCastle(cr CastlingRights) bool {
	return p.CastlingRights&cr != 0
}

// CastlingImpeded reports whether the path between king and rook of the
// given right is obstructed.
func (p *Position) CastlingImpeded(cr CastlingRights) bool {
	return p.AllOccupied&castlingPath[cr] != 0
}

// CastlingRookSquare returns the rook's starting square for a right.
func (p *Position) CastlingRookSquare(cr CastlingRights) Square {
	return castlingRook[cr]
}

// Legal decides whether a single pseudo-legal move is fully legal, i.e.
// does not leave the mover's king attacked. Moves must come from the
// generator: the target-set construction there is assumed.
func (p *Position) Legal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	ksq := p.KingSquare[us]

	if m.IsEnPassant() {
		// Both the capturing and the captured pawn leave their squares,
		// which can expose a rank attack no pin bitboard sees.
		capsq := to - 8
		if us == Black {
			capsq = to + 8
		}
		occupancy := (p.AllOccupied &^ SquareBB(from) &^ SquareBB(capsq)) | SquareBB(to)
		return RookAttacks(ksq, occupancy)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) == 0 &&
			BishopAttacks(ksq, occupancy)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) == 0
	}

	if m.IsCastling() {
		// The king may not castle out of, through, or into check. The
		// generator only emits castling when not in check, so walking the
		// king's path up to but excluding the origin covers it.
		kto := m.KingTo()
		step := 1
		if kto > from {
			step = -1
		}
		for s := int(kto); s != int(from); s += step {
			if p.AttackersByColor(Square(s), them, p.AllOccupied) != 0 {
				return false
			}
		}
		return true
	}

	if from == ksq {
		// King steps: the destination must be safe with the king removed
		// from the occupancy, so sliding attacks through it count.
		return p.AttackersByColor(to, them, p.AllOccupied&^SquareBB(from)) == 0
	}

	// Everything else is legal unless the piece is pinned and leaves its
	// pin ray.
	return p.BlockersForKing(us)&SquareBB(from) == 0 || Aligned(from, to, ksq)
}

// UndoInfo snapshots the position state restored by UnmakeMove.
type UndoInfo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
}

// MakeMove applies a pseudo-legal move and returns the information needed
// to undo it. Callers are responsible for legality; use Legal or generate
// with the Legal mode first.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		Captured:       NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
	}

	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsCastling() {
		kto, rto := m.KingTo(), m.RookTo()
		p.movePiece(NewPiece(King, us), from, kto)
		p.movePiece(NewPiece(Rook, us), to, rto)
		p.Hash ^= zobristPiece[us][King][from] ^ zobristPiece[us][King][kto]
		p.Hash ^= zobristPiece[us][Rook][to] ^ zobristPiece[us][Rook][rto]
		p.HalfMoveClock++
	} else {
		piece := p.PieceAt(from)
		pt := piece.Type()

		if m.IsEnPassant() {
			capsq := to - 8
			if us == Black {
				capsq = to + 8
			}
			undo.Captured = NewPiece(Pawn, them)
			p.removePiece(undo.Captured, capsq)
			p.Hash ^= zobristPiece[them][Pawn][capsq]
		} else if captured := p.PieceAt(to); captured != NoPiece {
			undo.Captured = captured
			p.removePiece(captured, to)
			p.Hash ^= zobristPiece[them][captured.Type()][to]
		}

		p.movePiece(piece, from, to)
		p.Hash ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]

		if m.IsPromotion() {
			promo := m.Promotion()
			p.Pieces[us][Pawn] &^= SquareBB(to)
			p.Pieces[us][promo] |= SquareBB(to)
			p.Hash ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promo][to]
		}

		// A double push only creates an en passant square when an enemy
		// pawn can actually capture; this keeps the generator's en
		// passant invariant intact.
		if pt == Pawn && abs(int(to)-int(from)) == 16 {
			epSq := Square((int(from) + int(to)) / 2)
			if pawnAttacks[us][epSq]&p.Pieces[them][Pawn] != 0 {
				p.EnPassant = epSq
				p.Hash ^= zobristEnPassant[epSq.File()]
			}
		}

		if pt == Pawn || undo.Captured != NoPiece {
			p.HalfMoveClock = 0
		} else {
			p.HalfMoveClock++
		}
	}

	p.CastlingRights &^= castlingRightsMask[from] | castlingRightsMask[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	p.UpdateCheckers()

	return undo
}

// UnmakeMove restores the position saved in undo.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.SideToMove = p.SideToMove.Other()
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	if p.SideToMove == Black {
		p.FullMoveNumber--
	}
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return NewMoveList(p, Legal).Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// Validate performs basic sanity checks on the position.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("each side must have exactly one king")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on the first or eighth rank")
	}
	return nil
}

// String renders the position as a board diagram with state fields.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Rule 50: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
