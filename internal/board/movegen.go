package board

import (
	"fmt"
	"sort"
)

// MaxMoves bounds the number of moves any chess position can have.
const MaxMoves = 256

// GenMode selects which subset of pseudo-legal moves to generate.
type GenMode int

const (
	// Captures generates all captures plus queen promotions.
	Captures GenMode = iota
	// Quiets generates all non-captures plus push under-promotions.
	Quiets
	// Evasions generates check evasions. Only valid while in check.
	Evasions
	// NonEvasions generates every pseudo-legal move. Only valid while
	// not in check.
	NonEvasions
	// Legal generates fully legal moves.
	Legal
)

func (m GenMode) String() string {
	switch m {
	case Captures:
		return "captures"
	case Quiets:
		return "quiets"
	case Evasions:
		return "evasions"
	case NonEvasions:
		return "non-evasions"
	case Legal:
		return "legal"
	}
	return fmt.Sprintf("GenMode(%d)", int(m))
}

// ScoredMove pairs a move with an ordering score. Scores only matter for
// quiet minor and major piece moves; everything else carries zero.
type ScoredMove struct {
	Move  Move
	Score int
}

// MobilityParams holds the linear mobility bonus used to pre-order quiet
// moves, indexed knight, bishop, rook, queen. Lower scores sort first.
type MobilityParams struct {
	Bonus [4]int
	Avg   [4]int
}

// DefaultMobility carries values taken from the old hand-crafted
// evaluation.
var DefaultMobility = MobilityParams{
	Bonus: [4]int{546, 297, 324, 132},
	Avg:   [4]int{2311, 1113, 1459, 1201},
}

// MoveList is a fixed-capacity move buffer filled once at construction
// and read-only afterward.
type MoveList struct {
	moves        [MaxMoves]ScoredMove
	count        int
	kingPawnMove bool
}

// NewMoveList generates moves for the given mode with default mobility
// parameters and no threat information.
func NewMoveList(pos *Position, mode GenMode) *MoveList {
	return NewMoveListThreats(pos, mode, 0)
}

// NewMoveListThreats generates moves for the given mode. The threats
// bitboard marks enemy-attacked squares; a king move only counts toward
// HasKingOrPawnMove when its destination is not threatened.
func NewMoveListThreats(pos *Position, mode GenMode, threats Bitboard) *MoveList {
	ml := &MoveList{}
	gen := mode
	if mode == Legal {
		gen = NonEvasions
		if pos.InCheck() {
			gen = Evasions
		}
	}
	ml.kingPawnMove = Generate(pos, gen, threats, DefaultMobility, func(m Move, score int) {
		ml.moves[ml.count] = ScoredMove{Move: m, Score: score}
		ml.count++
	})
	if mode == Legal {
		ml.filterLegal(pos)
	}
	return ml
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the i-th move.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i].Move
}

// Scored returns the i-th move with its ordering score.
func (ml *MoveList) Scored(i int) ScoredMove {
	return ml.moves[i]
}

// Contains reports whether the list holds the given move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Move == m {
			return true
		}
	}
	return false
}

// HasKingOrPawnMove reports whether generation produced at least one pawn
// move, castling move, or king move to an unthreatened square.
func (ml *MoveList) HasKingOrPawnMove() bool {
	return ml.kingPawnMove
}

// Sort orders the list ascending by score. Moves with equal scores keep
// their generation order.
func (ml *MoveList) Sort() {
	moves := ml.moves[:ml.count]
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score < moves[j].Score
	})
}

// filterLegal removes moves that do not survive full legality checking.
// Only pinned movers, king moves, and en passant captures need the
// expensive check; everything else is legal from how its target set was
// built. Removal swaps in the last entry, so surviving order may differ
// from generation order.
func (ml *MoveList) filterLegal(pos *Position) {
	us := pos.SideToMove
	pinned := pos.BlockersForKing(us) & pos.Occupied[us]
	ksq := pos.KingSquare[us]

	for i := 0; i < ml.count; {
		m := ml.moves[i].Move
		if (pinned&SquareBB(m.From()) != 0 || m.From() == ksq || m.IsEnPassant()) &&
			!pos.Legal(m) {
			ml.count--
			ml.moves[i] = ml.moves[ml.count]
		} else {
			i++
		}
	}
}

// Generate appends every pseudo-legal move for the given mode to the
// sink, with ordering scores for quiet piece moves, and reports whether
// any emitted move is a pawn move, a castling move, or a king move to a
// square outside threats. The Legal mode is not supported here; use
// MoveList for it.
//
// Generate panics unless (mode == Evasions) matches being in check.
func Generate(pos *Position, mode GenMode, threats Bitboard, params MobilityParams, sink func(m Move, score int)) bool {
	if mode == Legal {
		panic("board: Generate does not support the Legal mode")
	}
	if (mode == Evasions) != pos.InCheck() {
		panic(fmt.Sprintf("board: %v generation with checkers %016x", mode, uint64(pos.Checkers)))
	}
	g := generator{pos: pos, mode: mode, threats: threats, params: params, sink: sink}
	g.run()
	return g.kingPawnMove
}

type generator struct {
	pos          *Position
	mode         GenMode
	threats      Bitboard
	params       MobilityParams
	sink         func(Move, int)
	kingPawnMove bool
}

func (g *generator) run() {
	pos := g.pos
	us := pos.SideToMove
	ksq := pos.KingSquare[us]

	var target Bitboard

	// Double check allows king moves only.
	if g.mode != Evasions || !pos.Checkers.More() {
		switch g.mode {
		case Evasions:
			checker := pos.Checkers.LSB()
			target = Between(ksq, checker) | pos.Checkers
		case NonEvasions:
			target = ^pos.Occupied[us]
		case Captures:
			target = pos.Occupied[us.Other()]
		case Quiets:
			target = ^pos.AllOccupied
		}

		g.pawnMoves(target)
		g.pieceMoves(Knight, target)
		g.pieceMoves(Bishop, target)
		g.pieceMoves(Rook, target)
		g.pieceMoves(Queen, target)
	}

	kingTargets := kingAttacks[ksq]
	if g.mode == Evasions {
		kingTargets &= ^pos.Occupied[us]
	} else {
		kingTargets &= target
	}
	for kingTargets != 0 {
		to := kingTargets.PopLSB()
		if g.threats == 0 || g.threats&SquareBB(to) == 0 {
			g.kingPawnMove = true
		}
		g.sink(NewMove(ksq, to), 0)
	}

	if (g.mode == Quiets || g.mode == NonEvasions) && pos.CastlingRights&CastlingRightsOf(us) != 0 {
		for _, cr := range [2]CastlingRights{KingSideRight(us), QueenSideRight(us)} {
			if pos.CanCastle(cr) && !pos.CastlingImpeded(cr) {
				g.kingPawnMove = true
				g.sink(NewCastling(ksq, pos.CastlingRookSquare(cr)), 0)
			}
		}
	}
}

// pawn emits a pawn move and records it in the king-or-pawn flag.
func (g *generator) pawn(m Move) {
	g.kingPawnMove = true
	g.sink(m, 0)
}

// promotions emits the promotions reachable on to for the current mode.
// Queen promotions belong to Captures, under-promotions to the capture
// side of Captures or the push side of Quiets, so no move is produced by
// two different modes.
func (g *generator) promotions(from, to Square, enemyCapture bool) {
	all := g.mode == Evasions || g.mode == NonEvasions

	if g.mode == Captures || all {
		g.pawn(NewPromotion(from, to, Queen))
	}
	if (g.mode == Captures && enemyCapture) || (g.mode == Quiets && !enemyCapture) || all {
		g.pawn(NewPromotion(from, to, Rook))
		g.pawn(NewPromotion(from, to, Bishop))
		g.pawn(NewPromotion(from, to, Knight))
	}
}

func (g *generator) pawnMoves(target Bitboard) {
	pos := g.pos
	us := pos.SideToMove
	them := us.Other()

	up, upEast, upWest := 8, 9, 7
	rank7, rank3 := Rank7, Rank3
	if us == Black {
		up, upEast, upWest = -8, -9, -7
		rank7, rank3 = Rank2, Rank6
	}

	empty := ^pos.AllOccupied
	enemies := pos.Occupied[them]
	if g.mode == Evasions {
		enemies = pos.Checkers
	}

	pawnsOn7 := pos.Pieces[us][Pawn] & rank7
	pawnsNotOn7 := pos.Pieces[us][Pawn] &^ rank7

	// Single and double pushes, no promotions.
	if g.mode != Captures {
		b1 := shiftUp(pawnsNotOn7, us) & empty
		b2 := shiftUp(b1&rank3, us) & empty

		if g.mode == Evasions { // only blocking squares
			b1 &= target
			b2 &= target
		}

		for b1 != 0 {
			to := b1.PopLSB()
			g.pawn(NewMove(Square(int(to)-up), to))
		}
		for b2 != 0 {
			to := b2.PopLSB()
			g.pawn(NewMove(Square(int(to)-2*up), to))
		}
	}

	// Promotions and under-promotions.
	if pawnsOn7 != 0 {
		b1 := shiftUpEast(pawnsOn7, us) & enemies
		b2 := shiftUpWest(pawnsOn7, us) & enemies
		b3 := shiftUp(pawnsOn7, us) & empty

		if g.mode == Evasions {
			b3 &= target
		}

		for b1 != 0 {
			to := b1.PopLSB()
			g.promotions(Square(int(to)-upEast), to, true)
		}
		for b2 != 0 {
			to := b2.PopLSB()
			g.promotions(Square(int(to)-upWest), to, true)
		}
		for b3 != 0 {
			to := b3.PopLSB()
			g.promotions(Square(int(to)-up), to, false)
		}
	}

	// Standard and en passant captures.
	if g.mode == Captures || g.mode == Evasions || g.mode == NonEvasions {
		b1 := shiftUpEast(pawnsNotOn7, us) & enemies
		b2 := shiftUpWest(pawnsNotOn7, us) & enemies

		for b1 != 0 {
			to := b1.PopLSB()
			g.pawn(NewMove(Square(int(to)-upEast), to))
		}
		for b2 != 0 {
			to := b2.PopLSB()
			g.pawn(NewMove(Square(int(to)-upWest), to))
		}

		if ep := pos.EnPassant; ep != NoSquare {
			// An en passant capture cannot resolve a discovered check:
			// blocking on the square behind the captured pawn is
			// impossible once that pawn is gone.
			if g.mode == Evasions && target&SquareBB(Square(int(ep)+up)) != 0 {
				return
			}

			attackers := pawnsNotOn7 & pawnAttacks[them][ep]
			if attackers == 0 {
				panic("board: en passant square with no attacking pawn")
			}
			for attackers != 0 {
				g.pawn(NewEnPassant(attackers.PopLSB(), ep))
			}
		}
	}
}

func (g *generator) pieceMoves(pt PieceType, target Bitboard) {
	pos := g.pos
	us := pos.SideToMove

	pieces := pos.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		attacks := pieceAttacks(pt, from, pos.AllOccupied)

		// Quiet moves are pre-ordered by the full mobility of the moved
		// piece, before target intersection. Ascending sort then tries
		// pieces with little to do first.
		score := 0
		if g.mode == Quiets {
			idx := int(pt - Knight)
			score = g.params.Avg[idx] - g.params.Bonus[idx]*attacks.PopCount()
		}

		attacks &= target
		for attacks != 0 {
			g.sink(NewMove(from, attacks.PopLSB()), score)
		}
	}
}

func pieceAttacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	}
	panic(fmt.Sprintf("board: pieceAttacks called with %v", pt))
}

func shiftUp(b Bitboard, c Color) Bitboard {
	if c == White {
		return b.North()
	}
	return b.South()
}

func shiftUpEast(b Bitboard, c Color) Bitboard {
	if c == White {
		return b.NorthEast()
	}
	return b.SouthWest()
}

func shiftUpWest(b Bitboard, c Color) Bitboard {
	if c == White {
		return b.NorthWest()
	}
	return b.SouthEast()
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(pos *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	ml := NewMoveList(pos, Legal)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}
