package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a position from a FEN string. The half-move clock and
// full-move number may be omitted and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: need at least 4 fields, got %d", fen, len(fields))
	}

	pos := &Position{EnPassant: NoSquare}

	rank := 7
	file := 0
	for _, ch := range fields[0] {
		switch {
		case ch == '/':
			if file != 8 {
				return nil, fmt.Errorf("fen %q: rank %d has %d files", fen, rank+1, file)
			}
			rank--
			file = 0
			if rank < 0 {
				return nil, fmt.Errorf("fen %q: too many ranks", fen)
			}
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
			if file > 8 {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, rank+1)
			}
		default:
			piece := PieceFromChar(byte(ch))
			if piece == NoPiece {
				return nil, fmt.Errorf("fen %q: bad piece char %q", fen, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, rank+1)
			}
			pos.Pieces[piece.Color()][piece.Type()] |= SquareBB(NewSquare(file, rank))
			file++
		}
	}
	if rank != 0 || file != 8 {
		return nil, fmt.Errorf("fen %q: incomplete placement", fen)
	}
	pos.updateOccupied()

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.CastlingRights |= WhiteKingSide
			case 'Q':
				pos.CastlingRights |= WhiteQueenSide
			case 'k':
				pos.CastlingRights |= BlackKingSide
			case 'q':
				pos.CastlingRights |= BlackQueenSide
			default:
				return nil, fmt.Errorf("fen %q: bad castling char %q", fen, ch)
			}
		}
	}
	// Drop rights whose king or rook is not on its home square.
	for _, cr := range []CastlingRights{WhiteKingSide, WhiteQueenSide, BlackKingSide, BlackQueenSide} {
		if pos.CastlingRights&cr == 0 {
			continue
		}
		c := White
		if cr&(BlackKingSide|BlackQueenSide) != 0 {
			c = Black
		}
		home := E1
		if c == Black {
			home = E8
		}
		rook := castlingRook[cr]
		if pos.KingSquare[c] != home || pos.Pieces[c][Rook]&SquareBB(rook) == 0 {
			pos.CastlingRights &^= cr
		}
	}

	if fields[3] != "-" {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: bad en passant square: %w", fen, err)
		}
		us := pos.SideToMove
		them := us.Other()
		wantRank := 5
		if us == Black {
			wantRank = 2
		}
		// The square is only kept when an en passant capture is actually
		// possible: a capturing pawn attacks it, the captured pawn sits
		// behind it, and the square itself plus the pushing pawn's origin
		// are empty.
		capsq := ep - 8
		origin := ep + 8
		if us == Black {
			capsq = ep + 8
			origin = ep - 8
		}
		if ep.Rank() == wantRank &&
			pawnAttacks[them][ep]&pos.Pieces[us][Pawn] != 0 &&
			pos.Pieces[them][Pawn]&SquareBB(capsq) != 0 &&
			pos.AllOccupied&(SquareBB(ep)|SquareBB(origin)) == 0 {
			pos.EnPassant = ep
		}
	}

	pos.HalfMoveClock = 0
	pos.FullMoveNumber = 1
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("fen %q: bad half-move clock %q", fen, fields[4])
		}
		pos.HalfMoveClock = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("fen %q: bad full-move number %q", fen, fields[5])
		}
		pos.FullMoveNumber = n
	}

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("fen %q: %w", fen, err)
	}

	pos.Hash = pos.ComputeHash()
	pos.UpdateCheckers()
	return pos, nil
}

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
