package board

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// legalMoveStrings returns the sorted UCI strings of our legal moves.
func legalMoveStrings(pos *Position) []string {
	ml := NewMoveList(pos, Legal)
	moves := make([]string, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		moves = append(moves, ml.Get(i).String())
	}
	sort.Strings(moves)
	return moves
}

func oracleMoveStrings(b *dragontoothmg.Board) []string {
	legal := b.GenerateLegalMoves()
	moves := make([]string, 0, len(legal))
	for _, m := range legal {
		moves = append(moves, m.String())
	}
	sort.Strings(moves)
	return moves
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLegalMovesAgainstOracle compares our legal move sets against an
// independent move generator over a suite of tricky positions.
func TestLegalMovesAgainstOracle(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
		"8/8/8/8/k2Pp2Q/8/8/4K3 b - d3 0 1",
		"4k3/3n4/8/1B6/8/8/8/4K3 b - - 0 1",
		"r3k3/8/5N2/8/8/8/8/K3R3 b - - 0 1",
		"1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"8/P6k/8/8/8/8/p6K/8 w - - 0 1",
		"r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1",
	}

	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		oracle := dragontoothmg.ParseFen(fen)

		got := legalMoveStrings(pos)
		want := oracleMoveStrings(&oracle)
		if !equalStrings(got, want) {
			t.Errorf("%s:\n  got  %v\n  want %v", fen, got, want)
		}
	}
}

// TestOracleWalk plays every legal move to depth 2 and compares the
// resulting move sets, covering state updates after make.
func TestOracleWalk(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}

	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		oracle := dragontoothmg.ParseFen(fen)
		compareToDepth(t, pos, &oracle, 2)
	}
}

func compareToDepth(t *testing.T, pos *Position, oracle *dragontoothmg.Board, depth int) {
	t.Helper()

	got := legalMoveStrings(pos)
	want := oracleMoveStrings(oracle)
	if !equalStrings(got, want) {
		t.Errorf("%s:\n  got  %v\n  want %v", pos.ToFEN(), got, want)
		return
	}
	if depth <= 1 {
		return
	}

	oracleMoves := oracle.GenerateLegalMoves()
	ml := NewMoveList(pos, Legal)
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		var matched bool
		for _, om := range oracleMoves {
			if om.String() != m.String() {
				continue
			}
			matched = true
			undo := pos.MakeMove(m)
			unapply := oracle.Apply(om)
			compareToDepth(t, pos, oracle, depth-1)
			unapply()
			pos.UnmakeMove(m, undo)
			break
		}
		if !matched {
			t.Errorf("%s: move %s has no oracle counterpart", pos.ToFEN(), m)
		}
	}
}
