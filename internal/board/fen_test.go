package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4k3/8/8/8/8/8/8/4K3 b - - 42 99",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "8/8/8/8/8/8/8/8 w -"},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"overlong rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KX - 0 1"},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"no kings", "8/8/8/8/8/8/8/8 w - - 0 1"},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"pawn on first rank", "4k3/8/8/8/8/8/8/P3K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); err == nil {
				t.Errorf("ParseFEN(%q) succeeded, want error", tc.fen)
			}
		})
	}
}

// TestFENEnPassantValidation checks that the parser drops en passant
// squares that no pawn could capture on, keeping the generator's
// invariant that a recorded square always has an attacker.
func TestFENEnPassantValidation(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Square
	}{
		{
			"capturable",
			"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			D6,
		},
		{
			"no capturing pawn",
			"4k3/8/8/3p4/8/8/8/4K3 w - d6 0 1",
			NoSquare,
		},
		{
			"no captured pawn",
			"4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1",
			NoSquare,
		},
		{
			"wrong rank",
			"4k3/8/8/8/3pP3/8/8/4K3 w - d5 0 1",
			NoSquare,
		},
		{
			"black to move",
			"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
			E3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if pos.EnPassant != tc.want {
				t.Errorf("EnPassant = %s, want %s", pos.EnPassant, tc.want)
			}
		})
	}
}

// TestFENCastlingValidation checks that rights without the matching king
// or rook on its home square are dropped.
func TestFENCastlingValidation(t *testing.T) {
	// The white king sits on d1 and the black a-rook is missing.
	pos := mustParseFEN(t, "4k2r/8/8/8/8/8/8/R2K3R w KQkq - 0 1")
	if pos.CastlingRights != BlackKingSide {
		t.Errorf("CastlingRights = %v, want k only", pos.CastlingRights)
	}
}
