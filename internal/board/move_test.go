package board

import "testing"

func TestMoveEncoding(t *testing.T) {
	m := NewMove(E2, E4)
	if m.From() != E2 || m.To() != E4 {
		t.Errorf("NewMove: from %s to %s", m.From(), m.To())
	}
	if m.IsPromotion() || m.IsEnPassant() || m.IsCastling() {
		t.Error("normal move reports a special flag")
	}

	p := NewPromotion(A7, A8, Knight)
	if !p.IsPromotion() || p.Promotion() != Knight {
		t.Errorf("promotion flag/type wrong for %s", p)
	}

	ep := NewEnPassant(E5, D6)
	if !ep.IsEnPassant() || ep.From() != E5 || ep.To() != D6 {
		t.Errorf("en passant encoding wrong for %s", ep)
	}
}

func TestCastlingEncoding(t *testing.T) {
	tests := []struct {
		move   Move
		kingTo Square
		rookTo Square
		uci    string
	}{
		{NewCastling(E1, H1), G1, F1, "e1g1"},
		{NewCastling(E1, A1), C1, D1, "e1c1"},
		{NewCastling(E8, H8), G8, F8, "e8g8"},
		{NewCastling(E8, A8), C8, D8, "e8c8"},
	}

	for _, tc := range tests {
		if !tc.move.IsCastling() {
			t.Errorf("%s: castling flag not set", tc.uci)
		}
		if got := tc.move.KingTo(); got != tc.kingTo {
			t.Errorf("%s: KingTo() = %s, want %s", tc.uci, got, tc.kingTo)
		}
		if got := tc.move.RookTo(); got != tc.rookTo {
			t.Errorf("%s: RookTo() = %s, want %s", tc.uci, got, tc.rookTo)
		}
		if got := tc.move.String(); got != tc.uci {
			t.Errorf("String() = %q, want %q", got, tc.uci)
		}
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		move Move
		want string
	}{
		{NewMove(E2, E4), "e2e4"},
		{NewPromotion(E7, E8, Queen), "e7e8q"},
		{NewPromotion(A2, B1, Knight), "a2b1n"},
		{NewEnPassant(E5, D6), "e5d6"},
		{NoMove, "0000"},
	}

	for _, tc := range tests {
		if got := tc.move.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseMove(t *testing.T) {
	t.Run("castling from context", func(t *testing.T) {
		pos := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		m, err := ParseMove("e1g1", pos)
		if err != nil {
			t.Fatalf("ParseMove: %v", err)
		}
		if m != NewCastling(E1, H1) {
			t.Errorf("got %v, want castling e1h1", m)
		}
	})

	t.Run("en passant from context", func(t *testing.T) {
		pos := mustParseFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
		m, err := ParseMove("e5d6", pos)
		if err != nil {
			t.Fatalf("ParseMove: %v", err)
		}
		if !m.IsEnPassant() {
			t.Error("en passant capture parsed as normal move")
		}
	})

	t.Run("promotion", func(t *testing.T) {
		pos := mustParseFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
		m, err := ParseMove("a7a8q", pos)
		if err != nil {
			t.Fatalf("ParseMove: %v", err)
		}
		if m != NewPromotion(A7, A8, Queen) {
			t.Errorf("got %v, want a7a8q", m)
		}
	})

	t.Run("errors", func(t *testing.T) {
		pos := NewPosition()
		for _, s := range []string{"", "e2", "e2e9", "e2e4x", "e3e4"} {
			if _, err := ParseMove(s, pos); err == nil {
				t.Errorf("ParseMove(%q) succeeded, want error", s)
			}
		}
	})
}
