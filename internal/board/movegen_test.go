package board

import (
	"slices"
	"testing"
)

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	slices.Sort(out)
	return out
}

func hasMove(moves []Move, uci string) bool {
	for _, m := range moves {
		if m.String() == uci {
			return true
		}
	}
	return false
}

func TestPinnedPieces(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		from    Square
		allowed []string // every legal move of the pinned piece
	}{
		{
			name:    "knight pinned on file cannot move",
			fen:     "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1",
			from:    E2,
			allowed: nil,
		},
		{
			name:    "rook pinned on file slides along it",
			fen:     "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
			from:    E2,
			allowed: []string{"e2e3", "e2e4", "e2e5", "e2e6", "e2e7"},
		},
		{
			name:    "bishop pinned on diagonal captures pinner",
			fen:     "4k3/8/8/8/7b/8/5B2/4K3 w - - 0 1",
			from:    F2,
			allowed: []string{"f2g3", "f2h4"},
		},
		{
			name:    "pawn pinned on diagonal may only capture pinner",
			fen:     "4k3/8/8/8/8/5b2/4P3/3K4 w - - 0 1",
			from:    E2,
			allowed: []string{"e2f3"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			moves, inCheck := pos.GetMoves(false)
			if inCheck {
				t.Fatal("unexpected check")
			}
			var got []Move
			for _, m := range moves {
				if m.From == tc.from {
					got = append(got, m)
				}
			}
			want := slices.Clone(tc.allowed)
			slices.Sort(want)
			if !slices.Equal(moveStrings(got), want) {
				t.Errorf("moves from %v = %v, want %v", tc.from, moveStrings(got), want)
			}
		})
	}
}

func TestEnPassantLegality(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  string
		legal bool
	}{
		{
			// d5 is the only piece between the a8 bishop and the h1 king
			name:  "captured pawn shields king on diagonal",
			fen:   "b6k/8/8/3pP3/8/8/8/7K w - d6 0 1",
			move:  "e5d6",
			legal: false,
		},
		{
			name:  "capture removes checking pawn",
			fen:   "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
			move:  "e4d3",
			legal: true,
		},
		{
			name:  "both pawns shield king on rank",
			fen:   "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
			move:  "e4d3",
			legal: false,
		},
		{
			// Another black piece still blocks the rank after the capture
			name:  "third blocker keeps rank closed",
			fen:   "8/8/8/8/kn1Pp2R/8/8/4K3 b - d3 0 1",
			move:  "e4d3",
			legal: true,
		},
		{
			name:  "plain en passant",
			fen:   "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
			move:  "e5f6",
			legal: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			moves, _ := pos.GetMoves(false)
			if got := hasMove(moves, tc.move); got != tc.legal {
				t.Errorf("%s legal = %v, want %v; moves %v", tc.move, got, tc.legal, moveStrings(moves))
			}
		})
	}
}

func TestCastlingLegality(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"both available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"king in check", "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1", false, false},
		{"f1 attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"g1 attacked", "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"b1 attacked is fine", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
		{"d1 attacked", "3rk3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, false},
		{"b1 occupied", "4k3/8/8/8/8/8/8/RN2K2R w KQ - 0 1", true, false},
		{"no rights", "4k3/8/8/8/8/8/8/R3K2R w - - 0 1", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			moves, _ := pos.GetMoves(false)
			if got := hasMove(moves, "e1g1"); got != tc.kingside {
				t.Errorf("O-O legal = %v, want %v", got, tc.kingside)
			}
			if got := hasMove(moves, "e1c1"); got != tc.queenside {
				t.Errorf("O-O-O legal = %v, want %v", got, tc.queenside)
			}
		})
	}
}

func TestKingCannotRetreatAlongCheckLine(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	moves, inCheck := pos.GetMoves(false)
	if !inCheck {
		t.Fatal("expected check from the a1 rook")
	}
	for _, bad := range []string{"e1d1", "e1f1"} {
		if hasMove(moves, bad) {
			t.Errorf("%s stays on the rook's line", bad)
		}
	}
	for _, good := range []string{"e1d2", "e1e2", "e1f2"} {
		if !hasMove(moves, good) {
			t.Errorf("%s missing from %v", good, moveStrings(moves))
		}
	}
}

func TestBlockingCheck(t *testing.T) {
	// Rook on a1 checks along the first rank. From b3 the knight can take it or interpose on c1.
	pos := MustParseFEN("4k3/8/8/8/8/1N6/8/r3K3 w - - 0 1")
	moves, _ := pos.GetMoves(false)
	for _, m := range moves {
		if m.From == B3 && m.To != A1 && m.To != C1 {
			t.Errorf("knight move %v does not resolve check", m)
		}
	}
	if !hasMove(moves, "b3a1") || !hasMove(moves, "b3c1") {
		t.Errorf("expected Nxa1 and Nc1 in %v", moveStrings(moves))
	}
}

func TestOnlyCaptures(t *testing.T) {
	pos := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	captures, _ := pos.GetMoves(true)
	all, _ := pos.GetMoves(false)

	var want []Move
	for _, m := range all {
		if m.IsCapture() {
			want = append(want, m)
		}
	}
	if len(captures) != 8 {
		t.Errorf("got %d captures, want 8: %v", len(captures), moveStrings(captures))
	}
	if !slices.Equal(moveStrings(captures), moveStrings(want)) {
		t.Errorf("GetMoves(true) = %v, want %v", moveStrings(captures), moveStrings(want))
	}
}

func TestPromotionOrder(t *testing.T) {
	pos := MustParseFEN("7k/P7/8/8/8/8/8/4K3 w - - 0 1")
	moves, _ := pos.GetMoves(false)
	var promos []PieceType
	for _, m := range moves {
		if m.IsPromotion() {
			promos = append(promos, m.Promotion)
		}
	}
	want := []PieceType{Queen, Rook, Bishop, Knight}
	if !slices.Equal(promos, want) {
		t.Errorf("promotion order = %v, want %v", promos, want)
	}
}

func TestGetMovesDoesNotMutate(t *testing.T) {
	pos := MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := pos.Copy()
	pos.GetMoves(false)
	pos.GetMoves(true)
	if !pos.Equal(before) {
		t.Error("GetMoves modified the position")
	}
}
