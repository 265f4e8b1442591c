package notation

import (
	"errors"
	"testing"

	"github.com/notnil/chess"

	"github.com/hailam/chessline/internal/board"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		text string
		want string // UCI
	}{
		{"uci", board.StartFEN, "g1f3", "g1f3"},
		{"uci upper case", board.StartFEN, "E2E4", "e2e4"},
		{"san pawn", board.StartFEN, "e4", "e2e4"},
		{"san knight", board.StartFEN, "Nf3", "g1f3"},
		{"san castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "O-O", "e1g1"},
		{"san castle zeros", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "0-0-0", "e1c1"},
		{"san en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "exf6", "e5f6"},
		{"san promotion with check", "7k/P7/8/8/8/8/8/4K3 w - - 0 1", "a8=Q+", "a7a8q"},
		{"san mate without suffix", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "Qh4", "d8h4"},
		{"san mate written as check", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "Qh4+", "d8h4"},
		{"san disambiguated", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "Nbd2", "b1d2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := board.MustParseFEN(tc.fen)
			m, err := ParseMove(pos, tc.text)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.text, err)
			}
			if m.String() != tc.want {
				t.Errorf("ParseMove(%q) = %v, want %s", tc.text, m, tc.want)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		text string
		want error
	}{
		{"empty", board.StartFEN, "", ErrIllegalMove},
		{"illegal uci", board.StartFEN, "e2e5", ErrIllegalMove},
		{"illegal san", board.StartFEN, "Qh5", ErrIllegalMove},
		{"garbage", board.StartFEN, "hello", ErrIllegalMove},
		{"ambiguous knight", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "Nd2", ErrAmbiguous},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := board.MustParseFEN(tc.fen)
			_, err := ParseMove(pos, tc.text)
			if !errors.Is(err, tc.want) {
				t.Errorf("ParseMove(%q) error = %v, want %v", tc.text, err, tc.want)
			}
		})
	}
}

func TestToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		{"pawn push", board.StartFEN, "e2e4", "e4"},
		{"knight", board.StartFEN, "g1f3", "Nf3"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"rank disambiguation", "4k3/8/8/8/R7/8/8/R3K3 w - - 0 1", "a1a2", "R1a2"},
		{"pawn capture", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", "exf6"},
		{"promotion check", "7k/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", "a8=Q+"},
		{"under-promotion", "7k/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8n", "a8=N"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := board.MustParseFEN(tc.fen)
			m, err := board.ParseMove(tc.uci, pos)
			if err != nil {
				t.Fatal(err)
			}
			if got := ToSAN(pos, m); got != tc.want {
				t.Errorf("ToSAN(%s) = %q, want %q", tc.uci, got, tc.want)
			}
		})
	}
}

// TestToSANMatchesNotnil encodes every legal move of a busy position and
// compares the result with notnil/chess.
func TestToSANMatchesNotnil(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos := board.MustParseFEN(fen)

	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	game := chess.NewGame(opt)
	ref := make(map[string]string)
	for _, mv := range game.ValidMoves() {
		ref[mv.String()] = chess.AlgebraicNotation{}.Encode(game.Position(), mv)
	}

	moves, _ := pos.GetMoves(false)
	if len(moves) != len(ref) {
		t.Fatalf("%d legal moves, notnil has %d", len(moves), len(ref))
	}
	for _, m := range moves {
		want, ok := ref[m.String()]
		if !ok {
			t.Errorf("notnil has no move %v", m)
			continue
		}
		if got := ToSAN(pos, m); got != want {
			t.Errorf("ToSAN(%v) = %q, notnil says %q", m, got, want)
		}
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := board.NewPosition()
	var moves []board.Move
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		p := pos.Copy()
		for _, m := range moves {
			p.Execute(m)
		}
		m, err := board.ParseMove(uci, p)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, m)
	}

	got := MovesToSAN(pos, moves)
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %q, want %q", i, got[i], want[i])
		}
	}
	if pos.FullMoveNumber() != 1 {
		t.Error("MovesToSAN modified its input position")
	}
}

func TestOpeningName(t *testing.T) {
	pos := board.NewPosition()
	if err := pos.MakeMoves("e2e4", "e7e6"); err != nil {
		t.Fatal(err)
	}
	name := OpeningName(pos.History())
	t.Log("opening:", name)
	if name == "" {
		t.Error("no opening found for 1.e4 e6")
	}
	if OpeningName(nil) != "" {
		t.Error("empty history has an opening name")
	}
}
