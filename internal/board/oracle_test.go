package board

import (
	"slices"
	"testing"

	"github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/dylhunn/dragontoothmg"
)

// Positions checked against independent move generators.
var oracleFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	"b6k/8/8/3pP3/8/8/8/7K w - d6 0 1",
}

// TestMovesMatchDragontooth compares the legal move set against
// dragontoothmg at the root and after every root move.
func TestMovesMatchDragontooth(t *testing.T) {
	for _, fen := range oracleFENs {
		t.Run(fen, func(t *testing.T) {
			pos := MustParseFEN(fen)
			ref := dragontoothmg.ParseFen(fen)
			compareWithDragontooth(t, pos, &ref, 2)
		})
	}
}

func compareWithDragontooth(t *testing.T, pos *Position, ref *dragontoothmg.Board, depth int) {
	t.Helper()

	ours, _ := pos.GetMoves(false)
	refMoves := ref.GenerateLegalMoves()
	theirs := make([]string, 0, len(refMoves))
	for _, m := range refMoves {
		theirs = append(theirs, m.String())
	}
	slices.Sort(theirs)

	if got := moveStrings(ours); !slices.Equal(got, theirs) {
		t.Fatalf("move mismatch in %s\nours:   %v\ntheirs: %v", pos.ToFEN(), got, theirs)
	}
	if depth <= 1 {
		return
	}

	for _, rm := range refMoves {
		m, err := ParseMove(rm.String(), pos)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", rm.String(), err)
		}
		saved := pos.Ancillary()
		pos.Execute(m)
		unapply := ref.Apply(rm)
		compareWithDragontooth(t, pos, ref, depth-1)
		unapply()
		pos.Undo(saved)
	}
}

// TestPerftMatchesGoose compares node counts with GooseEngineMG.
func TestPerftMatchesGoose(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, fen := range oracleFENs {
		t.Run(fen, func(t *testing.T) {
			ref, err := goosemg.ParseFEN(fen)
			if err != nil {
				t.Fatalf("goosemg.ParseFEN: %v", err)
			}
			pos := MustParseFEN(fen)
			if got, want := pos.Perft(depth), goosemg.Perft(ref, depth); got != want {
				t.Errorf("perft(%d) = %d, goosemg says %d", depth, got, want)
			}
		})
	}
}
