package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chessline/internal/board"
	"github.com/hailam/chessline/internal/storage"
)

func newTestGame(t *testing.T, mode GameMode, input string) (*Game, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	g, err := NewGame(Options{
		Depth: 1,
		Mode:  &mode,
		In:    strings.NewReader(input),
		Out:   &out,
	})
	if err != nil {
		t.Fatal(err)
	}
	return g, &out
}

func TestFoolsMate(t *testing.T) {
	g, out := newTestGame(t, ModeHumanVsHuman, "f3\ne5\ng4\nQh4#\n")
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}

	if !g.GameOver() {
		t.Fatal("Game is not over after fool's mate")
	}
	if g.GameResult() != "Black wins by checkmate!" {
		t.Errorf("GameResult = %q", g.GameResult())
	}
	if !strings.Contains(out.String(), "1. f3 e5 2. g4 Qh4#") {
		t.Errorf("Move list missing from screen:\n%s", out.String())
	}
}

func TestMovesInBothNotations(t *testing.T) {
	g, _ := newTestGame(t, ModeHumanVsHuman, "")
	for _, in := range []string{"e2e4", "c5", "Nf3", "d7d6"} {
		g.HandleInput(in)
	}

	want := []string{"e4", "c5", "Nf3", "d6"}
	got := g.SANHistory()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("SANHistory = %v, want %v", got, want)
	}
	if name := g.Opening(); !strings.Contains(name, "Sicilian") {
		t.Errorf("Opening = %q, want a Sicilian", name)
	}
}

func TestIllegalMoveLeavesPosition(t *testing.T) {
	g, _ := newTestGame(t, ModeHumanVsHuman, "")
	g.HandleInput("e5")

	if g.Position().ToFEN() != board.StartFEN {
		t.Errorf("Illegal move changed the position: %s", g.Position().ToFEN())
	}
	if !strings.Contains(g.message, "illegal move") {
		t.Errorf("Message = %q", g.message)
	}
}

func TestUndo(t *testing.T) {
	g, _ := newTestGame(t, ModeHumanVsHuman, "")
	g.HandleInput("e4")
	afterE4 := g.Position().ToFEN()
	g.HandleInput("e5")
	g.HandleInput("undo")

	if got := g.Position().ToFEN(); got != afterE4 {
		t.Errorf("After undo got %s, want %s", got, afterE4)
	}
	if len(g.SANHistory()) != 1 {
		t.Errorf("SANHistory = %v", g.SANHistory())
	}

	g.HandleInput("undo")
	g.HandleInput("undo")
	if g.Position().ToFEN() != board.StartFEN {
		t.Errorf("Undo past the start changed the position")
	}
	if g.message != "Nothing to undo" {
		t.Errorf("Message = %q", g.message)
	}
}

func TestComputerReplies(t *testing.T) {
	g, _ := newTestGame(t, ModeHumanVsComputer, "e4\nquit\n")
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}

	if n := len(g.SANHistory()); n != 2 {
		t.Fatalf("Expected human move and reply, got %v", g.SANHistory())
	}
	if g.Position().SideToMove() != g.PlayerColor() {
		t.Error("Human is not to move after the computer replied")
	}

	// Undo takes back both the reply and the human move.
	g.HandleInput("undo")
	if g.Position().ToFEN() != board.StartFEN {
		t.Errorf("Undo against the computer left %s", g.Position().ToFEN())
	}
}

func TestComputerMovesFirstAsWhite(t *testing.T) {
	mode := ModeHumanVsComputer
	var out bytes.Buffer
	g, err := NewGame(Options{
		Depth:       1,
		Mode:        &mode,
		PlayerColor: "black",
		In:          strings.NewReader("quit\n"),
		Out:         &out,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}
	if len(g.SANHistory()) != 1 || g.Position().SideToMove() != board.Black {
		t.Errorf("Computer did not open the game: %v", g.SANHistory())
	}
	if !g.renderer.IsFlipped() {
		t.Error("Board not flipped for the black player")
	}
}

func TestComputerFindsMate(t *testing.T) {
	mode := ModeHumanVsComputer
	g, err := NewGame(Options{
		FEN:         "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1",
		Depth:       2,
		Mode:        &mode,
		PlayerColor: "black",
		In:          strings.NewReader(""),
		Out:         &bytes.Buffer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}
	if g.GameResult() != "White wins by checkmate!" {
		t.Errorf("GameResult = %q, history %v", g.GameResult(), g.SANHistory())
	}
}

func TestDrawDetection(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{"stalemate", "k7/8/8/2Q5/8/8/8/7K w - - 0 1", []string{"Qb6"}, "Draw by stalemate"},
		{"insufficient material", "k7/8/8/8/8/8/1r6/KN6 w - - 0 1", []string{"Kxb2"}, "Draw by insufficient material"},
		{"fifty moves", "k7/8/8/8/8/8/8/KR6 w - - 99 80", []string{"Rb2"}, "Draw by 50-move rule"},
		{"threefold", board.StartFEN, []string{"Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8"}, "Draw by threefold repetition"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGame(t, ModeHumanVsHuman, "")
			g.HandleInput("fen " + tc.fen)
			for _, m := range tc.moves {
				g.HandleInput(m)
				if g.message != "" {
					t.Fatalf("%s: %s", m, g.message)
				}
			}
			if g.GameResult() != tc.want {
				t.Errorf("GameResult = %q, want %q", g.GameResult(), tc.want)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	g, _ := newTestGame(t, ModeHumanVsHuman, "")

	g.HandleInput("fen")
	if g.message != board.StartFEN {
		t.Errorf("fen printed %q", g.message)
	}

	g.HandleInput("hint")
	if !strings.HasPrefix(g.message, "Hint: ") {
		t.Errorf("Message = %q", g.message)
	}

	g.HandleInput("flip")
	if !g.renderer.IsFlipped() {
		t.Error("flip did not flip the board")
	}

	g.HandleInput("level hard")
	if g.engine.Config().Depth != 5 {
		t.Errorf("level hard set depth %d", g.engine.Config().Depth)
	}
	g.HandleInput("level grandmaster")
	if !strings.Contains(g.message, "unknown difficulty") {
		t.Errorf("Message = %q", g.message)
	}

	g.HandleInput("mode")
	if g.Mode() != ModeHumanVsComputer || g.PlayerColor() != board.White {
		t.Errorf("mode toggle gave %v playing %v", g.Mode(), g.PlayerColor())
	}

	if !g.HandleInput("quit") {
		t.Error("quit did not end the game")
	}
}

func openTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResultsRecorded(t *testing.T) {
	store := openTestStore(t)

	mode := ModeHumanVsHuman
	g, err := NewGame(Options{
		Mode:    &mode,
		Storage: store,
		In:      strings.NewReader("f3\ne5\ng4\nQh4#\nnew\nf3\ne5\ng4\nQh4#\nquit\n"),
		Out:     &bytes.Buffer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 2 || stats.Losses != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	g.HandleInput("level easy")
	prefs, err := store.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Difficulty != "easy" {
		t.Errorf("Difficulty preference = %q", prefs.Difficulty)
	}
}

func TestUndoAfterMateRecordsOnce(t *testing.T) {
	store := openTestStore(t)

	mode := ModeHumanVsHuman
	g, err := NewGame(Options{
		Mode:    &mode,
		Storage: store,
		In:      strings.NewReader("f3\ne5\ng4\nQh4#\nundo\nQh4#\nquit\n"),
		Out:     &bytes.Buffer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}
	if !g.GameOver() {
		t.Fatal("Game is not over after replaying the mate")
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.Losses != 1 {
		t.Errorf("Replayed mate counted again: %+v", stats)
	}
}

func TestRenderPlain(t *testing.T) {
	r := NewRenderer(false, false)
	got := r.RenderBoard(board.NewPosition(), board.NoMove)
	want := `  +-----------------+
8 | r n b q k b n r |
7 | p p p p p p p p |
6 | . . . . . . . . |
5 | . . . . . . . . |
4 | . . . . . . . . |
3 | . . . . . . . . |
2 | P P P P P P P P |
1 | R N B Q K B N R |
  +-----------------+
    a b c d e f g h
`
	if got != want {
		t.Errorf("RenderBoard:\n%s\nwant:\n%s", got, want)
	}

	r.SetFlipped(true)
	lines := strings.Split(r.RenderBoard(board.NewPosition(), board.NoMove), "\n")
	if lines[1] != "1 | R N B K Q B N R |" || lines[10] != "    h g f e d c b a" {
		t.Errorf("Flipped board:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRenderColor(t *testing.T) {
	r := NewRenderer(true, true)
	out := r.RenderBoard(board.NewPosition(), board.NoMove)
	if !strings.Contains(out, "♔") || !strings.Contains(out, "\033[") {
		t.Errorf("Color board lacks glyphs or escapes:\n%s", out)
	}
}

func TestRenderMoves(t *testing.T) {
	tests := []struct {
		san   []string
		first int
		side  board.Color
		want  string
	}{
		{nil, 1, board.White, ""},
		{[]string{"e4"}, 1, board.White, "1. e4"},
		{[]string{"e4", "e5", "Nf3"}, 1, board.White, "1. e4 e5 2. Nf3"},
		{[]string{"Kd7", "Ra8"}, 40, board.Black, "40... Kd7 41. Ra8"},
	}
	for _, tc := range tests {
		if got := RenderMoves(tc.san, tc.first, tc.side); got != tc.want {
			t.Errorf("RenderMoves(%v) = %q, want %q", tc.san, got, tc.want)
		}
	}
}
