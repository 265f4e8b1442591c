// Package ui implements the interactive terminal chess game.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tm "github.com/buger/goterm"

	"github.com/hailam/chessline/internal/board"
	"github.com/hailam/chessline/internal/engine"
	"github.com/hailam/chessline/internal/notation"
	"github.com/hailam/chessline/internal/storage"
)

// GameMode represents the current game mode.
type GameMode = storage.GameMode

const (
	ModeHumanVsHuman    = storage.ModeHumanVsHuman
	ModeHumanVsComputer = storage.ModeHumanVsComputer
)

// Options configures a new game. Zero values select the stored
// preferences, or the defaults when there is no storage.
type Options struct {
	FEN         string           // Starting position, the standard one if empty
	Depth       int              // Search depth, overrides the difficulty preset if > 0
	PlayerColor string           // "white" or "black", empty for the stored preference
	Mode        *GameMode        // Nil for the stored preference
	Storage     *storage.Storage // Optional preference and statistics store

	In       io.Reader // Defaults to os.Stdin
	Out      io.Writer // Defaults to os.Stdout
	Terminal bool      // Redraw the whole screen with ANSI colors
}

// Game is a terminal chess game between a human and the engine or two humans.
type Game struct {
	// Core game state
	position       *board.Position
	startFEN       string
	firstMove      int
	firstSide      board.Color
	sanHistory     []string
	undoHistory    []board.UndoInfo
	positionHashes []uint64 // History of position hashes for repetition detection
	lastMove       board.Move

	// Game settings
	mode        GameMode
	difficulty  engine.Difficulty
	playerColor board.Color

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences

	// Components
	renderer *Renderer
	engine   *engine.Engine

	// I/O
	in       *bufio.Scanner
	out      io.Writer
	terminal bool
	message  string

	// Game state
	gameOver   bool
	gameResult string
	winner     board.Color
	startTime  time.Time
	recorded   bool
}

// NewGame creates a new chess game.
func NewGame(opts Options) (*Game, error) {
	g := &Game{
		storage:  opts.Storage,
		terminal: opts.Terminal,
		out:      opts.Out,
	}
	if g.out == nil {
		g.out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	g.in = bufio.NewScanner(in)

	g.loadPreferences()

	cfg := engine.DefaultConfig()
	cfg.Depth = engine.DifficultySettings[g.difficulty]
	if opts.Depth > 0 {
		cfg.Depth = opts.Depth
	}
	if g.prefs.QuiescenceDepth > 0 {
		cfg.MaxQuiescenceDepth = g.prefs.QuiescenceDepth
	}
	g.engine = engine.NewEngine(cfg)
	g.renderer = NewRenderer(opts.Terminal, g.prefs.UnicodeGlyphs)

	if opts.Mode != nil {
		g.mode = *opts.Mode
	}
	switch strings.ToLower(opts.PlayerColor) {
	case "":
	case "white", "w":
		g.playerColor = board.White
	case "black", "b":
		g.playerColor = board.Black
	default:
		return nil, fmt.Errorf("unknown color %q", opts.PlayerColor)
	}
	g.renderer.SetFlipped(g.playerColor == board.Black)

	fen := opts.FEN
	if fen == "" {
		fen = board.StartFEN
	}
	if err := g.reset(fen); err != nil {
		return nil, err
	}
	return g, nil
}

// loadPreferences applies stored preferences, falling back to defaults.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage != nil {
		prefs, err := g.storage.LoadPreferences()
		if err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			g.prefs = prefs
		}
	}

	g.mode = g.prefs.GameMode
	d, err := engine.ParseDifficulty(g.prefs.Difficulty)
	if err != nil {
		d = engine.Medium
	}
	g.difficulty = d
	g.playerColor = board.White
	if g.prefs.PlayerColor == storage.ColorBlack {
		g.playerColor = board.Black
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.Difficulty = g.difficulty.String()
	g.prefs.GameMode = g.mode
	g.prefs.UnicodeGlyphs = g.renderer.unicode
	g.prefs.PlayerColor = storage.ColorWhite
	if g.playerColor == board.Black {
		g.prefs.PlayerColor = storage.ColorBlack
	}

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// reset starts a new game from fen.
func (g *Game) reset(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	g.position = pos
	g.startFEN = pos.ToFEN()
	g.firstMove = pos.FullMoveNumber()
	g.firstSide = pos.SideToMove()
	g.sanHistory = nil
	g.undoHistory = nil
	g.positionHashes = []uint64{pos.Hash()}
	g.lastMove = board.NoMove
	g.gameOver = false
	g.gameResult = ""
	g.startTime = time.Now()
	g.checkGameEnd()
	return nil
}

// Run plays until the user quits or the input ends.
func (g *Game) Run() error {
	for {
		if g.isComputerTurn() {
			g.draw()
			g.playComputerMove()
			continue
		}

		g.draw()
		if !g.in.Scan() {
			return g.in.Err()
		}
		if quit := g.HandleInput(g.in.Text()); quit {
			return nil
		}
	}
}

func (g *Game) isComputerTurn() bool {
	return !g.gameOver && g.mode == ModeHumanVsComputer && g.position.SideToMove() != g.playerColor
}

// HandleInput processes one line of user input: a command or a move in
// UCI or SAN form. It returns true when the user asked to quit.
func (g *Game) HandleInput(line string) bool {
	line = strings.TrimSpace(line)
	g.message = ""
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true
	case "help":
		g.message = "moves: e4, Nf3, O-O, e7e8q | commands: undo, new, fen [FEN], flip, hint, level easy|medium|hard, mode, glyphs, stats, quit"
	case "undo":
		g.undo()
	case "new":
		if err := g.reset(g.startFEN); err != nil {
			g.message = err.Error()
		}
	case "fen":
		if len(fields) == 1 {
			g.message = g.position.ToFEN()
			break
		}
		if err := g.reset(strings.Join(fields[1:], " ")); err != nil {
			g.message = err.Error()
		}
	case "flip":
		g.renderer.SetFlipped(!g.renderer.IsFlipped())
	case "hint":
		g.hint()
	case "level":
		g.setLevel(fields[1:])
	case "mode":
		g.ToggleModeAction()
	case "glyphs":
		g.renderer.SetUnicode(!g.renderer.unicode)
		g.savePreferences()
	case "stats":
		g.showStats()
	default:
		if g.gameOver {
			g.message = "Game over: type new, undo or quit"
			break
		}
		m, err := notation.ParseMove(g.position, line)
		if err != nil {
			g.message = err.Error()
			break
		}
		g.MakeMove(m)
	}
	return false
}

// MakeMove plays a legal move and checks for the end of the game.
func (g *Game) MakeMove(m board.Move) {
	g.sanHistory = append(g.sanHistory, notation.ToSAN(g.position, m))
	g.undoHistory = append(g.undoHistory, g.position.Ancillary())
	g.position.Execute(m)
	g.positionHashes = append(g.positionHashes, g.position.Hash())
	g.lastMove = m

	g.checkGameEnd()
}

// undo takes back the last move, or the last two against the computer so
// the human is to move again.
func (g *Game) undo() {
	plies := 1
	if g.mode == ModeHumanVsComputer && g.position.SideToMove() == g.playerColor && len(g.undoHistory) >= 2 {
		plies = 2
	}
	if len(g.undoHistory) == 0 {
		g.message = "Nothing to undo"
		return
	}

	for range plies {
		n := len(g.undoHistory)
		g.position.Undo(g.undoHistory[n-1])
		g.undoHistory = g.undoHistory[:n-1]
		g.sanHistory = g.sanHistory[:n-1]
		g.positionHashes = g.positionHashes[:len(g.positionHashes)-1]
	}

	g.lastMove = board.NoMove
	if history := g.position.History(); len(history) > 0 {
		g.lastMove = history[len(history)-1]
	}
	g.gameOver = false
	g.gameResult = ""

	// Taking back the computer's reply alone would hand it the move again.
	if g.isComputerTurn() {
		g.mode = ModeHumanVsHuman
		g.message = "Switched to human vs human"
	}
}

// playComputerMove searches and plays the engine's move.
func (g *Game) playComputerMove() {
	m, score := g.engine.BestMove(g.position)
	if m == board.NoMove {
		// No legal move means the game should already be over
		g.checkGameEnd()
		return
	}
	g.message = fmt.Sprintf("Computer played %s (%s)", notation.ToSAN(g.position, m), engine.ScoreToString(score))
	g.MakeMove(m)
}

// hint suggests a move for the side to move.
func (g *Game) hint() {
	if g.gameOver {
		return
	}
	m, score := g.engine.BestMove(g.position)
	if m == board.NoMove {
		return
	}
	g.message = fmt.Sprintf("Hint: %s (%s)", notation.ToSAN(g.position, m), engine.ScoreToString(score))
}

// setLevel sets the AI difficulty.
func (g *Game) setLevel(args []string) {
	if len(args) == 0 {
		g.message = "Level: " + g.difficulty.String()
		return
	}
	d, err := engine.ParseDifficulty(strings.ToLower(args[0]))
	if err != nil {
		g.message = err.Error()
		return
	}
	g.SetDifficulty(d)
	g.message = "Level: " + d.String()
}

// SetDifficulty sets the AI difficulty and stores it as a preference.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.difficulty = d
	g.engine.SetDifficulty(d)
	g.savePreferences()
}

// ToggleModeAction toggles between Human vs Human and Human vs Computer.
// The human takes the side to move.
func (g *Game) ToggleModeAction() {
	if g.mode == ModeHumanVsHuman {
		g.mode = ModeHumanVsComputer
		g.playerColor = g.position.SideToMove()
		g.message = "Playing against the computer as " + g.playerColor.String()
	} else {
		g.mode = ModeHumanVsHuman
		g.message = "Human vs human"
	}
	g.savePreferences()
}

// checkGameEnd detects mate and the draw rules.
func (g *Game) checkGameEnd() {
	switch {
	case g.position.IsCheckmate():
		g.winner = g.position.SideToMove().Other()
		g.finish(fmt.Sprintf("%s wins by checkmate!", g.winner), false)
	case g.position.IsStalemate():
		g.finish("Draw by stalemate", true)
	case g.isThreefoldRepetition():
		g.finish("Draw by threefold repetition", true)
	case g.position.IsFiftyMoveDraw():
		g.finish("Draw by 50-move rule", true)
	case g.position.IsInsufficientMaterial():
		g.finish("Draw by insufficient material", true)
	}
}

func (g *Game) finish(result string, draw bool) {
	g.gameOver = true
	g.gameResult = result
	if draw {
		g.winner = board.NoColor
	}
	g.recordGameResult()
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (g *Game) isThreefoldRepetition() bool {
	current := g.positionHashes[len(g.positionHashes)-1]
	count := 0
	for _, h := range g.positionHashes {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// recordGameResult stores the finished game once. Taking back moves and
// finishing again does not record it a second time; only new and fen start
// a fresh record. Games without moves are not recorded.
func (g *Game) recordGameResult() {
	if g.storage == nil || g.recorded || len(g.sanHistory) == 0 {
		return
	}
	g.recorded = true

	result := storage.GameResult{
		Draw:     g.winner == board.NoColor,
		Mode:     g.mode,
		Reason:   g.gameResult,
		Opening:  g.Opening(),
		Duration: time.Since(g.startTime),
	}
	if g.mode == ModeHumanVsComputer {
		result.Won = g.winner == g.playerColor
		result.Difficulty = g.difficulty.String()
	} else {
		// Two humans: recorded from White's side.
		result.Won = g.winner == board.White
	}

	if err := g.storage.RecordGame(result); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
}

// Opening returns the ECO name of the game so far, or "" for games that
// did not start from the standard position.
func (g *Game) Opening() string {
	if g.startFEN != board.StartFEN {
		return ""
	}
	return notation.OpeningName(g.position.History())
}

func (g *Game) showStats() {
	if g.storage == nil {
		g.message = "No statistics without storage"
		return
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		g.message = err.Error()
		return
	}
	g.message = fmt.Sprintf("Played %d: %d won, %d lost, %d drawn (%.0f%%), best streak %d",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate(), stats.LongestWinStrk)
	if name, n := stats.FavouriteOpening(); n > 0 {
		g.message += fmt.Sprintf(", favourite opening %s", name)
	}
}

// Screen returns the full text of the current game screen.
func (g *Game) Screen() string {
	var sb strings.Builder
	sb.WriteString(g.renderer.RenderBoard(g.position, g.lastMove))
	sb.WriteString("\n")

	if moves := RenderMoves(g.sanHistory, g.firstMove, g.firstSide); moves != "" {
		sb.WriteString(moves + "\n")
	}
	if name := g.Opening(); name != "" {
		sb.WriteString("Opening: " + name + "\n")
	}

	switch {
	case g.gameOver:
		sb.WriteString(g.renderer.highlight(g.gameResult, tm.GREEN) + "\n")
	case g.position.InCheck():
		sb.WriteString(g.renderer.highlight(g.position.SideToMove().String()+" is in check", tm.RED) + "\n")
	}
	if g.message != "" {
		sb.WriteString(g.renderer.highlight(g.message, tm.YELLOW) + "\n")
	}

	if !g.gameOver {
		fmt.Fprintf(&sb, "%s to move> ", g.position.SideToMove())
	} else {
		sb.WriteString("> ")
	}
	return sb.String()
}

// draw writes the screen, clearing the terminal first in terminal mode.
func (g *Game) draw() {
	if !g.terminal {
		fmt.Fprint(g.out, g.Screen())
		return
	}
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Print(g.Screen())
	tm.Flush()
}

// Position returns the current position.
func (g *Game) Position() *board.Position {
	return g.position
}

// SANHistory returns the SAN move history.
func (g *Game) SANHistory() []string {
	return g.sanHistory
}

// GameOver returns true if the game is over.
func (g *Game) GameOver() bool {
	return g.gameOver
}

// GameResult returns the game result string.
func (g *Game) GameResult() string {
	return g.gameResult
}

// PlayerColor returns the color the human player controls.
func (g *Game) PlayerColor() board.Color {
	return g.playerColor
}

// Mode returns the current game mode.
func (g *Game) Mode() GameMode {
	return g.mode
}
