// Package uci implements the Universal Chess Interface protocol on top of
// the search engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/chessline/internal/board"
	"github.com/hailam/chessline/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serialises writes to out

	// Search state
	searching  atomic.Bool
	searchDone chan struct{}
	moveTimer  *time.Timer

	// CPU profiling
	profileFile *os.File
}

// New creates a UCI protocol handler on stdin and stdout.
func New(eng *engine.Engine) *UCI {
	return NewWithIO(eng, os.Stdin, os.Stdout)
}

// NewWithIO creates a UCI protocol handler reading commands from in and
// writing responses to out.
func NewWithIO(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
	}
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			if board.DebugMoveValidation {
				fmt.Fprintf(os.Stderr, "info string DEBUG: position %s\n", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.send("%s\nFen: %s\nKey: %016x", u.position.String(), u.position.ToFEN(), u.position.Hash())
		case "perft":
			u.handlePerft(args)
		case "eval":
			u.handleEval()
		default:
			fmt.Fprintf(os.Stderr, "info string Unknown command: %s\n", cmd)
		}
	}

	// End of input behaves like quit.
	u.handleQuit()
}

func (u *UCI) send(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	cfg := engine.DefaultConfig()
	u.send("id name Chessline")
	u.send("id author hailam")
	u.send("")
	u.send("option name Depth type spin default %d min 1 max %d", cfg.Depth, engine.MaxPly-1)
	u.send("option name QuiescenceDepth type spin default %d min 0 max %d", cfg.MaxQuiescenceDepth, engine.MaxPly)
	u.send("option name MopUp type check default %t", cfg.MopUp)
	u.send("option name Debug type check default false")
	u.send("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}

	// Apply moves, stopping at the first illegal one
	for _, moveStr := range args[min(movesAt+1, len(args)):] {
		move, err := board.ParseMove(moveStr, pos)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid move: %s\n", moveStr)
			break
		}
		pos.Execute(move)
	}

	u.position = pos

	if board.DebugMoveValidation {
		legal, inCheck := u.position.GetMoves(false)
		fmt.Fprintf(os.Stderr, "info string DEBUG: After position setup - hash=%016x inCheck=%v legal=%d\n",
			u.position.Hash(), inCheck, len(legal))
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
	Infinite bool
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	opts := ParseGoOptions(args)
	depth := u.engine.Config().Depth
	if opts.Depth > 0 {
		depth = min(opts.Depth, engine.MaxPly-1)
	}
	if opts.Infinite {
		depth = engine.MaxPly - 1
	}

	u.engine.OnInfo = u.sendInfo

	u.searching.Store(true)
	u.searchDone = make(chan struct{})
	done := u.searchDone
	if opts.MoveTime > 0 {
		u.moveTimer = time.AfterFunc(opts.MoveTime, func() { u.stopUntilDone(done) })
	}

	pos := u.position.Copy()

	go func() {
		defer close(done)
		defer u.searching.Store(false)

		bestMove, _ := u.engine.SearchDepth(pos, depth)
		if bestMove == board.NoMove {
			// Only checkmate or stalemate leaves no move
			u.send("bestmove 0000")
			return
		}
		u.send("bestmove %s", bestMove)
	}()
}

// ParseGoOptions parses "go" command arguments. Unsupported options such as
// clock times are ignored.
func ParseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		}
	}

	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.UCIScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.send("info %s", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.moveTimer != nil {
		u.moveTimer.Stop()
		u.moveTimer = nil
	}
	if u.searchDone == nil {
		return
	}
	u.stopUntilDone(u.searchDone)
	u.searchDone = nil
}

// stopUntilDone keeps signalling stop until done is closed. A stop that lands
// before the search has reset its flag would otherwise be lost.
func (u *UCI) stopUntilDone(done <-chan struct{}) {
	for u.searching.Load() {
		u.engine.Stop()
		select {
		case <-done:
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	<-done
}

// handleQuit stops any search and profiling.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		fmt.Fprintf(os.Stderr, "info string CPU profile saved\n")
	}
}

// handleSetOption processes "setoption" commands. A running search is
// stopped first so the engine config is never changed under it.
func (u *UCI) handleSetOption(args []string) {
	u.handleStop()

	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	u.setOption(strings.Join(name, " "), strings.Join(value, " "))
}

func (u *UCI) setOption(name, value string) {
	cfg := u.engine.Config()

	switch strings.ToLower(name) {
	case "depth":
		if depth, err := strconv.Atoi(value); err == nil && depth >= 1 {
			u.engine.SetDepth(min(depth, engine.MaxPly-1))
		}
	case "quiescencedepth":
		if depth, err := strconv.Atoi(value); err == nil && depth >= 0 {
			cfg.MaxQuiescenceDepth = min(depth, engine.MaxPly)
			u.engine.SetConfig(cfg)
		}
	case "mopup":
		cfg.MopUp = strings.EqualFold(value, "true")
		u.engine.SetConfig(cfg)
	case "debug":
		enabled := strings.EqualFold(value, "true")
		board.DebugMoveValidation = enabled
		if enabled {
			fmt.Fprintf(os.Stderr, "info string Debug mode enabled\n")
		}
	case "cpuprofile":
		u.setProfile(value)
	default:
		fmt.Fprintf(os.Stderr, "info string Unknown option: %s\n", name)
	}
}

// setProfile stops the current CPU profile, if any, and starts a new one
// writing to path unless path is empty or "stop".
func (u *UCI) setProfile(path string) {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		fmt.Fprintf(os.Stderr, "info string CPU profile stopped\n")
		u.profileFile = nil
	}
	if path == "" || path == "stop" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string Failed to create profile: %v\n", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "info string Failed to start profile: %v\n", err)
		return
	}
	u.profileFile = f
	fmt.Fprintf(os.Stderr, "info string CPU profiling to %s\n", path)
}

// handlePerft runs a perft test and prints the per-move breakdown.
func (u *UCI) handlePerft(args []string) {
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 1 {
			depth = d
		}
	}

	start := time.Now()
	divide := u.position.Copy().PerftDivide(depth)
	elapsed := time.Since(start)

	moves, _ := u.position.GetMoves(false)
	var nodes uint64
	for _, m := range moves {
		u.send("%s: %d", m, divide[m])
		nodes += divide[m]
	}

	u.send("")
	u.send("Nodes: %d", nodes)
	u.send("Time: %v", elapsed)
	if elapsed > 0 {
		u.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}

// handleEval prints the static evaluation of the current position.
func (u *UCI) handleEval() {
	score := u.engine.Evaluate(u.position)
	white := engine.EvaluateWhite(u.position)
	u.send("Material: %d", engine.EvaluateMaterial(u.position))
	u.send("Evaluation: %s (side to move), %s (white)", engine.ScoreToString(score), engine.ScoreToString(white))
}
