package engine

import (
	"fmt"
	"time"

	"github.com/hailam/chessline/internal/board"
)

// Config controls the search.
type Config struct {
	Depth              int  // Full-width plies searched by BestMove
	MaxQuiescenceDepth int  // Capture plies explored past the horizon
	MopUp              bool // Add the endgame mop-up term to the evaluation
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Depth:              DifficultySettings[Medium],
		MaxQuiescenceDepth: 16,
		MopUp:              true,
	}
}

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // 5 ply
)

// DifficultySettings maps difficulty to search depth.
var DifficultySettings = map[Difficulty]int{
	Easy:   2,
	Medium: 4,
	Hard:   5,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	config   Config

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine(cfg Config) *Engine {
	e := &Engine{searcher: NewSearcher(cfg)}
	e.SetConfig(cfg)
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// SetDifficulty sets the search depth from a difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultySettings[d]; ok {
		e.SetDepth(depth)
	}
}

// SetConfig replaces the engine configuration.
func (e *Engine) SetConfig(cfg Config) {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if cfg.MaxQuiescenceDepth < 0 {
		cfg.MaxQuiescenceDepth = 0
	}
	e.config = cfg
	e.searcher.config = cfg
}

// SetDepth sets the search depth in plies.
func (e *Engine) SetDepth(depth int) {
	cfg := e.config
	cfg.Depth = depth
	e.SetConfig(cfg)
}

// BestMove searches a private copy of pos at the configured depth and
// returns the best move with its score from the side to move's perspective.
// It returns NoMove when the side to move has no legal moves.
func (e *Engine) BestMove(pos *board.Position) (board.Move, int) {
	return e.SearchDepth(pos, e.config.Depth)
}

// SearchDepth is BestMove with an explicit depth.
func (e *Engine) SearchDepth(pos *board.Position, depth int) (board.Move, int) {
	e.searcher.Reset()
	startTime := time.Now()

	move, score := e.searcher.Search(pos.Copy(), depth, -Infinity, Infinity)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: depth,
			Score: score,
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(startTime),
			Move:  move,
		})
	}
	return move, score
}

// Stop stops the current search. The move found so far is returned.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft performs a perft test on a copy of pos (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return pos.Copy().Perft(depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.searcher.evaluate(pos)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return fmt.Sprintf("Mate in %d", mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return fmt.Sprintf("Mated in %d", mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

// UCIScore formats a score for a UCI "info" line ("cp 35" or "mate -2").
func UCIScore(score int) string {
	if score > MateScore-MaxPly {
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	}
	if score < -MateScore+MaxPly {
		return fmt.Sprintf("mate %d", -(MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
