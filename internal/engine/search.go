package engine

import (
	"sync/atomic"

	"github.com/hailam/chessline/internal/board"
)

// Search constants
const (
	Infinity  = 1_000_000
	MateScore = 900_000
	MaxPly    = 128
)

// Searcher performs the negamax alpha-beta search on a position it borrows
// exclusively for the duration of a call.
type Searcher struct {
	config   Config
	nodes    uint64
	stopFlag atomic.Bool
}

// NewSearcher creates a new searcher.
func NewSearcher(cfg Config) *Searcher {
	return &Searcher{config: cfg}
}

// Stop signals the search to stop. It is safe to call from another goroutine.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Search runs a fail-hard negamax alpha-beta search of the given depth and
// returns the best move with its score from the side to move's perspective.
//
// The position is mutated during the search and restored before returning.
// A beta cutoff returns (NoMove, beta); a position without legal moves
// returns NoMove with a mate or draw score. Called with the window
// (-Infinity, Infinity), a position with legal moves always yields a move.
func (s *Searcher) Search(pos *board.Position, depth, alpha, beta int) (board.Move, int) {
	return s.negamax(pos, depth, 0, alpha, beta)
}

func (s *Searcher) negamax(pos *board.Position, depth, ply, alpha, beta int) (board.Move, int) {
	s.nodes++

	if depth <= 0 || ply >= MaxPly {
		return board.NoMove, s.quiescence(pos, 0, alpha, beta)
	}

	moves, inCheck := pos.GetMoves(false)
	if len(moves) == 0 {
		if inCheck {
			return board.NoMove, -MateScore + ply
		}
		return board.NoMove, 0
	}

	OrderMoves(pos, moves)
	bestMove := moves[0]

	for i, m := range moves {
		if i > 0 && s.stopFlag.Load() {
			break
		}

		saved := pos.Ancillary()
		pos.Execute(m)
		_, score := s.negamax(pos, depth-1, ply+1, -beta, -alpha)
		score = -score
		pos.Undo(saved)

		if score >= beta {
			return board.NoMove, beta
		}
		if score > alpha {
			alpha = score
			bestMove = m
		}
	}

	return bestMove, alpha
}

// Quiesce runs the capture-only search from pos and returns its score from
// the side to move's perspective.
func (s *Searcher) Quiesce(pos *board.Position, alpha, beta int) int {
	return s.quiescence(pos, 0, alpha, beta)
}

// quiescence extends the search through capture sequences until the position
// is quiet, standing pat on the static evaluation.
func (s *Searcher) quiescence(pos *board.Position, qPly, alpha, beta int) int {
	s.nodes++

	standPat := s.evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if qPly >= s.config.MaxQuiescenceDepth {
		return alpha
	}

	moves, _ := pos.GetMoves(true)
	OrderMoves(pos, moves)

	for i, m := range moves {
		if i > 0 && s.stopFlag.Load() {
			break
		}

		saved := pos.Ancillary()
		pos.Execute(m)
		score := -s.quiescence(pos, qPly+1, -beta, -alpha)
		pos.Undo(saved)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func (s *Searcher) evaluate(pos *board.Position) int {
	if s.config.MopUp {
		return Evaluate(pos)
	}
	return EvaluateMaterial(pos)
}
