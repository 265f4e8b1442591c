package engine

import (
	"sort"

	"github.com/hailam/chessline/internal/board"
)

// ScoreMove returns the ordering score of a move: captures score
// victim*10 - attacker (MVV-LVA), promotions add the promoted piece's value,
// every other move scores zero.
func ScoreMove(pos *board.Position, m board.Move) int {
	score := 0
	if m.IsCapture() {
		attacker := pos.PieceAt(m.From)
		score = m.Captured.Value()*10 - attacker.Value()
	}
	if m.IsPromotion() {
		score += m.Promotion.Value()
	}
	return score
}

type scoredMove struct {
	move  board.Move
	score int
}

// OrderMoves sorts moves in place by descending ScoreMove. Moves with equal
// scores keep their generation order.
func OrderMoves(pos *board.Position, moves []board.Move) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: ScoreMove(pos, m)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
}
