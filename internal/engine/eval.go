// Package engine implements the chess AI search engine.
package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chessline/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
)

// endgameMaterialStart is the non-pawn material below which the endgame
// weight starts rising: two rooks, a bishop and a knight.
const endgameMaterialStart = 2*RookValue + BishopValue + KnightValue

// Mop-up applies only when the side is ahead by more than this.
const mopUpMargin = 2 * PawnValue

// Evaluate returns the static evaluation from the side to move's perspective.
// Positive means the side to move is better.
func Evaluate(pos *board.Position) int {
	return perspective(pos, EvaluateWhite(pos))
}

// EvaluateWhite returns the static evaluation from White's perspective:
// material plus the mop-up term for whichever side is winning an endgame.
func EvaluateWhite(pos *board.Position) int {
	var material, nonPawn [2]int
	for _, pc := range pos.Pieces() {
		material[pc.Color] += pc.Value()
		if pc.Type != board.Pawn {
			nonPawn[pc.Color] += pc.Value()
		}
	}

	white := material[board.White]
	black := material[board.Black]

	whiteKing := pos.KingSquare(board.White)
	blackKing := pos.KingSquare(board.Black)
	white += mopUp(whiteKing, blackKing, material[board.White], material[board.Black], EndgameWeight(nonPawn[board.Black]))
	black += mopUp(blackKing, whiteKing, material[board.Black], material[board.White], EndgameWeight(nonPawn[board.White]))

	return white - black
}

// EvaluateMaterial returns the material balance from the side to move's perspective.
func EvaluateMaterial(pos *board.Position) int {
	return perspective(pos, pos.Material(board.White)-pos.Material(board.Black))
}

func perspective(pos *board.Position, whiteScore int) int {
	if pos.SideToMove() == board.Black {
		return -whiteScore
	}
	return whiteScore
}

// EndgameWeight returns how far the game has progressed into the endgame,
// from 0 (all pieces on) to 1, given one side's non-pawn material.
func EndgameWeight(nonPawnMaterial int) float64 {
	return 1 - min(1, float64(nonPawnMaterial)/float64(endgameMaterialStart))
}

// mopUp rewards pushing the opponent's king to the edge and bringing our
// own king closer, once we are clearly ahead and the opponent is short of
// pieces.
func mopUp(ourKing, theirKing board.Square, ourMaterial, theirMaterial int, weight float64) int {
	if ourMaterial <= theirMaterial+mopUpMargin || weight <= 0 {
		return 0
	}

	score := centreDistance(theirKing) * 10
	score += (14 - manhattan(ourKing, theirKing)) * 4
	return int(float64(score) * weight)
}

// centreDistance is the Manhattan distance from sq to the nearest of the four centre squares.
func centreDistance(sq board.Square) int {
	file, rank := int(sq.File()), int(sq.Rank())
	return max(3-file, file-4) + max(3-rank, rank-4)
}

func manhattan(a, b board.Square) int {
	return distance(a.File(), b.File()) + distance(a.Rank(), b.Rank())
}

// distance returns |a-b| as an int for any signed coordinate type.
func distance[T constraints.Signed](a, b T) int {
	return int(abs(a - b))
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
