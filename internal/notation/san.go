package notation

import (
	"strings"

	"github.com/hailam/chessline/internal/board"
)

// ToSAN converts a legal move of pos to Standard Algebraic Notation.
func ToSAN(pos *board.Position, m board.Move) string {
	if m.IsNone() {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece.IsNone() {
		return m.String() // Fallback to UCI
	}

	var sb strings.Builder

	if m.IsCastling() {
		if m.To.File() == board.FileG {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type

		// Piece letter and disambiguation (not for pawns)
		if pt != board.Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}

		if m.IsCapture() {
			if pt == board.Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion])
		}
	}

	// Check/checkmate marker
	after := pos.Copy()
	after.Execute(m)
	if replies, inCheck := after.GetMoves(false); inCheck {
		if len(replies) == 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *board.Position, m board.Move, pt board.PieceType) string {
	var candidates []board.Square

	moves, _ := pos.GetMoves(false)
	for _, other := range moves {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pos.PieceAt(other.From).Type == pt {
			candidates = append(candidates, other.From)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + byte(m.From.File())))
	}
	if !sameRank {
		return string(rune('1' + byte(m.From.Rank())))
	}
	return m.From.String()
}

// MovesToSAN converts a move sequence played from pos to SAN.
func MovesToSAN(pos *board.Position, moves []board.Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = ToSAN(p, m)
		p.Execute(m)
	}

	return result
}
