package board

// Line is an ordered run of squares a piece attacks, nearest first, computed
// as if the board were empty. Stepping pieces have one-square lines.
type Line []Square

// Contains returns true if sq lies on the line.
func (l Line) Contains(sq Square) bool {
	return l.Index(sq) >= 0
}

// Index returns the position of sq on the line, or -1.
func (l Line) Index(sq Square) int {
	for i, s := range l {
		if s == sq {
			return i
		}
	}
	return -1
}

// attackLineTable[color][type][square] holds every piece's lines.
// Entries are shared and must not be modified.
var attackLineTable = func() (t [2][6][64][]Line) {
	for _, c := range []Color{White, Black} {
		for pt := Pawn; pt <= King; pt++ {
			for _, sq := range AllSquares {
				t[c][pt][sq] = computeAttackLines(pt, c, sq)
			}
		}
	}
	return t
}()

// AttackLines returns the lines the piece attacks from sq.
func AttackLines(p Piece, sq Square) []Line {
	if p.IsNone() || !sq.IsValid() {
		return nil
	}
	return attackLineTable[p.Color][p.Type][sq]
}

func computeAttackLines(pt PieceType, c Color, sq Square) []Line {
	switch pt {
	case Pawn:
		return stepLines(sq, []Direction{{-1, c.Forward()}, {1, c.Forward()}})
	case Knight:
		return stepLines(sq, KnightDirections)
	case Bishop:
		return rayLines(sq, BishopDirections)
	case Rook:
		return rayLines(sq, RookDirections)
	case Queen:
		return rayLines(sq, QueenDirections)
	case King:
		return stepLines(sq, KingDirections)
	}
	return nil
}

func stepLines(sq Square, dirs []Direction) []Line {
	var lines []Line
	for _, d := range dirs {
		if to, ok := sq.Offset(d.File, d.Rank); ok {
			lines = append(lines, Line{to})
		}
	}
	return lines
}

func rayLines(sq Square, dirs []Direction) []Line {
	var lines []Line
	for _, d := range dirs {
		var line Line
		cur := sq
		for {
			next, ok := cur.Offset(d.File, d.Rank)
			if !ok {
				break
			}
			line = append(line, next)
			cur = next
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
