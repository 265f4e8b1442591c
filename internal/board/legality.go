package board

// filterLegalMoves removes pseudo-legal moves that leave the king attacked.
//
// Every enemy line that runs through our king is classified by the number of
// pieces standing between the attacker and the king:
//
//	0 blockers: check. King moves must leave the line; other moves must
//	            capture the attacker or land between it and the king.
//	1 blocker:  pin. The blocker may only move along the line. If the
//	            blocker is the pawn an en passant capture would remove,
//	            that capture must land on the line.
//	2 blockers: an en passant capture removing both blockers at once
//	            (the capturing pawn and the captured pawn) is illegal.
//
// It also returns whether the king is in check and the set of squares the
// enemy attacks, which castling reuses.
func (p *Position) filterLegalMoves(moves []Move) ([]Move, bool, Bitboard) {
	us := p.turn
	ksq := p.kings[us]
	inCheck := false
	var attacked Bitboard

	for _, from := range AllSquares {
		attacker := p.pieces[from]
		if attacker.IsNone() || attacker.Color == us {
			continue
		}

		for _, line := range p.attackLines[from] {
			for _, s := range line {
				attacked = attacked.Set(s)
				if !p.IsEmpty(s) {
					break
				}
			}

			k := line.Index(ksq)
			if k < 0 {
				continue
			}
			between := line[:k]

			var blockers [2]Square
			n := 0
			for _, s := range between {
				if p.IsEmpty(s) {
					continue
				}
				if n < len(blockers) {
					blockers[n] = s
				}
				n++
			}

			// resolves reports whether a destination keeps the line blocked.
			resolves := func(to Square) bool {
				return to == from || between.Contains(to)
			}

			switch n {
			case 0:
				inCheck = true
				moves = retain(moves, func(m Move) bool {
					if m.From == ksq {
						return !line.Contains(m.To)
					}
					if resolves(m.To) {
						return true
					}
					return m.Type == EnPassant && m.CapturedSquare() == from
				})
			case 1:
				pinned := blockers[0]
				moves = retain(moves, func(m Move) bool {
					if m.From == pinned {
						return resolves(m.To)
					}
					if m.Type == EnPassant && m.CapturedSquare() == pinned {
						return resolves(m.To)
					}
					return true
				})
			case 2:
				b0, b1 := blockers[0], blockers[1]
				moves = retain(moves, func(m Move) bool {
					if m.Type != EnPassant {
						return true
					}
					captured := m.CapturedSquare()
					fromBlocks := m.From == b0 || m.From == b1
					capBlocks := captured == b0 || captured == b1
					return !(fromBlocks && capBlocks && !line.Contains(m.To))
				})
			}
		}
	}

	moves = retain(moves, func(m Move) bool {
		return m.From != ksq || !attacked.Has(m.To)
	})

	return moves, inCheck, attacked
}
