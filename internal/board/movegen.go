package board

import "fmt"

// GetMoves generates all legal moves for the side to move and reports whether
// that side is in check. With onlyCaptures set, only moves that remove an
// enemy piece are returned. An empty result in check is checkmate; an empty
// result out of check is stalemate.
func (p *Position) GetMoves(onlyCaptures bool) ([]Move, bool) {
	us := p.turn
	if !p.kings[us].IsValid() || p.pieces[p.kings[us]].Type != King {
		panic(fmt.Sprintf("board: GetMoves on a position without a %s king", us))
	}

	moves := p.generatePseudoLegal(make([]Move, 0, 64), onlyCaptures)
	moves, inCheck, attacked := p.filterLegalMoves(moves)

	if !inCheck && !onlyCaptures {
		moves = p.generateCastlingMoves(moves, attacked)
	}

	if onlyCaptures {
		moves = retain(moves, Move.IsCapture)
	}
	return moves, inCheck
}

// generatePseudoLegal appends the pseudo-legal moves of every piece of the side to move.
func (p *Position) generatePseudoLegal(moves []Move, onlyCaptures bool) []Move {
	us := p.turn
	for _, sq := range AllSquares {
		piece := p.pieces[sq]
		if piece.IsNone() || piece.Color != us {
			continue
		}
		switch piece.Type {
		case Pawn:
			moves = p.generatePawnMoves(moves, sq, onlyCaptures)
		case Knight:
			moves = p.generateStepMoves(moves, sq, KnightDirections, onlyCaptures)
		case Bishop:
			moves = p.generateSlidingMoves(moves, sq, BishopDirections, onlyCaptures)
		case Rook:
			moves = p.generateSlidingMoves(moves, sq, RookDirections, onlyCaptures)
		case Queen:
			moves = p.generateSlidingMoves(moves, sq, QueenDirections, onlyCaptures)
		case King:
			moves = p.generateStepMoves(moves, sq, KingDirections, onlyCaptures)
		}
	}
	return moves
}

// generatePawnMoves generates pushes, double steps, captures, en passant and promotions.
func (p *Position) generatePawnMoves(moves []Move, from Square, onlyCaptures bool) []Move {
	us := p.turn
	fwd := us.Forward()
	promoting := from.Rank() == us.Other().PawnRank()

	if !onlyCaptures {
		if one, ok := from.Offset(0, fwd); ok && p.IsEmpty(one) {
			if promoting {
				for _, pt := range PromotionTypes {
					moves = append(moves, NewPromotion(from, one, pt))
				}
			} else {
				moves = append(moves, NewMove(from, one))
				if from.Rank() == us.PawnRank() {
					if two, ok := one.Offset(0, fwd); ok && p.IsEmpty(two) {
						moves = append(moves, NewPawnJump(from, two))
					}
				}
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, fwd)
		if !ok {
			continue
		}
		target := p.pieces[to]
		if !target.IsNone() {
			if target.Color == us {
				continue
			}
			if promoting {
				for _, pt := range PromotionTypes {
					moves = append(moves, NewPromotionCapture(from, to, target, pt))
				}
			} else {
				moves = append(moves, NewCapture(from, to, target))
			}
			continue
		}
		if to == p.enPassant && to.Rank() == us.Other().EnPassantRank() {
			captured := p.pieces[NewSquare(to.File(), from.Rank())]
			if captured.Type == Pawn && captured.Color != us {
				moves = append(moves, NewEnPassant(from, to, captured))
			}
		}
	}

	return moves
}

// generateStepMoves generates knight and king moves from fixed offsets.
func (p *Position) generateStepMoves(moves []Move, from Square, dirs []Direction, onlyCaptures bool) []Move {
	for _, d := range dirs {
		to, ok := from.Offset(d.File, d.Rank)
		if !ok {
			continue
		}
		target := p.pieces[to]
		if target.IsNone() {
			if !onlyCaptures {
				moves = append(moves, NewMove(from, to))
			}
		} else if target.Color != p.turn {
			moves = append(moves, NewCapture(from, to, target))
		}
	}
	return moves
}

// generateSlidingMoves walks each ray until it leaves the board or meets a piece.
func (p *Position) generateSlidingMoves(moves []Move, from Square, dirs []Direction, onlyCaptures bool) []Move {
	for _, d := range dirs {
		to, ok := from.Offset(d.File, d.Rank)
		for ok {
			target := p.pieces[to]
			if !target.IsNone() {
				if target.Color != p.turn {
					moves = append(moves, NewCapture(from, to, target))
				}
				break
			}
			if !onlyCaptures {
				moves = append(moves, NewMove(from, to))
			}
			to, ok = to.Offset(d.File, d.Rank)
		}
	}
	return moves
}

// generateCastlingMoves adds castling when the rights remain, the squares
// between king and rook are empty and the king's path is not attacked.
// Callers only invoke it when the king is not in check.
func (p *Position) generateCastlingMoves(moves []Move, attacked Bitboard) []Move {
	us := p.turn
	rank := us.PieceRank()
	at := func(f File) Square { return NewSquare(f, rank) }

	kingFrom := at(FileE)
	if p.kings[us] != kingFrom {
		return moves
	}

	// Kingside (O-O)
	if p.castling[us].Kingside &&
		p.IsEmpty(at(FileF)) && p.IsEmpty(at(FileG)) &&
		!attacked.Has(at(FileF)) && !attacked.Has(at(FileG)) {
		moves = append(moves, NewCastling(kingFrom, at(FileG)))
	}

	// Queenside (O-O-O)
	if p.castling[us].Queenside &&
		p.IsEmpty(at(FileB)) && p.IsEmpty(at(FileC)) && p.IsEmpty(at(FileD)) &&
		!attacked.Has(at(FileC)) && !attacked.Has(at(FileD)) {
		moves = append(moves, NewCastling(kingFrom, at(FileC)))
	}

	return moves
}

// retain filters moves in place.
func retain(moves []Move, keep func(Move) bool) []Move {
	out := moves[:0]
	for _, m := range moves {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	moves, inCheck := p.GetMoves(false)
	return inCheck && len(moves) == 0
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	moves, inCheck := p.GetMoves(false)
	return !inCheck && len(moves) == 0
}

// IsFiftyMoveDraw returns true once 100 plies passed without a pawn move or capture.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfMoveClock >= 100
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	var minors [2]int
	for _, pc := range p.Pieces() {
		switch pc.Type {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[pc.Color]++
		}
	}

	// K vs K, K+minor vs K
	return minors[White]+minors[Black] <= 1
}

// Perft counts the number of leaf nodes at the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves, _ := p.GetMoves(false)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		saved := p.Ancillary()
		p.Execute(m)
		nodes += p.Perft(depth - 1)
		p.Undo(saved)
	}
	return nodes
}

// PerftDivide returns the leaf count below each root move.
func (p *Position) PerftDivide(depth int) map[Move]uint64 {
	div := make(map[Move]uint64)
	if depth < 1 {
		return div
	}
	moves, _ := p.GetMoves(false)
	for _, m := range moves {
		saved := p.Ancillary()
		p.Execute(m)
		div[m] = p.Perft(depth - 1)
		p.Undo(saved)
	}
	return div
}
