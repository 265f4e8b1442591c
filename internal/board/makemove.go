package board

import "log"

// DebugMoveValidation enables a full Validate after every Execute and Undo.
// Set to true when hunting make/unmake bugs; it is slow.
var DebugMoveValidation = false

// UndoInfo holds the ancillary state a move destroys. Piece placement is
// reconstructed from the move record itself.
type UndoInfo struct {
	Castling      [2]CastlingRights
	EnPassant     Square
	HalfMoveClock int
}

// Ancillary snapshots the state Execute overwrites. Pass it to Undo.
func (p *Position) Ancillary() UndoInfo {
	return UndoInfo{
		Castling:      p.castling,
		EnPassant:     p.enPassant,
		HalfMoveClock: p.halfMoveClock,
	}
}

// Execute applies a legal move to the position. The move must come from
// GetMoves on this exact position; other moves corrupt it.
func (p *Position) Execute(m Move) {
	us := p.turn

	if DebugMoveValidation {
		if mover := p.pieces[m.From]; mover.IsNone() || mover.Color != us {
			log.Printf("EXECUTE ILLEGAL: no %v piece on %v! move=%v", us, m.From, m)
		}
		if target := p.pieces[m.To]; target.Type == King {
			log.Printf("EXECUTE ILLEGAL: trying to capture %v King at %v! move=%v", target.Color, m.To, m)
		}
	}

	piece := p.removePiece(m.From)
	wasPawn := piece.Type == Pawn

	switch m.Type {
	case Capture, PromotionCapture:
		p.removePiece(m.To)
	case EnPassant:
		p.removePiece(m.CapturedSquare())
	case Castle:
		rookFrom, rookTo := castlingRookSquares(m)
		p.setPiece(rookTo, p.removePiece(rookFrom))
	}

	if m.IsPromotion() {
		piece.Type = m.Promotion
	}
	p.setPiece(m.To, piece)

	if wasPawn || m.IsCapture() {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}

	p.enPassant = NoSquare
	if m.Type == PawnJump {
		p.enPassant, _ = m.From.Offset(0, us.Forward())
	}

	p.fullMoveNumber++
	p.history = append(p.history, m)
	p.turn = us.Other()
	p.updateCastlingRights()

	if DebugMoveValidation {
		if err := p.Validate(); err != nil {
			log.Printf("EXECUTE CORRUPT: %v after move=%v", err, m)
		}
	}
}

// Undo reverts the most recent move, restoring the ancillary state from
// saved. It returns the reverted move, or false if there is no history.
func (p *Position) Undo(saved UndoInfo) (Move, bool) {
	if len(p.history) == 0 {
		return NoMove, false
	}

	m := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	p.turn = p.turn.Other()
	p.castling = saved.Castling
	p.enPassant = saved.EnPassant
	p.halfMoveClock = saved.HalfMoveClock
	p.fullMoveNumber--

	piece := p.removePiece(m.To)
	if m.IsPromotion() {
		piece.Type = Pawn
	}
	p.setPiece(m.From, piece)

	switch m.Type {
	case Capture, PromotionCapture:
		p.setPiece(m.To, m.Captured)
	case EnPassant:
		p.setPiece(m.CapturedSquare(), m.Captured)
	case Castle:
		rookFrom, rookTo := castlingRookSquares(m)
		p.setPiece(rookFrom, p.removePiece(rookTo))
	}

	if DebugMoveValidation {
		if err := p.Validate(); err != nil {
			log.Printf("UNDO CORRUPT: %v after move=%v", err, m)
		}
	}

	return m, true
}

// MakeMoves executes a sequence of moves given in UCI notation, checking
// each against the legal moves of the current position.
func (p *Position) MakeMoves(uciMoves ...string) error {
	for _, s := range uciMoves {
		m, err := ParseMove(s, p)
		if err != nil {
			return err
		}
		p.Execute(m)
	}
	return nil
}
