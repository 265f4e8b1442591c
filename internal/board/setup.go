package board

import "fmt"

// Setup describes a position to construct: piece placement, side to move,
// castling flags, en passant target and clocks. Piece IDs in Placement are
// ignored; the constructor assigns them in display order.
type Setup struct {
	Placement      map[Square]Piece
	SideToMove     Color
	Castling       [2]CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int
}

// NewPositionFromSetup validates a Setup and builds a Position from it.
// Castling flags that do not match the placement of king and rook are dropped.
func NewPositionFromSetup(s Setup) (*Position, error) {
	p := newEmptyPosition()

	for sq, pc := range s.Placement {
		if !sq.IsValid() {
			return nil, fmt.Errorf("%w: square %d off the board", ErrInvalidPosition, sq)
		}
		if pc.Type >= NoPieceType || pc.Color >= NoColor {
			return nil, fmt.Errorf("%w: bad piece on %s", ErrInvalidPosition, sq)
		}
		if pc.Type == Pawn && (sq.Rank() == Rank1 || sq.Rank() == Rank8) {
			return nil, fmt.Errorf("%w: pawn on back rank at %s", ErrInvalidPosition, sq)
		}
	}

	var id uint8
	var kings [2]int
	for _, sq := range AllSquares {
		pc, ok := s.Placement[sq]
		if !ok || pc.IsNone() {
			continue
		}
		id++
		p.setPiece(sq, NewPiece(id, pc.Type, pc.Color))
		if pc.Type == King {
			kings[pc.Color]++
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: need exactly one king per color, got white=%d black=%d",
			ErrInvalidPosition, kings[White], kings[Black])
	}

	if s.SideToMove != White && s.SideToMove != Black {
		return nil, fmt.Errorf("%w: invalid side to move %d", ErrInvalidPosition, s.SideToMove)
	}
	p.turn = s.SideToMove

	if s.EnPassant != NoSquare {
		if err := p.checkEnPassant(s.EnPassant); err != nil {
			return nil, err
		}
		p.enPassant = s.EnPassant
	}

	if s.HalfMoveClock < 0 {
		return nil, fmt.Errorf("%w: negative half-move clock %d", ErrInvalidPosition, s.HalfMoveClock)
	}
	if s.FullMoveNumber < 0 {
		return nil, fmt.Errorf("%w: negative full-move number %d", ErrInvalidPosition, s.FullMoveNumber)
	}
	p.halfMoveClock = s.HalfMoveClock
	p.fullMoveNumber = s.FullMoveNumber
	if p.fullMoveNumber == 0 {
		p.fullMoveNumber = 1
	}

	p.castling = s.Castling
	p.updateCastlingRights()

	them := p.turn.Other()
	if p.IsAttacked(p.kings[them], p.turn) {
		return nil, fmt.Errorf("%w: %s to move can capture the %s king", ErrInvalidPosition, p.turn, them)
	}

	return p, nil
}

// checkEnPassant verifies that ep is the square just passed over by a double
// step of the side not to move.
func (p *Position) checkEnPassant(ep Square) error {
	if !ep.IsValid() {
		return fmt.Errorf("%w: en passant square off the board", ErrInvalidPosition)
	}
	them := p.turn.Other()
	if ep.Rank() != them.EnPassantRank() {
		return fmt.Errorf("%w: en passant square %s not on rank %d", ErrInvalidPosition, ep, them.EnPassantRank()+1)
	}
	if !p.IsEmpty(ep) {
		return fmt.Errorf("%w: en passant square %s is occupied", ErrInvalidPosition, ep)
	}
	pawnSq, _ := ep.Offset(0, them.Forward())
	if pawn := p.pieces[pawnSq]; pawn.Type != Pawn || pawn.Color != them {
		return fmt.Errorf("%w: no %s pawn in front of en passant square %s", ErrInvalidPosition, them, ep)
	}
	return nil
}

// Setup returns the Setup that reconstructs the position (without history).
func (p *Position) Setup() Setup {
	s := Setup{
		Placement:      make(map[Square]Piece),
		SideToMove:     p.turn,
		Castling:       p.castling,
		EnPassant:      p.enPassant,
		HalfMoveClock:  p.halfMoveClock,
		FullMoveNumber: p.fullMoveNumber,
	}
	for sq, pc := range p.Pieces() {
		s.Placement[sq] = pc
	}
	return s
}
