package board

import "fmt"

// MoveType classifies a move for execution and undo.
type MoveType uint8

const (
	Normal MoveType = iota
	Capture
	Promotion
	PromotionCapture
	PawnJump
	EnPassant
	Castle
)

// String returns the move type name.
func (t MoveType) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Capture:
		return "Capture"
	case Promotion:
		return "Promotion"
	case PromotionCapture:
		return "PromotionCapture"
	case PawnJump:
		return "PawnJump"
	case EnPassant:
		return "EnPassant"
	case Castle:
		return "Castle"
	default:
		return "Unknown"
	}
}

// Move is a self-describing move record. Captured is NoPiece unless the move
// captures; Promotion is NoPieceType unless the move promotes.
type Move struct {
	From      Square
	To        Square
	Type      MoveType
	Captured  Piece
	Promotion PieceType
}

// NoMove represents an absent move.
var NoMove = Move{From: NoSquare, To: NoSquare, Captured: NoPiece, Promotion: NoPieceType}

// NewMove creates a quiet move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Type: Normal, Captured: NoPiece, Promotion: NoPieceType}
}

// NewPawnJump creates a double pawn step.
func NewPawnJump(from, to Square) Move {
	return Move{From: from, To: to, Type: PawnJump, Captured: NoPiece, Promotion: NoPieceType}
}

// NewCapture creates a capture of the given piece.
func NewCapture(from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Type: Capture, Captured: captured, Promotion: NoPieceType}
}

// NewPromotion creates a quiet promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Type: Promotion, Captured: NoPiece, Promotion: promo}
}

// NewPromotionCapture creates a promotion that captures.
func NewPromotionCapture(from, to Square, captured Piece, promo PieceType) Move {
	return Move{From: from, To: to, Type: PromotionCapture, Captured: captured, Promotion: promo}
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Type: EnPassant, Captured: captured, Promotion: NoPieceType}
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, Type: Castle, Captured: NoPiece, Promotion: NoPieceType}
}

// IsNone returns true for NoMove.
func (m Move) IsNone() bool {
	return m.From == NoSquare
}

// IsCapture returns true if this move removes an enemy piece.
func (m Move) IsCapture() bool {
	return !m.Captured.IsNone()
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == PromotionCapture
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Type == Castle
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Type == EnPassant
}

// CapturedSquare returns where the captured piece stood, or NoSquare.
func (m Move) CapturedSquare() Square {
	switch m.Type {
	case Capture, PromotionCapture:
		return m.To
	case EnPassant:
		return NewSquare(m.To.File(), m.From.Rank())
	}
	return NoSquare
}

// castlingRookSquares returns the rook's origin and destination for a castling move.
func castlingRookSquares(m Move) (from, to Square) {
	rank := m.To.Rank()
	if m.To.File() == FileC {
		return NewSquare(FileA, rank), NewSquare(FileD, rank)
	}
	return NewSquare(FileH, rank), NewSquare(FileF, rank)
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}

	return s
}

// ParseMove parses a UCI format move string and returns the matching legal move.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	moves, _ := pos.GetMoves(false)
	for _, m := range moves {
		if m.From == from && m.To == to && m.Promotion == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("illegal move: %s", s)
}
