package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Forward returns the rank delta of a pawn step for this color.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceRank is the rank the color's king and rooks start on.
func (c Color) PieceRank() Rank {
	if c == White {
		return Rank1
	}
	return Rank8
}

// PawnRank is the rank the color's pawns start on.
func (c Color) PawnRank() Rank {
	if c == White {
		return Rank2
	}
	return Rank7
}

// EnPassantRank is the rank a pawn of this color passes over on a double step.
func (c Color) EnPassantRank() Rank {
	if c == White {
		return Rank3
	}
	return Rank6
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// PromotionTypes lists promotion choices in generation order.
var PromotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceValue returns the material value of the piece type in centipawns.
var PieceValue = [7]int{100, 300, 300, 500, 900, 0, 0}

// Value returns the material value of the piece type.
func (pt PieceType) Value() int {
	if pt > NoPieceType {
		return 0
	}
	return PieceValue[pt]
}

// Piece is a physical piece on the board. ID is stable for the life of a
// Position and survives promotion, capture and undo.
type Piece struct {
	ID    uint8
	Type  PieceType
	Color Color
}

// NoPiece marks an empty square or an absent capture.
var NoPiece = Piece{Type: NoPieceType, Color: NoColor}

// NewPiece creates a Piece with the given identity.
func NewPiece(id uint8, pt PieceType, c Color) Piece {
	return Piece{ID: id, Type: pt, Color: c}
}

// IsNone returns true for NoPiece.
func (p Piece) IsNone() bool {
	return p.Type == NoPieceType
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return p.Type.Value()
}

// Char returns the FEN character: uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	if p.IsNone() {
		return ' '
	}
	c := p.Type.Char()
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	return string(p.Char())
}

var glyphs = [2][6]string{
	{"♙", "♘", "♗", "♖", "♕", "♔"},
	{"♟", "♞", "♝", "♜", "♛", "♚"},
}

// Glyph returns the unicode chess symbol for the piece.
func (p Piece) Glyph() string {
	if p.IsNone() {
		return " "
	}
	return glyphs[p.Color][p.Type]
}

// pieceFromChar converts a FEN character to an anonymous piece (ID 0).
func pieceFromChar(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return Piece{Type: Pawn, Color: color}, true
	case 'N':
		return Piece{Type: Knight, Color: color}, true
	case 'B':
		return Piece{Type: Bishop, Color: color}, true
	case 'R':
		return Piece{Type: Rook, Color: color}, true
	case 'Q':
		return Piece{Type: Queen, Color: color}, true
	case 'K':
		return Piece{Type: King, Color: color}, true
	}
	return NoPiece, false
}
