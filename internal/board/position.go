package board

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Sentinel errors for position construction.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidFEN      = errors.New("invalid FEN")
)

// CastlingRights holds one color's remaining castling options.
type CastlingRights struct {
	Kingside  bool
	Queenside bool
}

// String returns the FEN castling rights string for both colors.
func castlingString(cr [2]CastlingRights) string {
	s := ""
	if cr[White].Kingside {
		s += "K"
	}
	if cr[White].Queenside {
		s += "Q"
	}
	if cr[Black].Kingside {
		s += "k"
	}
	if cr[Black].Queenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Position represents a complete chess position.
//
// A Position is mutated in place by Execute and Undo and must be owned by a
// single goroutine at a time. Independent searches need independent copies.
type Position struct {
	pieces [64]Piece

	// Attack lines of the occupant of each square; nil for empty squares.
	// Always equal to AttackLines(pieces[sq], sq).
	attackLines [64][]Line

	// King positions (cached for check detection)
	kings [2]Square

	turn           Color
	castling       [2]CastlingRights
	enPassant      Square // Square passed over by the last double pawn step, NoSquare if none
	halfMoveClock  int    // Plies since last pawn move or capture (for 50-move rule)
	fullMoveNumber int    // Incremented on every executed move

	history []Move
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

func newEmptyPosition() *Position {
	p := &Position{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
		kings:          [2]Square{NoSquare, NoSquare},
	}
	for i := range p.pieces {
		p.pieces[i] = NoPiece
	}
	return p
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = append([]Move(nil), p.history...)
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.pieces[sq]
}

// IsEmpty returns true if the square is empty. Squares off the board are empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq).IsNone()
}

// SquareOf returns the square holding the piece with the given id.
func (p *Position) SquareOf(id uint8) (Square, bool) {
	for _, sq := range AllSquares {
		if pc := p.pieces[sq]; !pc.IsNone() && pc.ID == id {
			return sq, true
		}
	}
	return NoSquare, false
}

// Pieces enumerates occupied squares in display order (a8 … h1).
func (p *Position) Pieces() iter.Seq2[Square, Piece] {
	return func(yield func(Square, Piece) bool) {
		for _, sq := range AllSquares {
			if pc := p.pieces[sq]; !pc.IsNone() {
				if !yield(sq, pc) {
					return
				}
			}
		}
	}
}

// KingSquare returns the square of the given color's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kings[c]
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.turn
}

// CastlingRights returns the castling rights of both colors.
func (p *Position) CastlingRights() [2]CastlingRights {
	return p.castling
}

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// HalfMoveClock returns the plies since the last pawn move or capture.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// FullMoveNumber returns the move counter.
func (p *Position) FullMoveNumber() int {
	return p.fullMoveNumber
}

// History returns the executed moves, oldest first. The slice must not be modified.
func (p *Position) History() []Move {
	return p.history
}

// setPiece places a piece on a square and refreshes the square's attack lines.
func (p *Position) setPiece(sq Square, piece Piece) {
	p.pieces[sq] = piece
	p.attackLines[sq] = AttackLines(piece, sq)
	if piece.Type == King {
		p.kings[piece.Color] = sq
	}
}

// removePiece empties a square and returns its former occupant.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.pieces[sq]
	p.pieces[sq] = NoPiece
	p.attackLines[sq] = nil
	return piece
}

// updateCastlingRights clears any right whose king or rook has left its home
// square. Rights are never restored here.
func (p *Position) updateCastlingRights() {
	for _, c := range []Color{White, Black} {
		rank := c.PieceRank()
		king := p.pieces[NewSquare(FileE, rank)]
		kingHome := king.Type == King && king.Color == c
		if p.castling[c].Kingside {
			rook := p.pieces[NewSquare(FileH, rank)]
			if !kingHome || rook.Type != Rook || rook.Color != c {
				p.castling[c].Kingside = false
			}
		}
		if p.castling[c].Queenside {
			rook := p.pieces[NewSquare(FileA, rank)]
			if !kingHome || rook.Type != Rook || rook.Color != c {
				p.castling[c].Queenside = false
			}
		}
	}
}

// IsAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	for _, from := range AllSquares {
		pc := p.pieces[from]
		if pc.IsNone() || pc.Color != by {
			continue
		}
		for _, line := range p.attackLines[from] {
			for _, s := range line {
				if s == sq {
					return true
				}
				if !p.pieces[s].IsNone() {
					break
				}
			}
		}
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsAttacked(p.kings[p.turn], p.turn.Other())
}

// Validate checks the derived state against piece placement.
func (p *Position) Validate() error {
	var kings [2]int
	for _, sq := range AllSquares {
		pc := p.pieces[sq]
		if pc.IsNone() {
			if p.attackLines[sq] != nil {
				return fmt.Errorf("%w: attack lines cached for empty square %s", ErrInvalidPosition, sq)
			}
			continue
		}
		if !sameLines(p.attackLines[sq], AttackLines(pc, sq)) {
			return fmt.Errorf("%w: stale attack lines on %s", ErrInvalidPosition, sq)
		}
		if pc.Type == King {
			kings[pc.Color]++
			if p.kings[pc.Color] != sq {
				return fmt.Errorf("%w: %s king on %s but indexed at %s", ErrInvalidPosition, pc.Color, sq, p.kings[pc.Color])
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("%w: need exactly one king per color, got white=%d black=%d", ErrInvalidPosition, kings[White], kings[Black])
	}
	check := *p
	check.updateCastlingRights()
	if check.castling != p.castling {
		return fmt.Errorf("%w: castling rights %s without king and rook at home", ErrInvalidPosition, castlingString(p.castling))
	}
	return nil
}

func sameLines(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two positions hold identical state, including history.
func (p *Position) Equal(o *Position) bool {
	if p.pieces != o.pieces || p.kings != o.kings || p.turn != o.turn ||
		p.castling != o.castling || p.enPassant != o.enPassant ||
		p.halfMoveClock != o.halfMoveClock || p.fullMoveNumber != o.fullMoveNumber {
		return false
	}
	for _, sq := range AllSquares {
		if !sameLines(p.attackLines[sq], o.attackLines[sq]) {
			return false
		}
	}
	if len(p.history) != len(o.history) {
		return false
	}
	for i := range p.history {
		if p.history[i] != o.history[i] {
			return false
		}
	}
	return true
}

// Mirror returns the color-reversed position: every piece is reflected to the
// other side of the board and changes color, and the other side moves.
// History is not carried over.
func (p *Position) Mirror() *Position {
	m := newEmptyPosition()
	for sq, pc := range p.Pieces() {
		pc.Color = pc.Color.Other()
		m.setPiece(sq.Mirror(), pc)
	}
	m.turn = p.turn.Other()
	m.castling = [2]CastlingRights{p.castling[Black], p.castling[White]}
	if p.enPassant != NoSquare {
		m.enPassant = p.enPassant.Mirror()
	}
	m.halfMoveClock = p.halfMoveClock
	m.fullMoveNumber = p.fullMoveNumber
	return m
}

// Material returns the material of one color in centipawns.
func (p *Position) Material(c Color) int {
	score := 0
	for _, pc := range p.Pieces() {
		if pc.Color == c {
			score += pc.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := Rank8; rank >= Rank1; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := FileA; file <= FileH; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece.IsNone() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.turn)
	fmt.Fprintf(&sb, "Castling: %s\n", castlingString(p.castling))
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.fullMoveNumber)
	return sb.String()
}
