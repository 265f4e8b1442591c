// Package board implements the chess position, legal move generation and make/unmake.
package board

import "fmt"

// File is a board column, 0=a … 7=h.
type File int8

// Rank is a board row, 0=1st rank … 7=8th rank.
type Rank int8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// Square represents a square on the chess board (0-63).
// Squares are indexed in display order: A8=0, H8=7, A1=56, H1=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// AllSquares lists every square in display order.
var AllSquares = func() (all [64]Square) {
	for i := range all {
		all[i] = Square(i)
	}
	return all
}()

// NewSquare creates a square from file and rank.
func NewSquare(file File, rank Rank) Square {
	return Square(int(7-rank)*8 + int(file))
}

// File returns the file of the square.
func (sq Square) File() File {
	return File(sq & 7)
}

// Rank returns the rank of the square.
func (sq Square) Rank() Rank {
	return Rank(7 - sq>>3)
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square reached by moving fileDelta files and rankDelta ranks.
// The second result is false when the destination falls off the board.
func (sq Square) Offset(fileDelta, rankDelta int) (Square, bool) {
	f := int(sq.File()) + fileDelta
	r := int(sq.Rank()) + rankDelta
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(File(f), Rank(r)), true
}

// Mirror returns the square reflected across the board's horizontal midline.
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+byte(sq.File()), '1'+byte(sq.Rank()))
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return NewSquare(File(file), Rank(rank)), nil
}

// Direction is a (file, rank) step.
type Direction struct {
	File, Rank int
}

// Direction sets for each movement pattern.
var (
	KnightDirections = []Direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	BishopDirections = []Direction{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	RookDirections   = []Direction{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	QueenDirections  = []Direction{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	KingDirections   = QueenDirections
)
