package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares; bit i corresponds to Square(i).
type Bitboard uint64

// Empty is the bitboard with no squares set.
const Empty Bitboard = 0

// Set returns the bitboard with sq added.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear returns the bitboard with sq removed.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// Has returns true if sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// Squares returns the members of the set in display order.
func (b Bitboard) Squares() []Square {
	sqs := make([]Square, 0, b.PopCount())
	for b != 0 {
		sq := Square(bits.TrailingZeros64(uint64(b)))
		sqs = append(sqs, sq)
		b &= b - 1
	}
	return sqs
}

// String returns an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for i, sq := range AllSquares {
		if b.Has(sq) {
			sb.WriteString("X ")
		} else {
			sb.WriteString(". ")
		}
		if i%8 == 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
