package board

// Zobrist keys for repetition detection.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [4]uint64        // White O-O, White O-O-O, Black O-O, Black O-O-O
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for _, sq := range AllSquares {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}

	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// Hash computes a Zobrist key of the position from scratch. Two positions
// with the same placement, side to move, castling rights and en passant
// square hash equal; piece IDs, clocks and history are ignored. The en
// passant square only counts when a legal en passant capture exists.
func (p *Position) Hash() uint64 {
	var hash uint64

	for sq, pc := range p.Pieces() {
		hash ^= zobristPiece[pc.Color][pc.Type][sq]
	}

	if p.turn == Black {
		hash ^= zobristSideToMove
	}

	for c := White; c <= Black; c++ {
		if p.castling[c].Kingside {
			hash ^= zobristCastling[2*int(c)]
		}
		if p.castling[c].Queenside {
			hash ^= zobristCastling[2*int(c)+1]
		}
	}

	if p.enPassant != NoSquare && p.canCaptureEnPassant() {
		hash ^= zobristEnPassant[p.enPassant.File()]
	}

	return hash
}

func (p *Position) canCaptureEnPassant() bool {
	captures, _ := p.GetMoves(true)
	for _, m := range captures {
		if m.IsEnPassant() {
			return true
		}
	}
	return false
}
