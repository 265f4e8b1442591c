// Package notation converts between board moves and human move text.
//
// Coordinate (UCI) input is matched directly against the legal moves of a
// position. Standard Algebraic Notation is decoded with notnil/chess and then
// mapped back onto the matching legal board.Move.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"github.com/notnil/chess/opening"

	"github.com/hailam/chessline/internal/board"
)

// Sentinel errors for move parsing.
var (
	ErrIllegalMove = errors.New("illegal move")
	ErrAmbiguous   = errors.New("ambiguous move")
)

var ecoBook = opening.NewBookECO()

// ParseMove reads a move in UCI ("g1f3", "e7e8q") or SAN ("Nf3", "exd6",
// "O-O", "e8=Q+") form and returns the matching legal move of pos.
func ParseMove(pos *board.Position, text string) (board.Move, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return board.NoMove, fmt.Errorf("%w: empty input", ErrIllegalMove)
	}

	if m, err := board.ParseMove(strings.ToLower(text), pos); err == nil {
		return m, nil
	}

	game, err := gameAt(pos)
	if err != nil {
		return board.NoMove, err
	}

	var decoded *chess.Move
	for _, san := range sanVariants(normaliseSAN(text)) {
		if mv, err := (chess.AlgebraicNotation{}).Decode(game.Position(), san); err == nil {
			decoded = mv
			break
		}
	}
	if decoded == nil {
		if n := countSANCandidates(pos, text); n > 1 {
			return board.NoMove, fmt.Errorf("%w: %q matches %d moves", ErrAmbiguous, text, n)
		}
		return board.NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}

	m, err := board.ParseMove(decoded.String(), pos)
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}
	return m, nil
}

// gameAt builds a notnil/chess game standing on pos.
func gameAt(pos *board.Position) (*chess.Game, error) {
	fen, err := chess.FEN(pos.ToFEN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
	}
	return chess.NewGame(fen), nil
}

// normaliseSAN accepts zero-based castling and strips annotation glyphs.
func normaliseSAN(s string) string {
	switch strings.TrimRight(s, "+#!?") {
	case "0-0":
		return "O-O"
	case "0-0-0":
		return "O-O-O"
	}
	return strings.TrimRight(s, "!?")
}

// sanVariants lists san as written followed by its forms with the check
// suffix dropped or added, since the decoder matches suffixes exactly.
func sanVariants(san string) []string {
	bare := strings.TrimRight(san, "+#")
	variants := []string{san}
	for _, v := range []string{bare, bare + "+", bare + "#"} {
		if v != san {
			variants = append(variants, v)
		}
	}
	return variants
}

// countSANCandidates counts legal moves of the named piece type to the
// destination square in s, ignoring any disambiguation.
func countSANCandidates(pos *board.Position, s string) int {
	s = strings.TrimRight(s, "+#!?")
	if i := strings.IndexByte(s, '='); i >= 0 {
		s = s[:i]
	}
	if len(s) < 2 {
		return 0
	}
	dest, err := board.ParseSquare(s[len(s)-2:])
	if err != nil {
		return 0
	}

	pt := board.Pawn
	switch s[0] {
	case 'N':
		pt = board.Knight
	case 'B':
		pt = board.Bishop
	case 'R':
		pt = board.Rook
	case 'Q':
		pt = board.Queen
	case 'K':
		pt = board.King
	}

	moves, _ := pos.GetMoves(false)
	seen := make(map[board.Square]bool)
	for _, m := range moves {
		if m.To == dest && pos.PieceAt(m.From).Type == pt {
			seen[m.From] = true
		}
	}
	return len(seen)
}

// OpeningName returns the ECO code and name of the longest opening matching a
// game played from the standard starting position, or "" if none matches.
func OpeningName(history []board.Move) string {
	if len(history) == 0 {
		return ""
	}

	game := chess.NewGame()
	for _, m := range history {
		mv, err := chess.UCINotation{}.Decode(game.Position(), m.String())
		if err != nil {
			return ""
		}
		if err := game.Move(mv); err != nil {
			return ""
		}
	}

	op := ecoBook.Find(game.Moves())
	if op == nil {
		return ""
	}
	return op.Code() + " " + op.Title()
}
