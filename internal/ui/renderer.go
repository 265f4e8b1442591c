package ui

import (
	"fmt"
	"strings"

	tm "github.com/buger/goterm"

	"github.com/hailam/chessline/internal/board"
)

// Theme defines the terminal color scheme for the board.
type Theme struct {
	LightSquare int
	DarkSquare  int
	LastMove    int
	Check       int
	WhitePiece  int
	BlackPiece  int
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare: tm.WHITE,
		DarkSquare:  tm.CYAN,
		LastMove:    tm.YELLOW,
		Check:       tm.RED,
		WhitePiece:  tm.BLUE,
		BlackPiece:  tm.BLACK,
	}
}

// Renderer turns positions into terminal text.
type Renderer struct {
	theme   *Theme
	flipped bool
	unicode bool
	color   bool
}

// NewRenderer creates a renderer. Color output uses ANSI escapes; plain
// output draws a bordered ASCII board.
func NewRenderer(color, unicode bool) *Renderer {
	return &Renderer{
		theme:   DefaultTheme(),
		unicode: unicode,
		color:   color,
	}
}

// SetFlipped sets whether the board is drawn from Black's side.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// IsFlipped returns true if the board is drawn from Black's side.
func (r *Renderer) IsFlipped() bool {
	return r.flipped
}

// SetUnicode switches between chess glyphs and FEN letters.
func (r *Renderer) SetUnicode(unicode bool) {
	r.unicode = unicode
}

// ranks returns the ranks in top-to-bottom drawing order.
func (r *Renderer) ranks() []board.Rank {
	ranks := make([]board.Rank, 0, 8)
	for i := range 8 {
		if r.flipped {
			ranks = append(ranks, board.Rank(i))
		} else {
			ranks = append(ranks, board.Rank(7-i))
		}
	}
	return ranks
}

// files returns the files in left-to-right drawing order.
func (r *Renderer) files() []board.File {
	files := make([]board.File, 0, 8)
	for i := range 8 {
		if r.flipped {
			files = append(files, board.File(7-i))
		} else {
			files = append(files, board.File(i))
		}
	}
	return files
}

func (r *Renderer) pieceText(pc board.Piece) string {
	if pc.IsNone() {
		return " "
	}
	if r.unicode {
		return pc.Glyph()
	}
	return pc.String()
}

// RenderBoard draws the board with rank and file labels. The last move and
// a king in check are highlighted in color mode.
func (r *Renderer) RenderBoard(pos *board.Position, lastMove board.Move) string {
	if !r.color {
		return r.renderPlain(pos)
	}

	checked := board.NoSquare
	if pos.InCheck() {
		checked = pos.KingSquare(pos.SideToMove())
	}

	var sb strings.Builder
	for _, rank := range r.ranks() {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for _, file := range r.files() {
			sq := board.NewSquare(file, rank)
			pc := pos.PieceAt(sq)

			text := " " + r.pieceText(pc) + " "
			if !pc.IsNone() {
				fg := r.theme.WhitePiece
				if pc.Color == board.Black {
					fg = r.theme.BlackPiece
				}
				text = tm.Bold(tm.Color(text, fg))
			}

			bg := r.theme.LightSquare
			if (int(file)+int(rank))%2 == 0 {
				bg = r.theme.DarkSquare
			}
			switch {
			case sq == checked:
				bg = r.theme.Check
			case lastMove != board.NoMove && (sq == lastMove.From || sq == lastMove.To):
				bg = r.theme.LastMove
			}
			sb.WriteString(tm.Background(text, bg))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  ")
	for _, file := range r.files() {
		fmt.Fprintf(&sb, " %c ", 'a'+byte(file))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Renderer) renderPlain(pos *board.Position) string {
	var sb strings.Builder
	sb.WriteString("  +-----------------+\n")
	for _, rank := range r.ranks() {
		fmt.Fprintf(&sb, "%d |", rank+1)
		for _, file := range r.files() {
			pc := pos.PieceAt(board.NewSquare(file, rank))
			if pc.IsNone() {
				sb.WriteString(" .")
			} else {
				sb.WriteString(" " + r.pieceText(pc))
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("  +-----------------+\n   ")
	for _, file := range r.files() {
		fmt.Fprintf(&sb, " %c", 'a'+byte(file))
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderMoves formats a SAN history as numbered move pairs, starting at
// the given full-move number with the given side to move.
func RenderMoves(san []string, firstMove int, firstSide board.Color) string {
	var sb strings.Builder
	num := firstMove
	i := 0
	if firstSide == board.Black && len(san) > 0 {
		fmt.Fprintf(&sb, "%d... %s", num, san[0])
		num++
		i = 1
	}
	for ; i < len(san); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d. %s", num, san[i])
		if i+1 < len(san) {
			sb.WriteString(" " + san[i+1])
		}
		num++
	}
	return sb.String()
}

// highlight emphasises a status message in color mode.
func (r *Renderer) highlight(msg string, color int) string {
	if !r.color || msg == "" {
		return msg
	}
	return tm.Bold(tm.Color(msg, color))
}
