package engine

import (
	"fmt"
	"strings"

	"github.com/mnoyd/cotulenh-go/internal/core"
)

// FormatBoard renders the board as fixed-width text for logs and the CLI,
// ranks 12 down to 1 with file letters underneath. Stacks print in their
// parenthesised notation form.
func FormatBoard(b *core.Board) string {
	var sb strings.Builder
	for rank := core.RankCount - 1; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%2d ", rank+1)
		for file := 0; file < core.FileCount; file++ {
			cell := "."
			if piece, ok := b.Piece(core.MakeSquare(file, rank)); ok {
				cell = piece.String()
			}
			fmt.Fprintf(&sb, " %-5s", cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for file := 0; file < core.FileCount; file++ {
		fmt.Fprintf(&sb, " %-5c", 'a'+file)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// String renders the position: the board, whose turn it is, and the state
// of any in-progress deploy session.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString(FormatBoard(p.board))
	fmt.Fprintf(&sb, "%s to move", p.turn)
	if p.session != nil {
		fmt.Fprintf(&sb, ", deploying from %s", p.session.StackSquare)
	}
	sb.WriteByte('\n')
	return sb.String()
}
