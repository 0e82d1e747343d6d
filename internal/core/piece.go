package core

import "strings"

// Piece is a piece or a one-level stack: a carrier plus the single pieces it
// carries. Carried pieces never carry anything themselves, and every piece
// in a stack shares the carrier's colour. Pieces are value types; cloning a
// piece copies its carried list.
type Piece struct {
	Type     PieceType
	Color    Color
	Heroic   bool
	Carrying []Piece
}

// NewPiece returns a plain (non-heroic, uncarrying) piece.
func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

// IsStack reports whether the piece carries anything.
func (p Piece) IsStack() bool { return len(p.Carrying) > 0 }

// Single returns a copy of the piece without its carried list.
func (p Piece) Single() Piece {
	p.Carrying = nil
	return p
}

// Clone returns a deep copy of the piece and its carried list.
func (p Piece) Clone() Piece {
	if p.Carrying == nil {
		return p
	}
	carried := make([]Piece, len(p.Carrying))
	copy(carried, p.Carrying)
	p.Carrying = carried
	return p
}

// Flatten returns the carrier followed by each carried piece, all as
// singles.
func (p Piece) Flatten() []Piece {
	out := make([]Piece, 0, 1+len(p.Carrying))
	out = append(out, p.Single())
	for _, c := range p.Carrying {
		out = append(out, c.Single())
	}
	return out
}

// Contains reports whether the stack holds a piece of the given type.
func (p Piece) Contains(t PieceType) bool {
	if p.Type == t {
		return true
	}
	for _, c := range p.Carrying {
		if c.Type == t {
			return true
		}
	}
	return false
}

// SameKind reports whether two singles agree on type, colour, and heroic
// status. Used for multiset accounting during deploys.
func SameKind(a, b Piece) bool {
	return a.Type == b.Type && a.Color == b.Color && a.Heroic == b.Heroic
}

// String returns the notation form of the piece, e.g. "T", "+F", "(NTI)".
// Red pieces are uppercase.
func (p Piece) String() string {
	var sb strings.Builder
	if p.IsStack() {
		sb.WriteByte('(')
	}
	writeLetter(&sb, p)
	for _, c := range p.Carrying {
		writeLetter(&sb, c)
	}
	if p.IsStack() {
		sb.WriteByte(')')
	}
	return sb.String()
}

func writeLetter(sb *strings.Builder, p Piece) {
	if p.Heroic {
		sb.WriteByte('+')
	}
	l := p.Type.Letter()
	if p.Color == Blue {
		l = l - 'A' + 'a'
	}
	sb.WriteByte(l)
}
