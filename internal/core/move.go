package core

// MoveFlag classifies a move. Flags are bits; a move may carry several
// (a deploy capture, a recombination).
type MoveFlag uint8

const (
	FlagNormal MoveFlag = 1 << iota
	FlagCapture
	FlagStayCapture
	FlagSuicideCapture
	FlagDeploy
	FlagCombination
)

// Has reports whether all bits of f2 are set.
func (f MoveFlag) Has(f2 MoveFlag) bool { return f&f2 == f2 }

// IsCapture reports whether the move removes an enemy piece in any form.
func (f MoveFlag) IsCapture() bool {
	return f&(FlagCapture|FlagStayCapture|FlagSuicideCapture) != 0
}

// Move is the engine-internal move record. Piece is the acting piece: the
// whole stack for a carrier move, the extracted single for a deploy.
type Move struct {
	From     Square
	To       Square
	Piece    Piece
	Color    Color
	Flags    MoveFlag
	Captured *Piece
}

// Matches reports whether the move answers a request for the given origin,
// destination, piece type, and flag subset. Origin NoSquare and type
// AnyPieceType are wildcards. This is the matching contract used by the
// move-input parser.
func (m Move) Matches(from, to Square, t PieceType, flags MoveFlag) bool {
	if from != NoSquare && m.From != from {
		return false
	}
	if m.To != to {
		return false
	}
	if t != AnyPieceType && m.Piece.Type != t {
		return false
	}
	return m.Flags.Has(flags)
}
