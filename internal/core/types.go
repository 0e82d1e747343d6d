// Package core provides the board, piece, and move primitives for the
// CoTuLenh rules engine.
package core

// Color represents the colour of a piece or player.
type Color int

const (
	Red Color = iota
	Blue
)

// String returns the string representation of a colour.
func (c Color) String() string {
	if c == Red {
		return "Red"
	}
	return "Blue"
}

// Opposite returns the opposite colour.
func (c Color) Opposite() Color {
	if c == Red {
		return Blue
	}
	return Red
}

// PieceType identifies one of the eleven CoTuLenh piece types.
type PieceType int

const (
	Commander PieceType = iota
	Infantry
	Tank
	Militia
	Engineer
	Artillery
	AntiAir
	Missile
	AirForce
	Navy
	Headquarter
	NumPieceTypes
)

// AnyPieceType is the wildcard value used by move filters.
const AnyPieceType PieceType = -1

var pieceNames = []string{
	"Commander", "Infantry", "Tank", "Militia", "Engineer", "Artillery",
	"AntiAir", "Missile", "AirForce", "Navy", "Headquarter",
}

var pieceLetters = []byte{'C', 'I', 'T', 'M', 'E', 'A', 'G', 'S', 'F', 'N', 'H'}

// String returns the string representation of a piece type.
func (t PieceType) String() string {
	if t >= 0 && int(t) < len(pieceNames) {
		return pieceNames[t]
	}
	return "Unknown"
}

// Letter returns the single uppercase letter used in FEN and move notation.
func (t PieceType) Letter() byte {
	if t >= 0 && int(t) < len(pieceLetters) {
		return pieceLetters[t]
	}
	return '?'
}

// PieceTypeFromLetter maps an uppercase notation letter back to a piece type.
func PieceTypeFromLetter(c byte) (PieceType, bool) {
	for i, l := range pieceLetters {
		if l == c {
			return PieceType(i), true
		}
	}
	return 0, false
}

// AirDefenseLevel returns the base air-defense radius projected by the type,
// or 0 for types that project no zone.
func (t PieceType) AirDefenseLevel() int {
	switch t {
	case AntiAir, Navy:
		return 1
	case Missile:
		return 2
	default:
		return 0
	}
}

// IsHeavy reports whether the type is subject to the river-crossing
// restriction between the two heavy-zone halves.
func (t PieceType) IsHeavy() bool {
	switch t {
	case Artillery, Missile, AntiAir:
		return true
	default:
		return false
	}
}

// CanOccupy reports whether a piece of this type may stand on the given
// terrain. AirForce may land anywhere but pure water; Navy needs water
// access; everything else keeps to land.
func (t PieceType) CanOccupy(terrain Terrain) bool {
	switch t {
	case Navy:
		return terrain == Water || terrain == Mixed
	default:
		return terrain == Land || terrain == Mixed
	}
}
