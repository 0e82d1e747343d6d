package core

import (
	"fmt"
	"strconv"
)

// Square is a board coordinate packed as rank<<4 | file over a padded 16x16
// grid, so stepping off the 11x12 playing area is caught by a cheap
// file/rank test instead of per-direction bounds checks.
type Square int

// Board dimensions. Files run a..k, ranks 1..12.
const (
	FileCount = 11
	RankCount = 12

	gridWidth = 16

	// NoSquare marks an absent coordinate (captured commander, empty filter).
	NoSquare Square = -1
)

// MakeSquare builds a square from zero-based file and rank indices.
func MakeSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

// File returns the zero-based file index (0 = file a).
func (s Square) File() int { return int(s) & 0x0F }

// Rank returns the zero-based rank index (0 = rank 1).
func (s Square) Rank() int { return int(s) >> 4 }

// OnBoard reports whether the square lies on the playing area.
func (s Square) OnBoard() bool {
	return s >= 0 && s.File() < FileCount && s.Rank() < RankCount
}

// String returns the algebraic form, e.g. "a1" or "k12".
func (s Square) String() string {
	if !s.OnBoard() {
		return "-"
	}
	return fmt.Sprintf("%c%d", byte('a'+s.File()), s.Rank()+1)
}

// ParseSquare parses an algebraic coordinate such as "f6".
func ParseSquare(text string) (Square, error) {
	if len(text) < 2 || len(text) > 3 {
		return NoSquare, fmt.Errorf("bad square %q", text)
	}
	file := int(text[0] - 'a')
	rank, err := strconv.Atoi(text[1:])
	if err != nil {
		return NoSquare, fmt.Errorf("bad square %q", text)
	}
	sq := MakeSquare(file, rank-1)
	if file < 0 || file >= FileCount || rank < 1 || rank > RankCount {
		return NoSquare, fmt.Errorf("square %q off board", text)
	}
	return sq, nil
}

// Direction offsets on the padded grid.
var (
	OrthDirs = [4]Square{1, -1, gridWidth, -gridWidth}
	DiagDirs = [4]Square{gridWidth + 1, gridWidth - 1, -gridWidth + 1, -gridWidth - 1}
)

// IsDiagonal reports whether dir is one of the four diagonal offsets.
func IsDiagonal(dir Square) bool {
	switch dir {
	case gridWidth + 1, gridWidth - 1, -gridWidth + 1, -gridWidth - 1:
		return true
	}
	return false
}

// FileDist returns the absolute file distance between two squares.
func FileDist(a, b Square) int {
	d := a.File() - b.File()
	if d < 0 {
		return -d
	}
	return d
}

// RankDist returns the absolute rank distance between two squares.
func RankDist(a, b Square) int {
	d := a.Rank() - b.Rank()
	if d < 0 {
		return -d
	}
	return d
}

// Terrain classifies a square for piece placement.
type Terrain int

const (
	Land Terrain = iota
	Water
	Mixed
)

// String returns the string representation of a terrain class.
func (t Terrain) String() string {
	switch t {
	case Water:
		return "Water"
	case Mixed:
		return "Mixed"
	default:
		return "Land"
	}
}

// River ranks (zero-based) and coastal file layout. Files a and b are open
// water, file c is coast, and the river crosses the land files between
// ranks 6 and 7.
const (
	coastFile     = 2
	riverLowRank  = 5
	riverHighRank = 6
)

// TerrainOf returns the static terrain class of a square.
func TerrainOf(s Square) Terrain {
	switch {
	case s.File() < coastFile:
		return Water
	case s.File() == coastFile:
		return Mixed
	case s.Rank() == riverLowRank || s.Rank() == riverHighRank:
		return Mixed
	default:
		return Land
	}
}

// HeavyZone identifies the board half used by the river-crossing rule.
type HeavyZone int

const (
	ZoneNone HeavyZone = iota
	ZoneLower
	ZoneUpper
)

// HeavyZoneOf returns the heavy-zone half of a square. Water files carry no
// zone, so navy lanes are exempt from the crossing restriction.
func HeavyZoneOf(s Square) HeavyZone {
	if s.File() < coastFile {
		return ZoneNone
	}
	if s.Rank() <= riverLowRank {
		return ZoneLower
	}
	return ZoneUpper
}

// Bridge files f and h: the only files on which heavy pieces may cross the
// river.
func IsBridgeFile(file int) bool {
	return file == 5 || file == 7
}
