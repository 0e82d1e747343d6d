package engine

import "github.com/mnoyd/cotulenh-go/internal/core"

// heavyMoveAllowed applies the river-crossing restriction: a heavy piece may
// not move between the two heavy-zone halves unless it keeps to a bridge
// file. Captures are exempt, as are squares with no zone (the water files).
func heavyMoveAllowed(t core.PieceType, from, to core.Square) bool {
	if !t.IsHeavy() {
		return true
	}
	zf, zt := core.HeavyZoneOf(from), core.HeavyZoneOf(to)
	if zf == core.ZoneNone || zt == core.ZoneNone || zf == zt {
		return true
	}
	return from.File() == to.File() && core.IsBridgeFile(from.File())
}

// adStatus is the air-defense verdict for one square of a scanned ray.
type adStatus int

const (
	// adClear: the square is unconstrained.
	adClear adStatus = iota
	// adSuicideOnly: the square lies inside the single zone crossed so far;
	// a move ending here must be a suicide capture.
	adSuicideOnly
	// adBlocked: a second zone has been entered; the ray is dead from here.
	adBlocked
)

// airDefenseScan evaluates enemy air-defense zones incrementally along one
// ray of a flying piece. It tracks the distinct defenders whose zones the
// path has touched: one zone forces suicide captures inside it, a second
// zone (overlapping the first or entered after leaving it) ends the ray.
type airDefenseScan struct {
	board   *core.Board
	enemy   core.Color
	seen    map[core.Square]struct{}
	blocked bool
}

func newAirDefenseScan(b *core.Board, enemy core.Color) *airDefenseScan {
	return &airDefenseScan{board: b, enemy: enemy, seen: make(map[core.Square]struct{})}
}

// step advances the scan to the next square of the ray and returns the
// constraint that applies to moves ending there.
func (a *airDefenseScan) step(s core.Square) adStatus {
	if a.blocked {
		return adBlocked
	}
	covering := a.board.AirDefense(a.enemy, s)
	for _, d := range covering {
		a.seen[d] = struct{}{}
	}
	if len(a.seen) >= 2 {
		a.blocked = true
		return adBlocked
	}
	if len(covering) > 0 {
		return adSuicideOnly
	}
	return adClear
}
