// Package engine implements the CoTuLenh move legality pipeline: the
// movement rule table, pseudo-legal generation, attack detection, the
// command/undo execution engine, and the deploy session state machine.
package engine

import (
	"github.com/mnoyd/cotulenh-go/internal/core"
)

// UnlimitedRange exceeds the longest possible board line, so a range compare
// against it never fails. Heroic +1 keeps it unlimited.
const UnlimitedRange = 16

// specialRule names the per-type exceptions that cannot be expressed as
// plain range/blocking data.
type specialRule uint8

const (
	// specCommanderDuel: the commander captures the enemy commander at any
	// orthogonal distance, ignoring blocking.
	specCommanderDuel specialRule = 1 << iota
	// specNavyTargetRange: capture range against navy targets differs from
	// the range against everything else.
	specNavyTargetRange
	// specAirTravel: the piece is the flying type constrained by enemy
	// air-defense zones.
	specAirTravel
)

// MoveRule is the static movement profile of a piece type. DiagMoveRange 0
// means diagonal movement, when enabled, uses MoveRange. LandTargetRange is
// the asymmetric capture reach against unlike targets and is only set for
// types carrying specNavyTargetRange.
type MoveRule struct {
	MoveRange          int
	CaptureRange       int
	LandTargetRange    int
	Diagonal           bool
	DiagMoveRange      int
	IgnoreMoveBlock    bool
	IgnoreCaptureBlock bool
	Special            specialRule
}

// NavyLandTargetRange is the navy's shorter capture reach against non-navy
// targets.
const NavyLandTargetRange = 3

var baseRules = map[core.PieceType]MoveRule{
	core.Commander:   {MoveRange: UnlimitedRange, CaptureRange: 1, Special: specCommanderDuel},
	core.Infantry:    {MoveRange: 1, CaptureRange: 1},
	core.Tank:        {MoveRange: 2, CaptureRange: 2},
	core.Militia:     {MoveRange: 1, CaptureRange: 1, Diagonal: true},
	core.Engineer:    {MoveRange: 1, CaptureRange: 1},
	core.Artillery:   {MoveRange: 3, CaptureRange: 3, Diagonal: true, IgnoreCaptureBlock: true},
	core.AntiAir:     {MoveRange: 1, CaptureRange: 1},
	core.Missile:     {MoveRange: 2, CaptureRange: 2, Diagonal: true, DiagMoveRange: 1, IgnoreCaptureBlock: true},
	core.AirForce:    {MoveRange: 4, CaptureRange: 4, Diagonal: true, IgnoreMoveBlock: true, IgnoreCaptureBlock: true, Special: specAirTravel},
	core.Navy:        {MoveRange: 4, CaptureRange: 4, LandTargetRange: NavyLandTargetRange, Special: specNavyTargetRange},
	core.Headquarter: {},
}

// ruleFor resolves the effective rule for a piece: the base profile with the
// heroic bonus applied. Heroic adds one to every range and grants diagonal
// movement; a zero-range piece therefore becomes range one, and an
// unlimited-range piece effectively gains only the diagonal.
func ruleFor(p core.Piece) MoveRule {
	r := baseRules[p.Type]
	if !p.Heroic {
		return r
	}
	r.MoveRange++
	r.CaptureRange++
	if r.LandTargetRange > 0 {
		r.LandTargetRange++
	}
	if r.DiagMoveRange > 0 {
		r.DiagMoveRange++
	}
	r.Diagonal = true
	return r
}

// moveRangeFor returns the movement reach along the given direction kind.
func (r MoveRule) moveRangeFor(diagonal bool) int {
	if !diagonal {
		return r.MoveRange
	}
	if !r.Diagonal {
		return 0
	}
	if r.DiagMoveRange > 0 {
		return r.DiagMoveRange
	}
	return r.MoveRange
}

// captureRangeAgainst returns the capture reach against the given target
// type, honouring the navy's asymmetric like-type rule.
func (r MoveRule) captureRangeAgainst(target core.PieceType, diagonal bool) int {
	if diagonal && !r.Diagonal {
		return 0
	}
	if r.Special&specNavyTargetRange != 0 && target != core.Navy {
		return r.LandTargetRange
	}
	return r.CaptureRange
}
