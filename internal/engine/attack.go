package engine

import "github.com/mnoyd/cotulenh-go/internal/core"

// Attacker is one piece able to capture a given square: the square it
// stands on (its stack square, if carried) and the attacking constituent.
type Attacker struct {
	Square core.Square
	Piece  core.Piece
}

// Attackers enumerates every piece of the given colour that can capture
// target. It scans all eight rays outward from the target; every stack
// encountered is flattened and each constituent tested against its own
// capture rules, so carried pieces threaten through deploy captures. The
// routine backs check detection, heroic promotion, and the commander duel.
func Attackers(b *core.Board, target core.Square, by core.Color) []Attacker {
	if !target.OnBoard() {
		return nil
	}
	targetPiece, hasTarget := b.Piece(target)

	var out []Attacker
	scan := func(dir core.Square, diagonal bool) {
		blockers := 0
		for dist := 1; dist <= UnlimitedRange; dist++ {
			s := target + dir*core.Square(dist)
			if !s.OnBoard() {
				return
			}
			occ, ok := b.Piece(s)
			if !ok {
				continue
			}
			if occ.Color == by {
				for _, c := range occ.Flatten() {
					if canCapture(b, c, s, target, dist, diagonal, blockers, targetPiece, hasTarget) {
						out = append(out, Attacker{Square: s, Piece: c})
					}
				}
			}
			blockers++
		}
	}
	for _, dir := range core.OrthDirs {
		scan(dir, false)
	}
	for _, dir := range core.DiagDirs {
		scan(dir, true)
	}
	return out
}

// canCapture tests whether one attacking piece could capture the target
// square from the given distance along a straight ray, with the given
// number of pieces in between.
func canCapture(b *core.Board, attacker core.Piece, from, to core.Square, dist int, diagonal bool, blockers int, target core.Piece, hasTarget bool) bool {
	r := ruleFor(attacker)

	// Commander duel: the enemy commander is capturable at any orthogonal
	// distance along an open line.
	if r.Special&specCommanderDuel != 0 && !diagonal && blockers == 0 &&
		hasTarget && target.Color != attacker.Color && target.Contains(core.Commander) {
		return true
	}

	if diagonal && !r.Diagonal {
		return false
	}
	targetType := core.AnyPieceType
	if hasTarget {
		targetType = target.Type
	}
	if dist > r.captureRangeAgainst(targetType, diagonal) {
		return false
	}
	if blockers > 0 && !r.IgnoreCaptureBlock {
		return false
	}
	if r.Special&specAirTravel != 0 && !airPathOpen(b, attacker.Color, from, to) {
		return false
	}
	return true
}

// airPathOpen walks the flying piece's path and reports whether air defense
// permits reaching the destination at all. Ending inside a single zone is
// still a threat (as a suicide capture); only a second zone kills the path.
func airPathOpen(b *core.Board, c core.Color, from, to core.Square) bool {
	df := sign(to.File() - from.File())
	dr := sign(to.Rank() - from.Rank())
	step := core.Square(dr*16 + df)
	ad := newAirDefenseScan(b, c.Opposite())
	for s := from + step; ; s += step {
		if !s.OnBoard() {
			return false
		}
		if ad.step(s) == adBlocked {
			return false
		}
		if s == to {
			return true
		}
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
