package engine

import "github.com/mnoyd/cotulenh-go/internal/core"

// Filters narrows move generation to an origin square and/or piece type.
type Filters struct {
	From  core.Square
	Piece core.PieceType
}

// NoFilter matches every move.
var NoFilter = Filters{From: core.NoSquare, Piece: core.AnyPieceType}

func (f Filters) match(m core.Move) bool {
	if f.From != core.NoSquare && m.From != f.From {
		return false
	}
	return f.Piece == core.AnyPieceType || m.Piece.Type == f.Piece
}

func (f Filters) key() string {
	return f.From.String() + "/" + f.Piece.String()
}

// pseudoLegal produces all pseudo-legal candidates for the side to move.
// While a deploy session is active only the session stack may act, and only
// through deploy (or recombination) moves.
func pseudoLegal(b *core.Board, turn core.Color, session *DeploySession, f Filters) []core.Move {
	var out []core.Move
	if session != nil {
		if stack, ok := b.Piece(session.StackSquare); ok && stack.Color == turn {
			out = deployMoves(b, session.StackSquare, stack, session)
		}
		return filterMoves(out, f)
	}
	b.ForEach(func(sq core.Square, p core.Piece) {
		if p.Color != turn {
			return
		}
		out = append(out, rayMoves(b, sq, p, false)...)
		if p.IsStack() {
			out = append(out, deployMoves(b, sq, p, nil)...)
		}
	})
	return filterMoves(out, f)
}

func filterMoves(moves []core.Move, f Filters) []core.Move {
	if f == NoFilter {
		return moves
	}
	var out []core.Move
	for _, m := range moves {
		if f.match(m) {
			out = append(out, m)
		}
	}
	return out
}

// rayMoves generates the moves of one acting piece from one square: the
// whole stack for a carrier move, an extracted single for a deploy. Each of
// the eight rays is scanned outward, tracking movement and capture blocking
// independently and, for the flying type, the incremental air-defense state.
func rayMoves(b *core.Board, from core.Square, acting core.Piece, deploy bool) []core.Move {
	r := ruleFor(acting)
	var deployFlag core.MoveFlag
	if deploy {
		deployFlag = core.FlagDeploy
	}

	var out []core.Move
	scan := func(dir core.Square, diagonal bool) {
		maxMove := r.moveRangeFor(diagonal)
		limit := r.CaptureRange
		if maxMove > limit {
			limit = maxMove
		}
		duel := r.Special&specCommanderDuel != 0 && !diagonal
		if duel {
			limit = UnlimitedRange
		}
		var ad *airDefenseScan
		if r.Special&specAirTravel != 0 {
			ad = newAirDefenseScan(b, acting.Color.Opposite())
		}
		blockedMove, blockedCap := false, false

		for dist := 1; dist <= limit; dist++ {
			t := from + dir*core.Square(dist)
			if !t.OnBoard() {
				return
			}
			status := adClear
			if ad != nil {
				if status = ad.step(t); status == adBlocked {
					return
				}
			}
			occ, occupied := b.Piece(t)
			switch {
			case !occupied:
				if dist <= maxMove && !blockedMove && status == adClear &&
					acting.Type.CanOccupy(core.TerrainOf(t)) &&
					heavyMoveAllowed(acting.Type, from, t) {
					out = append(out, core.Move{
						From: from, To: t, Piece: acting, Color: acting.Color,
						Flags: core.FlagNormal | deployFlag,
					})
				}
				continue

			case occ.Color == acting.Color:
				// Forming a stack by moving onto a combinable friendly
				// piece. The merged stack stands under its own carrier, so
				// terrain is judged against the combined carrier's type, not
				// the acting piece's. Recombination during a deploy session
				// is handled separately, against the session's deployed
				// squares.
				if !deploy && dist <= maxMove && !blockedMove && status == adClear &&
					heavyMoveAllowed(acting.Type, from, t) {
					merged := core.Combine([]core.Piece{occ, acting})
					if merged.Combined != nil && len(merged.Uncombined) == 0 &&
						merged.Combined.Type.CanOccupy(core.TerrainOf(t)) {
						out = append(out, core.Move{
							From: from, To: t, Piece: acting, Color: acting.Color,
							Flags: core.FlagCombination,
						})
					}
				}

			default: // enemy
				canCap := dist <= r.captureRangeAgainst(occ.Type, diagonal) &&
					(!blockedCap || r.IgnoreCaptureBlock)
				if duel && !blockedCap && occ.Contains(core.Commander) {
					canCap = true
				}
				if canCap {
					victim := occ.Clone()
					base := core.Move{
						From: from, To: t, Piece: acting, Color: acting.Color,
						Captured: &victim,
					}
					switch {
					case status == adSuicideOnly:
						base.Flags = core.FlagSuicideCapture | deployFlag
						out = append(out, base)
					case acting.Type.CanOccupy(core.TerrainOf(t)):
						base.Flags = core.FlagCapture | deployFlag
						out = append(out, base)
					case acting.Type == core.AirForce:
						// The flyer may either land on the incompatible
						// square or strike without moving; both are emitted.
						land := base
						land.Flags = core.FlagCapture | deployFlag
						stay := base
						stay.Flags = core.FlagStayCapture | deployFlag
						out = append(out, land, stay)
					default:
						base.Flags = core.FlagStayCapture | deployFlag
						out = append(out, base)
					}
				}
			}

			if !r.IgnoreMoveBlock {
				blockedMove = true
			}
			if !r.IgnoreCaptureBlock {
				blockedCap = true
			}
			if blockedMove && blockedCap && !duel {
				return
			}
		}
	}

	for _, dir := range core.OrthDirs {
		scan(dir, false)
	}
	if r.Diagonal {
		for _, dir := range core.DiagDirs {
			scan(dir, true)
		}
	}
	return out
}

// deployMoves generates deploy candidates for every constituent of the
// stack that has not yet acted in the session, plus recombination moves
// onto squares holding pieces deployed earlier this session.
func deployMoves(b *core.Board, sq core.Square, stack core.Piece, session *DeploySession) []core.Move {
	cons := stack.Flatten()
	avail := availableConstituents(cons, session)

	var out []core.Move
	for i, c := range cons {
		if !avail[i] {
			continue
		}
		moves := rayMoves(b, sq, c, true)
		if i == 0 && len(cons) > 1 {
			// Deploying the carrier strands the carried pieces unless they
			// can re-form a stack whose own carrier may hold the square.
			// Stay captures keep the carrier in place and are always fine.
			if !remainderHolds(cons[1:], core.TerrainOf(sq)) {
				moves = keepStayCaptures(moves)
			}
		}
		out = append(out, moves...)
		if session != nil {
			out = append(out, recombinationMoves(b, sq, c, session)...)
		}
	}
	return out
}

// availableConstituents marks which stack constituents may still act:
// pieces already the subject of a session action, and pieces declared as
// staying, are consumed from the multiset. Matching ignores the heroic flag:
// a stay-capture actor can be promoted while still standing on the stack
// square, and must not be re-offered under its new flag.
func availableConstituents(cons []core.Piece, session *DeploySession) []bool {
	avail := make([]bool, len(cons))
	for i := range avail {
		avail[i] = true
	}
	if session == nil {
		return avail
	}
	consume := func(p core.Piece) {
		for i, c := range cons {
			if avail[i] && c.Type == p.Type && c.Color == p.Color {
				avail[i] = false
				return
			}
		}
	}
	for _, a := range session.actedPieces() {
		consume(a)
	}
	for _, s := range session.Stay {
		consume(s)
	}
	return avail
}

// remainderHolds reports whether the pieces left behind by a carrier deploy
// re-form a stack whose carrier can occupy the terrain they stand on.
func remainderHolds(rest []core.Piece, terrain core.Terrain) bool {
	res := core.Combine(rest)
	return res.Combined != nil && len(res.Uncombined) == 0 &&
		res.Combined.Type.CanOccupy(terrain)
}

func keepStayCaptures(moves []core.Move) []core.Move {
	var out []core.Move
	for _, m := range moves {
		if m.Flags.Has(core.FlagStayCapture) {
			out = append(out, m)
		}
	}
	return out
}

// recombinationMoves reunites a not-yet-moved constituent with a piece
// deployed earlier this session, when ordinary movement rules let it reach
// that square and the oracle accepts the grouping. Terrain is not
// re-validated: the destination carrier's rules govern the stack.
func recombinationMoves(b *core.Board, sq core.Square, c core.Piece, session *DeploySession) []core.Move {
	var out []core.Move
	for _, t := range session.deployedSquares() {
		occ, ok := b.Piece(t)
		if !ok || occ.Color != c.Color {
			continue
		}
		if !canReach(b, sq, c, t) || !core.CanCombine([]core.Piece{occ, c}) {
			continue
		}
		out = append(out, core.Move{
			From: sq, To: t, Piece: c, Color: c.Color,
			Flags: core.FlagDeploy | core.FlagCombination,
		})
	}
	return out
}

// canReach reports whether a plain move by the acting piece from one square
// to another would be permitted by range, blocking, river, and air-defense
// rules, ignoring the occupancy of the destination itself.
func canReach(b *core.Board, from core.Square, acting core.Piece, to core.Square) bool {
	dir, dist, straight := rayBetween(from, to)
	if !straight {
		return false
	}
	diagonal := core.IsDiagonal(dir)
	r := ruleFor(acting)
	if dist > r.moveRangeFor(diagonal) {
		return false
	}
	if !heavyMoveAllowed(acting.Type, from, to) {
		return false
	}
	var ad *airDefenseScan
	if r.Special&specAirTravel != 0 {
		ad = newAirDefenseScan(b, acting.Color.Opposite())
	}
	for d := 1; d <= dist; d++ {
		s := from + dir*core.Square(d)
		if ad != nil && ad.step(s) != adClear {
			return false
		}
		if s == to {
			break
		}
		if _, occupied := b.Piece(s); occupied && !r.IgnoreMoveBlock {
			return false
		}
	}
	return true
}

// rayBetween resolves the straight-line direction and distance between two
// squares, if they share a rank, file, or diagonal.
func rayBetween(from, to core.Square) (core.Square, int, bool) {
	df := to.File() - from.File()
	dr := to.Rank() - from.Rank()
	switch {
	case df == 0 && dr == 0:
		return 0, 0, false
	case df == 0 || dr == 0 || df == dr || df == -dr:
		dist := core.FileDist(from, to)
		if dist == 0 {
			dist = core.RankDist(from, to)
		}
		return core.Square(sign(dr)*16 + sign(df)), dist, true
	default:
		return 0, 0, false
	}
}
