package engine

import (
	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

// action is one atomic, independently reversible board mutation. Actions
// hold value snapshots of the pieces they touch, never references into live
// state, and re-query the board at the moment they run.
type action interface {
	apply(b *core.Board) error
	revert(b *core.Board) error
}

// removeAction clears a square; the removed piece is snapshotted for undo.
type removeAction struct {
	Sq    core.Square
	Piece core.Piece
}

func (a removeAction) apply(b *core.Board) error {
	if _, ok := b.Remove(a.Sq); !ok {
		return errors.Wrapf(errors.ErrDeployInvariant, "remove from empty square %s", a.Sq)
	}
	return nil
}

func (a removeAction) revert(b *core.Board) error {
	b.Put(a.Sq, a.Piece.Clone())
	return nil
}

// placeAction puts a piece on an empty square.
type placeAction struct {
	Sq    core.Square
	Piece core.Piece
}

func (a placeAction) apply(b *core.Board) error {
	if _, ok := b.Piece(a.Sq); ok {
		return errors.Wrapf(errors.ErrDeployInvariant, "place on occupied square %s", a.Sq)
	}
	b.Put(a.Sq, a.Piece.Clone())
	return nil
}

func (a placeAction) revert(b *core.Board) error {
	if _, ok := b.Remove(a.Sq); !ok {
		return errors.Wrapf(errors.ErrDeployInvariant, "revert place on empty square %s", a.Sq)
	}
	return nil
}

// replaceAction swaps the piece on a square for another: stack splits,
// stack merges, and heroic flag changes all reduce to this.
type replaceAction struct {
	Sq     core.Square
	Before core.Piece
	After  core.Piece
}

func (a replaceAction) apply(b *core.Board) error {
	if _, ok := b.Piece(a.Sq); !ok {
		return errors.Wrapf(errors.ErrDeployInvariant, "replace on empty square %s", a.Sq)
	}
	b.Put(a.Sq, a.After.Clone())
	return nil
}

func (a replaceAction) revert(b *core.Board) error {
	b.Put(a.Sq, a.Before.Clone())
	return nil
}

// command aggregates the actions of one move. The action list is a pure
// function of the move's flag bits and the board at build time; execution
// is all-or-nothing.
type command struct {
	move    core.Move
	actions []action
}

func newCommand(m core.Move) *command {
	return &command{move: m}
}

func (c *command) execute(b *core.Board) error {
	if c.actions == nil {
		if err := c.build(b); err != nil {
			return err
		}
	}
	for i, a := range c.actions {
		if err := a.apply(b); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.actions[j].revert(b)
			}
			return err
		}
	}
	return nil
}

func (c *command) undo(b *core.Board) error {
	for i := len(c.actions) - 1; i >= 0; i-- {
		if err := c.actions[i].revert(b); err != nil {
			return err
		}
	}
	return nil
}

// build decomposes the move into actions, dispatching on its flag bits
// only. Dispatch must stay independent of ambient session state; the deploy
// session is advanced by the position, outside the command.
func (c *command) build(b *core.Board) error {
	m := c.move
	mover, hasMover := b.Piece(m.From)
	if !hasMover {
		return errors.Wrapf(errors.ErrIllegalMove, "no piece on %s", m.From)
	}

	switch {
	case m.Flags.Has(core.FlagDeploy | core.FlagCombination):
		target, ok := b.Piece(m.To)
		if !ok {
			return errors.Wrapf(errors.ErrIllegalMove, "recombination onto empty %s", m.To)
		}
		split, err := splitActions(b, m.From, m.Piece)
		if err != nil {
			return err
		}
		merged := core.Combine([]core.Piece{target, m.Piece.Single()})
		if merged.Combined == nil || len(merged.Uncombined) > 0 {
			return errors.Wrapf(errors.ErrStackCombination, "%s + %s", target, m.Piece)
		}
		c.actions = append(split, replaceAction{Sq: m.To, Before: target.Clone(), After: *merged.Combined})

	case m.Flags.Has(core.FlagDeploy):
		switch {
		case m.Flags.Has(core.FlagStayCapture):
			// The deployed piece strikes without leaving the stack.
			c.actions = append(c.actions, captureActions(b, m.To)...)
		case m.Flags.Has(core.FlagSuicideCapture):
			split, err := splitActions(b, m.From, m.Piece)
			if err != nil {
				return err
			}
			c.actions = append(captureActions(b, m.To), split...)
		case m.Flags.Has(core.FlagCapture):
			split, err := splitActions(b, m.From, m.Piece)
			if err != nil {
				return err
			}
			c.actions = append(captureActions(b, m.To), split...)
			c.actions = append(c.actions, placeAction{Sq: m.To, Piece: m.Piece.Single()})
		default:
			split, err := splitActions(b, m.From, m.Piece)
			if err != nil {
				return err
			}
			c.actions = append(split, placeAction{Sq: m.To, Piece: m.Piece.Single()})
		}

	case m.Flags.Has(core.FlagCombination):
		target, ok := b.Piece(m.To)
		if !ok {
			return errors.Wrapf(errors.ErrIllegalMove, "combination onto empty %s", m.To)
		}
		merged := core.Combine([]core.Piece{target, mover})
		if merged.Combined == nil || len(merged.Uncombined) > 0 {
			return errors.Wrapf(errors.ErrStackCombination, "%s + %s", target, mover)
		}
		c.actions = []action{
			removeAction{Sq: m.From, Piece: mover.Clone()},
			replaceAction{Sq: m.To, Before: target.Clone(), After: *merged.Combined},
		}

	case m.Flags.Has(core.FlagStayCapture):
		c.actions = captureActions(b, m.To)

	case m.Flags.Has(core.FlagSuicideCapture):
		c.actions = append(captureActions(b, m.To), removeAction{Sq: m.From, Piece: mover.Clone()})

	case m.Flags.Has(core.FlagCapture):
		c.actions = append(captureActions(b, m.To),
			removeAction{Sq: m.From, Piece: mover.Clone()},
			placeAction{Sq: m.To, Piece: mover.Clone()})

	default:
		c.actions = []action{
			removeAction{Sq: m.From, Piece: mover.Clone()},
			placeAction{Sq: m.To, Piece: mover.Clone()},
		}
	}
	return nil
}

func captureActions(b *core.Board, sq core.Square) []action {
	victim, ok := b.Piece(sq)
	if !ok {
		// Caught by removeAction.apply at execution time.
		return []action{removeAction{Sq: sq}}
	}
	return []action{removeAction{Sq: sq, Piece: victim.Clone()}}
}

// splitActions extracts one constituent from the piece at sq: a removal for
// a lone piece, otherwise a replace that leaves the recombined remainder.
func splitActions(b *core.Board, sq core.Square, deployed core.Piece) ([]action, error) {
	cur, ok := b.Piece(sq)
	if !ok {
		return nil, errors.Wrapf(errors.ErrIllegalMove, "no stack on %s", sq)
	}
	if !cur.IsStack() {
		return []action{removeAction{Sq: sq, Piece: cur.Clone()}}, nil
	}
	cons := cur.Flatten()
	idx := -1
	for i, p := range cons {
		if core.SameKind(p, deployed.Single()) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Wrapf(errors.ErrIllegalMove, "%s not in stack on %s", deployed, sq)
	}
	remainder := make([]core.Piece, 0, len(cons)-1)
	remainder = append(remainder, cons[:idx]...)
	remainder = append(remainder, cons[idx+1:]...)

	var after core.Piece
	if len(remainder) == 1 {
		after = remainder[0]
	} else {
		res := core.Combine(remainder)
		if res.Combined == nil || len(res.Uncombined) > 0 {
			return nil, errors.Wrapf(errors.ErrStackCombination, "remainder of %s after deploying %s", cur, deployed)
		}
		after = *res.Combined
	}
	return []action{replaceAction{Sq: sq, Before: cur.Clone(), After: after}}, nil
}

// promote runs heroic promotion as part of the executing command: every
// non-heroic piece now attacking the enemy commander is flagged, through
// actions appended to the command so undo reverses them with the move.
func (c *command) promote(b *core.Board) error {
	enemy := c.move.Color.Opposite()
	cSq := b.Commander(enemy)
	if cSq == core.NoSquare {
		return nil
	}
	for _, atk := range Attackers(b, cSq, c.move.Color) {
		if atk.Piece.Heroic {
			continue
		}
		cur, ok := b.Piece(atk.Square)
		if !ok {
			continue
		}
		after, changed := withHeroic(cur, atk.Piece.Type)
		if !changed {
			continue
		}
		a := replaceAction{Sq: atk.Square, Before: cur.Clone(), After: after}
		if err := a.apply(b); err != nil {
			return err
		}
		c.actions = append(c.actions, a)
	}
	return nil
}

// withHeroic returns a copy of the stack with its first non-heroic
// constituent of the given type promoted.
func withHeroic(stack core.Piece, t core.PieceType) (core.Piece, bool) {
	out := stack.Clone()
	if out.Type == t && !out.Heroic {
		out.Heroic = true
		return out, true
	}
	for i := range out.Carrying {
		if out.Carrying[i].Type == t && !out.Carrying[i].Heroic {
			out.Carrying[i].Heroic = true
			return out, true
		}
	}
	return stack, false
}
