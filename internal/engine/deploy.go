package engine

import (
	"strings"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

// DeploySession tracks an in-progress multi-step deploy turn. It exists
// from the first deploy move out of a stack until every piece originally in
// the stack is accounted for, either as the subject of a recorded action or
// as an explicitly staying piece. History snapshots hold clones, so a live
// session is never mutated across a boundary undo cannot see.
type DeploySession struct {
	StackSquare core.Square
	Turn        core.Color
	Original    core.Piece
	Actions     []core.Move
	Stay        []core.Piece
}

// Clone returns a deep copy of the session.
func (s *DeploySession) Clone() *DeploySession {
	if s == nil {
		return nil
	}
	out := &DeploySession{
		StackSquare: s.StackSquare,
		Turn:        s.Turn,
		Original:    s.Original.Clone(),
		Actions:     make([]core.Move, len(s.Actions)),
		Stay:        make([]core.Piece, len(s.Stay)),
	}
	for i, m := range s.Actions {
		m.Piece = m.Piece.Clone()
		if m.Captured != nil {
			cap := m.Captured.Clone()
			m.Captured = &cap
		}
		out.Actions[i] = m
	}
	copy(out.Stay, s.Stay)
	return out
}

// actedPieces returns the singles that have been the subject of a session
// action so far.
func (s *DeploySession) actedPieces() []core.Piece {
	out := make([]core.Piece, 0, len(s.Actions))
	for _, m := range s.Actions {
		out = append(out, m.Piece.Single())
	}
	return out
}

// deployedSquares returns the distinct squares now holding pieces deployed
// this session; these are the recombination targets.
func (s *DeploySession) deployedSquares() []core.Square {
	var out []core.Square
	seen := make(map[core.Square]bool)
	for _, m := range s.Actions {
		if m.Flags.Has(core.FlagStayCapture) || m.Flags.Has(core.FlagSuicideCapture) {
			continue
		}
		if !seen[m.To] {
			seen[m.To] = true
			out = append(out, m.To)
		}
	}
	return out
}

// complete reports whether every original piece is accounted for. A count
// overshoot means the generator or the caller broke the session invariant;
// that is unrecoverable, not a user error.
func (s *DeploySession) complete() (bool, error) {
	total := len(s.Original.Flatten())
	accounted := len(s.Actions) + len(s.Stay)
	if accounted > total {
		return false, errors.Wrapf(errors.ErrDeployInvariant,
			"%d pieces accounted for in a stack of %d", accounted, total)
	}
	return accounted == total, nil
}

// key is the session's contribution to the move-cache key.
func (s *DeploySession) key() string {
	if s == nil {
		return "-"
	}
	var sb strings.Builder
	sb.WriteString(s.StackSquare.String())
	sb.WriteByte(':')
	for _, p := range s.actedPieces() {
		sb.WriteByte(p.Type.Letter())
	}
	sb.WriteByte(':')
	for _, p := range s.Stay {
		sb.WriteByte(p.Type.Letter())
	}
	return sb.String()
}

// hadCapture reports whether any session action captured, for the halfmove
// clock once the whole deploy turn commits.
func (s *DeploySession) hadCapture() bool {
	for _, m := range s.Actions {
		if m.Flags.IsCapture() {
			return true
		}
	}
	return false
}

// DeployBatch is a whole deploy turn submitted at once: the moves to make
// and the piece types that stay behind on the stack square.
type DeployBatch struct {
	Moves []core.Move
	Stay  []core.PieceType
}

// DeployMove applies a batch of deploy steps. The batch is atomic: if any
// step is rejected, steps already applied are undone before returning.
func (p *Position) DeployMove(batch DeployBatch) error {
	applied := 0
	rollback := func() {
		for i := 0; i < applied; i++ {
			_ = p.Undo()
		}
	}
	for _, m := range batch.Moves {
		if err := p.ApplyMove(m); err != nil {
			rollback()
			return err
		}
		applied++
	}
	if len(batch.Stay) > 0 {
		if err := p.declareStay(batch.Stay); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// declareStay marks the given piece types as staying on the stack square.
// Like a deploy move it is recorded as its own history entry, so a single
// Undo removes the declaration.
func (p *Position) declareStay(types []core.PieceType) error {
	if p.session == nil {
		return errors.ErrNoDeploySession
	}
	stack, ok := p.board.Piece(p.session.StackSquare)
	if !ok {
		return errors.Wrapf(errors.ErrDeployInvariant, "no stack on %s", p.session.StackSquare)
	}
	cons := stack.Flatten()
	avail := availableConstituents(cons, p.session)
	var chosen []core.Piece
	for _, t := range types {
		found := false
		for i, c := range cons {
			if avail[i] && c.Type == t {
				avail[i] = false
				chosen = append(chosen, c)
				found = true
				break
			}
		}
		if !found {
			return errors.Wrapf(errors.ErrIllegalMove, "no %s free to stay on %s", t, p.session.StackSquare)
		}
	}

	snap := p.snapshot()
	stackSq := p.session.StackSquare
	p.session.Stay = append(p.session.Stay, chosen...)
	done, err := p.session.complete()
	if err != nil {
		p.session = snap.session
		return err
	}
	if done {
		p.commitSession()
	}
	cmd := newCommand(core.Move{From: stackSq, To: stackSq, Color: snap.turn})
	cmd.actions = []action{}
	p.push(historyEntry{cmd: cmd, snap: snap})
	p.logger.Debug().Int("staying", len(chosen)).Msg("deploy stay declared")
	return nil
}

// CancelDeploySession abandons the active session: every recorded step is
// undone in reverse order and the pre-deploy turn is restored.
func (p *Position) CancelDeploySession() error {
	if p.session == nil {
		return errors.ErrNoDeploySession
	}
	p.logger.Debug().Stringer("stack", p.session.StackSquare).Msg("deploy session cancelled")
	for p.session != nil {
		if err := p.Undo(); err != nil {
			return err
		}
	}
	return nil
}
