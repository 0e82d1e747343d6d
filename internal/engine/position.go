package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

// StartFEN is the standard CoTuLenh starting position.
const StartFEN = "4hcs4/nn1a3a3/2ftge1tf2/2miiiiim2/11/11/11/11/2MIIIIIM2/2FTGE1TF2/NN1A3A3/4HCS4 r - - 0 1"

// Position is one mutable game position: the board, whose turn it is, the
// clocks, the active deploy session, and the undo history. A Position is
// not safe for concurrent use; the engine is strictly single-threaded.
type Position struct {
	board         *core.Board
	turn          core.Color
	halfmoveClock int
	moveNumber    int
	session       *DeploySession

	history   []historyEntry
	notations []string
	cache     *moveCache

	id     uuid.UUID
	logger zerolog.Logger
}

// snapshot is the per-move record restored verbatim on undo. Board content
// is restored by the command's action inverses; everything else lives here.
type snapshot struct {
	turn          core.Color
	halfmoveClock int
	moveNumber    int
	session       *DeploySession
}

type historyEntry struct {
	cmd  *command
	snap snapshot
}

// NewPosition returns the starting position.
func NewPosition() *Position {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		panic("engine: bad start position: " + err.Error())
	}
	return p
}

func newPosition(b *core.Board) *Position {
	p := &Position{
		board:      b,
		turn:       core.Red,
		moveNumber: 1,
		cache:      newMoveCache(defaultCacheSize),
		id:         uuid.New(),
		logger:     zerolog.Nop(),
	}
	return p
}

// WithLogger attaches a logger; engine events are emitted at debug level
// tagged with the position id.
func (p *Position) WithLogger(l zerolog.Logger) *Position {
	p.logger = l.With().Str("position", p.id.String()).Logger()
	return p
}

// Board exposes the underlying board for inspection.
func (p *Position) Board() *core.Board { return p.board }

// Turn returns the side to move.
func (p *Position) Turn() core.Color { return p.turn }

// HalfmoveClock returns half-moves since the last capture.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// MoveNumber returns the full-move number.
func (p *Position) MoveNumber() int { return p.moveNumber }

// DeployActive reports whether a deploy session is in progress.
func (p *Position) DeployActive() bool { return p.session != nil }

func (p *Position) snapshot() snapshot {
	return snapshot{
		turn:          p.turn,
		halfmoveClock: p.halfmoveClock,
		moveNumber:    p.moveNumber,
		session:       p.session.Clone(),
	}
}

// ApplyMove validates the requested move against the legal-move list and
// executes the matching candidate. A request that matches nothing returns
// ErrNoSuchMove; one that matches several returns ErrAmbiguousMove.
func (p *Position) ApplyMove(m core.Move) error {
	legal := p.LegalMoves(Filters{From: core.NoSquare, Piece: core.AnyPieceType})
	var matches []core.Move
	for _, c := range legal {
		if c.Matches(m.From, m.To, m.Piece.Type, m.Flags) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return errors.Wrapf(errors.ErrNoSuchMove, "%s to %s", m.From, m.To)
	case 1:
		return p.apply(matches[0])
	default:
		return errors.Wrapf(errors.ErrAmbiguousMove, "%d candidates from %s to %s", len(matches), m.From, m.To)
	}
}

// apply executes a known-legal move: board actions, heroic promotion,
// session/turn/clock bookkeeping, history, repetition stack.
func (p *Position) apply(m core.Move) error {
	snap := p.snapshot()

	var origStack core.Piece
	if m.Flags.Has(core.FlagDeploy) && p.session == nil {
		stack, ok := p.board.Piece(m.From)
		if !ok {
			return errors.Wrapf(errors.ErrIllegalMove, "no stack on %s", m.From)
		}
		origStack = stack.Clone()
	}

	cmd := newCommand(m)
	if err := cmd.execute(p.board); err != nil {
		return err
	}
	if err := cmd.promote(p.board); err != nil {
		_ = cmd.undo(p.board)
		return err
	}

	if m.Flags.Has(core.FlagDeploy) {
		if p.session == nil {
			p.session = &DeploySession{StackSquare: m.From, Turn: p.turn, Original: origStack}
		}
		p.session.Actions = append(p.session.Actions, m)
		done, err := p.session.complete()
		if err != nil {
			_ = cmd.undo(p.board)
			p.session = snap.session
			return err
		}
		if done {
			p.commitSession()
		}
	} else {
		p.switchTurn(m.Flags.IsCapture())
	}

	p.push(historyEntry{cmd: cmd, snap: snap})
	p.logger.Debug().
		Str("move", FormatMove(m)).
		Stringer("turn", p.turn).
		Msg("move applied")
	return nil
}

func (p *Position) push(e historyEntry) {
	p.history = append(p.history, e)
	p.notations = append(p.notations, p.repetitionKey())
}

// commitSession closes a completed deploy session: the session is cleared
// and the turn finally switches, with the whole deploy counting as one
// move for the clocks.
func (p *Position) commitSession() {
	capture := p.session.hadCapture()
	p.logger.Debug().Stringer("stack", p.session.StackSquare).Msg("deploy session committed")
	p.session = nil
	p.switchTurn(capture)
}

func (p *Position) switchTurn(capture bool) {
	if capture {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if p.turn == core.Blue {
		p.moveNumber++
	}
	p.turn = p.turn.Opposite()
}

// Undo reverses the most recently applied move and restores the pre-move
// snapshot: turn, clocks, and deploy session exactly as they were.
func (p *Position) Undo() error {
	if len(p.history) == 0 {
		return errors.ErrNoHistory
	}
	e := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.notations = p.notations[:len(p.notations)-1]
	if err := e.cmd.undo(p.board); err != nil {
		return err
	}
	p.turn = e.snap.turn
	p.halfmoveClock = e.snap.halfmoveClock
	p.moveNumber = e.snap.moveNumber
	p.session = e.snap.session
	p.logger.Debug().Str("move", FormatMove(e.cmd.move)).Msg("move undone")
	return nil
}

// LegalMoves produces every legal move matching the filters. Results are
// memoized in a bounded cache keyed by position, session, and filter state,
// so probing inside the legality filter never needs to invalidate anything.
func (p *Position) LegalMoves(f Filters) []core.Move {
	key := p.cacheKey(f)
	if cached, ok := p.cache.get(key); ok {
		return cached
	}
	pseudo := pseudoLegal(p.board, p.turn, p.session, f)
	legal := make([]core.Move, 0, len(pseudo))
	for _, m := range pseudo {
		if p.probeLegal(m) {
			legal = append(legal, m)
		}
	}
	p.cache.add(key, legal)
	return legal
}

// probeLegal executes the candidate, tests the two commander predicates,
// and undoes it. Promotion runs inside the probe so the judged board is
// exactly the board apply would produce. A move is legal iff the mover's
// commander ends neither attacked nor exposed.
func (p *Position) probeLegal(m core.Move) bool {
	cmd := newCommand(m)
	if err := cmd.execute(p.board); err != nil {
		return false
	}
	if err := cmd.promote(p.board); err != nil {
		_ = cmd.undo(p.board)
		return false
	}
	ok := !p.commanderAttacked(m.Color) && !p.commanderExposed(m.Color)
	_ = cmd.undo(p.board)
	return ok
}

func (p *Position) commanderAttacked(c core.Color) bool {
	sq := p.board.Commander(c)
	if sq == core.NoSquare {
		return false
	}
	return len(Attackers(p.board, sq, c.Opposite())) > 0
}

// commanderExposed implements the flying-general rule: from the colour's
// own commander, the first occupied square along any orthogonal ray must
// not be the enemy commander.
func (p *Position) commanderExposed(c core.Color) bool {
	own := p.board.Commander(c)
	enemy := p.board.Commander(c.Opposite())
	if own == core.NoSquare || enemy == core.NoSquare {
		return false
	}
	for _, dir := range core.OrthDirs {
		for s := own + dir; s.OnBoard(); s += dir {
			if _, ok := p.board.Piece(s); ok {
				if s == enemy {
					return true
				}
				break
			}
		}
	}
	return false
}
