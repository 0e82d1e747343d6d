package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

// NewPositionFromFEN creates a position from the extended FEN notation:
// six space-separated fields (placement, active colour, two placeholders,
// halfmove clock, fullmove number), optionally followed by a
// "DEPLOY <square>:<stay>:<moves>" segment restoring an in-progress deploy
// session.
func NewPositionFromFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 6 {
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "expected 6 fields, got %d", len(parts))
	}

	board := core.NewBoard()
	if err := parsePlacement(board, parts[0]); err != nil {
		return nil, err
	}

	p := newPosition(board)
	switch parts[1] {
	case "r":
		p.turn = core.Red
	case "b":
		p.turn = core.Blue
	default:
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "bad active colour %q", parts[1])
	}

	if n, err := strconv.Atoi(parts[4]); err == nil {
		p.halfmoveClock = n
	} else {
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "bad halfmove clock %q", parts[4])
	}
	if n, err := strconv.Atoi(parts[5]); err == nil {
		p.moveNumber = n
	} else {
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "bad fullmove number %q", parts[5])
	}

	if len(parts) >= 8 && parts[6] == "DEPLOY" {
		session, err := parseDeploySegment(board, p.turn, parts[7])
		if err != nil {
			return nil, err
		}
		p.session = session
	}

	p.notations = append(p.notations, p.repetitionKey())
	return p, nil
}

// parsePlacement fills the board from the piece placement field: twelve
// '/'-separated ranks from rank 12 down, decimal runs of empty squares,
// '(...)' stacks, and '+' heroic markers.
func parsePlacement(board *core.Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != core.RankCount {
		return errors.Wrapf(errors.ErrInvalidFEN, "expected %d ranks, got %d", core.RankCount, len(ranks))
	}
	var commanders [2]int

	for ri, row := range ranks {
		rank := core.RankCount - 1 - ri
		file := 0
		i := 0
		for i < len(row) {
			c := row[i]
			switch {
			case c >= '0' && c <= '9':
				j := i
				for j < len(row) && row[j] >= '0' && row[j] <= '9' {
					j++
				}
				n, _ := strconv.Atoi(row[i:j])
				file += n
				i = j
			case c == '(':
				end := strings.IndexByte(row[i:], ')')
				if end < 0 {
					return errors.Wrapf(errors.ErrInvalidFEN, "unterminated stack in rank %d", rank+1)
				}
				stack, err := parseStack(row[i+1 : i+end])
				if err != nil {
					return err
				}
				if err := placePiece(board, file, rank, stack, &commanders); err != nil {
					return err
				}
				file++
				i += end + 1
			default:
				piece, width, err := parseFENPiece(row[i:])
				if err != nil {
					return err
				}
				if err := placePiece(board, file, rank, piece, &commanders); err != nil {
					return err
				}
				file++
				i += width
			}
		}
		if file > core.FileCount {
			return errors.Wrapf(errors.ErrInvalidFEN, "rank %d overflows the board", rank+1)
		}
	}

	if commanders[core.Red] > 1 || commanders[core.Blue] > 1 {
		return errors.Wrap(errors.ErrInvalidFEN, "more than one commander per colour")
	}
	return nil
}

func placePiece(board *core.Board, file, rank int, piece core.Piece, commanders *[2]int) error {
	if file >= core.FileCount {
		return errors.Wrapf(errors.ErrInvalidFEN, "piece beyond file %c", byte('a'+core.FileCount-1))
	}
	sq := core.MakeSquare(file, rank)
	// The flyer may legitimately end a capture on water, so it is exempt
	// from the placement terrain check.
	if piece.Type != core.AirForce && !piece.Type.CanOccupy(core.TerrainOf(sq)) {
		return errors.Wrapf(errors.ErrTerrainViolation, "%s on %s (%s)", piece, sq, core.TerrainOf(sq))
	}
	for _, c := range piece.Flatten() {
		if c.Type == core.Commander {
			commanders[c.Color]++
		}
	}
	board.Put(sq, piece)
	return nil
}

// parseFENPiece reads one optionally heroic piece letter and returns the
// piece and the number of bytes consumed.
func parseFENPiece(s string) (core.Piece, int, error) {
	i := 0
	heroic := false
	if i < len(s) && s[i] == '+' {
		heroic = true
		i++
	}
	if i >= len(s) {
		return core.Piece{}, 0, errors.Wrap(errors.ErrInvalidFEN, "dangling heroic marker")
	}
	c := s[i]
	color := core.Red
	upper := c
	if c >= 'a' && c <= 'z' {
		color = core.Blue
		upper = c - 'a' + 'A'
	}
	t, ok := core.PieceTypeFromLetter(upper)
	if !ok {
		return core.Piece{}, 0, errors.Wrapf(errors.ErrInvalidFEN, "bad piece letter %q", string(c))
	}
	p := core.NewPiece(t, color)
	p.Heroic = heroic
	return p, i + 1, nil
}

// parseStack reads a '(...)' body: the carrier first, then its passengers.
func parseStack(body string) (core.Piece, error) {
	var pieces []core.Piece
	for i := 0; i < len(body); {
		p, w, err := parseFENPiece(body[i:])
		if err != nil {
			return core.Piece{}, err
		}
		pieces = append(pieces, p)
		i += w
	}
	if len(pieces) == 0 {
		return core.Piece{}, errors.Wrap(errors.ErrInvalidFEN, "empty stack")
	}
	carrier := pieces[0]
	for _, c := range pieces[1:] {
		if c.Color != carrier.Color {
			return core.Piece{}, errors.Wrap(errors.ErrInvalidFEN, "mixed-colour stack")
		}
		carrier.Carrying = append(carrier.Carrying, c)
	}
	return carrier, nil
}

// parseDeploySegment restores a deploy session from its FEN segment
// "<square>:<stay-letters>:<comma-separated moves>".
func parseDeploySegment(board *core.Board, turn core.Color, segment string) (*DeploySession, error) {
	fields := strings.SplitN(segment, ":", 3)
	if len(fields) != 3 {
		return nil, errors.Wrapf(errors.ErrInvalidFEN, "bad deploy segment %q", segment)
	}
	sq, err := core.ParseSquare(fields[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidSquare, fields[0])
	}
	session := &DeploySession{StackSquare: sq, Turn: turn}

	for i := 0; i < len(fields[1]); {
		p, w, err := parseFENPiece(fields[1][i:])
		if err != nil {
			return nil, err
		}
		session.Stay = append(session.Stay, p)
		i += w
	}

	if fields[2] != "" {
		for _, text := range strings.Split(fields[2], ",") {
			m, err := parseStructural(text, sq, turn)
			if err != nil {
				return nil, err
			}
			session.Actions = append(session.Actions, m)
		}
	}

	// Rebuild the original stack: whatever still stands on the stack
	// square plus every piece an action took out of it.
	var members []core.Piece
	if cur, ok := board.Piece(sq); ok {
		members = append(members, cur.Flatten()...)
	}
	for _, m := range session.Actions {
		if m.Flags.Has(core.FlagStayCapture) {
			continue // the actor never left the stack
		}
		members = append(members, m.Piece.Single())
	}
	res := core.Combine(members)
	if res.Combined == nil || len(res.Uncombined) > 0 {
		return nil, errors.Wrap(errors.ErrInvalidFEN, "deploy segment does not form a stack")
	}
	session.Original = *res.Combined
	return session, nil
}

// ToFEN serializes the position in the extended FEN notation, including the
// deploy segment when a session is active.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	writePlacement(&sb, p.board)
	sb.WriteByte(' ')
	if p.turn == core.Red {
		sb.WriteByte('r')
	} else {
		sb.WriteByte('b')
	}
	fmt.Fprintf(&sb, " - - %d %d", p.halfmoveClock, p.moveNumber)
	if p.session != nil {
		sb.WriteString(" DEPLOY ")
		writeDeploySegment(&sb, p.session)
	}
	return sb.String()
}

func writePlacement(sb *strings.Builder, board *core.Board) {
	for rank := core.RankCount - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < core.FileCount; file++ {
			piece, ok := board.Piece(core.MakeSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

func writeDeploySegment(sb *strings.Builder, s *DeploySession) {
	sb.WriteString(s.StackSquare.String())
	sb.WriteByte(':')
	for _, p := range s.Stay {
		sb.WriteString(p.Single().String())
	}
	sb.WriteByte(':')
	for i, m := range s.Actions {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatStructural(m))
	}
}

// repetitionKey is the notation prefix used for threefold repetition:
// placement plus active colour.
func (p *Position) repetitionKey() string {
	var sb strings.Builder
	writePlacement(&sb, p.board)
	if p.turn == core.Red {
		sb.WriteString(" r")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}
