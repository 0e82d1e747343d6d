package engine

import (
	"strings"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

// Move text is long algebraic: an optional heroic '+', the piece letter
// (omitted for infantry), the origin square for board moves (omitted for
// deploys, where the session fixes it), a separator encoding the move kind,
// and the destination square.
//
//	-   normal move              x   capture
//	_   stay capture             @   suicide capture
//	>   deploy                   &   combination
//	>x  deploy capture           >&  recombination
//
// A trailing '^' (check) or '#' (checkmate) is accepted on input and
// appended by FormatMoveChecked.

// FormatMove renders a move in the long algebraic form above.
func FormatMove(m core.Move) string {
	return formatStructural(m)
}

// FormatMoveChecked renders a move with the check or checkmate suffix the
// position after the move warrants. The position must already reflect the
// move having been played.
func FormatMoveChecked(m core.Move, after *Position) string {
	s := formatStructural(m)
	if after.IsCheckmate() {
		return s + "#"
	}
	if after.IsCheck() {
		return s + "^"
	}
	return s
}

func formatStructural(m core.Move) string {
	var sb strings.Builder
	if m.Piece.Heroic {
		sb.WriteByte('+')
	}
	if m.Piece.Type != core.Infantry {
		sb.WriteByte(m.Piece.Type.Letter())
	}
	if !m.Flags.Has(core.FlagDeploy) {
		sb.WriteString(m.From.String())
	}
	sb.WriteString(separatorFor(m.Flags))
	sb.WriteString(m.To.String())
	return sb.String()
}

func separatorFor(f core.MoveFlag) string {
	deploy := f.Has(core.FlagDeploy)
	switch {
	case deploy && f.Has(core.FlagCombination):
		return ">&"
	case deploy && f.Has(core.FlagCapture):
		return ">x"
	case deploy && f.Has(core.FlagStayCapture):
		return ">_"
	case deploy && f.Has(core.FlagSuicideCapture):
		return ">@"
	case deploy:
		return ">"
	case f.Has(core.FlagCombination):
		return "&"
	case f.Has(core.FlagCapture):
		return "x"
	case f.Has(core.FlagStayCapture):
		return "_"
	case f.Has(core.FlagSuicideCapture):
		return "@"
	default:
		return "-"
	}
}

// ParseMove resolves move text against the legal moves of the position.
// It returns ErrNoSuchMove when nothing matches and ErrAmbiguousMove, with
// the candidates attached, when the text fits more than one legal move.
func ParseMove(p *Position, text string) (core.Move, error) {
	req, err := parseMoveText(text)
	if err != nil {
		return core.Move{}, &errors.MoveError{Err: err, MoveText: text, FEN: p.ToFEN()}
	}

	var matches []core.Move
	for _, m := range p.LegalMoves(NoFilter) {
		if m.Matches(req.from, req.to, req.pieceType, req.flags) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return core.Move{}, &errors.MoveError{Err: errors.ErrNoSuchMove, MoveText: text, FEN: p.ToFEN()}
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = formatStructural(m)
		}
		return core.Move{}, &errors.MoveError{
			Err:        errors.ErrAmbiguousMove,
			MoveText:   text,
			FEN:        p.ToFEN(),
			Candidates: candidates,
		}
	}
}

type moveRequest struct {
	from      core.Square
	to        core.Square
	pieceType core.PieceType
	flags     core.MoveFlag
}

func parseMoveText(text string) (moveRequest, error) {
	// No piece letter means infantry: its letter is always omitted.
	req := moveRequest{from: core.NoSquare, pieceType: core.Infantry}
	s := strings.TrimRight(strings.TrimSpace(text), "^#")
	if s == "" {
		return req, errors.Wrap(errors.ErrIllegalMove, "empty move text")
	}

	if s[0] == '+' {
		s = s[1:]
	}
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		t, ok := core.PieceTypeFromLetter(s[0])
		if !ok {
			return req, errors.Wrapf(errors.ErrIllegalMove, "bad piece letter %q", string(s[0]))
		}
		req.pieceType = t
		s = s[1:]
	}

	sep, flags := findSeparator(s)
	if sep < 0 {
		to, err := core.ParseSquare(s)
		if err != nil {
			return req, errors.Wrap(errors.ErrInvalidSquare, s)
		}
		req.to = to
		req.flags = core.FlagNormal
		return req, nil
	}

	origin := s[:sep]
	dest := s[sep:]
	dest = strings.TrimLeft(dest, ">x_@&-")
	if origin != "" {
		from, err := core.ParseSquare(origin)
		if err != nil {
			return req, errors.Wrap(errors.ErrInvalidSquare, origin)
		}
		req.from = from
	}
	to, err := core.ParseSquare(dest)
	if err != nil {
		return req, errors.Wrap(errors.ErrInvalidSquare, dest)
	}
	req.to = to
	req.flags = flags
	return req, nil
}

// findSeparator locates the first separator character and maps the full
// separator token to the move flags the request must match.
func findSeparator(s string) (int, core.MoveFlag) {
	i := strings.IndexAny(s, ">x_@&-")
	if i < 0 {
		return -1, 0
	}
	if s[i] == '>' {
		if i+1 < len(s) {
			switch s[i+1] {
			case '&':
				return i, core.FlagDeploy | core.FlagCombination
			case 'x':
				return i, core.FlagDeploy | core.FlagCapture
			case '_':
				return i, core.FlagDeploy | core.FlagStayCapture
			case '@':
				return i, core.FlagDeploy | core.FlagSuicideCapture
			}
		}
		return i, core.FlagDeploy | core.FlagNormal
	}
	switch s[i] {
	case 'x':
		return i, core.FlagCapture
	case '_':
		return i, core.FlagStayCapture
	case '@':
		return i, core.FlagSuicideCapture
	case '&':
		return i, core.FlagCombination
	default:
		return i, core.FlagNormal
	}
}

// parseStructural parses deploy move text from a FEN deploy segment, where
// the origin is the session's stack square and no legality check applies.
func parseStructural(text string, from core.Square, c core.Color) (core.Move, error) {
	s := strings.TrimSpace(text)
	heroic := false
	if len(s) > 0 && s[0] == '+' {
		heroic = true
		s = s[1:]
	}
	t := core.Infantry
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt, ok := core.PieceTypeFromLetter(s[0])
		if !ok {
			return core.Move{}, errors.Wrapf(errors.ErrInvalidFEN, "bad piece letter %q", string(s[0]))
		}
		t = pt
		s = s[1:]
	}
	sep, flags := findSeparator(s)
	if sep != 0 || !flags.Has(core.FlagDeploy) {
		return core.Move{}, errors.Wrapf(errors.ErrInvalidFEN, "bad deploy move %q", text)
	}
	dest := strings.TrimLeft(s, ">x_@&")
	to, err := core.ParseSquare(dest)
	if err != nil {
		return core.Move{}, errors.Wrap(errors.ErrInvalidSquare, dest)
	}
	piece := core.NewPiece(t, c)
	piece.Heroic = heroic
	return core.Move{From: from, To: to, Piece: piece, Color: c, Flags: flags}, nil
}
