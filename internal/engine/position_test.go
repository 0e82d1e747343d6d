package engine

import (
	"sort"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

func mustPos(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	return p
}

func mustApply(t *testing.T, p *Position, text string) {
	t.Helper()
	m, err := ParseMove(p, text)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", text, err)
	}
	if err := p.ApplyMove(m); err != nil {
		t.Fatalf("ApplyMove(%q): %v", text, err)
	}
}

func TestNewPosition(t *testing.T) {
	p := NewPosition()
	if p.Turn() != core.Red {
		t.Errorf("Turn = %v, want Red", p.Turn())
	}
	if p.Board().Count() != 40 {
		t.Errorf("starting piece count = %d, want 40", p.Board().Count())
	}
	if p.Board().Commander(core.Red) == core.NoSquare || p.Board().Commander(core.Blue) == core.NoSquare {
		t.Error("both commanders must be on the board")
	}
}

func TestApplyMoveSwitchesTurn(t *testing.T) {
	p := NewPosition()
	mustApply(t, p, "d4-d5")
	if p.Turn() != core.Blue {
		t.Errorf("Turn = %v, want Blue", p.Turn())
	}
	if p.HalfmoveClock() != 1 {
		t.Errorf("HalfmoveClock = %d, want 1", p.HalfmoveClock())
	}
	if p.MoveNumber() != 1 {
		t.Errorf("MoveNumber = %d, want 1 before blue has moved", p.MoveNumber())
	}
	mustApply(t, p, "d9-d8")
	if p.MoveNumber() != 2 {
		t.Errorf("MoveNumber = %d, want 2", p.MoveNumber())
	}
}

func TestApplyMoveNoSuchMove(t *testing.T) {
	p := NewPosition()
	m := core.Move{
		From: sq(t, "d4"), To: sq(t, "d8"),
		Piece: core.Piece{Type: core.AnyPieceType}, Color: core.Red,
		Flags: core.FlagNormal,
	}
	err := p.ApplyMove(m)
	if !stderrors.Is(err, errors.ErrNoSuchMove) {
		t.Errorf("error = %v, want ErrNoSuchMove", err)
	}
}

func TestUndoRestoresPosition(t *testing.T) {
	fen := "3c7/11/11/11/11/11/11/11/5i5/5T5/11/4C6 r - - 3 7"
	p := mustPos(t, fen)
	mustApply(t, p, "Tf3xf4")

	if p.HalfmoveClock() != 0 {
		t.Errorf("capture should reset the halfmove clock, got %d", p.HalfmoveClock())
	}
	if err := p.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := p.ToFEN(); got != fen {
		t.Errorf("ToFEN after undo = %q, want %q", got, fen)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	p := NewPosition()
	if err := p.Undo(); !stderrors.Is(err, errors.ErrNoHistory) {
		t.Errorf("error = %v, want ErrNoHistory", err)
	}
}

func TestFlyingGeneralRestriction(t *testing.T) {
	// Commanders face each other on the open f-file: the red commander may
	// not stay on the file, but may capture in the duel or step aside.
	p := mustPos(t, "5c5/11/11/11/11/11/11/11/11/11/11/5C5 r - - 0 1")
	moves := p.LegalMoves(NoFilter)

	if len(moves) != 9 {
		t.Fatalf("legal moves = %d, want 9", len(moves))
	}
	var duel bool
	for _, m := range moves {
		if m.To.File() == 5 && !m.Flags.IsCapture() {
			t.Errorf("move to %v leaves the commander exposed", m.To)
		}
		if m.Flags.Has(core.FlagCapture) && m.To == sq(t, "f12") {
			duel = true
		}
	}
	if !duel {
		t.Error("the duel capture of the enemy commander should be legal")
	}
	if !p.IsCheck() {
		t.Error("facing commanders attack one another")
	}
}

func TestLegalMovesPinnedShield(t *testing.T) {
	// A red tank shields its commander from a blue navy down the coastal
	// file. The tank may stay on the file or capture the navy, but any move
	// off the file would leave the commander attacked and is filtered out.
	p := mustPos(t, "10c/11/11/11/11/11/11/11/2n8/2T8/11/2C8 r - - 0 1")
	moves := p.LegalMoves(Filters{From: sq(t, "c3"), Piece: core.AnyPieceType})
	if len(moves) != 2 {
		t.Fatalf("pinned tank has %d moves, want 2", len(moves))
	}
	for _, m := range moves {
		if m.To.File() != 2 {
			t.Errorf("pinned tank move off the file: %v -> %v", m.From, m.To)
		}
	}
}

func TestDeploySessionFlow(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")

	mustApply(t, p, "T>c3")
	if !p.DeployActive() {
		t.Fatal("first deploy move should open a session")
	}
	if p.Turn() != core.Red {
		t.Error("turn must not switch while the session is open")
	}

	// The infantry reunites with the deployed tank.
	mustApply(t, p, ">&c3")
	if !p.DeployActive() {
		t.Fatal("session should still wait for the navy")
	}

	if err := p.declareStay([]core.PieceType{core.Navy}); err != nil {
		t.Fatalf("declareStay: %v", err)
	}
	if p.DeployActive() {
		t.Error("session should close once every piece is accounted for")
	}
	if p.Turn() != core.Blue {
		t.Errorf("Turn = %v, want Blue after the session commits", p.Turn())
	}

	navy, ok := p.Board().Piece(sq(t, "b3"))
	if !ok || navy.Type != core.Navy || navy.IsStack() {
		t.Errorf("b3 = %v, want the lone navy", navy)
	}
	merged, ok := p.Board().Piece(sq(t, "c3"))
	if !ok || merged.Type != core.Tank || len(merged.Carrying) != 1 {
		t.Errorf("c3 = %v, want tank carrying infantry", merged)
	}
}

func TestDeployBatchAtomic(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	fen := p.ToFEN()

	// The second step is illegal (the infantry cannot reach d5), so the
	// whole batch must roll back.
	err := p.DeployMove(DeployBatch{
		Moves: []core.Move{
			{From: sq(t, "b3"), To: sq(t, "c3"), Piece: core.NewPiece(core.Tank, core.Red), Flags: core.FlagDeploy},
			{From: sq(t, "b3"), To: sq(t, "d5"), Piece: core.NewPiece(core.Infantry, core.Red), Flags: core.FlagDeploy},
		},
	})
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if p.DeployActive() {
		t.Error("failed batch should leave no session")
	}
	if got := p.ToFEN(); got != fen {
		t.Errorf("ToFEN after rollback = %q, want %q", got, fen)
	}
}

func TestDeployBatchComplete(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	err := p.DeployMove(DeployBatch{
		Moves: []core.Move{
			{From: sq(t, "b3"), To: sq(t, "c3"), Piece: core.NewPiece(core.Tank, core.Red), Flags: core.FlagDeploy},
			{From: sq(t, "b3"), To: sq(t, "c3"), Piece: core.NewPiece(core.Infantry, core.Red), Flags: core.FlagDeploy | core.FlagCombination},
		},
		Stay: []core.PieceType{core.Navy},
	})
	if err != nil {
		t.Fatalf("DeployMove: %v", err)
	}
	if p.DeployActive() || p.Turn() != core.Blue {
		t.Error("completed batch should close the session and pass the turn")
	}
}

func TestCancelDeploySession(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	fen := p.ToFEN()

	mustApply(t, p, "T>c3")
	mustApply(t, p, ">&c3")
	if err := p.CancelDeploySession(); err != nil {
		t.Fatalf("CancelDeploySession: %v", err)
	}
	if p.DeployActive() {
		t.Error("cancel should clear the session")
	}
	if got := p.ToFEN(); got != fen {
		t.Errorf("ToFEN after cancel = %q, want %q", got, fen)
	}
	if err := p.CancelDeploySession(); !stderrors.Is(err, errors.ErrNoDeploySession) {
		t.Errorf("second cancel = %v, want ErrNoDeploySession", err)
	}
}

func TestDeployStayCapturePromotionAccounting(t *testing.T) {
	// The tank stay-captures the navy on b4 and, with the blue commander
	// adjacent on c3, the whole stack is promoted while the tank still
	// stands on the stack square. The promoted tank has already acted and
	// must not be offered again.
	p := mustPos(t, "11/11/11/11/11/11/11/11/1n9/1(NT)c8/11/11 r - - 0 1")
	mustApply(t, p, "T>_b4")

	stack, ok := p.Board().Piece(sq(t, "b3"))
	if !ok || !stack.Heroic || len(stack.Carrying) != 1 || !stack.Carrying[0].Heroic {
		t.Fatalf("b3 = %v, want the fully promoted stack", stack)
	}
	if !p.DeployActive() || len(p.session.Actions) != 1 {
		t.Fatal("stay capture should be the session's single action")
	}

	for _, m := range p.LegalMoves(NoFilter) {
		if m.Piece.Type == core.Tank {
			t.Errorf("acted tank offered again as %s", FormatMove(m))
		}
	}

	if err := p.declareStay([]core.PieceType{core.Navy}); err != nil {
		t.Fatalf("declareStay: %v", err)
	}
	if p.DeployActive() || p.Turn() != core.Blue {
		t.Error("session should commit once the navy is declared staying")
	}
}

// redGrouping renders the partition of the red pieces across squares, each
// group as its sorted constituent letters, groups sorted and joined by '|'.
func redGrouping(p *Position) string {
	var groups []string
	p.Board().ForEach(func(_ core.Square, pc core.Piece) {
		if pc.Color != core.Red {
			return
		}
		var letters []byte
		for _, s := range pc.Flatten() {
			letters = append(letters, s.Type.Letter())
		}
		sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
		groups = append(groups, string(letters))
	})
	sort.Strings(groups)
	return strings.Join(groups, "|")
}

func TestDeployTurnCompositions(t *testing.T) {
	// A navy carrying a tank and an infantry on the coastal file. Walking
	// every complete red turn must reach exactly the stack compositions the
	// combination rules allow: the whole stack, each combinable pair plus a
	// single, and the full separation. No turn may end in a grouping the
	// rules reject.
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/2(NTI)8/11/11 r - - 0 1")
	seen := make(map[string]bool)

	var walk func()
	walk = func() {
		if p.Turn() == core.Blue {
			seen[redGrouping(p)] = true
			return
		}
		for _, m := range p.LegalMoves(NoFilter) {
			if err := p.apply(m); err != nil {
				t.Fatalf("apply(%s): %v", FormatMove(m), err)
			}
			walk()
			if err := p.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
		}
	}
	walk()

	want := map[string]bool{
		"INT":   true, // whole stack
		"I|NT":  true,
		"IT|N":  true,
		"IN|T":  true,
		"I|N|T": true,
	}
	for g := range want {
		if !seen[g] {
			t.Errorf("composition %q never reached", g)
		}
	}
	for g := range seen {
		if !want[g] {
			t.Errorf("unexpected composition %q reached", g)
		}
	}
}

func TestLegalMovesLeavePromotionUnwound(t *testing.T) {
	// Legality testing executes promotion along with each candidate; both
	// must be fully unwound, leaving the position untouched.
	fen := "11/11/11/11/11/11/11/11/1n9/1(NT)c8/11/11 r - - 0 1"
	p := mustPos(t, fen)
	_ = p.LegalMoves(NoFilter)
	if got := p.ToFEN(); got != fen {
		t.Errorf("ToFEN after probing = %q, want %q", got, fen)
	}
}

func TestUndoMidSession(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	mustApply(t, p, "T>c3")
	mustApply(t, p, ">&c3")

	if err := p.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !p.DeployActive() {
		t.Fatal("undoing one step should leave the session open")
	}
	if got := len(p.session.Actions); got != 1 {
		t.Errorf("session actions = %d, want 1", got)
	}
}
