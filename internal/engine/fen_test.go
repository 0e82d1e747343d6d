package engine

import (
	"testing"

	stderrors "errors"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/errors"
)

func TestStartFENRoundTrip(t *testing.T) {
	p := NewPosition()
	if got := p.ToFEN(); got != StartFEN {
		t.Errorf("ToFEN() = %q, want %q", got, StartFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"3c7/11/11/11/11/11/11/11/5i5/5T5/11/4C6 b - - 12 34",
		"11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1",
		"10c/2+f8/11/11/11/11/11/11/2n8/2T8/11/2C8 r - - 5 9",
		"11/11/11/4(tc)6/11/11/11/11/11/11/11/11 b - - 0 2",
	}
	for _, fen := range fens {
		p, err := NewPositionFromFEN(fen)
		if err != nil {
			t.Errorf("NewPositionFromFEN(%q): %v", fen, err)
			continue
		}
		if got := p.ToFEN(); got != fen {
			t.Errorf("round trip = %q, want %q", got, fen)
		}
	}
}

func TestFENHeroicAndStacks(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(N+TI)9/2+f8/11 r - - 0 1")

	stack, ok := p.Board().Piece(sq(t, "b3"))
	if !ok || stack.Type != core.Navy {
		t.Fatalf("b3 = %+v, want a navy stack", stack)
	}
	if len(stack.Carrying) != 2 || !stack.Carrying[0].Heroic {
		t.Errorf("carried = %+v, want a heroic tank and an infantry", stack.Carrying)
	}

	af, ok := p.Board().Piece(sq(t, "c2"))
	if !ok || af.Type != core.AirForce || af.Color != core.Blue || !af.Heroic {
		t.Errorf("c2 = %+v, want a heroic blue air force", af)
	}
}

func TestFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "11/11/11/11/11/11/11/11/11/11/11/11 r"},
		{"wrong rank count", "11/11/11 r - - 0 1"},
		{"bad colour", "11/11/11/11/11/11/11/11/11/11/11/11 x - - 0 1"},
		{"bad letter", "11/11/11/11/11/11/11/11/11/11/11/10Z r - - 0 1"},
		{"rank overflow", "12/11/11/11/11/11/11/11/11/11/11/11 r - - 0 1"},
		{"unterminated stack", "11/11/11/11/11/11/11/11/11/1(NTI9/11/11 r - - 0 1"},
		{"bad halfmove", "11/11/11/11/11/11/11/11/11/11/11/11 r - - x 1"},
		{"two red commanders", "11/11/11/11/11/11/11/11/11/11/11/4C1C4 r - - 0 1"},
		{"dangling heroic", "11/11/11/11/11/11/11/11/11/11/11/10+ r - - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPositionFromFEN(tt.fen); !stderrors.Is(err, errors.ErrInvalidFEN) {
				t.Errorf("error = %v, want ErrInvalidFEN", err)
			}
		})
	}
}

func TestFENTerrainValidation(t *testing.T) {
	// A navy on dry land is rejected.
	_, err := NewPositionFromFEN("11/11/11/11/11/11/11/11/11/11/11/5N5 r - - 0 1")
	if !stderrors.Is(err, errors.ErrTerrainViolation) {
		t.Errorf("navy on land = %v, want ErrTerrainViolation", err)
	}
	// A tank in open water is rejected.
	_, err = NewPositionFromFEN("11/11/11/11/11/11/11/11/11/11/11/T10 r - - 0 1")
	if !stderrors.Is(err, errors.ErrTerrainViolation) {
		t.Errorf("tank on water = %v, want ErrTerrainViolation", err)
	}
	// The air force is exempt: it may legitimately sit anywhere.
	if _, err := NewPositionFromFEN("11/11/11/11/11/11/11/11/11/11/11/F10 r - - 0 1"); err != nil {
		t.Errorf("air force on water = %v, want success", err)
	}
}

func TestFENDeploySegmentRoundTrip(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	mustApply(t, p, "T>c3")

	fen := p.ToFEN()
	restored, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	if !restored.DeployActive() {
		t.Fatal("restored position should have an active session")
	}
	if restored.session.StackSquare != sq(t, "b3") {
		t.Errorf("stack square = %v, want b3", restored.session.StackSquare)
	}
	if got := len(restored.session.Original.Flatten()); got != 3 {
		t.Errorf("original stack size = %d, want 3", got)
	}
	if got := restored.ToFEN(); got != fen {
		t.Errorf("second round trip = %q, want %q", got, fen)
	}

	// The restored session constrains generation the same way.
	for _, m := range restored.LegalMoves(NoFilter) {
		if m.From != sq(t, "b3") {
			t.Errorf("move from %v generated during a restored session", m.From)
		}
	}
}

func TestFENDeploySegmentWithStay(t *testing.T) {
	p := mustPos(t, "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1")
	mustApply(t, p, "T>c3")
	if err := p.declareStay([]core.PieceType{core.Infantry}); err != nil {
		t.Fatalf("declareStay: %v", err)
	}

	fen := p.ToFEN()
	restored, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	if got := len(restored.session.Stay); got != 1 {
		t.Errorf("restored stay count = %d, want 1", got)
	}
	if got := restored.ToFEN(); got != fen {
		t.Errorf("second round trip = %q, want %q", got, fen)
	}
}

func TestRepetitionKeyIgnoresClocks(t *testing.T) {
	a := mustPos(t, "3c7/11/11/11/11/11/11/11/11/11/11/4C6 r - - 0 1")
	b := mustPos(t, "3c7/11/11/11/11/11/11/11/11/11/11/4C6 r - - 42 9")
	if a.repetitionKey() != b.repetitionKey() {
		t.Error("clock fields must not affect the repetition key")
	}
	c := mustPos(t, "3c7/11/11/11/11/11/11/11/11/11/11/4C6 b - - 0 1")
	if a.repetitionKey() == c.repetitionKey() {
		t.Error("the side to move must affect the repetition key")
	}
}
