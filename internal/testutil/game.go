package testutil

import (
	"testing"

	"github.com/mnoyd/cotulenh-go/internal/engine"
)

// MustPosition parses a FEN string and returns the position.
// It calls t.Fatal on a parse failure; use it in test setup.
func MustPosition(t *testing.T, fen string) *engine.Position {
	t.Helper()
	p, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("failed to parse FEN %q: %v", fen, err)
	}
	return p
}

// MustPlay applies a sequence of moves in long algebraic notation,
// aborting the test on the first move that fails to parse or apply.
func MustPlay(t *testing.T, p *engine.Position, moves ...string) {
	t.Helper()
	for _, text := range moves {
		m, err := engine.ParseMove(p, text)
		if err != nil {
			t.Fatalf("failed to parse move %q: %v", text, err)
		}
		if err := p.ApplyMove(m); err != nil {
			t.Fatalf("failed to apply move %q: %v", text, err)
		}
	}
}
