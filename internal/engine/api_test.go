package engine_test

import (
	"testing"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/engine"
	"github.com/mnoyd/cotulenh-go/internal/testutil"
)

// Black-box exercise of the public surface: parse, play, inspect, undo.
func TestPlayAndUndoGame(t *testing.T) {
	p := testutil.MustPosition(t, engine.StartFEN)
	testutil.MustPlay(t, p, "d4-d5", "d9-d8", "Td3-d4", "Td10-d9")

	testutil.AssertEqual(t, p.Turn(), core.Red, "after four half-moves")
	testutil.AssertEqual(t, p.MoveNumber(), 3)
	testutil.AssertFalse(t, p.IsCheck())
	testutil.AssertFalse(t, p.IsCheckmate())
	testutil.AssertFalse(t, p.IsDraw())
	testutil.AssertTrue(t, len(p.LegalMoves(engine.NoFilter)) > 0)

	for i := 0; i < 4; i++ {
		testutil.AssertNoError(t, p.Undo(), "undo %d", i)
	}
	testutil.AssertEqual(t, p.ToFEN(), engine.StartFEN)
}

func TestParseMoveReportsUnknownMove(t *testing.T) {
	p := testutil.MustPosition(t, engine.StartFEN)
	_, err := engine.ParseMove(p, "Tk4-k5")
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "no such move")
}

func TestFormatMoveRoundTrip(t *testing.T) {
	p := testutil.MustPosition(t, engine.StartFEN)
	m, err := engine.ParseMove(p, "d4-d5")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, engine.FormatMove(m), "d4-d5")
}
