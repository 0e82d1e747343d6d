package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountMovesDepthZero(t *testing.T) {
	p := NewPosition()
	require.Equal(t, uint64(1), CountMoves(p, 0))
}

func TestCountMovesDepthOne(t *testing.T) {
	p := NewPosition()
	want := uint64(len(p.LegalMoves(NoFilter)))
	require.Equal(t, want, CountMoves(p, 1))
}

func TestCountMovesRestoresPosition(t *testing.T) {
	p := NewPosition()
	before := p.ToFEN()
	CountMoves(p, 2)
	require.Equal(t, before, p.ToFEN(), "position should be unchanged after counting")
}

func TestCountMovesDeployTurns(t *testing.T) {
	// A stack position: every leaf is a completed deploy turn, so the
	// count at depth one exceeds the raw first-step move list.
	fen := "11/11/11/11/11/11/11/11/11/1(NTI)9/11/11 r - - 0 1"
	p := mustPos(t, fen)
	steps := uint64(len(p.LegalMoves(NoFilter)))
	got := CountMoves(p, 1)
	require.Greater(t, got, steps, "deploy sequences should outnumber first steps")
	require.Equal(t, fen, p.ToFEN(), "position should be unchanged after counting")
}
