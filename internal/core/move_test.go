package core

import (
	"testing"
)

func TestMoveFlagHas(t *testing.T) {
	f := FlagDeploy | FlagCapture
	if !f.Has(FlagDeploy) || !f.Has(FlagCapture) || !f.Has(FlagDeploy|FlagCapture) {
		t.Error("Has should accept any subset of set bits")
	}
	if f.Has(FlagNormal) {
		t.Error("Has should reject unset bits")
	}
}

func TestIsCapture(t *testing.T) {
	tests := []struct {
		flags MoveFlag
		want  bool
	}{
		{FlagNormal, false},
		{FlagCombination, false},
		{FlagCapture, true},
		{FlagStayCapture, true},
		{FlagSuicideCapture, true},
		{FlagDeploy | FlagCapture, true},
		{FlagDeploy | FlagNormal, false},
	}
	for _, tt := range tests {
		if got := tt.flags.IsCapture(); got != tt.want {
			t.Errorf("IsCapture(%b) = %v, want %v", tt.flags, got, tt.want)
		}
	}
}

func TestMoveMatches(t *testing.T) {
	from := MakeSquare(5, 5)
	to := MakeSquare(5, 6)
	m := Move{From: from, To: to, Piece: NewPiece(Tank, Red), Color: Red, Flags: FlagCapture}

	tests := []struct {
		name  string
		from  Square
		to    Square
		piece PieceType
		flags MoveFlag
		want  bool
	}{
		{"exact", from, to, Tank, FlagCapture, true},
		{"wildcard origin", NoSquare, to, Tank, FlagCapture, true},
		{"wildcard type", from, to, AnyPieceType, FlagCapture, true},
		{"flag subset", from, to, Tank, 0, true},
		{"wrong origin", MakeSquare(0, 0), to, Tank, FlagCapture, false},
		{"wrong destination", from, from, Tank, FlagCapture, false},
		{"wrong type", from, to, Navy, FlagCapture, false},
		{"missing flag", from, to, Tank, FlagNormal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Matches(tt.from, tt.to, tt.piece, tt.flags); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
