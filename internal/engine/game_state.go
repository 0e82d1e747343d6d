package engine

// IsCheck reports whether the side to move has its commander attacked.
func (p *Position) IsCheck() bool {
	return p.commanderAttacked(p.turn)
}

// IsCheckmate reports whether the side to move is in check with no legal
// move.
func (p *Position) IsCheckmate() bool {
	return p.IsCheck() && len(p.LegalMoves(NoFilter)) == 0
}

// IsStalemate reports whether the side to move has no legal move while not
// in check.
func (p *Position) IsStalemate() bool {
	return !p.IsCheck() && len(p.LegalMoves(NoFilter)) == 0
}

// IsDraw reports a draw by the fifty-move rule (one hundred half-moves with
// no capture) or by threefold repetition of the position notation.
func (p *Position) IsDraw() bool {
	if p.halfmoveClock >= 100 {
		return true
	}
	return p.repetitionCount() >= 3
}

// repetitionCount counts how often the current position notation has
// occurred over the game. The notation stack is seeded with the starting
// position and pushed with every move, so the current key is its top.
func (p *Position) repetitionCount() int {
	key := p.repetitionKey()
	n := 0
	for _, k := range p.notations {
		if k == key {
			n++
		}
	}
	return n
}
