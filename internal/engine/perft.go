package engine

// CountMoves walks the legal-move tree to the given depth and returns the
// number of leaf moves. Deploy sessions count per completed turn: depth
// decreases only when the turn passes to the other side.
func CountMoves(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var total uint64
	mover := p.turn
	for _, m := range p.LegalMoves(NoFilter) {
		if err := p.apply(m); err != nil {
			continue
		}
		next := depth
		if p.turn != mover {
			next--
		}
		total += CountMoves(p, next)
		if err := p.Undo(); err != nil {
			panic("engine: undo failed during move count: " + err.Error())
		}
	}
	return total
}
