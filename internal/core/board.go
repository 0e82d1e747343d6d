package core

// Board maps squares to pieces and maintains two derived indices: the
// commander square per colour and the air-defense coverage map per colour.
// Both are recomputed eagerly so readers never observe stale state.
type Board struct {
	pieces map[Square]Piece

	// commanders[c] is the square whose stack holds colour c's commander,
	// or NoSquare once the commander is captured.
	commanders [2]Square

	// airDefense[c][sq] lists the squares of colour c's defenders whose
	// zone covers sq. Only the carrier of a stack projects a zone.
	airDefense [2]map[Square][]Square
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	b := &Board{
		pieces:     make(map[Square]Piece),
		commanders: [2]Square{NoSquare, NoSquare},
	}
	b.airDefense[Red] = make(map[Square][]Square)
	b.airDefense[Blue] = make(map[Square][]Square)
	return b
}

// Piece returns the piece at a square, if any.
func (b *Board) Piece(s Square) (Piece, bool) {
	p, ok := b.pieces[s]
	return p, ok
}

// Put places a piece on a square, replacing any occupant, and refreshes the
// derived indices.
func (b *Board) Put(s Square, p Piece) {
	b.pieces[s] = p
	b.reindex()
}

// Remove clears a square and refreshes the derived indices.
func (b *Board) Remove(s Square) (Piece, bool) {
	p, ok := b.pieces[s]
	if !ok {
		return Piece{}, false
	}
	delete(b.pieces, s)
	b.reindex()
	return p, true
}

// Commander returns the square holding the colour's commander, or NoSquare.
func (b *Board) Commander(c Color) Square { return b.commanders[c] }

// AirDefense returns the defender squares of the given colour whose zones
// cover s.
func (b *Board) AirDefense(c Color, s Square) []Square {
	return b.airDefense[c][s]
}

// ForEach visits every occupied square in file-then-rank order. The fixed
// order keeps move generation deterministic.
func (b *Board) ForEach(fn func(Square, Piece)) {
	for rank := 0; rank < RankCount; rank++ {
		for file := 0; file < FileCount; file++ {
			s := MakeSquare(file, rank)
			if p, ok := b.pieces[s]; ok {
				fn(s, p)
			}
		}
	}
}

// Count returns the number of occupied squares.
func (b *Board) Count() int { return len(b.pieces) }

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := NewBoard()
	for s, p := range b.pieces {
		nb.pieces[s] = p.Clone()
	}
	nb.reindex()
	return nb
}

// Equal reports full board equality: contents and derived indices.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.pieces) != len(o.pieces) || b.commanders != o.commanders {
		return false
	}
	for s, p := range b.pieces {
		q, ok := o.pieces[s]
		if !ok || !piecesEqual(p, q) {
			return false
		}
	}
	return true
}

func piecesEqual(a, b Piece) bool {
	if !SameKind(a.Single(), b.Single()) || len(a.Carrying) != len(b.Carrying) {
		return false
	}
	for i := range a.Carrying {
		if !SameKind(a.Carrying[i], b.Carrying[i]) {
			return false
		}
	}
	return true
}

// reindex recomputes the commander squares and both air-defense maps. A full
// recompute on every mutation is cheap at this board size and removes a
// whole class of incremental-update bugs.
func (b *Board) reindex() {
	b.commanders = [2]Square{NoSquare, NoSquare}
	b.airDefense[Red] = make(map[Square][]Square)
	b.airDefense[Blue] = make(map[Square][]Square)

	for s, p := range b.pieces {
		if p.Contains(Commander) {
			b.commanders[p.Color] = s
		}
		level := p.Type.AirDefenseLevel()
		if level == 0 {
			continue
		}
		if p.Heroic {
			level++
		}
		b.project(p.Color, s, level)
	}
}

// project marks every square within the true circular radius level of the
// defender: dx*dx+dy*dy <= level*level, clipped to the board.
func (b *Board) project(c Color, defender Square, level int) {
	for dy := -level; dy <= level; dy++ {
		for dx := -level; dx <= level; dx++ {
			if dx*dx+dy*dy > level*level {
				continue
			}
			file := defender.File() + dx
			rank := defender.Rank() + dy
			if file < 0 || file >= FileCount || rank < 0 || rank >= RankCount {
				continue
			}
			s := MakeSquare(file, rank)
			b.airDefense[c][s] = append(b.airDefense[c][s], defender)
		}
	}
}
