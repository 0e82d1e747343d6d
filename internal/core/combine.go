package core

import "golang.org/x/exp/slices"

// Carrier capacity table. Each carrier type offers a fixed set of slots; a
// slot accepts one piece drawn from its allowed types. The commander rides
// along with any carrier that has a commander slot.
type slot struct {
	allowed []PieceType
}

var carrierSlots = map[PieceType][]slot{
	Navy: {
		{allowed: []PieceType{Tank, AirForce}},
		{allowed: []PieceType{Infantry, Militia, Engineer}},
		{allowed: []PieceType{Commander}},
	},
	AirForce: {
		{allowed: []PieceType{Tank, Infantry, Militia, Engineer}},
		{allowed: []PieceType{Commander}},
	},
	Tank: {
		{allowed: []PieceType{Infantry, Militia, Engineer}},
		{allowed: []PieceType{Commander}},
	},
}

// carrierOrder fixes which piece becomes the carrier when several candidates
// could. A navy outranks an air force outranks a tank.
var carrierOrder = []PieceType{Navy, AirForce, Tank}

// CombineResult reports the outcome of a combination request: the stack that
// was formed, if any, and the pieces that did not fit.
type CombineResult struct {
	Combined   *Piece
	Uncombined []Piece
}

// Combine attempts to assemble the given pieces (stacks are flattened first)
// into a single stack. Pieces that cannot be placed under the chosen carrier
// are returned uncombined. A single piece combines to itself.
func Combine(pieces []Piece) CombineResult {
	var singles []Piece
	for _, p := range pieces {
		singles = append(singles, p.Flatten()...)
	}
	if len(singles) == 0 {
		return CombineResult{}
	}
	if len(singles) == 1 {
		p := singles[0]
		return CombineResult{Combined: &p}
	}
	for i := 1; i < len(singles); i++ {
		if singles[i].Color != singles[0].Color {
			return CombineResult{Uncombined: singles}
		}
	}

	carrierIdx := -1
	for _, ct := range carrierOrder {
		for i, p := range singles {
			if p.Type == ct {
				carrierIdx = i
				break
			}
		}
		if carrierIdx >= 0 {
			break
		}
	}
	if carrierIdx < 0 {
		return CombineResult{Uncombined: singles}
	}

	carrier := singles[carrierIdx]
	slots := carrierSlots[carrier.Type]
	used := make([]bool, len(slots))
	var leftover []Piece
	for i, p := range singles {
		if i == carrierIdx {
			continue
		}
		placed := false
		for si, sl := range slots {
			if used[si] || !slices.Contains(sl.allowed, p.Type) {
				continue
			}
			used[si] = true
			carrier.Carrying = append(carrier.Carrying, p)
			placed = true
			break
		}
		if !placed {
			leftover = append(leftover, p)
		}
	}
	return CombineResult{Combined: &carrier, Uncombined: leftover}
}

// CanCombine reports whether every given piece fits into one stack.
func CanCombine(pieces []Piece) bool {
	res := Combine(pieces)
	return res.Combined != nil && len(res.Uncombined) == 0
}
