// Package hashing provides Zobrist-style position keys for the engine's
// legal-move cache.
package hashing

import (
	"math/bits"
	"math/rand"

	"github.com/mnoyd/cotulenh-go/internal/core"
)

// Fixed seed: keys must be stable within a process and across runs so that
// cache keys and test expectations are reproducible.
const tableSeed = 0x436f54754c656e68 // "CoTuLenh"

var (
	// pieceKeys[type][color][heroic][square]
	pieceKeys [core.NumPieceTypes][2][2][256]uint64
	turnKey   uint64
)

func init() {
	rng := rand.New(rand.NewSource(tableSeed))
	for t := range pieceKeys {
		for c := range pieceKeys[t] {
			for h := range pieceKeys[t][c] {
				for s := range pieceKeys[t][c][h] {
					pieceKeys[t][c][h][s] = rng.Uint64()
				}
			}
		}
	}
	turnKey = rng.Uint64()
}

// PieceKey returns the hash contribution of one piece standing on (or
// carried at) the given square.
func PieceKey(t core.PieceType, c core.Color, heroic bool, sq core.Square) uint64 {
	h := 0
	if heroic {
		h = 1
	}
	return pieceKeys[t][c][h][int(sq)&0xFF]
}

// PositionKey hashes the full board content plus the side to move. Stack
// constituents are rotated by their slot index so a carried piece hashes
// differently from the same piece standing alone on the square.
func PositionKey(b *core.Board, turn core.Color) uint64 {
	var key uint64
	b.ForEach(func(sq core.Square, p core.Piece) {
		for i, c := range p.Flatten() {
			key ^= bits.RotateLeft64(PieceKey(c.Type, c.Color, c.Heroic, sq), i)
		}
	})
	if turn == core.Blue {
		key ^= turnKey
	}
	return key
}
