package engine

import (
	"container/list"
	"fmt"

	"github.com/mnoyd/cotulenh-go/internal/core"
	"github.com/mnoyd/cotulenh-go/internal/hashing"
)

const defaultCacheSize = 64

// moveCache is a bounded LRU memo for legal-move generation. Entries are
// keyed by hashed position state plus session and filter keys, so a key can
// never serve a stale result: any state mutation produces a different key,
// and the make/unmake probing inside the legality filter restores the state
// it started from.
type moveCache struct {
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key   string
	moves []core.Move
}

func newMoveCache(capacity int) *moveCache {
	return &moveCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *moveCache) get(key string) ([]core.Move, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).moves, true
}

func (c *moveCache) add(key string, moves []core.Move) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).moves = moves
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, moves: moves})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *moveCache) len() int { return c.order.Len() }

// cacheKey combines the hashed board state, the side to move, the deploy
// session key, and the filter key.
func (p *Position) cacheKey(f Filters) string {
	return fmt.Sprintf("%016x/%s/%s", hashing.PositionKey(p.board, p.turn), p.session.key(), f.key())
}
