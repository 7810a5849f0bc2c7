package record

import "sync"

// generations counts writes per record id. A cache fill only happens when no
// write to the id was observed between the start of the read and the fill.
type generations struct {
	mu sync.Mutex
	m  map[int64]uint64
}

func (g *generations) current(id int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[id]
}

// bump advances the generation of id and runs evict while no fill can interleave.
func (g *generations) bump(id int64, evict func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		g.m = make(map[int64]uint64)
	}
	g.m[id]++
	evict()
}

func (g *generations) fillIfCurrent(id int64, seen uint64, fill func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m[id] != seen {
		return false
	}
	fill()
	return true
}
