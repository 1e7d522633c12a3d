package engine

import "sync"

// lockPool hands out one mutex per normalized query so the counter
// read-modify-write and the promotion check are serialized per key even
// when the HTTP layer runs requests concurrently.
type lockPool struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (p *lockPool) get(key string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*sync.Mutex)
	}
	if l, ok := p.m[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	p.m[key] = l
	return l
}
