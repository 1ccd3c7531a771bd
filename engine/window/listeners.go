package window

import (
	"sort"
	"sync"
)

// listeners is a set of callbacks that can be cancelled individually and are
// invoked in subscription order.
type listeners[F any] struct {
	mu   *sync.Mutex
	next int
	fns  map[int]F
}

func newListeners[F any]() *listeners[F] {
	return &listeners[F]{mu: &sync.Mutex{}, fns: make(map[int]F)}
}

func (l *listeners[F]) add(fn F) func() {
	l.mu.Lock()
	id := l.next
	l.next++
	l.fns[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners[F]) snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]F, len(ids))
	for i, id := range ids {
		out[i] = l.fns[id]
	}
	return out
}

func (l *listeners[F]) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
