package host

import (
	"sort"
	"sync"
)

// subscribers is a cancellable callback set invoked in subscription order.
type subscribers struct {
	mu   *sync.Mutex
	next int
	fns  map[int]func()
}

func newSubscribers() *subscribers {
	return &subscribers{mu: &sync.Mutex{}, fns: make(map[int]func())}
}

func (s *subscribers) add(fn func()) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.fns[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// fire runs every subscriber over a snapshot, so callbacks may cancel themselves.
func (s *subscribers) fire() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = s.fns[id]
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *subscribers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}
