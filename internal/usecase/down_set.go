package usecase

import "sync"

// downSet records addresses confirmed unreachable during a run. It only grows.
type downSet struct {
	mu    sync.RWMutex
	items map[string]struct{}
	order []string
}

func newDownSet() *downSet {
	return &downSet{items: make(map[string]struct{})}
}

// Add reports whether addr was newly added.
func (s *downSet) Add(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[addr]; ok {
		return false
	}

	s.items[addr] = struct{}{}
	s.order = append(s.order, addr)

	return true
}

func (s *downSet) Contains(addr string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[addr]

	return ok
}

func (s *downSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *downSet) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}
