package session

import (
	"sync"
	"time"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

// MemoryStore keeps sessions in a process-local map. Each session carries
// its own mutex so mutations on different ids run in parallel while
// mutations on the same id serialize.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	mu   sync.Mutex
	sess *types.Session
}

// NewMemoryStore creates a store that evicts sessions idle for longer than
// ttl. A zero ttl disables eviction.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

func (s *MemoryStore) entry(id string) *memoryEntry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[id]; ok {
		return e
	}
	e = &memoryEntry{sess: types.NewSession(id)}
	s.sessions[id] = e
	return e
}

// Mutate implements Store.
func (s *MemoryStore) Mutate(id string, fn func(*types.Session)) error {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess)
	e.sess.LastActivity = time.Now().UTC()
	return nil
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(id string) (types.SessionSnapshot, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return types.SessionSnapshot{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshotOf(e.sess), true
}

// Count implements Store.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction sweeper.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-s.ttl)
			s.mu.Lock()
			for id, e := range s.sessions {
				e.mu.Lock()
				idle := e.sess.LastActivity.Before(cutoff)
				e.mu.Unlock()
				if idle {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
