// Package session provides the session registry. The default backend is an
// in-process map; redis and mysql backends exist for deployments that need
// the registry to survive the process or be shared between instances.
package session

import (
	"sync"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

// Store is the session registry contract. Mutate serializes concurrent
// calls for the same id; calls for different ids never block each other.
type Store interface {
	// Mutate runs fn against the session for id inside that session's
	// critical section, creating the session if it does not exist yet.
	// Values computed by fn escape through its closure.
	Mutate(id string, fn func(*types.Session)) error
	// Snapshot returns a read-only view of one session.
	Snapshot(id string) (types.SessionSnapshot, bool)
	// Count reports how many sessions the registry holds.
	Count() int
	// Close releases backend resources.
	Close() error
}

// keyedMutex hands out one mutex per key so unrelated sessions never
// contend. Entries live as long as the process; session churn is bounded by
// the store's own eviction.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *keyedMutex) drop(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.locks, key)
}

func snapshotOf(s *types.Session) types.SessionSnapshot {
	return types.SessionSnapshot{
		SessionID:       s.ID,
		ScamDetected:    s.ScamDetected,
		MessageCount:    len(s.History),
		EngagementCount: s.EngagementCount,
		Stage:           s.Stage,
		Reported:        s.Reported,
	}
}
