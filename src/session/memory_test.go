package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

func TestMemoryStoreCreatesOnFirstMutate(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	var created *types.Session
	if err := s.Mutate("fresh", func(sess *types.Session) { created = sess }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if created == nil || created.ID != "fresh" {
		t.Fatalf("session not created: %+v", created)
	}
	if created.Stage != types.StageConfusion {
		t.Fatalf("new session must open in confusion, got %s", created.Stage)
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
}

func TestMemoryStoreSerializesSameSession(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Mutate("contended", func(sess *types.Session) {
				sess.EngagementCount++
				sess.History = append(sess.History, types.Message{Sender: types.SenderScammer})
			})
		}()
	}
	wg.Wait()

	snap, ok := s.Snapshot("contended")
	if !ok {
		t.Fatal("session missing")
	}
	if snap.EngagementCount != workers {
		t.Fatalf("lost updates: engagement = %d, want %d", snap.EngagementCount, workers)
	}
	if snap.MessageCount != workers {
		t.Fatalf("lost updates: history = %d, want %d", snap.MessageCount, workers)
	}
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("sess-%d", i)
		_ = s.Mutate(id, func(sess *types.Session) {
			sess.Intelligence.PhoneNumbers[fmt.Sprintf("99999%05d", i)] = struct{}{}
			sess.EngagementCount = i
		})
	}

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("sess-%d", i)
		_ = s.Mutate(id, func(sess *types.Session) {
			if len(sess.Intelligence.PhoneNumbers) != 1 {
				t.Errorf("%s: intelligence leaked across sessions: %v", id, sess.Intelligence.PhoneNumbers)
			}
			if sess.EngagementCount != i {
				t.Errorf("%s: engagement = %d, want %d", id, sess.EngagementCount, i)
			}
		})
	}
}

func TestMemoryStoreSnapshotMissing(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	if _, ok := s.Snapshot("nope"); ok {
		t.Fatal("snapshot of unknown session must report absence")
	}
}

func TestMemoryStoreIntelligenceOnlyGrows(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	_ = s.Mutate("grow", func(sess *types.Session) {
		sess.Intelligence.PhishingLinks["http://a.example"] = 0.3
	})
	_ = s.Mutate("grow", func(sess *types.Session) {
		other := types.NewIntelligence()
		other.PhoneNumbers["9876543210"] = struct{}{}
		sess.Intelligence.Merge(other)
	})
	_ = s.Mutate("grow", func(sess *types.Session) {
		if len(sess.Intelligence.PhishingLinks) != 1 || len(sess.Intelligence.PhoneNumbers) != 1 {
			t.Errorf("intelligence shrank: %+v", sess.Intelligence)
		}
	})
}

func TestMemoryStoreEviction(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	defer s.Close()

	_ = s.Mutate("old", func(*types.Session) {})
	deadline := time.After(time.Second)
	for s.Count() != 0 {
		select {
		case <-deadline:
			t.Fatal("idle session never evicted")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
