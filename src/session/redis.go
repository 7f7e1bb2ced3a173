package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

const sessionKeyPrefix = "honeypot:session:"

// RedisStore keeps sessions as JSON blobs in redis, one key per session.
// The read-modify-write cycle is serialized with a per-id process-local
// lock; a deployment with multiple writers needs one instance per inbound
// channel or an external lock.
type RedisStore struct {
	rdb   *redis.Client
	locks *keyedMutex
	ttl   time.Duration
}

// MustRedisStore connects to redis or exits the process, matching the rest
// of the bootstrap path.
func MustRedisStore(url string, ttl time.Duration) *RedisStore {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}
	return &RedisStore{rdb: rdb, locks: newKeyedMutex(), ttl: ttl}
}

// Mutate implements Store.
func (s *RedisStore) Mutate(id string, fn func(*types.Session)) error {
	mu := s.locks.get(id)
	mu.Lock()
	defer mu.Unlock()

	ctx := context.Background()
	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	fn(sess)
	sess.LastActivity = time.Now().UTC()

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+id, raw, s.ttl).Err()
}

func (s *RedisStore) load(ctx context.Context, id string) (*types.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return types.NewSession(id), nil
	}
	if err != nil {
		return nil, err
	}
	var sess types.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Corrupt blob: start the session over rather than fail the
		// conversational path.
		log.Printf("session: corrupt redis blob for %s: %v", id, err)
		return types.NewSession(id), nil
	}
	if sess.Intelligence == nil {
		sess.Intelligence = types.NewIntelligence()
	}
	if sess.UsedReplies == nil {
		sess.UsedReplies = make(map[string]int)
	}
	return &sess, nil
}

// Snapshot implements Store.
func (s *RedisStore) Snapshot(id string) (types.SessionSnapshot, bool) {
	ctx := context.Background()
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		return types.SessionSnapshot{}, false
	}
	var sess types.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return types.SessionSnapshot{}, false
	}
	return snapshotOf(&sess), true
}

// Count implements Store.
func (s *RedisStore) Count() int {
	ctx := context.Background()
	var count int
	iter := s.rdb.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
