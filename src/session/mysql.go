package session

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stake-plus/agentic-honeypot/src/types"
)

// SessionRecord is the persisted row shape. The full session state lives in
// the Data blob; the flag columns exist for operational queries.
type SessionRecord struct {
	ID           string `gorm:"primaryKey;size:128"`
	ScamDetected bool
	Reported     bool
	Data         []byte `gorm:"type:longtext"`
	UpdatedAt    time.Time
}

func (SessionRecord) TableName() string { return "honeypot_sessions" }

// MySQLStore persists sessions through gorm. Like RedisStore, same-id
// mutations serialize on a process-local lock.
type MySQLStore struct {
	db    *gorm.DB
	locks *keyedMutex
}

// MustMySQLStore connects and migrates, or exits the process.
func MustMySQLStore(dsn string) *MySQLStore {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		log.Fatalf("mysql migrate: %v", err)
	}
	return &MySQLStore{db: db, locks: newKeyedMutex()}
}

// Mutate implements Store.
func (s *MySQLStore) Mutate(id string, fn func(*types.Session)) error {
	mu := s.locks.get(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.load(id)
	if err != nil {
		return err
	}
	fn(sess)
	sess.LastActivity = time.Now().UTC()

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	rec := SessionRecord{
		ID:           id,
		ScamDetected: sess.ScamDetected,
		Reported:     sess.Reported,
		Data:         raw,
		UpdatedAt:    sess.LastActivity,
	}
	return s.db.Save(&rec).Error
}

func (s *MySQLStore) load(id string) (*types.Session, error) {
	var rec SessionRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewSession(id), nil
	}
	if err != nil {
		return nil, err
	}
	var sess types.Session
	if err := json.Unmarshal(rec.Data, &sess); err != nil {
		log.Printf("session: corrupt row for %s: %v", id, err)
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
func (s *MySQLStore) Snapshot(id string) (types.SessionSnapshot, bool) {
	var rec SessionRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return types.SessionSnapshot{}, false
	}
	var sess types.Session
	if err := json.Unmarshal(rec.Data, &sess); err != nil {
		return types.SessionSnapshot{}, false
	}
	return snapshotOf(&sess), true
}

// Count implements Store.
func (s *MySQLStore) Count() int {
	var n int64
	s.db.Model(&SessionRecord{}).Count(&n)
	return int(n)
}

// Close implements Store.
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
