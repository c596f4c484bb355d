// Package session keeps per-user bot preferences. Callers pass sessions
// explicitly; there is no process-wide user state.
package session

import (
	"context"
	"sync"
	"time"

	"metrotram/backend/services/tram-bot/internal/locale"
)

// Session is the state the bot remembers about one Telegram user.
type Session struct {
	UserID    int64         `json:"user_id"`
	Locale    locale.Locale `json:"-"`
	LangCode  string        `json:"lang"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New returns a session for user with the given language code.
func New(userID int64, langCode string) Session {
	loc := locale.Parse(langCode)
	return Session{UserID: userID, Locale: loc, LangCode: loc.Code(), UpdatedAt: time.Now().UTC()}
}

// Default is used when a user has no stored session yet.
func Default(userID int64) Session {
	return New(userID, "es")
}

// Store persists sessions keyed by user ID.
// Get returns found=false without error when the user is unknown.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, bool, error)
	Save(ctx context.Context, s Session) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore returns empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, userID int64) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
	return nil
}
