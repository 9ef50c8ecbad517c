package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/tagscan/internal/gate"
	"github.com/lehigh-university-libraries/tagscan/internal/ledger"
	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

// Session is the working state of one operator inventorying one location.
// Lock must be held while touching Ledger or Gate.
type Session struct {
	sync.Mutex

	ID        string
	Location  string
	CreatedAt time.Time

	Ledger *ledger.Ledger
	Gate   *gate.Gate
}

// NewSession opens a session for location with a fresh ledger.
func NewSession(location string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Location:  location,
		CreatedAt: time.Now(),
		Ledger:    ledger.New(),
		Gate:      gate.New(),
	}
}

// Summary returns a JSON-ready view, optionally including the pivoted table.
func (s *Session) Summary(withTable bool) models.SessionSummary {
	s.Lock()
	defer s.Unlock()

	summary := models.SessionSummary{
		ID:        s.ID,
		Location:  s.Location,
		Records:   s.Ledger.Len(),
		CreatedAt: s.CreatedAt,
	}
	if withTable {
		table := s.Ledger.Pivot()
		summary.Table = &table
	}
	return summary
}

// Contents returns the records and their pivoted table from one consistent
// view of the ledger.
func (s *Session) Contents() ([]models.Record, models.Table) {
	s.Lock()
	defer s.Unlock()
	return s.Ledger.Records(), s.Ledger.Pivot()
}

// Clear empties the ledger. The gate keeps its last payload so a re-sent
// photo is still ignored.
func (s *Session) Clear() {
	s.Lock()
	defer s.Unlock()
	s.Ledger.Clear()
}

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// Create opens and stores a new session for location.
func (s *SessionStore) Create(location string) *Session {
	session := NewSession(location)
	s.Set(session.ID, session)
	return session
}

func (s *SessionStore) GetAll() map[string]*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
