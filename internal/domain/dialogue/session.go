// Package dialogue drives the conversational confirm/execute workflow:
// a per-session state machine that collects transaction fields, asks for
// confirmation and hands validated transactions to the ERP submitter.
package dialogue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"erpchat/internal/domain/transaction"
)

// State is the dialogue state of one chat session.
type State string

const (
	// StateIdle - no active transaction.
	StateIdle State = "idle"
	// StateCollecting - a partial transaction awaits more user input.
	StateCollecting State = "collecting"
	// StateConfirming - a valid transaction awaits yes/no.
	StateConfirming State = "confirming"
)

// Session is the explicit dialogue state passed through Step.
// It is a value: Step returns the successor instead of mutating shared state,
// which keeps the state machine testable without any transport.
type Session struct {
	ID        string                   `json:"id"`
	State     State                    `json:"state"`
	Tx        *transaction.Transaction `json:"transaction,omitempty"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// NewSession creates an idle session with a fresh ID.
func NewSession() Session {
	return Session{
		ID:        uuid.New().String(),
		State:     StateIdle,
		UpdatedAt: time.Now(),
	}
}

// reset clears the staged transaction and returns to idle.
func (s Session) reset() Session {
	s.State = StateIdle
	s.Tx = nil
	s.UpdatedAt = time.Now()
	return s
}

// Store keeps live sessions in memory, keyed by session ID.
// One dialogue per session; concurrent requests for the same session are
// serialized by the caller holding Get/Put around Step.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]Session)}
}

// Get returns the session for id, or a new idle session carrying that id
// when none exists yet.
func (s *Store) Get(id string) Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	sess = NewSession()
	if id != "" {
		sess.ID = id
	}
	return sess
}

// Put stores the session.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
