package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mateusz58/catalog-staging/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRegistry tracks the live staging sessions of an embedding process,
// one per open form. Sessions idle past the TTL are dropped by SweepExpired
// without flushing; staged state is volatile by design.
type SessionRegistry struct {
	mu       sync.Mutex
	api      BackendClient
	ttl      time.Duration
	maxConc  int
	sessions map[string]*registryEntry
	now      func() time.Time
}

type registryEntry struct {
	session     *StagingSession
	lastTouched time.Time
}

// NewSessionRegistry creates a registry handing out sessions bound to the
// given backend client.
func NewSessionRegistry(api BackendClient, ttl time.Duration, maxConcurrency int) *SessionRegistry {
	return &SessionRegistry{
		api:      api,
		ttl:      ttl,
		maxConc:  maxConcurrency,
		sessions: map[string]*registryEntry{},
		now:      time.Now,
	}
}

// Create opens a new staging session for a component and returns its id.
func (r *SessionRegistry) Create(componentID uint) (string, *StagingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	session := NewStagingSession(r.api, componentID, r.maxConc)
	r.sessions[id] = &registryEntry{session: session, lastTouched: r.now()}

	logger.Debug("Staging session created", map[string]interface{}{
		"session_id":   id,
		"component_id": componentID,
	})
	return id, session
}

// Get returns a live session and refreshes its idle timer.
func (r *SessionRegistry) Get(id string) (*StagingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastTouched = r.now()
	return entry.session, nil
}

// Remove drops a session explicitly (form closed or submitted).
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SweepExpired removes every session idle past the TTL and returns how many
// were dropped.
func (r *SessionRegistry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastTouched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info("Expired staging sessions swept", map[string]interface{}{
			"removed":   removed,
			"remaining": len(r.sessions),
		})
	}
	return removed
}
