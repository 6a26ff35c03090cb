package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session tracks a profile playing one encounter.
type Session struct {
	// SID is the unique session identifier.
	SID string
	// ProfileID is the database ID of the owning profile.
	ProfileID int64
	// Username is the profile username (for logging).
	Username string
	// CharacterID is the database ID of the character in play.
	CharacterID int64
	// CharacterName is the character display name.
	CharacterName string
	// EncounterID is the active encounter, empty between fights.
	EncounterID string
	// StartedAt is when the session was created.
	StartedAt time.Time
	// Feed carries encounter text events to the front end.
	Feed *EventFeed
}

// Manager tracks active sessions. A profile may hold at most one session, and
// a session may run at most one encounter at a time.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sid → session
	profiles map[int64]string    // profileID → sid
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		profiles: make(map[int64]string),
	}
}

// Attach creates a session for the given profile and character.
//
// Precondition: username and characterName must be non-empty; profileID and
// characterID must be positive.
// Postcondition: Returns the created Session, or an error if the profile
// already has one.
func (m *Manager) Attach(profileID int64, username string, characterID int64, characterName string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sid, exists := m.profiles[profileID]; exists {
		return nil, fmt.Errorf("session: profile %d already attached as %s", profileID, sid)
	}

	sid := uuid.NewString()
	sess := &Session{
		SID:           sid,
		ProfileID:     profileID,
		Username:      username,
		CharacterID:   characterID,
		CharacterName: characterName,
		StartedAt:     time.Now(),
		Feed:          NewEventFeed(sid, 64),
	}
	m.sessions[sid] = sess
	m.profiles[profileID] = sid
	return sess, nil
}

// Detach removes a session and closes its feed.
//
// Postcondition: The session is removed. Returns an error if not found.
func (m *Manager) Detach(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[sid]
	if !exists {
		return fmt.Errorf("session: %q not found", sid)
	}

	_ = sess.Feed.Close()
	delete(m.profiles, sess.ProfileID)
	delete(m.sessions, sid)
	return nil
}

// Get returns the session for sid, or nil if none.
func (m *Manager) Get(sid string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sid]
}

// ByProfile returns the session owned by profileID, or nil if none.
func (m *Manager) ByProfile(profileID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sid, ok := m.profiles[profileID]; ok {
		return m.sessions[sid]
	}
	return nil
}

// BeginEncounter marks the session as fighting the given encounter.
//
// Precondition: encounterID must be non-empty.
// Postcondition: Returns an error if the session is unknown or already in an
// encounter.
func (m *Manager) BeginEncounter(sid, encounterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[sid]
	if !exists {
		return fmt.Errorf("session: %q not found", sid)
	}
	if sess.EncounterID != "" {
		return fmt.Errorf("session: %q already in encounter %s", sid, sess.EncounterID)
	}
	sess.EncounterID = encounterID
	return nil
}

// EndEncounter clears the session's active encounter.
//
// Postcondition: Returns an error if the session is unknown.
func (m *Manager) EndEncounter(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[sid]
	if !exists {
		return fmt.Errorf("session: %q not found", sid)
	}
	sess.EncounterID = ""
	return nil
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
