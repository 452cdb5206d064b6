// Package session tracks the matches currently attached to a connection.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/thirty/internal/game/match"
)

// ErrMatchActive is returned when attaching a match another connection is playing.
var ErrMatchActive = errors.New("match already in play")

// Entry is one match attached to a connection.
type Entry struct {
	// ID is the match identifier used for persistence and resume.
	ID string
	// RemoteAddr is the address of the connection playing the match.
	RemoteAddr string
	// Match is owned by the attached connection; nothing else touches it.
	Match *match.Match
	// AttachedAt is when the connection took the match.
	AttachedAt time.Time
}

// Manager tracks all attached matches.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	active map[string]*Entry // match id → entry
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{active: make(map[string]*Entry)}
}

// Create registers a new match under a fresh id.
//
// Precondition: m must be non-nil.
// Postcondition: Returns the entry; its ID is a new UUID.
func (mgr *Manager) Create(remoteAddr string, m *match.Match) *Entry {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	e := &Entry{
		ID:         uuid.New().String(),
		RemoteAddr: remoteAddr,
		Match:      m,
		AttachedAt: time.Now(),
	}
	mgr.active[e.ID] = e
	return e
}

// NormalizeID returns the canonical lowercase hyphenated form of a match id.
// Any form uuid.Parse accepts (upper case, braces, urn prefix) maps to the
// same id.
func NormalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("match id %q: %w", id, err)
	}
	return u.String(), nil
}

// Attach registers an existing match, typically one restored from storage.
//
// Precondition: id must be a UUID; m must be non-nil.
// Postcondition: Returns the entry keyed by the canonical id, or ErrMatchActive
// if that id is already attached.
func (mgr *Manager) Attach(id, remoteAddr string, m *match.Match) (*Entry, error) {
	key, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if _, exists := mgr.active[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrMatchActive, key)
	}
	e := &Entry{ID: key, RemoteAddr: remoteAddr, Match: m, AttachedAt: time.Now()}
	mgr.active[key] = e
	return e, nil
}

// Detach releases the match so another connection may resume it.
//
// Postcondition: Returns an error if id was not attached.
func (mgr *Manager) Detach(id string) error {
	key, err := NormalizeID(id)
	if err != nil {
		return err
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if _, exists := mgr.active[key]; !exists {
		return fmt.Errorf("match %q not attached", key)
	}
	delete(mgr.active, key)
	return nil
}

// IsActive reports whether id is attached to a connection.
func (mgr *Manager) IsActive(id string) bool {
	key, err := NormalizeID(id)
	if err != nil {
		return false
	}
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	_, ok := mgr.active[key]
	return ok
}

// Count returns the number of attached matches.
func (mgr *Manager) Count() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.active)
}
