// Package session holds the short-lived per-user preference flow:
// ask for gender, then for a display name. Sessions live in process
// memory only and expire after a period of inactivity so abandoned
// flows don't accumulate.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"
)

type State int

const (
	StateNone State = iota
	StateAwaitingGender
	StateAwaitingName
)

var (
	// ErrNoSession means input arrived with no flow in progress.
	ErrNoSession = errors.New("no active session")
	// ErrWrongState means input arrived out of order for the flow.
	ErrWrongState = errors.New("input does not match session state")
	// ErrInvalidGender means the choice was not one of the offered values.
	ErrInvalidGender = errors.New("invalid gender choice")
	// ErrEmptyName means the name was blank after trimming.
	ErrEmptyName = errors.New("empty name")
)

// Result carries the collected preferences once the flow completes.
type Result struct {
	DisplayName string
	Gender      string
}

type flow struct {
	state      State
	gender     string
	lastActive time.Time
}

// Manager tracks at most one flow per user. A new Begin replaces any
// in-flight flow for that user; the transport delivers one active
// conversation per user at a time, so last-writer-wins is safe.
type Manager struct {
	mu         sync.Mutex
	flows      map[string]*flow
	ttl        time.Duration
	maxNameLen int
	now        func() time.Time
}

func NewManager(ttl time.Duration, maxNameLen int) *Manager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxNameLen <= 0 {
		maxNameLen = 100
	}
	return &Manager{
		flows:      make(map[string]*flow),
		ttl:        ttl,
		maxNameLen: maxNameLen,
		now:        time.Now,
	}
}

// Begin starts (or restarts) the flow for a user in AwaitingGender.
func (m *Manager) Begin(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flows[userID] = &flow{
		state:      StateAwaitingGender,
		lastActive: m.now(),
	}
}

// ChooseGender records the gender choice and advances to AwaitingName.
func (m *Manager) ChooseGender(userID, gender string) error {
	if gender != "male" && gender != "female" {
		return ErrInvalidGender
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.activeLocked(userID)
	if f == nil {
		return ErrNoSession
	}
	if f.state != StateAwaitingGender {
		return ErrWrongState
	}

	f.gender = gender
	f.state = StateAwaitingName
	f.lastActive = m.now()
	return nil
}

// EnterName completes the flow, returning the collected preferences
// and destroying the session. The name is trimmed and capped at the
// configured rune length.
func (m *Manager) EnterName(userID, text string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.activeLocked(userID)
	if f == nil {
		return Result{}, ErrNoSession
	}
	if f.state != StateAwaitingName {
		return Result{}, ErrWrongState
	}

	name := strings.TrimSpace(text)
	if name == "" {
		// Keep waiting; the handler re-prompts.
		f.lastActive = m.now()
		return Result{}, ErrEmptyName
	}
	if runes := []rune(name); len(runes) > m.maxNameLen {
		name = string(runes[:m.maxNameLen])
	}

	delete(m.flows, userID)
	return Result{DisplayName: name, Gender: f.gender}, nil
}

// State reports the current flow state, expiring stale flows lazily.
func (m *Manager) State(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.activeLocked(userID)
	if f == nil {
		return StateNone
	}
	return f.state
}

// Abandon drops any flow for the user.
func (m *Manager) Abandon(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID)
}

// activeLocked returns the user's flow, removing it when expired.
// Caller holds the mutex.
func (m *Manager) activeLocked(userID string) *flow {
	f, ok := m.flows[userID]
	if !ok {
		return nil
	}
	if m.now().Sub(f.lastActive) > m.ttl {
		delete(m.flows, userID)
		return nil
	}
	return f
}

// RunSweeper periodically drops expired flows. Run as a goroutine.
func (m *Manager) RunSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.sweepOnce()
	}
}

func (m *Manager) sweepOnce() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, f := range m.flows {
		if m.now().Sub(f.lastActive) > m.ttl {
			delete(m.flows, userID)
		}
	}
}
