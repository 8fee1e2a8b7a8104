package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps profiles in process memory. It backs tests and is
// the degraded mode when SurrealDB is unreachable at startup: the bot
// keeps dealing readings, it just forgets everyone on restart.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*UserProfile
	readings []ReadingRecord
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*UserProfile),
		now:      time.Now,
	}
}

func (m *MemoryStore) Upsert(ctx context.Context, p UpsertParams) error {
	if p.UserID == "" {
		return fmt.Errorf("upsert: empty user_id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Unix()
	existing, ok := m.profiles[p.UserID]
	if !ok {
		m.profiles[p.UserID] = &UserProfile{
			UserID:      p.UserID,
			Username:    p.Username,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DisplayName: p.DisplayName,
			Gender:      p.Gender,
			Timezone:    p.Timezone,
			FirstSeen:   now,
			LastSeen:    now,
		}
		return nil
	}

	existing.Username = p.Username
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	if p.DisplayName != "" {
		existing.DisplayName = p.DisplayName
	}
	if p.Gender != "" {
		existing.Gender = p.Gender
	}
	if p.Timezone != "" {
		existing.Timezone = p.Timezone
	}
	existing.LastSeen = now
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) SetSubscribed(ctx context.Context, userID string, subscribed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("no profile for user %s", userID)
	}
	p.Subscribed = subscribed
	return nil
}

func (m *MemoryStore) ListSubscribed(ctx context.Context) ([]Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var subs []Subscriber
	for _, p := range m.profiles {
		if p.Subscribed {
			subs = append(subs, Subscriber{UserID: p.UserID, Timezone: p.Timezone})
		}
	}
	return subs, nil
}

func (m *MemoryStore) AddReading(ctx context.Context, r ReadingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = m.now().Unix()
	}
	m.readings = append(m.readings, r)
	return nil
}

// Readings returns the recorded history, newest last. Test helper.
func (m *MemoryStore) Readings() []ReadingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ReadingRecord, len(m.readings))
	copy(out, m.readings)
	return out
}
