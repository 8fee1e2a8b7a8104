package users

import "context"

// Gender values accepted by the preference flow.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// UserProfile is one row of the users table, keyed by the stable
// platform user ID.
type UserProfile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Subscribed  bool   `json:"subscribed"`
	FirstSeen   int64  `json:"first_seen"`
	LastSeen    int64  `json:"last_seen"`
}

// HasPreferences reports whether the personalization flow can skip
// the gender/name prompts entirely.
func (p *UserProfile) HasPreferences() bool {
	return p != nil && p.DisplayName != "" && p.Gender != ""
}

// UpsertParams carries the fields written on every interaction.
// Username, FirstName and LastName overwrite unconditionally;
// DisplayName, Gender and Timezone are written only when non-empty,
// otherwise the stored value is kept.
type UpsertParams struct {
	UserID      string
	Username    string
	FirstName   string
	LastName    string
	DisplayName string
	Gender      string
	Timezone    string
}

// Subscriber is the projection used by the daily broadcast.
type Subscriber struct {
	UserID   string
	Timezone string
}

// ReadingRecord is a delivered reading, kept as best-effort history.
type ReadingRecord struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	CardName  string `json:"card_name"`
	Caption   string `json:"caption"`
	CreatedAt int64  `json:"created_at"`
}

// Store is the user persistence contract. Get returns (nil, nil) when
// no profile exists; an error means the store itself was unreachable.
type Store interface {
	Upsert(ctx context.Context, p UpsertParams) error
	Get(ctx context.Context, userID string) (*UserProfile, error)
	SetSubscribed(ctx context.Context, userID string, subscribed bool) error
	ListSubscribed(ctx context.Context) ([]Subscriber, error)
	AddReading(ctx context.Context, r ReadingRecord) error
}

// GroupByTimezone buckets subscribers by their timezone, applying
// fallback for profiles that never set one.
func GroupByTimezone(subs []Subscriber, fallback string) map[string][]string {
	groups := make(map[string][]string)
	for _, s := range subs {
		tz := s.Timezone
		if tz == "" {
			tz = fallback
		}
		groups[tz] = append(groups[tz], s.UserID)
	}
	return groups
}
