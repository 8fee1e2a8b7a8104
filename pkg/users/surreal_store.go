package users

import (
	"context"
	"fmt"

	"tarobot/pkg/surreal"

	"github.com/google/uuid"
)

type SurrealStore struct {
	client *surreal.Client
}

func NewSurrealStore(client *surreal.Client) *SurrealStore {
	store := &SurrealStore{
		client: client,
	}
	if err := store.Init(); err != nil {
		// Log error but don't fail startup, as DB might be reachable later or schema exists
		fmt.Printf("Warning: Failed to initialize SurrealDB schema: %v\n", err)
	}
	return store
}

func (s *SurrealStore) Init() error {
	query := `
		DEFINE TABLE IF NOT EXISTS users SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS user_id ON users TYPE string;
		DEFINE FIELD IF NOT EXISTS username ON users TYPE string;
		DEFINE FIELD IF NOT EXISTS first_name ON users TYPE string;
		DEFINE FIELD IF NOT EXISTS last_name ON users TYPE string;
		DEFINE FIELD IF NOT EXISTS display_name ON users TYPE option<string>;
		DEFINE FIELD IF NOT EXISTS gender ON users TYPE option<string> ASSERT $value IN ["male", "female"] OR $value = NONE;
		DEFINE FIELD IF NOT EXISTS timezone ON users TYPE option<string>;
		DEFINE FIELD IF NOT EXISTS subscribed ON users TYPE bool DEFAULT false;
		DEFINE FIELD IF NOT EXISTS first_seen ON users TYPE int;
		DEFINE FIELD IF NOT EXISTS last_seen ON users TYPE int;
		DEFINE INDEX IF NOT EXISTS user_id_idx ON users FIELDS user_id UNIQUE;

		DEFINE TABLE IF NOT EXISTS readings SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS user_id ON readings TYPE string;
		DEFINE FIELD IF NOT EXISTS card_name ON readings TYPE string;
		DEFINE FIELD IF NOT EXISTS caption ON readings TYPE string;
		DEFINE FIELD IF NOT EXISTS created_at ON readings TYPE int;
	`
	_, err := s.client.Query(context.Background(), query, map[string]interface{}{})
	return err
}

// Upsert writes the profile in a single statement so that the
// display_name/gender/timezone coalescing cannot lose a concurrent
// update. Empty optional fields are sent as NONE and the stored value
// is kept.
func (s *SurrealStore) Upsert(ctx context.Context, p UpsertParams) error {
	if p.UserID == "" {
		return fmt.Errorf("upsert: empty user_id")
	}

	query := `
		INSERT INTO users (id, user_id, username, first_name, last_name, display_name, gender, timezone, subscribed, first_seen, last_seen)
		VALUES (type::thing("users", $user_id), $user_id, $username, $first_name, $last_name, $display_name, $gender, $timezone, false, time::unix(), time::unix())
		ON DUPLICATE KEY UPDATE
			username = $username,
			first_name = $first_name,
			last_name = $last_name,
			display_name = $display_name ?? display_name,
			gender = $gender ?? gender,
			timezone = $timezone ?? timezone,
			last_seen = time::unix();
	`
	_, err := s.client.Query(ctx, query, map[string]interface{}{
		"user_id":      p.UserID,
		"username":     p.Username,
		"first_name":   p.FirstName,
		"last_name":    p.LastName,
		"display_name": optional(p.DisplayName),
		"gender":       optional(p.Gender),
		"timezone":     optional(p.Timezone),
	})
	return err
}

func (s *SurrealStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	query := `SELECT * FROM type::thing("users", $user_id);`
	result, err := s.client.Query(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, err
	}

	rows := unwrapRows(result)
	if len(rows) == 0 {
		return nil, nil // Not found is not an error
	}

	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected row format: %T", rows[0])
	}

	return profileFromRow(row), nil
}

func (s *SurrealStore) SetSubscribed(ctx context.Context, userID string, subscribed bool) error {
	query := `UPDATE type::thing("users", $user_id) SET subscribed = $subscribed;`
	_, err := s.client.Query(ctx, query, map[string]interface{}{
		"user_id":    userID,
		"subscribed": subscribed,
	})
	return err
}

func (s *SurrealStore) ListSubscribed(ctx context.Context) ([]Subscriber, error) {
	query := `SELECT user_id, timezone FROM users WHERE subscribed = true;`
	result, err := s.client.Query(ctx, query, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	var subs []Subscriber
	for _, r := range unwrapRows(result) {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := row["user_id"].(string)
		if id == "" {
			continue
		}
		tz, _ := row["timezone"].(string)
		subs = append(subs, Subscriber{UserID: id, Timezone: tz})
	}
	return subs, nil
}

func (s *SurrealStore) AddReading(ctx context.Context, r ReadingRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	query := `
		CREATE type::thing("readings", $id) SET
			user_id = $user_id,
			card_name = $card_name,
			caption = $caption,
			created_at = time::unix();
	`
	_, err := s.client.Query(ctx, query, map[string]interface{}{
		"id":        r.ID,
		"user_id":   r.UserID,
		"card_name": r.CardName,
		"caption":   r.Caption,
	})
	return err
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// unwrapRows normalizes the shapes the surreal client can hand back:
// either the row slice itself, or a query-result envelope holding one.
func unwrapRows(result interface{}) []interface{} {
	resSlice, ok := result.([]interface{})
	if !ok {
		return nil
	}
	if len(resSlice) == 0 {
		return resSlice
	}
	if envelope, ok := resSlice[0].(map[string]interface{}); ok {
		if val, exists := envelope["result"]; exists {
			if rows, ok := val.([]interface{}); ok {
				return rows
			}
			return nil
		}
	}
	return resSlice
}

func profileFromRow(row map[string]interface{}) *UserProfile {
	p := &UserProfile{}
	p.UserID, _ = row["user_id"].(string)
	p.Username, _ = row["username"].(string)
	p.FirstName, _ = row["first_name"].(string)
	p.LastName, _ = row["last_name"].(string)
	p.DisplayName, _ = row["display_name"].(string)
	p.Gender, _ = row["gender"].(string)
	p.Timezone, _ = row["timezone"].(string)
	p.Subscribed, _ = row["subscribed"].(bool)
	p.FirstSeen = asInt64(row["first_seen"])
	p.LastSeen = asInt64(row["last_seen"])
	return p
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	}
	return 0
}
