package bot

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"tarobot/pkg/cache"
	"tarobot/pkg/reading"
	"tarobot/pkg/session"
	"tarobot/pkg/tarot"
	"tarobot/pkg/users"

	"github.com/bwmarrin/discordgo"
)

// ImageSettings controls card illustration attachments.
type ImageSettings struct {
	Dir            string
	MaxWidth       int
	MaxHeight      int
	ThresholdBytes int64
}

// BroadcastSettings controls the daily subscriber readings.
type BroadcastSettings struct {
	Hour            int
	DefaultTimezone string
	ChannelID       string // optional fixed channel for a shared card of the day
}

type Handler struct {
	store     users.Store
	sessions  *session.Manager
	composer  *reading.Composer
	cache     *cache.Cache // nil disables horoscope caching
	images    ImageSettings
	broadcast BroadcastSettings
	botID     string

	session Session // set after the gateway opens, used by background loops

	// daily broadcast dedup, key -> YYYY-MM-DD
	broadcastMu   sync.Mutex
	broadcastSent map[string]string
}

func NewHandler(store users.Store, sessions *session.Manager, composer *reading.Composer, c *cache.Cache, images ImageSettings, broadcast BroadcastSettings) *Handler {
	return &Handler{
		store:     store,
		sessions:  sessions,
		composer:  composer,
		cache:     c,
		images:    images,
		broadcast: broadcast,
	}
}

func (h *Handler) SetBotID(id string) {
	h.botID = id
}

// SetSession hands the opened gateway session to background loops.
func (h *Handler) SetSession(s Session) {
	h.session = s
}

// touchProfile records the interacting user. Persistence is
// best-effort telemetry: a storage failure is logged and the flow
// continues without it.
func (h *Handler) touchProfile(ctx context.Context, p users.UpsertParams) {
	if err := h.store.Upsert(ctx, p); err != nil {
		log.Printf("Error upserting profile for user %s: %v", p.UserID, err)
	}
}

// profileParams maps a Discord user onto the stored profile fields.
func profileParams(u *discordgo.User) users.UpsertParams {
	if u == nil {
		return users.UpsertParams{}
	}
	return users.UpsertParams{
		UserID:    u.ID,
		Username:  u.Username,
		FirstName: u.GlobalName,
	}
}

// interactionUser works for both guild and DM contexts.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// ComposeReadingFor draws a card and composes a reading using the
// user's stored preferences, if any. It takes a plain user ID and
// returns data only, so the broadcast driver can call it without a
// simulated inbound event.
func (h *Handler) ComposeReadingFor(ctx context.Context, userID string) reading.Reading {
	var displayName, gender string
	profile, err := h.store.Get(ctx, userID)
	if err != nil {
		log.Printf("Error loading profile for user %s: %v", userID, err)
	} else if profile != nil {
		displayName = profile.DisplayName
		gender = profile.Gender
	}

	return h.composer.Compose(ctx, tarot.Pick(), displayName, gender)
}

// recordReading is best-effort history, never user-visible.
func (h *Handler) recordReading(ctx context.Context, userID string, r reading.Reading) {
	err := h.store.AddReading(ctx, users.ReadingRecord{
		UserID:   userID,
		CardName: r.Card.Name,
		Caption:  r.Caption,
	})
	if err != nil {
		log.Printf("Error recording reading for user %s: %v", userID, err)
	}
}

// sendReading delivers a composed reading to a channel, attaching the
// card illustration when one exists on disk.
func (h *Handler) sendReading(s Session, channelID, userID string, r reading.Reading) {
	file, missing := h.cardFile(r.Card)

	caption := r.Caption
	if missing != "" {
		caption += "\n\n" + missing
	}

	var err error
	if file != nil {
		_, err = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: caption,
			Files:   []*discordgo.File{file},
		})
	} else {
		_, err = s.ChannelMessageSend(channelID, caption)
	}
	if err != nil {
		log.Printf("Error sending reading to channel %s: %v", channelID, err)
		return
	}

	if userID != "" {
		h.recordReading(context.Background(), userID, r)
	}
}

// MessageCreate is the gateway entrypoint for plain messages.
func (h *Handler) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.HandleMessage(&DiscordSession{Session: s}, m)
}

// HandleMessage consumes free text only while the author's preference
// session is waiting for a name; everything else is ignored.
func (h *Handler) HandleMessage(s Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	if h.sessions.State(m.Author.ID) != session.StateAwaitingName {
		return
	}

	res, err := h.sessions.EnterName(m.Author.ID, m.Content)
	if err != nil {
		if errors.Is(err, session.ErrEmptyName) {
			if _, sendErr := s.ChannelMessageSend(m.ChannelID, "I still need a name for the reading. What should I call you?"); sendErr != nil {
				log.Printf("Error re-prompting for name: %v", sendErr)
			}
			return
		}
		// Session vanished between the state check and the input.
		log.Printf("Name input for user %s ignored: %v", m.Author.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	params := profileParams(m.Author)
	params.DisplayName = res.DisplayName
	params.Gender = res.Gender
	h.touchProfile(ctx, params)

	r := h.composer.Compose(ctx, tarot.Pick(), res.DisplayName, res.Gender)
	h.sendReading(s, m.ChannelID, m.Author.ID, r)
}
