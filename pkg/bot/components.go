package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tarobot/pkg/cache"
	"tarobot/pkg/session"
	"tarobot/pkg/tarot"
	"tarobot/pkg/users"

	"github.com/bwmarrin/discordgo"
)

const (
	genderMaleID   = "gender_male"
	genderFemaleID = "gender_female"
	zodiacPrefix   = "zodiac_"
)

func (h *Handler) handleComponent(s Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case customID == genderMaleID:
		h.handleGenderChoice(s, i, users.GenderMale)
	case customID == genderFemaleID:
		h.handleGenderChoice(s, i, users.GenderFemale)
	case strings.HasPrefix(customID, zodiacPrefix):
		h.handleZodiacChoice(s, i, strings.TrimPrefix(customID, zodiacPrefix))
	default:
		log.Printf("Unknown component interaction: %s", customID)
	}
}

func (h *Handler) handleGenderChoice(s Session, i *discordgo.InteractionCreate, gender string) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	if err := h.sessions.ChooseGender(user.ID, gender); err != nil {
		// A stale button press, not a failure worth surfacing loudly.
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrWrongState) {
			log.Printf("Gender choice from user %s ignored: %v", user.ID, err)
			respondEphemeral(s, i, "That choice isn't active anymore. Use /personal_tarot to start over.")
			return
		}
		log.Printf("Error handling gender choice for user %s: %v", user.ID, err)
		return
	}

	respond(s, i, "And what should I call you? Just type the name.")
}

func (h *Handler) handleZodiacChoice(s Session, i *discordgo.InteractionCreate, rawSign string) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	sign, ok := tarot.ValidSign(rawSign)
	if !ok {
		log.Printf("Zodiac choice with unknown sign %q ignored", rawSign)
		return
	}

	respond(s, i, "🔮 Preparing the horoscope for "+sign+"...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		text, err := h.horoscopeFor(ctx, sign)
		if err != nil {
			log.Printf("Horoscope generation failed for %s: %v", sign, err)
			if _, sendErr := s.ChannelMessageSend(i.ChannelID, "The stars are unreadable right now. Try again later."); sendErr != nil {
				log.Printf("Error sending horoscope fallback: %v", sendErr)
			}
			return
		}

		if _, err := s.ChannelMessageSend(i.ChannelID, "🌟 Horoscope for "+sign+":\n\n"+text); err != nil {
			log.Printf("Error sending horoscope: %v", err)
		}
	}()
}

// horoscopeFor serves one generated horoscope per sign per day,
// caching in Redis when a cache is configured.
func (h *Handler) horoscopeFor(ctx context.Context, sign string) (string, error) {
	var key string
	if h.cache != nil {
		key = h.cache.Key("horoscope", strings.ToLower(sign), time.Now().UTC().Format("2006-01-02"))
		if cached, err := h.cache.Get(ctx, key); err == nil && cached != "" {
			return cached, nil
		}
	}

	text, err := h.composer.Horoscope(ctx, sign)
	if err != nil {
		return "", err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, text, cache.HoroscopeTTL); err != nil {
			log.Printf("Error caching horoscope for %s: %v", sign, err)
		}
	}
	return text, nil
}
