package bot

import (
	"context"
	"log"
	"time"

	"tarobot/pkg/tarot"
	"tarobot/pkg/users"
)

// RunDailyBroadcast delivers a reading to every subscriber when their
// local time reaches the configured hour. Run as a goroutine once the
// gateway session is set. Timezone grouping means one wall-clock check
// per zone, not per user.
func (h *Handler) RunDailyBroadcast() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if h.session == nil {
			continue
		}
		h.broadcastTick(time.Now())
	}
}

func (h *Handler) broadcastTick(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	subs, err := h.store.ListSubscribed(ctx)
	if err != nil {
		log.Printf("[Broadcast] Error listing subscribers: %v", err)
		return
	}

	groups := groupDue(subs, now, h.broadcast.Hour, h.broadcast.DefaultTimezone, h.markSent)

	for tz, userIDs := range groups {
		batchStart := time.Now()
		log.Printf("[Broadcast] Sending to %d subscriber(s) in %s", len(userIDs), tz)

		sent := 0
		for _, userID := range userIDs {
			if err := h.sendDailyReading(ctx, userID); err != nil {
				log.Printf("[Broadcast] Error sending to user %s: %v", userID, err)
				continue
			}
			sent++
		}

		log.Printf("[Broadcast] %s done: %d/%d delivered in %v", tz, sent, len(userIDs), time.Since(batchStart))
	}

	h.broadcastChannelTick(ctx, now)
}

// sendDailyReading composes and DMs one subscriber's reading through
// the same transport-agnostic path the interactive commands use.
func (h *Handler) sendDailyReading(ctx context.Context, userID string) error {
	r := h.ComposeReadingFor(ctx, userID)

	ch, err := h.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}

	h.sendReading(h.session, ch.ID, userID, r)
	return nil
}

// broadcastChannelTick posts one shared card of the day to the fixed
// broadcast channel, if one is configured.
func (h *Handler) broadcastChannelTick(ctx context.Context, now time.Time) {
	if h.broadcast.ChannelID == "" {
		return
	}

	loc, err := time.LoadLocation(h.broadcast.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	if local.Hour() != h.broadcast.Hour {
		return
	}
	if !h.markSent("channel:"+h.broadcast.ChannelID, local.Format("2006-01-02")) {
		return
	}

	r := h.composer.Compose(ctx, tarot.Pick(), "", "")
	h.sendReading(h.session, h.broadcast.ChannelID, "", r)
	log.Printf("[Broadcast] Posted card of the day to channel %s", h.broadcast.ChannelID)
}

// markSent records that a zone (or channel) got its delivery for the
// given day. Returns false when already delivered.
func (h *Handler) markSent(key, day string) bool {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()

	if h.broadcastSent == nil {
		h.broadcastSent = make(map[string]string)
	}
	if h.broadcastSent[key] == day {
		return false
	}
	h.broadcastSent[key] = day
	return true
}

// groupDue buckets subscribers by timezone and keeps only the zones
// whose local clock reads the broadcast hour and that haven't been
// served today. markSent is injected so tests can observe dedup.
func groupDue(subs []users.Subscriber, now time.Time, hour int, fallbackTZ string, markSent func(key, day string) bool) map[string][]string {
	due := make(map[string][]string)

	for tz, userIDs := range users.GroupByTimezone(subs, fallbackTZ) {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("[Broadcast] Unknown timezone %q, using %s", tz, fallbackTZ)
			loc, err = time.LoadLocation(fallbackTZ)
			if err != nil {
				loc = time.UTC
			}
		}

		local := now.In(loc)
		if local.Hour() != hour {
			continue
		}
		if !markSent("tz:"+tz, local.Format("2006-01-02")) {
			continue
		}
		due[tz] = userIDs
	}

	return due
}
