// Package reading assembles card readings and horoscopes. The caption
// skeleton is deterministic; only the free-text insight block comes
// from the text-generation API, and its failure never loses the
// reading itself.
package reading

import (
	"context"
	"fmt"
	"log"
	"time"

	"tarobot/pkg/llm"
	"tarobot/pkg/tarot"
)

const insightFallback = "The spirits are quiet right now. Ask again a little later for a deeper insight."

// TextClient is the contract toward the generation API.
type TextClient interface {
	ChatCompletion(ctx context.Context, messages []llm.Message) (string, error)
}

// Reading is a composed caption plus whether the insight block made it.
type Reading struct {
	Card      tarot.Card
	Caption   string
	InsightOK bool
}

type Composer struct {
	client  TextClient
	timeout time.Duration
}

// NewComposer wires a text client. A nil client disables insights
// entirely; readings still carry the deterministic portion.
func NewComposer(client TextClient, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Composer{client: client, timeout: timeout}
}

// Compose builds the caption for a drawn card. displayName and gender
// are optional; when displayName is set the caption addresses the
// user directly.
func (c *Composer) Compose(ctx context.Context, card tarot.Card, displayName, gender string) Reading {
	var caption string
	if displayName != "" {
		caption = fmt.Sprintf("%s, your card today is %s.\nMeaning: %s", displayName, card.Name, card.Meaning)
	} else {
		caption = fmt.Sprintf("Today's card: %s\nMeaning: %s", card.Name, card.Meaning)
	}

	insight, err := c.generate(ctx, insightSystemPrompt, tarotInsightPrompt(card.Name, displayName, gender))
	if err != nil {
		log.Printf("Insight generation failed for %q: %v", card.Name, err)
		return Reading{Card: card, Caption: caption + "\n\n" + insightFallback}
	}

	return Reading{Card: card, Caption: caption + "\n\n" + insight, InsightOK: true}
}

// Horoscope returns today's generated horoscope for a zodiac sign.
// Unlike Compose there is no deterministic skeleton worth sending on
// its own, so a failure surfaces to the caller.
func (c *Composer) Horoscope(ctx context.Context, sign string) (string, error) {
	text, err := c.generate(ctx, horoscopeSystemPrompt, horoscopePrompt(sign))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Composer) generate(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("no text client configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.client.ChatCompletion(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", err
	}

	reply = Sanitize(reply)
	if reply == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return reply, nil
}
