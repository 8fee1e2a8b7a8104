package reading

import "fmt"

// insightSystemPrompt frames the generation calls. Plain prose only:
// the transport renders markdown and generated control characters are
// stripped anyway, so the model is told not to produce any.
const insightSystemPrompt = `You are a warm, slightly mysterious tarot reader. You write short, evocative interpretations. Plain prose only: no markdown, no headings, no bullet lists, no emoji. Three to five sentences.`

const horoscopeSystemPrompt = `You are an astrologer writing a daily horoscope. Keep it grounded and practical: mood, one area to focus on, one small piece of advice for the day. Plain prose only, no markdown, no emoji. Four to six sentences.`

// tarotInsightPrompt asks for the free-text block of a card reading.
// Personalization fields are optional and simply omitted when absent.
func tarotInsightPrompt(cardName, displayName, gender string) string {
	prompt := fmt.Sprintf("The card drawn is %q. Interpret what this card suggests for the day ahead.", cardName)
	if displayName != "" {
		prompt += fmt.Sprintf(" The reading is for %s", displayName)
		if gender != "" {
			prompt += fmt.Sprintf(" (%s)", gender)
		}
		prompt += "; address them by name once, naturally."
	}
	return prompt
}

func horoscopePrompt(sign string) string {
	return fmt.Sprintf("Write today's horoscope for %s.", sign)
}
