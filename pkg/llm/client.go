// Package llm talks to the Gemini OpenAI-compatible chat completion
// endpoint. Multiple API keys may be supplied comma-separated; calls
// go out on the key with the fewest recent failures.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	baseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

type ModelConfig struct {
	ID       string
	MaxToken int
}

var DefaultModels = []ModelConfig{
	{ID: "gemini-2.0-flash-001", MaxToken: 2048},
	{ID: "gemini-flash-lite-latest", MaxToken: 2048},
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// KeyState tracks the health of an API key
type KeyState struct {
	Key          string
	FailureCount int
	LastUsed     time.Time
	LastSuccess  time.Time
}

type Client struct {
	keys        []*KeyState
	keyMu       sync.RWMutex
	clients     map[string]openai.Client
	clientsMu   sync.RWMutex
	temperature float64
	topP        float64
	models      []ModelConfig
}

func NewClient(apiKeys string, temperature, topP float64, models []ModelConfig) *Client {
	if len(models) == 0 {
		models = DefaultModels
	}

	keyStrings := strings.Split(apiKeys, ",")
	keys := make([]*KeyState, 0, len(keyStrings))
	for _, k := range keyStrings {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, &KeyState{
				Key:          k,
				FailureCount: 0,
			})
		}
	}

	if len(keys) == 0 {
		log.Println("Warning: No Gemini API keys provided")
	} else {
		log.Printf("Loaded %d Gemini API key(s)", len(keys))
	}

	return &Client{
		keys:        keys,
		clients:     make(map[string]openai.Client),
		temperature: temperature,
		topP:        topP,
		models:      models,
	}
}

func (c *Client) getClient(key string) openai.Client {
	c.clientsMu.RLock()
	if client, ok := c.clients[key]; ok {
		c.clientsMu.RUnlock()
		return client
	}
	c.clientsMu.RUnlock()

	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(key),
	)
	c.clients[key] = client
	return client
}

func (c *Client) getBestKey() *KeyState {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()

	if len(c.keys) == 0 {
		return nil
	}

	best := c.keys[0]
	for _, k := range c.keys[1:] {
		if k.FailureCount < best.FailureCount {
			best = k
		}
	}
	return best
}

func (c *Client) recordSuccess(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.LastSuccess = time.Now()
	key.LastUsed = time.Now()
	if key.FailureCount > 0 {
		key.FailureCount--
	}
}

func (c *Client) recordFailure(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.FailureCount++
	key.LastUsed = time.Now()
}

func (c *Client) completeWithModel(ctx context.Context, messages []Message, model ModelConfig) (string, error) {
	keyState := c.getBestKey()
	if keyState == nil {
		return "", fmt.Errorf("no API keys configured")
	}

	client := c.getClient(keyState.Key)

	chatMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			chatMessages[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			chatMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			chatMessages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model.ID),
		Messages:    chatMessages,
		Temperature: openai.Float(c.temperature),
		TopP:        openai.Float(c.topP),
		MaxTokens:   openai.Int(int64(model.MaxToken)),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.recordFailure(keyState)
		return "", err
	}

	if resp == nil || len(resp.Choices) == 0 {
		c.recordFailure(keyState)
		return "", fmt.Errorf("empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		c.recordFailure(keyState)
		return "", fmt.Errorf("empty response")
	}

	c.recordSuccess(keyState)
	return content, nil
}

// ChatCompletion tries the configured models in priority order and
// returns the first non-empty completion.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	var lastErr error
	for _, model := range c.models {
		reply, err := c.completeWithModel(ctx, messages, model)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("Model %s failed: %v", model.ID, err)
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}
