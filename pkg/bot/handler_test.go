package bot

import (
	"context"
	"sync"
	"time"

	"tarobot/pkg/llm"
	"tarobot/pkg/reading"
	"tarobot/pkg/session"
	"tarobot/pkg/users"

	"github.com/bwmarrin/discordgo"
)

// Mock Session
type mockSession struct {
	mu        sync.Mutex
	sent      []string
	complex   []*discordgo.MessageSend
	responses []*discordgo.InteractionResponse
	dmUsers   []string
}

func (m *mockSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, content)
	return &discordgo.Message{Content: content, ChannelID: channelID}, nil
}

func (m *mockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complex = append(m.complex, data)
	m.sent = append(m.sent, data.Content)
	return &discordgo.Message{Content: data.Content, ChannelID: channelID}, nil
}

func (m *mockSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	return nil
}

func (m *mockSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dmUsers = append(m.dmUsers, recipientID)
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (m *mockSession) allSent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *mockSession) lastResponse() *discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return nil
	}
	return m.responses[len(m.responses)-1]
}

// Mock text client
type mockTextClient struct {
	ChatCompletionFunc func(ctx context.Context, messages []llm.Message) (string, error)
}

func (m *mockTextClient) ChatCompletion(ctx context.Context, messages []llm.Message) (string, error) {
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, messages)
	}
	return "Mock insight text", nil
}

func newTestHandler(store users.Store) *Handler {
	composer := reading.NewComposer(&mockTextClient{}, time.Second)
	sessions := session.NewManager(5*time.Minute, 100)
	return NewHandler(store, sessions, composer, nil, ImageSettings{Dir: "testdata/does-not-exist"}, BroadcastSettings{Hour: 9, DefaultTimezone: "UTC"})
}

func commandInteraction(userID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "chan-1",
			User:      &discordgo.User{ID: userID, Username: "user_" + userID, GlobalName: "User " + userID},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func componentInteraction(userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			ChannelID: "chan-1",
			User:      &discordgo.User{ID: userID, Username: "user_" + userID},
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func message(userID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-1",
			Content:   content,
			Author:    &discordgo.User{ID: userID, Username: "user_" + userID},
		},
	}
}
