package bot

import (
	"context"
	"log"
	"time"

	"tarobot/pkg/tarot"
	"tarobot/pkg/users"

	"github.com/bwmarrin/discordgo"
)

const welcomeText = `✨ Welcome! I am your personal fortune-telling bot. ✨

🃏 /tarot — a classic card reading: a random card from the deck, its meaning, and an AI interpretation
🧙 /personal_tarot — a personalized reading: I remember your name and gender and read the card just for you
🌌 /horoscope — your daily horoscope by zodiac sign
🔔 /subscribe — receive a card every morning (and /unsubscribe to stop)`

// SlashCommands defines all available slash commands
var SlashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "start",
		Description: "What this bot can do",
	},
	{
		Name:        "tarot",
		Description: "Draw a random tarot card with its meaning",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name to address the reading to",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "gender",
				Description: "Gender for the reading",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "male", Value: users.GenderMale},
					{Name: "female", Value: users.GenderFemale},
				},
			},
		},
	},
	{
		Name:        "personal_tarot",
		Description: "A reading personalized with your saved name and gender",
	},
	{
		Name:        "horoscope",
		Description: "Today's horoscope for your zodiac sign",
	},
	{
		Name:        "subscribe",
		Description: "Receive a daily card reading",
	},
	{
		Name:        "unsubscribe",
		Description: "Stop the daily card readings",
	},
}

// SlashCommandHandlers maps command names to their handler functions
var SlashCommandHandlers = map[string]func(h *Handler, s Session, i *discordgo.InteractionCreate){
	"start":          handleStartCommand,
	"tarot":          handleTarotCommand,
	"personal_tarot": handlePersonalTarotCommand,
	"horoscope":      handleHoroscopeCommand,
	"subscribe":      handleSubscribeCommand,
	"unsubscribe":    handleUnsubscribeCommand,
}

func respond(s Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func respondEphemeral(s Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func handleStartCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	respond(s, i, welcomeText)
	h.touchProfile(context.Background(), profileParams(user))
}

func handleTarotCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	var name, gender string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "gender":
			gender = opt.StringValue()
		}
	}

	// Ack within the interaction deadline, then deliver the reading
	// as a regular message once composition finishes.
	respond(s, i, "🔮 Drawing your card...")

	params := profileParams(user)
	params.DisplayName = name
	params.Gender = gender
	h.touchProfile(context.Background(), params)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		r := h.composer.Compose(ctx, tarot.Pick(), name, gender)
		h.sendReading(s, i.ChannelID, user.ID, r)
	}()
}

func handlePersonalTarotCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.touchProfile(ctx, profileParams(user))

	profile, err := h.store.Get(ctx, user.ID)
	if err != nil {
		log.Printf("Error loading profile for user %s: %v", user.ID, err)
		// Degrade to the question flow rather than blocking the reading.
	}

	if profile.HasPreferences() {
		// Preferences already stored; never prompt again.
		respond(s, i, "🔮 Drawing your card, "+profile.DisplayName+"...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			r := h.composer.Compose(ctx, tarot.Pick(), profile.DisplayName, profile.Gender)
			h.sendReading(s, i.ChannelID, user.ID, r)
		}()
		return
	}

	h.sessions.Begin(user.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Let's make this personal. Who is the reading for?",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Label: "Male", Style: discordgo.PrimaryButton, CustomID: genderMaleID},
						discordgo.Button{Label: "Female", Style: discordgo.PrimaryButton, CustomID: genderFemaleID},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error sending gender prompt: %v", err)
	}
}

func handleHoroscopeCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	h.touchProfile(context.Background(), profileParams(user))

	// Four rows of three sign buttons each.
	var rows []discordgo.MessageComponent
	for start := 0; start < len(tarot.Signs); start += 3 {
		var row discordgo.ActionsRow
		for _, sign := range tarot.Signs[start : start+3] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    sign,
				Style:    discordgo.SecondaryButton,
				CustomID: zodiacPrefix + sign,
			})
		}
		rows = append(rows, row)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "Choose your zodiac sign:",
			Components: rows,
		},
	})
	if err != nil {
		log.Printf("Error sending zodiac prompt: %v", err)
	}
}

func handleSubscribeCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	setSubscription(h, s, i, true, "🔔 Subscribed! A card will find you every morning.")
}

func handleUnsubscribeCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	setSubscription(h, s, i, false, "Unsubscribed. The cards will wait until you call them.")
}

func setSubscription(h *Handler, s Session, i *discordgo.InteractionCreate, subscribed bool, confirmation string) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Make sure the profile row exists before flipping the flag.
	h.touchProfile(ctx, profileParams(user))

	if err := h.store.SetSubscribed(ctx, user.ID, subscribed); err != nil {
		log.Printf("Error updating subscription for user %s: %v", user.ID, err)
		respondEphemeral(s, i, "Something went wrong updating your subscription. Try again later?")
		return
	}

	respondEphemeral(s, i, confirmation)
}

// InteractionCreate handles slash commands and component presses.
func (h *Handler) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.HandleInteraction(&DiscordSession{Session: s}, i)
}

func (h *Handler) HandleInteraction(s Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		commandName := i.ApplicationCommandData().Name
		if handler, ok := SlashCommandHandlers[commandName]; ok {
			handler(h, s, i)
		} else {
			log.Printf("Unknown slash command: %s", commandName)
		}
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	}
}

// RegisterSlashCommands registers all slash commands with Discord
func RegisterSlashCommands(s *discordgo.Session, guildID string) ([]*discordgo.ApplicationCommand, error) {
	log.Println("Registering slash commands...")

	registeredCommands := make([]*discordgo.ApplicationCommand, len(SlashCommands))

	for i, cmd := range SlashCommands {
		// Register globally (guildID = "") or for a specific guild
		registeredCmd, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd)
		if err != nil {
			log.Printf("Cannot create '%s' command: %v", cmd.Name, err)
			return nil, err
		}
		registeredCommands[i] = registeredCmd
		log.Printf("Registered command: %s", cmd.Name)
	}

	return registeredCommands, nil
}

// UnregisterSlashCommands removes all registered slash commands
func UnregisterSlashCommands(s *discordgo.Session, guildID string, commands []*discordgo.ApplicationCommand) error {
	log.Println("Unregistering slash commands...")

	for _, cmd := range commands {
		err := s.ApplicationCommandDelete(s.State.User.ID, guildID, cmd.ID)
		if err != nil {
			log.Printf("Cannot delete '%s' command: %v", cmd.Name, err)
			return err
		}
		log.Printf("Unregistered command: %s", cmd.Name)
	}

	return nil
}
