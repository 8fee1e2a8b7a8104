package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tarobot/pkg/bot"
	"tarobot/pkg/cache"
	"tarobot/pkg/config"
	"tarobot/pkg/llm"
	"tarobot/pkg/reading"
	"tarobot/pkg/session"
	"tarobot/pkg/surreal"
	"tarobot/pkg/users"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	token := os.Getenv("DISCORD_TOKEN")
	geminiKeys := os.Getenv("GEMINI_API_KEY")

	// Check each required environment variable individually for better error messages
	if token == "" {
		log.Fatal("Missing required environment variable: DISCORD_TOKEN")
	}
	if geminiKeys == "" {
		log.Fatal("Missing required environment variable: GEMINI_API_KEY")
	}

	surrealHost := os.Getenv("SURREAL_DB_HOST")
	surrealUser := os.Getenv("SURREAL_DB_USER")
	surrealPass := os.Getenv("SURREAL_DB_PASS")
	surrealNS := os.Getenv("SURREAL_DB_NAMESPACE")
	surrealDB := os.Getenv("SURREAL_DB_DATABASE")

	if surrealHost == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_HOST")
	}
	if surrealUser == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_USER")
	}
	if surrealPass == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_PASS")
	}
	if surrealNS == "" {
		surrealNS = "tarobot" // Default
	}
	if surrealDB == "" {
		surrealDB = "fortune" // Default
	}

	// Add protocol if missing
	if !strings.HasPrefix(surrealHost, "ws://") && !strings.HasPrefix(surrealHost, "wss://") {
		surrealHost = "wss://" + surrealHost + "/rpc"
	}

	// Initialize text-generation client
	textClient := llm.NewClient(geminiKeys, cfg.ModelSettings.Temperature, cfg.ModelSettings.TopP, nil)
	composer := reading.NewComposer(textClient, 30*time.Second)

	// Initialize User Store (SurrealDB). An unreachable database is not
	// fatal: readings still work, profiles just don't survive a restart.
	var store users.Store
	log.Printf("Connecting to SurrealDB at %s (NS: %s, DB: %s)", surrealHost, surrealNS, surrealDB)
	surrealClient, err := surreal.NewClient(surrealHost, surrealUser, surrealPass, surrealNS, surrealDB)
	if err != nil {
		log.Printf("SurrealDB unavailable, falling back to in-memory profiles: %v", err)
		store = users.NewMemoryStore()
	} else {
		defer surrealClient.Close()
		store = users.NewSurrealStore(surrealClient)
	}

	// Optional Redis cache for profiles and daily horoscopes
	var redisCache *cache.Cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err = cache.NewRedisCache(redisURL, "tarobot")
		if err != nil {
			log.Printf("Redis unavailable, running without cache: %v", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			store = users.NewCachedStore(store, redisCache)
			log.Println("Redis cache initialized")
		}
	}

	// Preference sessions with inactivity expiry
	sessions := session.NewManager(time.Duration(cfg.Session.TimeoutMinutes)*time.Minute, cfg.Session.MaxNameLength)
	go sessions.RunSweeper(time.Minute)

	handler := bot.NewHandler(
		store,
		sessions,
		composer,
		redisCache,
		bot.ImageSettings{
			Dir:            cfg.Images.Dir,
			MaxWidth:       cfg.Images.MaxWidth,
			MaxHeight:      cfg.Images.MaxHeight,
			ThresholdBytes: cfg.Images.ThresholdBytes,
		},
		bot.BroadcastSettings{
			Hour:            cfg.Broadcast.Hour,
			DefaultTimezone: cfg.Broadcast.DefaultTimezone,
			ChannelID:       os.Getenv("BROADCAST_CHANNEL_ID"),
		},
	)

	// Create Discord Session
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	// Register Handlers
	dg.AddHandler(handler.MessageCreate)
	dg.AddHandler(handler.InteractionCreate)

	// Open Connection
	if err := dg.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	// Set Bot ID in handler (so it can ignore itself)
	handler.SetBotID(dg.State.User.ID)
	// Set Session in handler (for the daily broadcast loop)
	handler.SetSession(&bot.DiscordSession{Session: dg})
	go handler.RunDailyBroadcast()

	// Register slash commands (empty string = global, or specify guild ID for faster testing)
	guildID := os.Getenv("DISCORD_GUILD_ID") // Optional: set this for faster command updates during development
	registeredCommands, err := bot.RegisterSlashCommands(dg, guildID)
	if err != nil {
		log.Fatalf("Error registering slash commands: %v", err)
	}

	// Cleanup function to unregister commands on shutdown
	defer func() {
		if err := bot.UnregisterSlashCommands(dg, guildID, registeredCommands); err != nil {
			log.Printf("Error unregistering slash commands: %v", err)
		}
	}()

	log.Println("Tarobot is now running. Press CTRL-C to exit.")

	// Set Custom Status
	err = dg.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name:  "Custom Status",
				Type:  discordgo.ActivityTypeCustom,
				State: "reading the cards 🔮",
			},
		},
		Status: "online",
	})
	if err != nil {
		log.Printf("Error setting custom status: %v", err)
	}

	// Wait for signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}
