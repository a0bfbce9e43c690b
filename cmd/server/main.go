package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/config"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/extractor"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/flows"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/router"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/transport"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Starting Our Kitchen Turn Service...")

	cfg := config.Load()
	log.Printf("📋 Service: %s", cfg.ServiceName)
	log.Printf("📡 NATS URL: %s", cfg.NatsURL)
	log.Printf("🥫 Pantry URL: %s", cfg.PantryBaseURL)

	// Validate required configuration
	if cfg.AnthropicAPIKey == "" {
		log.Fatal("❌ ANTHROPIC_API_KEY environment variable is required")
	}

	// Initialize Redis-backed state store
	log.Println("🔌 Connecting to Redis...")
	store, err := state.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer store.Close()
	log.Println("✅ Redis connected")

	// Lifecycle manager: hydrates before dispatch, flushes after.
	manager := state.NewManager(store, cfg.ResumeWindow)

	// Pantry client for household data
	pantryClient := pantry.NewClient(cfg.PantryBaseURL, cfg.PantryAPIKey, cfg.PantryTimeout)
	log.Println("✅ Pantry client initialized")

	// Transcript extractor for bulk grocery adds
	model, err := anthropic.New(
		anthropic.WithToken(cfg.AnthropicAPIKey),
		anthropic.WithModel(cfg.AnthropicModel),
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Anthropic model: %v", err)
	}
	itemExtractor := extractor.New(model)
	log.Println("✅ Extractor initialized")

	// Wire the dialogue handler chain
	deps := flows.NewDeps(pantryClient, itemExtractor)
	deps.UndoWindow = cfg.UndoWindow
	deps.MaxPinAttempts = cfg.MaxPinAttempts

	turnRouter := router.New()
	if err := flows.Register(turnRouter, deps); err != nil {
		log.Fatalf("❌ Failed to register handlers: %v", err)
	}
	log.Println("✅ Handler chain registered")

	// Initialize NATS transport
	log.Println("📡 Connecting to NATS...")
	natsTransport, err := transport.NewNATSTransport(cfg, turnRouter, manager)
	if err != nil {
		log.Fatalf("❌ Failed to initialize NATS transport: %v", err)
	}
	defer natsTransport.Close()

	if err := natsTransport.Start(); err != nil {
		log.Fatalf("❌ Failed to start NATS transport: %v", err)
	}

	log.Println("✅ Our Kitchen Turn Service is running!")
	log.Printf("👂 Listening on subject: %s", cfg.NatsTurnSubject)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("🛑 Received signal: %v", sig)
	log.Println("🔄 Shutting down gracefully...")

	if err := natsTransport.Close(); err != nil {
		log.Printf("⚠️ Error closing NATS transport: %v", err)
	}

	log.Println("👋 Our Kitchen Turn Service stopped")
}
