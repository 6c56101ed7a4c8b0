package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bekzodm/qrkod-bot/config"
	"github.com/bekzodm/qrkod-bot/controllers"
	botmiddleware "github.com/bekzodm/qrkod-bot/middleware"
	"github.com/bekzodm/qrkod-bot/qr"
	"github.com/bekzodm/qrkod-bot/repositories"
	"github.com/bekzodm/qrkod-bot/services"
	"github.com/bekzodm/qrkod-bot/telegram"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load environment variables from .env file, if one exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize repositories
	repos := repositories.NewRepositories(cfg.AllowedUsersFile, cfg.DataDir, cfg.ActivityLogFile, cfg.SuperAdminID)

	// Initialize Telegram client
	tg, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram client: %v", err)
	}

	// Initialize services
	srvs, err := services.NewServices(repos, tg, qr.NewEncoder(), cfg.SuperAdminID)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	// Set up router
	r := setupRouter(ctrl, cfg)

	// Point Telegram's update delivery at us
	webhookURL := cfg.PublicURL + "/" + cfg.BotToken
	if err := tg.RegisterWebhook(webhookURL, cfg.WebhookSecret); err != nil {
		log.Fatalf("Failed to register webhook: %v", err)
	}

	fmt.Printf("🤖 QR bot @%s starting on port %s\n", tg.Username(), cfg.Port)
	fmt.Printf("📡 Webhook registered at %s\n", cfg.PublicURL)
	fmt.Printf("📂 Data directory: %s\n", cfg.DataDir)

	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "qrkod-bot"}`)
	})

	// Webhook route (the token in the path keeps it unguessable, the
	// secret header check keeps it Telegram-only)
	r.Group(func(r chi.Router) {
		r.Use(botmiddleware.RequireWebhookSecret(cfg.WebhookSecret))
		r.Post("/"+cfg.BotToken, ctrl.Webhook.Receive)
	})

	return r
}
