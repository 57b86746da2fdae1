package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitegen-backend/cmd"
	"sitegen-backend/internal/api"
	"sitegen-backend/internal/config"
	"sitegen-backend/internal/generator"
	"sitegen-backend/internal/github"
	"sitegen-backend/internal/notifier"
	"sitegen-backend/internal/pipeline"
	"sitegen-backend/internal/publisher"
	"sitegen-backend/internal/verifier"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	// Missing credentials are soft at boot: the affected tasks fail
	// individually instead of blocking startup.
	for _, name := range cfg.MissingCredentials() {
		slog.Warn("credential not configured, dependent tasks will fail", "credential", name)
	}

	gen := generator.New(
		generator.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMMaxTokens, cfg.LLMTimeout),
		generator.NewGeminiProvider(cfg.GeminiAPIKey, cfg.LLMFallbackModel, cfg.LLMTemperature, cfg.LLMMaxTokens, cfg.LLMTimeout),
	)

	gh := github.NewClient(cfg.GitHubAPIBase, cfg.GitHubToken, cfg.GitHubUser, cfg.GitHubAPITimeout)

	pub := publisher.New(gh, publisher.Options{
		Token:        cfg.GitHubToken,
		GitUserName:  cfg.GitUserName,
		GitUserEmail: cfg.GitUserEmail,
		PushTimeout:  cfg.GitHubPushTimeout,
		TempBaseDir:  cfg.TempBaseDir,
	})

	ver := verifier.New(cfg.PagesPollInterval, cfg.PagesPollBudget)
	not := notifier.New(cfg.NotifyMaxAttempts, cfg.NotifyBaseDelay, cfg.NotifyTimeout)

	tasks := pipeline.New(cfg, gen, pub, ver, not)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout
	r.Use(cors.Handler(cors.Options{
		// The evaluation UI calls this service cross-origin.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// API Handlers (dependency injection)
	apiHandler := api.NewBackendService(cfg, tasks, ver)

	apiHandler.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
