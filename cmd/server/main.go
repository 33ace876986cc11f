package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finderqr/internal/config"
	"finderqr/internal/server"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	// Form content is optional
	formCfg, err := config.LoadFormConfig()
	if err != nil {
		log.Fatalf("Failed to load form config: %v", err)
	}
	cfg.Form = formCfg

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	srv.RegisterRoutes()

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// setupLogging installs the default slog handler: text in development,
// JSON everywhere else.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
