// Command mockapi serves an in-memory copy of the remote API for local development.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codego/internal/config"
	"codego/internal/mockapi"
	"codego/internal/observability"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	observability.SetGlobal(logger)

	srv := mockapi.New(mockapi.Config{
		QuizSize:        cfg.MockAPIQuizSize,
		AllowVoteChange: cfg.MockAPIVoteChange,
		Seed:            cfg.MockAPISeed,
		AllowOrigins:    cfg.MockAPIAllowOrigins,
		Logger:          logger,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down mock API...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Listen(":" + cfg.MockAPIPort); err != nil {
		log.Fatalf("mock API stopped: %v", err)
	}
}
