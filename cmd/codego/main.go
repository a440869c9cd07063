// Command codego is the terminal client for the Code Go community API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codego/internal/bootstrap"
	"codego/internal/cli"
	"codego/internal/config"
	"codego/internal/notify"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, notifier notify.Notifier) (*bootstrap.Runtime, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		return bootstrap.New(ctx, cfg, bootstrap.Options{Notifier: notifier})
	}

	if err := cli.Execute(ctx, factory, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
