package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/sol-telemetry/cmd/report/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
