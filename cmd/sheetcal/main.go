package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sheetcal/cmd/sheetcal/commands"
	appLog "sheetcal/internal/log"
)

var version = "dev"

func main() {
	commands.SetVersion(version)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// Errors are already printed by the printer package.
	if err := commands.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
