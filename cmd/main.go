package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/facebook-group-parser/internal/app"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	log := logger.New(logger.Opts{})

	fxApp := fx.New(
		fx.Logger(log),
		app.Module,
	)

	// Start the application
	if err := fxApp.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal or one-shot completion
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-fxApp.Done():
	}

	// Gracefully shutdown the application
	if err := fxApp.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
