package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/di"
	"github.com/mikey/llm-reply-agent/internal/factory"
	"github.com/mikey/llm-reply-agent/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	ingress ports.Ingress,
	llmClient factory.LLMClient,
	journal core.EventJournal,
) error {
	defer logger.Sync()

	// Start the ingress surface
	if err := ingress.Start(); err != nil {
		logger.Fatal("Failed to start ingress", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the ingress surface
	if err := ingress.Stop(); err != nil {
		logger.Error("Failed to stop ingress", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	// Close the journal if needed
	if closer, ok := journal.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close event journal", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
