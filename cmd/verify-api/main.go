package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/di"
	"github.com/mikey/email-verify-api/internal/disposable"
	"github.com/mikey/email-verify-api/internal/ports"
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
	cfg *config.Config,
	logger *zap.Logger,
	frontend ports.Frontend,
	store core.DisposableStore,
	refresher *disposable.Refresher,
) error {
	defer logger.Sync()

	refreshCfg, err := cfg.GetRefresh()
	if err != nil {
		return err
	}
	if refreshCfg.Enabled {
		refresher.Start(refreshCfg.OnStart)
	}
	if sizer, ok := store.(interface{ Size() int }); ok && sizer.Size() == 0 && !(refreshCfg.Enabled && refreshCfg.OnStart) {
		logger.Warn("Disposable domain set is empty; no domain will be reported as disposable until a refresh succeeds",
			zap.String("store", cfg.GetString("disposable.store")),
			zap.Bool("refresh_enabled", refreshCfg.Enabled))
	}

	// Start the front end
	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start front end", zap.Error(err))
		refresher.Stop()
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the front end
	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop front end", zap.Error(err))
	}

	refresher.Stop()

	// Close the disposable store if needed
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close disposable store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
