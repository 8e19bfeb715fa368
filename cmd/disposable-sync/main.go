package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/disposable"
	"github.com/mikey/email-verify-api/internal/factory"
	"github.com/mikey/email-verify-api/internal/logging"
	"github.com/mikey/email-verify-api/internal/utils"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "", "Path to config file (default search path if not specified)")
	listURL    = flag.String("url", "", "Override the disposable list URL")
	storeType  = flag.String("store", "", "Override the disposable store type (memory, redis, sqlite, mysql, dynamodb)")
	minDomains = flag.Int("min-domains", 0, "Refuse to publish lists smaller than this (0 keeps the configured value)")
	timeout    = flag.Duration("timeout", 5*time.Minute, "Overall time limit for the sync")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *storeType != "" {
		cfg.GetViper().Set("disposable.store", *storeType)
	}
	if cfg.GetString("disposable.store") == "memory" {
		logger.Warn("The memory store does not outlive this process; nothing will be persisted")
	}

	refreshCfg, err := cfg.GetRefresh()
	if err != nil {
		logger.Fatal("Invalid refresh configuration", zap.Error(err))
	}
	if *listURL != "" {
		refreshCfg.URL = *listURL
	}
	if *minDomains > 0 {
		refreshCfg.MinDomains = *minDomains
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Initialize disposable store
	storeFactory := factory.NewStoreFactory(cfg, logger)
	store, err := storeFactory.CreateDisposableStore(ctx)
	if err != nil {
		logger.Fatal("Failed to create disposable store", zap.Error(err))
	}

	refresher := disposable.NewRefresher(store, nil, utils.NewDomainNormalizer(logger), disposable.Config{
		URL:        refreshCfg.URL,
		Interval:   refreshCfg.Interval,
		Timeout:    refreshCfg.Timeout,
		MinDomains: refreshCfg.MinDomains,
	}, logger, nil)

	startTime := time.Now()
	size, err := refresher.Refresh(ctx)

	// Close any resources that need closing
	if closer, ok := store.(interface{ Close() error }); ok {
		if closeErr := closer.Close(); closeErr != nil {
			logger.Error("Failed to close disposable store", zap.Error(closeErr))
		}
	}

	if err != nil {
		logger.Fatal("Disposable list sync failed", zap.Error(err))
	}

	fmt.Printf("Published %d disposable domains to the %s store in %v\n",
		size, cfg.GetString("disposable.store"), time.Since(startTime))
}
