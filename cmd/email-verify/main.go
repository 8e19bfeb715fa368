package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/di"
	"github.com/mikey/email-verify-api/internal/disposable"
	"github.com/mikey/email-verify-api/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
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

// run verifies every address named on the command line or in the input file
func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	frontend ports.Frontend,
	store core.DisposableStore,
	refresher *disposable.Refresher,
) error {
	defer logger.Sync()
	defer func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close disposable store", zap.Error(err))
			}
		}
	}()

	addresses, err := collectAddresses(flags)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("no addresses given; use -email or -file")
	}

	ctx := context.Background()

	refreshCfg, err := cfg.GetRefresh()
	if err != nil {
		return err
	}
	if flags.Refresh || refreshCfg.Enabled {
		if _, err := refresher.Refresh(ctx); err != nil {
			logger.Warn("Disposable list refresh failed, continuing with the current set", zap.Error(err))
		}
	}

	failed := 0
	for _, address := range addresses {
		if _, err := frontend.Verify(ctx, core.VerificationRequest{Email: address, Quick: flags.Quick}); err != nil {
			logger.Error("Verification failed", zap.String("email", address), zap.Error(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d verifications failed", failed, len(addresses))
	}
	return nil
}

// collectAddresses gathers addresses from -email and from -file, one per line
func collectAddresses(flags *di.CLIFlags) ([]string, error) {
	var addresses []string
	if flags.Email != "" {
		addresses = append(addresses, flags.Email)
	}
	if flags.File == "" {
		return addresses, nil
	}

	var reader io.Reader
	if flags.File == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(flags.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return addresses, nil
}
