package di

import (
	"flag"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	Email string
	File  string

	// Verification flags
	Quick   bool
	Refresh bool

	// Output flags
	JSON    bool
	Verbose bool
	JSONLog bool

	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.StringVar(&flags.Email, "email", "", "Address to verify")
	flag.StringVar(&flags.File, "file", "", "File with one address per line (use - for stdin)")
	flag.BoolVar(&flags.Quick, "quick", false, "Skip the SMTP mailbox probe")
	flag.BoolVar(&flags.Refresh, "refresh", false, "Download the disposable domain list before verifying (always done for the memory store)")
	flag.BoolVar(&flags.JSON, "json", false, "Print one JSON outcome per line")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and per-check details")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		var cfg *config.Config
		if flags.ConfigFile != "" {
			loaded, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", flags.ConfigFile))
			cfg = loaded
		} else {
			cfg = config.NewFromViper(config.NewEmptyViper())
		}
		applyCLIOverrides(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Metrics are collected but never exported by the CLI
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}

	if err := provideVerification(container); err != nil {
		return nil, err
	}

	return container, nil
}

// applyCLIOverrides forces the CLI front end and the output flags
func applyCLIOverrides(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	v.Set("server.frontend", "cli")
	v.Set("cli.json", flags.JSON)
	v.Set("cli.verbose", flags.Verbose)
}
