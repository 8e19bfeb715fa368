package factory

import (
	"fmt"
	"os"

	"github.com/mikey/email-verify-api/internal/adapters/frontend"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// FrontendFactory creates front ends based on configuration
type FrontendFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.VerificationService
	gatherer prometheus.Gatherer
}

// NewFrontendFactory creates a new front end factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.VerificationService, gatherer prometheus.Gatherer) *FrontendFactory {
	return &FrontendFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		gatherer: gatherer,
	}
}

// CreateFrontend creates a front end based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	switch serverCfg.Frontend {
	case "http":
		return frontend.NewHTTPFrontend(f.service, f.logger, serverCfg, f.gatherer), nil
	case "cli":
		return frontend.NewCliFrontend(
			f.service,
			f.logger,
			os.Stdout,
			f.cfg.GetBool("cli.json"),
			f.cfg.GetBool("cli.verbose"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported front end type: %s", serverCfg.Frontend)
	}
}
