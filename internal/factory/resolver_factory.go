package factory

import (
	"fmt"

	"github.com/mikey/email-verify-api/internal/adapters/resolver"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"go.uber.org/zap"
)

// ResolverFactory creates MX resolvers
type ResolverFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewResolverFactory creates a new resolver factory
func NewResolverFactory(cfg *config.Config, logger *zap.Logger) *ResolverFactory {
	return &ResolverFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMXLookup creates an MX resolver based on the configuration
func (f *ResolverFactory) CreateMXLookup() (core.MXLookup, error) {
	dnsCfg, err := f.cfg.GetDNS()
	if err != nil {
		return nil, fmt.Errorf("invalid DNS configuration: %w", err)
	}

	switch dnsCfg.Type {
	case "system":
		return resolver.NewSystemResolver(nil, dnsCfg.Timeout, f.logger), nil
	case "miekg":
		if dnsCfg.Nameserver == "" {
			return nil, fmt.Errorf("dns.nameserver is required for the miekg resolver")
		}
		return resolver.NewMiekgResolver(dnsCfg.Nameserver, dnsCfg.Timeout, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported DNS resolver type: %s", dnsCfg.Type)
	}
}
