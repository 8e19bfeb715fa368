package resolver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
)

// SystemResolver looks up MX records with the host resolver configuration
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSystemResolver creates a new resolver. A nil net.Resolver uses the default one.
func NewSystemResolver(resolver *net.Resolver, timeout time.Duration, logger *zap.Logger) *SystemResolver {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &SystemResolver{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// LookupMX returns the MX records of domain
func (r *SystemResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	records, err := r.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Resolved MX records",
		zap.String("domain", domain),
		zap.Int("count", len(records)))
	return records, nil
}
