package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	mdns "github.com/miekg/dns"
	"go.uber.org/zap"
)

// MiekgResolver queries a fixed nameserver directly, bypassing the host
// resolver configuration
type MiekgResolver struct {
	client     *mdns.Client
	nameserver string
	logger     *zap.Logger
}

// NewMiekgResolver creates a resolver that sends MX queries to nameserver (host:port)
func NewMiekgResolver(nameserver string, timeout time.Duration, logger *zap.Logger) *MiekgResolver {
	return &MiekgResolver{
		client:     &mdns.Client{Timeout: timeout},
		nameserver: nameserver,
		logger:     logger,
	}
}

// LookupMX returns the MX records of domain. Failures are reported as
// *net.DNSError so callers classify them the same way as system lookups.
func (r *MiekgResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(domain), mdns.TypeMX)

	in, _, err := r.client.ExchangeContext(ctx, msg, r.nameserver)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("failed to query %s: %w", r.nameserver, ctxErr)
		}
		var netErr net.Error
		return nil, &net.DNSError{
			Err:       err.Error(),
			Name:      domain,
			Server:    r.nameserver,
			IsTimeout: errors.As(err, &netErr) && netErr.Timeout(),
		}
	}

	switch in.Rcode {
	case mdns.RcodeSuccess:
	case mdns.RcodeNameError:
		return nil, &net.DNSError{
			Err:        "no such host",
			Name:       domain,
			Server:     r.nameserver,
			IsNotFound: true,
		}
	case mdns.RcodeServerFailure:
		return nil, &net.DNSError{
			Err:         "server misbehaving",
			Name:        domain,
			Server:      r.nameserver,
			IsTemporary: true,
		}
	default:
		return nil, &net.DNSError{
			Err:    fmt.Sprintf("unexpected rcode %s", mdns.RcodeToString[in.Rcode]),
			Name:   domain,
			Server: r.nameserver,
		}
	}

	records := make([]*net.MX, 0, len(in.Answer))
	for _, ans := range in.Answer {
		if mx, ok := ans.(*mdns.MX); ok {
			records = append(records, &net.MX{Host: mx.Mx, Pref: mx.Preference})
		}
	}

	r.logger.Debug("Resolved MX records",
		zap.String("domain", domain),
		zap.String("nameserver", r.nameserver),
		zap.Int("count", len(records)))
	return records, nil
}
