package core

import (
	"context"
	"errors"
	"net"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	MsgDomainValid        = "Domain exists and has MX records"
	MsgDomainNoMX         = "Domain has no MX records (cannot receive email)"
	MsgDomainLookupFailed = "Domain does not exist or DNS lookup failed"
)

// DNS failure codes carried in DomainResult.Error
const (
	DNSErrNotFound  = "ENOTFOUND"
	DNSErrTimeout   = "ETIMEOUT"
	DNSErrTemporary = "ETEMPFAIL"
	DNSErrCancelled = "ECANCELLED"
	DNSErrLookup    = "ELOOKUP"
)

// DomainResolver turns MX lookups into domain check results
type DomainResolver struct {
	lookup MXLookup
	logger *zap.Logger
}

// NewDomainResolver creates a new domain resolver
func NewDomainResolver(lookup MXLookup, logger *zap.Logger) *DomainResolver {
	return &DomainResolver{
		lookup: lookup,
		logger: logger,
	}
}

// Resolve looks up the MX records of a domain. Every lookup failure is
// returned as an invalid result carrying the failure code.
func (r *DomainResolver) Resolve(ctx context.Context, domain string) DomainResult {
	records, err := r.lookup.LookupMX(ctx, domain)
	if err != nil {
		code := dnsErrorCode(err)
		r.logger.Debug("MX lookup failed",
			zap.String("domain", domain),
			zap.String("code", code),
			zap.Error(err))
		return DomainResult{
			Valid:     false,
			Message:   MsgDomainLookupFailed,
			MXRecords: []string{},
			Error:     code,
		}
	}

	hosts := sortedExchanges(records)
	if len(hosts) == 0 {
		return DomainResult{
			Valid:     false,
			Message:   MsgDomainNoMX,
			MXRecords: []string{},
		}
	}

	return DomainResult{
		Valid:     true,
		Message:   MsgDomainValid,
		MXRecords: hosts,
	}
}

// sortedExchanges orders records by ascending preference and returns the
// host names without the trailing root dot. Null MX records ("." per RFC
// 7505) mean the domain accepts no mail and are dropped.
func sortedExchanges(records []*net.MX) []string {
	usable := make([]*net.MX, 0, len(records))
	for _, mx := range records {
		if mx == nil {
			continue
		}
		if strings.TrimSuffix(mx.Host, ".") == "" {
			continue
		}
		usable = append(usable, mx)
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Pref < usable[j].Pref
	})

	hosts := make([]string, 0, len(usable))
	for _, mx := range usable {
		hosts = append(hosts, strings.TrimSuffix(mx.Host, "."))
	}
	return hosts
}

func dnsErrorCode(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
		return DNSErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return DNSErrTimeout
	case errors.Is(err, context.Canceled):
		return DNSErrCancelled
	case errors.As(err, &dnsErr) && dnsErr.IsTimeout:
		return DNSErrTimeout
	case errors.As(err, &dnsErr) && dnsErr.IsTemporary:
		return DNSErrTemporary
	default:
		return DNSErrLookup
	}
}
