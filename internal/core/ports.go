package core

import (
	"context"
	"net"
)

// MXLookup resolves the MX records of a domain
type MXLookup interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// DisposableLookup answers membership questions against the disposable domain set
type DisposableLookup interface {
	// IsMember reports whether the lowercased domain is in the set
	IsMember(ctx context.Context, domain string) (bool, error)
}

// DisposableStore is the full disposable domain set, including the bulk
// replacement used by the refresh job. Live verification only reads.
type DisposableStore interface {
	DisposableLookup

	// ReplaceAll atomically swaps the set contents; concurrent readers see
	// either the old set or the new one, never a partial state
	ReplaceAll(ctx context.Context, domains []string) error
}

// MailboxProber tests whether an exchange accepts mail for an address.
// Dependency failures are reported as result values; the error return is
// reserved for callers that violate the contract (empty host or address).
type MailboxProber interface {
	Probe(ctx context.Context, email, mxHost string) (SMTPResult, error)
}
