package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	MsgDisposable    = "Disposable/temporary email domain detected"
	MsgNotDisposable = "Not a disposable email domain"
)

var errNoDisposableStore = errors.New("no disposable domain store configured")

// StoreFailureRecorder counts disposable store failures
type StoreFailureRecorder interface {
	IncDisposableStoreFailure()
}

// DisposableChecker checks domains against the disposable domain set
type DisposableChecker struct {
	lookup   DisposableLookup
	logger   *zap.Logger
	failures StoreFailureRecorder
}

// NewDisposableChecker creates a new disposable domain checker
func NewDisposableChecker(lookup DisposableLookup, logger *zap.Logger, failures StoreFailureRecorder) *DisposableChecker {
	return &DisposableChecker{
		lookup:   lookup,
		logger:   logger,
		failures: failures,
	}
}

// Check reports whether the domain is disposable. Store failures never
// propagate: the domain is reported as not disposable instead.
// The provider is reported as the caller wrote the domain.
func (c *DisposableChecker) Check(ctx context.Context, domain string) DisposableResult {
	key := strings.ToLower(domain)

	if c.lookup == nil {
		c.recordFailure(key, errNoDisposableStore)
		return DisposableUnavailable()
	}

	isMember, err := c.lookup.IsMember(ctx, key)
	if err != nil {
		c.recordFailure(key, err)
		return DisposableUnavailable()
	}

	if isMember {
		return DisposableResult{
			IsDisposable: true,
			Message:      MsgDisposable,
			Provider:     domain,
		}
	}

	return DisposableResult{
		IsDisposable: false,
		Message:      MsgNotDisposable,
	}
}

func (c *DisposableChecker) recordFailure(domain string, err error) {
	c.logger.Warn("Disposable domain lookup failed",
		zap.String("domain", domain),
		zap.Error(err))
	if c.failures != nil {
		c.failures.IncDisposableStoreFailure()
	}
}
