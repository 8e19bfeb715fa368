package store

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

type domainSet map[string]struct{}

// MemoryStore is an in-memory disposable domain set. Readers never take a
// lock: ReplaceAll builds a new set and swaps the pointer.
type MemoryStore struct {
	domains atomic.Pointer[domainSet]
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory store seeded with domains
func NewMemoryStore(domains []string, logger *zap.Logger) *MemoryStore {
	s := &MemoryStore{logger: logger}
	s.domains.Store(buildSet(domains))
	return s
}

// IsMember reports whether domain is in the set
func (s *MemoryStore) IsMember(_ context.Context, domain string) (bool, error) {
	set := s.domains.Load()
	_, ok := (*set)[domain]
	return ok, nil
}

// ReplaceAll swaps in a new set
func (s *MemoryStore) ReplaceAll(_ context.Context, domains []string) error {
	set := buildSet(domains)
	s.domains.Store(set)
	s.logger.Info("Replaced disposable domain set", zap.Int("count", len(*set)))
	return nil
}

// Size returns the number of domains in the current set
func (s *MemoryStore) Size() int {
	return len(*s.domains.Load())
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func buildSet(domains []string) *domainSet {
	set := make(domainSet, len(domains))
	for _, domain := range domains {
		set[domain] = struct{}{}
	}
	return &set
}
