package core

import (
	"context"
	"net"
	"sync"
	"time"
)

type fakeMXLookup struct {
	records []*net.MX
	err     error
}

func (f *fakeMXLookup) LookupMX(_ context.Context, _ string) ([]*net.MX, error) {
	return f.records, f.err
}

type fakeDisposableLookup struct {
	domains map[string]bool
	err     error
	seen    []string
	mu      sync.Mutex
}

func (f *fakeDisposableLookup) IsMember(_ context.Context, domain string) (bool, error) {
	f.mu.Lock()
	f.seen = append(f.seen, domain)
	f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.domains[domain], nil
}

type fakeProber struct {
	result SMTPResult
	err    error
	calls  []string
	mu     sync.Mutex
}

func (f *fakeProber) Probe(_ context.Context, email, mxHost string) (SMTPResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, email+"->"+mxHost)
	f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeProber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSkipper map[string]bool

func (f fakeSkipper) ShouldSkip(domain string) bool {
	return f[domain]
}

type fakeMetrics struct {
	mu            sync.Mutex
	checks        map[string]int
	outcomes      map[RiskLevel]int
	dnsFailures   map[string]int
	storeFailures int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		checks:      make(map[string]int),
		outcomes:    make(map[RiskLevel]int),
		dnsFailures: make(map[string]int),
	}
}

func (m *fakeMetrics) IncDisposableStoreFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeFailures++
}

func (m *fakeMetrics) ObserveCheckLatency(check string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[check]++
}

func (m *fakeMetrics) ObserveVerifyLatency(time.Duration) {}

func (m *fakeMetrics) IncOutcome(level RiskLevel, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[level]++
}

func (m *fakeMetrics) IncDNSFailure(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dnsFailures[code]++
}
