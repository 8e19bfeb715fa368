package disposable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/utils"
	"go.uber.org/zap"
)

const (
	// maxListBytes caps the size of a downloaded list
	maxListBytes = 64 << 20

	defaultInterval = 24 * time.Hour
)

// ErrTooFewDomains is returned when a fetched list is too small to publish
var ErrTooFewDomains = errors.New("disposable list has too few domains")

// RefreshRecorder receives refresh results
type RefreshRecorder interface {
	ObserveRefresh(err error, size int)
}

// Config holds the refresh job settings
type Config struct {
	URL        string
	Interval   time.Duration
	Timeout    time.Duration
	MinDomains int
}

// Refresher downloads the public disposable domain list and publishes it to
// the store in one atomic replacement
type Refresher struct {
	store      core.DisposableStore
	client     *http.Client
	normalizer *utils.DomainNormalizer
	cfg        Config
	logger     *zap.Logger
	metrics    RefreshRecorder

	started  atomic.Bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewRefresher creates a new refresher. A nil client uses http.DefaultClient.
func NewRefresher(store core.DisposableStore, client *http.Client, normalizer *utils.DomainNormalizer, cfg Config, logger *zap.Logger, metrics RefreshRecorder) *Refresher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Refresher{
		store:      store,
		client:     client,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Refresh fetches, validates and publishes the list, returning its size.
// The store is left untouched on any failure.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	domains, err := r.fetch(ctx)
	if err == nil && len(domains) < r.cfg.MinDomains {
		err = fmt.Errorf("%w: got %d, need at least %d", ErrTooFewDomains, len(domains), r.cfg.MinDomains)
	}
	if err == nil {
		err = r.store.ReplaceAll(ctx, domains)
		if err != nil {
			err = fmt.Errorf("failed to publish disposable list: %w", err)
		}
	}

	if r.metrics != nil {
		r.metrics.ObserveRefresh(err, len(domains))
	}
	if err != nil {
		return 0, err
	}

	r.logger.Info("Loaded disposable domains",
		zap.String("url", r.cfg.URL),
		zap.Int("count", len(domains)))
	return len(domains), nil
}

func (r *Refresher) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch disposable list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch disposable list: unexpected status %s", resp.Status)
	}

	return r.normalizer.ParseList(io.LimitReader(resp.Body, maxListBytes))
}

// Start runs the refresh loop in the background. When runNow is set the
// first refresh happens immediately instead of after one interval.
func (r *Refresher) Start(runNow bool) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.logger.Info("Starting disposable list refresh",
		zap.String("url", r.cfg.URL),
		zap.Duration("interval", r.cfg.Interval))

	go r.loop(runNow)
}

func (r *Refresher) loop(runNow bool) {
	defer close(r.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-r.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if runNow {
		r.refreshAndLog(ctx)
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshAndLog(ctx)
		case <-r.stopCh:
			return
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("Failed to refresh disposable list", zap.Error(err))
	}
}

// Stop stops the refresh loop and waits for an in-flight refresh to end
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	if r.started.Load() {
		<-r.doneCh
	}
}
