package di

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/disposable"
	"github.com/mikey/email-verify-api/internal/factory"
	"github.com/mikey/email-verify-api/internal/logging"
	"github.com/mikey/email-verify-api/internal/metrics"
	"github.com/mikey/email-verify-api/internal/ports"
	"github.com/mikey/email-verify-api/internal/skiplist"
	"github.com/mikey/email-verify-api/internal/utils"
)

// storeConnectTimeout bounds the initial connection to the disposable store
const storeConnectTimeout = 15 * time.Second

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics registry with process and Go runtime collectors
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	}); err != nil {
		return nil, err
	}

	if err := provideVerification(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideVerification registers everything between the configuration and
// the front end. It expects *config.Config, *zap.Logger and
// *prometheus.Registry to be provided already.
func provideVerification(container *dig.Container) error {
	// Register metrics
	if err := container.Provide(func(reg *prometheus.Registry) *metrics.Metrics {
		return metrics.New(reg)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *prometheus.Registry) prometheus.Gatherer {
		return reg
	}); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewResolverFactory); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *factory.ProberFactory {
		return factory.NewProberFactory(cfg, logger, m)
	}); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return err
	}

	// Register disposable domain store
	if err := container.Provide(func(f *factory.StoreFactory) (core.DisposableStore, error) {
		ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
		defer cancel()
		return f.CreateDisposableStore(ctx)
	}); err != nil {
		return err
	}

	// Register MX resolver
	if err := container.Provide(func(f *factory.ResolverFactory) (core.MXLookup, error) {
		return f.CreateMXLookup()
	}); err != nil {
		return err
	}

	// Register mailbox prober
	if err := container.Provide(func(f *factory.ProberFactory) (core.MailboxProber, error) {
		return f.CreateProber()
	}); err != nil {
		return err
	}

	// Register domain normalizer
	if err := container.Provide(utils.NewDomainNormalizer); err != nil {
		return err
	}

	// Register SMTP skip list
	if err := container.Provide(func(cfg *config.Config, normalizer *utils.DomainNormalizer, logger *zap.Logger) (core.ProbeSkipper, error) {
		smtpCfg, err := cfg.GetSMTP()
		if err != nil {
			return nil, err
		}
		return skiplist.NewChecker(smtpCfg.SkipDomains, normalizer, logger), nil
	}); err != nil {
		return err
	}

	// Register disposable list refresher
	if err := container.Provide(func(
		store core.DisposableStore,
		normalizer *utils.DomainNormalizer,
		cfg *config.Config,
		logger *zap.Logger,
		m *metrics.Metrics,
	) (*disposable.Refresher, error) {
		refreshCfg, err := cfg.GetRefresh()
		if err != nil {
			return nil, err
		}
		return disposable.NewRefresher(store, nil, normalizer, disposable.Config{
			URL:        refreshCfg.URL,
			Interval:   refreshCfg.Interval,
			Timeout:    refreshCfg.Timeout,
			MinDomains: refreshCfg.MinDomains,
		}, logger, m), nil
	}); err != nil {
		return err
	}

	// Register verification pipeline
	if err := container.Provide(core.NewDomainResolver); err != nil {
		return err
	}
	if err := container.Provide(func(store core.DisposableStore, logger *zap.Logger, m *metrics.Metrics) *core.DisposableChecker {
		return core.NewDisposableChecker(store, logger, m)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(
		resolver *core.DomainResolver,
		checker *core.DisposableChecker,
		prober core.MailboxProber,
		skipper core.ProbeSkipper,
		m *metrics.Metrics,
		logger *zap.Logger,
	) *core.VerificationService {
		return core.NewVerificationService(resolver, checker, prober, skipper, m, logger)
	}); err != nil {
		return err
	}

	// Register front end
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return err
	}

	return nil
}
