package factory

import (
	"fmt"

	"github.com/mikey/email-verify-api/internal/adapters/smtpprobe"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"go.uber.org/zap"
)

// ProberFactory creates SMTP mailbox probers
type ProberFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics smtpprobe.ResultRecorder
}

// NewProberFactory creates a new prober factory
func NewProberFactory(cfg *config.Config, logger *zap.Logger, metrics smtpprobe.ResultRecorder) *ProberFactory {
	return &ProberFactory{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateProber creates an SMTP prober, dialing through a SOCKS5 proxy when one is configured
func (f *ProberFactory) CreateProber() (core.MailboxProber, error) {
	smtpCfg, err := f.cfg.GetSMTP()
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	dialer, err := smtpprobe.NewDialer(smtpCfg.ProxyAddress, smtpCfg.ProxyUsername, smtpCfg.ProxyPassword)
	if err != nil {
		return nil, err
	}
	if smtpCfg.ProxyAddress != "" {
		f.logger.Info("Probing through SOCKS5 proxy", zap.String("proxy", smtpCfg.ProxyAddress))
	}

	return smtpprobe.NewProber(dialer, smtpprobe.Config{
		Port:         smtpCfg.Port,
		Timeout:      smtpCfg.Timeout,
		HeloIdentity: smtpCfg.HeloIdentity,
		MailFrom:     smtpCfg.MailFrom,
	}, f.logger, f.metrics), nil
}
