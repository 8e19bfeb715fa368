package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Check names used for latency metrics
const (
	CheckDomain     = "domain"
	CheckDisposable = "disposable"
	CheckRole       = "role"
	CheckSMTP       = "smtp"
)

// ProbeSkipper decides whether a domain must never be probed over SMTP
type ProbeSkipper interface {
	ShouldSkip(domain string) bool
}

// MetricsRecorder receives pipeline observations
type MetricsRecorder interface {
	StoreFailureRecorder
	ObserveCheckLatency(check string, d time.Duration)
	ObserveVerifyLatency(d time.Duration)
	IncOutcome(level RiskLevel, valid bool)
	IncDNSFailure(code string)
}

// VerificationService is the core verification pipeline
type VerificationService struct {
	resolver   *DomainResolver
	disposable *DisposableChecker
	prober     MailboxProber
	skipper    ProbeSkipper
	metrics    MetricsRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	resolver *DomainResolver,
	disposable *DisposableChecker,
	prober MailboxProber,
	skipper ProbeSkipper,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		resolver:   resolver,
		disposable: disposable,
		prober:     prober,
		skipper:    skipper,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Verify runs the full pipeline for one address. Check failures degrade to
// their fail-open values; an error is returned only when a component
// contract is broken.
func (s *VerificationService) Verify(ctx context.Context, req VerificationRequest) (*VerificationOutcome, error) {
	start := time.Now()

	syntax := ValidateSyntax(req.Email)

	var checks VerificationChecks
	if !syntax.Valid {
		checks = notCheckedChecks(syntax)
	} else {
		var err error
		checks, err = s.runChecks(ctx, req, syntax)
		if err != nil {
			return nil, err
		}
	}

	score := Score(checks)
	outcome := &VerificationOutcome{
		Email:     req.Email,
		Valid:     checks.Syntax.Valid && checks.Domain.Valid && !checks.Disposable.IsDisposable,
		Checks:    checks,
		RiskScore: score,
		RiskLevel: Classify(score),
		Timestamp: s.now().UTC(),
	}

	if s.metrics != nil {
		s.metrics.IncOutcome(outcome.RiskLevel, outcome.Valid)
		s.metrics.ObserveVerifyLatency(time.Since(start))
	}

	_, domain := splitAddress(req.Email)
	s.logger.Info("Verified address",
		zap.String("domain", domain),
		zap.Bool("valid", outcome.Valid),
		zap.Int("risk_score", outcome.RiskScore),
		zap.String("risk_level", string(outcome.RiskLevel)),
		zap.Bool("quick", req.Quick),
		zap.Duration("duration", time.Since(start)))

	return outcome, nil
}

// runChecks executes the two phases for a syntactically valid address:
// independent checks concurrently, then the SMTP probe that needs the MX host.
func (s *VerificationService) runChecks(ctx context.Context, req VerificationRequest, syntax SyntaxResult) (VerificationChecks, error) {
	_, domain := splitAddress(req.Email)

	checks := VerificationChecks{
		Syntax: syntax,
		SMTP:   SMTPResult{Message: MsgNotChecked},
	}

	// Each goroutine writes a distinct field
	var g errgroup.Group
	g.Go(func() error {
		started := time.Now()
		checks.Domain = s.resolver.Resolve(ctx, domain)
		s.observe(CheckDomain, started)
		if checks.Domain.Error != "" && s.metrics != nil {
			s.metrics.IncDNSFailure(checks.Domain.Error)
		}
		return nil
	})
	g.Go(func() error {
		started := time.Now()
		checks.Disposable = s.disposable.Check(ctx, domain)
		s.observe(CheckDisposable, started)
		return nil
	})
	g.Go(func() error {
		started := time.Now()
		checks.RoleBased = DetectRole(req.Email)
		s.observe(CheckRole, started)
		return nil
	})
	if err := g.Wait(); err != nil {
		return checks, err
	}

	if !checks.Domain.Valid || len(checks.Domain.MXRecords) == 0 {
		return checks, nil
	}

	switch {
	case req.Quick:
		checks.SMTP = SMTPSkipped(MsgSMTPSkippedQuick)
	case s.skipper != nil && s.skipper.ShouldSkip(domain):
		checks.SMTP = SMTPSkipped(MsgSMTPSkippedDomain)
	default:
		started := time.Now()
		result, err := s.prober.Probe(ctx, req.Email, checks.Domain.MXRecords[0])
		s.observe(CheckSMTP, started)
		if err != nil {
			return checks, fmt.Errorf("failed to probe mailbox: %w", err)
		}
		checks.SMTP = result
	}

	return checks, nil
}

func (s *VerificationService) observe(check string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCheckLatency(check, time.Since(started))
	}
}
