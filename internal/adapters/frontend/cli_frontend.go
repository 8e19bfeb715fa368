package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/ports"
	"go.uber.org/zap"
)

// CliFrontend prints verification results to a terminal
type CliFrontend struct {
	verifier   ports.Verifier
	logger     *zap.Logger
	out        io.Writer
	jsonOutput bool
	verbose    bool
}

// NewCliFrontend creates a new CLI front end writing to out
func NewCliFrontend(verifier ports.Verifier, logger *zap.Logger, out io.Writer, jsonOutput, verbose bool) *CliFrontend {
	return &CliFrontend{
		verifier:   verifier,
		logger:     logger,
		out:        out,
		jsonOutput: jsonOutput,
		verbose:    verbose,
	}
}

// Verify verifies one address and prints the outcome
func (f *CliFrontend) Verify(ctx context.Context, req core.VerificationRequest) (*core.VerificationOutcome, error) {
	f.logger.Debug("Verifying address", zap.String("email", req.Email), zap.Bool("quick", req.Quick))

	startTime := time.Now()
	outcome, err := f.verifier.Verify(ctx, req)
	if err != nil {
		f.logger.Error("Failed to verify address", zap.Error(err))
		fmt.Fprintf(f.out, "Error: %v\n", err)
		return nil, err
	}

	if f.jsonOutput {
		// One JSON document per line
		if err := json.NewEncoder(f.out).Encode(outcome); err != nil {
			return nil, fmt.Errorf("failed to write outcome: %w", err)
		}
		return outcome, nil
	}

	f.printSummary(outcome, time.Since(startTime))
	return outcome, nil
}

func (f *CliFrontend) printSummary(outcome *core.VerificationOutcome, duration time.Duration) {
	checks := outcome.Checks

	fmt.Fprintf(f.out, "\n=== %s ===\n", outcome.Email)
	fmt.Fprintf(f.out, "Valid: %t\n", outcome.Valid)
	fmt.Fprintf(f.out, "Risk: %d (%s)\n", outcome.RiskScore, outcome.RiskLevel)
	fmt.Fprintf(f.out, "Syntax: %s\n", checks.Syntax.Message)
	fmt.Fprintf(f.out, "Domain: %s\n", checks.Domain.Message)
	if f.verbose && len(checks.Domain.MXRecords) > 0 {
		fmt.Fprintf(f.out, "MX records: %v\n", checks.Domain.MXRecords)
	}
	fmt.Fprintf(f.out, "Disposable: %s\n", checks.Disposable.Message)
	fmt.Fprintf(f.out, "Role based: %s\n", checks.RoleBased.Message)
	fmt.Fprintf(f.out, "SMTP: %s\n", checks.SMTP.Message)
	if f.verbose && checks.SMTP.Error != "" {
		fmt.Fprintf(f.out, "SMTP error: %s\n", checks.SMTP.Error)
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)
}

// Start is a no-op for the CLI front end
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI front end
func (f *CliFrontend) Stop() error {
	return nil
}
