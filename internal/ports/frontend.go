package ports

import (
	"context"

	"github.com/mikey/email-verify-api/internal/core"
)

// Verifier runs the verification pipeline for one address
type Verifier interface {
	Verify(ctx context.Context, req core.VerificationRequest) (*core.VerificationOutcome, error)
}

// Frontend defines the interface for the ways callers reach the pipeline
type Frontend interface {
	Verifier

	// Start starts the front end
	Start() error

	// Stop stops the front end
	Stop() error
}
