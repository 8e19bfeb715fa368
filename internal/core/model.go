package core

import (
	"time"
)

// VerificationRequest is a single address to verify
type VerificationRequest struct {
	Email string
	// Quick skips the SMTP mailbox probe
	Quick bool
}

// SyntaxResult is the outcome of the structural check
type SyntaxResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// DomainResult is the outcome of MX resolution. MXRecords is ordered by
// ascending preference, so MXRecords[0] is the primary exchange.
type DomainResult struct {
	Valid     bool     `json:"valid"`
	Message   string   `json:"message"`
	MXRecords []string `json:"mx_records"`
	Error     string   `json:"error,omitempty"`
}

// DisposableResult is the outcome of the disposable domain lookup
type DisposableResult struct {
	IsDisposable bool   `json:"is_disposable"`
	Message      string `json:"message"`
	Provider     string `json:"provider,omitempty"`
}

// RoleResult is the outcome of role address detection
type RoleResult struct {
	IsRole  bool   `json:"is_role"`
	Message string `json:"message"`
}

// SMTPResult is the outcome of the mailbox probe. Inconclusive probes are
// reported as valid.
type SMTPResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// VerificationChecks aggregates the five check results
type VerificationChecks struct {
	Syntax     SyntaxResult     `json:"syntax"`
	Domain     DomainResult     `json:"domain"`
	SMTP       SMTPResult       `json:"smtp"`
	Disposable DisposableResult `json:"disposable"`
	RoleBased  RoleResult       `json:"role_based"`
}

// RiskLevel is the qualitative partition of a risk score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// VerificationOutcome is the complete answer for one address
type VerificationOutcome struct {
	Email     string             `json:"email"`
	Valid     bool               `json:"valid"`
	Checks    VerificationChecks `json:"checks"`
	RiskScore int                `json:"risk_score"`
	RiskLevel RiskLevel          `json:"risk_level"`
	Timestamp time.Time          `json:"timestamp"`
}

// MsgNotChecked marks a check that was never attempted
const MsgNotChecked = "Not checked"

// notCheckedChecks returns the defaults used when syntax validation fails
func notCheckedChecks(syntax SyntaxResult) VerificationChecks {
	return VerificationChecks{
		Syntax:     syntax,
		Domain:     DomainResult{Message: MsgNotChecked, MXRecords: []string{}},
		SMTP:       SMTPResult{Message: MsgNotChecked},
		Disposable: DisposableResult{Message: MsgNotChecked},
		RoleBased:  RoleResult{Message: MsgNotChecked},
	}
}
