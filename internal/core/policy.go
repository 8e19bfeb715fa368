package core

// FailOpen is the single place that decides what a check reports when its
// dependency cannot give a definite answer. Each field is the value the
// corresponding result takes in that situation.
var FailOpen = struct {
	// IsDisposable on a disposable store failure
	DisposableOnStoreError bool
	// Valid when the SMTP probe times out
	SMTPOnTimeout bool
	// Valid when the SMTP connection cannot be made or breaks
	SMTPOnConnectionError bool
	// Valid when the probe is bypassed (quick mode or skip list)
	SMTPWhenSkipped bool
}{
	DisposableOnStoreError: false,
	SMTPOnTimeout:          true,
	SMTPOnConnectionError:  true,
	SMTPWhenSkipped:        true,
}

const (
	MsgDisposableUnavailable = "Unable to check disposable status"
	MsgSMTPTimeout           = "SMTP verification timeout (assuming valid)"
	MsgSMTPConnectionFailed  = "SMTP connection failed (assuming valid)"
	MsgSMTPSkippedQuick      = "Skipped (quick mode)"
	MsgSMTPSkippedDomain     = "Skipped (domain does not allow mailbox probing)"
)

// DisposableUnavailable is reported when the disposable store cannot be read
func DisposableUnavailable() DisposableResult {
	return DisposableResult{
		IsDisposable: FailOpen.DisposableOnStoreError,
		Message:      MsgDisposableUnavailable,
	}
}

// SMTPTimedOut is reported when the probe deadline fires before a verdict
func SMTPTimedOut() SMTPResult {
	return SMTPResult{
		Valid:   FailOpen.SMTPOnTimeout,
		Message: MsgSMTPTimeout,
	}
}

// SMTPConnectionFailed is reported when the exchange cannot be reached or
// drops the connection
func SMTPConnectionFailed(err error) SMTPResult {
	result := SMTPResult{
		Valid:   FailOpen.SMTPOnConnectionError,
		Message: MsgSMTPConnectionFailed,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// SMTPSkipped is reported when no probe was attempted
func SMTPSkipped(message string) SMTPResult {
	return SMTPResult{
		Valid:   FailOpen.SMTPWhenSkipped,
		Message: message,
	}
}
