package core

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxEmailLength is the RFC 5321 limit on a forward path
	MaxEmailLength = 320
	// MaxLocalPartLength is the RFC 5321 limit on a local part
	MaxLocalPartLength = 64
)

const (
	MsgSyntaxInvalid      = "Invalid email syntax"
	MsgSyntaxTooLong      = "Email too long (max 320 chars)"
	MsgSyntaxLocalTooLong = "Local part too long (max 64 chars)"
	MsgSyntaxValid        = "Valid email syntax"
)

// One or more chars that are neither whitespace nor '@', an '@', then a
// domain with at least one dot. Whitespace covers the Unicode space separators.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateSyntax performs the structural check of an email address. Only the
// first failing rule is reported: pattern, then total length, then local part.
func ValidateSyntax(email string) SyntaxResult {
	if !emailPattern.MatchString(email) {
		return SyntaxResult{Valid: false, Message: MsgSyntaxInvalid}
	}

	if utf8.RuneCountInString(email) > MaxEmailLength {
		return SyntaxResult{Valid: false, Message: MsgSyntaxTooLong}
	}

	local, _ := splitAddress(email)
	if utf8.RuneCountInString(local) > MaxLocalPartLength {
		return SyntaxResult{Valid: false, Message: MsgSyntaxLocalTooLong}
	}

	return SyntaxResult{Valid: true, Message: MsgSyntaxValid}
}

// splitAddress splits on the first '@'. Callers rely on syntax validation
// having confirmed exactly one separator.
func splitAddress(email string) (local, domain string) {
	local, domain, _ = strings.Cut(email, "@")
	return local, domain
}
