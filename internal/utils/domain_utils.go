package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// DomainNormalizer canonicalizes domain names taken from external lists
type DomainNormalizer struct {
	logger *zap.Logger
}

// NewDomainNormalizer creates a new DomainNormalizer
func NewDomainNormalizer(logger *zap.Logger) *DomainNormalizer {
	return &DomainNormalizer{
		logger: logger,
	}
}

// NormalizeDomain returns the canonical form of one entry: trimmed, NFC,
// lowercase and without the trailing root dot. It returns "" for blank
// lines, comments and entries that cannot be a domain.
func (n *DomainNormalizer) NormalizeDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	if domain == "" || strings.HasPrefix(domain, "#") {
		return ""
	}

	if !utf8.ValidString(domain) {
		n.logger.Debug("Dropping entry with invalid UTF-8", zap.Int("size", len(domain)))
		return ""
	}

	domain = norm.NFC.String(domain)
	domain = strings.ToLower(domain)
	domain = strings.TrimSuffix(domain, ".")

	if domain == "" || strings.ContainsFunc(domain, unicode.IsSpace) || strings.Contains(domain, "@") {
		n.logger.Debug("Dropping malformed domain entry", zap.String("entry", raw))
		return ""
	}

	return domain
}

// NormalizeList normalizes every entry and drops duplicates, keeping the
// first occurrence order
func (n *DomainNormalizer) NormalizeList(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	domains := make([]string, 0, len(entries))

	for _, entry := range entries {
		domain := n.NormalizeDomain(entry)
		if domain == "" {
			continue
		}
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}

	return domains
}

// ParseList reads a newline separated domain list and normalizes it
func (n *DomainNormalizer) ParseList(r io.Reader) ([]string, error) {
	var entries []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read domain list: %w", err)
	}

	domains := n.NormalizeList(entries)
	n.logger.Debug("Parsed domain list",
		zap.Int("lines", len(entries)),
		zap.Int("domains", len(domains)))
	return domains, nil
}
