package skiplist

import (
	"strings"

	"github.com/mikey/email-verify-api/internal/utils"
	"go.uber.org/zap"
)

// Checker decides which domains must never receive an SMTP probe, such as
// providers that block or penalize RCPT probing
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new skip list checker
func NewChecker(domains []string, normalizer *utils.DomainNormalizer, logger *zap.Logger) *Checker {
	normalized := normalizer.NormalizeList(domains)

	set := make(map[string]struct{}, len(normalized))
	for _, domain := range normalized {
		set[domain] = struct{}{}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized SMTP probe skip list", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// ShouldSkip reports whether domain, or one of its parent domains, is listed
func (c *Checker) ShouldSkip(domain string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	for candidate := domain; candidate != ""; {
		if _, ok := c.domains[candidate]; ok {
			if c.logger != nil {
				c.logger.Debug("Domain is on the probe skip list",
					zap.String("domain", domain),
					zap.String("match", candidate))
			}
			return true
		}

		_, parent, found := strings.Cut(candidate, ".")
		if !found {
			break
		}
		candidate = parent
	}

	return false
}
