package core

// Risk weights. Each failing signal adds its weight; the sum is capped at MaxRiskScore.
const (
	WeightSyntaxInvalid = 100
	WeightDomainInvalid = 80
	WeightSMTPInvalid   = 60
	WeightDisposable    = 70
	WeightRoleBased     = 20

	MaxRiskScore = 100
)

// Level boundaries: scores below MediumRiskThreshold are low, scores at or
// above HighRiskThreshold are high.
const (
	MediumRiskThreshold = 40
	HighRiskThreshold   = 70
)

// Score combines the check results into a risk score in [0, MaxRiskScore]
func Score(checks VerificationChecks) int {
	score := 0

	if !checks.Syntax.Valid {
		score += WeightSyntaxInvalid
	}
	if !checks.Domain.Valid {
		score += WeightDomainInvalid
	}
	if !checks.SMTP.Valid {
		score += WeightSMTPInvalid
	}
	if checks.Disposable.IsDisposable {
		score += WeightDisposable
	}
	if checks.RoleBased.IsRole {
		score += WeightRoleBased
	}

	return min(score, MaxRiskScore)
}

// Classify maps a score to its risk level
func Classify(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
