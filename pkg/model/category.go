package model

// RiskCategory is a banded view of a 0-100 risk score. It is always
// derived from a score via CategoryForScore and never stored separately
// from the score it was computed from.
type RiskCategory string

const (
	RiskLow      RiskCategory = "LOW"      // 0-34
	RiskMedium   RiskCategory = "MEDIUM"   // 35-54
	RiskHigh     RiskCategory = "HIGH"     // 55-74
	RiskCritical RiskCategory = "CRITICAL" // 75-100
)

// CategoryForScore maps a risk score to its category band.
func CategoryForScore(score float64) RiskCategory {
	switch {
	case score <= 34:
		return RiskLow
	case score <= 54:
		return RiskMedium
	case score <= 74:
		return RiskHigh
	default:
		return RiskCritical
	}
}
