// Package scoring implements the additive, signal-based risk and trust
// scoring model: pure functions with no I/O, clamped to [0, 100].
package scoring

import "github.com/rawblock/shield-engine/pkg/models"

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Risk computes the 0-100 risk score (higher = more dangerous) from a
// populated Signals struct, starting at 0 and adding/subtracting
// weighted contributions per tripped signal.
func Risk(s models.Signals) int {
	score := 0

	if s.IsKnownScam {
		score += 80
	}
	if s.IsHoneypot {
		score += 70
	}
	if s.UnlimitedApproval {
		score += 30
	}
	if s.SetApprovalForAll {
		score += 25
	}

	if s.UnverifiedContract {
		score += 20
	}
	if s.HasSelfDestruct {
		score += 20
	}
	if s.HasDelegateCall {
		score += 15
	}

	if s.HasContractAge {
		switch {
		case s.ContractAgeDays < 1:
			score += 20
		case s.ContractAgeDays < 7:
			score += 10
		case s.ContractAgeDays < 30:
			score += 5
		}
	}

	switch {
	case s.TxCount < 10:
		score += 15
	case s.TxCount < 100:
		score += 8
	}

	switch {
	case s.ValueUSD > 50_000:
		score += 10
	case s.ValueUSD > 10_000:
		score += 5
	}

	switch s.FunctionRisk {
	case "high":
		score += 15
	case "medium":
		score += 5
	}

	if s.TrustedContract {
		score -= 40
	}
	if s.VerifiedContract {
		score -= 10
	}
	if s.TxCount > 10_000 {
		score -= 5
	}

	return clamp(score)
}

// Trust computes the 0-100 trust score (higher = more trustworthy),
// starting from a neutral baseline of 50.
func Trust(s models.Signals) int {
	score := 50

	if s.TrustedContract {
		score += 40
	}
	if s.VerifiedContract {
		score += 15
	}

	if s.HasContractAge {
		switch {
		case s.ContractAgeDays > 365:
			score += 10
		case s.ContractAgeDays < 7:
			score -= 25
		case s.ContractAgeDays < 30:
			score -= 10
		}
	}

	switch {
	case s.TxCount > 10_000:
		score += 10
	case s.TxCount < 10:
		score -= 20
	}

	if s.IsKnownScam {
		score -= 90
	}
	if s.UnverifiedContract {
		score -= 20
	}
	if s.HasSelfDestruct {
		score -= 15
	}

	return clamp(score)
}

// RiskLevel bands a risk score into one of four mutually exclusive,
// exhaustive levels.
func RiskLevel(score int) string {
	switch {
	case score <= 20:
		return "low"
	case score <= 50:
		return "medium"
	case score <= 75:
		return "high"
	default:
		return "critical"
	}
}

// TrustLevel bands a trust score into one of five mutually exclusive,
// exhaustive levels.
func TrustLevel(score int) string {
	switch {
	case score >= 80:
		return "highly_trusted"
	case score >= 60:
		return "trusted"
	case score >= 40:
		return "caution"
	case score >= 20:
		return "suspicious"
	default:
		return "dangerous"
	}
}

// RiskColor returns the hex color swatch the dashboard renders for a
// risk score.
func RiskColor(score int) string {
	switch {
	case score <= 20:
		return "#10B981"
	case score <= 50:
		return "#F59E0B"
	case score <= 75:
		return "#EF4444"
	default:
		return "#991B1B"
	}
}

// TrustColor returns the hex color swatch the dashboard renders for a
// trust score.
func TrustColor(score int) string {
	switch {
	case score >= 80:
		return "#10B981"
	case score >= 60:
		return "#34D399"
	case score >= 40:
		return "#F59E0B"
	case score >= 20:
		return "#EF4444"
	default:
		return "#991B1B"
	}
}
