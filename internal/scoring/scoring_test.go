package scoring

import (
	"testing"

	"github.com/rawblock/shield-engine/pkg/models"
)

func TestRiskClampsAtZeroAndHundred(t *testing.T) {
	// trusted (-40) + verified (-10) + tx_count > 10000 (-5) = -55, clamped to 0
	if got := Risk(models.Signals{TrustedContract: true, VerifiedContract: true, TxCount: 20_000}); got != 0 {
		t.Fatalf("expected maximal trust discounts to clamp risk at 0, got %d", got)
	}
	s := models.Signals{
		IsKnownScam: true, IsHoneypot: true, UnlimitedApproval: true, SetApprovalForAll: true,
		UnverifiedContract: true, HasSelfDestruct: true, HasDelegateCall: true,
		HasContractAge: true, ContractAgeDays: 0, TxCount: 1, ValueUSD: 100_000, FunctionRisk: "high",
	}
	if got := Risk(s); got != 100 {
		t.Fatalf("expected maximal risk signals to clamp at 100, got %d", got)
	}
}

func TestTrustClampsAtZeroAndHundred(t *testing.T) {
	if got := Trust(models.Signals{IsKnownScam: true, UnverifiedContract: true, HasSelfDestruct: true, TxCount: 1}); got != 0 {
		t.Fatalf("expected maximal distrust signals to clamp at 0, got %d", got)
	}
	if got := Trust(models.Signals{TrustedContract: true, VerifiedContract: true, HasContractAge: true, ContractAgeDays: 400, TxCount: 20_000}); got != 100 {
		t.Fatalf("expected maximal trust signals to clamp at 100, got %d", got)
	}
}

func TestTrustedAndScamDiscountsAreMutuallyExclusiveInPractice(t *testing.T) {
	trusted := Trust(models.Signals{TrustedContract: true})
	scam := Trust(models.Signals{IsKnownScam: true})
	if trusted <= scam {
		t.Fatalf("a trusted contract must score strictly higher than a known scam: trusted=%d scam=%d", trusted, scam)
	}
}

func TestRiskLevelBandsAreExhaustiveAndOrdered(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "low"}, {20, "low"}, {21, "medium"}, {50, "medium"},
		{51, "high"}, {75, "high"}, {76, "critical"}, {100, "critical"},
	}
	for _, c := range cases {
		if got := RiskLevel(c.score); got != c.want {
			t.Errorf("RiskLevel(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestTrustLevelBandsAreExhaustiveAndOrdered(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "highly_trusted"}, {80, "highly_trusted"}, {79, "trusted"}, {60, "trusted"},
		{59, "caution"}, {40, "caution"}, {39, "suspicious"}, {20, "suspicious"}, {19, "dangerous"}, {0, "dangerous"},
	}
	for _, c := range cases {
		if got := TrustLevel(c.score); got != c.want {
			t.Errorf("TrustLevel(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestColorsAreStableHexValues(t *testing.T) {
	if RiskColor(0) != "#10B981" || RiskColor(100) != "#991B1B" {
		t.Fatalf("unexpected risk color boundary values")
	}
	if TrustColor(100) != "#10B981" || TrustColor(0) != "#991B1B" {
		t.Fatalf("unexpected trust color boundary values")
	}
}
