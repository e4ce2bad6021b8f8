package receipt

import (
	"math/big"
	"strings"
	"testing"

	"github.com/rawblock/shield-engine/pkg/models"
)

func TestCalculateCostsMultipliesGasUsedByGasPrice(t *testing.T) {
	tx := &models.TransactionData{Value: big.NewInt(0), GasPrice: big.NewInt(1e9)}
	r := &models.Receipt{GasUsed: 21000}

	cost := calculateCosts(tx, r, 3500)
	if cost.GasETH != "0.000021" {
		t.Fatalf("expected gas eth 0.000021, got %s", cost.GasETH)
	}
}

func TestCalculateCostsHandlesNilGasPrice(t *testing.T) {
	tx := &models.TransactionData{Value: big.NewInt(0)}
	r := &models.Receipt{GasUsed: 21000}

	cost := calculateCosts(tx, r, 3500)
	if cost.GasETH != "0.000000" {
		t.Fatalf("expected zero gas cost for nil gas price, got %s", cost.GasETH)
	}
}

func TestBuildActionSummarySwapTakesPriorityOverTransfer(t *testing.T) {
	events := []DecodedEvent{{Name: "Swap"}, {Name: "Transfer"}, {Name: "Transfer"}}
	tx := &models.TransactionData{Value: big.NewInt(0)}
	if got := buildActionSummary(events, tx); got != "Token Swap" {
		t.Fatalf("expected Token Swap, got %q", got)
	}
}

func TestBuildActionSummarySingleTransfer(t *testing.T) {
	events := []DecodedEvent{{Name: "Transfer"}}
	tx := &models.TransactionData{Value: big.NewInt(0)}
	if got := buildActionSummary(events, tx); got != "Token Transfer" {
		t.Fatalf("expected Token Transfer, got %q", got)
	}
}

func TestBuildActionSummaryFallsBackToETHTransferValue(t *testing.T) {
	tx := &models.TransactionData{Value: big.NewInt(1e18)}
	if got := buildActionSummary(nil, tx); !strings.Contains(got, "ETH Transfer") {
		t.Fatalf("expected ETH Transfer summary, got %q", got)
	}
}

func TestBuildActionSummaryDefaultsToContractInteraction(t *testing.T) {
	tx := &models.TransactionData{Value: big.NewInt(0)}
	if got := buildActionSummary(nil, tx); got != "Contract Interaction" {
		t.Fatalf("expected Contract Interaction, got %q", got)
	}
}

func TestRenderSVGEscapesUntrustedText(t *testing.T) {
	card := Card{
		TxHash:        "0xdeadbeef",
		ActionSummary: `<script>alert("x")</script>`,
		Cost:          CostBreakdown{TotalUSD: "$1.00"},
	}
	svg := renderSVG(card)
	if strings.Contains(svg, "<script>") {
		t.Fatalf("expected action summary to be escaped, got %s", svg)
	}
}

func TestMockCardOnProviderFailureHasZeroedCost(t *testing.T) {
	card := mockCard("0xabc", models.ChainEthereum)
	if card.Cost.TotalUSD != "$0.00" || card.SVG != "" {
		t.Fatalf("expected zeroed mock card, got %+v", card)
	}
}
