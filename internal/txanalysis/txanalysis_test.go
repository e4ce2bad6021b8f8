package txanalysis

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/pkg/models"
)

// fakeProvider is a deterministic substitute for *chain.Provider so the
// pipeline can be tested without a real RPC endpoint.
type fakeProvider struct {
	tx *models.TransactionData
}

func (f fakeProvider) GetTransaction(ctx context.Context, hash string) (*models.TransactionData, error) {
	return f.tx, nil
}

func (f fakeProvider) SimulateTransaction(ctx context.Context, to, data, value, from string) chain.SimulationResult {
	return chain.SimulationResult{Success: true, GasUsed: 21000}
}

func TestDecodeFunctionNativeTransfer(t *testing.T) {
	for _, d := range []string{"", "0x", "0x0", "0x00"} {
		fn := decodeFunction(d)
		if fn.name != "Native Transfer" || fn.typ != "Transfer" || fn.risk != "low" {
			t.Fatalf("data=%q: expected native transfer, got %+v", d, fn)
		}
	}
}

func TestDecodeFunctionUnknownSelector(t *testing.T) {
	fn := decodeFunction("0xdeadbeef")
	if fn.name != "Unknown Function" || fn.risk != "medium" {
		t.Fatalf("expected unknown function at medium risk, got %+v", fn)
	}
}

func TestDecodeFunctionUnlimitedApprove(t *testing.T) {
	spender := "bad00000000000000000000000000000000bad01"
	padded := strings.Repeat("0", 24) + spender
	amount := strings.Repeat("f", 64)
	data := "0x095ea7b3" + padded + amount

	fn := decodeFunction(data)
	if fn.name != "approve" {
		t.Fatalf("expected approve, got %s", fn.name)
	}
	if !fn.isUnlimitedApproval {
		t.Fatalf("expected unlimited approval for max amount")
	}
}

func TestDetectWarningsOrderScamThenUnlimited(t *testing.T) {
	s := models.Signals{IsKnownScam: true, UnlimitedApproval: true, SetApprovalForAll: true}
	warnings := detectWarnings(s, "0")
	if len(warnings) < 3 {
		t.Fatalf("expected at least 3 warnings, got %d", len(warnings))
	}
	if warnings[0].Severity != "critical" || !strings.Contains(warnings[0].Message, "scam") {
		t.Fatalf("expected scam warning first, got %+v", warnings[0])
	}
	if !strings.Contains(warnings[1].Message, "UNLIMITED") {
		t.Fatalf("expected unlimited warning second, got %+v", warnings[1])
	}
}

func TestDetectWarningsHighValueTransfer(t *testing.T) {
	warnings := detectWarnings(models.Signals{}, "20000000000000000000") // 20 ETH
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "ETH") {
		t.Fatalf("expected single high-value warning, got %+v", warnings)
	}
}

// TestAnalyzeByHashEchoesHashAndPrefersFetchedFields covers the
// tx_hash-provided path: fetched to/data/value win over any
// caller-supplied values, and the result echoes the requested hash.
func TestAnalyzeByHashEchoesHashAndPrefersFetchedFields(t *testing.T) {
	hash := "0x" + strings.Repeat("a", 64)
	fetched := &models.TransactionData{
		Hash:  hash,
		To:    "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Data:  "0x",
		Value: big.NewInt(0),
	}
	a := New(fakeProvider{tx: fetched})

	result, err := a.Analyze(context.Background(), Input{
		TxHash: hash,
		To:     "0xshouldbeoverridden",
		Data:   "0xdeadbeef",
		Chain:  models.ChainEthereum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TxHash != hash {
		t.Fatalf("expected result.TxHash to echo %s, got %s", hash, result.TxHash)
	}
	if result.FunctionName != "Native Transfer" {
		t.Fatalf("expected the fetched empty calldata to win over the caller-supplied data, got %+v", result)
	}
}
