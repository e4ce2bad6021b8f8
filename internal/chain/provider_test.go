package chain

import (
	"errors"
	"testing"

	"github.com/rawblock/shield-engine/internal/registry"
)

func TestLast40TakesTrailingBytes(t *testing.T) {
	topic := "0x000000000000000000000000" + "1111111254eeb25477b68fb85ed929f73a960582"
	if got := last40(topic); got != "1111111254eeb25477b68fb85ed929f73a960582" {
		t.Fatalf("got %s", got)
	}
}

func TestHexToBigIntHandlesEmptyAndInvalid(t *testing.T) {
	if hexToBigInt("").Sign() != 0 {
		t.Fatalf("expected zero for empty hex")
	}
	if hexToBigInt("not-hex").Sign() != 0 {
		t.Fatalf("expected zero fallback for invalid hex")
	}
	if got := hexToBigInt("0x10"); got.Int64() != 16 {
		t.Fatalf("expected 16, got %s", got.String())
	}
}

func TestHexToUint64(t *testing.T) {
	if hexToUint64("0x1") != 1 {
		t.Fatalf("expected 1")
	}
	if hexToUint64("") != 0 {
		t.Fatalf("expected 0 for empty")
	}
}

func TestKindOfDefaultsToNetworkErrorForForeignErrors(t *testing.T) {
	err := NewError(KindRpcError, "boom", nil)
	if KindOf(err) != KindRpcError {
		t.Fatalf("expected RpcError kind, got %s", KindOf(err))
	}
	if got := KindOf(errors.New("dial tcp: timeout")); got != KindNetworkError {
		t.Fatalf("expected NetworkError kind for a foreign error, got %s", got)
	}
}

// TestDedupeApprovalLogsKeepsFirstOccurrenceAmount: two Approval logs to
// the same (token, spender), the later one unlimited. Only the first
// occurrence survives, so the kept amount is the first one (100 wei),
// which is below the unlimited threshold.
func TestDedupeApprovalLogsKeepsFirstOccurrenceAmount(t *testing.T) {
	token := "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"
	paddedSpender := "0x000000000000000000000000bad00000000000000000000000000000000bad01"
	owner := "0x000000000000000000000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	logs := []explorerLog{
		{Address: token, Topics: []string{approvalTopic0, owner, paddedSpender}, Data: "0x64"}, // 100 wei, first seen
		{Address: token, Topics: []string{approvalTopic0, owner, paddedSpender}, Data: "0x" + repeatHex("f", 64)},
	}

	events := dedupeApprovalLogs(logs)
	if len(events) != 1 {
		t.Fatalf("expected exactly one deduplicated event, got %d", len(events))
	}
	if events[0].Amount.Int64() != 100 {
		t.Fatalf("expected the first-seen amount (100) to win, got %s", events[0].Amount.String())
	}
	if events[0].Amount.Cmp(registry.UnlimitedThreshold) > 0 {
		t.Fatalf("first-seen amount should not register as unlimited")
	}
}

func TestDedupeApprovalLogsSkipsZeroAmount(t *testing.T) {
	logs := []explorerLog{
		{Address: "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", Topics: []string{"", "", "0x000000000000000000000000bad00000000000000000000000000000000bad01"}, Data: "0x0"},
	}
	if events := dedupeApprovalLogs(logs); len(events) != 0 {
		t.Fatalf("expected zero-amount approval to be skipped, got %d", len(events))
	}
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
