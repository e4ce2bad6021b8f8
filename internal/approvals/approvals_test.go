package approvals

import (
	"strings"
	"testing"
)

func TestBuildRevokeCalldataIs68BytesWithCorrectSelectorAndZeroTail(t *testing.T) {
	data, err := buildRevokeCalldata("0x1111111254eeb25477b68fb85ed929f73a960582")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(data, "0x095ea7b3") {
		t.Fatalf("expected 0x095ea7b3 selector prefix, got %s", data)
	}

	hexBody := strings.TrimPrefix(data, "0x")
	if len(hexBody) != 136 { // 68 bytes = 136 hex chars
		t.Fatalf("expected 68-byte calldata (136 hex chars), got %d chars: %s", len(hexBody), data)
	}

	last64 := hexBody[len(hexBody)-64:]
	for _, c := range last64 {
		if c != '0' {
			t.Fatalf("expected the trailing 32 bytes (the zero amount) to be all zero, got %s", last64)
		}
	}
}

func TestShortAddressTruncates(t *testing.T) {
	if got := shortAddress("0x1111111254eeb25477b68fb85ed929f73a960582"); got != "0x11111112" {
		t.Fatalf("got %s", got)
	}
}
