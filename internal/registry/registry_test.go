package registry

import (
	"math/big"
	"testing"

	"github.com/rawblock/shield-engine/pkg/models"
)

func TestKnownTrustedAndScamAreDisjoint(t *testing.T) {
	for addr := range KnownContracts {
		if KnownScamAddresses[addr] {
			t.Fatalf("address %s is both known-trusted and known-scam", addr)
		}
	}
}

func TestLookupSelectorIgnoresTrailingCalldata(t *testing.T) {
	full := "0x095ea7b3000000000000000000000000" + "1111111254eeb25477b68fb85ed929f73a960582"
	sig, ok := LookupSelector(full)
	if !ok || sig.Name != "approve" {
		t.Fatalf("expected approve signature, got %+v ok=%v", sig, ok)
	}
}

func TestIsKnownScamNormalizesCase(t *testing.T) {
	if !IsKnownScam("0x000000000000000000000000000000000000DEAD") {
		t.Fatalf("expected burn address to be flagged regardless of case")
	}
}

func TestUnlimitedThresholdIsHalfMaxUint256(t *testing.T) {
	doubled := new(big.Int).Mul(UnlimitedThreshold, big.NewInt(2))
	if doubled.Cmp(MaxUint256) >= 0 {
		t.Fatalf("2*threshold should stay below MaxUint256 due to integer division, got %s vs %s", doubled.String(), MaxUint256.String())
	}
}

func TestGetRedFlagsOrdersByScoreDescending(t *testing.T) {
	s := models.Signals{
		UnverifiedContract: true, // 20
		HasDelegateCall:    true, // 15
		IsKnownScam:        true, // 90
	}
	flags := GetRedFlags(s)
	if len(flags) < 2 {
		t.Fatalf("expected multiple flags, got %d", len(flags))
	}
	for i := 1; i < len(flags); i++ {
		if flags[i].Score > flags[i-1].Score {
			t.Fatalf("red flags not sorted descending: %+v", flags)
		}
	}
	if flags[0].Key != "known_scam" {
		t.Fatalf("expected known_scam to be the highest-scored flag, got %s", flags[0].Key)
	}
}

func TestGetRedFlagsLowActivityThreshold(t *testing.T) {
	s := models.Signals{TxCount: 9}
	flags := GetRedFlags(s)
	found := false
	for _, f := range flags {
		if f.Key == "low_activity" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected low_activity flag for tx_count=9")
	}
}
