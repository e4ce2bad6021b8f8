package contractanalysis

import "testing"

func TestInferTypePriorityOrder(t *testing.T) {
	cases := []struct {
		name, source, want string
	}{
		{"Uniswap V2 Router", "", "DEX"},
		{"Aave Lending Pool", "", "Lending"},
		{"CryptoPunks NFT", "", "NFT"},
		{"MyToken", "erc20 implementation", "Token"},
		{"Cross Chain Bridge", "", "Bridge"},
		{"Validator Staking Pool", "", "Staking"},
		{"Mystery Protocol", "", "Smart Contract"},
	}
	for _, c := range cases {
		if got := inferType(c.name, c.source); got != c.want {
			t.Errorf("inferType(%q, %q) = %s, want %s", c.name, c.source, got, c.want)
		}
	}
}

func TestInferTypeDEXTakesPriorityOverToken(t *testing.T) {
	if got := inferType("Token Swap Router", ""); got != "DEX" {
		t.Fatalf("expected DEX to win when both DEX and Token keywords present, got %s", got)
	}
}
