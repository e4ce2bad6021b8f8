// Package contractanalysis implements the contract analyzer (C6): fast
// paths for known-trusted and known-scam addresses, otherwise a full
// metadata + bytecode + scoring pass with heuristic type inference.
package contractanalysis

import (
	"context"
	"strings"

	"github.com/rawblock/shield-engine/internal/bytecode"
	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/registry"
	"github.com/rawblock/shield-engine/internal/scoring"
	"github.com/rawblock/shield-engine/pkg/models"
)

// Result is the full contract analysis the orchestrator returns.
type Result struct {
	Address      string          `json:"address"`
	Chain        models.Chain    `json:"chain"`
	TrustScore   int             `json:"trustScore"`
	TrustLevel   string          `json:"trustLevel"`
	TrustColor   string          `json:"trustColor"`
	ContractName string          `json:"contractName,omitempty"`
	ContractType string          `json:"contractType,omitempty"`
	IsVerified   bool            `json:"isVerified"`
	IsKnownScam  bool            `json:"isKnownScam"`
	ContractAgeDays int          `json:"contractAgeDays,omitempty"`
	TxCount      int             `json:"txCount,omitempty"`
	RedFlags     []models.RedFlag `json:"redFlags"`
}

type Analyzer struct {
	Provider *chain.Provider
}

func New(p *chain.Provider) *Analyzer {
	return &Analyzer{Provider: p}
}

// Analyze runs the known-trusted / known-scam fast paths first, falling
// through to the full metadata+bytecode+scoring pipeline only when
// neither table has an entry for the address.
func (a *Analyzer) Analyze(ctx context.Context, address string, ch models.Chain) (Result, error) {
	address = models.NormalizeAddress(address)

	if known, ok := registry.LookupContract(address); ok {
		return Result{
			Address:      address,
			Chain:        ch,
			TrustScore:   95,
			TrustLevel:   "highly_trusted",
			TrustColor:   scoring.TrustColor(95),
			ContractName: known.Name,
			ContractType: known.Type,
			IsVerified:   true,
			RedFlags:     []models.RedFlag{},
		}, nil
	}

	if registry.IsKnownScam(address) {
		flag, _ := registry.RedFlag("known_scam")
		flag.Message = "Known scam/phishing address"
		return Result{
			Address:     address,
			Chain:       ch,
			TrustScore:  0,
			TrustLevel:  "dangerous",
			TrustColor:  scoring.TrustColor(0),
			IsKnownScam: true,
			RedFlags:    []models.RedFlag{flag},
		}, nil
	}

	meta, err := a.Provider.GetContractMetadata(ctx, address)
	if err != nil {
		return Result{}, err
	}
	bc := bytecode.Analyze(meta.Bytecode)

	signals := models.Signals{
		VerifiedContract:   meta.IsVerified,
		UnverifiedContract: meta.HasCode && !meta.IsVerified,
		ContractAgeDays:    meta.ContractAgeDays,
		HasContractAge:     meta.EnrichedOK,
		TxCount:            meta.TxCount,
		HasSelfDestruct:    bc.HasSelfDestruct,
		HasDelegateCall:    bc.HasDelegateCall,
	}

	trustScore := scoring.Trust(signals)

	var contractType string
	if meta.ContractName != "" {
		contractType = inferType(meta.ContractName, meta.SourceSnippet)
	}

	return Result{
		Address:         address,
		Chain:           ch,
		TrustScore:      trustScore,
		TrustLevel:      scoring.TrustLevel(trustScore),
		TrustColor:      scoring.TrustColor(trustScore),
		ContractName:    meta.ContractName,
		ContractType:    contractType,
		IsVerified:      meta.IsVerified,
		ContractAgeDays: meta.ContractAgeDays,
		TxCount:         meta.TxCount,
		RedFlags:        registry.GetRedFlags(signals),
	}, nil
}

// inferType matches the first of DEX, Lending, NFT, Token, Bridge,
// Staking over the contract name plus source snippet, falling back to
// "Smart Contract".
func inferType(name, source string) string {
	combined := strings.ToLower(name + " " + source)

	families := []struct {
		typ      string
		keywords []string
	}{
		{"DEX", []string{"swap", "router", "exchange", "dex"}},
		{"Lending", []string{"lend", "borrow", "aave", "compound"}},
		{"NFT", []string{"nft", "erc721", "erc1155", "collectible"}},
		{"Token", []string{"token", "erc20", "coin"}},
		{"Bridge", []string{"bridge", "relay"}},
		{"Staking", []string{"stake", "staking", "validator"}},
	}

	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(combined, kw) {
				return f.typ
			}
		}
	}
	return "Smart Contract"
}
