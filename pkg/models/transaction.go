package models

import (
	"math/big"
	"strings"
	"time"
)

// Chain identifies a supported EVM network. The enum only covers chains
// this engine actually talks to; other chain families are rejected at
// the API boundary rather than silently accepted.
type Chain string

const (
	ChainEthereum  Chain = "ethereum"
	ChainPolygon   Chain = "polygon"
	ChainArbitrum  Chain = "arbitrum"
	ChainBase      Chain = "base"
	ChainOptimism  Chain = "optimism"
	ChainAvalanche Chain = "avalanche"
	ChainBSC       Chain = "bsc"
)

func (c Chain) Valid() bool {
	switch c {
	case ChainEthereum, ChainPolygon, ChainArbitrum, ChainBase, ChainOptimism, ChainAvalanche, ChainBSC:
		return true
	}
	return false
}

// NormalizeAddress lowercases a hex address so it can be used safely as a
// map key throughout the registry and scoring layers.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// TransactionData is the minimal set of fields pulled from a chain's
// eth_getTransactionByHash needed by the analyzers. Wei amounts use *big.Int so arbitrary hex values decode
// without precision loss.
type TransactionData struct {
	Hash        string   `json:"hash"`
	From        string   `json:"from"`
	To          string   `json:"to,omitempty"` // empty for contract creation
	Value       *big.Int `json:"value"`
	Data        string   `json:"data"` // 0x-prefixed calldata
	GasLimit    uint64   `json:"gasLimit"`
	GasPrice    *big.Int `json:"gasPrice"`
	Nonce       uint64   `json:"nonce"`
	BlockNumber uint64   `json:"blockNumber,omitempty"` // 0 if pending
}

// Receipt is the chain's transaction receipt, distinct from the SVG
// receipt rendered by internal/receipt.
type Receipt struct {
	Status          bool     `json:"status"`
	GasUsed         uint64   `json:"gasUsed"`
	Logs            []Log    `json:"logs"`
	ContractAddress string   `json:"contractAddress,omitempty"`
	CumulativeGas   uint64   `json:"cumulativeGasUsed,omitempty"`
	EffectiveGas    *big.Int `json:"effectiveGasPrice,omitempty"`
}

// Log is a single EVM event log entry.
type Log struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// ContractMetadata describes what is known about an on-chain address:
// whether it has code, how long it's been deployed, and (when the
// explorer enrichment succeeds) its verification status and source.
type ContractMetadata struct {
	Address        string    `json:"address"`
	HasCode        bool      `json:"hasCode"`
	Balance        *big.Int  `json:"balance"`
	Nonce          uint64    `json:"nonce"`
	IsVerified     bool      `json:"isVerified"`
	ContractName   string    `json:"contractName,omitempty"`
	SourceSnippet  string    `json:"sourceSnippet,omitempty"` // first ~500 chars, for type inference only
	FirstSeen      time.Time `json:"firstSeen,omitempty"`
	ContractAgeDays int      `json:"contractAgeDays"`
	TxCount        int       `json:"txCount"`
	EnrichedOK     bool      `json:"-"` // true if the explorer age lookup succeeded (ContractAgeDays is known)
	Bytecode       string    `json:"-"` // raw runtime code, feeds internal/bytecode only
}

// BytecodeAnalysis is the result of walking a contract's runtime code.
type BytecodeAnalysis struct {
	HasSelfDestruct bool     `json:"hasSelfDestruct"`
	HasDelegateCall bool     `json:"hasDelegateCall"`
	CodeSize        int      `json:"codeSize"`
	Notes           []string `json:"notes,omitempty"`
}

// Signals is the closed set of boolean/numeric facts the scoring engine
// consumes. Every field is populated explicitly by the upstream analyzer
// rather than dispatched dynamically, so the scorer can pattern-match on
// a fixed struct shape instead of walking an untyped map.
type Signals struct {
	IsKnownScam        bool
	IsHoneypot         bool
	TrustedContract    bool
	VerifiedContract   bool
	UnverifiedContract bool
	ContractAgeDays    int
	HasContractAge     bool // false means "unknown age", distinct from ContractAgeDays==0
	TxCount            int
	HasSelfDestruct    bool
	HasDelegateCall    bool
	UnlimitedApproval  bool
	SetApprovalForAll  bool
	UnknownFunction    bool
	HighValue          bool // > 10 ETH equivalent
	ValueUSD           float64
	FunctionRisk       string // "", "low", "medium", "high"
	NewContract        bool   // age < 7 days
	VeryNewContract    bool   // age < 1 day
	LowActivity        bool   // tx_count < 10
}

// DecodedFunction is the result of matching a transaction's 4-byte
// selector against the known function-signature table.
type DecodedFunction struct {
	Selector string         `json:"selector"`
	Name     string         `json:"name"`
	Params   map[string]any `json:"params,omitempty"`
}

// Approval represents a single ERC-20 Approval event discovered by the
// approval scanner.
type Approval struct {
	Token       string   `json:"token"`
	TokenName   string   `json:"tokenName,omitempty"`
	Spender     string   `json:"spender"`
	SpenderName string   `json:"spenderName,omitempty"`
	Amount      *big.Int `json:"amount"`
	IsUnlimited bool     `json:"isUnlimited"`
	RiskScore   int      `json:"riskScore"`
	IsKnownScam bool     `json:"isKnownScam"`
}

// RedFlag is a single catalogue entry surfaced by a scored analysis.
type RedFlag struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // critical/high/medium/low
	Message  string `json:"message"`
	Score    int    `json:"score"`
}

// Verdict is the complete, scored output of a transaction or contract
// analysis — the shape the orchestrator hands back to callers.
type Verdict struct {
	RiskScore   int               `json:"riskScore"`
	RiskLevel   string            `json:"riskLevel"`
	RiskColor   string            `json:"riskColor"`
	TrustScore  int               `json:"trustScore"`
	TrustLevel  string            `json:"trustLevel"`
	TrustColor  string            `json:"trustColor"`
	RedFlags    []RedFlag         `json:"redFlags"`
	Function    *DecodedFunction  `json:"function,omitempty"`
	ContractType string           `json:"contractType,omitempty"`
	Warnings    []Warning         `json:"warnings,omitempty"`
}

// Warning is an ordered, human-facing caution surfaced during
// transaction analysis (distinct from the scored RedFlag catalogue).
type Warning struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
