// Package txanalysis implements the transaction analyzer (C5): resolves
// transaction inputs, decodes the function call, simulates via the
// chain provider, builds signals, invokes scoring, and emits ordered
// warnings.
package txanalysis

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/registry"
	"github.com/rawblock/shield-engine/internal/scoring"
	"github.com/rawblock/shield-engine/pkg/models"
)

// Input is the caller-supplied request; fetched transaction data (when
// TxHash is set) overrides any of To/Data/Value the caller also passed.
type Input struct {
	TxHash string
	To     string
	Data   string
	Value  string
	Chain  models.Chain
}

// Simulation mirrors chain.SimulationResult in the analyzer's own output
// shape, decoupled from the provider's internal type.
type Simulation struct {
	Success bool   `json:"success"`
	GasUsed uint64 `json:"gasUsed"`
	Error   string `json:"error,omitempty"`
}

// Result is the full transaction analysis the orchestrator returns.
type Result struct {
	TxHash         string                  `json:"txHash,omitempty"`
	RiskScore      int                     `json:"riskScore"`
	RiskLevel      string                  `json:"riskLevel"`
	RiskColor      string                  `json:"riskColor"`
	FunctionName   string                  `json:"functionName"`
	FunctionType   string                  `json:"functionType"`
	DecodedParams  map[string]any          `json:"decodedParams,omitempty"`
	Simulation     *Simulation             `json:"simulation,omitempty"`
	Warnings       []models.Warning        `json:"warnings"`
	DestinationInfo *registry.KnownContract `json:"destinationInfo,omitempty"`
}

// Provider is the subset of the chain provider this analyzer depends
// on, narrowed to an interface so tests can substitute a fake instead
// of making real RPC calls (design note: testable via substitution,
// no globals).
type Provider interface {
	GetTransaction(ctx context.Context, hash string) (*models.TransactionData, error)
	SimulateTransaction(ctx context.Context, to, data, value, from string) chain.SimulationResult
}

// Analyzer wires a chain provider into the transaction-analysis pipeline.
type Analyzer struct {
	Provider Provider
}

func New(p Provider) *Analyzer {
	return &Analyzer{Provider: p}
}

type decodedFunction struct {
	name               string
	typ                string
	risk               string
	selector           string
	isUnlimitedApproval bool
	params             map[string]any
}

// Analyze runs the full pipeline for one transaction-analysis request.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (Result, error) {
	to, data, value := in.To, in.Data, in.Value
	if in.TxHash != "" {
		tx, err := a.Provider.GetTransaction(ctx, in.TxHash)
		if err != nil {
			return Result{}, err
		}
		if tx != nil {
			to = tx.To
			data = tx.Data
			value = tx.Value.String()
		}
	}
	if data == "" {
		data = "0x"
	}
	if value == "" {
		value = "0"
	}

	fn := decodeFunction(data)

	var sim *Simulation
	if to != "" && data != "" {
		s := a.Provider.SimulateTransaction(ctx, to, data, value, "")
		sim = &Simulation{Success: s.Success, GasUsed: s.GasUsed, Error: s.Error}
	}

	var destInfo *registry.KnownContract
	scamDest := false
	if to != "" {
		scamDest = registry.IsKnownScam(to)
		if kc, ok := registry.LookupContract(to); ok {
			destInfo = &kc
		}
	}

	signals := models.Signals{
		IsKnownScam:       scamDest,
		TrustedContract:   destInfo != nil && destInfo.Trusted,
		UnlimitedApproval: fn.isUnlimitedApproval,
		SetApprovalForAll: fn.name == "setApprovalForAll",
		FunctionRisk:      fn.risk,
		UnknownFunction:   fn.name == "Unknown Function",
	}

	riskScore := scoring.Risk(signals)
	warnings := detectWarnings(signals, value)

	return Result{
		TxHash:          in.TxHash,
		RiskScore:       riskScore,
		RiskLevel:       scoring.RiskLevel(riskScore),
		RiskColor:       scoring.RiskColor(riskScore),
		FunctionName:    fn.name,
		FunctionType:    fn.typ,
		DecodedParams:   fn.params,
		Simulation:      sim,
		Warnings:        warnings,
		DestinationInfo: destInfo,
	}, nil
}

// decodeFunction classifies a calldata payload. Empty or trivial data is
// a native transfer; otherwise the selector is looked up in the
// registry, defaulting to "Unknown Function" at medium risk.
func decodeFunction(data string) decodedFunction {
	if data == "" || data == "0x" || data == "0x0" || data == "0x00" {
		return decodedFunction{name: "Native Transfer", typ: "Transfer", risk: "low"}
	}

	selector := data
	if len(selector) > 10 {
		selector = selector[:10]
	}
	selector = strings.ToLower(selector)

	sig, ok := registry.LookupSelector(selector)
	if !ok {
		return decodedFunction{name: "Unknown Function", typ: "Unknown", risk: "medium", selector: selector}
	}

	fn := decodedFunction{name: sig.Name, typ: sig.Type, risk: sig.Risk, selector: selector}

	if sig.Name == "approve" && len(data) >= 138 {
		amountHex := data[74:138]
		amount, ok := new(big.Int).SetString(amountHex, 16)
		if ok {
			fn.isUnlimitedApproval = amount.Cmp(registry.UnlimitedThreshold) > 0
			spenderField := data[94:134]
			fn.params = map[string]any{
				"spender": "0x" + last40Hex(spenderField),
				"amount":  amount.String(),
			}
		}
	}

	return fn
}

func last40Hex(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[len(s)-40:]
}

// detectWarnings emits warnings in the fixed order: scam, unlimited
// approval, setApprovalForAll, unknown function, then high-value ETH
// transfer (a value-parse failure is silent).
func detectWarnings(s models.Signals, value string) []models.Warning {
	var warnings []models.Warning

	if s.IsKnownScam {
		warnings = append(warnings, models.Warning{Severity: "critical", Message: "Destination is a known scam address!"})
	}
	if s.UnlimitedApproval {
		warnings = append(warnings, models.Warning{Severity: "critical", Message: "This grants UNLIMITED token spending to the spender."})
	}
	if s.SetApprovalForAll {
		warnings = append(warnings, models.Warning{Severity: "high", Message: "This approves ALL NFTs in this collection."})
	}
	if s.UnknownFunction {
		warnings = append(warnings, models.Warning{Severity: "medium", Message: "Unknown function call, cannot determine intent."})
	}

	if value != "" {
		if wei, ok := new(big.Int).SetString(value, 10); ok {
			ethValue := weiToEth(wei)
			if ethValue > 10 {
				warnings = append(warnings, models.Warning{
					Severity: "medium",
					Message:  "High-value transfer: " + strconv.FormatFloat(ethValue, 'f', 4, 64) + " ETH",
				})
			}
		}
	}

	return warnings
}

func weiToEth(wei *big.Int) float64 {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	v, _ := f.Float64()
	return v
}
