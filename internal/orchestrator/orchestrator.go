// Package orchestrator implements the orchestrator & chat router (C8):
// it dispatches the five analysis operations and the chat intent
// router across the transaction analyzer, contract analyzer, approval
// scanner and receipt generator, optionally enriching the deterministic
// verdict with LLM advisory text.
package orchestrator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rawblock/shield-engine/internal/approvals"
	"github.com/rawblock/shield-engine/internal/contractanalysis"
	"github.com/rawblock/shield-engine/internal/eventlog"
	"github.com/rawblock/shield-engine/internal/llm"
	"github.com/rawblock/shield-engine/internal/receipt"
	"github.com/rawblock/shield-engine/internal/scoring"
	"github.com/rawblock/shield-engine/internal/txanalysis"
	"github.com/rawblock/shield-engine/pkg/models"
)

// Services aggregates every collaborator the orchestrator dispatches
// to. It is constructed once at startup and threaded through request
// handlers — there is no global state.
type Services struct {
	TxAnalyzer    *txanalysis.Analyzer
	ContractAnalyzer *contractanalysis.Analyzer
	Approvals     *approvals.Scanner
	Receipts      *receipt.Generator
	LLM           llm.IntentClassifier
	Explainer     llm.TextGenerator
	EventLog      *eventlog.Store
	Alerts        *eventlog.Broadcaster
}

func New(svc Services) *Services {
	return &svc
}

// AnalyzeTransactionRequest mirrors the inbound analyzeTransaction call.
type AnalyzeTransactionRequest struct {
	TxHash string       `json:"txHash,omitempty"`
	To     string       `json:"to,omitempty"`
	Data   string       `json:"data,omitempty"`
	Value  string       `json:"value,omitempty"`
	Chain  models.Chain `json:"chain"`
}

func (s *Services) AnalyzeTransaction(ctx context.Context, req AnalyzeTransactionRequest) (txanalysis.Result, error) {
	result, err := s.TxAnalyzer.Analyze(ctx, txanalysis.Input{
		TxHash: req.TxHash,
		To:     req.To,
		Data:   req.Data,
		Value:  req.Value,
		Chain:  req.Chain,
	})
	if err != nil {
		return txanalysis.Result{}, err
	}

	target := req.To
	s.logEvent(ctx, "analyze_tx", req.Chain, &target, optionalHash(req.TxHash), &result.RiskScore, nil, result.RiskLevel)
	s.emitAlert(result.RiskLevel, "analyze_tx", req.Chain, target, req.TxHash, result.RiskScore, 0)
	return result, nil
}

type AnalyzeContractRequest struct {
	Address string       `json:"address"`
	Chain   models.Chain `json:"chain"`
}

func (s *Services) AnalyzeContract(ctx context.Context, req AnalyzeContractRequest) (contractanalysis.Result, error) {
	result, err := s.ContractAnalyzer.Analyze(ctx, req.Address, req.Chain)
	if err != nil {
		return contractanalysis.Result{}, err
	}

	s.logEvent(ctx, "analyze_contract", req.Chain, &result.Address, nil, nil, &result.TrustScore, result.TrustLevel)
	s.emitAlert(result.TrustLevel, "analyze_contract", req.Chain, result.Address, "", 0, result.TrustScore)
	return result, nil
}

type GenerateReceiptRequest struct {
	TxHash string       `json:"txHash"`
	Chain  models.Chain `json:"chain"`
	Style  string       `json:"style,omitempty"`
}

func (s *Services) GenerateReceipt(ctx context.Context, req GenerateReceiptRequest) receipt.Card {
	return s.Receipts.Generate(ctx, req.TxHash, req.Chain)
}

type EmergencyRevokeRequest struct {
	WalletAddress string       `json:"walletAddress"`
	Chain         models.Chain `json:"chain"`
	RiskThreshold int          `json:"riskThreshold"`
}

func (s *Services) EmergencyRevoke(ctx context.Context, req EmergencyRevokeRequest) (approvals.ScanResult, error) {
	threshold := req.RiskThreshold
	if threshold <= 0 {
		threshold = 50
	}
	result, err := s.Approvals.ScanAndRevoke(ctx, req.WalletAddress, threshold)
	if err != nil {
		return approvals.ScanResult{}, err
	}

	risky := result.RiskyApprovals
	s.logEvent(ctx, "emergency_revoke", req.Chain, &req.WalletAddress, nil, nil, nil, fmt.Sprintf("%d risky of %d", risky, result.TotalApprovals))
	return result, nil
}

type ShieldStatusRequest struct {
	WalletAddress string       `json:"walletAddress"`
	Chain         models.Chain `json:"chain"`
}

// ShieldStatusResult is the condensed wallet-health readout: the
// highest-risk approval currently outstanding stands in for a
// wallet-wide score, since there is no other aggregate in the core.
type ShieldStatusResult struct {
	Score          int    `json:"score"`
	Level          string `json:"level"`
	TotalApprovals int    `json:"totalApprovals"`
	RiskyApprovals int    `json:"riskyApprovals"`
}

func (s *Services) ShieldStatus(ctx context.Context, req ShieldStatusRequest) (ShieldStatusResult, error) {
	scan, err := s.Approvals.ScanAndRevoke(ctx, req.WalletAddress, 0)
	if err != nil {
		return ShieldStatusResult{}, err
	}

	worst := 0
	for _, a := range scan.Approvals {
		if a.RiskScore > worst {
			worst = a.RiskScore
		}
	}

	return ShieldStatusResult{
		Score:          worst,
		Level:          scoring.RiskLevel(worst),
		TotalApprovals: scan.TotalApprovals,
		RiskyApprovals: scan.RiskyApprovals,
	}, nil
}

func (s *Services) logEvent(ctx context.Context, eventType string, ch models.Chain, target, txHash *string, risk *int, trust *int, result any) {
	if s.EventLog == nil {
		return
	}
	resultStr := fmt.Sprintf("%v", result)
	s.EventLog.Log(ctx, eventlog.Event{
		UserID:    "anonymous",
		EventType: eventType,
		Chain:     string(ch),
		Target:    target,
		TxHash:    txHash,
		Risk:      risk,
		Trust:     trust,
		Result:    &resultStr,
	})
}

func (s *Services) emitAlert(severity, eventType string, ch models.Chain, target, txHash string, risk, trust int) {
	if s.Alerts == nil {
		return
	}
	s.Alerts.Emit(eventlog.VerdictAlert{
		Severity:   severity,
		EventType:  eventType,
		Chain:      string(ch),
		Target:     target,
		TxHash:     txHash,
		RiskScore:  risk,
		TrustScore: trust,
	})
}

func optionalHash(h string) *string {
	if h == "" {
		return nil
	}
	return &h
}

var (
	hashPattern    = regexp.MustCompile(`0x[a-fA-F0-9]{64}`)
	addressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
)

const generalHelpMessage = "I can analyze a transaction or contract, scan and revoke risky approvals, generate a receipt, or report your wallet's shield status. Paste a transaction hash or contract address to get started."

// ChatRequest is the inbound chat() call.
type ChatRequest struct {
	Message string       `json:"message"`
	Chain   models.Chain `json:"chain"`
}

// ChatResponse mirrors §6's {intent, message, data?}.
type ChatResponse struct {
	Intent  string `json:"intent"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Chat classifies the message, extracts a hash/address (LLM-supplied
// first, regex fallback second), dispatches to the matching analyzer,
// and composes a response. It never fabricates a hash or address that
// isn't present in the message or the LLM's own output.
func (s *Services) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	intent, err := s.LLM.ClassifyIntent(ctx, req.Message)
	if err != nil {
		intent = llm.Intent{Category: "general", Confidence: 0}
	}

	txHash, _ := intent.Parameters["tx_hash"].(string)
	address, _ := intent.Parameters["address"].(string)
	if txHash == "" {
		txHash = hashPattern.FindString(req.Message)
	}
	if address == "" {
		address = addressPattern.FindString(req.Message)
	}

	switch intent.Category {
	case "analyze_tx":
		if txHash == "" {
			return ChatResponse{Intent: intent.Category, Message: "Please share the transaction hash you'd like me to analyze."}
		}
		result, err := s.AnalyzeTransaction(ctx, AnalyzeTransactionRequest{TxHash: txHash, Chain: req.Chain})
		if err != nil {
			return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, nil, "tx_analysis")}
		}
		return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, result, "tx_analysis"), Data: result}

	case "analyze_contract":
		if address == "" {
			return ChatResponse{Intent: intent.Category, Message: "Please share the contract address you'd like me to analyze."}
		}
		result, err := s.AnalyzeContract(ctx, AnalyzeContractRequest{Address: address, Chain: req.Chain})
		if err != nil {
			return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, nil, "contract_analysis")}
		}
		return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, result, "contract_analysis"), Data: result}

	case "receipt":
		if txHash == "" {
			return ChatResponse{Intent: intent.Category, Message: "Please share the transaction hash for the receipt."}
		}
		card := s.GenerateReceipt(ctx, GenerateReceiptRequest{TxHash: txHash, Chain: req.Chain})
		return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, card, "receipt"), Data: card}

	case "revoke":
		if address == "" {
			return ChatResponse{Intent: intent.Category, Message: "Please share the wallet address to scan for risky approvals."}
		}
		result, err := s.EmergencyRevoke(ctx, EmergencyRevokeRequest{WalletAddress: address, Chain: req.Chain, RiskThreshold: 50})
		if err != nil {
			return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, nil, "revoke")}
		}
		return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, result, "revoke"), Data: result}

	case "status":
		if address == "" {
			return ChatResponse{Intent: intent.Category, Message: "Please share the wallet address to check its shield status."}
		}
		result, err := s.ShieldStatus(ctx, ShieldStatusRequest{WalletAddress: address, Chain: req.Chain})
		if err != nil {
			return ChatResponse{Intent: intent.Category, Message: "I couldn't read that wallet's status right now."}
		}
		return ChatResponse{Intent: intent.Category, Message: fmt.Sprintf("Wallet shield status: %s (%d/100).", result.Level, result.Score), Data: result}

	case "explain":
		return ChatResponse{Intent: intent.Category, Message: s.explain(ctx, nil, "general")}

	default:
		return ChatResponse{Intent: "general", Message: generalHelpMessage}
	}
}

// explain asks the LLM collaborator for advisory text and degrades to
// the static fallback on any failure — the deterministic data was
// already produced by the caller and is never affected by this step.
func (s *Services) explain(ctx context.Context, data any, explainContext string) string {
	if s.Explainer == nil {
		return llm.FallbackMessage(explainContext)
	}
	text, err := s.Explainer.GenerateExplanation(ctx, data, explainContext)
	if err != nil || text == "" {
		return llm.FallbackMessage(explainContext)
	}
	return text
}
