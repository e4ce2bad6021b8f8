// Package llm defines the LLM collaborator interfaces the orchestrator
// depends on. The verdict is always produced by the deterministic
// scoring engine; the LLM only ever supplies advisory text and intent
// hints, and its failures must never fail an analysis.
package llm

import "context"

// Intent is the classification of a free-form chat message.
type Intent struct {
	Category   string         // analyze_tx/analyze_contract/receipt/revoke/status/explain/general
	Parameters map[string]any // may contain "address", "tx_hash", "chain" — never fabricated
	Confidence float64
}

// IntentClassifier turns a chat message into a routable intent.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, message string) (Intent, error)
}

// TextGenerator produces advisory, human-facing explanations. The
// context string selects a canned prompt template (see
// FallbackMessage for the matching degrade path).
type TextGenerator interface {
	GenerateExplanation(ctx context.Context, data any, explainContext string) (string, error)
}

// FallbackMessage returns the static text used when generation fails —
// the caller's failure-isolation path, never returned by a generator
// itself.
func FallbackMessage(explainContext string) string {
	switch explainContext {
	case "tx_analysis":
		return "Transaction analysis complete. Review the risk score and warnings above."
	case "contract_analysis":
		return "Contract analysis complete. Check the trust score for details."
	case "receipt":
		return "Transaction confirmed successfully."
	case "revoke":
		return "Approval scan complete. Review the results above."
	default:
		return "Analysis complete."
	}
}
