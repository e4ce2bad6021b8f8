// Package receipt renders a shareable SVG "receipt card" for a
// transaction. This is pure templating, explicitly out of the scored
// core: it never influences a risk or trust verdict.
package receipt

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/registry"
	"github.com/rawblock/shield-engine/pkg/models"
)

// CostBreakdown is the gas/value accounting shown on the card.
type CostBreakdown struct {
	GasETH   string `json:"gasEth"`
	GasUSD   string `json:"gasUsd"`
	ValueETH string `json:"valueEth"`
	ValueUSD string `json:"valueUsd"`
	TotalETH string `json:"totalEth"`
	TotalUSD string `json:"totalUsd"`
}

// Card is the full receipt result, including the rendered SVG markup.
type Card struct {
	TxHash        string          `json:"txHash"`
	Chain         models.Chain    `json:"chain"`
	ActionSummary string          `json:"actionSummary"`
	Events        []DecodedEvent  `json:"events"`
	Cost          CostBreakdown   `json:"costBreakdown"`
	SVG           string          `json:"svgCard"`
}

// DecodedEvent is a named, registry-resolved log entry shown on the card.
type DecodedEvent struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// EthPriceUSD is injected from configuration (default 3500); there is
// no live price feed, by design.
type Generator struct {
	Provider    *chain.Provider
	EthPriceUSD float64
}

func New(p *chain.Provider, ethPriceUSD float64) *Generator {
	return &Generator{Provider: p, EthPriceUSD: ethPriceUSD}
}

// Generate fetches the transaction and receipt and builds a card. Any
// fetch failure degrades to a zeroed mock card rather than an error —
// the receipt is a cosmetic collaborator, never allowed to block the
// user on a chain hiccup.
func (g *Generator) Generate(ctx context.Context, txHash string, ch models.Chain) Card {
	tx, err := g.Provider.GetTransaction(ctx, txHash)
	if err != nil || tx == nil {
		return mockCard(txHash, ch)
	}
	receipt, err := g.Provider.GetReceipt(ctx, txHash)
	if err != nil || receipt == nil {
		return mockCard(txHash, ch)
	}

	events := decodeLogs(receipt.Logs)
	cost := calculateCosts(tx, receipt, g.EthPriceUSD)
	action := buildActionSummary(events, tx)

	card := Card{
		TxHash:        txHash,
		Chain:         ch,
		ActionSummary: action,
		Events:        events,
		Cost:          cost,
	}
	card.SVG = renderSVG(card)
	return card
}

func decodeLogs(logs []models.Log) []DecodedEvent {
	events := make([]DecodedEvent, 0, len(logs))
	for _, l := range logs {
		if len(l.Topics) == 0 {
			continue
		}
		name := "Unknown Event"
		if sig, ok := registry.LookupEvent(l.Topics[0]); ok {
			name = sig.Name
		}
		events = append(events, DecodedEvent{Name: name, Address: l.Address})
	}
	return events
}

func calculateCosts(tx *models.TransactionData, receipt *models.Receipt, ethPriceUSD float64) CostBreakdown {
	gasPrice := tx.GasPrice
	if gasPrice == nil {
		gasPrice = big.NewInt(0)
	}
	gasCostWei := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), gasPrice)
	gasEth := weiToEthFloat(gasCostWei)
	valueEth := weiToEthFloat(tx.Value)

	return CostBreakdown{
		GasETH:   fmt.Sprintf("%.6f", gasEth),
		GasUSD:   fmt.Sprintf("$%.2f", gasEth*ethPriceUSD),
		ValueETH: fmt.Sprintf("%.6f", valueEth),
		ValueUSD: fmt.Sprintf("$%.2f", valueEth*ethPriceUSD),
		TotalETH: fmt.Sprintf("%.6f", gasEth+valueEth),
		TotalUSD: fmt.Sprintf("$%.2f", (gasEth+valueEth)*ethPriceUSD),
	}
}

func buildActionSummary(events []DecodedEvent, tx *models.TransactionData) string {
	hasSwap := false
	transferCount := 0
	hasApproval := false
	for _, e := range events {
		switch e.Name {
		case "Swap":
			hasSwap = true
		case "Transfer":
			transferCount++
		case "Approval", "ApprovalForAll":
			hasApproval = true
		}
	}

	switch {
	case hasSwap && transferCount >= 2:
		return "Token Swap"
	case hasApproval:
		return "Token Approval"
	case transferCount == 1:
		return "Token Transfer"
	case transferCount > 1:
		return fmt.Sprintf("Multi-Transfer (%d transfers)", transferCount)
	}

	valueEth := weiToEthFloat(tx.Value)
	if valueEth > 0 {
		return fmt.Sprintf("ETH Transfer (%.4f ETH)", valueEth)
	}
	return "Contract Interaction"
}

func mockCard(txHash string, ch models.Chain) Card {
	zero := CostBreakdown{GasETH: "0.000000", GasUSD: "$0.00", ValueETH: "0.000000", ValueUSD: "$0.00", TotalETH: "0.000000", TotalUSD: "$0.00"}
	return Card{TxHash: txHash, Chain: ch, ActionSummary: "Transaction", Events: []DecodedEvent{}, Cost: zero, SVG: ""}
}

func renderSVG(c Card) string {
	var b strings.Builder
	height := 380 + min(len(c.Events), 3)*18

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="%d" viewBox="0 0 600 %d">`, height, height)
	b.WriteString(`<rect width="600" height="` + fmt.Sprint(height) + `" rx="16" fill="#111827"/>`)
	b.WriteString(`<text x="30" y="40" fill="#F8FAFC" font-size="18" font-weight="700">SHIELD RECEIPT</text>`)
	fmt.Fprintf(&b, `<text x="548" y="39" fill="#94A3B8" font-size="10" text-anchor="middle">%s</text>`, escapeSVG(strings.ToUpper(string(c.Chain))))
	fmt.Fprintf(&b, `<text x="30" y="80" fill="#F8FAFC" font-size="16">%s</text>`, escapeSVG(truncate(c.ActionSummary, 50)))
	fmt.Fprintf(&b, `<text x="30" y="110" fill="#94A3B8" font-size="12">%s</text>`, escapeSVG(formatHash(c.TxHash)))

	for i, ev := range c.Events {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, `<text x="30" y="%d" fill="#94A3B8" font-size="11">%s</text>`, 245+i*18, escapeSVG(truncate(ev.Name, 40)))
	}

	fmt.Fprintf(&b, `<text x="30" y="%d" fill="#F8FAFC" font-size="13">Total: %s</text>`, height-40, escapeSVG(c.Cost.TotalUSD))
	b.WriteString(`</svg>`)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func formatHash(h string) string {
	if len(h) > 16 {
		return h[:8] + "..." + h[len(h)-6:]
	}
	return h
}

func escapeSVG(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func weiToEthFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	v, _ := f.Float64()
	return v
}
