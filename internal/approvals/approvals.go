// Package approvals implements the approval scanner (C7): pulls ERC-20
// Approval logs, dedupes, scores each, sorts, and generates
// approve(spender,0) revoke calldata for the risky ones.
package approvals

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rawblock/shield-engine/internal/chain"
	"github.com/rawblock/shield-engine/internal/registry"
	"github.com/rawblock/shield-engine/internal/scoring"
	"github.com/rawblock/shield-engine/pkg/models"
)

// RevokeTx is one generated revoke transaction.
type RevokeTx struct {
	To          string `json:"to"`
	Data        string `json:"data"`
	Description string `json:"description"`
}

// ScanResult is the full output of a scan-and-revoke call.
type ScanResult struct {
	TotalApprovals int               `json:"totalApprovals"`
	RiskyApprovals int               `json:"riskyApprovals"`
	TotalAtRiskUSD string            `json:"totalAtRiskUsd"`
	Approvals      []models.Approval `json:"approvals"`
	RevokeTxs      []RevokeTx        `json:"revokeTxs"`
}

type Scanner struct {
	Provider *chain.Provider
}

func New(p *chain.Provider) *Scanner {
	return &Scanner{Provider: p}
}

// ScanAndRevoke pulls the wallet's approvals, scores and sorts them
// descending by risk, and builds revoke calldata for every entry at or
// above riskThreshold.
func (s *Scanner) ScanAndRevoke(ctx context.Context, walletAddress string, riskThreshold int) (ScanResult, error) {
	events := s.Provider.ScanApprovalLogs(ctx, walletAddress)

	scored := make([]models.Approval, 0, len(events))
	for _, ev := range events {
		tokenInfo, hasToken := registry.LookupContract(ev.Token)
		spenderInfo, hasSpender := registry.LookupContract(ev.Spender)

		isUnlimited := ev.Amount.Cmp(registry.UnlimitedThreshold) > 0

		signals := models.Signals{
			IsKnownScam:       registry.IsKnownScam(ev.Spender),
			UnlimitedApproval: isUnlimited,
			TrustedContract:   hasSpender && spenderInfo.Trusted,
			VerifiedContract:  hasSpender,
		}
		risk := scoring.Risk(signals)

		tokenName := "Unknown Token"
		if hasToken {
			tokenName = tokenInfo.Name
		}
		spenderName := ""
		if hasSpender {
			spenderName = spenderInfo.Name
		}

		scored = append(scored, models.Approval{
			Token:       ev.Token,
			TokenName:   tokenName,
			Spender:     ev.Spender,
			SpenderName: spenderName,
			Amount:      ev.Amount,
			IsUnlimited: isUnlimited,
			RiskScore:   risk,
			IsKnownScam: signals.IsKnownScam,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].RiskScore > scored[j].RiskScore })

	var risky []models.Approval
	for _, a := range scored {
		if a.RiskScore >= riskThreshold {
			risky = append(risky, a)
		}
	}

	revokeTxs := make([]RevokeTx, 0, len(risky))
	for _, a := range risky {
		data, err := buildRevokeCalldata(a.Spender)
		if err != nil {
			continue
		}
		label := a.SpenderName
		if label == "" {
			label = shortAddress(a.Spender)
		}
		revokeTxs = append(revokeTxs, RevokeTx{
			To:          a.Token,
			Data:        data,
			Description: fmt.Sprintf("Revoke %s… from %s", label, a.TokenName),
		})
	}

	totalAtRisk := "$0"
	if len(risky) > 0 {
		totalAtRisk = fmt.Sprintf("$%d", len(risky)*1000) // placeholder pending a price oracle
	}

	return ScanResult{
		TotalApprovals: len(scored),
		RiskyApprovals: len(risky),
		TotalAtRiskUSD: totalAtRisk,
		Approvals:      scored,
		RevokeTxs:      revokeTxs,
	}, nil
}

var addressUint256Args = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("uint256")},
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// buildRevokeCalldata produces the 68-byte approve(spender, 0) calldata:
// 4-byte selector, then ABI-encoded (address, uint256).
func buildRevokeCalldata(spender string) (string, error) {
	addr := common.HexToAddress(spender)
	packed, err := addressUint256Args.Pack(addr, big.NewInt(0))
	if err != nil {
		return "", err
	}
	return registry.ApproveSelector + fmt.Sprintf("%x", packed), nil
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10]
}
