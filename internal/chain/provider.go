// Package chain is the EVM chain provider: a JSON-RPC client over HTTP
// plus an Etherscan-shaped explorer REST client, fanned out
// concurrently where the spec allows it and joined before returning.
package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rawblock/shield-engine/pkg/models"
)

const (
	primaryTimeout  = 15 * time.Second
	metadataTimeout = 10 * time.Second
)

// Config holds the wiring for one chain's provider instance.
type Config struct {
	RPCURL        string
	ExplorerURL   string // defaults to the Etherscan-shaped API root if empty
	ExplorerAPIKey string
}

// Provider implements the chain-evidence fetcher. It is safe to share
// across concurrent requests: it holds no per-request state and the
// registries it touches are read-only.
type Provider struct {
	rpc      *rpcClient
	explorer *explorerClient
}

func NewProvider(cfg Config) *Provider {
	explorerURL := cfg.ExplorerURL
	if explorerURL == "" {
		explorerURL = "https://api.etherscan.io/api"
	}
	return &Provider{
		rpc:      newRPCClient(cfg.RPCURL, primaryTimeout),
		explorer: newExplorerClient(explorerURL, cfg.ExplorerAPIKey, metadataTimeout),
	}
}

func hexToBigInt(s string) *big.Int {
	if s == "" {
		return big.NewInt(0)
	}
	n, err := hexutil.DecodeBig(s)
	if err != nil {
		return big.NewInt(0)
	}
	return n
}

func hexToUint64(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0
	}
	return n
}

// GetTransaction fetches a transaction by hash via eth_getTransactionByHash.
func (p *Provider) GetTransaction(ctx context.Context, hash string) (*models.TransactionData, error) {
	raw, err := p.rpc.call(ctx, "eth_getTransactionByHash", []any{hash})
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" || len(raw) == 0 {
		return nil, nil // not found is not an error
	}

	var tx struct {
		Hash        string `json:"hash"`
		From        string `json:"from"`
		To          string `json:"to"`
		Value       string `json:"value"`
		Input       string `json:"input"`
		Gas         string `json:"gas"`
		GasPrice    string `json:"gasPrice"`
		Nonce       string `json:"nonce"`
		BlockNumber string `json:"blockNumber"`
	}
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, NewError(KindDecodeError, "decode transaction", err)
	}

	data := tx.Input
	if data == "" {
		data = "0x"
	}
	return &models.TransactionData{
		Hash:        tx.Hash,
		From:        tx.From,
		To:          tx.To,
		Value:       hexToBigInt(tx.Value),
		Data:        data,
		GasLimit:    hexToUint64(tx.Gas),
		GasPrice:    hexToBigInt(tx.GasPrice),
		Nonce:       hexToUint64(tx.Nonce),
		BlockNumber: hexToUint64(tx.BlockNumber),
	}, nil
}

// SimulationResult is the outcome of a simulated call.
type SimulationResult struct {
	Success bool
	GasUsed uint64
	Error   string
}

// SimulateTransaction runs eth_call then eth_estimateGas against a call
// object. Success requires both to succeed without an RPC error;
// failure populates only the error string, leaving GasUsed at zero.
func (p *Provider) SimulateTransaction(ctx context.Context, to, data, value, from string) SimulationResult {
	callObj := map[string]any{"to": to, "data": data}
	if from != "" {
		callObj["from"] = from
	}
	if value != "" && value != "0" {
		if v, ok := new(big.Int).SetString(value, 10); ok {
			callObj["value"] = hexutil.EncodeBig(v)
		}
	}

	if _, err := p.rpc.call(ctx, "eth_call", []any{callObj, "latest"}); err != nil {
		return SimulationResult{Success: false, Error: err.Error()}
	}

	gasRaw, err := p.rpc.call(ctx, "eth_estimateGas", []any{callObj})
	if err != nil {
		return SimulationResult{Success: false, Error: err.Error()}
	}
	var gasHex string
	_ = json.Unmarshal(gasRaw, &gasHex)

	return SimulationResult{Success: true, GasUsed: hexToUint64(gasHex)}
}

// GetContractMetadata fans out eth_getCode/eth_getBalance/
// eth_getTransactionCount concurrently, then soft-enriches with
// explorer data when an API key is configured.
func (p *Provider) GetContractMetadata(ctx context.Context, address string) (models.ContractMetadata, error) {
	address = models.NormalizeAddress(address)
	meta := models.ContractMetadata{Address: address}

	metaCtx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	var (
		wg                        sync.WaitGroup
		code, balanceHex, nonceHex string
		firstErr                  error
		mu                        sync.Mutex
	)
	fetch := func(method string, dest *string) {
		defer wg.Done()
		raw, err := p.rpc.call(metaCtx, method, []any{address, "latest"})
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		_ = json.Unmarshal(raw, dest)
	}

	wg.Add(3)
	go fetch("eth_getCode", &code)
	go fetch("eth_getBalance", &balanceHex)
	go fetch("eth_getTransactionCount", &nonceHex)
	wg.Wait()

	if firstErr != nil {
		return meta, firstErr
	}

	meta.HasCode = code != "" && code != "0x" && code != "0x0"
	meta.Balance = hexToBigInt(balanceHex)
	meta.Nonce = hexToUint64(nonceHex)

	if p.explorer.enabled() {
		if src, ok := p.explorer.getSourceCode(ctx, address); ok {
			meta.IsVerified = src.isVerified
			meta.ContractName = src.contractName
			meta.SourceSnippet = firstN(src.sourceCode, 500)
		}
		if age, ok := p.explorer.getFirstTransactionAgeDays(ctx, address, time.Now()); ok {
			meta.ContractAgeDays = age
			meta.FirstSeen = time.Now().AddDate(0, 0, -age)
			meta.EnrichedOK = true
		}
	}
	meta.TxCount = int(meta.Nonce)
	meta.Bytecode = code

	return meta, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// GetReceipt fetches a transaction receipt via eth_getTransactionReceipt.
func (p *Provider) GetReceipt(ctx context.Context, hash string) (*models.Receipt, error) {
	raw, err := p.rpc.call(ctx, "eth_getTransactionReceipt", []any{hash})
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" || len(raw) == 0 {
		return nil, nil
	}

	var r struct {
		Status          string `json:"status"`
		GasUsed         string `json:"gasUsed"`
		CumulativeGas   string `json:"cumulativeGasUsed"`
		EffectiveGasPrice string `json:"effectiveGasPrice"`
		ContractAddress string `json:"contractAddress"`
		Logs            []struct {
			Address string   `json:"address"`
			Topics  []string `json:"topics"`
			Data    string   `json:"data"`
		} `json:"logs"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, NewError(KindDecodeError, "decode receipt", err)
	}

	logs := make([]models.Log, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, models.Log{Address: l.Address, Topics: l.Topics, Data: l.Data})
	}

	return &models.Receipt{
		Status:          hexToUint64(r.Status) == 1,
		GasUsed:         hexToUint64(r.GasUsed),
		Logs:            logs,
		ContractAddress: r.ContractAddress,
		CumulativeGas:   hexToUint64(r.CumulativeGas),
		EffectiveGas:    hexToBigInt(r.EffectiveGasPrice),
	}, nil
}

// GetBlock fetches a block by number via eth_getBlockByNumber, without
// full transaction objects.
func (p *Provider) GetBlock(ctx context.Context, number uint64) (json.RawMessage, error) {
	return p.rpc.call(ctx, "eth_getBlockByNumber", []any{hexutil.EncodeUint64(number), false})
}

// ApprovalEvent is one deduplicated, deterministic approval-log entry.
type ApprovalEvent struct {
	Token   string
	Spender string
	Amount  *big.Int
}

// ScanApprovalLogs finds ERC-20 Approval events for an owner, dedupes
// by (token, spender), and skips zero-amount (already revoked) entries.
// Any explorer failure yields an empty slice rather than an error.
func (p *Provider) ScanApprovalLogs(ctx context.Context, owner string) []ApprovalEvent {
	owner = models.NormalizeAddress(owner)
	paddedOwner := "0x" + strings.Repeat("0", 24) + strings.TrimPrefix(owner, "0x")

	// Log scans get the primary deadline, not the metadata one the shared
	// explorer client was built with.
	scanClient := newExplorerClient(p.explorer.baseURL, p.explorer.apiKey, primaryTimeout)
	logs := scanClient.getLogs(ctx, approvalTopic0, paddedOwner)
	return dedupeApprovalLogs(logs)
}

// dedupeApprovalLogs converts raw Approval logs into deduplicated
// ApprovalEvents: first occurrence wins per (token, spender), and a
// zero-amount entry (already revoked) is skipped. Kept separate from
// ScanApprovalLogs so the dedup/skip rules are testable without an
// HTTP round trip.
func dedupeApprovalLogs(logs []explorerLog) []ApprovalEvent {
	seen := make(map[string]bool)
	events := make([]ApprovalEvent, 0, len(logs))
	for _, l := range logs {
		if len(l.Topics) < 3 {
			continue
		}
		token := models.NormalizeAddress(l.Address)
		spender := "0x" + last40(l.Topics[2])
		key := token + ":" + spender
		if seen[key] {
			continue
		}
		seen[key] = true

		amount, err := hexutil.DecodeBig(defaultZero(l.Data))
		if err != nil {
			amount = big.NewInt(0)
		}
		if amount.Sign() == 0 {
			continue
		}
		events = append(events, ApprovalEvent{Token: token, Spender: spender, Amount: amount})
	}
	return events
}

const approvalTopic0 = "0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925"

func last40(topic string) string {
	t := strings.TrimPrefix(topic, "0x")
	if len(t) < 40 {
		return t
	}
	return t[len(t)-40:]
}

func defaultZero(data string) string {
	if data == "" {
		return "0x0"
	}
	return data
}
