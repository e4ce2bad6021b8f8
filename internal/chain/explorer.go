package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// explorerClient talks to an Etherscan-shaped REST API: getsourcecode,
// txlist, getLogs. It is a separate client from rpcClient because it is
// a different wire protocol (query-string REST, not a JSON-RPC
// envelope) even though both ultimately describe the same chain.
type explorerClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newExplorerClient(baseURL, apiKey string, timeout time.Duration) *explorerClient {
	return &explorerClient{baseURL: baseURL, apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

func (c *explorerClient) enabled() bool { return c.apiKey != "" }

func (c *explorerClient) get(ctx context.Context, params url.Values) (map[string]any, error) {
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewError(KindNetworkError, "build explorer request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(KindNetworkError, "explorer request", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewError(KindDecodeError, "decode explorer response", err)
	}
	return body, nil
}

// sourceCodeResult is what getsourcecode yields for verification status.
type sourceCodeResult struct {
	isVerified   bool
	contractName string
	sourceCode   string
}

// getSourceCode checks verification status, ignoring any failure (soft
// enrichment — the caller still gets the rest of contract metadata).
func (c *explorerClient) getSourceCode(ctx context.Context, address string) (sourceCodeResult, bool) {
	body, err := c.get(ctx, url.Values{
		"module":  {"contract"},
		"action":  {"getsourcecode"},
		"address": {address},
	})
	if err != nil {
		return sourceCodeResult{}, false
	}
	if status, _ := body["status"].(string); status != "1" {
		return sourceCodeResult{}, false
	}
	results, ok := body["result"].([]any)
	if !ok || len(results) == 0 {
		return sourceCodeResult{}, false
	}
	entry, ok := results[0].(map[string]any)
	if !ok {
		return sourceCodeResult{}, false
	}
	abi, _ := entry["ABI"].(string)
	name, _ := entry["ContractName"].(string)
	source, _ := entry["SourceCode"].(string)
	return sourceCodeResult{
		isVerified:   abi != "Contract source code not verified",
		contractName: name,
		sourceCode:   source,
	}, true
}

// getFirstTransactionAgeDays returns the contract's age via the first
// transaction timestamp, ignoring any failure.
func (c *explorerClient) getFirstTransactionAgeDays(ctx context.Context, address string, now time.Time) (int, bool) {
	body, err := c.get(ctx, url.Values{
		"module":     {"account"},
		"action":     {"txlist"},
		"address":    {address},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"page":       {"1"},
		"offset":     {"1"},
		"sort":       {"asc"},
	})
	if err != nil {
		return 0, false
	}
	if status, _ := body["status"].(string); status != "1" {
		return 0, false
	}
	results, ok := body["result"].([]any)
	if !ok || len(results) == 0 {
		return 0, false
	}
	entry, ok := results[0].(map[string]any)
	if !ok {
		return 0, false
	}
	tsStr, _ := entry["timeStamp"].(string)
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil || ts == 0 {
		return 0, false
	}
	ageDays := int(now.Sub(time.Unix(ts, 0)).Hours() / 24)
	return ageDays, true
}

// explorerLog is one raw getLogs entry.
type explorerLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// getLogs fetches raw logs matching topic0/topic1. On any failure
// (including a disabled explorer) it returns an empty slice, never an
// error — the approval scanner treats an empty scan as "nothing found",
// consistent with §4.2's "Approval-log scan" soft-failure contract.
func (c *explorerClient) getLogs(ctx context.Context, topic0, topic1 string) []explorerLog {
	body, err := c.get(ctx, url.Values{
		"module":    {"logs"},
		"action":    {"getLogs"},
		"fromBlock": {"0"},
		"toBlock":   {"latest"},
		"topic0":    {topic0},
		"topic1":    {topic1},
	})
	if err != nil {
		return nil
	}
	if status, _ := body["status"].(string); status != "1" {
		return nil
	}
	raw, ok := body["result"].([]any)
	if !ok {
		return nil
	}

	logs := make([]explorerLog, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		address, _ := m["address"].(string)
		data, _ := m["data"].(string)
		var topics []string
		if rawTopics, ok := m["topics"].([]any); ok {
			for _, t := range rawTopics {
				if s, ok := t.(string); ok {
					topics = append(topics, s)
				}
			}
		}
		logs = append(logs, explorerLog{Address: address, Topics: topics, Data: data})
	}
	return logs
}
