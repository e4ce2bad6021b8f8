package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// rpcRequest/rpcResponse mirror the standard JSON-RPC 2.0 envelope used
// by every EVM node.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcClient is a thin, dependency-free JSON-RPC-over-HTTP client. It is
// intentionally not ethclient: the fan-out and raw-result access this
// package needs are easier to express against the wire format directly.
type rpcClient struct {
	url        string
	httpClient *http.Client
}

func newRPCClient(url string, timeout time.Duration) *rpcClient {
	return &rpcClient{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// call performs one JSON-RPC request against the configured node,
// returning the raw JSON result for the caller to decode.
func (c *rpcClient) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, NewError(KindDecodeError, "marshal rpc request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, NewError(KindNetworkError, "build rpc request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(KindNetworkError, "rpc call to "+method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, NewError(KindNetworkError, "read rpc response", err)
	}

	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, NewError(KindDecodeError, "unmarshal rpc response", err)
	}
	if parsed.Error != nil {
		return nil, NewError(KindRpcError, fmt.Sprintf("rpc error %d: %s", parsed.Error.Code, parsed.Error.Message), nil)
	}
	return parsed.Result, nil
}
