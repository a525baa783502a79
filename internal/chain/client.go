package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/darshan-stack/Muncipal-Fund/internal/config"
	"go.uber.org/zap"
)

// Client is a read-only JSON-RPC client for the distributed ledger. It is an
// optional collaborator: callers must tolerate every method failing when the
// RPC endpoint is unreachable.
type Client struct {
	rpcURL      string
	network     string
	explorerURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Receipt is the subset of an on-chain transaction receipt surfaced by the
// verification endpoint.
type Receipt struct {
	BlockNumber uint64 `json:"block_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	Status      uint64 `json:"status"`
	GasUsed     uint64 `json:"gas_used"`
}

func NewClient(cfg config.ChainConfig, logger *zap.Logger) *Client {
	return &Client{
		rpcURL:      cfg.RPCURL,
		network:     cfg.Network,
		explorerURL: cfg.ExplorerURL,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:      logger.With(zap.String("service", "chain")),
	}
}

func (c *Client) Network() string {
	return c.network
}

func (c *Client) RPCURL() string {
	return c.rpcURL
}

func (c *Client) ExplorerTxURL(txHash string) string {
	return c.explorerURL + "/tx/" + txHash
}

// BlockNumber returns the latest block number, or an error when the RPC
// endpoint is unreachable.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result string
	if err := c.call(ctx, "eth_blockNumber", nil, &result); err != nil {
		return 0, err
	}
	return parseHexUint(result)
}

// TransactionReceipt looks up a transaction receipt by hash. A missing
// transaction yields a nil receipt and no error.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var raw struct {
		BlockNumber string `json:"blockNumber"`
		From        string `json:"from"`
		To          string `json:"to"`
		Status      string `json:"status"`
		GasUsed     string `json:"gasUsed"`
	}

	result, err := c.rawCall(ctx, "eth_getTransactionReceipt", []any{txHash})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, err
	}

	receipt := &Receipt{From: raw.From, To: raw.To}
	if receipt.BlockNumber, err = parseHexUint(raw.BlockNumber); err != nil {
		return nil, err
	}
	if receipt.Status, err = parseHexUint(raw.Status); err != nil {
		return nil, err
	}
	if receipt.GasUsed, err = parseHexUint(raw.GasUsed); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	raw, err := c.rawCall(ctx, method, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (c *Client) rawCall(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

func parseHexUint(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("empty hex quantity")
	}
	return strconv.ParseUint(trimmed, 16, 64)
}
