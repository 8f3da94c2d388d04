package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/elyase/dexmetadata/app/metadata"
	"github.com/elyase/dexmetadata/common"
)

const callTimeout = 30 * time.Second

// Client issues deployless multicall requests against one JSON-RPC endpoint.
// Transport-level retries are disabled: a failed batch yields zero records
// upstream instead of being retried.
type Client struct {
	logger   *zap.Logger
	endpoint string
	http     *retryablehttp.Client
}

func NewClient(logger *zap.Logger, endpoint string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = callTimeout

	return &Client{
		logger:   logger,
		endpoint: endpoint,
		http:     httpClient,
	}
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*Client)
)

// ClientFor returns the shared client for the endpoint, creating it on
// first use.
func ClientFor(logger *zap.Logger, endpoint string) *Client {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	if client, found := clients[endpoint]; found {
		return client
	}

	client := NewClient(logger, endpoint)
	clients[endpoint] = client

	return client
}

type jsonrpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type jsonrpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *jsonrpcError   `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(&jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	defer common.LogCloserError(c.logger, resp.Body, "close response body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var rpcResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// CallBatch fetches metadata for one batch of pool addresses in a single
// eth_call round-trip. The call is batch-atomic from the caller's point of
// view: any transport or decode error fails the whole batch.
func (c *Client) CallBatch(ctx context.Context, addresses []string) ([]metadata.Pool, error) {
	if len(addresses) == 0 {
		return nil, common.ErrEmptyBatch
	}

	callData, err := EncodeCallData(addresses)
	if err != nil {
		return nil, fmt.Errorf("encode call data: %w", err)
	}

	result, err := c.call(ctx, "eth_call", []any{
		map[string]string{"data": hexutil.Encode(callData)},
		"latest",
	})
	if err != nil {
		return nil, fmt.Errorf("eth_call: %w", err)
	}

	var resultHex string
	if err := json.Unmarshal(result, &resultHex); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	returnData, err := hexutil.Decode(resultHex)
	if err != nil {
		return nil, fmt.Errorf("decode result hex: %w", err)
	}

	if len(returnData) == 0 {
		return nil, common.ErrEmptyResponse
	}

	pools, err := DecodePools(returnData)
	if err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}

	return pools, nil
}

// Ping verifies the endpoint answers eth_chainId, retrying with exponential
// backoff. Used when probing endpoints, not on the batch path.
func (c *Client) Ping(ctx context.Context, maxElapsed time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed

	operation := func() error {
		_, err := c.call(ctx, "eth_chainId", []any{})
		if err != nil {
			c.logger.Warn("endpoint probe failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		}

		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("probe endpoint %s: %w", c.endpoint, err)
	}

	return nil
}
