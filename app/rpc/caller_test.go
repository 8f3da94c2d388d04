package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/elyase/dexmetadata/common"
)

func rpcTestServer(t *testing.T, handler func(method string, params []json.RawMessage) (any, *jsonrpcError)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handler(req.Method, req.Params)

		resp := map[string]any{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	t.Cleanup(server.Close)

	return server
}

func TestCallBatch(t *testing.T) {
	pools := samplePools()

	payload, err := EncodePools(pools)
	require.NoError(t, err)

	server := rpcTestServer(t, func(method string, _ []json.RawMessage) (any, *jsonrpcError) {
		require.Equal(t, "eth_call", method)

		return hexutil.Encode(payload), nil
	})

	client := NewClient(common.NewTestLogger(t), server.URL)

	got, err := client.CallBatch(context.Background(), []string{pools[0].Address, pools[1].Address})
	require.NoError(t, err)
	require.Equal(t, pools, got)
}

func TestCallBatchEmptyAddresses(t *testing.T) {
	client := NewClient(common.NewTestLogger(t), "http://localhost:0")

	_, err := client.CallBatch(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrEmptyBatch)
}

func TestCallBatchRPCError(t *testing.T) {
	server := rpcTestServer(t, func(string, []json.RawMessage) (any, *jsonrpcError) {
		return nil, &jsonrpcError{Code: -32000, Message: "execution reverted"}
	})

	client := NewClient(common.NewTestLogger(t), server.URL)

	_, err := client.CallBatch(context.Background(), []string{"0x1111111111111111111111111111111111111111"})
	require.ErrorContains(t, err, "execution reverted")
}

func TestCallBatchEmptyResponse(t *testing.T) {
	server := rpcTestServer(t, func(string, []json.RawMessage) (any, *jsonrpcError) {
		return "0x", nil
	})

	client := NewClient(common.NewTestLogger(t), server.URL)

	_, err := client.CallBatch(context.Background(), []string{"0x1111111111111111111111111111111111111111"})
	require.ErrorIs(t, err, common.ErrEmptyResponse)
}

func TestClientForReusesClientPerEndpoint(t *testing.T) {
	logger := common.NewTestLogger(t)

	first := ClientFor(logger, "http://example.invalid:1")
	second := ClientFor(logger, "http://example.invalid:1")
	other := ClientFor(logger, "http://example.invalid:2")

	require.Same(t, first, second)
	require.NotSame(t, first, other)
}

func TestPing(t *testing.T) {
	server := rpcTestServer(t, func(method string, _ []json.RawMessage) (any, *jsonrpcError) {
		require.Equal(t, "eth_chainId", method)

		return "0x2105", nil
	})

	client := NewClient(common.NewTestLogger(t), server.URL)

	require.NoError(t, client.Ping(context.Background(), time.Second))
}
