package blockchain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sagexd08/celo-automator/internal/config"
)

const (
	testTokenAddr  = "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"
	testWalletAddr = "0x000000000000000000000000000000000000dEaD"

	// Hardhat's first default account key. Test-only, holds nothing real.
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// ERC20 function selectors, first four bytes of the keccak signature hash.
const (
	selSymbol      = "0x95d89b41"
	selName        = "0x06fdde03"
	selDecimals    = "0x313ce567"
	selBalanceOf   = "0x70a08231"
	selTotalSupply = "0x18160ddd"
)

func encodeOutputs(t *testing.T, method string, values ...interface{}) string {
	t.Helper()
	initParsedERC20ABI()
	out, err := parsedERC20ABI.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(out)
}

// newRPCStub serves canned JSON-RPC responses keyed by method, with eth_call
// responses further dispatched on the four-byte selector.
func newRPCStub(t *testing.T, callResults map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_getCode":
			result = "0x6080604052"
		case "eth_getBalance":
			result = "0x1bc16d674ec80000" // 2e18
		case "eth_getTransactionCount":
			result = "0x7"
		case "eth_gasPrice":
			result = "0x3b9aca00"
		case "eth_sendRawTransaction":
			result = "0x0000000000000000000000000000000000000000000000000000000000000000"
		case "eth_call":
			var call struct {
				Data string `json:"data"`
			}
			require.NoError(t, json.Unmarshal(req.Params[0], &call))
			require.GreaterOrEqual(t, len(call.Data), 10)
			canned, ok := callResults[call.Data[:10]]
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"execution reverted"}}`, req.ID)
				return
			}
			result = canned
		default:
			t.Fatalf("unexpected RPC method %s", req.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, result)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubConfig(endpoint string) *config.Config {
	return &config.Config{
		Network: config.NetworkConfig{
			Name:           "alfajores",
			ChainID:        44787,
			Endpoint:       endpoint,
			GasLimitNative: 21000,
			GasLimitToken:  100000,
		},
		RpcClient: config.RpcClientConfig{
			ConnectionTimeoutMs: 2000,
			CallTimeoutMs:       2000,
			RateLimit:           100,
			BurstLimit:          100,
		},
	}
}

func newStubClient(t *testing.T, callResults map[string]string) *EVMClient {
	t.Helper()
	srv := newRPCStub(t, callResults)
	client, err := NewEVMClient(stubConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress(testTokenAddr))
	assert.True(t, IsValidAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("not-an-address"))
	assert.False(t, IsValidAddress("0x1234"))
}

func TestNewEVMClient_InvalidPrivateKey(t *testing.T) {
	srv := newRPCStub(t, nil)
	cfg := stubConfig(srv.URL)
	cfg.Wallet.PrivateKey = "not-a-hex-key"

	_, err := NewEVMClient(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wallet private key")
}

func TestNewEVMClient_AcceptsPrefixedKey(t *testing.T) {
	srv := newRPCStub(t, nil)
	cfg := stubConfig(srv.URL)
	cfg.Wallet.PrivateKey = "0x" + testPrivateKey

	client, err := NewEVMClient(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client.privateKey)
}

func TestCodeAt(t *testing.T) {
	client := newStubClient(t, nil)

	code, err := client.CodeAt(context.Background(), testTokenAddr)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestNativeBalance(t *testing.T) {
	client := newStubClient(t, nil)

	balance, err := client.NativeBalance(context.Background(), testWalletAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(2e18)))
}

func TestTokenMetadataReads(t *testing.T) {
	client := newStubClient(t, map[string]string{
		selSymbol:   encodeOutputs(t, "symbol", "cUSD"),
		selName:     encodeOutputs(t, "name", "Celo Dollar"),
		selDecimals: encodeOutputs(t, "decimals", uint8(18)),
	})

	symbol, err := client.TokenSymbol(context.Background(), testTokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "cUSD", symbol)

	name, err := client.TokenName(context.Background(), testTokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "Celo Dollar", name)

	decimals, err := client.TokenDecimals(context.Background(), testTokenAddr)
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)
}

func TestTokenBalanceOf(t *testing.T) {
	want := big.NewInt(1234500000000000000)
	client := newStubClient(t, map[string]string{
		selBalanceOf: encodeOutputs(t, "balanceOf", want),
	})

	balance, err := client.TokenBalanceOf(context.Background(), testTokenAddr, testWalletAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(want))
}

func TestTokenBalanceOf_EmptyResultIsZero(t *testing.T) {
	client := newStubClient(t, map[string]string{
		selBalanceOf: "0x",
	})

	balance, err := client.TokenBalanceOf(context.Background(), testTokenAddr, testWalletAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestTokenTotalSupply(t *testing.T) {
	want := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	client := newStubClient(t, map[string]string{
		selTotalSupply: encodeOutputs(t, "totalSupply", want),
	})

	supply, err := client.TokenTotalSupply(context.Background(), testTokenAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, supply.Cmp(want))
}

func TestCallContract_RevertPropagates(t *testing.T) {
	client := newStubClient(t, map[string]string{})

	_, err := client.TokenSymbol(context.Background(), testTokenAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol")
}

func TestSendToken_NoSigningKey(t *testing.T) {
	client := newStubClient(t, nil)

	_, err := client.SendToken(context.Background(), testTokenAddr, testWalletAddr, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signing key configured")
}

func TestSendNative_NoSigningKey(t *testing.T) {
	client := newStubClient(t, nil)

	_, err := client.SendNative(context.Background(), testWalletAddr, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signing key configured")
}
