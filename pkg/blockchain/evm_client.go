// Package blockchain wraps go-ethereum's client with the minimal ERC20
// surface the token reader needs: bytecode probing, balance and metadata
// reads, and transfer submission through a configured signing key.
package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Sagexd08/celo-automator/internal/config"
	"github.com/Sagexd08/celo-automator/pkg/metrics"
)

// Minimal ERC20 ABI covering the read and transfer methods used here.
const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// Critical error during initialization, panic is appropriate.
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// IsValidAddress reports whether s is a syntactically well-formed hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// EVMClient is the process-wide chain client handle. It is safe for
// concurrent use; all RPC calls share one rate limiter and one timeout.
type EVMClient struct {
	ethClient      *ethclient.Client
	chainID        *big.Int
	callTimeout    time.Duration
	limiter        *rate.Limiter
	gasLimitNative uint64
	gasLimitToken  uint64
	privateKey     *ecdsa.PrivateKey
	logger         *zap.Logger
}

// NewEVMClient dials the configured endpoint, falling back across the
// configured fallback endpoints, and prepares the signing key if one is set.
func NewEVMClient(cfg *config.Config, logger *zap.Logger) (*EVMClient, error) {
	initParsedERC20ABI()

	connectionTimeout := time.Duration(cfg.RpcClient.ConnectionTimeoutMs) * time.Millisecond
	rpcURLs := append([]string{cfg.Network.Endpoint}, cfg.Network.FallbackEndpoints...)

	var ethClient *ethclient.Client
	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		cancel()
		if err == nil {
			ethClient = client
			logger.Info("Connected to RPC endpoint", zap.String("url", rpcURL))
			break
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
		logger.Warn("RPC connection attempt failed", zap.String("url", rpcURL), zap.Error(err))
	}
	if ethClient == nil {
		return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", cfg.Network.Name, lastErr)
	}

	var privateKey *ecdsa.PrivateKey
	if cfg.Wallet.PrivateKey != "" {
		key := strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x")
		pk, err := crypto.HexToECDSA(key)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet private key: %w", err)
		}
		privateKey = pk
	}

	return &EVMClient{
		ethClient:      ethClient,
		chainID:        big.NewInt(cfg.Network.ChainID),
		callTimeout:    time.Duration(cfg.RpcClient.CallTimeoutMs) * time.Millisecond,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RpcClient.RateLimit), cfg.RpcClient.BurstLimit),
		gasLimitNative: cfg.Network.GasLimitNative,
		gasLimitToken:  cfg.Network.GasLimitToken,
		privateKey:     privateKey,
		logger:         logger.Named("EVMClient"),
	}, nil
}

// CodeAt probes the deployed bytecode at address on the latest block.
func (c *EVMClient) CodeAt(ctx context.Context, address string) ([]byte, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	start := time.Now()
	code, err := c.ethClient.CodeAt(callCtx, common.HexToAddress(address), nil)
	metrics.ObserveRPCCall("eth_getCode", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch code at %s: %w", address, err)
	}
	return code, nil
}

// NativeBalance fetches the account balance of wallet on the latest block.
func (c *EVMClient) NativeBalance(ctx context.Context, wallet string) (*big.Int, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	start := time.Now()
	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(wallet), nil)
	metrics.ObserveRPCCall("eth_getBalance", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch native balance for %s: %w", wallet, err)
	}
	return balance, nil
}

// TokenSymbol reads symbol() from the token contract.
func (c *EVMClient) TokenSymbol(ctx context.Context, token string) (string, error) {
	return c.callString(ctx, token, "symbol")
}

// TokenName reads name() from the token contract.
func (c *EVMClient) TokenName(ctx context.Context, token string) (string, error) {
	return c.callString(ctx, token, "name")
}

// TokenDecimals reads decimals() from the token contract.
func (c *EVMClient) TokenDecimals(ctx context.Context, token string) (uint8, error) {
	result, err := c.callContract(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	unpacked, err := parsedERC20ABI.Unpack("decimals", result)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals result for %s: %w", token, err)
	}
	if len(unpacked) == 0 {
		return 0, fmt.Errorf("decimals unpack returned no data for %s", token)
	}
	decimals, ok := unpacked[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("failed to assert decimals result to uint8 for %s, got %T", token, unpacked[0])
	}
	return decimals, nil
}

// TokenBalanceOf reads balanceOf(wallet) from the token contract. An empty
// call result is treated as a zero balance, not an error.
func (c *EVMClient) TokenBalanceOf(ctx context.Context, token, wallet string) (*big.Int, error) {
	result, err := c.callContract(ctx, token, "balanceOf", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return big.NewInt(0), nil
	}
	return c.unpackBigInt(token, "balanceOf", result)
}

// TokenTotalSupply reads totalSupply() from the token contract.
func (c *EVMClient) TokenTotalSupply(ctx context.Context, token string) (*big.Int, error) {
	result, err := c.callContract(ctx, token, "totalSupply")
	if err != nil {
		return nil, err
	}
	return c.unpackBigInt(token, "totalSupply", result)
}

func (c *EVMClient) callString(ctx context.Context, token, method string) (string, error) {
	result, err := c.callContract(ctx, token, method)
	if err != nil {
		return "", err
	}
	unpacked, err := parsedERC20ABI.Unpack(method, result)
	if err != nil {
		return "", fmt.Errorf("failed to unpack %s result for %s: %w", method, token, err)
	}
	if len(unpacked) == 0 {
		return "", fmt.Errorf("%s unpack returned no data for %s", method, token)
	}
	value, ok := unpacked[0].(string)
	if !ok {
		return "", fmt.Errorf("failed to assert %s result to string for %s, got %T", method, token, unpacked[0])
	}
	return value, nil
}

func (c *EVMClient) unpackBigInt(token, method string, result []byte) (*big.Int, error) {
	unpacked, err := parsedERC20ABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result for %s: %w", method, token, err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("%s unpack returned no data for %s", method, token)
	}
	value, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert %s result to *big.Int for %s, got %T", method, token, unpacked[0])
	}
	return value, nil
}

// callContract packs and executes a read-only eth_call against token.
func (c *EVMClient) callContract(ctx context.Context, token, method string, args ...interface{}) ([]byte, error) {
	data, err := parsedERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	contractAddr := common.HexToAddress(token)
	msg := ethereum.CallMsg{To: &contractAddr, Data: data}

	start := time.Now()
	result, err := c.ethClient.CallContract(callCtx, msg, nil)
	metrics.ObserveRPCCall("eth_call", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", method, token, err)
	}
	return result, nil
}

// acquire waits on the rate limiter and derives the per-call timeout context.
func (c *EVMClient) acquire(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	return callCtx, cancel, nil
}
