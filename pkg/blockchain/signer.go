package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/Sagexd08/celo-automator/pkg/metrics"
)

// SendNative submits a native value transfer and returns the transaction
// hash without waiting for confirmation.
func (c *EVMClient) SendNative(ctx context.Context, to string, amountWei *big.Int) (string, error) {
	if c.privateKey == nil {
		return "", fmt.Errorf("no signing key configured")
	}

	fromAddr := crypto.PubkeyToAddress(c.privateKey.PublicKey)
	nonce, gasPrice, err := c.prepareTx(ctx, fromAddr)
	if err != nil {
		metrics.TransfersSubmittedTotal.WithLabelValues("native", "error").Inc()
		return "", err
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(to), amountWei, c.gasLimitNative, gasPrice, nil)
	hash, err := c.signAndSend(ctx, tx)
	if err != nil {
		metrics.TransfersSubmittedTotal.WithLabelValues("native", "error").Inc()
		return "", err
	}

	metrics.TransfersSubmittedTotal.WithLabelValues("native", "ok").Inc()
	c.logger.Info("Native transfer submitted",
		zap.String("from", fromAddr.Hex()),
		zap.String("to", to),
		zap.String("amountWei", amountWei.String()),
		zap.String("txHash", hash))
	return hash, nil
}

// SendToken submits an ERC20 transfer(to, amount) call and returns the
// transaction hash without waiting for confirmation.
func (c *EVMClient) SendToken(ctx context.Context, token, to string, amount *big.Int) (string, error) {
	if c.privateKey == nil {
		return "", fmt.Errorf("no signing key configured")
	}

	data, err := parsedERC20ABI.Pack("transfer", common.HexToAddress(to), amount)
	if err != nil {
		return "", fmt.Errorf("failed to pack transfer call: %w", err)
	}

	fromAddr := crypto.PubkeyToAddress(c.privateKey.PublicKey)
	nonce, gasPrice, err := c.prepareTx(ctx, fromAddr)
	if err != nil {
		metrics.TransfersSubmittedTotal.WithLabelValues("token", "error").Inc()
		return "", err
	}

	// Value is zero for an ERC20 transfer; the amount travels in calldata.
	tx := types.NewTransaction(nonce, common.HexToAddress(token), big.NewInt(0), c.gasLimitToken, gasPrice, data)
	hash, err := c.signAndSend(ctx, tx)
	if err != nil {
		metrics.TransfersSubmittedTotal.WithLabelValues("token", "error").Inc()
		return "", err
	}

	metrics.TransfersSubmittedTotal.WithLabelValues("token", "ok").Inc()
	c.logger.Info("Token transfer submitted",
		zap.String("from", fromAddr.Hex()),
		zap.String("token", token),
		zap.String("to", to),
		zap.String("amount", amount.String()),
		zap.String("txHash", hash))
	return hash, nil
}

func (c *EVMClient) prepareTx(ctx context.Context, from common.Address) (uint64, *big.Int, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer cancel()

	start := time.Now()
	nonce, err := c.ethClient.PendingNonceAt(callCtx, from)
	metrics.ObserveRPCCall("eth_getTransactionCount", time.Since(start).Seconds(), err)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
	}

	start = time.Now()
	gasPrice, err := c.ethClient.SuggestGasPrice(callCtx)
	metrics.ObserveRPCCall("eth_gasPrice", time.Since(start).Seconds(), err)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return nonce, gasPrice, nil
}

func (c *EVMClient) signAndSend(ctx context.Context, tx *types.Transaction) (string, error) {
	signer := types.NewEIP155Signer(c.chainID)
	signedTx, err := types.SignTx(tx, signer, c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	start := time.Now()
	err = c.ethClient.SendTransaction(callCtx, signedTx)
	metrics.ObserveRPCCall("eth_sendRawTransaction", time.Since(start).Seconds(), err)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx.Hash().Hex(), nil
}
