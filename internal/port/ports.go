// Package port declares the interfaces the service layer depends on,
// keeping the chain and price-feed implementations swappable in tests.
package port

import (
	"context"
	"math/big"

	"github.com/Sagexd08/celo-automator/internal/entity"
)

// ChainClient is the minimal surface of an EVM RPC client the token
// reader needs: bytecode probing, account balances, ERC20 reads and
// transfer submission.
type ChainClient interface {
	CodeAt(ctx context.Context, address string) ([]byte, error)
	NativeBalance(ctx context.Context, wallet string) (*big.Int, error)

	TokenSymbol(ctx context.Context, token string) (string, error)
	TokenName(ctx context.Context, token string) (string, error)
	TokenDecimals(ctx context.Context, token string) (uint8, error)
	TokenBalanceOf(ctx context.Context, token, wallet string) (*big.Int, error)
	TokenTotalSupply(ctx context.Context, token string) (*big.Int, error)

	// SendNative and SendToken submit a signed transaction and return its
	// hash without waiting for confirmation.
	SendNative(ctx context.Context, to string, amountWei *big.Int) (string, error)
	SendToken(ctx context.Context, token, to string, amount *big.Int) (string, error)
}

// PriceFeed provides a USD quote for a price-feed identifier.
// The found flag distinguishes "feed has no entry" from a transport error.
type PriceFeed interface {
	QueryUSDPrice(ctx context.Context, id string) (price float64, found bool, err error)
}

// TokenReaderService is the facade consumed by the HTTP handlers.
type TokenReaderService interface {
	GetTokenMetadata(ctx context.Context, token string) (*entity.TokenMetadata, error)
	GetTokenBalance(ctx context.Context, token, wallet string) string
	GetTokenPrice(ctx context.Context, symbol string) *float64
	GetWalletTokens(ctx context.Context, tokens []string, wallet string) ([]entity.Token, error)
	GetNativeBalance(ctx context.Context, wallet string) string
	GetAllTokens(ctx context.Context, wallet string) ([]entity.Token, error)
	GetTokenInfo(ctx context.Context, token, wallet string) *entity.Token
	GetTokenSupply(ctx context.Context, token string) (string, error)
	Transfer(ctx context.Context, token, to, amount string) (string, error)
}
