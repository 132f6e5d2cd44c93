package service

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Sagexd08/celo-automator/internal/config"
	"github.com/Sagexd08/celo-automator/internal/entity"
	"github.com/Sagexd08/celo-automator/internal/port"
	"github.com/Sagexd08/celo-automator/internal/registry"
	"github.com/Sagexd08/celo-automator/internal/utils"
	"github.com/Sagexd08/celo-automator/pkg/blockchain"
)

// tokenReaderServiceImpl implements the TokenReaderService interface.
//
// Two error policies coexist here on purpose: the balance, price, batch,
// native-listing and token-info paths swallow failures into zero/absent
// values, while metadata-only reads, supply reads and transfers propagate
// them. The consuming UI relies on the balance path never failing a render.
type tokenReaderServiceImpl struct {
	chain       port.ChainClient
	priceFeed   port.PriceFeed
	cfg         *config.Config
	logger      *zap.Logger
	maxRoutines int
}

// NewTokenReaderService creates a new instance of TokenReaderService.
func NewTokenReaderService(
	chain port.ChainClient,
	priceFeed port.PriceFeed,
	cfg *config.Config,
	logger *zap.Logger,
) port.TokenReaderService {
	return &tokenReaderServiceImpl{
		chain:       chain,
		priceFeed:   priceFeed,
		cfg:         cfg,
		logger:      logger.Named("TokenReaderService"),
		maxRoutines: cfg.Performance.MaxConcurrentRoutines,
	}
}

// orDefault substitutes def when a per-field read failed, logging which
// field and token the substitution happened for.
func orDefault[T any](logger *zap.Logger, token, field string, value T, err error, def T) T {
	if err != nil {
		logger.Warn("Token field read failed, using default",
			zap.String("token", token),
			zap.String("field", field),
			zap.Error(err))
		return def
	}
	return value
}

// GetTokenMetadata fetches symbol, name and decimals concurrently, each
// field falling back to its default independently. The call itself fails
// only for an invalid address, a missing contract or a provider error.
func (s *tokenReaderServiceImpl) GetTokenMetadata(ctx context.Context, token string) (*entity.TokenMetadata, error) {
	if !blockchain.IsValidAddress(token) {
		return nil, fmt.Errorf("invalid token address %q", token)
	}

	code, err := s.chain.CodeAt(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to probe contract code at %s: %w", token, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no contract deployed at %s", token)
	}

	meta := &entity.TokenMetadata{Address: token}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		symbol, symbolErr := s.chain.TokenSymbol(gctx, token)
		meta.Symbol = orDefault(s.logger, token, "symbol", symbol, symbolErr, entity.UnknownSymbol)
		return nil
	})
	g.Go(func() error {
		name, nameErr := s.chain.TokenName(gctx, token)
		meta.Name = orDefault(s.logger, token, "name", name, nameErr, entity.UnknownName)
		return nil
	})
	g.Go(func() error {
		decimals, decimalsErr := s.chain.TokenDecimals(gctx, token)
		meta.Decimals = orDefault(s.logger, token, "decimals", decimals, decimalsErr, entity.DefaultDecimals)
		return nil
	})
	_ = g.Wait()

	return meta, nil
}

// GetTokenBalance fetches balanceOf and decimals concurrently, each
// defaulting independently, and formats the scaled decimal string.
// Every failure path collapses to "0"; this method never errors.
func (s *tokenReaderServiceImpl) GetTokenBalance(ctx context.Context, token, wallet string) string {
	if !blockchain.IsValidAddress(token) || !blockchain.IsValidAddress(wallet) {
		s.logger.Warn("Invalid address on balance path, returning zero balance",
			zap.String("token", token),
			zap.String("wallet", wallet))
		return "0"
	}

	code, err := s.chain.CodeAt(ctx, token)
	if err != nil || len(code) == 0 {
		s.logger.Warn("Contract probe failed or no code deployed, returning zero balance",
			zap.String("token", token),
			zap.Error(err))
		return "0"
	}

	var (
		raw      *big.Int
		decimals uint8
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance, balanceErr := s.chain.TokenBalanceOf(gctx, token, wallet)
		raw = orDefault(s.logger, token, "balanceOf", balance, balanceErr, big.NewInt(0))
		return nil
	})
	g.Go(func() error {
		d, decimalsErr := s.chain.TokenDecimals(gctx, token)
		decimals = orDefault(s.logger, token, "decimals", d, decimalsErr, entity.DefaultDecimals)
		return nil
	})
	_ = g.Wait()

	formatted, err := utils.FormatBigInt(raw, decimals)
	if err != nil {
		s.logger.Warn("Failed to format balance, returning zero balance",
			zap.String("token", token),
			zap.String("wallet", wallet),
			zap.Error(err))
		return "0"
	}
	return formatted
}

// GetTokenPrice looks the symbol up on the price feed, keyed by its
// lower-cased form. Returns nil when the feed has no entry or the call
// fails; this method never errors.
func (s *tokenReaderServiceImpl) GetTokenPrice(ctx context.Context, symbol string) *float64 {
	id := strings.ToLower(symbol)
	price, found, err := s.priceFeed.QueryUSDPrice(ctx, id)
	if err != nil {
		s.logger.Warn("Price lookup failed",
			zap.String("symbol", symbol),
			zap.String("id", id),
			zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	return &price
}

// GetWalletTokens aggregates metadata, balance and price for each valid
// token address. Balances and metadata are fetched as two independent
// parallel batches and joined by input index; tokens whose metadata fetch
// failed are skipped entirely. Prices are looked up sequentially.
func (s *tokenReaderServiceImpl) GetWalletTokens(ctx context.Context, tokens []string, wallet string) ([]entity.Token, error) {
	valid := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !blockchain.IsValidAddress(token) {
			s.logger.Warn("Dropping syntactically invalid token address", zap.String("token", token))
			continue
		}
		valid = append(valid, token)
	}
	if len(valid) == 0 {
		return []entity.Token{}, nil
	}

	balances := make([]string, len(valid))
	metas := make([]*entity.TokenMetadata, len(valid))

	batches, batchCtx := errgroup.WithContext(ctx)
	batches.Go(func() error {
		g, gctx := errgroup.WithContext(batchCtx)
		g.SetLimit(s.maxRoutines)
		for i, token := range valid {
			i, token := i, token
			g.Go(func() error {
				balances[i] = s.GetTokenBalance(gctx, token, wallet)
				return nil
			})
		}
		return g.Wait()
	})
	batches.Go(func() error {
		g, gctx := errgroup.WithContext(batchCtx)
		g.SetLimit(s.maxRoutines)
		for i, token := range valid {
			i, token := i, token
			g.Go(func() error {
				meta, err := s.GetTokenMetadata(gctx, token)
				if err != nil {
					s.logger.Warn("Metadata fetch failed for token in batch",
						zap.String("token", token),
						zap.Error(err))
					metas[i] = nil
					return nil
				}
				metas[i] = meta
				return nil
			})
		}
		return g.Wait()
	})
	_ = batches.Wait()

	result := make([]entity.Token, 0, len(valid))
	for i, token := range valid {
		meta := metas[i]
		if meta == nil {
			// Balance may have succeeded, but without metadata the entry
			// cannot be rendered; skip the token.
			continue
		}

		item := entity.Token{
			Address:  meta.Address,
			Symbol:   meta.Symbol,
			Name:     meta.Name,
			Decimals: meta.Decimals,
			Balance:  balances[i],
		}
		if price := s.GetTokenPrice(ctx, meta.Symbol); price != nil {
			balance, err := strconv.ParseFloat(balances[i], 64)
			if err != nil {
				s.logger.Warn("Dropping token, failed to compute value",
					zap.String("token", token),
					zap.String("balance", balances[i]),
					zap.Error(err))
				continue
			}
			value := balance * *price
			item.Price = price
			item.Value = &value
		}
		result = append(result, item)
	}
	return result, nil
}

// GetNativeBalance fetches the native coin balance via the account query
// and formats it with native-unit scaling. Balance-path policy: every
// failure collapses to "0".
func (s *tokenReaderServiceImpl) GetNativeBalance(ctx context.Context, wallet string) string {
	if !blockchain.IsValidAddress(wallet) {
		s.logger.Warn("Invalid wallet address on native balance path, returning zero balance",
			zap.String("wallet", wallet))
		return "0"
	}

	raw, err := s.chain.NativeBalance(ctx, wallet)
	if err != nil {
		s.logger.Warn("Native balance fetch failed, returning zero balance",
			zap.String("wallet", wallet),
			zap.Error(err))
		return "0"
	}

	formatted, err := utils.FormatBigInt(raw, s.cfg.Network.NativeDecimals)
	if err != nil {
		s.logger.Warn("Failed to format native balance, returning zero balance",
			zap.String("wallet", wallet),
			zap.Error(err))
		return "0"
	}
	return formatted
}

// GetAllTokens lists the well-known tokens plus a synthetic zero-address
// entry for the native coin, filtered to strictly positive balances.
func (s *tokenReaderServiceImpl) GetAllTokens(ctx context.Context, wallet string) ([]entity.Token, error) {
	tokens, err := s.GetWalletTokens(ctx, registry.CommonTokenAddresses(), wallet)
	if err != nil {
		return nil, err
	}

	native := registry.NativeToken()
	nativeEntry := entity.Token{
		Address:  native.Address,
		Symbol:   native.Symbol,
		Name:     native.Name,
		Decimals: native.Decimals,
		Balance:  s.GetNativeBalance(ctx, wallet),
	}
	if price := s.GetTokenPrice(ctx, native.Symbol); price != nil {
		if balance, parseErr := strconv.ParseFloat(nativeEntry.Balance, 64); parseErr == nil {
			value := balance * *price
			nativeEntry.Price = price
			nativeEntry.Value = &value
		}
	}

	combined := append([]entity.Token{nativeEntry}, tokens...)
	positive := make([]entity.Token, 0, len(combined))
	for _, item := range combined {
		balance, parseErr := strconv.ParseFloat(item.Balance, 64)
		if parseErr != nil || balance <= 0 {
			continue
		}
		positive = append(positive, item)
	}
	return positive, nil
}

// GetTokenInfo fetches metadata and balance in parallel, then the price
// sequentially. Returns nil instead of an error when any step fails.
func (s *tokenReaderServiceImpl) GetTokenInfo(ctx context.Context, token, wallet string) *entity.Token {
	var (
		meta    *entity.TokenMetadata
		balance string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.GetTokenMetadata(gctx, token)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		balance = s.GetTokenBalance(gctx, token, wallet)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Token info unavailable",
			zap.String("token", token),
			zap.String("wallet", wallet),
			zap.Error(err))
		return nil
	}

	item := &entity.Token{
		Address:  meta.Address,
		Symbol:   meta.Symbol,
		Name:     meta.Name,
		Decimals: meta.Decimals,
		Balance:  balance,
	}
	if price := s.GetTokenPrice(ctx, meta.Symbol); price != nil {
		if parsed, parseErr := strconv.ParseFloat(balance, 64); parseErr == nil {
			value := parsed * *price
			item.Price = price
			item.Value = &value
		}
	}
	return item
}

// GetTokenSupply reads totalSupply formatted by the token's decimals.
// Metadata-style policy: errors propagate.
func (s *tokenReaderServiceImpl) GetTokenSupply(ctx context.Context, token string) (string, error) {
	if !blockchain.IsValidAddress(token) {
		return "", fmt.Errorf("invalid token address %q", token)
	}

	code, err := s.chain.CodeAt(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to probe contract code at %s: %w", token, err)
	}
	if len(code) == 0 {
		return "", fmt.Errorf("no contract deployed at %s", token)
	}

	var (
		supply    *big.Int
		decimals  uint8
		supplyErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		supply, supplyErr = s.chain.TokenTotalSupply(gctx, token)
		return nil
	})
	g.Go(func() error {
		d, decimalsErr := s.chain.TokenDecimals(gctx, token)
		decimals = orDefault(s.logger, token, "decimals", d, decimalsErr, entity.DefaultDecimals)
		return nil
	})
	_ = g.Wait()

	if supplyErr != nil {
		return "", fmt.Errorf("failed to fetch total supply for %s: %w", token, supplyErr)
	}
	formatted, err := utils.FormatBigInt(supply, decimals)
	if err != nil {
		return "", fmt.Errorf("failed to format total supply for %s: %w", token, err)
	}
	return formatted, nil
}

// Transfer dispatches a native value transfer for the zero-address
// sentinel, or an ERC20 transfer call otherwise. Returns the submitted
// transaction hash without waiting for confirmation; all failures
// propagate to the caller.
func (s *tokenReaderServiceImpl) Transfer(ctx context.Context, token, to, amount string) (string, error) {
	if !blockchain.IsValidAddress(to) {
		return "", fmt.Errorf("invalid recipient address %q", to)
	}

	if strings.EqualFold(token, entity.ZeroAddress) {
		amountWei, err := utils.ParseAmount(amount, s.cfg.Network.NativeDecimals)
		if err != nil {
			return "", err
		}
		return s.chain.SendNative(ctx, to, amountWei)
	}

	if !blockchain.IsValidAddress(token) {
		return "", fmt.Errorf("invalid token address %q", token)
	}
	// Resolve decimals fresh; transfer amounts must scale by the live value.
	decimals, err := s.chain.TokenDecimals(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to resolve decimals for %s: %w", token, err)
	}
	raw, err := utils.ParseAmount(amount, decimals)
	if err != nil {
		return "", err
	}
	return s.chain.SendToken(ctx, token, to, raw)
}
