package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sagexd08/celo-automator/internal/config"
	"github.com/Sagexd08/celo-automator/internal/entity"
	"github.com/Sagexd08/celo-automator/internal/port"
)

// TokenHandler handles HTTP requests for token balances and transfers.
type TokenHandler struct {
	svc    port.TokenReaderService
	cfg    *config.Config
	logger *zap.Logger
}

// NewTokenHandler creates a new instance of TokenHandler.
func NewTokenHandler(svc port.TokenReaderService, cfg *config.Config, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		svc:    svc,
		cfg:    cfg,
		logger: logger.Named("TokenHandler"),
	}
}

// GetAllTokensHandler returns the wallet's holdings across the well-known
// token set plus the native coin, filtered to positive balances.
func (h *TokenHandler) GetAllTokensHandler(c *gin.Context) {
	wallet := c.Param("address")
	tokens, err := h.svc.GetAllTokens(c.Request.Context(), wallet)
	if err != nil {
		h.logger.Error("Failed to list tokens", zap.String("wallet", wallet), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tokens": tokens}})
}

// GetTokenInfoHandler returns a single token's metadata, balance and price.
func (h *TokenHandler) GetTokenInfoHandler(c *gin.Context) {
	wallet := c.Param("address")
	token := c.Param("token")
	info := h.svc.GetTokenInfo(c.Request.Context(), token, wallet)
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "token info unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": info}})
}

// GetNativeBalanceHandler returns the wallet's native coin balance.
func (h *TokenHandler) GetNativeBalanceHandler(c *gin.Context) {
	wallet := c.Param("address")
	balance := h.svc.GetNativeBalance(c.Request.Context(), wallet)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"symbol":  h.cfg.Network.NativeSymbol,
		"balance": balance,
	}})
}

// GetTokenMetadataHandler returns a token's on-chain metadata. Unlike the
// balance endpoints, failures here surface as errors.
func (h *TokenHandler) GetTokenMetadataHandler(c *gin.Context) {
	token := c.Param("token")
	meta, err := h.svc.GetTokenMetadata(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("Failed to fetch token metadata", zap.String("token", token), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"metadata": meta}})
}

// GetTokenSupplyHandler returns a token's formatted total supply.
func (h *TokenHandler) GetTokenSupplyHandler(c *gin.Context) {
	token := c.Param("token")
	supply, err := h.svc.GetTokenSupply(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("Failed to fetch token supply", zap.String("token", token), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"totalSupply": supply}})
}

// CreateTransferHandler submits a transfer and returns the transaction hash.
func (h *TokenHandler) CreateTransferHandler(c *gin.Context) {
	var req entity.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txHash, err := h.svc.Transfer(c.Request.Context(), req.TokenAddress, req.To, req.Amount)
	if err != nil {
		h.logger.Error("Transfer failed",
			zap.String("token", req.TokenAddress),
			zap.String("to", req.To),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"txHash": txHash}})
}
