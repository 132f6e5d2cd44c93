package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sagexd08/celo-automator/internal/config"
	"github.com/Sagexd08/celo-automator/internal/port"
)

// RegisterTokenRoutes mounts the token reader endpoints under /api/v1.
func RegisterTokenRoutes(router *gin.Engine, svc port.TokenReaderService, cfg *config.Config, logger *zap.Logger) {
	handler := NewTokenHandler(svc, cfg, logger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/wallets/:address/tokens", handler.GetAllTokensHandler)
		apiV1.GET("/wallets/:address/tokens/:token", handler.GetTokenInfoHandler)
		apiV1.GET("/wallets/:address/native", handler.GetNativeBalanceHandler)

		apiV1.GET("/tokens/:token/metadata", handler.GetTokenMetadataHandler)
		apiV1.GET("/tokens/:token/supply", handler.GetTokenSupplyHandler)

		apiV1.POST("/transfers", handler.CreateTransferHandler)
	}
}
