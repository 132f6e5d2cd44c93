package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "alfajores", cfg.Network.Name)
	assert.Equal(t, int64(44787), cfg.Network.ChainID)
	assert.Equal(t, "https://alfajores-forno.celo-testnet.org", cfg.Network.Endpoint)
	assert.Equal(t, "CELO", cfg.Network.NativeSymbol)
	assert.Equal(t, uint8(18), cfg.Network.NativeDecimals)
	assert.Equal(t, uint64(21000), cfg.Network.GasLimitNative)
	assert.Equal(t, uint64(100000), cfg.Network.GasLimitToken)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
	assert.Equal(t, "usd", cfg.CoinGecko.VsCurrency)
	assert.Equal(t, int64(10000), cfg.CoinGecko.RequestTimeoutMillis)
	assert.Equal(t, 10, cfg.Performance.MaxConcurrentRoutines)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_ExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9999"
network:
  name: sepolia
  chainID: 11155111
  endpoint: http://localhost:8545
coinGecko:
  vsCurrency: eur
performance:
  maxConcurrentRoutines: 3
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "sepolia", cfg.Network.Name)
	assert.Equal(t, int64(11155111), cfg.Network.ChainID)
	assert.Equal(t, "http://localhost:8545", cfg.Network.Endpoint)
	assert.Equal(t, "eur", cfg.CoinGecko.VsCurrency)
	assert.Equal(t, 3, cfg.Performance.MaxConcurrentRoutines)
}

func TestLoadConfig_PrivateKeyFromEnv(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "0xabc123")
	path := writeConfig(t, "wallet:\n  privateKey: file-key\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", cfg.Wallet.PrivateKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
}
