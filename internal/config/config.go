package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Network     NetworkConfig     `yaml:"network"`
	CoinGecko   CoinGeckoConfig   `yaml:"coinGecko"`
	Wallet      WalletConfig      `yaml:"wallet"`
	RpcClient   RpcClientConfig   `yaml:"rpcClient"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NetworkConfig holds the configuration for the target chain.
type NetworkConfig struct {
	Name              string   `yaml:"name"`
	ChainID           int64    `yaml:"chainID"`
	Endpoint          string   `yaml:"endpoint"`
	FallbackEndpoints []string `yaml:"fallbackEndpoints"`
	NativeSymbol      string   `yaml:"nativeSymbol"`
	NativeDecimals    uint8    `yaml:"nativeDecimals"`
	GasLimitNative    uint64   `yaml:"gasLimitNative"`
	GasLimitToken     uint64   `yaml:"gasLimitToken"`
}

// CoinGeckoConfig holds the configuration for the CoinGecko price feed.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	VsCurrency           string `yaml:"vsCurrency"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// WalletConfig holds the signing key configuration. The private key is
// normally injected through the WALLET_PRIVATE_KEY environment variable;
// the yaml field exists for local development only.
type WalletConfig struct {
	PrivateKey string `yaml:"privateKey"`
}

// RpcClientConfig holds configuration for the chain RPC client.
type RpcClientConfig struct {
	ConnectionTimeoutMs int64 `yaml:"connectionTimeoutMs"`
	CallTimeoutMs       int64 `yaml:"callTimeoutMs"`
	RateLimit           int   `yaml:"rateLimit"`
	BurstLimit          int   `yaml:"burstLimit"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// PerformanceConfig holds concurrency limits.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"maxConcurrentRoutines"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}

	if cfg.Network.Endpoint == "" {
		cfg.Network.Endpoint = "https://alfajores-forno.celo-testnet.org"
		logrus.Infof("Network.Endpoint not set, defaulting to %s", cfg.Network.Endpoint)
	}
	if cfg.Network.Name == "" {
		cfg.Network.Name = "alfajores"
	}
	if cfg.Network.ChainID == 0 {
		cfg.Network.ChainID = 44787 // Alfajores
	}
	if cfg.Network.NativeSymbol == "" {
		cfg.Network.NativeSymbol = "CELO"
	}
	if cfg.Network.NativeDecimals == 0 {
		cfg.Network.NativeDecimals = 18
	}
	if cfg.Network.GasLimitNative == 0 {
		cfg.Network.GasLimitNative = 21000
	}
	if cfg.Network.GasLimitToken == 0 {
		cfg.Network.GasLimitToken = 100000
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
		logrus.Infof("CoinGecko.RequestTimeoutMillis not set, defaulting to %d ms", cfg.CoinGecko.RequestTimeoutMillis)
	}

	if key := os.Getenv("WALLET_PRIVATE_KEY"); key != "" {
		cfg.Wallet.PrivateKey = key
	}

	if cfg.RpcClient.ConnectionTimeoutMs == 0 {
		cfg.RpcClient.ConnectionTimeoutMs = 10000
	}
	if cfg.RpcClient.CallTimeoutMs == 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 50
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 100
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
