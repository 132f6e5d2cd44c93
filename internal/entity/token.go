package entity

// ZeroAddress is the sentinel contract address used for the native coin.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Fallback values substituted when an individual metadata read fails.
const (
	UnknownSymbol   = "UNKNOWN"
	UnknownName     = "Unknown Token"
	DefaultDecimals = uint8(18)
)

// TokenMetadata holds the on-chain descriptive fields of an ERC20 token.
type TokenMetadata struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// Token is the aggregated view of one holding: metadata, a formatted
// balance and, when the price feed had an entry, a USD price and value.
// It is rebuilt fresh on every call; there is no identity beyond Address.
type Token struct {
	Address  string   `json:"address"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Decimals uint8    `json:"decimals"`
	Balance  string   `json:"balance"`
	Price    *float64 `json:"price,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// TransferRequest is the payload for submitting a transfer. A zero-address
// TokenAddress means a native coin transfer.
type TransferRequest struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	To           string `json:"to" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}
