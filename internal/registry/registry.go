// Package registry holds the fixed set of well-known token contracts on
// the Alfajores testnet, plus the descriptor used for the native coin.
package registry

import "github.com/Sagexd08/celo-automator/internal/entity"

// WellKnownToken maps a display symbol to its contract address.
type WellKnownToken struct {
	Symbol  string
	Address string
}

// Alfajores well-known contracts. Order is preserved in listings.
var commonTokens = []WellKnownToken{
	{Symbol: "CELO", Address: "0xF194afDf50B03e69Bd7D057c1Aa9e10c9954E4C9"},
	{Symbol: "cUSD", Address: "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"},
	{Symbol: "cEUR", Address: "0x10c892A6EC43a53E45D0B916B4b7D383B1b78C0F"},
	{Symbol: "cREAL", Address: "0xE4D517785D091D3c54818832dB6094bcc2744545"},
}

// CommonTokens returns the well-known token set in listing order.
func CommonTokens() []WellKnownToken {
	out := make([]WellKnownToken, len(commonTokens))
	copy(out, commonTokens)
	return out
}

// CommonTokenAddresses returns just the contract addresses, in order.
func CommonTokenAddresses() []string {
	addrs := make([]string, 0, len(commonTokens))
	for _, t := range commonTokens {
		addrs = append(addrs, t.Address)
	}
	return addrs
}

// NativeToken describes the chain's base currency. It is identified by
// the zero address sentinel and is not backed by a contract.
func NativeToken() entity.TokenMetadata {
	return entity.TokenMetadata{
		Address:  entity.ZeroAddress,
		Symbol:   "CELO",
		Name:     "Celo",
		Decimals: 18,
	}
}
