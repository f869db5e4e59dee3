package hl

const (
	MainnetAPIURL = "https://api.hyperliquid.xyz"
	TestnetAPIURL = "https://api.hyperliquid-testnet.xyz"
)

func APIURL(mainnet bool) string {
	if mainnet {
		return MainnetAPIURL
	}
	return TestnetAPIURL
}

// ChainName is the hyperliquidChain discriminator carried inside
// user-signed actions.
func ChainName(mainnet bool) string {
	if mainnet {
		return "Mainnet"
	}
	return "Testnet"
}
