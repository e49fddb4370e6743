package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"

	defaultNetwork        = NetworkTestnet
	defaultLocalPort      = ":8077"
	defaultRequestTimeout = 10 * time.Second
)

// per-network fullnode endpoints; package and dashboard ids have no
// sensible defaults outside testnet and must come from the environment
// for the other networks
var networkRPCUrls = map[string]string{
	NetworkDevnet:  "https://fullnode.devnet.sui.io:443",
	NetworkTestnet: "https://fullnode.testnet.sui.io:443",
	NetworkMainnet: "https://fullnode.mainnet.sui.io:443",
}

func init() {
	viper.AutomaticEnv()
}

// GetNetwork returns one of devnet, testnet, mainnet. Anything else in the
// environment falls back to testnet.
func GetNetwork() string {
	network := viper.GetString("NETWORK")
	if _, known := networkRPCUrls[network]; !known {
		return defaultNetwork
	}

	return network
}

func GetRPCUrl() string {
	if url := viper.GetString("RPC_URL"); url != "" {
		return url
	}

	return networkRPCUrls[GetNetwork()]
}

// GetPackageID returns the address of the published voting package.
func GetPackageID() string {
	return viper.GetString("PACKAGE_ID")
}

// GetDashboardID returns the id of the singleton dashboard object holding
// the surfaced proposal ids.
func GetDashboardID() string {
	return viper.GetString("DASHBOARD_ID")
}

// GetWalletKey returns the hex-encoded private key of the voting wallet,
// empty if the wallet should generate a fresh key on startup.
func GetWalletKey() string {
	return viper.GetString("WALLET_KEY")
}

// GetPort returns the HTTP listen port prepended with `:`
func GetPort() string {
	port := viper.GetString("PORT")
	if port == "" {
		return defaultLocalPort
	}

	return ":" + port
}

func GetRequestTimeout() time.Duration {
	timeout := viper.GetString("REQ_TIMEOUT")
	if timeout == "" {
		return defaultRequestTimeout
	}

	parsed, err := time.ParseDuration(timeout)
	if err != nil {
		return defaultRequestTimeout
	}

	return parsed
}
