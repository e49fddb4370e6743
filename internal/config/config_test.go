package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	viper.Set("REQ_TIMEOUT", "")
	timeout := GetRequestTimeout()
	assert.Equal(t, timeout, defaultRequestTimeout)

	viper.Set("REQ_TIMEOUT", "14s")
	timeout = GetRequestTimeout()
	assert.Equal(t, timeout, 14*time.Second)

	viper.Set("REQ_TIMEOUT", "")
}

func TestNetworkFallback(t *testing.T) {
	viper.Set("NETWORK", "")
	assert.Equal(t, NetworkTestnet, GetNetwork())

	viper.Set("NETWORK", "chaosnet")
	assert.Equal(t, NetworkTestnet, GetNetwork())

	viper.Set("NETWORK", "mainnet")
	assert.Equal(t, NetworkMainnet, GetNetwork())

	viper.Set("NETWORK", "")
}

func TestRPCUrlFollowsNetwork(t *testing.T) {
	viper.Set("RPC_URL", "")

	viper.Set("NETWORK", "devnet")
	assert.Equal(t, networkRPCUrls[NetworkDevnet], GetRPCUrl())

	viper.Set("RPC_URL", "http://localhost:9000")
	assert.Equal(t, "http://localhost:9000", GetRPCUrl())

	viper.Set("RPC_URL", "")
	viper.Set("NETWORK", "")
}

func TestPort(t *testing.T) {
	viper.Set("PORT", "")
	assert.Equal(t, defaultLocalPort, GetPort())

	viper.Set("PORT", "9001")
	assert.Equal(t, ":9001", GetPort())

	viper.Set("PORT", "")
}
