package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/wallet-connector-go/pkg/abis"
	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryFile = `
chains:
  - chainId: 1
    rpcUrl: https://eth.example.org
  - chainId: 17000
    rpcUrl: https://holesky.example.org
chainId: 17000
gasPriceGwei: "2.5"
weth: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
derivationPath: "m/44'/60'/0'/0/1"
contracts:
  - address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"
    abi: erc20
  - address: "0x8FD3121013A07C57F0D69646E86E7A4880B467B7"
    abiFile: swap.json
tokens:
  - address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"
    symbol: USDT
    gasLimit: 300000
privateKeySecret:
  secretName: wallet/key
  region: us-east-1
portis:
  appId: demo
  nodeUrl: https://holesky.example.org
  chainId: 17000
environment:
  userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
  globals: [imToken]
  provider:
    metaMask: true
`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func Test_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "swap.json", abis.Swap)
	path := writeFile(t, dir, "registry.yaml", registryFile)

	cfg, err := Load(path)
	require.NoError(t, err)

	t.Run("signing chain", func(t *testing.T) {
		chain, err := cfg.SigningChain()
		require.NoError(t, err)
		assert.Equal(t, uint64(17000), chain.ChainID)
	})

	t.Run("abi registry", func(t *testing.T) {
		registry, err := cfg.ABIRegistry()
		require.NoError(t, err)

		erc20, ok := registry.ABIFor(common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"))
		require.True(t, ok)
		assert.Contains(t, erc20.Methods, "approve")

		swap, ok := registry.ABIFor(common.HexToAddress("0x8FD3121013A07C57F0D69646E86E7A4880B467B7"))
		require.True(t, ok)
		assert.Contains(t, swap.Methods, "fill")
	})

	t.Run("tokens and decoder policy", func(t *testing.T) {
		limit, ok := cfg.TokenTable().GasLimitFor(common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"))
		assert.True(t, ok)
		assert.Equal(t, uint64(300000), limit)

		dc := cfg.DecoderConfig()
		assert.Equal(t, []common.Address{common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")}, dc.BaseTokens)
	})

	t.Run("environment", func(t *testing.T) {
		env := cfg.StaticEnvironment()
		require.NotNil(t, env)
		flags, ok := env.Web3Provider()
		assert.True(t, ok)
		assert.True(t, flags.IsMetaMask)
		assert.True(t, env.IsMobile())
		assert.True(t, env.HasGlobal("imToken"))
	})

	assert.Equal(t, "demo", cfg.Portis.AppID)
	assert.Equal(t, "wallet/key", cfg.PrivateKeySecret.SecretName)
	assert.Nil(t, cfg.KMS)
}

func Test_Load_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad yaml", "chains: ["},
		{"bad contract address", "contracts:\n  - address: nope\n    abi: erc20\n"},
		{"contract without abi", "contracts:\n  - address: \"0xdAC17F958D2ee523a2206206994597C13D831ec7\"\n"},
		{"chain without url", "chains:\n  - chainId: 1\n"},
		{"bad gas price", "gasPriceGwei: \"-1\"\n"},
		{"incomplete portis", "portis:\n  appId: demo\n"},
		{"secret without region", "privateKeySecret:\n  secretName: wallet/key\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "registry.yaml", tt.contents)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.StaticEnvironment())

	_, err := cfg.SigningChain()
	assert.Error(t, err)

	cfg.Chains = []chainManager.ChainConfig{{ChainID: 1, RPCUrl: "http://localhost:8545"}}
	cfg.ChainID = 5
	_, err = cfg.SigningChain()
	assert.ErrorIs(t, err, chainManager.ErrChainNotFound)

	registry, err := cfg.ABIRegistry()
	require.NoError(t, err)
	_, ok := registry.ABIFor(common.Address{})
	assert.False(t, ok)
}

func Test_ABIRegistry_UnknownName(t *testing.T) {
	cfg := Default()
	cfg.Contracts = []Contract{{Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", ABI: "erc721"}}
	_, err := cfg.ABIRegistry()
	assert.ErrorContains(t, err, "unknown built-in abi")
}
