package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/wallet-connector-go/pkg/abis"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

func Test_parseChain(t *testing.T) {
	chain, err := parseChain("17000:https://ethereum-holesky-rpc.publicnode.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(17000), chain.ChainID)
	assert.Equal(t, "https://ethereum-holesky-rpc.publicnode.com", chain.RPCUrl)

	for _, bad := range []string{"17000", "abc:http://localhost", "0:http://localhost"} {
		_, err := parseChain(bad)
		assert.Error(t, err, bad)
	}
}

func Test_parseCall(t *testing.T) {
	call, err := parseCall("0xdAC17F958D2ee523a2206206994597C13D831ec7", "0x095ea7b3")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), call.Target)
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, call.Payload)

	_, err = parseCall("nope", "0x")
	assert.Error(t, err)
	_, err = parseCall("0xdAC17F958D2ee523a2206206994597C13D831ec7", "zz")
	assert.Error(t, err)
}

func Test_validateFlags(t *testing.T) {
	run := func(args ...string) error {
		app := newApp()
		app.Commands = []*cli.Command{{Name: "noop", Action: func(*cli.Context) error { return nil }}}
		return app.Run(append(append([]string{"walletctl"}, args...), "noop"))
	}

	assert.NoError(t, run("--chains", "1:http://localhost:8545", "--gas-price-gwei", "1.5"))
	assert.Error(t, run("--chains", "localhost"))
	assert.Error(t, run("--gas-price-gwei", "-2"))
	assert.Error(t, run("--timeout", "0s"))
}

func Test_decodeAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
contracts:
  - address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"
    abi: erc20
`), 0o600))

	erc20, err := abis.ByName(abis.NameERC20)
	require.NoError(t, err)
	data, err := erc20.Pack("approve", common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), common.Big1)
	require.NoError(t, err)

	app := newApp()
	err = app.Run([]string{"walletctl", "--config", path, "decode",
		"--to", "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		"--data", hexutil.Encode(data),
	})
	assert.NoError(t, err)

	err = newApp().Run([]string{"walletctl", "--config", path, "decode",
		"--to", "0x8FD3121013A07C57F0D69646E86E7A4880B467B7",
		"--data", hexutil.Encode(data),
	})
	assert.Error(t, err)
}
