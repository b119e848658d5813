// Package abis holds the contract interfaces the decoder knows out of the box.
package abis

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	NameERC20 = "erc20"
	NameWETH  = "weth"
	NameSwap  = "swap"
)

const orderInputs = `[
	{"name":"makerAddress","type":"address"},
	{"name":"makerAmount","type":"uint256"},
	{"name":"makerToken","type":"address"},
	{"name":"takerAddress","type":"address"},
	{"name":"takerAmount","type":"uint256"},
	{"name":"takerToken","type":"address"},
	{"name":"expiration","type":"uint256"},
	{"name":"nonce","type":"uint256"},
	{"name":"v","type":"uint8"},
	{"name":"r","type":"bytes32"},
	{"name":"s","type":"bytes32"}
]`

// Swap is the order-filling exchange. fill is the trade-fill method the gas policy special-cases.
const Swap = `[
	{"constant":false,"inputs":` + orderInputs + `,"name":"fill","outputs":[],"payable":true,"stateMutability":"payable","type":"function"},
	{"constant":false,"inputs":` + orderInputs + `,"name":"cancel","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

const ERC20 = `[
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

const WETH = `[
	{"constant":false,"inputs":[],"name":"deposit","outputs":[],"payable":true,"stateMutability":"payable","type":"function"},
	{"constant":false,"inputs":[{"name":"wad","type":"uint256"}],"name":"withdraw","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"guy","type":"address"},{"name":"wad","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"dst","type":"address"},{"name":"wad","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

var builtin = map[string]string{
	NameERC20: ERC20,
	NameWETH:  WETH,
	NameSwap:  Swap,
}

// ByName parses one of the built-in interfaces.
func ByName(name string) (abi.ABI, error) {
	def, ok := builtin[strings.ToLower(name)]
	if !ok {
		return abi.ABI{}, fmt.Errorf("unknown built-in abi %q", name)
	}
	return Parse(def)
}

// Parse parses a JSON interface definition.
func Parse(def string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse abi: %w", err)
	}
	return parsed, nil
}
