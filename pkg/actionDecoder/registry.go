package actionDecoder

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/Layr-Labs/wallet-connector-go/pkg/util"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// StaticABIRegistry is an in-memory address to ABI table, filled once at startup.
type StaticABIRegistry struct {
	mu        sync.RWMutex
	contracts map[common.Address]*abi.ABI
}

func NewStaticABIRegistry() *StaticABIRegistry {
	return &StaticABIRegistry{
		contracts: make(map[common.Address]*abi.ABI),
	}
}

// Register binds contract to address, replacing any previous binding.
func (r *StaticABIRegistry) Register(address common.Address, contract abi.ABI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[address] = &contract
}

// RegisterHex binds contract to a hex address string. The address is case-insensitive.
func (r *StaticABIRegistry) RegisterHex(address string, contract abi.ABI) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid contract address %q", address)
	}
	r.Register(common.HexToAddress(strings.ToLower(address)), contract)
	return nil
}

func (r *StaticABIRegistry) ABIFor(address common.Address) (*abi.ABI, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contract, ok := r.contracts[address]
	return contract, ok
}

// Token is an entry of the token table.
type Token struct {
	Address common.Address
	Symbol  string
	// GasLimit overrides DefaultFillGasLimit for fills of this token. Zero means no override.
	GasLimit uint64
}

// TokenTable is a read-only list of known tokens.
type TokenTable struct {
	tokens []*Token
}

func NewTokenTable(tokens []*Token) *TokenTable {
	return &TokenTable{tokens: tokens}
}

func (t *TokenTable) Lookup(address common.Address) (*Token, bool) {
	token := util.Find(t.tokens, func(tok *Token) bool {
		return tok.Address == address
	})
	return token, token != nil
}

func (t *TokenTable) GasLimitFor(address common.Address) (uint64, bool) {
	token, ok := t.Lookup(address)
	if !ok || token.GasLimit == 0 {
		return 0, false
	}
	return token.GasLimit, true
}

// GasPriceSetting holds the user-selected gas price in gwei. It is safe for concurrent use.
type GasPriceSetting struct {
	mu   sync.RWMutex
	gwei string
}

// NewGasPriceSetting creates a setting initialised to gwei.
//
// Parameters:
//   - gwei: Decimal gas price in gwei, e.g. "20" or "1.5"
//
// Returns:
//   - *GasPriceSetting: The setting
//   - error: An error if gwei is not a non-negative decimal
func NewGasPriceSetting(gwei string) (*GasPriceSetting, error) {
	s := &GasPriceSetting{}
	if err := s.Set(gwei); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GasPriceSetting) Set(gwei string) error {
	if _, err := GweiToWei(gwei); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gwei = gwei
	return nil
}

func (s *GasPriceSetting) GasPriceGwei() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gwei
}

var weiPerGwei = decimal.New(1, 9)

// GweiToWei converts a decimal gwei amount to wei. Fractions of a wei are truncated.
func GweiToWei(gwei string) (*big.Int, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(gwei))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gas price %q: %w", gwei, err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("gas price %q must not be negative", gwei)
	}
	return amount.Mul(weiPerGwei).Truncate(0).BigInt(), nil
}
