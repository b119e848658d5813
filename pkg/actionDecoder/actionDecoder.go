// Package actionDecoder turns raw outbound calls into named, human-auditable actions with a gas estimate.
// A call that cannot be decoded must not be signed, so every failure here aborts the signing action.
package actionDecoder

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strings"

	"github.com/Layr-Labs/wallet-connector-go/pkg/util"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

var (
	// ErrUnknownInterface is returned when no ABI is registered for the call target.
	ErrUnknownInterface = errors.New("unknown contract interface")
	// ErrUnknownMethod is returned when the payload selector matches no method of the target's ABI.
	ErrUnknownMethod = errors.New("unknown contract method")
)

const (
	// DefaultGasLimit is applied to every method except the fill method.
	DefaultGasLimit uint64 = 160000
	// DefaultFillGasLimit is applied to fills of tokens without a gas-limit override.
	DefaultFillGasLimit uint64 = 200000
	// DefaultFillMethod is the trade-fill method name.
	DefaultFillMethod = "fill"
)

// ABIRegistry resolves the interface registered for a contract address.
type ABIRegistry interface {
	ABIFor(address common.Address) (*abi.ABI, bool)
}

// TokenRegistry resolves token-specific gas-limit overrides.
type TokenRegistry interface {
	GasLimitFor(token common.Address) (uint64, bool)
}

// GasPriceProvider exposes the current gas price setting in gwei.
type GasPriceProvider interface {
	GasPriceGwei() string
}

// Config tunes the gas policy of the decoder. Zero values select the package defaults.
type Config struct {
	FillMethod          string
	DefaultGasLimit     uint64
	DefaultFillGasLimit uint64
	// BaseTokens are the base assets of a trade (e.g. WETH). The zero address is always a base asset.
	BaseTokens []common.Address
}

// Call is a raw outbound call.
type Call struct {
	Target  common.Address
	Payload []byte
}

type Decoder struct {
	config *Config
	abis   ABIRegistry
	tokens TokenRegistry
	gas    GasPriceProvider
	logger *zap.Logger
}

// NewDecoder creates a Decoder over the given registries.
//
// Parameters:
//   - cfg: Gas policy configuration, nil selects the defaults
//   - abis: Static registry of contract interfaces
//   - tokens: Token table providing fill gas-limit overrides
//   - gas: Gas price setting
//   - logger: A zap logger
//
// Returns:
//   - *Decoder: A new decoder
func NewDecoder(cfg *Config, abis ABIRegistry, tokens TokenRegistry, gas GasPriceProvider, logger *zap.Logger) *Decoder {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.FillMethod == "" {
		c.FillMethod = DefaultFillMethod
	}
	if c.DefaultGasLimit == 0 {
		c.DefaultGasLimit = DefaultGasLimit
	}
	if c.DefaultFillGasLimit == 0 {
		c.DefaultFillGasLimit = DefaultFillGasLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{
		config: &c,
		abis:   abis,
		tokens: tokens,
		gas:    gas,
		logger: logger,
	}
}

// Decode resolves call into a DecodedAction.
//
// Parameters:
//   - call: The target address and ABI-encoded payload
//
// Returns:
//   - *wallet.DecodedAction: The decoded action with its gas estimate
//   - error: ErrUnknownInterface, ErrUnknownMethod, or an unpack/gas configuration error
func (d *Decoder) Decode(call Call) (*wallet.DecodedAction, error) {
	target := strings.ToLower(call.Target.Hex())

	contract, ok := d.abis.ABIFor(call.Target)
	if !ok {
		return nil, fmt.Errorf("%w: no abi registered for %s", ErrUnknownInterface, target)
	}
	if len(call.Payload) < 4 {
		return nil, fmt.Errorf("%w: payload for %s is shorter than a method selector", ErrUnknownMethod, target)
	}
	method, err := contract.MethodById(call.Payload[:4])
	if err != nil {
		return nil, fmt.Errorf("%w: selector %s not found on %s", ErrUnknownMethod, hexutil.Encode(call.Payload[:4]), target)
	}

	values, err := method.Inputs.Unpack(call.Payload[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to unpack arguments of %s: %w", method.RawName, err)
	}
	if len(values) != len(method.Inputs) {
		return nil, fmt.Errorf("failed to unpack arguments of %s: got %d values for %d inputs", method.RawName, len(values), len(method.Inputs))
	}

	action := &wallet.DecodedAction{
		Name: method.RawName,
		Parameters: util.Map(method.Inputs, func(arg abi.Argument, i uint64) wallet.Parameter {
			return wallet.Parameter{
				Name:    arg.Name,
				Display: displayValue(values[i]),
				Value:   values[i],
			}
		}),
		Target: call.Target,
	}

	price, err := d.gasPrice()
	if err != nil {
		return nil, err
	}
	action.EstimatedGas = wallet.GasEstimate{
		Limit: d.gasLimit(action),
		Price: price,
	}

	d.logger.Sugar().Debugw("Decoded outbound call",
		zap.String("target", target),
		zap.String("method", action.Name),
		zap.Uint64("gasLimit", action.EstimatedGas.Limit),
		zap.String("gasPrice", price.String()),
	)
	return action, nil
}

func (d *Decoder) gasLimit(action *wallet.DecodedAction) uint64 {
	if action.Name != d.config.FillMethod {
		return d.config.DefaultGasLimit
	}
	token, ok := d.fillToken(action)
	if !ok || d.tokens == nil {
		return d.config.DefaultFillGasLimit
	}
	if limit, found := d.tokens.GasLimitFor(token); found {
		return limit
	}
	return d.config.DefaultFillGasLimit
}

// fillToken picks the traded token of an order: the maker token, unless it is a base asset.
func (d *Decoder) fillToken(action *wallet.DecodedAction) (common.Address, bool) {
	maker, makerOk := addressParam(action, "makerToken")
	taker, takerOk := addressParam(action, "takerToken")
	switch {
	case makerOk && !d.isBaseToken(maker):
		return maker, true
	case takerOk:
		return taker, true
	case makerOk:
		return maker, true
	}
	return common.Address{}, false
}

func (d *Decoder) isBaseToken(token common.Address) bool {
	if token == (common.Address{}) {
		return true
	}
	return slices.Contains(d.config.BaseTokens, token)
}

func (d *Decoder) gasPrice() (*big.Int, error) {
	if d.gas == nil {
		return new(big.Int), nil
	}
	price, err := GweiToWei(d.gas.GasPriceGwei())
	if err != nil {
		return nil, fmt.Errorf("invalid gas price setting: %w", err)
	}
	return price, nil
}

func addressParam(action *wallet.DecodedAction, name string) (common.Address, bool) {
	p, ok := action.Param(name)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := p.Value.(common.Address)
	return addr, ok
}

// displayValue renders an unpacked ABI value for display. The result is lowercase and lossy.
func displayValue(v any) string {
	var s string
	switch val := v.(type) {
	case []byte:
		s = hexutil.Encode(val)
	case fmt.Stringer:
		s = val.String()
	default:
		if b, ok := fixedBytes(val); ok {
			s = hexutil.Encode(b)
		} else {
			s = fmt.Sprint(val)
		}
	}
	return strings.ToLower(s)
}

// fixedBytes copies a bytesN value, which the ABI unpacks into a [N]byte array.
func fixedBytes(v any) ([]byte, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	b := make([]byte, rv.Len())
	for i := range b {
		b[i] = byte(rv.Index(i).Uint())
	}
	return b, true
}
