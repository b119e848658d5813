// Package config loads the optional YAML registry file of walletctl: chains, known contracts and tokens,
// the gas price setting and the per-connector settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Layr-Labs/wallet-connector-go/pkg/abis"
	"github.com/Layr-Labs/wallet-connector-go/pkg/actionDecoder"
	"github.com/Layr-Labs/wallet-connector-go/pkg/availability"
	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/connector"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultGasPriceGwei = "1"

var validate = validator.New()

// Config is the registry file. Every section is optional.
type Config struct {
	Chains []chainManager.ChainConfig `yaml:"chains" validate:"dive"`
	// ChainID selects the chain used for signing. Zero selects the first configured chain.
	ChainID uint64 `yaml:"chainId"`

	Contracts []Contract `yaml:"contracts" validate:"dive"`
	Tokens    []Token    `yaml:"tokens" validate:"dive"`

	GasPriceGwei string `yaml:"gasPriceGwei" validate:"required,numeric"`
	WETH         string `yaml:"weth" validate:"omitempty,eth_addr"`

	DerivationPath string `yaml:"derivationPath"`
	WalletRPC      string `yaml:"walletRpc" validate:"omitempty,url"`

	Portis           *connector.PortisConfig            `yaml:"portis"`
	KMS              *connector.KMSConfig               `yaml:"kms"`
	PrivateKeySecret *connector.AWSSecretsManagerConfig `yaml:"privateKeySecret"`
	Environment      *Environment                       `yaml:"environment"`

	dir string
}

// Contract binds an address to a built-in interface name or a JSON ABI file.
type Contract struct {
	Address string `yaml:"address" validate:"required,eth_addr"`
	ABI     string `yaml:"abi" validate:"required_without=ABIFile,excluded_with=ABIFile"`
	ABIFile string `yaml:"abiFile"`
}

type Token struct {
	Address  string `yaml:"address" validate:"required,eth_addr"`
	Symbol   string `yaml:"symbol" validate:"required"`
	GasLimit uint64 `yaml:"gasLimit"`
}

// Environment describes a fixed wallet environment for detection.
type Environment struct {
	Provider  *Provider `yaml:"provider"`
	Globals   []string  `yaml:"globals"`
	UserAgent string    `yaml:"userAgent"`
	Mobile    bool      `yaml:"mobile"`
}

type Provider struct {
	MetaMask        bool   `yaml:"metaMask"`
	Trust           bool   `yaml:"trust"`
	Status          bool   `yaml:"status"`
	Toshi           bool   `yaml:"toshi"`
	EQLWallet       bool   `yaml:"eqlWallet"`
	ConstructorName string `yaml:"constructorName"`
	Connected       bool   `yaml:"connected"`
}

func Default() *Config {
	return &Config{GasPriceGwei: DefaultGasPriceGwei}
}

// Load reads and validates the registry file at path. Relative ABI files are resolved against the
// directory of path.
//
// Parameters:
//   - path: Path to a YAML file
//
// Returns:
//   - *Config: The defaults overlaid with the file contents
//   - error: An error if the file cannot be read, parsed or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := actionDecoder.GweiToWei(c.GasPriceGwei); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SigningChain returns the chain selected by ChainID.
func (c *Config) SigningChain() (*chainManager.ChainConfig, error) {
	if len(c.Chains) == 0 {
		return nil, fmt.Errorf("no chains configured")
	}
	if c.ChainID == 0 {
		return &c.Chains[0], nil
	}
	for i := range c.Chains {
		if c.Chains[i].ChainID == c.ChainID {
			return &c.Chains[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", chainManager.ErrChainNotFound, c.ChainID)
}

// ABIRegistry builds the decoder's ABI registry from the contracts section.
func (c *Config) ABIRegistry() (*actionDecoder.StaticABIRegistry, error) {
	registry := actionDecoder.NewStaticABIRegistry()
	for _, contract := range c.Contracts {
		parsed, err := c.loadABI(contract)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", contract.Address, err)
		}
		if err := registry.RegisterHex(contract.Address, parsed); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (c *Config) loadABI(contract Contract) (abi.ABI, error) {
	if contract.ABI != "" {
		return abis.ByName(contract.ABI)
	}
	path := contract.ABIFile
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read abi file: %w", err)
	}
	return abis.Parse(string(data))
}

func (c *Config) TokenTable() *actionDecoder.TokenTable {
	tokens := make([]*actionDecoder.Token, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		tokens = append(tokens, &actionDecoder.Token{
			Address:  common.HexToAddress(t.Address),
			Symbol:   t.Symbol,
			GasLimit: t.GasLimit,
		})
	}
	return actionDecoder.NewTokenTable(tokens)
}

// DecoderConfig returns the decoder gas policy, with WETH as a base asset when configured.
func (c *Config) DecoderConfig() *actionDecoder.Config {
	cfg := &actionDecoder.Config{}
	if c.WETH != "" {
		cfg.BaseTokens = []common.Address{common.HexToAddress(c.WETH)}
	}
	return cfg
}

// StaticEnvironment returns the configured detection environment, or nil when none is configured.
func (c *Config) StaticEnvironment() *availability.StaticEnvironment {
	if c.Environment == nil {
		return nil
	}
	env := &availability.StaticEnvironment{
		Globals: c.Environment.Globals,
		Agent:   c.Environment.UserAgent,
		Mobile:  c.Environment.Mobile || availability.IsMobileUserAgent(c.Environment.UserAgent),
	}
	if p := c.Environment.Provider; p != nil {
		env.Provider = &availability.ProviderFlags{
			IsMetaMask:      p.MetaMask,
			IsTrust:         p.Trust,
			IsStatus:        p.Status,
			IsToshi:         p.Toshi,
			IsEQLWallet:     p.EQLWallet,
			ConstructorName: p.ConstructorName,
			Connected:       p.Connected,
		}
	}
	return env
}
