package connector

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/txSigner"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/usbwallet"
	"go.uber.org/zap"
)

// DerivationSource yields the HD derivation path of the account to connect.
type DerivationSource interface {
	DerivationPath(ctx context.Context, kind wallet.Kind) (accounts.DerivationPath, error)
}

// TransportOpener opens a device session and derives the account at path.
type TransportOpener interface {
	Open(ctx context.Context, kind wallet.Kind, path accounts.DerivationPath) (accounts.Wallet, accounts.Account, error)
}

// HardwareConnector connects a hardware wallet in two steps: resolve the derivation path, then open
// the device transport bound to it. No signer exists until both steps have succeeded.
type HardwareConnector struct {
	kind      wallet.Kind
	paths     DerivationSource
	transport TransportOpener
	client    chainManager.EthClientInterface
	logger    *zap.Logger
}

func NewHardwareConnector(
	kind wallet.Kind,
	paths DerivationSource,
	transport TransportOpener,
	client chainManager.EthClientInterface,
	logger *zap.Logger,
) *HardwareConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HardwareConnector{
		kind:      kind,
		paths:     paths,
		transport: transport,
		client:    client,
		logger:    logger,
	}
}

func (c *HardwareConnector) Kind() wallet.Kind { return c.kind }

func (c *HardwareConnector) Handshake(ctx context.Context) (wallet.Signer, error) {
	path, err := c.paths.DerivationPath(ctx, c.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve derivation path: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	device, account, err := c.transport.Open(ctx, c.kind, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s transport at %s: %w", c.kind, path.String(), err)
	}
	if err := ctx.Err(); err != nil {
		_ = device.Close()
		return nil, err
	}

	c.logger.Sugar().Infow("Hardware wallet opened",
		zap.String("kind", c.kind.String()),
		zap.String("path", path.String()),
		zap.String("address", account.Address.Hex()),
	)
	return txSigner.NewChainSigner(txSigner.NewHardwareSigner(device, account), c.client, c.logger), nil
}

// StaticDerivation always yields the same path.
type StaticDerivation struct {
	Path accounts.DerivationPath
}

// NewStaticDerivation parses path, e.g. "m/44'/60'/0'/0/0". An empty path selects the default
// Ethereum base path.
func NewStaticDerivation(path string) (*StaticDerivation, error) {
	if path == "" {
		return &StaticDerivation{Path: accounts.DefaultBaseDerivationPath}, nil
	}
	parsed, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path %q: %w", path, err)
	}
	return &StaticDerivation{Path: parsed}, nil
}

func (s *StaticDerivation) DerivationPath(ctx context.Context, _ wallet.Kind) (accounts.DerivationPath, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Path, nil
}

// USBTransport opens Ledger and Trezor devices through go-ethereum's usbwallet hubs.
type USBTransport struct {
	logger *zap.Logger
}

func NewUSBTransport(logger *zap.Logger) *USBTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &USBTransport{logger: logger}
}

func (u *USBTransport) Open(ctx context.Context, kind wallet.Kind, path accounts.DerivationPath) (accounts.Wallet, accounts.Account, error) {
	var (
		hub *usbwallet.Hub
		err error
	)
	switch kind {
	case wallet.KindLedger:
		hub, err = usbwallet.NewLedgerHub()
	case wallet.KindTrezor:
		hub, err = usbwallet.NewTrezorHubWithHID()
	default:
		return nil, accounts.Account{}, fmt.Errorf("%s is not a hardware wallet", kind)
	}
	if err != nil {
		return nil, accounts.Account{}, fmt.Errorf("failed to start %s hub: %w", kind, err)
	}

	devices := hub.Wallets()
	if len(devices) == 0 {
		return nil, accounts.Account{}, fmt.Errorf("no %s device found", kind)
	}
	device := devices[0]
	if err := device.Open(""); err != nil {
		return nil, accounts.Account{}, fmt.Errorf("failed to open %s: %w", device.URL().String(), err)
	}
	if err := ctx.Err(); err != nil {
		_ = device.Close()
		return nil, accounts.Account{}, err
	}

	account, err := device.Derive(path, true)
	if err != nil {
		_ = device.Close()
		return nil, accounts.Account{}, fmt.Errorf("failed to derive account: %w", err)
	}
	u.logger.Sugar().Debugw("Derived hardware account",
		zap.String("device", device.URL().String()),
		zap.String("address", account.Address.Hex()),
	)
	return device, account, nil
}
