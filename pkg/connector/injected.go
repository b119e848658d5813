package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/Layr-Labs/wallet-connector-go/pkg/provider"
	"github.com/Layr-Labs/wallet-connector-go/pkg/txSigner"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"go.uber.org/zap"
)

// ErrNoProvider is returned when no injected provider is present in the host.
var ErrNoProvider = errors.New("No enabled web3 found in browser")

// InjectedConnector connects a browser-style injected provider. It serves wallet.KindMetamask and
// the generic wallet.KindWeb3.
type InjectedConnector struct {
	kind     wallet.Kind
	provider provider.InjectedProvider
	logger   *zap.Logger
}

// NewInjectedConnector creates a connector for kind over p. A nil p models a host without provider.
func NewInjectedConnector(kind wallet.Kind, p provider.InjectedProvider, logger *zap.Logger) *InjectedConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InjectedConnector{kind: kind, provider: p, logger: logger}
}

func (c *InjectedConnector) Kind() wallet.Kind { return c.kind }

func (c *InjectedConnector) Handshake(ctx context.Context) (wallet.Signer, error) {
	if c.provider == nil {
		return nil, ErrNoProvider
	}
	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("account access request failed: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("wallet did not expose any account")
	}
	c.logger.Sugar().Debugw("Injected provider exposed accounts",
		zap.String("kind", c.kind.String()),
		zap.Int("count", len(accounts)),
	)
	return txSigner.NewRPCSigner(c.provider, accounts[0], c.logger), nil
}
