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

// EmbeddedLogin opens an embedded-login wallet session and resolves once the user has logged in.
type EmbeddedLogin interface {
	Login(ctx context.Context) (provider.InjectedProvider, error)
}

type PortisConfig struct {
	AppID   string `yaml:"appId" validate:"required"`
	NodeURL string `yaml:"nodeUrl" validate:"required,url"`
	ChainID uint64 `yaml:"chainId" validate:"required"`
}

// PortisConnector connects an embedded-login wallet.
type PortisConnector struct {
	config *PortisConfig
	login  EmbeddedLogin
	logger *zap.Logger
}

func NewPortisConnector(cfg *PortisConfig, login EmbeddedLogin, logger *zap.Logger) *PortisConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortisConnector{config: cfg, login: login, logger: logger}
}

func (c *PortisConnector) Kind() wallet.Kind { return wallet.KindPortis }

func (c *PortisConnector) Handshake(ctx context.Context) (wallet.Signer, error) {
	if c.config == nil || c.config.AppID == "" || c.config.NodeURL == "" || c.login == nil {
		return nil, errors.New("portis is not configured")
	}
	p, err := c.login.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("portis login failed: %w", err)
	}
	closeSession := func() {
		if closer, ok := p.(interface{ Close() }); ok {
			closer.Close()
		}
	}

	if c.config.ChainID != 0 {
		id, err := p.ChainID(ctx)
		if err != nil {
			closeSession()
			return nil, fmt.Errorf("failed to query portis chain id: %w", err)
		}
		if !id.IsUint64() || id.Uint64() != c.config.ChainID {
			closeSession()
			return nil, fmt.Errorf("portis is on chain %s, expected %d", id.String(), c.config.ChainID)
		}
	}

	accounts, err := p.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = errors.New("portis did not expose any account")
	}
	if err != nil {
		closeSession()
		return nil, err
	}
	return txSigner.NewRPCSigner(p, accounts[0], c.logger).WithCloser(closeSession), nil
}

// DialLogin logs in by dialing the embedded wallet's JSON-RPC node.
type DialLogin struct {
	URL    string
	Logger *zap.Logger
}

func (d *DialLogin) Login(ctx context.Context) (provider.InjectedProvider, error) {
	p, err := provider.Dial(ctx, d.URL, d.Logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
