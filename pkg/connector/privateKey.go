package connector

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/txSigner"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"go.uber.org/zap"
)

// PrivateKeyEnvVar is read when no key was configured explicitly.
const PrivateKeyEnvVar = "PRIVATE_KEY"

var ErrPrivateKeyMissing = errors.New("privateKey not in env variables")

// PrivateKeyConnector connects a raw private key. The key is resolved at handshake time so that a
// key exported after startup is picked up.
type PrivateKeyConnector struct {
	key    string
	source KeySource
	client chainManager.EthClientInterface
	logger *zap.Logger
}

func NewPrivateKeyConnector(key string, client chainManager.EthClientInterface, logger *zap.Logger) *PrivateKeyConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrivateKeyConnector{key: key, client: client, logger: logger}
}

// WithKeySource resolves the key from source instead of the configured key and PRIVATE_KEY.
func (c *PrivateKeyConnector) WithKeySource(source KeySource) *PrivateKeyConnector {
	c.source = source
	return c
}

func (c *PrivateKeyConnector) Kind() wallet.Kind { return wallet.KindPrivateKey }

func (c *PrivateKeyConnector) Handshake(ctx context.Context) (wallet.Signer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := c.resolveKey(ctx)
	if err != nil {
		return nil, err
	}
	signer, err := txSigner.NewPrivateKeySigner(key)
	if err != nil {
		return nil, err
	}
	return txSigner.NewChainSigner(signer, c.client, c.logger), nil
}

func (c *PrivateKeyConnector) resolveKey(ctx context.Context) (string, error) {
	if c.source != nil {
		key, err := c.source.PrivateKey(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load private key: %w", err)
		}
		return key, nil
	}
	key := c.key
	if key == "" {
		key = os.Getenv(PrivateKeyEnvVar)
	}
	if key == "" {
		return "", ErrPrivateKeyMissing
	}
	return key, nil
}
