package connector

import (
	"context"

	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/txSigner"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/aws/aws-sdk-go/service/kms/kmsiface"
	"go.uber.org/zap"
)

type KMSConfig struct {
	KeyID  string `yaml:"keyId" validate:"required"`
	Region string `yaml:"region" validate:"required"`
}

// NewAWSKMSConnector returns a custom connector whose handshake resolves the KMS key's address.
// A nil kmsClient creates a session for cfg.Region.
func NewAWSKMSConnector(cfg *KMSConfig, kmsClient kmsiface.KMSAPI, client chainManager.EthClientInterface, logger *zap.Logger) *FuncConnector {
	return NewFuncConnector(wallet.KindCustom, func(ctx context.Context) (wallet.Signer, error) {
		var (
			signer *txSigner.AWSKMSSigner
			err    error
		)
		if kmsClient != nil {
			signer, err = txSigner.NewAWSKMSSignerWithClient(ctx, kmsClient, cfg.KeyID)
		} else {
			signer, err = txSigner.NewAWSKMSSigner(ctx, cfg.KeyID, cfg.Region)
		}
		if err != nil {
			return nil, err
		}
		return txSigner.NewChainSigner(signer, client, logger), nil
	})
}
