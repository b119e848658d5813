package txSigner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/provider"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultReceiptPollInterval = time.Second

// RPCSigner is a wallet.Signer for wallets that keep their keys and sign on request, such as an
// injected browser provider or an embedded-login wallet.
type RPCSigner struct {
	provider     provider.InjectedProvider
	from         common.Address
	pollInterval time.Duration
	closer       func()
	logger       *zap.Logger
}

// NewRPCSigner creates a signer acting for from through p.
//
// Parameters:
//   - p: The wallet provider
//   - from: An account exposed by the provider
//   - logger: A zap logger
//
// Returns:
//   - *RPCSigner: The signer
func NewRPCSigner(p provider.InjectedProvider, from common.Address, logger *zap.Logger) *RPCSigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCSigner{
		provider:     p,
		from:         from,
		pollInterval: defaultReceiptPollInterval,
		logger:       logger,
	}
}

// WithPollInterval sets how often receipts are polled after submission.
func (r *RPCSigner) WithPollInterval(d time.Duration) *RPCSigner {
	r.pollInterval = d
	return r
}

func (r *RPCSigner) Address(_ context.Context) (common.Address, error) {
	return r.from, nil
}

func (r *RPCSigner) SignAndSend(ctx context.Context, req *wallet.Request) (*types.Receipt, error) {
	hash, err := r.provider.SendTransaction(ctx, r.from, req)
	if err != nil {
		return nil, err
	}
	r.logger.Sugar().Infow("Transaction submitted by wallet",
		zap.String("txHash", hash.Hex()),
		zap.String("from", r.from.Hex()),
	)

	receipt, err := r.waitMined(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, hash.Hex())
	}
	return receipt, nil
}

func (r *RPCSigner) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.provider.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *RPCSigner) SignMessage(ctx context.Context, text string) ([]byte, error) {
	return r.provider.PersonalSign(ctx, r.from, text)
}

// WithCloser registers fn to run on Close. It is used when the provider session belongs to this
// signer alone, e.g. an embedded login.
func (r *RPCSigner) WithCloser(fn func()) *RPCSigner {
	r.closer = fn
	return r
}

func (r *RPCSigner) Close() error {
	if r.closer != nil {
		r.closer()
	}
	return nil
}
