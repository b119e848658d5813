// Package txSigner provides the signing backends a wallet connection can resolve to.
// Key-holding backends (raw private keys, AWS KMS keys and hardware wallets) implement
// ITransactionSigner and are turned into a wallet.Signer by ChainSigner, which builds, submits and
// confirms transactions through a chain RPC client. Wallets that sign on their own are reached through
// RPCSigner.
package txSigner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var (
	// ErrTransactionReverted is returned when a submitted transaction is mined with a failed status.
	ErrTransactionReverted = errors.New("transaction reverted")
	// ErrNoChainClient is returned by ChainSigner.SignAndSend when it was built without a chain client.
	ErrNoChainClient = errors.New("no chain client configured")
)

// ITransactionSigner defines the interface of a key-holding signing backend.
type ITransactionSigner interface {
	// GetTransactOpts returns bind.TransactOpts configured for the signer.
	// The returned TransactOpts carries the From address and a Signer function bound to chainID.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - chainID: The chain ID for the target blockchain
	//
	// Returns:
	//   - *bind.TransactOpts: Configured transaction options for the signer
	//   - error: An error if transaction options cannot be created
	GetTransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)

	// GetAddress returns the Ethereum address associated with this signer.
	GetAddress() (common.Address, error)

	// SignText returns an EIP-191 personal signature over text with V in {27, 28}.
	SignText(ctx context.Context, text []byte) ([]byte, error)
}

// ChainSigner adapts an ITransactionSigner to wallet.Signer. Transactions are legacy (EIP-155)
// transactions submitted through client.
type ChainSigner struct {
	signer ITransactionSigner
	client chainManager.EthClientInterface
	logger *zap.Logger
}

// NewChainSigner creates a wallet.Signer that signs with signer and submits through client.
//
// Parameters:
//   - signer: The key-holding backend
//   - client: RPC client of the chain transactions are submitted to
//   - logger: A zap logger
//
// Returns:
//   - *ChainSigner: The signer
func NewChainSigner(signer ITransactionSigner, client chainManager.EthClientInterface, logger *zap.Logger) *ChainSigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainSigner{
		signer: signer,
		client: client,
		logger: logger,
	}
}

func (s *ChainSigner) Address(_ context.Context) (common.Address, error) {
	return s.signer.GetAddress()
}

// SignAndSend builds a legacy transaction for req, signs it, submits it and waits until it is mined.
// Zero gas fields are filled from the node.
func (s *ChainSigner) SignAndSend(ctx context.Context, req *wallet.Request) (*types.Receipt, error) {
	if s.client == nil {
		return nil, ErrNoChainClient
	}
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	opts, err := s.signer.GetTransactOpts(ctx, chainID)
	if err != nil {
		return nil, err
	}

	nonce, err := s.client.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	gasPrice := req.GasPrice
	if gasPrice == nil || gasPrice.Sign() == 0 {
		gasPrice, err = s.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	}
	to := req.To
	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = s.client.EstimateGas(ctx, ethereum.CallMsg{
			From:     opts.From,
			To:       &to,
			GasPrice: gasPrice,
			Value:    value,
			Data:     req.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})
	signed, err := opts.Signer(opts.From, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	s.logger.Sugar().Infow("Transaction submitted",
		zap.String("txHash", signed.Hash().Hex()),
		zap.String("from", opts.From.Hex()),
		zap.Uint64("nonce", nonce),
	)

	receipt, err := bind.WaitMined(ctx, s.client, signed)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, signed.Hash().Hex())
	}
	return receipt, nil
}

func (s *ChainSigner) SignMessage(ctx context.Context, text string) ([]byte, error) {
	return s.signer.SignText(ctx, []byte(text))
}

// Close releases the backend if it holds a device or session.
func (s *ChainSigner) Close() error {
	if c, ok := s.signer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
