// Package provider talks to an injected wallet provider over EIP-1193 style JSON-RPC methods.
package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// methodNotFound is the JSON-RPC error code of an unsupported method.
const methodNotFound = -32601

// InjectedProvider is a wallet that holds the keys itself and signs on request.
type InjectedProvider interface {
	// RequestAccounts asks the wallet to expose its accounts, prompting the user if needed.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	// SendTransaction has the wallet sign and submit req from the given account.
	SendTransaction(ctx context.Context, from common.Address, req *wallet.Request) (common.Hash, error)
	// PersonalSign requests an EIP-191 signature over text.
	PersonalSign(ctx context.Context, from common.Address, text string) ([]byte, error)
	// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// RPCClient is the subset of *rpc.Client used by RPCProvider.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

type RPCProvider struct {
	client RPCClient
	logger *zap.Logger
}

// Dial connects to a wallet JSON-RPC endpoint.
//
// Parameters:
//   - ctx: Context bounding the dial
//   - url: HTTP, WebSocket or IPC endpoint of the wallet
//   - logger: A zap logger
//
// Returns:
//   - *RPCProvider: A provider bound to the endpoint
//   - error: An error if the endpoint cannot be dialed
func Dial(ctx context.Context, url string, logger *zap.Logger) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet endpoint %s: %w", url, err)
	}
	return NewRPCProvider(client, logger), nil
}

func NewRPCProvider(client RPCClient, logger *zap.Logger) *RPCProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCProvider{client: client, logger: logger}
}

// Client exposes the underlying JSON-RPC client, e.g. to probe the environment.
func (p *RPCProvider) Client() RPCClient {
	return p.client
}

// RequestAccounts calls eth_requestAccounts and falls back to eth_accounts for wallets without an
// enable step.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts")
	if err != nil {
		var rpcErr rpc.Error
		if !errors.As(err, &rpcErr) || rpcErr.ErrorCode() != methodNotFound {
			return nil, err
		}
		p.logger.Sugar().Debugw("eth_requestAccounts unsupported, falling back to eth_accounts")
		if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
			return nil, err
		}
	}
	if len(accounts) == 0 {
		return nil, errors.New("wallet did not expose any account")
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}

type sendTxArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
}

func (p *RPCProvider) SendTransaction(ctx context.Context, from common.Address, req *wallet.Request) (common.Hash, error) {
	to := req.To
	args := sendTxArgs{
		From: from,
		To:   &to,
		Data: req.Data,
	}
	if req.GasLimit != 0 {
		gas := hexutil.Uint64(req.GasLimit)
		args.Gas = &gas
	}
	if req.GasPrice != nil {
		args.GasPrice = (*hexutil.Big)(req.GasPrice)
	}
	if req.Value != nil {
		args.Value = (*hexutil.Big)(req.Value)
	}

	var hash common.Hash
	if err := p.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (p *RPCProvider) PersonalSign(ctx context.Context, from common.Address, text string) ([]byte, error) {
	var sig hexutil.Bytes
	if err := p.client.CallContext(ctx, &sig, "personal_sign", hexutil.Encode([]byte(text)), from); err != nil {
		return nil, err
	}
	return sig, nil
}

func (p *RPCProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	if err := p.client.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (p *RPCProvider) Close() {
	p.client.Close()
}
