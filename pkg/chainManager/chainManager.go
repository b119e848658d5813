// Package chainManager manages the JSON-RPC connections the wallet backends submit transactions
// through. Chains are registered once at startup and looked up by chain ID.
package chainManager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var (
	// ErrChainNotFound is returned when a requested chain ID is not found in the manager
	ErrChainNotFound = errors.New("chain not found")
	// ErrChainIDMismatch is returned when an RPC endpoint serves a different chain than configured
	ErrChainIDMismatch = errors.New("rpc endpoint chain id mismatch")
)

// IChainManager defines the interface for managing blockchain connections.
type IChainManager interface {
	// AddChain dials the chain's RPC endpoint and registers it
	AddChain(ctx context.Context, cfg *ChainConfig) error
	// GetChainForId retrieves a chain connection by its chain ID
	GetChainForId(chainId uint64) (*Chain, error)
}

// ChainConfig holds the configuration for connecting to a blockchain.
type ChainConfig struct {
	// ChainID is the unique identifier for the blockchain network
	ChainID uint64 `yaml:"chainId" validate:"required"`
	// RPCUrl is the URL endpoint for connecting to the blockchain RPC
	RPCUrl string `yaml:"rpcUrl" validate:"required,url"`
}

// Chain represents an active connection to a blockchain.
type Chain struct {
	config *ChainConfig
	// RPCClient is the active client connection for this chain
	RPCClient EthClientInterface
}

func (c *Chain) ChainID() uint64 {
	return c.config.ChainID
}

func (c *Chain) RPCUrl() string {
	return c.config.RPCUrl
}

// ChainManager implements IChainManager. It is safe for concurrent use.
type ChainManager struct {
	Chains sync.Map // map[uint64]*Chain
	logger *zap.Logger
}

// NewChainManager creates a new ChainManager instance with an empty chain registry.
//
// Parameters:
//   - logger: A zap logger
//
// Returns:
//   - *ChainManager: A new chain manager instance
func NewChainManager(logger *zap.Logger) *ChainManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainManager{logger: logger}
}

// AddChain dials cfg.RPCUrl, checks that the endpoint serves cfg.ChainID and registers the chain.
//
// Parameters:
//   - ctx: Context bounding the dial and the chain id check
//   - cfg: The chain configuration containing chain ID and RPC URL
//
// Returns:
//   - error: An error if the chain already exists, the connection fails or the chain id differs
func (cm *ChainManager) AddChain(ctx context.Context, cfg *ChainConfig) error {
	if _, exists := cm.Chains.Load(cfg.ChainID); exists {
		return fmt.Errorf("chain with ID %d already exists", cfg.ChainID)
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC URL %s: %w", cfg.RPCUrl, err)
	}
	if err := cm.AddChainWithClient(ctx, cfg, client); err != nil {
		client.Close()
		return err
	}
	return nil
}

// AddChainWithClient registers an already connected client for cfg.
//
// Parameters:
//   - ctx: Context bounding the chain id check
//   - cfg: The chain configuration
//   - client: The connected client
//
// Returns:
//   - error: An error if the chain already exists or the endpoint serves another chain
func (cm *ChainManager) AddChainWithClient(ctx context.Context, cfg *ChainConfig, client EthClientInterface) error {
	remote, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to query chain id from %s: %w", cfg.RPCUrl, err)
	}
	if !remote.IsUint64() || remote.Uint64() != cfg.ChainID {
		return fmt.Errorf("%w: configured %d, endpoint reports %s", ErrChainIDMismatch, cfg.ChainID, remote.String())
	}

	chain := &Chain{
		config:    cfg,
		RPCClient: client,
	}
	if _, loaded := cm.Chains.LoadOrStore(cfg.ChainID, chain); loaded {
		return fmt.Errorf("chain with ID %d already exists", cfg.ChainID)
	}
	cm.logger.Sugar().Infow("Added chain",
		zap.Uint64("chainId", cfg.ChainID),
		zap.String("rpcUrl", cfg.RPCUrl),
	)
	return nil
}

// GetChainForId retrieves a chain connection by its chain ID.
//
// Parameters:
//   - chainId: The chain ID to look up
//
// Returns:
//   - *Chain: The chain connection if found
//   - error: ErrChainNotFound if the chain ID is not registered
func (cm *ChainManager) GetChainForId(chainId uint64) (*Chain, error) {
	value, exists := cm.Chains.Load(chainId)
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrChainNotFound, chainId)
	}
	chain, ok := value.(*Chain)
	if !ok {
		return nil, fmt.Errorf("invalid chain type stored for ID %d", chainId)
	}
	return chain, nil
}

// ChainIDs lists the registered chain IDs in ascending order.
func (cm *ChainManager) ChainIDs() []uint64 {
	var ids []uint64
	cm.Chains.Range(func(key, _ any) bool {
		ids = append(ids, key.(uint64))
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close closes every registered client.
func (cm *ChainManager) Close() {
	cm.Chains.Range(func(key, value any) bool {
		if chain, ok := value.(*Chain); ok {
			chain.RPCClient.Close()
		}
		cm.Chains.Delete(key)
		return true
	})
}
