// Package connector holds one handshake strategy per wallet kind. A strategy talks to its external
// provider, waits for the user or device to respond and returns the resulting signer. Strategies never
// install signers themselves; the orchestrator decides whether a completed handshake is still wanted.
package connector

import (
	"context"
	"fmt"
	"sync"

	"github.com/Layr-Labs/wallet-connector-go/pkg/util"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
)

// Connector is the handshake strategy of one wallet kind.
type Connector interface {
	Kind() wallet.Kind
	// Handshake blocks until the provider responds and returns a signer for the connected account.
	// It must honour ctx cancellation.
	Handshake(ctx context.Context) (wallet.Signer, error)
}

// Registry maps wallet kinds to their connector. New kinds are added by registration.
type Registry struct {
	mu         sync.RWMutex
	connectors map[wallet.Kind]Connector
}

func NewRegistry(connectors ...Connector) *Registry {
	r := &Registry{connectors: make(map[wallet.Kind]Connector, len(connectors))}
	for _, c := range connectors {
		r.Register(c)
	}
	return r
}

// Register adds c, replacing any connector previously registered for the same kind.
func (r *Registry) Register(c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[c.Kind()] = c
}

func (r *Registry) Get(kind wallet.Kind) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[kind]
	if !ok {
		return nil, fmt.Errorf("%s walletType not expected", kind)
	}
	return c, nil
}

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []wallet.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.SortedKeys(r.connectors)
}

// HandshakeFunc is a handshake supplied by the caller.
type HandshakeFunc func(ctx context.Context) (wallet.Signer, error)

// FuncConnector turns a HandshakeFunc into a Connector, typically for wallet.KindCustom.
type FuncConnector struct {
	kind wallet.Kind
	fn   HandshakeFunc
}

func NewFuncConnector(kind wallet.Kind, fn HandshakeFunc) *FuncConnector {
	return &FuncConnector{kind: kind, fn: fn}
}

func (f *FuncConnector) Kind() wallet.Kind { return f.kind }

func (f *FuncConnector) Handshake(ctx context.Context) (wallet.Signer, error) {
	return f.fn(ctx)
}
