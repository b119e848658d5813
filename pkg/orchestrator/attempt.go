package orchestrator

import (
	"context"

	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// Attempt is a single connection attempt started by Connect.
type Attempt struct {
	Kind  wallet.Kind
	Epoch uint64

	done    chan struct{}
	address common.Address
	err     error
}

func newAttempt(kind wallet.Kind, epoch uint64) *Attempt {
	return &Attempt{Kind: kind, Epoch: epoch, done: make(chan struct{})}
}

func (a *Attempt) resolve(address common.Address, err error) {
	a.address = address
	a.err = err
	close(a.done)
}

// Done is closed once the attempt has an outcome.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves or ctx is done.
//
// Returns:
//   - common.Address: The connected address on success
//   - error: ErrHandshakeFailed, ErrSuperseded, or ctx.Err()
func (a *Attempt) Wait(ctx context.Context) (common.Address, error) {
	select {
	case <-a.done:
		return a.address, a.err
	case <-ctx.Done():
		return common.Address{}, ctx.Err()
	}
}
