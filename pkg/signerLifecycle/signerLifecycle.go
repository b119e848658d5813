// Package signerLifecycle owns the single active Signer of the process.
//
// Components never keep the installed signer itself. Get hands out a borrowed handle that stops working
// as soon as the signer it points at is replaced or cleared. A retired signer is closed once the calls
// already running through its handles have returned.
package signerLifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNotInitialized is returned by Get when no wallet is connected. It is an expected condition.
	ErrNotInitialized = errors.New("wallet not initialized")
	// ErrSignerReplaced is returned by a borrowed handle whose signer is no longer active. Calls that
	// started before the replacement run to completion on the retired signer.
	ErrSignerReplaced = errors.New("signer is no longer active")
)

// ISignerLifecycle is the accessor injected into every component that needs signer access.
type ISignerLifecycle interface {
	Get() (wallet.Signer, error)
	Set(signer wallet.Signer)
	Clear()
}

type slot struct {
	signer wallet.Signer

	mu       sync.Mutex
	inflight int
	revoked  bool
	closed   bool
}

// acquire registers a call on the slot's signer.
func (s *slot) acquire() (wallet.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked {
		return nil, ErrSignerReplaced
	}
	s.inflight++
	return s.signer, nil
}

func (s *slot) release() {
	s.mu.Lock()
	s.inflight--
	s.closeIfIdle()
}

// revoke fails every later acquire and closes the signer once it is idle.
func (s *slot) revoke() {
	s.mu.Lock()
	s.revoked = true
	s.closeIfIdle()
}

// closeIfIdle must be called with mu held and releases it.
func (s *slot) closeIfIdle() {
	closeNow := s.revoked && s.inflight == 0 && !s.closed
	if closeNow {
		s.closed = true
	}
	s.mu.Unlock()
	if !closeNow {
		return
	}
	if c, ok := s.signer.(io.Closer); ok {
		_ = c.Close()
	}
}

// SignerLifecycle is a single-writer register for the active signer.
type SignerLifecycle struct {
	current atomic.Pointer[slot]
}

func NewSignerLifecycle() *SignerLifecycle {
	return &SignerLifecycle{}
}

// Get returns a borrowed handle to the active signer or ErrNotInitialized.
func (l *SignerLifecycle) Get() (wallet.Signer, error) {
	s := l.current.Load()
	if s == nil {
		return nil, ErrNotInitialized
	}
	return &handle{slot: s}, nil
}

// Set installs signer as the active signer in a single swap. The previous signer is revoked and, if it
// implements io.Closer, closed as soon as no call is running on it. Set does not wait for those calls.
func (l *SignerLifecycle) Set(signer wallet.Signer) {
	if signer == nil {
		l.Clear()
		return
	}
	retire(l.current.Swap(&slot{signer: signer}))
}

// Clear removes the active signer. Clearing an empty lifecycle is a no-op.
func (l *SignerLifecycle) Clear() {
	retire(l.current.Swap(nil))
}

// IsSet reports whether a signer is installed.
func (l *SignerLifecycle) IsSet() bool {
	return l.current.Load() != nil
}

func retire(s *slot) {
	if s == nil {
		return
	}
	s.revoke()
}

type handle struct {
	slot *slot
}

func (h *handle) Address(ctx context.Context) (common.Address, error) {
	s, err := h.slot.acquire()
	if err != nil {
		return common.Address{}, err
	}
	defer h.slot.release()
	return s.Address(ctx)
}

func (h *handle) SignAndSend(ctx context.Context, req *wallet.Request) (*types.Receipt, error) {
	s, err := h.slot.acquire()
	if err != nil {
		return nil, err
	}
	defer h.slot.release()
	return s.SignAndSend(ctx, req)
}

func (h *handle) SignMessage(ctx context.Context, text string) ([]byte, error) {
	s, err := h.slot.acquire()
	if err != nil {
		return nil, err
	}
	defer h.slot.release()
	return s.SignMessage(ctx, text)
}
