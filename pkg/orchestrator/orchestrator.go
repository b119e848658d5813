// Package orchestrator runs the connection state machine: it gates connection intents on
// availability, runs the kind's handshake, installs the resulting signer as the single active signer
// and reports every outcome on the event feed.
//
// Handshakes run on their own goroutines. Each Connect, Disconnect and Fail advances an attempt epoch.
// A successful handshake or a teardown raises the installed epoch to its own, and a handshake that
// completes below the installed epoch is discarded. A slow handshake therefore never replaces a newer
// connection or revives a disconnected session, while a newer attempt that fails leaves it untouched.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/actionTracker"
	"github.com/Layr-Labs/wallet-connector-go/pkg/availability"
	"github.com/Layr-Labs/wallet-connector-go/pkg/connector"
	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/metrics"
	"github.com/Layr-Labs/wallet-connector-go/pkg/signerLifecycle"
	"github.com/Layr-Labs/wallet-connector-go/pkg/trackedSigner"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	// ErrNotAvailable is returned when an injected wallet kind is not present in the environment.
	ErrNotAvailable = errors.New("wallet not available")
	// ErrHandshakeFailed wraps every handshake failure.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrSuperseded is the outcome of an attempt overtaken by a newer connection, Disconnect or Fail.
	ErrSuperseded = errors.New("connection attempt superseded")
	// ErrNoSigner is returned for a connector that reports success without a signer.
	ErrNoSigner = errors.New("connector returned no signer")
)

// Config carries the collaborators of the Orchestrator.
type Config struct {
	Registry *connector.Registry
	Detector availability.IDetector
	Signers  signerLifecycle.ISignerLifecycle
	Decoder  trackedSigner.IDecoder
	Tracker  actionTracker.IActionTracker
	Emitter  events.Emitter
	// Metrics is optional.
	Metrics metrics.Recorder
}

type Orchestrator struct {
	config  *Config
	metrics metrics.Recorder
	logger  *zap.Logger

	mu      sync.Mutex
	states  map[wallet.Kind]wallet.ConnectionState
	reasons map[wallet.Kind]string
	latest  map[wallet.Kind]uint64
	active  wallet.Kind
	epoch   uint64

	// installed is the epoch of the last installed signer or teardown.
	installed uint64

	// emitMu is taken before mu is released so notifications leave in transition order.
	emitMu sync.Mutex
}

// NewOrchestrator creates an orchestrator with every kind Disconnected.
//
// Parameters:
//   - cfg: The collaborators, all required except Metrics
//   - logger: A zap logger
//
// Returns:
//   - *Orchestrator: The orchestrator
//   - error: An error if a required collaborator is missing
func NewOrchestrator(cfg *Config, logger *zap.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	switch {
	case cfg.Registry == nil:
		return nil, errors.New("connector registry is required")
	case cfg.Detector == nil:
		return nil, errors.New("availability detector is required")
	case cfg.Signers == nil:
		return nil, errors.New("signer lifecycle is required")
	case cfg.Decoder == nil:
		return nil, errors.New("action decoder is required")
	case cfg.Tracker == nil:
		return nil, errors.New("action tracker is required")
	case cfg.Emitter == nil:
		return nil, errors.New("event emitter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		config:  cfg,
		metrics: metrics.OrNoop(cfg.Metrics),
		logger:  logger,
		states:  make(map[wallet.Kind]wallet.ConnectionState),
		reasons: make(map[wallet.Kind]string),
		latest:  make(map[wallet.Kind]uint64),
	}, nil
}

// Connect starts a connection attempt for kind and returns without waiting for the handshake.
// ctx bounds the handshake itself.
//
// Parameters:
//   - ctx: Context passed to the handshake
//   - kind: The wallet kind to connect
//
// Returns:
//   - *Attempt: Handle resolving with the connected address or the failure
//   - error: An error for unregistered kinds, ErrNotAvailable for undetected injected kinds
func (o *Orchestrator) Connect(ctx context.Context, kind wallet.Kind) (*Attempt, error) {
	c, err := o.config.Registry.Get(kind)
	if err != nil {
		return nil, err
	}
	labels := map[string]string{"kind": kind.String()}
	o.metrics.IncCounter("connect_intent", labels)

	if kind.Injected() && !o.config.Detector.Available(kind) {
		o.logger.Sugar().Infow("Wallet not detected", zap.String("kind", kind.String()))
		o.metrics.IncCounter("connection_error", labels)
		o.mu.Lock()
		o.commit(events.ConnectionError(fmt.Sprintf("%s not detected in browser.", kind)))
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, kind)
	}

	o.mu.Lock()
	o.epoch++
	attempt := newAttempt(kind, o.epoch)
	o.latest[kind] = attempt.Epoch
	o.states[kind] = wallet.StateConnecting
	delete(o.reasons, kind)
	o.mu.Unlock()

	o.logger.Sugar().Infow("Connecting wallet",
		zap.String("kind", kind.String()),
		zap.Uint64("epoch", attempt.Epoch),
	)
	go o.handshake(ctx, c, attempt)
	return attempt, nil
}

func (o *Orchestrator) handshake(ctx context.Context, c connector.Connector, attempt *Attempt) {
	start := time.Now()
	labels := map[string]string{"kind": attempt.Kind.String()}

	raw, err := c.Handshake(ctx)
	if err == nil && raw == nil {
		err = ErrNoSigner
	}
	var address common.Address
	if err == nil {
		address, err = raw.Address(ctx)
		if err != nil {
			closeSigner(raw)
			err = fmt.Errorf("failed to read account address: %w", err)
		}
	}
	o.metrics.ObserveLatency("handshake", time.Since(start), labels)

	o.mu.Lock()
	if attempt.Epoch < o.installed {
		o.settleStale(attempt)
		o.mu.Unlock()
		if err == nil {
			closeSigner(raw)
		}
		o.logger.Sugar().Infow("Discarding superseded handshake",
			zap.String("kind", attempt.Kind.String()),
			zap.Uint64("epoch", attempt.Epoch),
			zap.NamedError("handshakeError", err),
		)
		attempt.resolve(common.Address{}, ErrSuperseded)
		return
	}

	if err != nil {
		message := connector.FormatErrorMessage(err)
		switch {
		case o.latest[attempt.Kind] != attempt.Epoch:
			// A newer attempt of this kind is still in flight and owns its state.
		case o.active == attempt.Kind:
			// The previous session of this kind is still installed and keeps working.
			o.states[attempt.Kind] = wallet.StateConnected
			o.reasons[attempt.Kind] = message
		default:
			o.states[attempt.Kind] = wallet.StateFailed
			o.reasons[attempt.Kind] = message
		}
		o.commit(events.ConnectionError(message))

		o.metrics.IncCounter("connection_error", labels)
		o.logger.Sugar().Warnw("Wallet handshake failed",
			zap.String("kind", attempt.Kind.String()),
			zap.Error(err),
		)
		attempt.resolve(common.Address{}, fmt.Errorf("%w: %s: %w", ErrHandshakeFailed, attempt.Kind, err))
		return
	}

	o.config.Signers.Set(trackedSigner.NewTrackedSigner(raw, o.config.Decoder, o.config.Tracker, o.logger))
	o.installed = attempt.Epoch

	var notifications []events.Event
	if o.active != "" && o.active != attempt.Kind {
		o.states[o.active] = wallet.StateDisconnected
		notifications = append(notifications, events.Disconnected(o.active))
	}
	o.active = attempt.Kind
	o.states[attempt.Kind] = wallet.StateConnected
	lower := strings.ToLower(address.Hex())
	notifications = append(notifications, events.Connected(attempt.Kind, lower))
	o.commit(notifications...)

	o.metrics.IncCounter("connected", labels)
	o.logger.Sugar().Infow("Wallet connected",
		zap.String("kind", attempt.Kind.String()),
		zap.String("address", lower),
	)
	attempt.resolve(address, nil)
}

// settleStale resets the state of a superseded attempt's kind unless a newer attempt owns it.
// Must be called with mu held.
func (o *Orchestrator) settleStale(attempt *Attempt) {
	if o.latest[attempt.Kind] != attempt.Epoch {
		return
	}
	if o.active == attempt.Kind {
		o.states[attempt.Kind] = wallet.StateConnected
		return
	}
	if o.states[attempt.Kind] == wallet.StateConnecting {
		o.states[attempt.Kind] = wallet.StateDisconnected
	}
}

// Disconnect clears the active signer, abandons in-flight handshakes and moves the connected kind to
// Disconnected. It is a no-op apart from abandoning handshakes when nothing is connected.
func (o *Orchestrator) Disconnect() {
	o.mu.Lock()
	notifications := o.teardown()
	o.commit(notifications...)
}

// Fail reports a failure from outside the handshake, e.g. a keyspace or router initialisation error.
// The active signer is cleared, the connected kind is disconnected and reason is emitted as a
// connection error.
func (o *Orchestrator) Fail(reason string) {
	o.logger.Sugar().Warnw("External failure", zap.String("reason", reason))
	o.metrics.IncCounter("external_failure", nil)

	o.mu.Lock()
	notifications := append(o.teardown(), events.ConnectionError(reason))
	o.commit(notifications...)
}

// teardown must be called with mu held.
func (o *Orchestrator) teardown() []events.Event {
	o.epoch++
	o.installed = o.epoch
	o.config.Signers.Clear()
	for kind, state := range o.states {
		if state == wallet.StateConnecting || state == wallet.StateFailed {
			o.states[kind] = wallet.StateDisconnected
		}
	}
	if o.active == "" {
		return nil
	}
	kind := o.active
	o.active = ""
	o.states[kind] = wallet.StateDisconnected
	o.logger.Sugar().Infow("Wallet disconnected", zap.String("kind", kind.String()))
	return []events.Event{events.Disconnected(kind)}
}

// commit releases mu and emits notifications. Must be called with mu held.
func (o *Orchestrator) commit(notifications ...events.Event) {
	o.emitMu.Lock()
	o.mu.Unlock()
	defer o.emitMu.Unlock()
	for _, n := range notifications {
		o.config.Emitter.Emit(n)
	}
}

// GetSigner returns a borrowed handle to the active signer, or signerLifecycle.ErrNotInitialized.
func (o *Orchestrator) GetSigner() (wallet.Signer, error) {
	signer, err := o.config.Signers.Get()
	if err != nil {
		o.logger.Sugar().Debugw("Signer requested before a wallet was connected")
		return nil, err
	}
	return signer, nil
}

// State returns the connection state of kind.
func (o *Orchestrator) State(kind wallet.Kind) wallet.ConnectionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.states[kind]; ok {
		return s
	}
	return wallet.StateDisconnected
}

// FailureReason returns the message of the last failed handshake of kind.
func (o *Orchestrator) FailureReason(kind wallet.Kind) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	r, ok := o.reasons[kind]
	return r, ok
}

// ActiveKind returns the connected kind and false when nothing is connected.
func (o *Orchestrator) ActiveKind() (wallet.Kind, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active, o.active != ""
}

func closeSigner(s wallet.Signer) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}
