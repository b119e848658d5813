// Package availability reports which wallet kinds are usable in the host environment.
//
// Detection is rule based: each kind owns a predicate over the environment snapshot, and new kinds
// are added with Register. The Detector only notifies subscribers when the computed map changes.
package availability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/metrics"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"go.uber.org/zap"
)

// Rule decides whether a kind is available given the environment and its generic provider.
type Rule func(env Environment, provider ProviderFlags) bool

const cipherProvider = "CipherProvider"

// DefaultRules returns the detection rules of the supported injected wallets.
func DefaultRules() map[wallet.Kind]Rule {
	return map[wallet.Kind]Rule{
		wallet.KindMetamask: func(env Environment, p ProviderFlags) bool {
			return p.IsMetaMask && !env.IsMobile() && !p.IsEQLWallet
		},
		wallet.VendorTrust: func(_ Environment, p ProviderFlags) bool {
			return p.IsTrust
		},
		wallet.VendorCipher: func(_ Environment, p ProviderFlags) bool {
			return p.ConstructorName == cipherProvider
		},
		wallet.VendorStatus: func(_ Environment, p ProviderFlags) bool {
			return p.IsStatus
		},
		wallet.VendorImToken: func(env Environment, _ ProviderFlags) bool {
			return env.HasGlobal(GlobalImToken)
		},
		wallet.VendorCoinbase: func(_ Environment, p ProviderFlags) bool {
			return p.IsToshi
		},
		wallet.VendorOpera: func(env Environment, p ProviderFlags) bool {
			opera := env.HasGlobal(GlobalOperaAddon) || env.HasGlobal(GlobalOpera) || strings.Contains(env.UserAgent(), " OPR/")
			return opera && p.Connected
		},
		wallet.VendorEqual: func(_ Environment, p ProviderFlags) bool {
			return p.IsEQLWallet
		},
	}
}

type IDetector interface {
	Available(kind wallet.Kind) bool
}

type Detector struct {
	mu          sync.Mutex
	rules       map[wallet.Kind]Rule
	last        wallet.AvailabilityMap
	web3Enabled bool

	emitter events.Emitter
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewDetector creates a detector loaded with DefaultRules. Until the first Detect every kind is
// reported unavailable.
//
// Parameters:
//   - emitter: Destination of availability notifications
//   - recorder: Metrics sink, may be nil
//   - logger: A zap logger
//
// Returns:
//   - *Detector: The detector
func NewDetector(emitter events.Emitter, recorder metrics.Recorder, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Detector{
		rules:   DefaultRules(),
		emitter: emitter,
		metrics: metrics.OrNoop(recorder),
		logger:  logger,
	}
	d.last = d.allFalse()
	return d
}

// Register adds or replaces the rule of kind.
func (d *Detector) Register(kind wallet.Kind, rule Rule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules[kind] = rule
	if _, ok := d.last[kind]; !ok {
		d.last[kind] = false
	}
}

// Probe evaluates every rule against env. It has no side effects.
func (d *Detector) Probe(env Environment) wallet.AvailabilityMap {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, _ := d.probe(env)
	return m
}

func (d *Detector) probe(env Environment) (wallet.AvailabilityMap, bool) {
	provider, ok := env.Web3Provider()
	if !ok {
		return d.allFalse(), false
	}
	m := make(wallet.AvailabilityMap, len(d.rules))
	for kind, rule := range d.rules {
		m[kind] = rule(env, provider)
	}
	return m, true
}

func (d *Detector) allFalse() wallet.AvailabilityMap {
	m := make(wallet.AvailabilityMap, len(d.rules))
	for kind := range d.rules {
		m[kind] = false
	}
	return m
}

// Detect probes env and notifies subscribers of what changed since the previous Detect: the
// web3 enable/disable transition first, then the availability map if it differs by value.
//
// Parameters:
//   - env: The environment snapshot
//
// Returns:
//   - wallet.AvailabilityMap: The freshly computed map
func (d *Detector) Detect(env Environment) wallet.AvailabilityMap {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, enabled := d.probe(env)

	if enabled != d.web3Enabled {
		d.web3Enabled = enabled
		if enabled {
			d.logger.Sugar().Infow("Web3 provider detected")
			d.emitter.Emit(events.Web3Enabled())
		} else {
			d.logger.Sugar().Infow("Web3 provider went away")
			d.emitter.Emit(events.Web3Disabled())
		}
	}

	if !m.Equal(d.last) {
		d.last = m
		d.logger.Sugar().Debugw("Wallet availability changed", zap.Any("availability", m))
		d.metrics.IncCounter("availability_changed", nil)
		d.emitter.Emit(events.AvailabilityChanged(m))
	}
	return m.Clone()
}

// Watch runs Detect immediately and then on every tick until ctx is done. Environments that
// implement Refresher are refreshed before each probe.
func (d *Detector) Watch(ctx context.Context, env Environment, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if r, ok := env.(Refresher); ok {
			if err := r.Refresh(ctx); err != nil {
				d.logger.Sugar().Warnw("Failed to refresh environment", zap.Error(err))
			}
		}
		d.Detect(env)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Available reads the last computed snapshot.
func (d *Detector) Available(kind wallet.Kind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last[kind]
}

// Snapshot returns a copy of the last computed map.
func (d *Detector) Snapshot() wallet.AvailabilityMap {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last.Clone()
}

func (d *Detector) Web3Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.web3Enabled
}
