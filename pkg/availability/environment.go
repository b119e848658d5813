package availability

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ProviderFlags are the vendor-identifying fields of the generic web3 provider.
type ProviderFlags struct {
	IsMetaMask      bool
	IsTrust         bool
	IsStatus        bool
	IsToshi         bool
	IsEQLWallet     bool
	ConstructorName string
	// Connected reports whether the provider answered its last liveness check.
	Connected bool
}

// Environment is a read-only snapshot of the host the wallets are injected into.
type Environment interface {
	// Web3Provider returns the generic provider and false when none is injected.
	Web3Provider() (ProviderFlags, bool)
	HasGlobal(name string) bool
	UserAgent() string
	IsMobile() bool
}

// Refresher is implemented by environments whose snapshot must be refreshed before each probe.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Global object names consulted by the default rules.
const (
	GlobalImToken    = "imToken"
	GlobalOpera      = "opera"
	GlobalOperaAddon = "opr.addons"
)

// StaticEnvironment is a fixed snapshot, typically built from configuration.
type StaticEnvironment struct {
	Provider *ProviderFlags
	Globals  []string
	Agent    string
	Mobile   bool
}

func (s *StaticEnvironment) Web3Provider() (ProviderFlags, bool) {
	if s.Provider == nil {
		return ProviderFlags{}, false
	}
	return *s.Provider, true
}

func (s *StaticEnvironment) HasGlobal(name string) bool {
	return slices.Contains(s.Globals, name)
}

func (s *StaticEnvironment) UserAgent() string { return s.Agent }
func (s *StaticEnvironment) IsMobile() bool    { return s.Mobile }

// RPCClient is the subset of the go-ethereum rpc.Client used to probe a wallet endpoint.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// RPCEnvironment treats a JSON-RPC wallet endpoint as the injected provider. The vendor flags are
// derived from the endpoint's client version string.
type RPCEnvironment struct {
	client    RPCClient
	userAgent string
	timeout   time.Duration
	logger    *zap.Logger

	mu       sync.RWMutex
	provider *ProviderFlags
	globals  map[string]bool
}

// NewRPCEnvironment creates an environment backed by client. A nil client models a host without
// any injected provider.
//
// Parameters:
//   - client: JSON-RPC client of the wallet endpoint, may be nil
//   - userAgent: The user agent reported by the host
//   - timeout: Timeout of a single refresh
//   - logger: A zap logger
//
// Returns:
//   - *RPCEnvironment: An environment that reports no provider until the first Refresh
func NewRPCEnvironment(client RPCClient, userAgent string, timeout time.Duration, logger *zap.Logger) *RPCEnvironment {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RPCEnvironment{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
		globals:   map[string]bool{},
	}
}

// Refresh queries web3_clientVersion and net_listening. A failed query leaves the environment
// without a provider and is not returned as an error.
func (e *RPCEnvironment) Refresh(ctx context.Context) error {
	if e.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var version string
	if err := e.client.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
		e.logger.Sugar().Debugw("Wallet endpoint not reachable", zap.Error(err))
		e.set(nil, nil)
		return nil
	}
	flags, globals := FlagsFromClientVersion(version)

	var listening bool
	if err := e.client.CallContext(ctx, &listening, "net_listening"); err == nil {
		flags.Connected = listening
	} else {
		// Endpoints that do not serve net_listening are still answering requests.
		flags.Connected = true
	}
	e.set(&flags, globals)
	return nil
}

func (e *RPCEnvironment) set(flags *ProviderFlags, globals []string) {
	g := make(map[string]bool, len(globals))
	for _, name := range globals {
		g[name] = true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.provider = flags
	e.globals = g
}

func (e *RPCEnvironment) Web3Provider() (ProviderFlags, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.provider == nil {
		return ProviderFlags{}, false
	}
	return *e.provider, true
}

func (e *RPCEnvironment) HasGlobal(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globals[name]
}

func (e *RPCEnvironment) UserAgent() string { return e.userAgent }

func (e *RPCEnvironment) IsMobile() bool { return IsMobileUserAgent(e.userAgent) }

// FlagsFromClientVersion maps a web3_clientVersion string to provider flags and the globals the
// vendor would inject.
func FlagsFromClientVersion(version string) (ProviderFlags, []string) {
	v := strings.ToLower(version)
	flags := ProviderFlags{
		IsMetaMask:  strings.Contains(v, "metamask"),
		IsTrust:     strings.Contains(v, "trust"),
		IsStatus:    strings.Contains(v, "status"),
		IsToshi:     strings.Contains(v, "toshi") || strings.Contains(v, "coinbase"),
		IsEQLWallet: strings.Contains(v, "eql") || strings.Contains(v, "equal"),
	}
	if strings.Contains(v, "cipher") {
		flags.ConstructorName = cipherProvider
	}
	var globals []string
	if strings.Contains(v, "imtoken") {
		globals = append(globals, GlobalImToken)
	}
	if strings.Contains(v, "opera") {
		globals = append(globals, GlobalOpera)
	}
	return flags, globals
}

var mobileMarkers = []string{"mobile", "android", "iphone", "ipad", "ipod", "windows phone"}

func IsMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
