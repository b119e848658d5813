package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/actionDecoder"
	"github.com/Layr-Labs/wallet-connector-go/pkg/actionTracker"
	"github.com/Layr-Labs/wallet-connector-go/pkg/availability"
	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/config"
	"github.com/Layr-Labs/wallet-connector-go/pkg/connector"
	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/logger"
	"github.com/Layr-Labs/wallet-connector-go/pkg/metrics"
	"github.com/Layr-Labs/wallet-connector-go/pkg/orchestrator"
	"github.com/Layr-Labs/wallet-connector-go/pkg/provider"
	"github.com/Layr-Labs/wallet-connector-go/pkg/signerLifecycle"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const environmentProbeTimeout = 5 * time.Second

func setupLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{
		Debug:   c.Bool("debug"),
		Console: true,
	})
}

func parseChain(s string) (chainManager.ChainConfig, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return chainManager.ChainConfig{}, fmt.Errorf("invalid chain configuration: %s (expected format: 'chainId:rpcUrl')", s)
	}
	chainID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || chainID == 0 {
		return chainManager.ChainConfig{}, fmt.Errorf("invalid chain ID: %s", parts[0])
	}
	return chainManager.ChainConfig{ChainID: chainID, RPCUrl: parts[1]}, nil
}

// loadConfig reads the registry file, if any, and applies the command line flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	for _, s := range c.StringSlice("chains") {
		chain, err := parseChain(s)
		if err != nil {
			return nil, err
		}
		cfg.Chains = append(cfg.Chains, chain)
	}
	if id := c.Uint64("chain-id"); id != 0 {
		cfg.ChainID = id
	}
	if gwei := c.String("gas-price-gwei"); gwei != "" {
		cfg.GasPriceGwei = gwei
	}
	if path := c.String("derivation-path"); path != "" {
		cfg.DerivationPath = path
	}
	if url := c.String("wallet-rpc"); url != "" {
		cfg.WalletRPC = url
	}
	if keyID := c.String("aws-kms-key-id"); keyID != "" {
		cfg.KMS = &connector.KMSConfig{KeyID: keyID, Region: c.String("aws-region")}
	}
	if name := c.String("private-key-secret-name"); name != "" {
		cfg.PrivateKeySecret = &connector.AWSSecretsManagerConfig{SecretName: name, Region: c.String("aws-region")}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupDecoder(cfg *config.Config, l *zap.Logger) (*actionDecoder.Decoder, error) {
	registry, err := cfg.ABIRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build abi registry: %w", err)
	}
	gas, err := actionDecoder.NewGasPriceSetting(cfg.GasPriceGwei)
	if err != nil {
		return nil, err
	}
	return actionDecoder.NewDecoder(cfg.DecoderConfig(), registry, cfg.TokenTable(), gas, l), nil
}

func setupChainManager(ctx context.Context, cfg *config.Config, l *zap.Logger) (*chainManager.ChainManager, chainManager.EthClientInterface, error) {
	cm := chainManager.NewChainManager(l)
	for i := range cfg.Chains {
		if err := cm.AddChain(ctx, &cfg.Chains[i]); err != nil {
			cm.Close()
			return nil, nil, fmt.Errorf("failed to add chain %d: %w", cfg.Chains[i].ChainID, err)
		}
	}
	if len(cfg.Chains) == 0 {
		l.Sugar().Infow("No chains configured, transactions cannot be submitted by key-holding wallets")
		return cm, nil, nil
	}

	selected, err := cfg.SigningChain()
	if err != nil {
		cm.Close()
		return nil, nil, err
	}
	chain, err := cm.GetChainForId(selected.ChainID)
	if err != nil {
		cm.Close()
		return nil, nil, err
	}
	return cm, chain.RPCClient, nil
}

func setupMetrics(c *cli.Context, l *zap.Logger) (metrics.Recorder, *http.Server, error) {
	addr := c.String("metrics-addr")
	if addr == "" {
		return metrics.NoopRecorder{}, nil, nil
	}
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           logger.HttpLoggerMiddleware(mux, l, "/metrics"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Sugar().Errorw("Metrics server stopped", zap.Error(err))
		}
	}()
	l.Sugar().Infow("Serving metrics", zap.String("addr", addr))
	return recorder, server, nil
}

// session is everything a command needs to connect a wallet and sign through it.
type session struct {
	logger       *zap.Logger
	config       *config.Config
	bus          *events.Bus
	detector     *availability.Detector
	environment  availability.Environment
	decoder      *actionDecoder.Decoder
	orchestrator *orchestrator.Orchestrator

	chains        *chainManager.ChainManager
	injected      *provider.RPCProvider
	metricsServer *http.Server
	subscription  event.Subscription
}

func setupSession(c *cli.Context, l *zap.Logger) (*session, error) {
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s := &session{logger: l, config: cfg, bus: events.NewBus(l)}
	s.subscription = logEvents(s.bus, l)

	recorder, server, err := setupMetrics(c, l)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.metricsServer = server

	var client chainManager.EthClientInterface
	s.chains, client, err = setupChainManager(ctx, cfg, l)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to setup chain manager: %w", err)
	}

	if err := s.setupEnvironment(ctx, c.String("user-agent")); err != nil {
		s.Close()
		return nil, err
	}
	s.detector = availability.NewDetector(s.bus, recorder, l)
	s.detector.Detect(s.environment)

	s.decoder, err = setupDecoder(cfg, l)
	if err != nil {
		s.Close()
		return nil, err
	}

	registry, err := s.setupConnectors(c, client)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.orchestrator, err = orchestrator.NewOrchestrator(&orchestrator.Config{
		Registry: registry,
		Detector: s.detector,
		Signers:  signerLifecycle.NewSignerLifecycle(),
		Decoder:  s.decoder,
		Tracker:  actionTracker.NewTracker(s.bus, recorder, l),
		Emitter:  s.bus,
		Metrics:  recorder,
	}, l)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) setupEnvironment(ctx context.Context, userAgent string) error {
	if s.config.WalletRPC != "" {
		p, err := provider.Dial(ctx, s.config.WalletRPC, s.logger)
		if err != nil {
			return fmt.Errorf("failed to dial wallet rpc: %w", err)
		}
		s.injected = p
		env := availability.NewRPCEnvironment(p.Client(), userAgent, environmentProbeTimeout, s.logger)
		if err := env.Refresh(ctx); err != nil {
			return err
		}
		s.environment = env
		return nil
	}
	if env := s.config.StaticEnvironment(); env != nil {
		if userAgent != "" {
			env.Agent = userAgent
			env.Mobile = env.Mobile || availability.IsMobileUserAgent(userAgent)
		}
		s.environment = env
		return nil
	}
	s.environment = &availability.StaticEnvironment{Agent: userAgent, Mobile: availability.IsMobileUserAgent(userAgent)}
	return nil
}

func (s *session) setupConnectors(c *cli.Context, client chainManager.EthClientInterface) (*connector.Registry, error) {
	l := s.logger
	privateKey := connector.NewPrivateKeyConnector(c.String("private-key"), client, l)
	if s.config.PrivateKeySecret != nil {
		source, err := connector.NewAWSSecretsManagerKeySource(s.config.PrivateKeySecret, nil, l)
		if err != nil {
			return nil, err
		}
		privateKey.WithKeySource(source)
	}
	registry := connector.NewRegistry(privateKey)

	if s.injected != nil {
		registry.Register(connector.NewInjectedConnector(wallet.KindMetamask, s.injected, l))
		registry.Register(connector.NewInjectedConnector(wallet.KindWeb3, s.injected, l))
	}

	if s.config.Portis != nil {
		login := &connector.DialLogin{URL: s.config.Portis.NodeURL, Logger: l}
		registry.Register(connector.NewPortisConnector(s.config.Portis, login, l))
	}

	paths, err := connector.NewStaticDerivation(s.config.DerivationPath)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path: %w", err)
	}
	usb := connector.NewUSBTransport(l)
	registry.Register(connector.NewHardwareConnector(wallet.KindLedger, paths, usb, client, l))
	registry.Register(connector.NewHardwareConnector(wallet.KindTrezor, paths, usb, client, l))

	if s.config.KMS != nil {
		registry.Register(connector.NewAWSKMSConnector(s.config.KMS, nil, client, l))
	}
	return registry, nil
}

// connect connects kind and waits for the handshake.
func (s *session) connect(ctx context.Context, name string) (wallet.Signer, error) {
	kind, err := wallet.ParseKind(name)
	if err != nil {
		return nil, err
	}
	attempt, err := s.orchestrator.Connect(ctx, kind)
	if err != nil {
		return nil, err
	}
	if _, err := attempt.Wait(ctx); err != nil {
		return nil, err
	}
	return s.orchestrator.GetSigner()
}

func (s *session) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Disconnect()
	}
	if s.subscription != nil {
		s.subscription.Unsubscribe()
	}
	if s.injected != nil {
		s.injected.Close()
	}
	if s.chains != nil {
		s.chains.Close()
	}
	if s.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.metricsServer.Shutdown(ctx)
	}
}

// logEvents drains the bus into the log for as long as the subscription is open.
func logEvents(bus *events.Bus, l *zap.Logger) event.Subscription {
	ch := make(chan events.Event, 16)
	sub := bus.Subscribe(ch)
	go func() {
		for {
			select {
			case ev := <-ch:
				fields := []zap.Field{zap.String("type", string(ev.Type))}
				if ev.Kind != "" {
					fields = append(fields, zap.String("kind", ev.Kind.String()))
				}
				if ev.Address != "" {
					fields = append(fields, zap.String("address", ev.Address))
				}
				if ev.Message != "" {
					fields = append(fields, zap.String("message", ev.Message))
				}
				if ev.Action != nil {
					fields = append(fields,
						zap.String("actionId", ev.Action.ID),
						zap.String("actionType", string(ev.Action.Type)),
						zap.NamedError("outcome", ev.Action.Err),
					)
				}
				l.Info("wallet event", fields...)
			case <-sub.Err():
				return
			}
		}
	}()
	return sub
}
