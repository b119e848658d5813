package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDetector(t *testing.T) (*Detector, chan events.Event) {
	bus := events.NewBus(zap.NewNop())
	ch := make(chan events.Event, 32)
	sub := bus.Subscribe(ch)
	t.Cleanup(sub.Unsubscribe)
	return NewDetector(bus, nil, zap.NewNop()), ch
}

func drain(ch chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func Test_ProbeIsPure(t *testing.T) {
	d, ch := newTestDetector(t)
	env := &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true}}

	m := d.Probe(env)
	assert.True(t, m[wallet.KindMetamask])
	assert.Empty(t, drain(ch))
	assert.False(t, d.Available(wallet.KindMetamask))
}

func Test_DetectNotifiesOnlyOnChange(t *testing.T) {
	d, ch := newTestDetector(t)
	env := &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true}}

	d.Detect(env)
	first := drain(ch)
	require.Len(t, first, 2)
	assert.Equal(t, events.TypeWeb3Enabled, first[0].Type)
	assert.Equal(t, events.TypeAvailabilityChanged, first[1].Type)
	assert.True(t, first[1].Availability[wallet.KindMetamask])
	assert.True(t, d.Available(wallet.KindMetamask))

	d.Detect(env)
	assert.Empty(t, drain(ch), "an unchanged environment must not notify")

	env.Provider.IsTrust = true
	d.Detect(env)
	changed := drain(ch)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].Availability[wallet.VendorTrust])
}

func Test_DetectWithoutProvider(t *testing.T) {
	d, ch := newTestDetector(t)

	m := d.Detect(&StaticEnvironment{})
	for kind, ok := range m {
		assert.False(t, ok, kind)
	}
	assert.Empty(t, drain(ch), "the initial snapshot is already all-false")

	env := &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true}}
	d.Detect(env)
	drain(ch)

	env.Provider = nil
	d.Detect(env)
	got := drain(ch)
	require.Len(t, got, 2)
	assert.Equal(t, events.TypeWeb3Disabled, got[0].Type)
	assert.Equal(t, events.TypeAvailabilityChanged, got[1].Type)
	assert.False(t, d.Web3Enabled())

	d.Detect(env)
	assert.Empty(t, drain(ch), "disable fires once per transition")
}

func Test_DefaultRules(t *testing.T) {
	d, _ := newTestDetector(t)

	tests := []struct {
		name string
		env  *StaticEnvironment
		kind wallet.Kind
		want bool
	}{
		{"metamask on desktop", &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true}}, wallet.KindMetamask, true},
		{"metamask on mobile", &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true}, Mobile: true}, wallet.KindMetamask, false},
		{"metamask flag set by eql", &StaticEnvironment{Provider: &ProviderFlags{IsMetaMask: true, IsEQLWallet: true}}, wallet.KindMetamask, false},
		{"eql", &StaticEnvironment{Provider: &ProviderFlags{IsEQLWallet: true}}, wallet.VendorEqual, true},
		{"cipher", &StaticEnvironment{Provider: &ProviderFlags{ConstructorName: "CipherProvider"}}, wallet.VendorCipher, true},
		{"status", &StaticEnvironment{Provider: &ProviderFlags{IsStatus: true}}, wallet.VendorStatus, true},
		{"coinbase", &StaticEnvironment{Provider: &ProviderFlags{IsToshi: true}}, wallet.VendorCoinbase, true},
		{"imtoken", &StaticEnvironment{Provider: &ProviderFlags{}, Globals: []string{GlobalImToken}}, wallet.VendorImToken, true},
		{"opera by user agent", &StaticEnvironment{Provider: &ProviderFlags{Connected: true}, Agent: "Mozilla/5.0 Chrome/70 OPR/57.0"}, wallet.VendorOpera, true},
		{"opera disconnected", &StaticEnvironment{Provider: &ProviderFlags{}, Globals: []string{GlobalOpera}}, wallet.VendorOpera, false},
		{"no provider", &StaticEnvironment{Globals: []string{GlobalImToken}}, wallet.VendorImToken, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Probe(tt.env)[tt.kind])
		})
	}
}

func Test_Register(t *testing.T) {
	d, _ := newTestDetector(t)
	const frame wallet.Kind = "frame"
	d.Register(frame, func(env Environment, _ ProviderFlags) bool {
		return env.HasGlobal("frame")
	})

	m := d.Probe(&StaticEnvironment{Provider: &ProviderFlags{}, Globals: []string{"frame"}})
	assert.True(t, m[frame])
	_, known := d.Snapshot()[frame]
	assert.True(t, known)
}

type fakeRPC struct {
	version   string
	listening bool
	err       error
}

func (f *fakeRPC) CallContext(_ context.Context, result interface{}, method string, _ ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	switch method {
	case "web3_clientVersion":
		*result.(*string) = f.version
	case "net_listening":
		*result.(*bool) = f.listening
	default:
		return errors.New("method not found")
	}
	return nil
}

func Test_RPCEnvironment(t *testing.T) {
	rpc := &fakeRPC{version: "MetaMask/v10.1.0", listening: true}
	env := NewRPCEnvironment(rpc, "Mozilla/5.0 (X11; Linux x86_64)", time.Second, zap.NewNop())

	_, ok := env.Web3Provider()
	assert.False(t, ok, "no provider before the first refresh")

	require.NoError(t, env.Refresh(context.Background()))
	flags, ok := env.Web3Provider()
	require.True(t, ok)
	assert.True(t, flags.IsMetaMask)
	assert.True(t, flags.Connected)
	assert.False(t, env.IsMobile())

	rpc.err = errors.New("connection refused")
	require.NoError(t, env.Refresh(context.Background()))
	_, ok = env.Web3Provider()
	assert.False(t, ok)
}

func Test_FlagsFromClientVersion(t *testing.T) {
	flags, globals := FlagsFromClientVersion("imToken/2.0 Cipher")
	assert.Equal(t, "CipherProvider", flags.ConstructorName)
	assert.Equal(t, []string{GlobalImToken}, globals)

	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 12_0)"))
	assert.False(t, IsMobileUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"))
}

func Test_Watch(t *testing.T) {
	d, ch := newTestDetector(t)
	rpc := &fakeRPC{version: "MetaMask/v10.1.0", listening: true}
	env := NewRPCEnvironment(rpc, "", time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Watch(ctx, env, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return d.Available(wallet.KindMetamask)
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	got := drain(ch)
	require.NotEmpty(t, got)
	assert.Equal(t, events.TypeWeb3Enabled, got[0].Type)
}
