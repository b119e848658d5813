package signerLifecycle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type closingSigner struct {
	*wallet.MockSigner
	closed int
}

func (c *closingSigner) Close() error {
	c.closed++
	return nil
}

func TestSignerLifecycle_GetBeforeSet(t *testing.T) {
	l := NewSignerLifecycle()

	s, err := l.Get()
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, l.IsSet())
}

func TestSignerLifecycle_SetGetClear(t *testing.T) {
	l := NewSignerLifecycle()
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	signer := wallet.NewMockSigner(t)
	signer.On("Address", mock.Anything).Return(addr, nil).Once()

	l.Set(signer)
	require.True(t, l.IsSet())

	borrowed, err := l.Get()
	require.NoError(t, err)
	got, err := borrowed.Address(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	l.Clear()
	_, err = l.Get()
	assert.ErrorIs(t, err, ErrNotInitialized)

	// the handle borrowed before Clear must not reach the old signer
	_, err = borrowed.Address(context.Background())
	assert.ErrorIs(t, err, ErrSignerReplaced)

	// clearing twice is a no-op
	assert.NotPanics(t, l.Clear)
}

func TestSignerLifecycle_ReplaceRevokesAndCloses(t *testing.T) {
	l := NewSignerLifecycle()

	first := &closingSigner{MockSigner: wallet.NewMockSigner(t)}
	second := wallet.NewMockSigner(t)
	second.On("SignMessage", mock.Anything, "hi").Return([]byte{1}, nil).Once()

	l.Set(first)
	old, err := l.Get()
	require.NoError(t, err)

	l.Set(second)
	assert.Equal(t, 1, first.closed)

	_, err = old.SignMessage(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrSignerReplaced)

	current, err := l.Get()
	require.NoError(t, err)
	sig, err := current.SignMessage(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, sig)
}

func TestSignerLifecycle_SetNilClears(t *testing.T) {
	l := NewSignerLifecycle()
	l.Set(wallet.NewMockSigner(t))
	l.Set(nil)

	_, err := l.Get()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

type countingCloser struct {
	*wallet.MockSigner
	closed atomic.Int32
}

func (c *countingCloser) Close() error {
	c.closed.Add(1)
	return nil
}

func TestSignerLifecycle_ReplaceWaitsForRunningCall(t *testing.T) {
	l := NewSignerLifecycle()
	started := make(chan struct{})
	release := make(chan struct{})

	first := &countingCloser{MockSigner: wallet.NewMockSigner(t)}
	first.On("SignMessage", mock.Anything, "slow").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]byte{7}, nil).Once()

	l.Set(first)
	borrowed, err := l.Get()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := borrowed.SignMessage(context.Background(), "slow")
		done <- err
	}()
	<-started

	l.Set(wallet.NewMockSigner(t))
	assert.Equal(t, int32(0), first.closed.Load(), "closed while a call was running")

	_, err = borrowed.SignMessage(context.Background(), "late")
	assert.ErrorIs(t, err, ErrSignerReplaced)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("running call did not return")
	}
	assert.Equal(t, int32(1), first.closed.Load())

	l.Clear()
	assert.Equal(t, int32(1), first.closed.Load())
}
