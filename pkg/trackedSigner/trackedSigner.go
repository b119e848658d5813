// Package trackedSigner decorates a connected backend so every outbound call is decoded and tracked
// before it reaches the backend.
package trackedSigner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Layr-Labs/wallet-connector-go/pkg/actionDecoder"
	"github.com/Layr-Labs/wallet-connector-go/pkg/actionTracker"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

type IDecoder interface {
	Decode(call actionDecoder.Call) (*wallet.DecodedAction, error)
}

type TrackedSigner struct {
	inner   wallet.Signer
	decoder IDecoder
	tracker actionTracker.IActionTracker
	logger  *zap.Logger
}

// NewTrackedSigner wraps inner.
//
// Parameters:
//   - inner: The backend signer produced by a connector handshake
//   - decoder: Decoder applied to every outbound call
//   - tracker: Tracker receiving the action lifecycle
//   - logger: A zap logger
//
// Returns:
//   - *TrackedSigner: The decorated signer
func NewTrackedSigner(inner wallet.Signer, decoder IDecoder, tracker actionTracker.IActionTracker, logger *zap.Logger) *TrackedSigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackedSigner{
		inner:   inner,
		decoder: decoder,
		tracker: tracker,
		logger:  logger,
	}
}

func (s *TrackedSigner) Address(ctx context.Context) (common.Address, error) {
	return s.inner.Address(ctx)
}

// SignAndSend decodes req, opens an action, fills zero gas fields from the estimate and delegates.
// A call that cannot be decoded is rejected before any action is opened.
func (s *TrackedSigner) SignAndSend(ctx context.Context, req *wallet.Request) (*types.Receipt, error) {
	if req == nil {
		return nil, errors.New("request must not be nil")
	}
	action, err := s.decoder.Decode(actionDecoder.Call{Target: req.To, Payload: req.Data})
	if err != nil {
		s.logger.Sugar().Warnw("Refusing to sign undecodable call",
			zap.String("to", req.To.Hex()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to decode outbound call: %w", err)
	}

	record := s.tracker.Begin(wallet.ActionSendTransaction, wallet.ActionParams{Transaction: action})

	filled := *req
	if filled.GasLimit == 0 {
		filled.GasLimit = action.EstimatedGas.Limit
	}
	if (filled.GasPrice == nil || filled.GasPrice.Sign() == 0) && action.EstimatedGas.Price != nil && action.EstimatedGas.Price.Sign() > 0 {
		filled.GasPrice = action.EstimatedGas.Price
	}

	receipt, err := s.inner.SignAndSend(ctx, &filled)
	s.finish(record, err)
	return receipt, err
}

func (s *TrackedSigner) SignMessage(ctx context.Context, text string) ([]byte, error) {
	record := s.tracker.Begin(wallet.ActionSignMessage, wallet.ActionParams{SignatureText: text})
	sig, err := s.inner.SignMessage(ctx, text)
	s.finish(record, err)
	return sig, err
}

// Close releases the wrapped backend if it holds resources.
func (s *TrackedSigner) Close() error {
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *TrackedSigner) finish(record wallet.ActionRecord, outcome error) {
	if _, err := s.tracker.Finish(record, outcome); err != nil {
		s.logger.Sugar().Warnw("Failed to finish action",
			zap.String("id", record.ID),
			zap.Error(err),
		)
	}
}
