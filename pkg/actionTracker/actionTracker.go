// Package actionTracker records the lifecycle of signing actions. Each action is announced once when it
// begins and once when it finishes; a finished action is never reopened.
package actionTracker

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/metrics"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotPending is returned when finishing an action that is unknown or already finished.
var ErrNotPending = errors.New("action is not pending")

type IActionTracker interface {
	Begin(actionType wallet.ActionType, params wallet.ActionParams) wallet.ActionRecord
	Finish(record wallet.ActionRecord, outcome error) (wallet.ActionRecord, error)
}

type Tracker struct {
	mu      sync.Mutex
	pending map[string]wallet.ActionRecord

	emitter events.Emitter
	metrics metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewTracker creates a tracker that announces actions on emitter.
//
// Parameters:
//   - emitter: Destination of actionBegun/actionFinished notifications
//   - recorder: Metrics sink, may be nil
//   - logger: A zap logger
//
// Returns:
//   - *Tracker: A tracker with no pending actions
func NewTracker(emitter events.Emitter, recorder metrics.Recorder, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		pending: make(map[string]wallet.ActionRecord),
		emitter: emitter,
		metrics: metrics.OrNoop(recorder),
		logger:  logger,
		now:     time.Now,
	}
}

// Begin opens a pending action and announces it. The returned record is the handle used to finish it.
func (t *Tracker) Begin(actionType wallet.ActionType, params wallet.ActionParams) wallet.ActionRecord {
	record := wallet.ActionRecord{
		ID:        uuid.NewString(),
		Type:      actionType,
		Phase:     wallet.PhasePending,
		Params:    params,
		StartedAt: t.now(),
	}

	t.mu.Lock()
	t.pending[record.ID] = record
	t.mu.Unlock()

	t.logger.Sugar().Debugw("Action begun",
		zap.String("id", record.ID),
		zap.String("type", string(actionType)),
	)
	t.metrics.IncCounter("action_begun", map[string]string{"kind": string(actionType)})
	t.emitter.Emit(events.ActionBegun(record))
	return record
}

// Finish closes a pending action with outcome (nil on success) and announces the finished record.
//
// Parameters:
//   - record: The record returned by Begin
//   - outcome: The error the action ended with, or nil
//
// Returns:
//   - wallet.ActionRecord: The finished record
//   - error: ErrNotPending if record is unknown or was already finished
func (t *Tracker) Finish(record wallet.ActionRecord, outcome error) (wallet.ActionRecord, error) {
	t.mu.Lock()
	open, ok := t.pending[record.ID]
	if ok {
		delete(t.pending, record.ID)
	}
	t.mu.Unlock()

	if !ok {
		return record, fmt.Errorf("%w: %s", ErrNotPending, record.ID)
	}

	finished := open
	finished.Phase = wallet.PhaseFinished
	finished.Err = outcome
	finished.FinishedAt = t.now()

	status := "success"
	if outcome != nil {
		status = "failure"
	}
	t.logger.Sugar().Debugw("Action finished",
		zap.String("id", finished.ID),
		zap.String("type", string(finished.Type)),
		zap.String("status", status),
	)
	t.metrics.IncCounter("action_finished_"+status, map[string]string{"kind": string(finished.Type)})
	t.metrics.ObserveLatency("action", finished.FinishedAt.Sub(finished.StartedAt), map[string]string{"kind": string(finished.Type)})
	t.emitter.Emit(events.ActionFinished(finished))
	return finished, nil
}

// Pending lists the open actions ordered by start time.
func (t *Tracker) Pending() []wallet.ActionRecord {
	t.mu.Lock()
	out := make([]wallet.ActionRecord, 0, len(t.pending))
	for _, r := range t.pending {
		out = append(out, r)
	}
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
