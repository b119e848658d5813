// Package events carries the outbound notifications of the wallet core.
// Notifications are delivered over a go-ethereum event.Feed, so every subscriber observes them in the
// order they were emitted.
package events

import (
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"
)

type Type string

const (
	TypeConnected           Type = "connected"
	TypeConnectionError     Type = "connectionError"
	TypeDisconnected        Type = "disconnected"
	TypeAvailabilityChanged Type = "availabilityChanged"
	TypeWeb3Enabled         Type = "web3Enabled"
	TypeWeb3Disabled        Type = "web3Disabled"
	TypeActionBegun         Type = "actionBegun"
	TypeActionFinished      Type = "actionFinished"
)

// Event is a single outbound notification. Only the fields relevant to Type are set.
type Event struct {
	Type         Type
	Kind         wallet.Kind
	Address      string
	Message      string
	Availability wallet.AvailabilityMap
	Action       *wallet.ActionRecord
}

// Emitter is implemented by anything that accepts outbound notifications.
type Emitter interface {
	Emit(ev Event)
}

func Connected(kind wallet.Kind, address string) Event {
	return Event{Type: TypeConnected, Kind: kind, Address: address}
}

func ConnectionError(message string) Event {
	return Event{Type: TypeConnectionError, Message: message}
}

func Disconnected(kind wallet.Kind) Event {
	return Event{Type: TypeDisconnected, Kind: kind}
}

func AvailabilityChanged(m wallet.AvailabilityMap) Event {
	return Event{Type: TypeAvailabilityChanged, Availability: m.Clone()}
}

func Web3Enabled() Event {
	return Event{Type: TypeWeb3Enabled}
}

func Web3Disabled() Event {
	return Event{Type: TypeWeb3Disabled}
}

func ActionBegun(rec wallet.ActionRecord) Event {
	return Event{Type: TypeActionBegun, Action: &rec}
}

func ActionFinished(rec wallet.ActionRecord) Event {
	return Event{Type: TypeActionFinished, Action: &rec}
}

// Bus fans notifications out to subscribers.
type Bus struct {
	feed   event.Feed
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Emit delivers ev to every current subscriber. It blocks until each subscriber channel accepted the
// event, so subscribers should use buffered channels or drain promptly.
func (b *Bus) Emit(ev Event) {
	n := b.feed.Send(ev)
	b.logger.Sugar().Debugw("Emitted wallet event",
		zap.String("type", string(ev.Type)),
		zap.String("kind", string(ev.Kind)),
		zap.Int("subscribers", n),
	)
}

// Subscribe registers ch for all future events.
func (b *Bus) Subscribe(ch chan<- Event) event.Subscription {
	return b.feed.Subscribe(ch)
}
