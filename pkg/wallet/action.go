package wallet

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Parameter is one decoded argument of an outbound call.
type Parameter struct {
	Name string
	// Display is the lowercase rendering of Value. It is lossy and must never be used as the value passed
	// to a signer.
	Display string
	// Value is the typed value as unpacked from the calldata.
	Value any
}

// GasEstimate is the gas limit and price applied to a decoded call.
type GasEstimate struct {
	Limit uint64
	Price *big.Int
}

// DecodedAction is the human-auditable form of an outbound call.
type DecodedAction struct {
	Name         string
	Parameters   []Parameter
	Target       common.Address
	EstimatedGas GasEstimate
}

// Display returns the parameter display strings keyed by argument name.
func (d *DecodedAction) Display() map[string]string {
	out := make(map[string]string, len(d.Parameters))
	for _, p := range d.Parameters {
		out[p.Name] = p.Display
	}
	return out
}

// Param looks up a parameter by its declared argument name.
func (d *DecodedAction) Param(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

type ActionType string

const (
	ActionSendTransaction ActionType = "sendTransaction"
	ActionSignMessage     ActionType = "signMessage"
)

type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseFinished Phase = "finished"
)

// ActionParams carries either a decoded transaction or the raw text of a signature request.
type ActionParams struct {
	Transaction   *DecodedAction
	SignatureText string
}

// ActionRecord is a snapshot of a signing action. Records are values: finishing an action produces a
// new record and never changes the pending one.
type ActionRecord struct {
	ID         string
	Type       ActionType
	Phase      Phase
	Params     ActionParams
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}
