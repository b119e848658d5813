// Package wallet defines the data model shared by the wallet-connection core: the closed set of wallet
// kinds, the Signer capability every connected backend exposes, and the immutable records produced while
// decoding and tracking signing actions.
package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Kind identifies a class of signing backend and selects the connector strategy used to reach it.
type Kind string

const (
	KindMetamask   Kind = "metamask"
	KindPortis     Kind = "portis"
	KindLedger     Kind = "ledger"
	KindTrezor     Kind = "trezor"
	KindPrivateKey Kind = "privateKey"
	KindWeb3       Kind = "web3"
	KindCustom     Kind = "custom"
)

// Kinds lists every connectable wallet kind in a stable order.
var Kinds = []Kind{
	KindMetamask,
	KindPortis,
	KindLedger,
	KindTrezor,
	KindPrivateKey,
	KindWeb3,
	KindCustom,
}

// ParseKind converts a string into a connectable Kind.
//
// Parameters:
//   - s: The wallet kind name, e.g. "metamask" or "ledger"
//
// Returns:
//   - Kind: The parsed kind
//   - error: An error if s does not name a connectable kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%s walletType not expected", s)
}

// Injected reports whether the kind is reached through a browser-style injected provider that must be
// reported available before a connection is attempted. The generic web3 kind is the catch-all and is
// never gated.
func (k Kind) Injected() bool {
	return k == KindMetamask
}

func (k Kind) String() string {
	return string(k)
}

// Request is an outbound call to be signed and submitted by the active Signer.
// Zero gas fields are filled from the decoded gas estimate before the backend sees the request.
type Request struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Signer is the capability handed out for the connected identity.
type Signer interface {
	// Address returns the account the signer acts for.
	Address(ctx context.Context) (common.Address, error)

	// SignAndSend signs the request, submits it and waits for it to be mined.
	SignAndSend(ctx context.Context, req *Request) (*types.Receipt, error)

	// SignMessage produces an EIP-191 personal signature over text.
	SignMessage(ctx context.Context, text string) ([]byte, error)
}
