package txSigner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// HardwareSigner implements ITransactionSigner with an opened go-ethereum accounts.Wallet, typically a
// Ledger or Trezor device from accounts/usbwallet. Every signature is confirmed on the device.
type HardwareSigner struct {
	wallet  accounts.Wallet
	account accounts.Account
}

// NewHardwareSigner binds an opened wallet to one of its derived accounts.
func NewHardwareSigner(wallet accounts.Wallet, account accounts.Account) *HardwareSigner {
	return &HardwareSigner{wallet: wallet, account: account}
}

func (h *HardwareSigner) GetTransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{
		From:    h.account.Address,
		Context: ctx,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != h.account.Address {
				return nil, fmt.Errorf("address mismatch: expected %s, got %s", h.account.Address.Hex(), address.Hex())
			}
			return h.wallet.SignTx(h.account, tx, chainID)
		},
	}, nil
}

func (h *HardwareSigner) GetAddress() (common.Address, error) {
	return h.account.Address, nil
}

func (h *HardwareSigner) SignText(_ context.Context, text []byte) ([]byte, error) {
	sig, err := h.wallet.SignText(h.account, text)
	if err != nil {
		return nil, fmt.Errorf("device refused to sign message: %w", err)
	}
	return sig, nil
}

// Close releases the device.
func (h *HardwareSigner) Close() error {
	return h.wallet.Close()
}
