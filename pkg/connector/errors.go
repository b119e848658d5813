package connector

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/rpc"
)

// userRejectedRequest is the EIP-1193 error code of a request the user declined.
const userRejectedRequest = 4001

// FormatErrorMessage turns a handshake error into a message fit to show the user.
func FormatErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "Connection request was cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Connection request timed out"
	case errors.Is(err, accounts.ErrWalletClosed):
		return "Hardware wallet is closed"
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.TrimSpace(rpcErr.Error())
		if rpcErr.ErrorCode() == userRejectedRequest && msg == "" {
			return "User rejected the request"
		}
		if msg != "" {
			return msg
		}
	}
	return err.Error()
}
