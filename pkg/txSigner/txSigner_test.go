package txSigner

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Layr-Labs/wallet-connector-go/pkg/chainManager"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// well-known hardhat account #0
const testKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testKeyAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func recoverText(t *testing.T, text string, sig []byte) common.Address {
	require.Len(t, sig, crypto.SignatureLength)
	require.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])
	raw := append([]byte{}, sig...)
	raw[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(text)), raw)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(*pub)
}

func TestPrivateKeySigner(t *testing.T) {
	signer, err := NewPrivateKeySigner(testKeyHex)
	require.NoError(t, err)

	address, err := signer.GetAddress()
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, address)

	sig, err := signer.SignText(context.Background(), []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, recoverText(t, "hello", sig))

	_, err = NewPrivateKeySigner("not-a-key")
	assert.Error(t, err)
}

func newChainSigner(t *testing.T) (*ChainSigner, *chainManager.MockEthClientInterface) {
	keySigner, err := NewPrivateKeySigner(testKeyHex)
	require.NoError(t, err)
	client := chainManager.NewMockEthClientInterface(t)
	return NewChainSigner(keySigner, client, zap.NewNop()), client
}

func TestChainSigner_SignAndSend(t *testing.T) {
	s, client := newChainSigner(t)
	to := common.HexToAddress("0x0000000000000000000000000000000000000bbb")
	chainID := big.NewInt(31337)

	var sent *types.Transaction
	client.On("ChainID", mock.Anything).Return(chainID, nil).Once()
	client.On("PendingNonceAt", mock.Anything, testKeyAddress).Return(uint64(7), nil).Once()
	client.On("SendTransaction", mock.Anything, mock.AnythingOfType("*types.Transaction")).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(*types.Transaction)
		}).
		Return(nil).Once()
	client.On("TransactionReceipt", mock.Anything, mock.AnythingOfType("common.Hash")).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil).Once()

	receipt, err := s.SignAndSend(context.Background(), &wallet.Request{
		To:       to,
		Data:     []byte{0xa9, 0x05, 0x9c, 0xbb},
		GasLimit: 160000,
		GasPrice: big.NewInt(20_000_000_000),
	})
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	require.NotNil(t, sent)
	assert.Equal(t, uint8(types.LegacyTxType), sent.Type())
	assert.Equal(t, uint64(7), sent.Nonce())
	assert.Equal(t, uint64(160000), sent.Gas())
	assert.Equal(t, to, *sent.To())
	from, err := types.Sender(types.LatestSignerForChainID(chainID), sent)
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, from)
}

func TestChainSigner_FillsGasFromNode(t *testing.T) {
	s, client := newChainSigner(t)

	client.On("ChainID", mock.Anything).Return(big.NewInt(1), nil).Once()
	client.On("PendingNonceAt", mock.Anything, testKeyAddress).Return(uint64(0), nil).Once()
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(3), nil).Once()
	client.On("EstimateGas", mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.From == testKeyAddress && msg.GasPrice.Int64() == 3
	})).Return(uint64(21000), nil).Once()
	client.On("SendTransaction", mock.Anything, mock.MatchedBy(func(tx *types.Transaction) bool {
		return tx.Gas() == 21000 && tx.GasPrice().Int64() == 3
	})).Return(nil).Once()
	client.On("TransactionReceipt", mock.Anything, mock.Anything).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil).Once()

	receipt, err := s.SignAndSend(context.Background(), &wallet.Request{To: common.HexToAddress("0x01")})
	assert.ErrorIs(t, err, ErrTransactionReverted)
	require.NotNil(t, receipt)
}

func TestChainSigner_SendFailure(t *testing.T) {
	s, client := newChainSigner(t)

	client.On("ChainID", mock.Anything).Return(big.NewInt(1), nil).Once()
	client.On("PendingNonceAt", mock.Anything, testKeyAddress).Return(uint64(0), nil).Once()
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(errors.New("nonce too low")).Once()

	_, err := s.SignAndSend(context.Background(), &wallet.Request{
		To:       common.HexToAddress("0x01"),
		GasLimit: 21000,
		GasPrice: big.NewInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce too low")
}

func TestChainSigner_WithoutClient(t *testing.T) {
	key, err := NewPrivateKeySigner(testKeyHex)
	require.NoError(t, err)
	s := NewChainSigner(key, nil, zap.NewNop())

	_, err = s.SignAndSend(context.Background(), &wallet.Request{To: common.HexToAddress("0x01")})
	assert.ErrorIs(t, err, ErrNoChainClient)

	sig, err := s.SignMessage(context.Background(), "login")
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, recoverText(t, "login", sig))
}

func TestChainSigner_SignMessage(t *testing.T) {
	s, _ := newChainSigner(t)

	sig, err := s.SignMessage(context.Background(), "login")
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, recoverText(t, "login", sig))

	address, err := s.Address(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testKeyAddress, address)
	assert.NoError(t, s.Close())
}
