package provider

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var account = common.HexToAddress("0x00000000000000000000000000000000000000aa")

type ethService struct {
	sent     []sendTxArgs
	receipts map[common.Hash]*types.Receipt
}

func (s *ethService) RequestAccounts() ([]common.Address, error) {
	return []common.Address{account}, nil
}

func (s *ethService) ChainId() (*hexutil.Big, error) {
	return (*hexutil.Big)(big.NewInt(1337)), nil
}

func (s *ethService) SendTransaction(args sendTxArgs) (common.Hash, error) {
	s.sent = append(s.sent, args)
	return common.HexToHash("0x01"), nil
}

func (s *ethService) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	return s.receipts[hash], nil
}

type legacyEthService struct{}

func (legacyEthService) Accounts() ([]common.Address, error) {
	return []common.Address{account}, nil
}

type personalService struct{}

func (personalService) Sign(data hexutil.Bytes, addr common.Address) (hexutil.Bytes, error) {
	if addr != account {
		return nil, errors.New("unknown account")
	}
	return append([]byte{0x99}, data...), nil
}

func newInProcProvider(t *testing.T, eth interface{}) *RPCProvider {
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", eth))
	require.NoError(t, server.RegisterName("personal", personalService{}))
	t.Cleanup(server.Stop)

	p := NewRPCProvider(rpc.DialInProc(server), zap.NewNop())
	t.Cleanup(p.Close)
	return p
}

func Test_RequestAccounts(t *testing.T) {
	p := newInProcProvider(t, &ethService{})
	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{account}, accounts)

	legacy := newInProcProvider(t, legacyEthService{})
	accounts, err = legacy.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{account}, accounts)
}

func Test_SendTransaction(t *testing.T) {
	svc := &ethService{}
	p := newInProcProvider(t, svc)

	hash, err := p.SendTransaction(context.Background(), account, &wallet.Request{
		To:       common.HexToAddress("0x02"),
		Data:     []byte{0x01, 0x02},
		GasLimit: 160000,
		GasPrice: big.NewInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x01"), hash)

	require.Len(t, svc.sent, 1)
	sent := svc.sent[0]
	assert.Equal(t, account, sent.From)
	assert.Equal(t, uint64(160000), uint64(*sent.Gas))
	assert.Equal(t, int64(20), sent.GasPrice.ToInt().Int64())
	assert.Nil(t, sent.Value)
	assert.Equal(t, hexutil.Bytes{0x01, 0x02}, sent.Data)
}

func Test_ChainIDAndSign(t *testing.T) {
	p := newInProcProvider(t, &ethService{})

	id, err := p.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1337), id.Int64())

	sig, err := p.PersonalSign(context.Background(), account, "hi")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x99, 'h', 'i'}, sig)
}

func Test_TransactionReceipt(t *testing.T) {
	mined := common.HexToHash("0x0a")
	svc := &ethService{receipts: map[common.Hash]*types.Receipt{
		mined: {Status: types.ReceiptStatusSuccessful, TxHash: mined, Logs: []*types.Log{}},
	}}
	p := newInProcProvider(t, svc)

	_, err := p.TransactionReceipt(context.Background(), common.HexToHash("0x0b"))
	assert.ErrorIs(t, err, ethereum.NotFound)

	receipt, err := p.TransactionReceipt(context.Background(), mined)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}
