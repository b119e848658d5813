package txSigner

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"math/big"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/kms"
	"github.com/aws/aws-sdk-go/service/kms/kmsiface"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// fakeKMS signs with an in-memory key and answers like KMS does: DER public keys and DER signatures
// that are not normalised to low-s.
type fakeKMS struct {
	kmsiface.KMSAPI
	key     *ecdsa.PrivateKey
	highS   bool
	signErr error
}

func (f *fakeKMS) GetPublicKeyWithContext(_ aws.Context, in *kms.GetPublicKeyInput, _ ...request.Option) (*kms.GetPublicKeyOutput, error) {
	params, err := asn1.Marshal(oidSecp256k1)
	if err != nil {
		return nil, err
	}
	pub := crypto.FromECDSAPub(&f.key.PublicKey)
	der, err := asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{Algorithm: oidECPublicKey, Parameters: asn1.RawValue{FullBytes: params}},
		PublicKey: asn1.BitString{Bytes: pub, BitLength: len(pub) * 8},
	})
	if err != nil {
		return nil, err
	}
	return &kms.GetPublicKeyOutput{KeyId: in.KeyId, PublicKey: der}, nil
}

func (f *fakeKMS) SignWithContext(_ aws.Context, in *kms.SignInput, _ ...request.Option) (*kms.SignOutput, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	sig, err := crypto.Sign(in.Message, f.key)
	if err != nil {
		return nil, err
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if f.highS {
		s = new(big.Int).Sub(secp256k1N, s)
	}
	der, err := asn1.Marshal(ecdsaSignature{R: r, S: s})
	if err != nil {
		return nil, err
	}
	return &kms.SignOutput{KeyId: in.KeyId, Signature: der}, nil
}

func newKMSSigner(t *testing.T, highS bool) (*AWSKMSSigner, *fakeKMS) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	fake := &fakeKMS{key: key, highS: highS}
	signer, err := NewAWSKMSSignerWithClient(context.Background(), fake, "alias/test")
	require.NoError(t, err)
	return signer, fake
}

func TestAWSKMSSigner_Address(t *testing.T) {
	signer, fake := newKMSSigner(t, false)
	address, err := signer.GetAddress()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(fake.key.PublicKey), address)
}

func TestAWSKMSSigner_SignText(t *testing.T) {
	for _, highS := range []bool{false, true} {
		signer, fake := newKMSSigner(t, highS)
		sig, err := signer.SignText(context.Background(), []byte("hello kms"))
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(fake.key.PublicKey), recoverText(t, "hello kms", sig))
		assert.True(t, new(big.Int).SetBytes(sig[32:64]).Cmp(secp256k1HalfN) <= 0, "s must be normalised")
	}
}

func TestAWSKMSSigner_SignTx(t *testing.T) {
	signer, fake := newKMSSigner(t, true)
	chainID := big.NewInt(17000)
	opts, err := signer.GetTransactOpts(context.Background(), chainID)
	require.NoError(t, err)

	tx := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, Value: big.NewInt(0)})
	signed, err := opts.Signer(opts.From, tx)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(fake.key.PublicKey), from)

	_, err = opts.Signer(testKeyAddress, tx)
	assert.Error(t, err)
}

func TestAWSKMSSigner_SignError(t *testing.T) {
	signer, fake := newKMSSigner(t, false)
	fake.signErr = errors.New("AccessDeniedException")

	_, err := signer.SignText(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, fake.signErr)
}

func TestParseASN1Signature(t *testing.T) {
	der, err := asn1.Marshal(ecdsaSignature{R: big.NewInt(5), S: big.NewInt(9)})
	require.NoError(t, err)
	r, s, err := parseASN1Signature(der)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Int64())
	assert.Equal(t, int64(9), s.Int64())

	_, _, err = parseASN1Signature([]byte{0x30, 0x01})
	assert.Error(t, err)

	_, _, err = parseASN1Signature(append(der, 0x00))
	assert.Error(t, err)
}
