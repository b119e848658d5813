package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSecrets struct {
	secretsmanageriface.SecretsManagerAPI
	secret *string
	err    error
	input  *secretsmanager.GetSecretValueInput
}

func (f *fakeSecrets) GetSecretValueWithContext(_ aws.Context, in *secretsmanager.GetSecretValueInput, _ ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: f.secret}, nil
}

const hardhatKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestAWSSecretsManagerKeySource(t *testing.T) {
	cfg := &AWSSecretsManagerConfig{SecretName: "wallet/key", Region: "us-east-1"}

	t.Run("raw hex secret", func(t *testing.T) {
		fake := &fakeSecrets{secret: aws.String(" " + hardhatKey + "\n")}
		src, err := NewAWSSecretsManagerKeySource(cfg, fake, zap.NewNop())
		require.NoError(t, err)

		key, err := src.PrivateKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, hardhatKey, key)
		assert.Equal(t, "wallet/key", aws.StringValue(fake.input.SecretId))
		assert.Equal(t, "AWSCURRENT", aws.StringValue(fake.input.VersionStage))
	})

	t.Run("json secret", func(t *testing.T) {
		fake := &fakeSecrets{secret: aws.String(`{"privateKey":"` + hardhatKey + `"}`)}
		src, err := NewAWSSecretsManagerKeySource(&AWSSecretsManagerConfig{SecretName: "k", Region: "eu-west-1", VersionStage: "AWSPREVIOUS"}, fake, nil)
		require.NoError(t, err)

		key, err := src.PrivateKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, hardhatKey, key)
		assert.Equal(t, "AWSPREVIOUS", aws.StringValue(fake.input.VersionStage))
	})

	t.Run("failures", func(t *testing.T) {
		for name, fake := range map[string]*fakeSecrets{
			"api error":     {err: errors.New("AccessDeniedException")},
			"binary secret": {},
			"bad json":      {secret: aws.String(`{"privateKey":`)},
			"missing field": {secret: aws.String(`{"key":"0x01"}`)},
		} {
			t.Run(name, func(t *testing.T) {
				src, err := NewAWSSecretsManagerKeySource(cfg, fake, nil)
				require.NoError(t, err)
				_, err = src.PrivateKey(context.Background())
				assert.Error(t, err)
			})
		}
	})

	_, err := NewAWSSecretsManagerKeySource(&AWSSecretsManagerConfig{}, &fakeSecrets{}, nil)
	assert.Error(t, err)
}

func TestPrivateKeyConnector_KeySource(t *testing.T) {
	t.Setenv(PrivateKeyEnvVar, "")
	src, err := NewAWSSecretsManagerKeySource(&AWSSecretsManagerConfig{SecretName: "k", Region: "us-east-1"}, &fakeSecrets{secret: aws.String(hardhatKey)}, nil)
	require.NoError(t, err)

	signer, err := NewPrivateKeyConnector("", nil, nil).WithKeySource(src).Handshake(context.Background())
	require.NoError(t, err)
	address, err := signer.Address(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), address)

	failing, err := NewAWSSecretsManagerKeySource(&AWSSecretsManagerConfig{SecretName: "k", Region: "us-east-1"}, &fakeSecrets{err: errors.New("throttled")}, nil)
	require.NoError(t, err)
	_, err = NewPrivateKeyConnector("", nil, nil).WithKeySource(failing).Handshake(context.Background())
	assert.ErrorContains(t, err, "failed to load private key")
}
