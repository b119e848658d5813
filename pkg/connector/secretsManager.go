package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"go.uber.org/zap"
)

const defaultVersionStage = "AWSCURRENT"

// KeySource resolves a hex private key when a privateKey wallet connects.
type KeySource interface {
	PrivateKey(ctx context.Context) (string, error)
}

// AWSSecretsManagerConfig names the secret holding a private key.
type AWSSecretsManagerConfig struct {
	SecretName string `yaml:"secretName" validate:"required"`
	Region     string `yaml:"region" validate:"required"`
	// VersionStage defaults to AWSCURRENT.
	VersionStage string `yaml:"versionStage"`
}

// AWSSecretsManagerKeySource reads the private key from AWS Secrets Manager on every handshake, so
// the key is never held between connections.
//
// The secret string is either the hex key itself or a JSON object {"privateKey": "<hex>"}.
type AWSSecretsManagerKeySource struct {
	client secretsmanageriface.SecretsManagerAPI
	config *AWSSecretsManagerConfig
	logger *zap.Logger
}

// NewAWSSecretsManagerKeySource creates a key source for cfg.
//
// Parameters:
//   - cfg: Secret name, region and optional version stage
//   - client: Secrets Manager client, or nil to create a session for cfg.Region
//   - logger: A zap logger
//
// Returns:
//   - *AWSSecretsManagerKeySource: The key source
//   - error: An error if the AWS session cannot be created
func NewAWSSecretsManagerKeySource(cfg *AWSSecretsManagerConfig, client secretsmanageriface.SecretsManagerAPI, logger *zap.Logger) (*AWSSecretsManagerKeySource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil || cfg.SecretName == "" {
		return nil, errors.New("secret name is required")
	}
	if client == nil {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.Region),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		client = secretsmanager.New(sess)
	}
	return &AWSSecretsManagerKeySource{client: client, config: cfg, logger: logger}, nil
}

func (s *AWSSecretsManagerKeySource) PrivateKey(ctx context.Context) (string, error) {
	stage := s.config.VersionStage
	if stage == "" {
		stage = defaultVersionStage
	}
	result, err := s.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(s.config.SecretName),
		VersionStage: aws.String(stage),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", s.config.SecretName, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", s.config.SecretName)
	}
	s.logger.Sugar().Debugw("Loaded private key secret",
		zap.String("secret", s.config.SecretName),
		zap.String("versionStage", stage),
	)
	return parseKeySecret(*result.SecretString)
}

func parseKeySecret(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if !strings.HasPrefix(secret, "{") {
		return secret, nil
	}
	var payload struct {
		PrivateKey string `json:"privateKey"`
	}
	if err := json.Unmarshal([]byte(secret), &payload); err != nil {
		return "", fmt.Errorf("failed to parse key secret: %w", err)
	}
	if payload.PrivateKey == "" {
		return "", errors.New("key secret has no privateKey field")
	}
	return payload.PrivateKey, nil
}
