package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Layr-Labs/wallet-connector-go/pkg/actionDecoder"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	walletFlag := &cli.StringFlag{
		Name:     "wallet",
		Aliases:  []string{"w"},
		Usage:    "Wallet kind to connect (metamask, web3, portis, ledger, trezor, privateKey, custom)",
		Required: true,
		EnvVars:  []string{"WALLET"},
	}

	return &cli.App{
		Name:  "walletctl",
		Usage: "Connect wallets, decode calls and sign through the active wallet",
		Description: `walletctl detects which wallets are reachable, connects one of them as the single
active signer and signs messages or transactions through it. Every outbound call is
decoded against the configured contract registry before it is signed.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				EnvVars: []string{"DEBUG"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML registry file (chains, contracts, tokens, connector settings)",
				EnvVars: []string{"WALLETCTL_CONFIG"},
			},
			&cli.StringSliceFlag{
				Name:    "chains",
				Aliases: []string{"c"},
				Usage:   "Blockchain configurations in format 'chainId:rpcUrl' (e.g., '17000:https://ethereum-holesky-rpc.publicnode.com')",
				EnvVars: []string{"CHAINS"},
			},
			&cli.Uint64Flag{
				Name:    "chain-id",
				Usage:   "Chain used for signing (defaults to the first configured chain)",
				EnvVars: []string{"CHAIN_ID"},
			},
			&cli.StringFlag{
				Name:  "private-key",
				Usage: "Private key for the privateKey wallet (hex format); PRIVATE_KEY is read when unset",
			},
			&cli.StringFlag{
				Name:    "private-key-secret-name",
				Usage:   "AWS Secrets Manager secret holding the privateKey wallet key",
				EnvVars: []string{"PRIVATE_KEY_SECRET_NAME"},
			},
			&cli.StringFlag{
				Name:    "aws-kms-key-id",
				Usage:   "AWS KMS key ID backing the custom wallet",
				EnvVars: []string{"AWS_KMS_KEY_ID"},
			},
			&cli.StringFlag{
				Name:    "aws-region",
				Usage:   "AWS region of the KMS key and the key secret",
				Value:   "us-east-1",
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "wallet-rpc",
				Usage:   "JSON-RPC endpoint of an injected wallet (metamask, web3)",
				EnvVars: []string{"WALLET_RPC"},
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "User agent reported to wallet detection",
				EnvVars: []string{"USER_AGENT"},
			},
			&cli.StringFlag{
				Name:    "derivation-path",
				Usage:   "Hardware wallet derivation path",
				EnvVars: []string{"DERIVATION_PATH"},
			},
			&cli.StringFlag{
				Name:    "gas-price-gwei",
				Usage:   "Gas price applied to decoded calls, in gwei",
				EnvVars: []string{"GAS_PRICE_GWEI"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address (e.g. ':9090')",
				EnvVars: []string{"METRICS_ADDR"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout of the wallet handshake and of each signing request",
				Value:   2 * time.Minute,
				EnvVars: []string{"TIMEOUT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "detect",
				Usage: "Report which wallets are available",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "watch",
						Usage: "Keep polling at this interval and print availability changes",
					},
				},
				Action: detectAction,
			},
			{
				Name:   "connect",
				Usage:  "Connect a wallet and print its address",
				Flags:  []cli.Flag{walletFlag},
				Action: connectAction,
			},
			{
				Name:  "decode",
				Usage: "Decode a call against the contract registry",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "Target contract address", Required: true},
					&cli.StringFlag{Name: "data", Usage: "Calldata (hex)", Required: true},
				},
				Action: decodeAction,
			},
			{
				Name:  "sign-message",
				Usage: "Sign a text message with the connected wallet",
				Flags: []cli.Flag{
					walletFlag,
					&cli.StringFlag{Name: "text", Aliases: []string{"m"}, Usage: "Message to sign", Required: true},
				},
				Action: signMessageAction,
			},
			{
				Name:  "send",
				Usage: "Decode, sign and submit a transaction with the connected wallet",
				Flags: []cli.Flag{
					walletFlag,
					&cli.StringFlag{Name: "to", Usage: "Target address", Required: true},
					&cli.StringFlag{Name: "data", Usage: "Calldata (hex)"},
					&cli.StringFlag{Name: "value", Usage: "Value in wei", Value: "0"},
					&cli.Uint64Flag{Name: "gas-limit", Usage: "Gas limit (defaults to the decoded estimate)"},
				},
				Action: sendAction,
			},
		},
		Before: validateFlags,
	}
}

func validateFlags(c *cli.Context) error {
	for _, chain := range c.StringSlice("chains") {
		if _, err := parseChain(chain); err != nil {
			return err
		}
	}
	if gwei := c.String("gas-price-gwei"); gwei != "" {
		if _, err := actionDecoder.GweiToWei(gwei); err != nil {
			return fmt.Errorf("invalid --gas-price-gwei: %w", err)
		}
	}
	if c.String("aws-kms-key-id") != "" && c.String("aws-region") == "" {
		return fmt.Errorf("--aws-region is required with --aws-kms-key-id")
	}
	if c.String("private-key") != "" && c.String("private-key-secret-name") != "" {
		return fmt.Errorf("cannot specify both --private-key and --private-key-secret-name")
	}
	if c.Duration("timeout") <= 0 {
		return fmt.Errorf("--timeout must be positive")
	}
	return nil
}
