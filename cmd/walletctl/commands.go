package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/Layr-Labs/wallet-connector-go/pkg/actionDecoder"
	"github.com/Layr-Labs/wallet-connector-go/pkg/events"
	"github.com/Layr-Labs/wallet-connector-go/pkg/util"
	"github.com/Layr-Labs/wallet-connector-go/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	cli "github.com/urfave/cli/v2"
)

func printAvailability(m wallet.AvailabilityMap) {
	for _, k := range util.SortedKeys(m) {
		fmt.Printf("%-12s %t\n", k, m[k])
	}
}

func detectAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	s, err := setupSession(c, l)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Web3 Enabled: %t\n", s.detector.Web3Enabled())
	printAvailability(s.detector.Snapshot())

	interval := c.Duration("watch")
	if interval <= 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ch := make(chan events.Event, 16)
	sub := s.bus.Subscribe(ch)
	defer sub.Unsubscribe()

	go s.detector.Watch(ctx, s.environment, interval)
	for {
		select {
		case ev := <-ch:
			switch ev.Type {
			case events.TypeAvailabilityChanged:
				fmt.Println("Availability changed:")
				printAvailability(ev.Availability)
			case events.TypeWeb3Enabled, events.TypeWeb3Disabled:
				fmt.Printf("Web3 Enabled: %t\n", ev.Type == events.TypeWeb3Enabled)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func connectAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	s, err := setupSession(c, l)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	signer, err := s.connect(ctx, c.String("wallet"))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	address, err := signer.Address(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Wallet: %s\n", c.String("wallet"))
	fmt.Printf("Address: %s\n", address.Hex())
	return nil
}

func decodeAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	decoder, err := setupDecoder(cfg, l)
	if err != nil {
		return err
	}

	call, err := parseCall(c.String("to"), c.String("data"))
	if err != nil {
		return err
	}
	decoded, err := decoder.Decode(call)
	if err != nil {
		return err
	}
	printDecoded(decoded)
	return nil
}

func printDecoded(d *wallet.DecodedAction) {
	fmt.Printf("Method: %s\n", d.Name)
	fmt.Printf("Target: %s\n", d.Target.Hex())
	for _, p := range d.Parameters {
		fmt.Printf("  %s: %s\n", p.Name, p.Display)
	}
	fmt.Printf("Gas Limit: %d\n", d.EstimatedGas.Limit)
	if d.EstimatedGas.Price != nil {
		fmt.Printf("Gas Price: %s wei\n", d.EstimatedGas.Price.String())
	}
}

func parseCall(to, data string) (actionDecoder.Call, error) {
	if !common.IsHexAddress(to) {
		return actionDecoder.Call{}, fmt.Errorf("invalid --to address: %s", to)
	}
	var payload []byte
	if data != "" {
		var err error
		payload, err = hexutil.Decode(data)
		if err != nil {
			return actionDecoder.Call{}, fmt.Errorf("invalid --data: %w", err)
		}
	}
	return actionDecoder.Call{Target: common.HexToAddress(to), Payload: payload}, nil
}

func signMessageAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	s, err := setupSession(c, l)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	signer, err := s.connect(ctx, c.String("wallet"))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	sig, err := signer.SignMessage(ctx, c.String("text"))
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}
	fmt.Printf("Signature: %s\n", hexutil.Encode(sig))
	return nil
}

func sendAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	call, err := parseCall(c.String("to"), c.String("data"))
	if err != nil {
		return err
	}
	value, ok := new(big.Int).SetString(c.String("value"), 10)
	if !ok || value.Sign() < 0 {
		return fmt.Errorf("invalid --value: %s", c.String("value"))
	}

	s, err := setupSession(c, l)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	signer, err := s.connect(ctx, c.String("wallet"))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	decoded, err := s.decoder.Decode(call)
	if err != nil {
		return fmt.Errorf("refusing to sign undecodable call: %w", err)
	}
	printDecoded(decoded)

	receipt, err := signer.SignAndSend(ctx, &wallet.Request{
		To:       call.Target,
		Data:     call.Payload,
		Value:    value,
		GasLimit: c.Uint64("gas-limit"),
	})
	if receipt != nil {
		fmt.Printf("Transaction: %s\n", receipt.TxHash.Hex())
		fmt.Printf("Block Number: %s\n", receipt.BlockNumber)
		fmt.Printf("Gas Used: %d\n", receipt.GasUsed)
		fmt.Printf("Status: %d\n", receipt.Status)
	}
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}
	return nil
}
