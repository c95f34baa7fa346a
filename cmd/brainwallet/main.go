// Command brainwallet derives Bitcoin keys and addresses from passphrases.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// RootCmd builds the brainwallet command tree
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brainwallet",
		Short: "Derive Bitcoin keys and addresses from a passphrase",
		Long: `brainwallet hashes a passphrase with SHA-256, uses the digest as a
secp256k1 private key, and prints its WIF encodings, public keys, hash160
values and seven address variants for both public key serializations.

Passphrase-derived keys are only as strong as the passphrase.`,
		SilenceUsage: true,
	}
	addRootFlags(cmd)

	cmd.AddCommand(
		DeriveCmd(),
		AddressCmd(),
		WIFCmd(),
		BatchCmd(),
	)

	return cmd
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("network", "n", wallet.DefaultNetwork, fmt.Sprintf("network: %v", wallet.NetworkNames()))
	cmd.PersistentFlags().String("hrp", "", "override the Bech32 human-readable part")
	cmd.PersistentFlags().String("log-level", "warn", "log level: trace, debug, info, warn, error")
}

// networkFromFlags resolves the --network and --hrp flags
func networkFromFlags(cmd *cobra.Command) (wallet.Network, error) {
	name, _ := cmd.Flags().GetString("network")
	hrp, _ := cmd.Flags().GetString("hrp")

	n, err := wallet.NetworkByName(name)
	if err != nil {
		return wallet.Network{}, err
	}
	if hrp != "" {
		n.HRP = strings.ToLower(hrp)
	}
	if err := n.Validate(); err != nil {
		return wallet.Network{}, err
	}
	return n, nil
}

// loggerFromFlags builds a stderr logger at the --log-level level
func loggerFromFlags(cmd *cobra.Command) hclog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return hclog.New(&hclog.LoggerOptions{
		Name:   "brainwallet",
		Level:  hclog.LevelFromString(level),
		Output: cmd.ErrOrStderr(),
	})
}
