package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

// DeriveCmd prints the full report for one passphrase
func DeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <word> [word...]",
		Short: "Derive keys and addresses from a passphrase",
		Long: `Derive keys and addresses from a passphrase. The arguments are joined
with single spaces, so "derive correct horse battery staple" and
"derive 'correct horse battery staple'" produce the same key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: derive,
	}
	addDeriveFlags(cmd)
	return cmd
}

func addDeriveFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "print the key set as JSON")
}

func derive(cmd *cobra.Command, args []string) error {
	n, err := networkFromFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	log := loggerFromFlags(cmd)

	phrase := wallet.JoinPassphrase(args)
	k, err := wallet.ScalarFromPassphrase(phrase)
	if err != nil {
		return err
	}

	log.Debug("deriving key set", "network", n.Name, "words", len(args))
	ks, err := n.DeriveKeySet(k)
	if err != nil {
		return fmt.Errorf("failed to derive key set: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ks)
	}
	return writeReport(cmd.OutOrStdout(), n, phrase, ks)
}

// AddressCmd derives addresses from a public key
func AddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive addresses from a SEC public key",
		Args:  cobra.NoArgs,
		RunE:  address,
	}
	addAddressFlags(cmd)
	return cmd
}

func addAddressFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("pubkey", "p", "", "public key hex (33 or 65 bytes)")
	cmd.MarkFlagRequired("pubkey")

	cmd.Flags().StringP("variant", "t", "", fmt.Sprintf("address variant %v, all when empty", wallet.AddressVariantNames()))
}

func address(cmd *cobra.Command, args []string) error {
	n, err := networkFromFlags(cmd)
	if err != nil {
		return err
	}
	pubHex, _ := cmd.Flags().GetString("pubkey")
	variantName, _ := cmd.Flags().GetString("variant")

	_, pub, err := wallet.ParsePublicKeyHex(pubHex)
	if err != nil {
		return err
	}

	variants := wallet.AddressVariants()
	if variantName != "" {
		v, err := wallet.ParseAddressVariant(variantName)
		if err != nil {
			return err
		}
		variants = []wallet.AddressVariant{v}
	}

	out := cmd.OutOrStdout()
	for _, v := range variants {
		addr, err := n.Address(pub, v)
		if err != nil {
			return err
		}
		if len(variants) == 1 {
			fmt.Fprintln(out, addr)
			continue
		}
		fmt.Fprintf(out, "%-13s %s\n", v, addr)
	}
	return nil
}

// WIFCmd converts between hex private keys and WIF
func WIFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wif",
		Short: "Wallet Import Format conversion",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.AddCommand(
		WIFEncodeCmd(),
		WIFDecodeCmd(),
	)

	return cmd
}

// WIFEncodeCmd encodes a hex private key
func WIFEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <private key hex>",
		Short: "Encode a hex private key as WIF",
		Args:  cobra.ExactArgs(1),
		RunE:  wifEncode,
	}
	cmd.Flags().BoolP("uncompressed", "u", false, "mark the key for the uncompressed public key")
	return cmd
}

func wifEncode(cmd *cobra.Command, args []string) error {
	n, err := networkFromFlags(cmd)
	if err != nil {
		return err
	}
	uncompressed, _ := cmd.Flags().GetBool("uncompressed")

	k, err := wallet.ParsePrivateKeyHex(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), n.EncodeWIF(wallet.ScalarBytes(k), !uncompressed))
	return nil
}

// WIFDecodeCmd decodes a WIF string
func WIFDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <wif>",
		Short: "Decode a WIF private key",
		Args:  cobra.ExactArgs(1),
		RunE:  wifDecode,
	}
}

func wifDecode(cmd *cobra.Command, args []string) error {
	n, err := networkFromFlags(cmd)
	if err != nil {
		return err
	}

	scalar, compressed, err := n.DecodeWIF(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Private Key: %s\n", hex.EncodeToString(scalar[:]))
	fmt.Fprintf(out, "Compressed: %t\n", compressed)
	return nil
}

// BatchCmd derives key sets for passphrases read from stdin, one per line
func BatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Derive key sets for passphrases read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE:  batch,
	}
	addBatchFlags(cmd)
	return cmd
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of concurrent derivations")
	cmd.Flags().Bool("json", false, "print one JSON object per line")
}

// batchResult is one line of JSON batch output
type batchResult struct {
	Passphrase string         `json:"passphrase"`
	KeySet     *wallet.KeySet `json:"keyset"`
}

func batch(cmd *cobra.Command, args []string) error {
	n, err := networkFromFlags(cmd)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")
	asJSON, _ := cmd.Flags().GetBool("json")
	log := loggerFromFlags(cmd)

	var phrases []string
	var scalars []*big.Int
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		phrase := strings.TrimRight(scanner.Text(), "\r")
		if phrase == "" {
			continue
		}
		k, err := wallet.ScalarFromPassphrase(phrase)
		if err != nil {
			return fmt.Errorf("line %d: %w", len(phrases)+1, err)
		}
		phrases = append(phrases, phrase)
		scalars = append(scalars, k)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read passphrases: %w", err)
	}

	log.Info("deriving batch", "network", n.Name, "count", len(scalars), "workers", workers)
	sets, err := n.DeriveBatch(cmd.Context(), scalars, workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for i, ks := range sets {
		if asJSON {
			if err := enc.Encode(batchResult{Passphrase: phrases[i], KeySet: ks}); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := writeReport(out, n, phrases[i], ks); err != nil {
			return err
		}
	}
	return nil
}
