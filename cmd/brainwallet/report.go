package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

// reportLabels holds the report line for each variant. The first verb is the
// address prefix, the second the key form, the third the address.
var reportLabels = map[wallet.AddressVariant]string{
	wallet.P2PKH:       "P2PKH (Starts with %s) Address (%s): %s\n",
	wallet.P2SH:        "P2SH (Starts with %s) Address (%s): %s (P2SH => P2PKH)\n",
	wallet.P2SHP2WPKH:  "P2SH (Starts with %s) Address (%s): %s (P2SH => P2WPKH)\n",
	wallet.Bech32:      "Bech32 (Starts with %s) Address (%s): %s\n",
	wallet.Bech32M:     "Bech32m (Starts with %s) Address (%s): %s\n",
	wallet.P2WSH:       "P2WSH (Starts with %s) Address (%s): %s (P2WSH => P2PKH)\n",
	wallet.P2WSHP2WPKH: "P2WSH (Starts with %s) Address (%s): %s (P2WSH => P2WPKH)\n",
}

// addressPrefix is the leading text shared by every address of a variant:
// the first Base58 character, or the HRP and separator (plus the witness
// version character for v1).
func addressPrefix(n wallet.Network, v wallet.AddressVariant, addr string) string {
	switch v {
	case wallet.Bech32, wallet.P2WSH, wallet.P2WSHP2WPKH:
		return n.HRP + "1"
	case wallet.Bech32M:
		return n.HRP + "1p"
	}
	if addr == "" {
		return ""
	}
	return addr[:1]
}

// writeReport prints the key set in the brain wallet report layout
func writeReport(w io.Writer, n wallet.Network, phrase string, ks *wallet.KeySet) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Password Phrase: %s\n", phrase)
	fmt.Fprintf(&sb, "SHA256 Hash (passphrase Hex): %s\n", ks.PrivateKey)
	fmt.Fprintf(&sb, "WIF Private Key (Compressed): %s\n", ks.Compressed.WIF)
	fmt.Fprintf(&sb, "WIF Private Key (Uncompressed): %s\n", ks.Uncompressed.WIF)

	fmt.Fprintf(&sb, "\nCompressed Public Key: %s\n", ks.Compressed.PublicKey)
	fmt.Fprintf(&sb, "Uncompressed Public Key: %s\n", ks.Uncompressed.PublicKey)
	fmt.Fprintf(&sb, "Compressed Public Key Hash160: %s\n", ks.Compressed.Hash160)
	fmt.Fprintf(&sb, "Uncompressed Public Key Hash160: %s\n", ks.Uncompressed.Hash160)

	for _, compressed := range []bool{true, false} {
		form := "Uncompressed"
		if compressed {
			form = "Compressed"
		}
		fmt.Fprintf(&sb, "\n=== Addresses Generated from %s Public Key ===\n", form)
		for _, a := range ks.Key(compressed).Addresses {
			fmt.Fprintf(&sb, reportLabels[a.Variant], addressPrefix(n, a.Variant, a.Address), form, a.Address)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
