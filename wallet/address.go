package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/txscript"

	"github.com/dan/vault-plugin-secrets-brainwallet/base58"
	"github.com/dan/vault-plugin-secrets-brainwallet/bech32"
)

// AddressVariant selects how a public key is turned into an address.
type AddressVariant int

const (
	// P2PKH is Base58Check(PubKeyHashAddrID ‖ hash160(pubkey)).
	P2PKH AddressVariant = iota

	// P2SH is Base58Check(ScriptHashAddrID ‖ hash160(pubkey)). The raw key
	// hash stands in for a script hash, so this is only spendable if the
	// matching redeem script happens to hash the same way.
	P2SH

	// P2SHP2WPKH is a P2WPKH program nested in P2SH.
	P2SHP2WPKH

	// Bech32 is a version 0 witness program of hash160(pubkey).
	Bech32

	// Bech32M is a version 1 witness program of hash160(pubkey). A 20-byte
	// program at version 1 is non-standard and kept as is.
	Bech32M

	// P2WSH is a version 0 witness program of SHA256(pubkey), treating the
	// raw key as the witness script.
	P2WSH

	// P2WSHP2WPKH is a version 0 witness program of SHA256 of the P2WPKH
	// redeem script.
	P2WSHP2WPKH

	numAddressVariants = iota
)

var variantNames = [numAddressVariants]string{
	P2PKH:       "P2PKH",
	P2SH:        "P2SH",
	P2SHP2WPKH:  "P2SH-P2WPKH",
	Bech32:      "BECH32",
	Bech32M:     "BECH32M",
	P2WSH:       "P2WSH",
	P2WSHP2WPKH: "P2WSH-P2WPKH",
}

// AddressVariants returns every variant in report order.
func AddressVariants() []AddressVariant {
	out := make([]AddressVariant, numAddressVariants)
	for i := range out {
		out[i] = AddressVariant(i)
	}
	return out
}

// AddressVariantNames returns the canonical variant names in report order.
func AddressVariantNames() []string {
	return append([]string(nil), variantNames[:]...)
}

func (v AddressVariant) valid() bool {
	return v >= 0 && int(v) < numAddressVariants
}

// String returns the canonical variant name.
func (v AddressVariant) String() string {
	if !v.valid() {
		return fmt.Sprintf("AddressVariant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseAddressVariant parses a variant name case-insensitively. Underscores
// are accepted in place of hyphens.
func ParseAddressVariant(s string) (AddressVariant, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	for i, n := range variantNames {
		if n == name {
			return AddressVariant(i), nil
		}
	}
	str := fmt.Sprintf("unsupported address variant %q (supported: %s)", s, strings.Join(variantNames[:], ", "))
	return 0, makeError(ErrUnsupportedAddressVariant, str)
}

// MarshalText implements encoding.TextMarshaler.
func (v AddressVariant) MarshalText() ([]byte, error) {
	if !v.valid() {
		return nil, makeError(ErrUnsupportedAddressVariant, fmt.Sprintf("unsupported address variant %d", int(v)))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *AddressVariant) UnmarshalText(text []byte) error {
	parsed, err := ParseAddressVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// p2wpkhScript returns OP_0 <20-byte hash>.
func p2wpkhScript(pubKeyHash []byte) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(pubKeyHash).
		Script()
	if err != nil {
		return nil, fmt.Errorf("failed to build redeem script: %w", err)
	}
	return script, nil
}

// Address derives the address of the given variant from SEC public key
// bytes. It returns either a complete address or an error.
func (n Network) Address(pubKey []byte, variant AddressVariant) (string, error) {
	if !variant.valid() {
		return "", makeError(ErrUnsupportedAddressVariant, fmt.Sprintf("unsupported address variant %d", int(variant)))
	}
	if _, err := ParsePublicKey(pubKey); err != nil {
		return "", err
	}
	return n.address(pubKey, variant)
}

// address derives an address from public key bytes that are already known to
// be a valid SEC encoding.
func (n Network) address(pubKey []byte, variant AddressVariant) (string, error) {
	switch variant {
	case P2PKH:
		return base58.CheckEncodeVersion(n.PubKeyHashAddrID, Hash160(pubKey)), nil

	case P2SH:
		return base58.CheckEncodeVersion(n.ScriptHashAddrID, Hash160(pubKey)), nil

	case P2SHP2WPKH:
		script, err := p2wpkhScript(Hash160(pubKey))
		if err != nil {
			return "", err
		}
		return base58.CheckEncodeVersion(n.ScriptHashAddrID, Hash160(script)), nil

	case Bech32:
		return n.segwit(0, Hash160(pubKey))

	case Bech32M:
		return n.segwit(1, Hash160(pubKey))

	case P2WSH:
		return n.segwit(0, SHA256(pubKey))

	case P2WSHP2WPKH:
		script, err := p2wpkhScript(Hash160(pubKey))
		if err != nil {
			return "", err
		}
		return n.segwit(0, SHA256(script))
	}

	return "", makeError(ErrUnsupportedAddressVariant, fmt.Sprintf("unsupported address variant %s", variant))
}

func (n Network) segwit(version byte, program []byte) (string, error) {
	addr, err := bech32.EncodeSegWit(n.HRP, version, program)
	if err != nil {
		return "", fmt.Errorf("failed to encode segwit address: %w", err)
	}
	return addr, nil
}

// AddressInfo describes a decoded address.
type AddressInfo struct {
	Address string `json:"address"`

	// Kind is "p2pkh" or "p2sh" for Base58Check addresses and "witness_v<N>"
	// for segwit addresses.
	Kind string `json:"kind"`

	// Encoding is "base58check", "bech32" or "bech32m".
	Encoding string `json:"encoding"`

	Version        byte   `json:"version"`
	Program        []byte `json:"program"`
	WitnessVersion int    `json:"witness_version"`
}

// DecodeAddress decodes a Base58Check or segwit address for the network.
func (n Network) DecodeAddress(addr string) (*AddressInfo, error) {
	addr = strings.TrimSpace(addr)

	if prefix := n.HRP + "1"; len(addr) > len(prefix) && strings.EqualFold(addr[:len(prefix)], prefix) {
		version, program, err := bech32.DecodeSegWit(n.HRP, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to decode segwit address: %w", err)
		}
		return &AddressInfo{
			Address:        addr,
			Kind:           fmt.Sprintf("witness_v%d", version),
			Encoding:       bech32.VariantForVersion(version).String(),
			Program:        program,
			WitnessVersion: int(version),
		}, nil
	}

	version, payload, err := base58.CheckDecodeVersion(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58check address: %w", err)
	}
	if len(payload) != Hash160Size {
		str := fmt.Sprintf("address payload must be %d bytes, got %d", Hash160Size, len(payload))
		return nil, makeError(ErrUnknownAddress, str)
	}

	info := &AddressInfo{
		Address:        addr,
		Encoding:       "base58check",
		Version:        version,
		Program:        payload,
		WitnessVersion: -1,
	}
	switch version {
	case n.PubKeyHashAddrID:
		info.Kind = "p2pkh"
	case n.ScriptHashAddrID:
		info.Kind = "p2sh"
	default:
		str := fmt.Sprintf("address version %#02x is not used by %s", version, n.Name)
		return nil, makeError(ErrUnknownAddress, str)
	}
	return info, nil
}
