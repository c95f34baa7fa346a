package wallet

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/dan/vault-plugin-secrets-brainwallet/base58"
	"github.com/dan/vault-plugin-secrets-brainwallet/ecc"
)

const (
	// PrivateKeySize is the length of a serialized private key scalar.
	PrivateKeySize = 32

	// CompressedPubKeySize is the length of a compressed SEC public key.
	CompressedPubKeySize = 33

	// UncompressedPubKeySize is the length of an uncompressed SEC public key.
	UncompressedPubKeySize = 65

	// WIFVersion is the mainnet private key version byte.
	WIFVersion = 0x80

	pubKeyEven         = 0x02
	pubKeyOdd          = 0x03
	pubKeyUncompressed = 0x04
	compressedFlag     = 0x01
)

// ValidateScalar rejects scalars outside [1, n-1]. Out-of-range scalars are
// never reduced modulo n.
func ValidateScalar(k *big.Int) error {
	if k == nil || !ecc.S256().IsValidScalar(k) {
		return makeError(ErrInvalidScalar, "private key scalar must be in [1, n-1]")
	}
	return nil
}

// ScalarFromBytes interprets b as a big-endian private key and validates it.
func ScalarFromBytes(b []byte) (*big.Int, error) {
	if len(b) != PrivateKeySize {
		str := fmt.Sprintf("private key must be %d bytes, got %d", PrivateKeySize, len(b))
		return nil, makeError(ErrInvalidScalar, str)
	}
	k := new(big.Int).SetBytes(b)
	if err := ValidateScalar(k); err != nil {
		return nil, err
	}
	return k, nil
}

// ScalarBytes returns k as a 32-byte big-endian array.
func ScalarBytes(k *big.Int) [PrivateKeySize]byte {
	var out [PrivateKeySize]byte
	k.FillBytes(out[:])
	return out
}

// ParsePrivateKeyHex decodes a 64-character hex private key.
func ParsePrivateKeyHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2*PrivateKeySize {
		str := fmt.Sprintf("private key hex must be %d characters, got %d", 2*PrivateKeySize, len(s))
		return nil, makeError(ErrHexDecode, str)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, makeError(ErrHexDecode, fmt.Sprintf("malformed private key hex: %v", err))
	}
	return ScalarFromBytes(b)
}

// ScalarFromPassphrase returns the SHA-256 of the exact passphrase bytes as a
// private key. This is the classic brain wallet construction and offers no
// protection against guessing.
func ScalarFromPassphrase(phrase string) (*big.Int, error) {
	return ScalarFromBytes(SHA256([]byte(phrase)))
}

// JoinPassphrase joins words with single spaces, the way separate command
// line arguments form one passphrase.
func JoinPassphrase(words []string) string {
	return strings.Join(words, " ")
}

// PublicKey returns k·G for a valid scalar.
func PublicKey(k *big.Int) (ecc.Point, error) {
	if err := ValidateScalar(k); err != nil {
		return ecc.Point{}, err
	}
	p := ecc.S256().ScalarBaseMult(k)
	if p.IsInfinity() {
		return ecc.Point{}, makeError(ErrPointAtInfinity, "public key is the point at infinity")
	}
	return p, nil
}

// SerializePublicKey returns the SEC encoding of p: 0x02/0x03 ‖ x when
// compressed, 0x04 ‖ x ‖ y otherwise.
func SerializePublicKey(p ecc.Point, compressed bool) ([]byte, error) {
	if p.IsInfinity() {
		return nil, makeError(ErrPointAtInfinity, "cannot serialize the point at infinity")
	}
	x, y := p.X(), p.Y()

	if compressed {
		out := make([]byte, CompressedPubKeySize)
		out[0] = pubKeyEven
		if y.Bit(0) == 1 {
			out[0] = pubKeyOdd
		}
		x.FillBytes(out[1:])
		return out, nil
	}

	out := make([]byte, UncompressedPubKeySize)
	out[0] = pubKeyUncompressed
	x.FillBytes(out[1:33])
	y.FillBytes(out[33:])
	return out, nil
}

// ParsePublicKey decodes a 33 or 65 byte SEC public key and checks that it
// lies on the curve. The single byte 0x00 encodes the point at infinity and
// yields ErrPointAtInfinity.
func ParsePublicKey(b []byte) (ecc.Point, error) {
	curve := ecc.S256()
	if len(b) == 1 && b[0] == 0x00 {
		return ecc.Point{}, makeError(ErrPointAtInfinity, "public key encodes the point at infinity")
	}
	if len(b) == 0 {
		return ecc.Point{}, makeError(ErrInvalidPublicKey, "empty public key")
	}

	switch b[0] {
	case pubKeyEven, pubKeyOdd:
		if len(b) != CompressedPubKeySize {
			str := fmt.Sprintf("compressed public key must be %d bytes, got %d", CompressedPubKeySize, len(b))
			return ecc.Point{}, makeError(ErrInvalidPublicKey, str)
		}
		x := new(big.Int).SetBytes(b[1:])
		if x.Cmp(curve.P()) >= 0 {
			return ecc.Point{}, makeError(ErrInvalidPublicKey, "public key x-coordinate exceeds the field")
		}
		y, err := curve.DecompressY(x, b[0] == pubKeyOdd)
		if err != nil {
			return ecc.Point{}, makeError(ErrInvalidPublicKey, fmt.Sprintf("invalid public key: %v", err))
		}
		return ecc.NewPoint(x, y), nil

	case pubKeyUncompressed:
		if len(b) != UncompressedPubKeySize {
			str := fmt.Sprintf("uncompressed public key must be %d bytes, got %d", UncompressedPubKeySize, len(b))
			return ecc.Point{}, makeError(ErrInvalidPublicKey, str)
		}
		p := ecc.NewPoint(new(big.Int).SetBytes(b[1:33]), new(big.Int).SetBytes(b[33:]))
		if !curve.IsOnCurve(p) {
			return ecc.Point{}, makeError(ErrInvalidPublicKey, "public key is not on the curve")
		}
		return p, nil
	}

	return ecc.Point{}, makeError(ErrInvalidPublicKey, fmt.Sprintf("unknown public key prefix %#02x", b[0]))
}

// ParsePublicKeyHex decodes a hex SEC public key.
func ParsePublicKeyHex(s string) (ecc.Point, []byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return ecc.Point{}, nil, makeError(ErrHexDecode, fmt.Sprintf("malformed public key hex: %v", err))
	}
	p, err := ParsePublicKey(b)
	if err != nil {
		return ecc.Point{}, nil, err
	}
	return p, b, nil
}

// PrivateKeyToWIF encodes a private key in mainnet Wallet Import Format.
func PrivateKeyToWIF(scalar [PrivateKeySize]byte, compressed bool) string {
	return encodeWIF(WIFVersion, scalar, compressed)
}

// WIFToPrivateKey decodes a mainnet WIF string.
func WIFToPrivateKey(wif string) ([PrivateKeySize]byte, bool, error) {
	return decodeWIF(WIFVersion, wif)
}

// EncodeWIF encodes a private key with the network's private key version.
func (n Network) EncodeWIF(scalar [PrivateKeySize]byte, compressed bool) string {
	return encodeWIF(n.PrivateKeyID, scalar, compressed)
}

// DecodeWIF decodes a WIF string carrying the network's private key version.
func (n Network) DecodeWIF(wif string) ([PrivateKeySize]byte, bool, error) {
	return decodeWIF(n.PrivateKeyID, wif)
}

func encodeWIF(version byte, scalar [PrivateKeySize]byte, compressed bool) string {
	payload := make([]byte, 0, PrivateKeySize+1)
	payload = append(payload, scalar[:]...)
	if compressed {
		payload = append(payload, compressedFlag)
	}
	return base58.CheckEncodeVersion(version, payload)
}

func decodeWIF(version byte, wif string) ([PrivateKeySize]byte, bool, error) {
	var scalar [PrivateKeySize]byte

	decoded, err := base58.CheckDecode(strings.TrimSpace(wif))
	if err != nil {
		return scalar, false, fmt.Errorf("failed to decode WIF: %w", err)
	}

	var compressed bool
	switch len(decoded) {
	case 1 + PrivateKeySize:
	case 1 + PrivateKeySize + 1:
		if decoded[len(decoded)-1] != compressedFlag {
			str := fmt.Sprintf("WIF compression flag must be %#02x, got %#02x", compressedFlag, decoded[len(decoded)-1])
			return scalar, false, makeError(ErrInvalidWIF, str)
		}
		compressed = true
	default:
		str := fmt.Sprintf("WIF must decode to 37 or 38 bytes, got %d", len(decoded)+base58.ChecksumLen)
		return scalar, false, makeError(ErrInvalidWIF, str)
	}

	if decoded[0] != version {
		str := fmt.Sprintf("WIF version %#02x does not match %#02x", decoded[0], version)
		return scalar, false, makeError(ErrInvalidWIF, str)
	}

	copy(scalar[:], decoded[1:1+PrivateKeySize])
	if err := ValidateScalar(new(big.Int).SetBytes(scalar[:])); err != nil {
		return scalar, false, err
	}
	return scalar, compressed, nil
}
