// Package bech32 implements the bech32 (BIP-173) and bech32m (BIP-350)
// encodings and the segregated witness address format built on them.
package bech32

import (
	"fmt"
	"strings"
)

// Charset is the 32-symbol data alphabet.
const Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const (
	// MaxLength is the longest valid bech32 string.
	MaxLength = 90

	// MaxHRPLength is the longest valid human-readable part.
	MaxHRPLength = 83

	// ChecksumLength is the number of 5-bit checksum groups.
	ChecksumLength = 6

	separator = '1'
)

// Variant selects the checksum constant.
type Variant int

const (
	// Bech32 is the BIP-173 checksum, used by witness version 0.
	Bech32 Variant = iota + 1

	// Bech32m is the BIP-350 checksum, used by witness versions 1 to 16.
	Bech32m
)

const (
	bech32Const  = 1
	bech32mConst = 0x2bc830a3
)

func (v Variant) constant() uint32 {
	switch v {
	case Bech32:
		return bech32Const
	case Bech32m:
		return bech32mConst
	}
	panic(fmt.Sprintf("bech32: unknown variant %d", int(v)))
}

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Bech32:
		return "bech32"
	case Bech32m:
		return "bech32m"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

var (
	gen = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

	// charsetRev maps an ASCII byte to its charset index, or -1.
	charsetRev [128]int8
)

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i := 0; i < len(Charset); i++ {
		charsetRev[Charset[i]] = int8(i)
	}
}

// polymod computes the BCH checksum residue over GF(32).
func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// hrpExpand returns the high bits of each HRP character, a zero, then the
// low bits of each character.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func createChecksum(hrp string, data []byte, v Variant) []byte {
	values := hrpExpand(hrp)
	values = append(values, data...)
	values = append(values, make([]byte, ChecksumLength)...)
	mod := polymod(values) ^ v.constant()

	sum := make([]byte, ChecksumLength)
	for i := range sum {
		sum[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return sum
}

// checkHRP validates the characters and length of a human-readable part and
// returns it in lower case.
func checkHRP(hrp string) (string, error) {
	if len(hrp) < 1 || len(hrp) > MaxHRPLength {
		str := fmt.Sprintf("hrp length %d is outside 1..%d", len(hrp), MaxHRPLength)
		return "", makeError(ErrHRPLengthOutOfRange, str)
	}
	if err := checkCharacters(hrp); err != nil {
		return "", err
	}
	return strings.ToLower(hrp), nil
}

// checkCharacters rejects characters outside 33..126 and mixed case.
func checkCharacters(s string) error {
	var lower, upper bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 33 || c > 126 {
			str := fmt.Sprintf("invalid character %#x at position %d", c, i)
			return makeError(ErrInvalidCharacter, str)
		}
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		}
	}
	if lower && upper {
		return makeError(ErrMixedCase, "string mixes upper and lower case")
	}
	return nil
}

// Encode encodes hrp and 5-bit data values with the checksum selected by v.
// The result is always lower case.
func Encode(hrp string, data []byte, v Variant) (string, error) {
	hrp, err := checkHRP(hrp)
	if err != nil {
		return "", err
	}
	if total := len(hrp) + 1 + len(data) + ChecksumLength; total > MaxLength {
		str := fmt.Sprintf("encoded length %d exceeds %d", total, MaxLength)
		return "", makeError(ErrInvalidLength, str)
	}
	for i, d := range data {
		if d >= 32 {
			str := fmt.Sprintf("data value %d at position %d is not a 5-bit group", d, i)
			return "", makeError(ErrInvalidDataValue, str)
		}
	}

	sum := createChecksum(hrp, data, v)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(data) + len(sum))
	sb.WriteString(hrp)
	sb.WriteByte(separator)
	for _, d := range data {
		sb.WriteByte(Charset[d])
	}
	for _, d := range sum {
		sb.WriteByte(Charset[d])
	}
	return sb.String(), nil
}

// Decode decodes a bech32 or bech32m string. It returns the lower-case HRP,
// the 5-bit data values without the checksum, and the checksum variant that
// matched.
func Decode(s string) (string, []byte, Variant, error) {
	if len(s) > MaxLength {
		str := fmt.Sprintf("string length %d exceeds %d", len(s), MaxLength)
		return "", nil, 0, makeError(ErrInvalidLength, str)
	}
	if err := checkCharacters(s); err != nil {
		return "", nil, 0, err
	}
	s = strings.ToLower(s)

	pos := strings.LastIndexByte(s, separator)
	if pos < 0 || pos+1+ChecksumLength > len(s) {
		str := fmt.Sprintf("separator at position %d leaves no room for the checksum", pos)
		return "", nil, 0, makeError(ErrInvalidSeparatorPosition, str)
	}
	hrp, err := checkHRP(s[:pos])
	if err != nil {
		return "", nil, 0, err
	}

	data := make([]byte, 0, len(s)-pos-1)
	for i := pos + 1; i < len(s); i++ {
		v := charsetRev[s[i]]
		if v < 0 {
			str := fmt.Sprintf("invalid data character %q at position %d", s[i], i)
			return "", nil, 0, makeError(ErrInvalidCharacter, str)
		}
		data = append(data, byte(v))
	}

	values := append(hrpExpand(hrp), data...)
	var variant Variant
	switch polymod(values) {
	case bech32Const:
		variant = Bech32
	case bech32mConst:
		variant = Bech32m
	default:
		return "", nil, 0, makeError(ErrChecksumMismatch, "checksum matches neither bech32 nor bech32m")
	}

	return hrp, data[:len(data)-ChecksumLength], variant, nil
}

// ConvertBits regroups data from fromBits-wide groups into toBits-wide
// groups. With pad set, a final partial group is zero-padded. Without it,
// leftover bits must number fewer than fromBits and all be zero.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	if fromBits < 1 || fromBits > 8 || toBits < 1 || toBits > 8 {
		panic("bech32: group sizes must be 1..8 bits")
	}

	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	maxAcc := uint32(1)<<(fromBits+toBits-1) - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	for i, v := range data {
		if uint32(v)>>fromBits != 0 {
			str := fmt.Sprintf("value %d at position %d does not fit in %d bits", v, i, fromBits)
			return nil, makeError(ErrInvalidDataValue, str)
		}
		acc = (acc<<fromBits | uint32(v)) & maxAcc
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits {
		return nil, makeError(ErrNonCanonicalPadding, "excess padding bits")
	} else if acc<<(toBits-bits)&maxv != 0 {
		return nil, makeError(ErrNonCanonicalPadding, "non-zero padding bits")
	}
	return out, nil
}
