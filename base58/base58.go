// Package base58 implements the Bitcoin flavour of Base58 and Base58Check.
package base58

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Alphabet is the Bitcoin Base58 alphabet. It leaves out 0, O, I and l.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ChecksumLen is the number of checksum bytes appended by CheckEncode.
const ChecksumLen = 4

var (
	bigRadix = big.NewInt(58)
	bigZero  = big.NewInt(0)

	// decodeMap maps an ASCII byte to its alphabet index, or -1.
	decodeMap [256]int8
)

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeMap[Alphabet[i]] = int8(i)
	}
}

// Encode encodes b as Base58. Every leading zero byte becomes one leading '1'.
func Encode(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	x := new(big.Int).SetBytes(b)
	mod := new(big.Int)
	// log(256)/log(58) ≈ 1.37
	digits := make([]byte, 0, len(b)*138/100+1)
	for x.Cmp(bigZero) > 0 {
		x.DivMod(x, bigRadix, mod)
		digits = append(digits, Alphabet[mod.Int64()])
	}

	var sb strings.Builder
	sb.Grow(zeros + len(digits))
	for i := 0; i < zeros; i++ {
		sb.WriteByte(Alphabet[0])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// Decode decodes a Base58 string. Every leading '1' becomes one leading zero
// byte.
func Decode(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == Alphabet[0] {
		zeros++
	}

	x := new(big.Int)
	digit := new(big.Int)
	for i := zeros; i < len(s); i++ {
		v := decodeMap[s[i]]
		if v < 0 {
			str := fmt.Sprintf("invalid base58 character %q at position %d", s[i], i)
			return nil, makeError(ErrInvalidCharacter, str)
		}
		x.Mul(x, bigRadix)
		x.Add(x, digit.SetInt64(int64(v)))
	}

	body := x.Bytes()
	out := make([]byte, zeros+len(body))
	copy(out[zeros:], body)
	return out, nil
}

// checksum returns the first four bytes of SHA256(SHA256(payload)).
func checksum(payload []byte) []byte {
	return chainhash.DoubleHashB(payload)[:ChecksumLen]
}

// CheckEncode appends the four-byte double SHA-256 checksum to payload and
// encodes the result as Base58.
func CheckEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+ChecksumLen)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload)...)
	return Encode(buf)
}

// CheckDecode decodes a Base58Check string, verifies its checksum, and
// returns the payload without the checksum.
func CheckDecode(s string) ([]byte, error) {
	decoded, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) < ChecksumLen {
		str := fmt.Sprintf("decoded length %d is shorter than the %d-byte checksum", len(decoded), ChecksumLen)
		return nil, makeError(ErrTooShort, str)
	}

	payload := decoded[:len(decoded)-ChecksumLen]
	sum := decoded[len(decoded)-ChecksumLen:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, makeError(ErrChecksumMismatch, "base58check checksum mismatch")
	}
	return payload, nil
}

// CheckEncodeVersion prefixes payload with a one-byte version and encodes it
// with CheckEncode.
func CheckEncodeVersion(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, version)
	buf = append(buf, payload...)
	return CheckEncode(buf)
}

// CheckDecodeVersion is the inverse of CheckEncodeVersion.
func CheckDecodeVersion(s string) (byte, []byte, error) {
	payload, err := CheckDecode(s)
	if err != nil {
		return 0, nil, err
	}
	if len(payload) == 0 {
		return 0, nil, makeError(ErrTooShort, "base58check payload has no version byte")
	}
	return payload[0], payload[1:], nil
}
