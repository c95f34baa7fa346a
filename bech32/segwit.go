package bech32

import (
	"fmt"
	"strings"
)

const (
	// MaxWitnessVersion is the highest witness version.
	MaxWitnessVersion = 16

	minProgramLen = 2
	maxProgramLen = 40
)

// VariantForVersion returns the checksum variant a witness version must use.
func VariantForVersion(version byte) Variant {
	if version == 0 {
		return Bech32
	}
	return Bech32m
}

func checkProgram(version byte, program []byte) error {
	if version > MaxWitnessVersion {
		str := fmt.Sprintf("witness version %d exceeds %d", version, MaxWitnessVersion)
		return makeError(ErrInvalidWitnessVersion, str)
	}
	if len(program) < minProgramLen || len(program) > maxProgramLen {
		str := fmt.Sprintf("witness program length %d is outside %d..%d", len(program), minProgramLen, maxProgramLen)
		return makeError(ErrInvalidProgramLength, str)
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		str := fmt.Sprintf("version 0 witness program must be 20 or 32 bytes, got %d", len(program))
		return makeError(ErrInvalidProgramLength, str)
	}
	return nil
}

// EncodeSegWit encodes a witness program as a segwit address. Version 0 uses
// the bech32 checksum and versions 1 to 16 use bech32m. Any program of 2 to 40
// bytes is accepted at versions above 0.
func EncodeSegWit(hrp string, version byte, program []byte) (string, error) {
	if err := checkProgram(version, program); err != nil {
		return "", err
	}
	conv, err := ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := make([]byte, 0, 1+len(conv))
	data = append(data, version)
	data = append(data, conv...)
	return Encode(hrp, data, VariantForVersion(version))
}

// DecodeSegWit decodes a segwit address and checks that it belongs to hrp.
func DecodeSegWit(hrp, addr string) (byte, []byte, error) {
	gotHRP, data, variant, err := Decode(addr)
	if err != nil {
		return 0, nil, err
	}
	if gotHRP != strings.ToLower(hrp) {
		str := fmt.Sprintf("address prefix %q does not match %q", gotHRP, hrp)
		return 0, nil, makeError(ErrHRPMismatch, str)
	}
	if len(data) < 1 {
		return 0, nil, makeError(ErrInvalidProgramLength, "address has no witness version")
	}

	version := data[0]
	if version > MaxWitnessVersion {
		str := fmt.Sprintf("witness version %d exceeds %d", version, MaxWitnessVersion)
		return 0, nil, makeError(ErrInvalidWitnessVersion, str)
	}
	if want := VariantForVersion(version); variant != want {
		str := fmt.Sprintf("witness version %d requires a %s checksum, got %s", version, want, variant)
		return 0, nil, makeError(ErrChecksumMismatch, str)
	}

	program, err := ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, err
	}
	if err := checkProgram(version, program); err != nil {
		return 0, nil, err
	}
	return version, program, nil
}
