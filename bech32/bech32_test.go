package bech32

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	btcbech32 "github.com/btcsuite/btcd/btcutil/bech32"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestEncodeSegWitReferenceVector(t *testing.T) {
	program := mustHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6")

	addr, err := EncodeSegWit("bc", 0, program)
	if err != nil {
		t.Fatalf("EncodeSegWit() error = %v", err)
	}
	if want := "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"; addr != want {
		t.Errorf("EncodeSegWit() = %q, want %q", addr, want)
	}

	version, got, err := DecodeSegWit("bc", addr)
	if err != nil {
		t.Fatalf("DecodeSegWit() error = %v", err)
	}
	if version != 0 || !bytes.Equal(got, program) {
		t.Errorf("DecodeSegWit() = %d %x, want 0 %x", version, got, program)
	}
}

func TestDecodeSegWitValid(t *testing.T) {
	tests := []struct {
		hrp     string
		addr    string
		version byte
		program string
	}{
		{"bc", "BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4", 0, "751e76e8199196d454941c45d1b3a323f1433bd6"},
		{"tb", "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7", 0, "1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262"},
		{"bc", "bc1pw508d6qejxtdg4y5r3zarvary0c5xw7kw508d6qejxtdg4y5r3zarvary0c5xw7kt5nd6y", 1, "751e76e8199196d454941c45d1b3a323f1433bd6751e76e8199196d454941c45d1b3a323f1433bd6"},
		{"bc", "BC1SW50QGDZ25J", 16, "751e"},
		{"bc", "bc1zw508d6qejxtdg4y5r3zarvaryvaxxpcs", 2, "751e76e8199196d454941c45d1b3a323"},
		{"tb", "tb1qqqqqp399et2xygdj5xreqhjjvcmzhxw4aywxecjdzew6hylgvsesrxh6hy", 0, "000000c4a5cad46221b2a187905e5266362b99d5e91c6ce24d165dab93e86433"},
		{"tb", "tb1pqqqqp399et2xygdj5xreqhjjvcmzhxw4aywxecjdzew6hylgvsesf3hn0c", 1, "000000c4a5cad46221b2a187905e5266362b99d5e91c6ce24d165dab93e86433"},
		{"bc", "bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0", 1, "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			version, program, err := DecodeSegWit(tt.hrp, tt.addr)
			if err != nil {
				t.Fatalf("DecodeSegWit() error = %v", err)
			}
			if version != tt.version {
				t.Errorf("version = %d, want %d", version, tt.version)
			}
			if hex.EncodeToString(program) != tt.program {
				t.Errorf("program = %x, want %s", program, tt.program)
			}

			// Re-encoding yields the canonical lower-case form.
			addr, err := EncodeSegWit(tt.hrp, version, program)
			if err != nil {
				t.Fatalf("EncodeSegWit() error = %v", err)
			}
			if addr != strings.ToLower(tt.addr) {
				t.Errorf("EncodeSegWit() = %q, want %q", addr, strings.ToLower(tt.addr))
			}
		})
	}
}

func TestDecodeSegWitInvalid(t *testing.T) {
	tests := []struct {
		name string
		hrp  string
		addr string
		kind ErrorKind
	}{
		{"bad checksum character", "bc", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", ErrChecksumMismatch},
		{"mixed case", "bc", "BC1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", ErrMixedCase},
		{"mixed case checksum", "tb", "tb1z0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vq47Zagq", ErrMixedCase},
		{"v1 with bech32 checksum", "bc", "bc1pw508d6qejxtdg4y5r3zarvary0c5xw7kw508d6qejxtdg4y5r3zarvary0c5xw7k7grplx", ErrChecksumMismatch},
		{"v1 bech32 checksum upper", "bc", "BC1S0XLXVLHEMJA6C4DQV22UAPCTQUPFHLXM9H8Z3K2E72Q4K9HCZ7VQ54WELL", ErrChecksumMismatch},
		{"bad version character", "bc", "bc10w508d6qejxtdg4y5r3zarvary0c5xw7kw508d6qejxtdg4y5r3zarvary0c5xw7kw5rljs5", ErrChecksumMismatch},
		{"trailing character", "bc", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5w", ErrChecksumMismatch},
		{"extra version symbol", "bc", "bc1zqw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", ErrChecksumMismatch},
		{"wrong network invalid checksum", "bc", "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", ErrChecksumMismatch},
		{"wrong network", "bc", "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", ErrHRPMismatch},
		{"empty data", "bc", "bc1gmk9yu", ErrInvalidProgramLength},
		{"v0 16-byte program", "bc", "BC1QR508D6QEJXTDG4Y5R3ZARVARYV98GJ9P", ErrInvalidProgramLength},
		{"empty hrp", "bc", "1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", ErrHRPLengthOutOfRange},
		{"too short for checksum", "bc", "bc1qw508", ErrInvalidSeparatorPosition},
		{"no separator", "bc", "bcqw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", ErrInvalidSeparatorPosition},
		{"non-charset character", "bc", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3tb", ErrInvalidCharacter},
		{"control character", "bc", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t\x7f", ErrInvalidCharacter},
		{"space", "bc", " bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", ErrInvalidCharacter},
		{"over-long string", "an84characterslonghumanreadablepartthatcontainsthetheexcludedcharactersbioandnumber1",
			"an84characterslonghumanreadablepartthatcontainsthetheexcludedcharactersbioandnumber11sg7hg6", ErrInvalidLength},
		{"over-long data payload", "bc", "bc1" + strings.Repeat("q", 87) + "qqqqqq", ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSegWit(tt.hrp, tt.addr)
			if err == nil {
				t.Fatalf("DecodeSegWit(%q) should fail", tt.addr)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("DecodeSegWit(%q) error = %v, want %v", tt.addr, err, tt.kind)
			}
		})
	}
}

func TestDecodeSegWitCraftedFailures(t *testing.T) {
	prog20 := mustHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6")
	prog32 := mustHex(t, "1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262")

	encodeRaw := func(t *testing.T, version byte, groups []byte, v Variant) string {
		t.Helper()
		data := append([]byte{version}, groups...)
		s, err := Encode("bc", data, v)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		return s
	}
	conv := func(t *testing.T, b []byte) []byte {
		t.Helper()
		out, err := ConvertBits(b, 8, 5, true)
		if err != nil {
			t.Fatalf("ConvertBits() error = %v", err)
		}
		return out
	}

	t.Run("witness version 17", func(t *testing.T) {
		addr := encodeRaw(t, 17, conv(t, prog20), Bech32m)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrInvalidWitnessVersion) {
			t.Errorf("error = %v, want ErrInvalidWitnessVersion", err)
		}
	})

	t.Run("v0 with bech32m checksum", func(t *testing.T) {
		addr := encodeRaw(t, 0, conv(t, prog20), Bech32m)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("error = %v, want ErrChecksumMismatch", err)
		}
	})

	t.Run("non-zero padding", func(t *testing.T) {
		groups := conv(t, prog32)
		groups[len(groups)-1] |= 1
		addr := encodeRaw(t, 0, groups, Bech32)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrNonCanonicalPadding) {
			t.Errorf("error = %v, want ErrNonCanonicalPadding", err)
		}
	})

	t.Run("excess padding", func(t *testing.T) {
		groups := append(conv(t, prog20), 0)
		addr := encodeRaw(t, 0, groups, Bech32)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrNonCanonicalPadding) {
			t.Errorf("error = %v, want ErrNonCanonicalPadding", err)
		}
	})

	t.Run("41-byte program", func(t *testing.T) {
		addr := encodeRaw(t, 1, conv(t, make([]byte, 41)), Bech32m)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrInvalidProgramLength) {
			t.Errorf("error = %v, want ErrInvalidProgramLength", err)
		}
	})

	t.Run("1-byte program", func(t *testing.T) {
		addr := encodeRaw(t, 1, conv(t, []byte{0x75}), Bech32m)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrInvalidProgramLength) {
			t.Errorf("error = %v, want ErrInvalidProgramLength", err)
		}
	})

	t.Run("v0 25-byte program", func(t *testing.T) {
		addr := encodeRaw(t, 0, conv(t, make([]byte, 25)), Bech32)
		if _, _, err := DecodeSegWit("bc", addr); !errors.Is(err, ErrInvalidProgramLength) {
			t.Errorf("error = %v, want ErrInvalidProgramLength", err)
		}
	})
}

func TestEncodeSegWitValidation(t *testing.T) {
	prog20 := make([]byte, 20)
	tests := []struct {
		name    string
		hrp     string
		version byte
		program []byte
		kind    ErrorKind
	}{
		{"version 17", "bc", 17, prog20, ErrInvalidWitnessVersion},
		{"v0 program 21 bytes", "bc", 0, make([]byte, 21), ErrInvalidProgramLength},
		{"program 1 byte", "bc", 1, []byte{1}, ErrInvalidProgramLength},
		{"program 41 bytes", "bc", 1, make([]byte, 41), ErrInvalidProgramLength},
		{"empty hrp", "", 0, prog20, ErrHRPLengthOutOfRange},
		{"mixed case hrp", "Bc", 0, prog20, ErrMixedCase},
		{"hrp with space", "b c", 0, prog20, ErrInvalidCharacter},
		{"too long", strings.Repeat("a", 60), 0, make([]byte, 32), ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeSegWit(tt.hrp, tt.version, tt.program)
			if !errors.Is(err, tt.kind) {
				t.Errorf("EncodeSegWit() error = %v, want %v", err, tt.kind)
			}
		})
	}

	// A 20-byte program at version 1 is unusual but encodable.
	addr, err := EncodeSegWit("bc", 1, mustHex(t, "79fbfc3f34e7745860d76137da68f362380c606c"))
	if err != nil {
		t.Fatalf("EncodeSegWit(v1, 20 bytes) error = %v", err)
	}
	if want := "bc1p08alc0e5ua69scxhvyma568nvguqccrvt6lzmu"; addr != want {
		t.Errorf("EncodeSegWit(v1, 20 bytes) = %q, want %q", addr, want)
	}
}

func TestEncodeUpperCaseHRP(t *testing.T) {
	addr, err := EncodeSegWit("BC", 0, mustHex(t, "751e76e8199196d454941c45d1b3a323f1433bd6"))
	if err != nil {
		t.Fatalf("EncodeSegWit() error = %v", err)
	}
	if addr != "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4" {
		t.Errorf("EncodeSegWit(\"BC\") = %q, want lower-case output", addr)
	}
}

func TestEncodeMatchesBtcutil(t *testing.T) {
	programs := []string{
		"79fbfc3f34e7745860d76137da68f362380c606c",
		"c4c5d791fcb4654a1ef5e03fe0ad3d9c598f9827",
		"1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262",
	}
	for _, p := range programs {
		program := mustHex(t, p)
		groups, err := btcbech32.ConvertBits(program, 8, 5, true)
		if err != nil {
			t.Fatalf("btcutil ConvertBits() error = %v", err)
		}
		ours, err := ConvertBits(program, 8, 5, true)
		if err != nil {
			t.Fatalf("ConvertBits() error = %v", err)
		}
		if !bytes.Equal(ours, groups) {
			t.Errorf("ConvertBits(%s) = %v, btcutil = %v", p, ours, groups)
		}

		data := append([]byte{0}, groups...)
		want, err := btcbech32.Encode("bc", data)
		if err != nil {
			t.Fatalf("btcutil Encode() error = %v", err)
		}
		got, err := Encode("bc", data, Bech32)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if got != want {
			t.Errorf("Encode(bech32) = %q, btcutil = %q", got, want)
		}

		data[0] = 1
		wantM, err := btcbech32.EncodeM("bc", data)
		if err != nil {
			t.Fatalf("btcutil EncodeM() error = %v", err)
		}
		gotM, err := Encode("bc", data, Bech32m)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if gotM != wantM {
			t.Errorf("Encode(bech32m) = %q, btcutil = %q", gotM, wantM)
		}
	}
}

func TestDecodeReportsVariant(t *testing.T) {
	tests := []struct {
		addr string
		want Variant
	}{
		{"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", Bech32},
		{"bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0", Bech32m},
	}
	for _, tt := range tests {
		hrp, _, v, err := Decode(tt.addr)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", tt.addr, err)
		}
		if hrp != "bc" {
			t.Errorf("Decode(%q) hrp = %q, want bc", tt.addr, hrp)
		}
		if v != tt.want {
			t.Errorf("Decode(%q) variant = %v, want %v", tt.addr, v, tt.want)
		}
	}
}

func TestConvertBitsErrors(t *testing.T) {
	if _, err := ConvertBits([]byte{32}, 5, 8, false); !errors.Is(err, ErrInvalidDataValue) {
		t.Errorf("ConvertBits(32 as 5-bit) error = %v, want ErrInvalidDataValue", err)
	}
	if _, err := Encode("bc", []byte{0, 40}, Bech32); !errors.Is(err, ErrInvalidDataValue) {
		t.Errorf("Encode(value 40) error = %v, want ErrInvalidDataValue", err)
	}
}

func TestVariantString(t *testing.T) {
	if Bech32.String() != "bech32" || Bech32m.String() != "bech32m" {
		t.Errorf("variant names = %q, %q", Bech32, Bech32m)
	}
	if VariantForVersion(0) != Bech32 || VariantForVersion(1) != Bech32m || VariantForVersion(16) != Bech32m {
		t.Error("VariantForVersion picked the wrong checksum")
	}
}
