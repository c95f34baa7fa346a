package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/dan/vault-plugin-secrets-brainwallet/base58"
	"github.com/dan/vault-plugin-secrets-brainwallet/ecc"
)

const (
	horsePhrase       = "correct horse battery staple"
	horsePrivKey      = "c4bbcb1fbec99d65bf59d85c8cb62ee2db963f0fe106f483d9afa73bd4e39a8a"
	horseWIF          = "L3p8oAcQTtuokSCRHQ7i4MhjWc9zornvpJLfmg62sYpLRJF9woSu"
	horseWIFUncomp    = "5KJvsngHeMpm884wtkJNzQGaCErckhHJBGFsvd3VyK5qMZXj3hS"
	horsePubKey       = "0378d430274f8c5ec1321338151e9f27f4c676a008bdf8638d07c0b6be9ab35c71"
	horsePubKeyUncomp = "0478d430274f8c5ec1321338151e9f27f4c676a008bdf8638d07c0b6be9ab35c71a1518063243acd4dfe96b66e3f2ec8013c8e072cd09b3834a19f81f659cc3455"
	horseHash160      = "79fbfc3f34e7745860d76137da68f362380c606c"
	horseHash160Unc   = "c4c5d791fcb4654a1ef5e03fe0ad3d9c598f9827"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestScalarFromPassphrase(t *testing.T) {
	k, err := ScalarFromPassphrase(horsePhrase)
	if err != nil {
		t.Fatalf("ScalarFromPassphrase() error = %v", err)
	}
	b := ScalarBytes(k)
	if got := hex.EncodeToString(b[:]); got != horsePrivKey {
		t.Errorf("ScalarFromPassphrase() = %s, want %s", got, horsePrivKey)
	}

	// The phrase is hashed byte for byte.
	other, err := ScalarFromPassphrase(horsePhrase + " ")
	if err != nil {
		t.Fatalf("ScalarFromPassphrase() error = %v", err)
	}
	if other.Cmp(k) == 0 {
		t.Error("trailing space should change the key")
	}
}

func TestJoinPassphrase(t *testing.T) {
	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"correct", "horse", "battery", "staple"}, horsePhrase},
		{[]string{"single"}, "single"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := JoinPassphrase(tt.words); got != tt.want {
			t.Errorf("JoinPassphrase(%q) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestValidateScalar(t *testing.T) {
	n := ecc.S256().N()
	tests := []struct {
		name    string
		k       *big.Int
		wantErr bool
	}{
		{"nil", nil, true},
		{"zero", big.NewInt(0), true},
		{"negative", big.NewInt(-1), true},
		{"one", big.NewInt(1), false},
		{"n-1", new(big.Int).Sub(n, big.NewInt(1)), false},
		{"n", n, true},
		{"n+1", new(big.Int).Add(n, big.NewInt(1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScalar(tt.k)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateScalar() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidScalar) {
				t.Errorf("ValidateScalar() error = %v, want ErrInvalidScalar", err)
			}
		})
	}
}

func TestParsePrivateKeyHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind error
	}{
		{"valid", horsePrivKey, nil},
		{"surrounding space", "  " + horsePrivKey + "\n", nil},
		{"short", horsePrivKey[:62], ErrHexDecode},
		{"long", horsePrivKey + "00", ErrHexDecode},
		{"not hex", "zz" + horsePrivKey[2:], ErrHexDecode},
		{"zero", "0000000000000000000000000000000000000000000000000000000000000000", ErrInvalidScalar},
		{"order", "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", ErrInvalidScalar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ParsePrivateKeyHex(tt.in)
			if tt.kind == nil {
				if err != nil {
					t.Fatalf("ParsePrivateKeyHex() error = %v", err)
				}
				b := ScalarBytes(k)
				if hex.EncodeToString(b[:]) != horsePrivKey {
					t.Errorf("ParsePrivateKeyHex() = %x", b)
				}
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("ParsePrivateKeyHex() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestSerializePublicKey(t *testing.T) {
	k, err := ParsePrivateKeyHex(horsePrivKey)
	if err != nil {
		t.Fatalf("ParsePrivateKeyHex() error = %v", err)
	}
	p, err := PublicKey(k)
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}

	comp, err := SerializePublicKey(p, true)
	if err != nil {
		t.Fatalf("SerializePublicKey(compressed) error = %v", err)
	}
	if hex.EncodeToString(comp) != horsePubKey {
		t.Errorf("compressed = %x, want %s", comp, horsePubKey)
	}

	uncomp, err := SerializePublicKey(p, false)
	if err != nil {
		t.Fatalf("SerializePublicKey(uncompressed) error = %v", err)
	}
	if hex.EncodeToString(uncomp) != horsePubKeyUncomp {
		t.Errorf("uncompressed = %x, want %s", uncomp, horsePubKeyUncomp)
	}

	_, btcPub := btcec.PrivKeyFromBytes(mustHex(t, horsePrivKey))
	if !bytes.Equal(comp, btcPub.SerializeCompressed()) {
		t.Error("compressed key differs from btcec")
	}
	if !bytes.Equal(uncomp, btcPub.SerializeUncompressed()) {
		t.Error("uncompressed key differs from btcec")
	}

	if _, err := SerializePublicKey(ecc.Infinity(), true); !errors.Is(err, ErrPointAtInfinity) {
		t.Errorf("SerializePublicKey(infinity) error = %v, want ErrPointAtInfinity", err)
	}
}

func TestSerializePublicKeyParity(t *testing.T) {
	tests := []struct {
		k      int64
		prefix byte
	}{
		{1, 0x02},
		{2, 0x02},
		{5, 0x02},
		{6, 0x03},
		{9, 0x03},
		{10, 0x03},
	}
	for _, tt := range tests {
		p, err := PublicKey(big.NewInt(tt.k))
		if err != nil {
			t.Fatalf("PublicKey(%d) error = %v", tt.k, err)
		}
		b, err := SerializePublicKey(p, true)
		if err != nil {
			t.Fatalf("SerializePublicKey() error = %v", err)
		}
		if b[0] != tt.prefix {
			t.Errorf("%dG prefix = %#02x, want %#02x", tt.k, b[0], tt.prefix)
		}
	}

	p, _ := PublicKey(big.NewInt(2))
	b, _ := SerializePublicKey(p, true)
	if got := hex.EncodeToString(b); got != "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5" {
		t.Errorf("2G = %s", got)
	}
}

func TestParsePublicKey(t *testing.T) {
	comp := mustHex(t, horsePubKey)
	uncomp := mustHex(t, horsePubKeyUncomp)

	pc, err := ParsePublicKey(comp)
	if err != nil {
		t.Fatalf("ParsePublicKey(compressed) error = %v", err)
	}
	pu, err := ParsePublicKey(uncomp)
	if err != nil {
		t.Fatalf("ParsePublicKey(uncompressed) error = %v", err)
	}
	if !pc.Equal(pu) {
		t.Error("compressed and uncompressed forms decode to different points")
	}

	offCurve := append([]byte(nil), uncomp...)
	offCurve[64] ^= 1
	badPrefix := append([]byte(nil), comp...)
	badPrefix[0] = 0x05

	// x = 5 has no square root on the curve.
	noRoot := make([]byte, 33)
	noRoot[0] = 0x02
	noRoot[32] = 5

	tests := []struct {
		name string
		in   []byte
		kind ErrorKind
	}{
		{"infinity", []byte{0x00}, ErrPointAtInfinity},
		{"empty", nil, ErrInvalidPublicKey},
		{"truncated compressed", comp[:32], ErrInvalidPublicKey},
		{"truncated uncompressed", uncomp[:64], ErrInvalidPublicKey},
		{"off curve", offCurve, ErrInvalidPublicKey},
		{"bad prefix", badPrefix, ErrInvalidPublicKey},
		{"no square root", noRoot, ErrInvalidPublicKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePublicKey(tt.in)
			if !errors.Is(err, tt.kind) {
				t.Errorf("ParsePublicKey() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestWIFVectors(t *testing.T) {
	tests := []struct {
		name       string
		privKey    string
		compressed bool
		want       string
	}{
		{"horse compressed", horsePrivKey, true, horseWIF},
		{"horse uncompressed", horsePrivKey, false, horseWIFUncomp},
		{"one compressed", "0000000000000000000000000000000000000000000000000000000000000001", true, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"},
		{"one uncompressed", "0000000000000000000000000000000000000000000000000000000000000001", false, "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scalar [PrivateKeySize]byte
			copy(scalar[:], mustHex(t, tt.privKey))

			got := PrivateKeyToWIF(scalar, tt.compressed)
			if got != tt.want {
				t.Errorf("PrivateKeyToWIF() = %q, want %q", got, tt.want)
			}

			decoded, compressed, err := WIFToPrivateKey(got)
			if err != nil {
				t.Fatalf("WIFToPrivateKey() error = %v", err)
			}
			if decoded != scalar || compressed != tt.compressed {
				t.Errorf("WIFToPrivateKey() = %x %v, want %x %v", decoded, compressed, scalar, tt.compressed)
			}

			priv, _ := btcec.PrivKeyFromBytes(scalar[:])
			wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, tt.compressed)
			if err != nil {
				t.Fatalf("btcutil.NewWIF() error = %v", err)
			}
			if wif.String() != got {
				t.Errorf("PrivateKeyToWIF() = %q, btcutil = %q", got, wif.String())
			}
		})
	}
}

func TestNetworkWIF(t *testing.T) {
	var scalar [PrivateKeySize]byte
	copy(scalar[:], mustHex(t, horsePrivKey))
	priv, _ := btcec.PrivKeyFromBytes(scalar[:])

	for _, compressed := range []bool{true, false} {
		got := TestNet.EncodeWIF(scalar, compressed)
		wif, err := btcutil.NewWIF(priv, &chaincfg.TestNet3Params, compressed)
		if err != nil {
			t.Fatalf("btcutil.NewWIF() error = %v", err)
		}
		if got != wif.String() {
			t.Errorf("TestNet.EncodeWIF(%v) = %q, btcutil = %q", compressed, got, wif.String())
		}

		decoded, c, err := TestNet.DecodeWIF(got)
		if err != nil {
			t.Fatalf("TestNet.DecodeWIF() error = %v", err)
		}
		if decoded != scalar || c != compressed {
			t.Errorf("TestNet.DecodeWIF() = %x %v", decoded, c)
		}

		// A testnet key is not a mainnet key.
		if _, _, err := WIFToPrivateKey(got); !errors.Is(err, ErrInvalidWIF) {
			t.Errorf("WIFToPrivateKey(testnet) error = %v, want ErrInvalidWIF", err)
		}
	}
}

func TestWIFToPrivateKeyErrors(t *testing.T) {
	scalar := mustHex(t, horsePrivKey)

	withFlag := func(flag byte) string {
		return base58.CheckEncodeVersion(WIFVersion, append(append([]byte(nil), scalar...), flag))
	}

	tests := []struct {
		name string
		in   string
		kind error
	}{
		{"bad checksum", horseWIF[:len(horseWIF)-1] + "T", base58.ErrChecksumMismatch},
		{"bad character", "0" + horseWIF[1:], base58.ErrInvalidCharacter},
		{"too short", base58.CheckEncodeVersion(WIFVersion, scalar[:31]), ErrInvalidWIF},
		{"too long", base58.CheckEncodeVersion(WIFVersion, append(append([]byte(nil), scalar...), 1, 1)), ErrInvalidWIF},
		{"bad compression flag", withFlag(0x02), ErrInvalidWIF},
		{"wrong version", base58.CheckEncodeVersion(0x00, scalar), ErrInvalidWIF},
		{"zero scalar", base58.CheckEncodeVersion(WIFVersion, make([]byte, 32)), ErrInvalidScalar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := WIFToPrivateKey(tt.in)
			if !errors.Is(err, tt.kind) {
				t.Errorf("WIFToPrivateKey(%q) error = %v, want %v", tt.in, err, tt.kind)
			}
		})
	}

	if _, _, err := WIFToPrivateKey(withFlag(0x01)); err != nil {
		t.Errorf("WIFToPrivateKey(flag 0x01) error = %v", err)
	}
}

func TestHash160(t *testing.T) {
	for _, pub := range []string{horsePubKey, horsePubKeyUncomp} {
		b := mustHex(t, pub)
		if got, want := Hash160(b), btcutil.Hash160(b); !bytes.Equal(got, want) {
			t.Errorf("Hash160(%s) = %x, btcutil = %x", pub, got, want)
		}
	}
	if got := hex.EncodeToString(Hash160(mustHex(t, horsePubKey))); got != horseHash160 {
		t.Errorf("Hash160(compressed) = %s, want %s", got, horseHash160)
	}
	if got := hex.EncodeToString(Hash160(mustHex(t, horsePubKeyUncomp))); got != horseHash160Unc {
		t.Errorf("Hash160(uncompressed) = %s, want %s", got, horseHash160Unc)
	}
	if len(Hash160(nil)) != Hash160Size {
		t.Errorf("Hash160(nil) length = %d", len(Hash160(nil)))
	}
}

func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrInvalidScalar, "ErrInvalidScalar"},
		{ErrPointAtInfinity, "ErrPointAtInfinity"},
		{ErrHexDecode, "ErrHexDecode"},
		{ErrInvalidPublicKey, "ErrInvalidPublicKey"},
		{ErrInvalidWIF, "ErrInvalidWIF"},
		{ErrUnsupportedAddressVariant, "ErrUnsupportedAddressVariant"},
		{ErrUnknownNetwork, "ErrUnknownNetwork"},
		{ErrUnknownAddress, "ErrUnknownAddress"},
		{ErrInvalidNetwork, "ErrInvalidNetwork"},
		{ErrInvalidDescriptor, "ErrInvalidDescriptor"},
	}
	for i, test := range tests {
		if got := test.in.Error(); got != test.want {
			t.Errorf("#%d: got: %s want: %s", i, got, test.want)
		}
	}
}
