package wallet

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is defined over RIPEMD-160
)

// Hash160Size is the length of a hash160 digest.
const Hash160Size = ripemd160.Size

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	h := ripemd160.New()
	h.Write(chainhash.HashB(b))
	return h.Sum(nil)
}

// SHA256 returns the single SHA-256 digest of b.
func SHA256(b []byte) []byte {
	return chainhash.HashB(b)
}
