package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// DerivedAddress pairs an address with the variant that produced it.
type DerivedAddress struct {
	Variant AddressVariant `json:"variant"`
	Address string         `json:"address"`
}

// PublicKeyInfo is everything derived from one serialization of a key.
type PublicKeyInfo struct {
	Compressed bool             `json:"compressed"`
	PublicKey  string           `json:"public_key"`
	Hash160    string           `json:"hash160"`
	WIF        string           `json:"wif"`
	Addresses  []DerivedAddress `json:"addresses"`
}

// Address returns the address of the given variant.
func (p *PublicKeyInfo) Address(v AddressVariant) (string, bool) {
	for _, a := range p.Addresses {
		if a.Variant == v {
			return a.Address, true
		}
	}
	return "", false
}

// KeySet is the full report for one private key: the scalar, and the WIF,
// public key, hash160 and all seven addresses for both serializations.
type KeySet struct {
	Network      string        `json:"network"`
	PrivateKey   string        `json:"private_key"`
	Compressed   PublicKeyInfo `json:"compressed"`
	Uncompressed PublicKeyInfo `json:"uncompressed"`
}

// Key returns the compressed or uncompressed half of the set.
func (ks *KeySet) Key(compressed bool) *PublicKeyInfo {
	if compressed {
		return &ks.Compressed
	}
	return &ks.Uncompressed
}

// Public returns a copy of the set without private material.
func (ks *KeySet) Public() *KeySet {
	out := *ks
	out.PrivateKey = ""
	out.Compressed.WIF = ""
	out.Uncompressed.WIF = ""
	out.Compressed.Addresses = append([]DerivedAddress(nil), ks.Compressed.Addresses...)
	out.Uncompressed.Addresses = append([]DerivedAddress(nil), ks.Uncompressed.Addresses...)
	return &out
}

// DeriveKeySet derives the full key set for k on the network.
func (n Network) DeriveKeySet(k *big.Int) (*KeySet, error) {
	point, err := PublicKey(k)
	if err != nil {
		return nil, err
	}
	scalar := ScalarBytes(k)

	ks := &KeySet{
		Network:    n.Name,
		PrivateKey: hex.EncodeToString(scalar[:]),
	}
	for _, compressed := range []bool{true, false} {
		pub, err := SerializePublicKey(point, compressed)
		if err != nil {
			return nil, err
		}
		info := ks.Key(compressed)
		info.Compressed = compressed
		info.PublicKey = hex.EncodeToString(pub)
		info.Hash160 = hex.EncodeToString(Hash160(pub))
		info.WIF = n.EncodeWIF(scalar, compressed)
		info.Addresses = make([]DerivedAddress, 0, numAddressVariants)
		for _, v := range AddressVariants() {
			addr, err := n.address(pub, v)
			if err != nil {
				return nil, fmt.Errorf("failed to derive %s address: %w", v, err)
			}
			info.Addresses = append(info.Addresses, DerivedAddress{Variant: v, Address: addr})
		}
	}
	return ks, nil
}

// DeriveBatch derives key sets for independent scalars on up to workers
// goroutines. Results are in input order. The first failure cancels the
// remaining work and is returned with the index of the failing scalar.
func (n Network) DeriveBatch(ctx context.Context, scalars []*big.Int, workers int) ([]*KeySet, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]*KeySet, len(scalars))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range scalars {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ks, err := n.DeriveKeySet(scalars[i])
			if err != nil {
				return fmt.Errorf("failed to derive key %d: %w", i, err)
			}
			out[i] = ks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
