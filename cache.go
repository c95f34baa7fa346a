package btc

import (
	"encoding/hex"
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

// DefaultKeySetCacheSize is the number of derived key sets kept in memory.
const DefaultKeySetCacheSize = 256

// KeySetCache holds recently derived key sets so repeated reads of the same
// wallet skip the scalar multiplication. Entries are keyed by the network
// parameters and a digest of the scalar, never the scalar itself.
type KeySetCache struct {
	sets *lru.Cache
}

// NewKeySetCache creates a cache holding up to size key sets
func NewKeySetCache(size int) (*KeySetCache, error) {
	sets, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create key set cache: %w", err)
	}
	return &KeySetCache{sets: sets}, nil
}

// Key returns the cache key for k derived on n
func (c *KeySetCache) Key(n wallet.Network, k *big.Int) string {
	scalar := wallet.ScalarBytes(k)
	return fmt.Sprintf("%s/%s/%02x%02x%02x/%s",
		n.Name, n.HRP, n.PubKeyHashAddrID, n.ScriptHashAddrID, n.PrivateKeyID,
		hex.EncodeToString(wallet.SHA256(scalar[:])))
}

// Get returns a cached key set. Callers must not modify it.
func (c *KeySetCache) Get(key string) (*wallet.KeySet, bool) {
	v, ok := c.sets.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*wallet.KeySet), true
}

// Add stores a key set
func (c *KeySetCache) Add(key string, ks *wallet.KeySet) {
	c.sets.Add(key, ks)
}

// Remove drops a single entry
func (c *KeySetCache) Remove(key string) {
	c.sets.Remove(key)
}

// Purge drops every entry
func (c *KeySetCache) Purge() {
	c.sets.Purge()
}

// Len returns the number of cached key sets
func (c *KeySetCache) Len() int {
	return c.sets.Len()
}
