package btc

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

// btcBackend defines the backend for the brain wallet secrets engine
type btcBackend struct {
	*framework.Backend
	lock    sync.RWMutex
	network *wallet.Network
	cache   *KeySetCache
}

// Factory creates a new backend instance
func Factory(ctx context.Context, conf *logical.BackendConfig) (logical.Backend, error) {
	b, err := backend()
	if err != nil {
		return nil, err
	}
	if err := b.Setup(ctx, conf); err != nil {
		return nil, err
	}
	return b, nil
}

func backend() (*btcBackend, error) {
	cache, err := NewKeySetCache(DefaultKeySetCacheSize)
	if err != nil {
		return nil, err
	}
	b := &btcBackend{
		cache: cache,
	}

	b.Backend = &framework.Backend{
		Help: strings.TrimSpace(backendHelp),
		PathsSpecial: &logical.Paths{
			SealWrapStorage: []string{
				"wallets/*",
			},
		},
		Paths: framework.PathAppend(
			pathConfig(b),
			pathWallets(b),
			pathWalletAddresses(b),
			pathWalletPubKey(b),
			pathWalletWIF(b),
			pathWalletQR(b),
			pathDerive(b),
			pathAddress(b),
			pathValidate(b),
			pathWIF(b),
		),
		Secrets:     []*framework.Secret{},
		BackendType: logical.TypeLogical,
		Invalidate:  b.invalidate,
	}

	return b, nil
}

// invalidate drops derived state when configuration changes
func (b *btcBackend) invalidate(ctx context.Context, key string) {
	if key == configStoragePath {
		b.reset()
	}
}

// reset clears the resolved network and every cached key set
func (b *btcBackend) reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.network != nil {
		b.Logger().Debug("clearing resolved network", "network", b.network.Name)
	}
	b.network = nil
	b.cache.Purge()
}

// getNetwork returns the configured network, resolving it from storage once
func (b *btcBackend) getNetwork(ctx context.Context, s logical.Storage) (wallet.Network, error) {
	b.lock.RLock()
	if b.network != nil {
		n := *b.network
		b.lock.RUnlock()
		return n, nil
	}
	b.lock.RUnlock()

	b.lock.Lock()
	defer b.lock.Unlock()

	// Double-check after acquiring write lock
	if b.network != nil {
		return *b.network, nil
	}

	config, err := getConfig(ctx, s)
	if err != nil {
		return wallet.Network{}, err
	}

	n, err := config.resolve()
	if err != nil {
		return wallet.Network{}, err
	}

	b.Logger().Debug("resolved network", "network", n.Name, "hrp", n.HRP)
	b.network = &n
	return n, nil
}

// deriveKeySet derives the key set for k on n, consulting the cache first
func (b *btcBackend) deriveKeySet(n wallet.Network, k *big.Int) (*wallet.KeySet, error) {
	key := b.cache.Key(n, k)
	if ks, ok := b.cache.Get(key); ok {
		b.Logger().Trace("key set cache hit", "network", n.Name)
		return ks, nil
	}

	ks, err := n.DeriveKeySet(k)
	if err != nil {
		return nil, err
	}
	b.cache.Add(key, ks)
	return ks, nil
}

const backendHelp = `
The brain wallet secrets engine derives Bitcoin keys and addresses from a
secret scalar, typically the SHA-256 of a passphrase.

For every key it reports the WIF private key, the compressed and uncompressed
public keys, their hash160 values, and seven address variants for each
serialization: P2PKH, P2SH, P2SH-P2WPKH, BECH32, BECH32M, P2WSH and
P2WSH-P2WPKH.

WARNING: passphrase-derived keys are only as strong as the passphrase. Brain
wallets with guessable phrases are routinely swept.

Configure the engine with a network (mainnet, testnet3, testnet4, signet or
regtest) and optional prefix and version byte overrides.

Endpoints:
  btc/config                      - Network configuration
  btc/wallets                     - List stored wallets
  btc/wallets/:name               - Create, read or delete a wallet
  btc/wallets/:name/addresses     - List or refresh stored address records
  btc/wallets/:name/pubkey        - Export public keys and hash160 values
  btc/wallets/:name/wif           - Export the private key as WIF
  btc/wallets/:name/qr            - QR code for one of the wallet's addresses
  btc/derive                      - Stateless key set derivation
  btc/address                     - Public key to address
  btc/validate                    - Decode and classify an address
  btc/wif/decode                  - WIF to private key
  btc/wif/encode                  - Private key to WIF
`
