package btc

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

const addressStoragePrefix = "addresses/"

// storedAddress records one derived address of a wallet
type storedAddress struct {
	Address    string                `json:"address"`
	Variant    wallet.AddressVariant `json:"variant"`
	Compressed bool                  `json:"compressed"`
	PublicKey  string                `json:"public_key"`
	Network    string                `json:"network"`
}

// addressStorageKey returns the storage key for a wallet's address record,
// e.g. "addresses/treasury/c-p2sh-p2wpkh".
func addressStorageKey(walletName string, compressed bool, v wallet.AddressVariant) string {
	form := "u"
	if compressed {
		form = "c"
	}
	return fmt.Sprintf("%s%s/%s-%s", addressStoragePrefix, walletName, form, strings.ToLower(v.String()))
}

// addressRecords flattens a key set into storage records, compressed first
func addressRecords(ks *wallet.KeySet) []storedAddress {
	records := make([]storedAddress, 0, 2*len(wallet.AddressVariants()))
	for _, compressed := range []bool{true, false} {
		info := ks.Key(compressed)
		for _, a := range info.Addresses {
			records = append(records, storedAddress{
				Address:    a.Address,
				Variant:    a.Variant,
				Compressed: compressed,
				PublicKey:  info.PublicKey,
				Network:    ks.Network,
			})
		}
	}
	return records
}

// saveAddressRecords writes the address records for a wallet
func saveAddressRecords(ctx context.Context, s logical.Storage, walletName string, records []storedAddress) error {
	for _, r := range records {
		entry, err := logical.StorageEntryJSON(addressStorageKey(walletName, r.Compressed, r.Variant), r)
		if err != nil {
			return fmt.Errorf("failed to create storage entry: %w", err)
		}
		if err := s.Put(ctx, entry); err != nil {
			return fmt.Errorf("failed to store address %s: %w", r.Address, err)
		}
	}
	return nil
}

// getStoredAddresses retrieves all stored addresses for a wallet, compressed
// key first and then in variant order
func getStoredAddresses(ctx context.Context, s logical.Storage, walletName string) ([]storedAddress, error) {
	prefix := addressStoragePrefix + walletName + "/"
	entries, err := s.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("error listing addresses: %w", err)
	}

	addresses := make([]storedAddress, 0, len(entries))
	for _, entry := range entries {
		stored, err := s.Get(ctx, prefix+entry)
		if err != nil {
			return nil, fmt.Errorf("error reading address %s: %w", entry, err)
		}
		if stored == nil {
			continue
		}

		var addr storedAddress
		if err := stored.DecodeJSON(&addr); err != nil {
			return nil, fmt.Errorf("error decoding address %s: %w", entry, err)
		}

		addresses = append(addresses, addr)
	}

	sort.Slice(addresses, func(i, j int) bool {
		if addresses[i].Compressed != addresses[j].Compressed {
			return addresses[i].Compressed
		}
		return addresses[i].Variant < addresses[j].Variant
	})

	return addresses, nil
}

// deleteStoredAddresses removes every address record of a wallet
func deleteStoredAddresses(ctx context.Context, s logical.Storage, walletName string) (int, error) {
	prefix := addressStoragePrefix + walletName + "/"
	entries, err := s.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("error listing addresses: %w", err)
	}

	for _, entry := range entries {
		if err := s.Delete(ctx, prefix+entry); err != nil {
			return 0, fmt.Errorf("error deleting address: %w", err)
		}
	}
	return len(entries), nil
}
