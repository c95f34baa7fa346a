package btc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

const walletsStoragePrefix = "wallets/"

// btcWallet stores a brain wallet. Only the derived scalar is kept; the
// passphrase it came from is never written to storage.
type btcWallet struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PrivateKey  []byte    `json:"private_key"`
	Source      string    `json:"source"` // passphrase, words, wif or private_key
	CreatedAt   time.Time `json:"created_at"`
}

// scalar returns the wallet's private key as an integer
func (w *btcWallet) scalar() (*big.Int, error) {
	k, err := wallet.ScalarFromBytes(w.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("wallet %q has a corrupt private key: %w", w.Name, err)
	}
	return k, nil
}

func pathWallets(b *btcBackend) []*framework.Path {
	fields := map[string]*framework.FieldSchema{
		"name": {
			Type:        framework.TypeLowerCaseString,
			Description: "Name of the wallet",
			Required:    true,
		},
		"description": {
			Type:        framework.TypeString,
			Description: "Optional description for this wallet",
		},
	}
	for k, v := range keyInputFields() {
		fields[k] = v
	}

	return []*framework.Path{
		{
			Pattern: "wallets/?$",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "wallets",
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathWalletsList,
				},
			},
			HelpSynopsis:    pathWalletsListHelpSynopsis,
			HelpDescription: pathWalletsListHelpDescription,
		},
		{
			Pattern: "wallets/" + framework.GenericNameRegex("name"),
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
			},
			Fields: fields,
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathWalletsRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "wallet",
					},
				},
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathWalletsWrite,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "wallet",
					},
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathWalletsWrite,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "wallet",
					},
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathWalletsDelete,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "wallet",
					},
				},
			},
			ExistenceCheck:  b.pathWalletsExistenceCheck,
			HelpSynopsis:    pathWalletsHelpSynopsis,
			HelpDescription: pathWalletsHelpDescription,
		},
	}
}

func (b *btcBackend) pathWalletsList(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	b.Logger().Debug("listing wallets")
	entries, err := req.Storage.List(ctx, walletsStoragePrefix)
	if err != nil {
		return nil, fmt.Errorf("error listing wallets: %w", err)
	}

	b.Logger().Debug("wallets listed", "count", len(entries))
	return logical.ListResponse(entries), nil
}

func (b *btcBackend) pathWalletsExistenceCheck(ctx context.Context, req *logical.Request, data *framework.FieldData) (bool, error) {
	name := data.Get("name").(string)
	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return w != nil, nil
}

func (b *btcBackend) pathWalletsRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	b.Logger().Debug("reading wallet", "name", name)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	if w == nil {
		b.Logger().Debug("wallet not found", "name", name)
		return nil, nil
	}

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	ks, err := b.walletKeySet(n, w)
	if err != nil {
		return nil, err
	}

	addresses, err := getStoredAddresses(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	return &logical.Response{Data: walletData(w, ks.Public(), len(addresses))}, nil
}

func (b *btcBackend) pathWalletsWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	b.Logger().Debug("writing wallet", "name", name, "operation", req.Operation)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	createOperation := req.Operation == logical.CreateOperation

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	if w == nil {
		if !createOperation {
			return nil, fmt.Errorf("wallet %q not found during update operation", name)
		}

		k, source, err := keyFromInput(n, data)
		if err != nil {
			return logical.ErrorResponse(err.Error()), nil
		}

		b.Logger().Info("creating new wallet", "name", name, "source", source)
		scalar := wallet.ScalarBytes(k)
		w = &btcWallet{
			Name:       name,
			PrivateKey: scalar[:],
			Source:     source,
			CreatedAt:  time.Now().UTC(),
		}
	} else if hasKeyInput(data) {
		return logical.ErrorResponse("the key of wallet %q cannot be changed; delete and recreate it", name), nil
	}

	// Description can be set on create or update
	if description, ok := data.GetOk("description"); ok {
		w.Description = description.(string)
	}

	ks, err := b.walletKeySet(n, w)
	if err != nil {
		return nil, err
	}

	if err := saveWallet(ctx, req.Storage, w); err != nil {
		return nil, err
	}

	if createOperation {
		if err := saveAddressRecords(ctx, req.Storage, w.Name, addressRecords(ks)); err != nil {
			b.discardWallet(ctx, req.Storage, w.Name)
			return nil, err
		}
	}

	addresses, err := getStoredAddresses(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	return &logical.Response{Data: walletData(w, ks.Public(), len(addresses))}, nil
}

func (b *btcBackend) pathWalletsDelete(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	b.Logger().Debug("deleting wallet", "name", name)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if w != nil {
		n, err := b.getNetwork(ctx, req.Storage)
		if err != nil {
			return nil, err
		}
		if k, err := w.scalar(); err == nil {
			b.cache.Remove(b.cache.Key(n, k))
		}
	}

	if err := req.Storage.Delete(ctx, walletsStoragePrefix+name); err != nil {
		return nil, fmt.Errorf("error deleting wallet: %w", err)
	}

	deleted, err := deleteStoredAddresses(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	b.Logger().Info("wallet deleted", "name", name, "addresses_deleted", deleted)
	return nil, nil
}

// discardWallet removes a wallet whose create did not complete, along with any
// address records already written
func (b *btcBackend) discardWallet(ctx context.Context, s logical.Storage, name string) {
	if err := s.Delete(ctx, walletsStoragePrefix+name); err != nil {
		b.Logger().Warn("failed to remove incomplete wallet", "name", name, "error", err)
	}
	if _, err := deleteStoredAddresses(ctx, s, name); err != nil {
		b.Logger().Warn("failed to remove incomplete wallet addresses", "name", name, "error", err)
	}
}

// walletKeySet derives (or fetches from cache) the key set of a stored wallet
func (b *btcBackend) walletKeySet(n wallet.Network, w *btcWallet) (*wallet.KeySet, error) {
	k, err := w.scalar()
	if err != nil {
		return nil, err
	}
	ks, err := b.deriveKeySet(n, k)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys for wallet %q: %w", w.Name, err)
	}
	return ks, nil
}

// walletData renders a wallet and its public key set for a response
func walletData(w *btcWallet, ks *wallet.KeySet, addressCount int) map[string]interface{} {
	respData := keySetData(ks)
	respData["name"] = w.Name
	respData["source"] = w.Source
	respData["address_count"] = addressCount
	respData["created_at"] = w.CreatedAt.Format(time.RFC3339)
	if w.Description != "" {
		respData["description"] = w.Description
	}
	return respData
}

// getWallet retrieves a wallet from storage
func getWallet(ctx context.Context, s logical.Storage, name string) (*btcWallet, error) {
	entry, err := s.Get(ctx, walletsStoragePrefix+name)
	if err != nil {
		return nil, fmt.Errorf("error retrieving wallet: %w", err)
	}

	if entry == nil {
		return nil, nil
	}

	w := new(btcWallet)
	if err := entry.DecodeJSON(w); err != nil {
		return nil, fmt.Errorf("error decoding wallet: %w", err)
	}

	return w, nil
}

// saveWallet saves a wallet to storage
func saveWallet(ctx context.Context, s logical.Storage, w *btcWallet) error {
	entry, err := logical.StorageEntryJSON(walletsStoragePrefix+w.Name, w)
	if err != nil {
		return fmt.Errorf("error creating storage entry: %w", err)
	}

	if err := s.Put(ctx, entry); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}

	return nil
}

const pathWalletsListHelpSynopsis = `
List all wallets.
`

const pathWalletsListHelpDescription = `
This endpoint lists all brain wallets stored in the secrets engine.
`

const pathWalletsHelpSynopsis = `
Manage brain wallets.
`

const pathWalletsHelpDescription = `
This endpoint manages brain wallets. A wallet holds one private key, taken
from exactly one of:

  - passphrase:  the key is the SHA-256 of the passphrase bytes
  - words:       comma separated words joined with single spaces, then hashed
  - wif:         a WIF private key for the configured network
  - private_key: 64 hex characters

Only the resulting private key is stored. Reading a wallet returns both public
key serializations, their hash160 values and all seven address variants for
the network configured at btc/config. The private key is only returned by
btc/wallets/:name/wif.

To create a wallet from a passphrase:
  $ vault write btc/wallets/horse passphrase="correct horse battery staple"

To view the wallet's keys and addresses:
  $ vault read btc/wallets/horse

To delete a wallet:
  $ vault delete btc/wallets/horse

WARNING: Deleting a wallet permanently destroys the stored key.
`
