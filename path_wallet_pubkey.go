package btc

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathWalletPubKey(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "wallets/" + framework.GenericNameRegex("name") + "/pubkey",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
			},
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeLowerCaseString,
					Description: "Name of the wallet",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathWalletPubKeyRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "pubkey",
					},
				},
			},
			HelpSynopsis:    pathWalletPubKeyHelpSynopsis,
			HelpDescription: pathWalletPubKeyHelpDescription,
		},
	}
}

func (b *btcBackend) pathWalletPubKeyRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)

	b.Logger().Debug("reading wallet public keys", "wallet", name)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	if w == nil {
		return logical.ErrorResponse("wallet %q not found", name), nil
	}

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	ks, err := b.walletKeySet(n, w)
	if err != nil {
		return nil, err
	}

	comp, uncomp := ks.Compressed.PublicKey, ks.Uncompressed.PublicKey

	// Segwit descriptors only accept compressed keys
	descriptors := make(map[string]string, 4)
	for field, desc := range map[string]string{
		"pkh":              fmt.Sprintf("pkh(%s)", comp),
		"pkh_uncompressed": fmt.Sprintf("pkh(%s)", uncomp),
		"wpkh":             fmt.Sprintf("wpkh(%s)", comp),
		"sh_wpkh":          fmt.Sprintf("sh(wpkh(%s))", comp),
	} {
		full, err := wallet.WithDescriptorChecksum(desc)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s descriptor: %w", field, err)
		}
		descriptors[field] = full
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"network":                 n.Name,
			"public_key":              comp,
			"public_key_uncompressed": uncomp,
			"hash160":                 ks.Compressed.Hash160,
			"hash160_uncompressed":    ks.Uncompressed.Hash160,
			"descriptors":             descriptors,
		},
	}, nil
}

const pathWalletPubKeyHelpSynopsis = `
Export the wallet's public keys for watch-only use.
`

const pathWalletPubKeyHelpDescription = `
This endpoint exports the compressed and uncompressed SEC public keys of a
wallet, their hash160 values, and output descriptors that watch-only wallet
software can import.

Response fields:
  - public_key: compressed public key (33 bytes, hex)
  - public_key_uncompressed: uncompressed public key (65 bytes, hex)
  - hash160: RIPEMD-160(SHA-256) of the compressed key
  - hash160_uncompressed: RIPEMD-160(SHA-256) of the uncompressed key
  - descriptors: pkh, pkh_uncompressed, wpkh and sh_wpkh descriptors, each
    with its #checksum suffix so it can be passed to importdescriptors

Example:
  $ vault read btc/wallets/horse/pubkey
`
