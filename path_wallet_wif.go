package btc

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathWalletWIF(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "wallets/" + framework.GenericNameRegex("name") + "/wif",
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
					Callback: b.pathWalletWIFRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "wif",
					},
				},
			},
			HelpSynopsis:    pathWalletWIFHelpSynopsis,
			HelpDescription: pathWalletWIFHelpDescription,
		},
	}
}

func (b *btcBackend) pathWalletWIFRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)

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

	b.Logger().Info("private key exported", "wallet", name, "network", n.Name)

	return &logical.Response{
		Data: map[string]interface{}{
			"network":          n.Name,
			"private_key":      ks.PrivateKey,
			"wif":              ks.Compressed.WIF,
			"wif_uncompressed": ks.Uncompressed.WIF,
		},
	}, nil
}

const pathWalletWIFHelpSynopsis = `
Export the wallet's private key.
`

const pathWalletWIFHelpDescription = `
This endpoint returns the wallet's private key as hex and in Wallet Import
Format, once for the compressed and once for the uncompressed public key.
The WIF version byte comes from the configured network.

Restrict access to this path with a policy; anyone who can read it can spend
from every address of the wallet.

Example:
  $ vault read btc/wallets/horse/wif
`
