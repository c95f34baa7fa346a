package btc

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathWalletAddresses(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "wallets/" + framework.GenericNameRegex("name") + "/addresses",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
			},
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeLowerCaseString,
					Description: "Name of the wallet",
					Required:    true,
				},
				"variant": {
					Type:        framework.TypeString,
					Description: "Only return addresses of this variant (e.g. P2PKH, BECH32, P2SH-P2WPKH)",
				},
				"compressed": {
					Type:        framework.TypeBool,
					Description: "Only return addresses of the compressed (true) or uncompressed (false) public key",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathWalletAddressesRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "addresses",
					},
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathWalletAddressesWrite,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "addresses-refresh",
					},
				},
			},
			HelpSynopsis:    pathWalletAddressesHelpSynopsis,
			HelpDescription: pathWalletAddressesHelpDescription,
		},
	}
}

// addressFilter selects stored address records
type addressFilter struct {
	variant    *wallet.AddressVariant
	compressed *bool
}

func parseAddressFilter(data *framework.FieldData) (addressFilter, error) {
	var f addressFilter
	if raw, ok := data.GetOk("variant"); ok && raw.(string) != "" {
		v, err := wallet.ParseAddressVariant(raw.(string))
		if err != nil {
			return f, err
		}
		f.variant = &v
	}
	if raw, ok := data.GetOk("compressed"); ok {
		c := raw.(bool)
		f.compressed = &c
	}
	return f, nil
}

func (f addressFilter) match(a storedAddress) bool {
	if f.variant != nil && a.Variant != *f.variant {
		return false
	}
	if f.compressed != nil && a.Compressed != *f.compressed {
		return false
	}
	return true
}

func (b *btcBackend) pathWalletAddressesRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	b.Logger().Debug("reading wallet addresses", "wallet", name)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	if w == nil {
		return logical.ErrorResponse("wallet %q not found", name), nil
	}

	filter, err := parseAddressFilter(data)
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	addresses, err := getStoredAddresses(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	return &logical.Response{Data: addressListData(addresses, filter)}, nil
}

// pathWalletAddressesWrite replaces the stored records with addresses derived
// for the currently configured network
func (b *btcBackend) pathWalletAddressesWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	b.Logger().Debug("refreshing wallet addresses", "wallet", name)

	w, err := getWallet(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	if w == nil {
		return logical.ErrorResponse("wallet %q not found", name), nil
	}

	filter, err := parseAddressFilter(data)
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	ks, err := b.walletKeySet(n, w)
	if err != nil {
		return nil, err
	}

	if _, err := deleteStoredAddresses(ctx, req.Storage, name); err != nil {
		return nil, err
	}
	records := addressRecords(ks)
	if err := saveAddressRecords(ctx, req.Storage, name, records); err != nil {
		return nil, err
	}

	b.Logger().Info("wallet addresses refreshed", "wallet", name, "network", n.Name, "count", len(records))
	return &logical.Response{Data: addressListData(records, filter)}, nil
}

func addressListData(addresses []storedAddress, filter addressFilter) map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(addresses))
	for _, a := range addresses {
		if !filter.match(a) {
			continue
		}
		out = append(out, map[string]interface{}{
			"address":    a.Address,
			"variant":    a.Variant.String(),
			"compressed": a.Compressed,
			"public_key": a.PublicKey,
			"network":    a.Network,
		})
	}
	return map[string]interface{}{
		"addresses": out,
		"count":     len(out),
	}
}

const pathWalletAddressesHelpSynopsis = `
List or refresh the stored addresses of a wallet.
`

const pathWalletAddressesHelpDescription = `
Every wallet stores fourteen address records: the seven address variants for
both the compressed and the uncompressed public key.

Reading returns the stored records, optionally filtered:
  $ vault read btc/wallets/horse/addresses
  $ vault read btc/wallets/horse/addresses variant=bech32 compressed=true

Writing re-derives the records for the network currently configured at
btc/config, replacing the old ones:
  $ vault write btc/wallets/horse/addresses

Parameters:
  - variant: P2PKH, P2SH, P2SH-P2WPKH, BECH32, BECH32M, P2WSH or P2WSH-P2WPKH
  - compressed: true or false
`
