package btc

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
	"github.com/skip2/go-qrcode"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathWalletQR(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "wallets/" + framework.GenericNameRegex("name") + "/qr",
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
					Description: "Address variant to encode (default: BECH32)",
					Default:     wallet.Bech32.String(),
				},
				"compressed": {
					Type:        framework.TypeBool,
					Description: "Use the compressed public key (default: true)",
					Default:     true,
				},
				"size": {
					Type:        framework.TypeInt,
					Description: "QR code size in pixels (default: 256)",
					Default:     256,
				},
				"format": {
					Type:        framework.TypeString,
					Description: "Output format: 'png' (base64) or 'ascii' (default: png)",
					Default:     "png",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathWalletQRRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "qr",
					},
				},
			},
			HelpSynopsis:    pathWalletQRHelpSynopsis,
			HelpDescription: pathWalletQRHelpDescription,
		},
	}
}

func (b *btcBackend) pathWalletQRRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	name := data.Get("name").(string)
	size := data.Get("size").(int)
	format := data.Get("format").(string)
	compressed := data.Get("compressed").(bool)

	b.Logger().Debug("QR code request", "wallet", name, "format", format, "size", size)

	if size < 64 || size > 1024 {
		return logical.ErrorResponse("size must be between 64 and 1024"), nil
	}
	if format != "png" && format != "ascii" {
		return logical.ErrorResponse("format must be 'png' or 'ascii'"), nil
	}

	variant, err := wallet.ParseAddressVariant(data.Get("variant").(string))
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

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

	address, ok := ks.Key(compressed).Address(variant)
	if !ok {
		return nil, fmt.Errorf("wallet %q has no %s address", name, variant)
	}

	// BIP21 URI
	uri := fmt.Sprintf("bitcoin:%s", address)

	respData := map[string]interface{}{
		"address":    address,
		"variant":    variant.String(),
		"compressed": compressed,
		"uri":        uri,
	}

	if format == "ascii" {
		qr, err := qrcode.New(uri, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}
		respData["qr"] = qr.ToSmallString(false)
		respData["display_hint"] = "vault read -field=qr btc/wallets/" + name + "/qr format=ascii"
	} else {
		png, err := qrcode.Encode(uri, qrcode.Medium, size)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}
		respData["qr_png"] = base64.StdEncoding.EncodeToString(png)
	}

	return &logical.Response{Data: respData}, nil
}

const pathWalletQRHelpSynopsis = `
Get a QR code for one of the wallet's addresses.
`

const pathWalletQRHelpDescription = `
This endpoint returns a QR code containing a BIP21 URI (bitcoin:address) for
one address of the wallet.

Example:
  $ vault read btc/wallets/horse/qr
  $ vault read btc/wallets/horse/qr variant=p2pkh compressed=false size=512

For ASCII format, use -field to display correctly in terminal:
  $ vault read -field=qr btc/wallets/horse/qr format=ascii

Parameters:
  - variant: address variant (default: BECH32)
  - compressed: use the compressed public key (default: true)
  - size: QR code size in pixels (default: 256, range: 64-1024)
  - format: 'png' for base64-encoded PNG, 'ascii' for terminal display

Response:
  - address, variant, compressed: the encoded address
  - uri: BIP21 URI (bitcoin:address)
  - qr_png: Base64-encoded PNG (if format=png)
  - qr: ASCII art QR code (if format=ascii)
`
