package btc

import (
	"context"
	"encoding/hex"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathWIF(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "wif/decode",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "wif-decode",
			},
			Fields: map[string]*framework.FieldSchema{
				"wif": {
					Type:        framework.TypeString,
					Description: "WIF private key",
					Required:    true,
					DisplayAttrs: &framework.DisplayAttributes{
						Sensitive: true,
					},
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathWIFDecode,
				},
			},
			HelpSynopsis:    pathWIFDecodeHelpSynopsis,
			HelpDescription: pathWIFDecodeHelpDescription,
		},
		{
			Pattern: "wif/encode",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "wif-encode",
			},
			Fields: map[string]*framework.FieldSchema{
				"private_key": {
					Type:        framework.TypeString,
					Description: "Private key as 64 hex characters",
					Required:    true,
					DisplayAttrs: &framework.DisplayAttributes{
						Sensitive: true,
					},
				},
				"compressed": {
					Type:        framework.TypeBool,
					Description: "Mark the key as belonging to a compressed public key (default: true)",
					Default:     true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathWIFEncode,
				},
			},
			HelpSynopsis:    pathWIFEncodeHelpSynopsis,
			HelpDescription: pathWIFEncodeHelpDescription,
		},
	}
}

func (b *btcBackend) pathWIFDecode(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	scalar, compressed, err := n.DecodeWIF(data.Get("wif").(string))
	if err != nil {
		return logical.ErrorResponse("invalid wif: %s", err), nil
	}

	k, err := wallet.ScalarFromBytes(scalar[:])
	if err != nil {
		return logical.ErrorResponse("invalid wif: %s", err), nil
	}
	point, err := wallet.PublicKey(k)
	if err != nil {
		return nil, err
	}
	pub, err := wallet.SerializePublicKey(point, compressed)
	if err != nil {
		return nil, err
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"network":     n.Name,
			"private_key": hex.EncodeToString(scalar[:]),
			"compressed":  compressed,
			"public_key":  hex.EncodeToString(pub),
		},
	}, nil
}

func (b *btcBackend) pathWIFEncode(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	k, err := wallet.ParsePrivateKeyHex(data.Get("private_key").(string))
	if err != nil {
		return logical.ErrorResponse("invalid private_key: %s", err), nil
	}
	compressed := data.Get("compressed").(bool)

	return &logical.Response{
		Data: map[string]interface{}{
			"network":    n.Name,
			"wif":        n.EncodeWIF(wallet.ScalarBytes(k), compressed),
			"compressed": compressed,
		},
	}, nil
}

const pathWIFDecodeHelpSynopsis = `
Decode a WIF private key.
`

const pathWIFDecodeHelpDescription = `
This endpoint decodes a Wallet Import Format string for the configured network
and returns the private key as hex, whether it marks a compressed public key,
and that public key.

Example:
  $ vault write btc/wif/decode wif=L...
`

const pathWIFEncodeHelpSynopsis = `
Encode a private key as WIF.
`

const pathWIFEncodeHelpDescription = `
This endpoint encodes a 32 byte hex private key in Wallet Import Format using
the configured network's version byte. Set compressed=false for keys whose
addresses were derived from the uncompressed public key.

Example:
  $ vault write btc/wif/encode private_key=c4bbcb1f... compressed=false
`
