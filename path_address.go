package btc

import (
	"context"
	"encoding/hex"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathAddress(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "address",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "address",
			},
			Fields: map[string]*framework.FieldSchema{
				"public_key": {
					Type:        framework.TypeString,
					Description: "SEC public key as hex (33 or 65 bytes)",
					Required:    true,
				},
				"variant": {
					Type:        framework.TypeString,
					Description: "Address variant. If omitted, all variants are returned.",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathAddressWrite,
				},
			},
			HelpSynopsis:    pathAddressHelpSynopsis,
			HelpDescription: pathAddressHelpDescription,
		},
	}
}

func (b *btcBackend) pathAddressWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	pubHex := data.Get("public_key").(string)
	if pubHex == "" {
		return logical.ErrorResponse("public_key is required"), nil
	}

	_, pub, err := wallet.ParsePublicKeyHex(pubHex)
	if err != nil {
		return logical.ErrorResponse("invalid public_key: %s", err), nil
	}

	variants := wallet.AddressVariants()
	if raw, ok := data.GetOk("variant"); ok && raw.(string) != "" {
		v, err := wallet.ParseAddressVariant(raw.(string))
		if err != nil {
			return logical.ErrorResponse(err.Error()), nil
		}
		variants = []wallet.AddressVariant{v}
	}

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	addresses := make(map[string]string, len(variants))
	for _, v := range variants {
		addr, err := n.Address(pub, v)
		if err != nil {
			return logical.ErrorResponse("failed to derive %s address: %s", v, err), nil
		}
		addresses[v.String()] = addr
	}

	respData := map[string]interface{}{
		"network":    n.Name,
		"public_key": hex.EncodeToString(pub),
		"compressed": len(pub) == wallet.CompressedPubKeySize,
		"hash160":    hex.EncodeToString(wallet.Hash160(pub)),
		"addresses":  addresses,
	}
	if len(variants) == 1 {
		respData["variant"] = variants[0].String()
		respData["address"] = addresses[variants[0].String()]
	}

	return &logical.Response{Data: respData}, nil
}

const pathAddressHelpSynopsis = `
Derive addresses from a public key.
`

const pathAddressHelpDescription = `
This endpoint derives addresses for the configured network from a compressed
(33 byte) or uncompressed (65 byte) SEC public key. The key must lie on the
secp256k1 curve.

Variants:
  P2PKH         Base58Check of hash160(pubkey)
  P2SH          Base58Check of hash160(pubkey) with the script hash version
  P2SH-P2WPKH   P2SH wrapping the witness program OP_0 <hash160(pubkey)>
  BECH32        witness v0, hash160(pubkey)
  BECH32M       witness v1, hash160(pubkey)
  P2WSH         witness v0, sha256(pubkey)
  P2WSH-P2WPKH  witness v0, sha256(OP_0 <hash160(pubkey)>)

P2SH, BECH32M and P2WSH follow the brain wallet tool's historic layout and are
not standard spendable outputs.

Example:
  $ vault write btc/address public_key=0278d4... variant=bech32
`
