package btc

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

func pathValidate(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "validate",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "validate",
			},
			Fields: map[string]*framework.FieldSchema{
				"address": {
					Type:        framework.TypeString,
					Description: "Address to decode",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathValidateWrite,
				},
			},
			HelpSynopsis:    pathValidateHelpSynopsis,
			HelpDescription: pathValidateHelpDescription,
		},
	}
}

// candidateVariants lists the address variants that produce addresses of a
// decoded kind and program length
func candidateVariants(info *wallet.AddressInfo) []string {
	var out []wallet.AddressVariant
	switch info.Kind {
	case "p2pkh":
		out = []wallet.AddressVariant{wallet.P2PKH}
	case "p2sh":
		out = []wallet.AddressVariant{wallet.P2SH, wallet.P2SHP2WPKH}
	case "witness_v0":
		if len(info.Program) == wallet.Hash160Size {
			out = []wallet.AddressVariant{wallet.Bech32}
		} else {
			out = []wallet.AddressVariant{wallet.P2WSH, wallet.P2WSHP2WPKH}
		}
	case "witness_v1":
		if len(info.Program) == wallet.Hash160Size {
			out = []wallet.AddressVariant{wallet.Bech32M}
		}
	}

	names := make([]string, len(out))
	for i, v := range out {
		names[i] = v.String()
	}
	return names
}

// standardType classifies an address with btcutil, which only knows the
// standard output types
func standardType(addr string, n wallet.Network) (string, bool) {
	params := n.ChainParams()
	a, err := btcutil.DecodeAddress(addr, params)
	if err != nil || !a.IsForNet(params) {
		return "", false
	}
	switch a.(type) {
	case *btcutil.AddressPubKeyHash:
		return "p2pkh", true
	case *btcutil.AddressScriptHash:
		return "p2sh", true
	case *btcutil.AddressWitnessPubKeyHash:
		return "p2wpkh", true
	case *btcutil.AddressWitnessScriptHash:
		return "p2wsh", true
	case *btcutil.AddressTaproot:
		return "p2tr", true
	}
	return "", false
}

func (b *btcBackend) pathValidateWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	addr := data.Get("address").(string)
	if addr == "" {
		return logical.ErrorResponse("address is required"), nil
	}

	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	info, err := n.DecodeAddress(addr)
	if err != nil {
		b.Logger().Debug("address rejected", "network", n.Name, "error", err)
		return &logical.Response{
			Data: map[string]interface{}{
				"valid":   false,
				"network": n.Name,
				"error":   err.Error(),
			},
		}, nil
	}

	respData := map[string]interface{}{
		"valid":           true,
		"network":         n.Name,
		"address":         info.Address,
		"kind":            info.Kind,
		"encoding":        info.Encoding,
		"program":         hex.EncodeToString(info.Program),
		"witness_version": info.WitnessVersion,
		"variants":        candidateVariants(info),
	}
	if info.WitnessVersion < 0 {
		respData["version"] = int(info.Version)
	}
	if st, ok := standardType(info.Address, n); ok {
		respData["standard_type"] = st
	}

	return &logical.Response{Data: respData}, nil
}

const pathValidateHelpSynopsis = `
Decode and classify an address.
`

const pathValidateHelpDescription = `
This endpoint decodes a Base58Check or Bech32/Bech32m address for the
configured network and reports what it contains. Invalid addresses are not an
error: the response has valid=false and the decoding error.

Response fields:
  - kind: p2pkh, p2sh or witness_v<N>
  - encoding: base58check, bech32 or bech32m
  - program: the 20 or 32 byte payload as hex
  - version: Base58Check version byte
  - witness_version: segwit version, or -1 for Base58Check addresses
  - variants: address variants that produce this kind of address
  - standard_type: p2pkh, p2sh, p2wpkh, p2wsh or p2tr when the address is a
    standard output type

Example:
  $ vault write btc/validate address=bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4
`
