package btc

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

// keyInputFieldNames are the mutually exclusive ways to supply a private key
var keyInputFieldNames = []string{"passphrase", "words", "wif", "private_key"}

func keyInputFields() map[string]*framework.FieldSchema {
	return map[string]*framework.FieldSchema{
		"passphrase": {
			Type:        framework.TypeString,
			Description: "Passphrase whose SHA-256 is the private key",
			DisplayAttrs: &framework.DisplayAttributes{
				Sensitive: true,
			},
		},
		"words": {
			Type:        framework.TypeCommaStringSlice,
			Description: "Passphrase words, joined with single spaces before hashing",
			DisplayAttrs: &framework.DisplayAttributes{
				Sensitive: true,
			},
		},
		"wif": {
			Type:        framework.TypeString,
			Description: "WIF private key for the configured network",
			DisplayAttrs: &framework.DisplayAttributes{
				Sensitive: true,
			},
		},
		"private_key": {
			Type:        framework.TypeString,
			Description: "Private key as 64 hex characters",
			DisplayAttrs: &framework.DisplayAttributes{
				Sensitive: true,
			},
		},
	}
}

func hasKeyInput(data *framework.FieldData) bool {
	for _, field := range keyInputFieldNames {
		if _, ok := data.GetOk(field); ok {
			return true
		}
	}
	return false
}

// keyFromInput returns the private key named by exactly one key input field
// and the name of that field.
func keyFromInput(n wallet.Network, data *framework.FieldData) (*big.Int, string, error) {
	var source string
	for _, field := range keyInputFieldNames {
		if _, ok := data.GetOk(field); !ok {
			continue
		}
		if source != "" {
			return nil, "", fmt.Errorf("only one of %s may be set", strings.Join(keyInputFieldNames, ", "))
		}
		source = field
	}

	switch source {
	case "passphrase":
		k, err := wallet.ScalarFromPassphrase(data.Get("passphrase").(string))
		return k, source, err

	case "words":
		words := data.Get("words").([]string)
		if len(words) == 0 {
			return nil, "", fmt.Errorf("words must not be empty")
		}
		k, err := wallet.ScalarFromPassphrase(wallet.JoinPassphrase(words))
		return k, source, err

	case "wif":
		scalar, _, err := n.DecodeWIF(strings.TrimSpace(data.Get("wif").(string)))
		if err != nil {
			return nil, "", fmt.Errorf("invalid wif: %w", err)
		}
		k, err := wallet.ScalarFromBytes(scalar[:])
		return k, source, err

	case "private_key":
		k, err := wallet.ParsePrivateKeyHex(data.Get("private_key").(string))
		if err != nil {
			return nil, "", fmt.Errorf("invalid private_key: %w", err)
		}
		return k, source, nil
	}

	return nil, "", fmt.Errorf("one of %s is required", strings.Join(keyInputFieldNames, ", "))
}

// keySetData renders a key set for a response. Private fields are included
// only when the set carries them.
func keySetData(ks *wallet.KeySet) map[string]interface{} {
	respData := map[string]interface{}{
		"network":      ks.Network,
		"compressed":   keyInfoData(&ks.Compressed),
		"uncompressed": keyInfoData(&ks.Uncompressed),
	}
	if ks.PrivateKey != "" {
		respData["private_key"] = ks.PrivateKey
	}
	return respData
}

func keyInfoData(info *wallet.PublicKeyInfo) map[string]interface{} {
	addresses := make(map[string]string, len(info.Addresses))
	for _, a := range info.Addresses {
		addresses[a.Variant.String()] = a.Address
	}
	respData := map[string]interface{}{
		"public_key": info.PublicKey,
		"hash160":    info.Hash160,
		"addresses":  addresses,
	}
	if info.WIF != "" {
		respData["wif"] = info.WIF
	}
	return respData
}

func pathDerive(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "derive",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
				OperationSuffix: "derive",
			},
			Fields: keyInputFields(),
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathDeriveWrite,
				},
			},
			HelpSynopsis:    pathDeriveHelpSynopsis,
			HelpDescription: pathDeriveHelpDescription,
		},
	}
}

func (b *btcBackend) pathDeriveWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	n, err := b.getNetwork(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	k, source, err := keyFromInput(n, data)
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	b.Logger().Debug("deriving key set", "source", source, "network", n.Name)

	ks, err := b.deriveKeySet(n, k)
	if err != nil {
		return logical.ErrorResponse("failed to derive key set: %s", err), nil
	}

	respData := keySetData(ks)
	respData["source"] = source
	return &logical.Response{Data: respData}, nil
}

const pathDeriveHelpSynopsis = `
Derive keys and addresses without storing anything.
`

const pathDeriveHelpDescription = `
This endpoint derives the full key set for one private key and stores nothing.
Supply exactly one of passphrase, words, wif or private_key.

The response contains the private key, both WIF encodings, the compressed and
uncompressed public keys, their hash160 values and, for each serialization,
the P2PKH, P2SH, P2SH-P2WPKH, BECH32, BECH32M, P2WSH and P2WSH-P2WPKH
addresses for the configured network.

Example:
  $ vault write btc/derive passphrase="correct horse battery staple"
  $ vault write btc/derive words="correct,horse,battery,staple"
`
