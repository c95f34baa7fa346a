package btc

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/dan/vault-plugin-secrets-brainwallet/wallet"
)

const configStoragePath = "config"

// btcConfig stores the secrets engine configuration. Unset overrides fall
// back to the named network's parameters.
type btcConfig struct {
	Network      string `json:"network"`
	HRP          string `json:"hrp,omitempty"`
	PubKeyHashID *int   `json:"pubkey_hash_id,omitempty"`
	ScriptHashID *int   `json:"script_hash_id,omitempty"`
	PrivateKeyID *int   `json:"private_key_id,omitempty"`
}

// resolve builds the effective network. A nil config resolves to mainnet.
func (c *btcConfig) resolve() (wallet.Network, error) {
	if c == nil {
		return wallet.NetworkByName(wallet.DefaultNetwork)
	}

	name := c.Network
	if name == "" {
		name = wallet.DefaultNetwork
	}
	n, err := wallet.NetworkByName(name)
	if err != nil {
		return wallet.Network{}, err
	}

	if c.HRP != "" {
		n.HRP = c.HRP
	}
	if c.PubKeyHashID != nil {
		n.PubKeyHashAddrID = byte(*c.PubKeyHashID)
	}
	if c.ScriptHashID != nil {
		n.ScriptHashAddrID = byte(*c.ScriptHashID)
	}
	if c.PrivateKeyID != nil {
		n.PrivateKeyID = byte(*c.PrivateKeyID)
	}
	if err := n.Validate(); err != nil {
		return wallet.Network{}, err
	}
	return n, nil
}

func pathConfig(b *btcBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "config",
			DisplayAttrs: &framework.DisplayAttributes{
				OperationPrefix: "btc",
			},
			Fields: map[string]*framework.FieldSchema{
				"network": {
					Type:        framework.TypeString,
					Description: "Bitcoin network: " + strings.Join(wallet.NetworkNames(), ", "),
					Default:     wallet.DefaultNetwork,
				},
				"hrp": {
					Type:        framework.TypeLowerCaseString,
					Description: "Override the Bech32 human-readable part. Empty restores the network default.",
				},
				"pubkey_hash_id": {
					Type:        framework.TypeInt,
					Description: "Override the P2PKH version byte (0-255, -1 restores the network default)",
				},
				"script_hash_id": {
					Type:        framework.TypeInt,
					Description: "Override the P2SH version byte (0-255, -1 restores the network default)",
				},
				"private_key_id": {
					Type:        framework.TypeInt,
					Description: "Override the WIF version byte (0-255, -1 restores the network default)",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathConfigRead,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "config",
					},
				},
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathConfigWrite,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "config",
					},
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathConfigWrite,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "config",
					},
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathConfigDelete,
					DisplayAttrs: &framework.DisplayAttributes{
						OperationSuffix: "config",
					},
				},
			},
			ExistenceCheck:  b.pathConfigExistenceCheck,
			HelpSynopsis:    pathConfigHelpSynopsis,
			HelpDescription: pathConfigHelpDescription,
		},
	}
}

func (b *btcBackend) pathConfigExistenceCheck(ctx context.Context, req *logical.Request, data *framework.FieldData) (bool, error) {
	out, err := req.Storage.Get(ctx, configStoragePath)
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return out != nil, nil
}

func (b *btcBackend) pathConfigRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	b.Logger().Debug("reading config")
	config, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	n, err := config.resolve()
	if err != nil {
		return nil, err
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"network":            n.Name,
			"hrp":                n.HRP,
			"pubkey_hash_id":     int(n.PubKeyHashAddrID),
			"script_hash_id":     int(n.ScriptHashAddrID),
			"private_key_id":     int(n.PrivateKeyID),
			"configured":         config != nil,
			"supported_networks": wallet.NetworkNames(),
		},
	}, nil
}

func (b *btcBackend) pathConfigWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	b.Logger().Debug("writing config", "operation", req.Operation)
	config, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	createOperation := req.Operation == logical.CreateOperation

	if config == nil {
		if !createOperation {
			return nil, fmt.Errorf("config not found during update operation")
		}
		b.Logger().Debug("creating new config")
		config = &btcConfig{}
	}

	if network, ok := data.GetOk("network"); ok {
		config.Network = network.(string)
	} else if createOperation {
		config.Network = data.Get("network").(string)
	}

	if hrp, ok := data.GetOk("hrp"); ok {
		config.HRP = hrp.(string)
	}

	for field, target := range map[string]**int{
		"pubkey_hash_id": &config.PubKeyHashID,
		"script_hash_id": &config.ScriptHashID,
		"private_key_id": &config.PrivateKeyID,
	} {
		raw, ok := data.GetOk(field)
		if !ok {
			continue
		}
		id := raw.(int)
		switch {
		case id == -1:
			*target = nil
		case id < 0 || id > 255:
			return logical.ErrorResponse("%s must be between 0 and 255", field), nil
		default:
			*target = &id
		}
	}

	n, err := config.resolve()
	if err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	entry, err := logical.StorageEntryJSON(configStoragePath, config)
	if err != nil {
		return nil, err
	}

	if err := req.Storage.Put(ctx, entry); err != nil {
		return nil, err
	}

	// Cached key sets were derived with the old prefixes
	b.reset()

	b.Logger().Info("config saved", "network", n.Name, "hrp", n.HRP,
		"pubkey_hash_id", n.PubKeyHashAddrID, "script_hash_id", n.ScriptHashAddrID)
	return nil, nil
}

func (b *btcBackend) pathConfigDelete(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	b.Logger().Debug("deleting config")
	err := req.Storage.Delete(ctx, configStoragePath)
	if err != nil {
		return nil, fmt.Errorf("error deleting config: %w", err)
	}

	b.reset()

	b.Logger().Info("config deleted")
	return nil, nil
}

// getConfig retrieves the configuration from storage
func getConfig(ctx context.Context, s logical.Storage) (*btcConfig, error) {
	entry, err := s.Get(ctx, configStoragePath)
	if err != nil {
		return nil, fmt.Errorf("error retrieving config: %w", err)
	}

	if entry == nil {
		return nil, nil
	}

	config := new(btcConfig)
	if err := entry.DecodeJSON(config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	return config, nil
}

const pathConfigHelpSynopsis = `
Configure the network used for addresses and WIF keys.
`

const pathConfigHelpDescription = `
This endpoint selects the Bitcoin network whose prefixes and version bytes are
used for every address and WIF string the engine produces. Reading the config
always returns the effective values, falling back to mainnet when nothing has
been written.

Parameters:
  - network: mainnet, testnet3, testnet4, signet or regtest (default: mainnet)
  - hrp: Bech32 human-readable part override (e.g. "tb")
  - pubkey_hash_id: P2PKH version byte override
  - script_hash_id: P2SH version byte override
  - private_key_id: WIF version byte override

Pass -1 for a version byte, or an empty hrp, to drop an override.

Changing the config clears all cached key sets. Stored address records keep
the network they were derived for; refresh them with:
  $ vault write btc/wallets/<name>/addresses

Example (testnet4):
  $ vault write btc/config network=testnet4

Example (a chain with custom prefixes):
  $ vault write btc/config network=mainnet hrp=ltc pubkey_hash_id=48 script_hash_id=50 private_key_id=176
`
