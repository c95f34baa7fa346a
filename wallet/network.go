package wallet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/dan/vault-plugin-secrets-brainwallet/bech32"
)

// DefaultNetwork is used when no network is configured.
const DefaultNetwork = "mainnet"

// networkParams maps the supported network names to their chain parameters.
// Testnet4 uses the same address formats as testnet3 (tb1..., m/n...).
var networkParams = map[string]*chaincfg.Params{
	"mainnet":  &chaincfg.MainNetParams,
	"testnet3": &chaincfg.TestNet3Params,
	"testnet4": &chaincfg.TestNet3Params,
	"signet":   &chaincfg.SigNetParams,
	"regtest":  &chaincfg.RegressionNetParams,
}

// NetworkParams returns the chain configuration for the given network name.
func NetworkParams(network string) (*chaincfg.Params, error) {
	params, ok := networkParams[network]
	if !ok {
		str := fmt.Sprintf("unknown network: %s (supported: %s)", network, strings.Join(NetworkNames(), ", "))
		return nil, makeError(ErrUnknownNetwork, str)
	}
	return params, nil
}

// NetworkNames returns the supported network names in sorted order.
func NetworkNames() []string {
	names := make([]string, 0, len(networkParams))
	for name := range networkParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Network carries the prefixes and version bytes that make addresses and WIF
// strings specific to one chain. The codecs never hardcode these.
type Network struct {
	Name             string
	HRP              string
	PubKeyHashAddrID byte
	ScriptHashAddrID byte
	PrivateKeyID     byte
}

// NewNetwork builds a Network from btcd chain parameters.
func NewNetwork(name string, params *chaincfg.Params) Network {
	return Network{
		Name:             name,
		HRP:              params.Bech32HRPSegwit,
		PubKeyHashAddrID: params.PubKeyHashAddrID,
		ScriptHashAddrID: params.ScriptHashAddrID,
		PrivateKeyID:     params.PrivateKeyID,
	}
}

// NetworkByName returns the Network for a supported network name.
func NetworkByName(name string) (Network, error) {
	params, err := NetworkParams(name)
	if err != nil {
		return Network{}, err
	}
	return NewNetwork(name, params), nil
}

// MainNet is the Bitcoin main network: hrp "bc", versions 0x00, 0x05, 0x80.
var MainNet = NewNetwork("mainnet", &chaincfg.MainNetParams)

// TestNet is the Bitcoin test network: hrp "tb", versions 0x6f, 0xc4, 0xef.
var TestNet = NewNetwork("testnet3", &chaincfg.TestNet3Params)

// ChainParams returns a copy of the btcd parameters for the network with its
// prefixes and version bytes applied. Networks with an unknown name start
// from the main network parameters.
func (n Network) ChainParams() *chaincfg.Params {
	base, ok := networkParams[n.Name]
	if !ok {
		base = &chaincfg.MainNetParams
	}
	params := *base
	params.Bech32HRPSegwit = n.HRP
	params.PubKeyHashAddrID = n.PubKeyHashAddrID
	params.ScriptHashAddrID = n.ScriptHashAddrID
	params.PrivateKeyID = n.PrivateKeyID
	return &params
}

// Validate checks that the network can encode its longest address, a version
// 0 witness address with a 32-byte program. The HRP must be lower case.
func (n Network) Validate() error {
	if strings.ToLower(n.HRP) != n.HRP {
		str := fmt.Sprintf("network %s: hrp %q must be lower case", n.Name, n.HRP)
		return makeError(ErrInvalidNetwork, str)
	}
	if _, err := bech32.EncodeSegWit(n.HRP, 0, make([]byte, chainhash.HashSize)); err != nil {
		str := fmt.Sprintf("network %s: hrp %q cannot encode addresses: %v", n.Name, n.HRP, err)
		return makeError(ErrInvalidNetwork, str)
	}
	return nil
}

// String returns the network name.
func (n Network) String() string {
	return n.Name
}
