// Package providers holds the static registry of known flash-loan providers.
// Each entry binds an on-chain contract address to the provider's display
// name, its FlashLoan event descriptor and the names of the event arguments
// that carry the borrowed amount and asset.  Flash-loan event shapes are
// provider-specific (Aave calls the borrowed asset `asset`, Balancer calls it
// `token`), so decoding dispatches on the registry entry rather than on a
// unified schema.
package providers

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type Provider struct {
	Name string

	Event     abi.Event
	AmountArg string
	AssetArg  string
}

const (
	aaveFlashLoanABI = `[{
		"anonymous": false,
		"name": "FlashLoan",
		"type": "event",
		"inputs": [
			{ "indexed": true,  "name": "target",       "type": "address" },
			{ "indexed": true,  "name": "initiator",    "type": "address" },
			{ "indexed": true,  "name": "asset",        "type": "address" },
			{ "indexed": false, "name": "amount",       "type": "uint256" },
			{ "indexed": false, "name": "premium",      "type": "uint256" },
			{ "indexed": false, "name": "referralCode", "type": "uint16"  }
		]
	}]`

	balancerFlashLoanABI = `[{
		"anonymous": false,
		"name": "FlashLoan",
		"type": "event",
		"inputs": [
			{ "indexed": true,  "name": "recipient", "type": "address" },
			{ "indexed": true,  "name": "token",     "type": "address" },
			{ "indexed": false, "name": "amount",    "type": "uint256" },
			{ "indexed": false, "name": "feeAmount", "type": "uint256" }
		]
	}]`
)

var registry = map[common.Address]Provider{
	common.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9"): {
		Name:      "Aave",
		Event:     mustEvent(aaveFlashLoanABI, "FlashLoan"),
		AmountArg: "amount",
		AssetArg:  "asset",
	},

	common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8"): {
		Name:      "Balancer",
		Event:     mustEvent(balancerFlashLoanABI, "FlashLoan"),
		AmountArg: "amount",
		AssetArg:  "token",
	},
}

// Lookup resolves the provider registered at the given contract address.
func Lookup(address common.Address) (Provider, bool) {
	p, known := registry[address]
	return p, known
}

// Topics returns the event ids of every registered provider, deduplicated,
// for use in a single block-level log filter.
func Topics() []common.Hash {
	seen := make(map[common.Hash]struct{}, len(registry))
	topics := make([]common.Hash, 0, len(registry))
	for _, p := range registry {
		if _, duplicate := seen[p.Event.ID]; duplicate {
			continue
		}
		seen[p.Event.ID] = struct{}{}
		topics = append(topics, p.Event.ID)
	}
	return topics
}

func mustEvent(abiJSON, name string) abi.Event {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	event, known := parsed.Events[name]
	if !known {
		panic("no event named " + name)
	}
	return event
}
