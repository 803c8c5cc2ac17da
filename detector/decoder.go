package detector

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/flashbots/flashwatch/providers"
	"github.com/flashbots/flashwatch/types"
)

var (
	errEventMalformed  = fmt.Errorf("%w: malformed event log", ErrUnknownProvider)
	errEventMissingArg = fmt.Errorf("%w: event argument missing or mistyped", ErrUnknownProvider)
)

// decodeFlashLoan normalizes a raw flash-loan event log into provider-
// agnostic FlashLoanInfo using the registry entry of the emitting address.
// The asset symbol is left empty; resolving it needs a chain read and is the
// investigator's business.
func decodeFlashLoan(lg ethtypes.Log) (*types.FlashLoanInfo, error) {
	provider, known := providers.Lookup(lg.Address)
	if !known {
		return nil, fmt.Errorf("%w: no registry entry for address %s",
			ErrUnknownProvider, lg.Address,
		)
	}

	args, err := decodeEventArgs(provider.Event, lg)
	if err != nil {
		return nil, err
	}

	amount, ok := args[provider.AmountArg].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s",
			errEventMissingArg, provider.Name, provider.AmountArg,
		)
	}

	asset, ok := args[provider.AssetArg].(ethcommon.Address)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s",
			errEventMissingArg, provider.Name, provider.AssetArg,
		)
	}

	return &types.FlashLoanInfo{
		Provider: provider.Name,
		Amount:   amount,
		Asset:    asset,
	}, nil
}

// decodeEventArgs unpacks both the indexed (topics) and the non-indexed
// (data) arguments of an event log into one map keyed by argument name.
func decodeEventArgs(event abi.Event, lg ethtypes.Log) (map[string]interface{}, error) {
	if len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
		return nil, fmt.Errorf("%w: topic0 does not match event %s",
			errEventMalformed, event.Name,
		)
	}

	args := make(map[string]interface{}, len(event.Inputs))

	if len(lg.Data) > 0 {
		if err := event.Inputs.UnpackIntoMap(args, lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %w",
				errEventMalformed, err,
			)
		}
	}

	indexed := make(abi.Arguments, 0, len(event.Inputs))
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(lg.Topics) != len(indexed)+1 {
		return nil, fmt.Errorf("%w: expected %d topics, got %d",
			errEventMalformed, len(indexed)+1, len(lg.Topics),
		)
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, lg.Topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: %w",
			errEventMalformed, err,
		)
	}

	return args, nil
}
