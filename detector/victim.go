package detector

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/flashwatch/types"
)

var zeroAddress = ethcommon.Address{}

// identifyVictim folds the transfers into a per-address net-balance ledger
// and picks the address with the largest net outflow.  The attacker and the
// zero address are excluded on both sides: they are funding/conduit
// addresses, not victims.  Net balance (rather than gross transfer volume)
// is what identifies the address that ends the transaction strictly poorer.
//
// Returns nil and zero when no address ends up with a negative balance.
// Ties between equally-negative addresses resolve to the one seen first in
// transfer order.
func identifyVictim(transfers []types.TransferEvent, attacker ethcommon.Address) (*ethcommon.Address, *big.Int) {
	ledger := make(map[ethcommon.Address]*big.Int, len(transfers))
	firstSeen := make([]ethcommon.Address, 0, len(transfers))

	touch := func(address ethcommon.Address) *big.Int {
		balance, seen := ledger[address]
		if !seen {
			balance = new(big.Int)
			ledger[address] = balance
			firstSeen = append(firstSeen, address)
		}
		return balance
	}

	for _, transfer := range transfers {
		if transfer.From != attacker && transfer.From != zeroAddress {
			balance := touch(transfer.From)
			balance.Sub(balance, transfer.Value)
		}
		if transfer.To != attacker && transfer.To != zeroAddress {
			balance := touch(transfer.To)
			balance.Add(balance, transfer.Value)
		}
	}

	var victim *ethcommon.Address
	maxLoss := new(big.Int)

	for _, address := range firstSeen {
		balance := ledger[address]
		if balance.Sign() < 0 && balance.Cmp(maxLoss) < 0 {
			maxLoss = balance
			address := address
			victim = &address
		}
	}

	return victim, new(big.Int).Neg(maxLoss)
}
