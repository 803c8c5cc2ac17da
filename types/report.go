package types

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// FlashLoanInfo is the provider-agnostic view of a decoded flash-loan event.
type FlashLoanInfo struct {
	Provider    string
	Amount      *big.Int
	Asset       ethcommon.Address
	AssetSymbol string
}

// TransferEvent is a decoded ERC-20 Transfer with the value in base units.
type TransferEvent struct {
	TxHash ethcommon.Hash
	From   ethcommon.Address
	To     ethcommon.Address
	Value  *big.Int
}

// Finding is one investigated flash-loan event.  Scores are additive
// heuristics: they express likelihood that the transaction was an attack,
// never proof of intent.
type Finding struct {
	TxHash            string   `json:"txHash"`
	IsFlashLoan       bool     `json:"isFlashLoan"`
	AttackerAddress   string   `json:"attackerAddress"`
	IsFromContract    bool     `json:"isFromContract"`
	IsFromNewAddress  bool     `json:"isFromNewAddress"`
	VictimAddress     *string  `json:"victimAddress"`
	AmountDrained     string   `json:"amountDrained"`
	ConfidenceScore   int      `json:"confidenceScore"`
	Severity          Severity `json:"severity"`
	LoanTokenSymbol   string   `json:"loanTokenSymbol"`
	FlashLoanProvider string   `json:"flashLoanProvider"`
	AttackTime        string   `json:"attackTime"`
}

type BlockReport struct {
	ScanID           string    `json:"scanId"`
	BlockNumber      uint64    `json:"blockNumber"`
	ChainID          uint64    `json:"chainId"`
	PresenceOfAttack bool      `json:"presenceOfAttack"`
	Attacks          []Finding `json:"attacks"`
}
