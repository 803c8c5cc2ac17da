package detector

import (
	"math/big"

	"github.com/flashbots/flashwatch/config"
	"github.com/flashbots/flashwatch/types"
)

// baseScore is granted unconditionally: this function only ever runs for an
// observed flash-loan event.
const baseScore = 20

// signals is the fixed set of independently-observed inputs to the
// confidence score.  Amounts are in base units.
type signals struct {
	loanAmount         *big.Int
	attackerIsContract bool
	attackerIsNew      bool
	logCount           int
	amountDrained      *big.Int
}

// scoreConfidence computes the additive heuristic confidence score.  All
// weights are independent; there is no cap.  Enabling any signal never
// decreases the score.
func scoreConfidence(sig signals, cfg *config.Detector) int {
	score := baseScore

	if sig.loanAmount != nil && sig.loanAmount.Cmp(wholeTokens(cfg.LargeLoanThreshold)) > 0 {
		score += 10
	}
	if sig.attackerIsContract {
		score += 10
	}
	if sig.attackerIsNew {
		score += 10
	}
	if sig.logCount > cfg.ComplexityThreshold {
		score += 20
	}
	if sig.amountDrained != nil && sig.amountDrained.Cmp(wholeTokens(cfg.LargeDrainThreshold)) > 0 {
		score += 20
	}

	return score
}

// classifySeverity maps a drained amount (base units) onto a severity tier.
// Bounds are strict, checked in descending order: the first match wins.
func classifySeverity(amountDrained *big.Int) types.Severity {
	switch {
	case amountDrained.Cmp(wholeTokens(10_000_000)) > 0:
		return types.SeverityCritical
	case amountDrained.Cmp(wholeTokens(1_000_000)) > 0:
		return types.SeverityHigh
	case amountDrained.Cmp(wholeTokens(100_000)) > 0:
		return types.SeverityModerate
	default:
		return types.SeverityLow
	}
}
