package detector

import (
	"math/big"
	"strings"
)

// Token-denominated thresholds assume 18-decimal assets.  Known gap: tokens
// with fewer decimals (e.g. USDC) make the thresholds effectively
// unreachable.  Correcting this needs a decimals() read per asset.
var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func wholeTokens(n uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(n), weiPerToken)
}

// formatTokens renders a base-unit amount as a decimal whole-token string,
// e.g. 1500000000000000000 -> "1.5".
func formatTokens(v *big.Int) string {
	quo, rem := new(big.Int).QuoRem(v, weiPerToken, new(big.Int))

	frac := strings.TrimRight(
		strings.Repeat("0", 18-len(rem.String()))+rem.String(),
		"0",
	)
	if frac == "" {
		return quo.String()
	}

	return quo.String() + "." + frac
}
