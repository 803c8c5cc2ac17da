package detector

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeTokens(t *testing.T) {
	assert.Equal(t, "2000000000000000000", wholeTokens(2).String())
	assert.Zero(t, wholeTokens(0).Sign())
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Int
		want string
	}{
		{"zero", big.NewInt(0), "0"},
		{"one", wholeTokens(1), "1"},
		{"fraction", big.NewInt(1_500_000_000_000_000_000), "1.5"},
		{"sub_token", big.NewInt(1), "0.000000000000000001"},
		{"large", wholeTokens(2_000_000), "2000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTokens(tt.in))
		})
	}
}
