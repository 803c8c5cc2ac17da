package detector

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashbots/flashwatch/providers"
)

var (
	aavePool      = ethcommon.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9")
	balancerVault = ethcommon.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8")

	testAsset    = ethcommon.HexToAddress("0x00000000000000000000000000000000000dead1")
	testBorrower = ethcommon.HexToAddress("0x00000000000000000000000000000000000dead2")
)

func addressTopic(address ethcommon.Address) ethcommon.Hash {
	return ethcommon.BytesToHash(ethcommon.LeftPadBytes(address.Bytes(), 32))
}

func aaveFlashLoanLog(t *testing.T, txHash ethcommon.Hash, amount *big.Int) ethtypes.Log {
	t.Helper()

	p, known := providers.Lookup(aavePool)
	require.True(t, known)

	data, err := p.Event.Inputs.NonIndexed().Pack(amount, big.NewInt(0), uint16(0))
	require.NoError(t, err)

	return ethtypes.Log{
		Address: aavePool,
		TxHash:  txHash,
		Topics: []ethcommon.Hash{
			p.Event.ID,
			addressTopic(testBorrower),
			addressTopic(testBorrower),
			addressTopic(testAsset),
		},
		Data: data,
	}
}

func balancerFlashLoanLog(t *testing.T, txHash ethcommon.Hash, amount *big.Int) ethtypes.Log {
	t.Helper()

	p, known := providers.Lookup(balancerVault)
	require.True(t, known)

	data, err := p.Event.Inputs.NonIndexed().Pack(amount, big.NewInt(0))
	require.NoError(t, err)

	return ethtypes.Log{
		Address: balancerVault,
		TxHash:  txHash,
		Topics: []ethcommon.Hash{
			p.Event.ID,
			addressTopic(testBorrower),
			addressTopic(testAsset),
		},
		Data: data,
	}
}

func TestDecodeFlashLoanAave(t *testing.T) {
	amount := wholeTokens(200_000)
	lg := aaveFlashLoanLog(t, ethcommon.HexToHash("0x01"), amount)

	info, err := decodeFlashLoan(lg)
	require.NoError(t, err)

	assert.Equal(t, "Aave", info.Provider)
	assert.Equal(t, amount, info.Amount)
	assert.Equal(t, testAsset, info.Asset)
}

func TestDecodeFlashLoanBalancer(t *testing.T) {
	amount := wholeTokens(50_000)
	lg := balancerFlashLoanLog(t, ethcommon.HexToHash("0x02"), amount)

	info, err := decodeFlashLoan(lg)
	require.NoError(t, err)

	assert.Equal(t, "Balancer", info.Provider)
	assert.Equal(t, amount, info.Amount)
	assert.Equal(t, testAsset, info.Asset)
}

func TestDecodeFlashLoanUnknownProvider(t *testing.T) {
	lg := aaveFlashLoanLog(t, ethcommon.HexToHash("0x03"), wholeTokens(1))
	lg.Address = ethcommon.HexToAddress("0x00000000000000000000000000000000deadbeef")

	info, err := decodeFlashLoan(lg)
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestDecodeFlashLoanMalformedTopics(t *testing.T) {
	lg := aaveFlashLoanLog(t, ethcommon.HexToHash("0x04"), wholeTokens(1))
	lg.Topics = lg.Topics[:2]

	info, err := decodeFlashLoan(lg)
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
