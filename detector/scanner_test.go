package detector

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	header       *ethtypes.Header
	chainID      *big.Int
	loanLogs     []ethtypes.Log
	transferLogs []ethtypes.Log

	receipts map[ethcommon.Hash]*ethtypes.Receipt
	senders  map[ethcommon.Hash]ethcommon.Address
	code     map[ethcommon.Address][]byte
	nonces   map[ethcommon.Address]uint64
	symbols  map[ethcommon.Address]string

	errReceipt error
	errSymbol  error
}

func (f *fakeChain) ChainID(_ context.Context) (*big.Int, error) {
	if f.chainID == nil {
		return big.NewInt(1), nil
	}
	return f.chainID, nil
}

func (f *fakeChain) HeaderByNumber(_ context.Context, _ *big.Int) (*ethtypes.Header, error) {
	if f.header == nil {
		return &ethtypes.Header{Time: 1700000000}, nil
	}
	return f.header, nil
}

func (f *fakeChain) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
	if len(q.Topics) == 1 && len(q.Topics[0]) == 1 && q.Topics[0][0] == transferTopic {
		return f.transferLogs, nil
	}
	return f.loanLogs, nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, txHash ethcommon.Hash) (*ethtypes.Receipt, error) {
	if f.errReceipt != nil {
		return nil, f.errReceipt
	}
	if receipt, known := f.receipts[txHash]; known {
		return receipt, nil
	}
	return &ethtypes.Receipt{Logs: []*ethtypes.Log{}}, nil
}

func (f *fakeChain) TransactionSender(_ context.Context, txHash ethcommon.Hash) (ethcommon.Address, error) {
	return f.senders[txHash], nil
}

func (f *fakeChain) CodeAt(_ context.Context, account ethcommon.Address, _ *big.Int) ([]byte, error) {
	return f.code[account], nil
}

func (f *fakeChain) NonceAt(_ context.Context, account ethcommon.Address, _ *big.Int) (uint64, error) {
	return f.nonces[account], nil
}

func (f *fakeChain) TokenSymbol(_ context.Context, token ethcommon.Address) (string, error) {
	if f.errSymbol != nil {
		return "", f.errSymbol
	}
	if symbol, known := f.symbols[token]; known {
		return symbol, nil
	}
	return "TKN", nil
}

func (f *fakeChain) Close() {}

func transferLog(txHash ethcommon.Hash, from, to ethcommon.Address, value *big.Int) ethtypes.Log {
	return ethtypes.Log{
		TxHash: txHash,
		Topics: []ethcommon.Hash{transferTopic, addressTopic(from), addressTopic(to)},
		Data:   ethcommon.LeftPadBytes(value.Bytes(), 32),
	}
}

func receiptWithLogs(count int) *ethtypes.Receipt {
	logs := make([]*ethtypes.Log, count)
	for idx := range logs {
		logs[idx] = &ethtypes.Log{}
	}
	return &ethtypes.Receipt{Logs: logs}
}

func TestScanBlockWithoutFlashLoans(t *testing.T) {
	s := New(defaultDetectorConfig(), &fakeChain{})

	report, err := s.Scan(context.Background(), 12345)
	require.NoError(t, err)

	assert.False(t, report.PresenceOfAttack)
	assert.Empty(t, report.Attacks)
	assert.Equal(t, uint64(12345), report.BlockNumber)
	assert.Equal(t, uint64(1), report.ChainID)
	assert.NotEmpty(t, report.ScanID)
}

func TestScanReportsHighConfidenceAttack(t *testing.T) {
	attacker := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	victim := ethcommon.HexToAddress("0x00000000000000000000000000000000000000ee")
	txHash := ethcommon.HexToHash("0x11")
	otherTx := ethcommon.HexToHash("0x22")

	f := &fakeChain{
		loanLogs: []ethtypes.Log{
			aaveFlashLoanLog(t, txHash, wholeTokens(200_000)),
		},
		transferLogs: []ethtypes.Log{
			transferLog(txHash, victim, attacker, wholeTokens(2_000_000)),
			// below the relevance threshold, must not touch the ledger
			transferLog(txHash, victim, attacker, wholeTokens(1)),
			// unrelated transaction, must not touch the ledger
			transferLog(otherTx, victim, attacker, wholeTokens(9_000_000)),
		},
		receipts: map[ethcommon.Hash]*ethtypes.Receipt{txHash: receiptWithLogs(25)},
		senders:  map[ethcommon.Hash]ethcommon.Address{txHash: attacker},
		code:     map[ethcommon.Address][]byte{attacker: {0x60, 0x80}},
	}

	s := New(defaultDetectorConfig(), f)

	report, err := s.Scan(context.Background(), 12345)
	require.NoError(t, err)

	require.True(t, report.PresenceOfAttack)
	require.Len(t, report.Attacks, 1)

	finding := report.Attacks[0]
	assert.Equal(t, 90, finding.ConfidenceScore)
	assert.Equal(t, "high", string(finding.Severity))
	assert.True(t, finding.IsFlashLoan)
	assert.True(t, finding.IsFromContract)
	assert.True(t, finding.IsFromNewAddress)
	assert.Equal(t, attacker.String(), finding.AttackerAddress)
	require.NotNil(t, finding.VictimAddress)
	assert.Equal(t, victim.String(), *finding.VictimAddress)
	assert.Equal(t, "2000000", finding.AmountDrained)
	assert.Equal(t, "Aave", finding.FlashLoanProvider)
	assert.Equal(t, "TKN", finding.LoanTokenSymbol)
	assert.Equal(t, txHash.String(), finding.TxHash)
	assert.NotEmpty(t, finding.AttackTime)
}

func TestScanSkipsUnknownProviderButKeepsOthers(t *testing.T) {
	attacker := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	txHash := ethcommon.HexToHash("0x11")

	lookalike := aaveFlashLoanLog(t, ethcommon.HexToHash("0x33"), wholeTokens(500_000))
	lookalike.Address = ethcommon.HexToAddress("0x00000000000000000000000000000000deadbeef")

	f := &fakeChain{
		loanLogs: []ethtypes.Log{
			lookalike,
			aaveFlashLoanLog(t, txHash, wholeTokens(200_000)),
		},
		senders: map[ethcommon.Hash]ethcommon.Address{txHash: attacker},
		code:    map[ethcommon.Address][]byte{attacker: {0x60, 0x80}},
		nonces:  map[ethcommon.Address]uint64{attacker: 7},
	}

	s := New(defaultDetectorConfig(), f)

	report, err := s.Scan(context.Background(), 12345)
	require.NoError(t, err)

	// the look-alike is skipped, the registered one still surfaces
	require.Len(t, report.Attacks, 1)
	assert.Equal(t, txHash.String(), report.Attacks[0].TxHash)
	assert.False(t, report.Attacks[0].IsFromNewAddress)
}

func TestScanFiltersLowConfidenceFindings(t *testing.T) {
	attacker := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	txHash := ethcommon.HexToHash("0x11")

	f := &fakeChain{
		loanLogs: []ethtypes.Log{
			aaveFlashLoanLog(t, txHash, wholeTokens(1)),
		},
		senders: map[ethcommon.Hash]ethcommon.Address{txHash: attacker},
		nonces:  map[ethcommon.Address]uint64{attacker: 7},
	}

	s := New(defaultDetectorConfig(), f)

	report, err := s.Scan(context.Background(), 12345)
	require.NoError(t, err)

	// base score alone never clears the reporting threshold
	assert.False(t, report.PresenceOfAttack)
	assert.Empty(t, report.Attacks)
}

func TestScanFailsOnUpstreamError(t *testing.T) {
	f := &fakeChain{
		loanLogs: []ethtypes.Log{
			aaveFlashLoanLog(t, ethcommon.HexToHash("0x11"), wholeTokens(200_000)),
		},
		errReceipt: errors.New("connection reset"),
	}

	s := New(defaultDetectorConfig(), f)

	report, err := s.Scan(context.Background(), 12345)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrUpstreamRPC)
}

func TestScanDegradesOnMissingTokenSymbol(t *testing.T) {
	attacker := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	txHash := ethcommon.HexToHash("0x11")

	f := &fakeChain{
		loanLogs: []ethtypes.Log{
			aaveFlashLoanLog(t, txHash, wholeTokens(200_000)),
		},
		senders:   map[ethcommon.Hash]ethcommon.Address{txHash: attacker},
		code:      map[ethcommon.Address][]byte{attacker: {0x60, 0x80}},
		errSymbol: errors.New("execution reverted"),
	}

	s := New(defaultDetectorConfig(), f)

	report, err := s.Scan(context.Background(), 12345)
	require.NoError(t, err)

	require.Len(t, report.Attacks, 1)
	assert.Empty(t, report.Attacks[0].LoanTokenSymbol)
}
