// Package detector implements the flash-loan attack detection pipeline: it
// normalizes flash-loan events across provider schemas, scores each one with
// a set of additive heuristic signals and reconstructs the likely victim
// from the net balance movement of the transaction's transfers.
//
// The scores are heuristics.  They express likelihood, never proof: a high
// confidence score means "worth a human look", nothing more.
package detector

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flashbots/flashwatch/chain"
	"github.com/flashbots/flashwatch/config"
	"github.com/flashbots/flashwatch/logutils"
	"github.com/flashbots/flashwatch/metrics"
	"github.com/flashbots/flashwatch/providers"
	"github.com/flashbots/flashwatch/types"
)

var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

type Scanner struct {
	cfg   *config.Detector
	chain chain.Reader
}

func New(cfg *config.Detector, chain chain.Reader) *Scanner {
	return &Scanner{
		cfg:   cfg,
		chain: chain,
	}
}

// scanContext is the read-only block metadata shared by all investigations
// of one scan.  It is threaded through explicitly so that parallel
// investigations never share mutable state.
type scanContext struct {
	blockNumber uint64
	chainID     uint64
	timestamp   time.Time
}

// Scan inspects a single block for flash-loan events, investigates each one
// and returns the findings that clear the confidence threshold.  A block
// with no flash-loan events yields an empty report, not an error.
func (s *Scanner) Scan(ctx context.Context, blockNumber uint64) (*types.BlockReport, error) {
	scanID := uuid.New().String()

	l := logutils.LoggerFromContext(ctx).With(
		zap.String("scan_id", scanID),
		zap.Uint64("block_number", blockNumber),
	)
	ctx = logutils.ContextWithLogger(ctx, l)

	number := new(big.Int).SetUint64(blockNumber)

	header, err := s.chain.HeaderByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get block %d: %w",
			ErrUpstreamRPC, blockNumber, err,
		)
	}

	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get chain id: %w",
			ErrUpstreamRPC, err,
		)
	}

	sctx := scanContext{
		blockNumber: blockNumber,
		chainID:     chainID.Uint64(),
		timestamp:   time.Unix(int64(header.Time), 0).UTC(),
	}

	// one filter catches the flash-loan events of every registered
	// provider; emitting addresses are deliberately unconstrained, so
	// look-alike events from unregistered contracts surface here and get
	// skipped per-event further down
	loanLogs, err := s.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: number,
		ToBlock:   number,
		Topics:    [][]ethcommon.Hash{providers.Topics()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get flash-loan logs: %w",
			ErrUpstreamRPC, err,
		)
	}

	report := &types.BlockReport{
		ScanID:      scanID,
		BlockNumber: blockNumber,
		ChainID:     sctx.chainID,
		Attacks:     []types.Finding{},
	}

	if len(loanLogs) == 0 {
		return report, nil
	}

	transfers, err := s.blockTransfers(ctx, number)
	if err != nil {
		return nil, err
	}

	// investigations are independent of each other and dominated by rpc
	// latency, hence the parallelism; results keep block log order
	findings := make([]*types.Finding, len(loanLogs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallelInvestigations)

	for idx, lg := range loanLogs {
		g.Go(func() error {
			finding, err := s.investigate(gctx, sctx, lg, transfers)
			if err != nil {
				if errors.Is(err, ErrUnknownProvider) {
					l.Warn("Skipping event that matched no registered provider",
						zap.String("emitting_address", lg.Address.String()),
						zap.String("tx_hash", lg.TxHash.String()),
						zap.Error(err),
					)
					metrics.EventsSkippedCount.Add(gctx, 1)
					return nil
				}
				return err
			}
			findings[idx] = finding
			metrics.EventsInvestigatedCount.Add(gctx, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, finding := range findings {
		if finding == nil {
			continue
		}
		if finding.ConfidenceScore > s.cfg.ConfidenceThreshold {
			report.Attacks = append(report.Attacks, *finding)
		}
	}
	report.PresenceOfAttack = len(report.Attacks) > 0

	metrics.FindingsReportedCount.Add(ctx, int64(len(report.Attacks)))

	l.Info("Block scan complete",
		zap.Int("flash_loan_events", len(loanLogs)),
		zap.Int("attacks", len(report.Attacks)),
	)

	return report, nil
}

// investigate assembles one finding for one flash-loan event.
func (s *Scanner) investigate(
	ctx context.Context,
	sctx scanContext,
	lg ethtypes.Log,
	blockTransfers []types.TransferEvent,
) (*types.Finding, error) {
	info, err := decodeFlashLoan(lg)
	if err != nil {
		return nil, err
	}

	symbol, err := s.chain.TokenSymbol(ctx, info.Asset)
	if err != nil {
		// degrade to an unknown symbol; the finding is still worth reporting
		logutils.LoggerFromContext(ctx).Warn("Failed to resolve loan token symbol",
			zap.String("asset", info.Asset.String()),
			zap.Error(fmt.Errorf("%w: %w", ErrTokenMetadata, err)),
		)
		symbol = ""
	}
	info.AssetSymbol = symbol

	receipt, err := s.chain.TransactionReceipt(ctx, lg.TxHash)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get receipt of %s: %w",
			ErrUpstreamRPC, lg.TxHash, err,
		)
	}

	attacker, err := s.chain.TransactionSender(ctx, lg.TxHash)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get sender of %s: %w",
			ErrUpstreamRPC, lg.TxHash, err,
		)
	}

	code, err := s.chain.CodeAt(ctx, attacker, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get code of %s: %w",
			ErrUpstreamRPC, attacker, err,
		)
	}
	isContract := len(code) > 0

	// the sender's nonce as of the parent block counts the transactions
	// _before_ this one
	var parent *big.Int
	if sctx.blockNumber > 0 {
		parent = new(big.Int).SetUint64(sctx.blockNumber - 1)
	}
	nonce, err := s.chain.NonceAt(ctx, attacker, parent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get nonce of %s: %w",
			ErrUpstreamRPC, attacker, err,
		)
	}
	isNew := nonce == 0

	relevanceFloor := wholeTokens(s.cfg.TransferRelevanceThreshold)
	relevant := make([]types.TransferEvent, 0, len(blockTransfers))
	for _, transfer := range blockTransfers {
		if transfer.TxHash != lg.TxHash {
			continue
		}
		if transfer.Value.Cmp(relevanceFloor) < 0 {
			continue
		}
		relevant = append(relevant, transfer)
	}

	victim, drained := identifyVictim(relevant, attacker)

	score := scoreConfidence(signals{
		loanAmount:         info.Amount,
		attackerIsContract: isContract,
		attackerIsNew:      isNew,
		logCount:           len(receipt.Logs),
		amountDrained:      drained,
	}, s.cfg)

	finding := &types.Finding{
		TxHash:            lg.TxHash.String(),
		IsFlashLoan:       true,
		AttackerAddress:   attacker.String(),
		IsFromContract:    isContract,
		IsFromNewAddress:  isNew,
		AmountDrained:     formatTokens(drained),
		ConfidenceScore:   score,
		Severity:          classifySeverity(drained),
		LoanTokenSymbol:   info.AssetSymbol,
		FlashLoanProvider: info.Provider,
		AttackTime:        sctx.timestamp.Format(time.RFC3339),
	}
	if victim != nil {
		address := victim.String()
		finding.VictimAddress = &address
	}

	return finding, nil
}

// blockTransfers fetches and decodes every ERC-20 Transfer in the block.
// Fetched once per scan and shared read-only across investigations.
func (s *Scanner) blockTransfers(ctx context.Context, number *big.Int) ([]types.TransferEvent, error) {
	logs, err := s.chain.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: number,
		ToBlock:   number,
		Topics:    [][]ethcommon.Hash{{transferTopic}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get transfer logs: %w",
			ErrUpstreamRPC, err,
		)
	}

	transfers := make([]types.TransferEvent, 0, len(logs))
	for _, lg := range logs {
		// ERC-721 Transfer shares the signature but indexes the token id
		// (4 topics, empty data); only the ERC-20 shape qualifies
		if len(lg.Topics) != 3 || len(lg.Data) == 0 {
			continue
		}

		transfers = append(transfers, types.TransferEvent{
			TxHash: lg.TxHash,
			From:   ethcommon.BytesToAddress(lg.Topics[1].Bytes()),
			To:     ethcommon.BytesToAddress(lg.Topics[2].Bytes()),
			Value:  new(big.Int).SetBytes(lg.Data),
		})
	}

	return transfers, nil
}
