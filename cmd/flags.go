package main

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flashbots/flashwatch/config"
)

const (
	categoryDetector = "detector"
	categoryEth      = "eth"
	categoryMetrics  = "metrics"
	categoryServer   = "server"
)

// ethFlags and detectorFlags are shared between `serve` and `scan`.

func ethFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Category:    strings.ToUpper(categoryEth),
			Destination: &cfg.Eth.RpcURL,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryEth) + "_RPC_URL"},
			Name:        categoryEth + "-rpc-url",
			Usage:       "`url` of the read-only eth json-rpc endpoint",
			Value:       "http://127.0.0.1:8545",
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryEth),
			Destination: &cfg.Eth.CallTimeout,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryEth) + "_CALL_TIMEOUT"},
			Name:        categoryEth + "-call-timeout",
			Usage:       "`timeout` of a single rpc call",
			Value:       10 * time.Second,
		},

		&cli.IntFlag{
			Category:    strings.ToUpper(categoryEth),
			Destination: &cfg.Eth.RetryMaxAttempts,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryEth) + "_RETRY_MAX_ATTEMPTS"},
			Name:        categoryEth + "-retry-max-attempts",
			Usage:       "max `attempts` per rpc call before giving up",
			Value:       3,
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryEth),
			Destination: &cfg.Eth.RetryBaseDelay,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryEth) + "_RETRY_BASE_DELAY"},
			Name:        categoryEth + "-retry-base-delay",
			Usage:       "base `delay` of the retry backoff",
			Value:       250 * time.Millisecond,
		},

		&cli.DurationFlag{
			Category:    strings.ToUpper(categoryEth),
			Destination: &cfg.Eth.RetryMaxDelay,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryEth) + "_RETRY_MAX_DELAY"},
			Name:        categoryEth + "-retry-max-delay",
			Usage:       "max `delay` of the retry backoff",
			Value:       5 * time.Second,
		},
	}
}

func detectorFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.ConfidenceThreshold,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_CONFIDENCE_THRESHOLD"},
			Name:        categoryDetector + "-confidence-threshold",
			Usage:       "minimum confidence `score` (exclusive) for a finding to be reported",
			Value:       20,
		},

		&cli.IntFlag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.ComplexityThreshold,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_COMPLEXITY_THRESHOLD"},
			Name:        categoryDetector + "-complexity-threshold",
			Usage:       "`count` of logs above which a transaction counts as complex",
			Value:       20,
		},

		&cli.Uint64Flag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.LargeLoanThreshold,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_LARGE_LOAN_THRESHOLD"},
			Name:        categoryDetector + "-large-loan-threshold",
			Usage:       "loan size in whole `tokens` above which the loan counts as large",
			Value:       100_000,
		},

		&cli.Uint64Flag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.LargeDrainThreshold,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_LARGE_DRAIN_THRESHOLD"},
			Name:        categoryDetector + "-large-drain-threshold",
			Usage:       "drained amount in whole `tokens` above which the drain counts as large",
			Value:       1_000_000,
		},

		&cli.Uint64Flag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.TransferRelevanceThreshold,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_TRANSFER_RELEVANCE_THRESHOLD"},
			Name:        categoryDetector + "-transfer-relevance-threshold",
			Usage:       "minimum transfer size in whole `tokens` considered during victim identification",
			Value:       10_000,
		},

		&cli.IntFlag{
			Category:    strings.ToUpper(categoryDetector),
			Destination: &cfg.Detector.MaxParallelInvestigations,
			EnvVars:     []string{envPrefix + strings.ToUpper(categoryDetector) + "_MAX_PARALLEL_INVESTIGATIONS"},
			Name:        categoryDetector + "-max-parallel-investigations",
			Usage:       "`count` of per-event investigations allowed to run in parallel",
			Value:       4,
		},
	}
}
