package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flashbots/flashwatch/config"
)

func validConfig() *config.Config {
	cfg := config.New()

	cfg.Log.Level = "info"
	cfg.Log.Mode = "prod"

	cfg.Eth.RpcURL = "http://127.0.0.1:8545"
	cfg.Eth.CallTimeout = 10 * time.Second
	cfg.Eth.RetryMaxAttempts = 3
	cfg.Eth.RetryBaseDelay = 250 * time.Millisecond
	cfg.Eth.RetryMaxDelay = 5 * time.Second

	cfg.Detector.ConfidenceThreshold = 20
	cfg.Detector.ComplexityThreshold = 20
	cfg.Detector.LargeDrainThreshold = 1_000_000
	cfg.Detector.LargeLoanThreshold = 100_000
	cfg.Detector.TransferRelevanceThreshold = 10_000
	cfg.Detector.MaxParallelInvestigations = 4

	cfg.Server.ListenAddress = "0.0.0.0:8080"
	cfg.Server.ScanTimeout = time.Minute

	cfg.Metrics.ListenAddress = "0.0.0.0:6785"

	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateCatchesInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*config.Config)
	}{
		{"log_mode", func(cfg *config.Config) { cfg.Log.Mode = "verbose" }},
		{"eth_rpc_url", func(cfg *config.Config) { cfg.Eth.RpcURL = "ftp://example.com" }},
		{"eth_retry_attempts", func(cfg *config.Config) { cfg.Eth.RetryMaxAttempts = 0 }},
		{"detector_loan_threshold", func(cfg *config.Config) { cfg.Detector.LargeLoanThreshold = 0 }},
		{"detector_parallelism", func(cfg *config.Config) { cfg.Detector.MaxParallelInvestigations = 1024 }},
		{"server_listen_address", func(cfg *config.Config) { cfg.Server.ListenAddress = "nope" }},
		{"server_scan_timeout", func(cfg *config.Config) { cfg.Server.ScanTimeout = 0 }},
		{"metrics_listen_address", func(cfg *config.Config) { cfg.Metrics.ListenAddress = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.corrupt(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateSkipsDisabledSections(t *testing.T) {
	cfg := validConfig()
	cfg.Server = nil
	cfg.Metrics = nil

	assert.NoError(t, cfg.Validate())
}
