package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/flashbots/flashwatch/utils"
)

type Eth struct {
	RpcURL string `yaml:"rpc_url"`

	CallTimeout      time.Duration `yaml:"call_timeout"`
	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay"`
	RetryMaxDelay    time.Duration `yaml:"retry_max_delay"`
}

var (
	errEthInvalidCallTimeout      = errors.New("invalid eth call timeout")
	errEthInvalidRetryBaseDelay   = errors.New("invalid eth retry base delay")
	errEthInvalidRetryMaxAttempts = errors.New("invalid eth retry max attempts")
	errEthInvalidRetryMaxDelay    = errors.New("invalid eth retry max delay")
	errEthInvalidRpcURL           = errors.New("invalid eth rpc url")
)

func (cfg *Eth) Validate() error {
	errs := make([]error, 0)

	{ // RpcURL
		rpcURL, err := url.Parse(cfg.RpcURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w",
				errEthInvalidRpcURL, cfg.RpcURL, err,
			))
		} else if rpcURL.Scheme != "http" && rpcURL.Scheme != "https" && rpcURL.Scheme != "ws" && rpcURL.Scheme != "wss" {
			errs = append(errs, fmt.Errorf("%w: unsupported scheme: %s",
				errEthInvalidRpcURL, cfg.RpcURL,
			))
		}
	}

	{ // CallTimeout
		if cfg.CallTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive: %s",
				errEthInvalidCallTimeout, cfg.CallTimeout,
			))
		}
		if cfg.CallTimeout > time.Minute {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=1m: %s",
				errEthInvalidCallTimeout, cfg.CallTimeout,
			))
		}
	}

	{ // RetryMaxAttempts
		if cfg.RetryMaxAttempts < 1 {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1: %d",
				errEthInvalidRetryMaxAttempts, cfg.RetryMaxAttempts,
			))
		}
		if cfg.RetryMaxAttempts > 10 {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=10: %d",
				errEthInvalidRetryMaxAttempts, cfg.RetryMaxAttempts,
			))
		}
	}

	{ // RetryBaseDelay + RetryMaxDelay
		if cfg.RetryBaseDelay <= 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive: %s",
				errEthInvalidRetryBaseDelay, cfg.RetryBaseDelay,
			))
		}
		if cfg.RetryMaxDelay < cfg.RetryBaseDelay {
			errs = append(errs, fmt.Errorf("%w: must be >= base delay: %s",
				errEthInvalidRetryMaxDelay, cfg.RetryMaxDelay,
			))
		}
	}

	return utils.FlattenErrors(errs)
}
