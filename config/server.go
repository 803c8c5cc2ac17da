package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/flashbots/flashwatch/utils"
)

type Server struct {
	ListenAddress string        `yaml:"listen_address"`
	ScanTimeout   time.Duration `yaml:"scan_timeout"`
}

var (
	errServerInvalidListenAddress = errors.New("invalid server listen address")
	errServerInvalidScanTimeout   = errors.New("invalid server scan timeout")
)

func (cfg *Server) Validate() error {
	errs := make([]error, 0)

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w",
			errServerInvalidListenAddress, cfg.ListenAddress, err,
		))
	}

	{ // ScanTimeout
		if cfg.ScanTimeout < time.Second {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1s: %s",
				errServerInvalidScanTimeout, cfg.ScanTimeout,
			))
		}
		if cfg.ScanTimeout > 10*time.Minute {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=10m: %s",
				errServerInvalidScanTimeout, cfg.ScanTimeout,
			))
		}
	}

	return utils.FlattenErrors(errs)
}
