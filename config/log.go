package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Log struct {
	Level string `yaml:"level"`
	Mode  string `yaml:"mode"`
}

var (
	errLogInvalidLevel = errors.New("invalid log level")
	errLogInvalidMode  = errors.New("invalid log mode")
)

func (cfg *Log) Validate() error {
	errs := make([]error, 0)

	if _, err := zap.ParseAtomicLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w",
			errLogInvalidLevel, cfg.Level, err,
		))
	}

	switch strings.ToLower(cfg.Mode) {
	case "dev", "prod":
		// valid
	default:
		errs = append(errs, fmt.Errorf("%w: must be one of dev, prod: %s",
			errLogInvalidMode, cfg.Mode,
		))
	}

	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}
