package config

import (
	"errors"
	"fmt"

	"github.com/flashbots/flashwatch/utils"
)

// Detector carries the heuristic thresholds of the scoring pipeline.  The
// token-denominated ones are expressed in whole tokens and assume 18-decimal
// assets, matching the heuristics they were calibrated against.
type Detector struct {
	ConfidenceThreshold int `yaml:"confidence_threshold"`

	ComplexityThreshold        int    `yaml:"complexity_threshold"`
	LargeDrainThreshold        uint64 `yaml:"large_drain_threshold"`
	LargeLoanThreshold         uint64 `yaml:"large_loan_threshold"`
	TransferRelevanceThreshold uint64 `yaml:"transfer_relevance_threshold"`

	MaxParallelInvestigations int `yaml:"max_parallel_investigations"`
}

var (
	errDetectorInvalidComplexityThreshold       = errors.New("invalid complexity threshold")
	errDetectorInvalidConfidenceThreshold       = errors.New("invalid confidence threshold")
	errDetectorInvalidLargeDrainThreshold       = errors.New("invalid large drain threshold")
	errDetectorInvalidLargeLoanThreshold        = errors.New("invalid large loan threshold")
	errDetectorInvalidMaxParallelInvestigations = errors.New("invalid max parallel investigations")
)

func (cfg *Detector) Validate() error {
	errs := make([]error, 0)

	{ // ConfidenceThreshold
		if cfg.ConfidenceThreshold < 0 {
			errs = append(errs, fmt.Errorf("%w: can't be negative: %d",
				errDetectorInvalidConfidenceThreshold, cfg.ConfidenceThreshold,
			))
		}
	}

	{ // ComplexityThreshold
		if cfg.ComplexityThreshold < 1 {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1: %d",
				errDetectorInvalidComplexityThreshold, cfg.ComplexityThreshold,
			))
		}
	}

	{ // LargeLoanThreshold
		if cfg.LargeLoanThreshold == 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive",
				errDetectorInvalidLargeLoanThreshold,
			))
		}
	}

	{ // LargeDrainThreshold
		if cfg.LargeDrainThreshold == 0 {
			errs = append(errs, fmt.Errorf("%w: must be positive",
				errDetectorInvalidLargeDrainThreshold,
			))
		}
	}

	{ // MaxParallelInvestigations
		if cfg.MaxParallelInvestigations < 1 {
			errs = append(errs, fmt.Errorf("%w: too low, must be >=1: %d",
				errDetectorInvalidMaxParallelInvestigations, cfg.MaxParallelInvestigations,
			))
		}
		if cfg.MaxParallelInvestigations > 64 {
			errs = append(errs, fmt.Errorf("%w: too high, must be <=64: %d",
				errDetectorInvalidMaxParallelInvestigations, cfg.MaxParallelInvestigations,
			))
		}
	}

	return utils.FlattenErrors(errs)
}
