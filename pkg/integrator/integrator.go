// Package integrator implements the light transport strategies: direct lighting
// by emitter sampling, material sampling and their MIS combination, path tracing
// with Russian roulette, and a two-pass photon mapper.
package integrator

import (
	"fmt"

	"github.com/df07/go-light-transport/pkg/core"
)

// Integrator estimates the radiance arriving along a camera ray.
//
// Preprocess runs once per render before any RayColor call. RayColor may then be
// called concurrently; implementations keep no mutable state between calls, and
// every random number comes from the sampler passed in.
type Integrator interface {
	Preprocess(scene core.Scene) error
	RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) core.Vec3
}

// Strategy names an integrator
type Strategy string

const (
	StrategyWhitted      Strategy = "direct_whitted"
	StrategyEMS          Strategy = "direct_ems"
	StrategyMATS         Strategy = "direct_mats"
	StrategyMIS          Strategy = "direct_mis"
	StrategyPath         Strategy = "path"
	StrategyPathNEE      Strategy = "path_nee"
	StrategyPathMIS      Strategy = "path_mis"
	StrategyPhotonMapper Strategy = "photon_mapper"
)

// Strategies lists every registered strategy
func Strategies() []Strategy {
	return []Strategy{
		StrategyWhitted, StrategyEMS, StrategyMATS, StrategyMIS,
		StrategyPath, StrategyPathNEE, StrategyPathMIS,
		StrategyPhotonMapper,
	}
}

// Valid reports whether s names a registered strategy
func (s Strategy) Valid() bool {
	for _, known := range Strategies() {
		if s == known {
			return true
		}
	}
	return false
}

// New creates the integrator selected by cfg.Strategy. Unset parameters take their defaults.
func New(cfg Config, logger core.Logger) (Integrator, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NopLogger()
	}

	switch cfg.Strategy {
	case StrategyWhitted, StrategyEMS, StrategyMATS, StrategyMIS:
		return NewDirectIntegrator(cfg.Strategy), nil
	case StrategyPath, StrategyPathNEE, StrategyPathMIS:
		return NewPathIntegrator(cfg), nil
	case StrategyPhotonMapper:
		return NewPhotonMapper(cfg, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
}

// validateScene fails on scene setup defects before the first sample
func validateScene(scene core.Scene) error {
	if scene == nil {
		return fmt.Errorf("%w: nil scene", ErrInvalidConfig)
	}
	if v, ok := scene.(core.Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("scene validation failed: %w", err)
		}
	}
	return nil
}
