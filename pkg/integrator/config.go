package integrator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/df07/go-light-transport/pkg/photon"
)

// Defaults applied by WithDefaults
const (
	DefaultMaxDepth        = 50
	DefaultMaxSurvival     = 0.95
	DefaultPhotonRays      = 100000
	DefaultCausticCapacity = 100000
	DefaultGlobalCapacity  = 100000
	DefaultPhotonBounces   = 25
	DefaultNearest         = 100
	DefaultNormalThreshold = 0.7
	DefaultProgressiveRate = 0.6
)

// Config selects an integrator strategy and its parameters
type Config struct {
	Strategy Strategy `json:"strategy"`
	MaxDepth int      `json:"maxDepth,omitempty"` // Maximum path vertices for the path strategies

	RussianRouletteMinBounces  int     `json:"russianRouletteMinBounces,omitempty"`  // Bounces before roulette starts
	RussianRouletteMaxSurvival float64 `json:"russianRouletteMaxSurvival,omitempty"` // Upper bound on the survival probability
	DisableRussianRoulette     bool    `json:"disableRussianRoulette,omitempty"`     // Forces survival probability 1

	Photon PhotonConfig `json:"photon"`
}

// PhotonConfig holds the photon mapper parameters
type PhotonConfig struct {
	Rays       int `json:"rays,omitempty"`       // Photon rays traced in the emission pass
	Caustics   int `json:"caustics,omitempty"`   // Caustic map capacity
	Photons    int `json:"photons,omitempty"`    // Global map capacity
	MaxBounces int `json:"maxBounces,omitempty"` // Bounce limit of a photon walk
	Workers    int `json:"workers,omitempty"`    // Emission workers, 0 uses every logical core

	Nearest         int               `json:"nearest,omitempty"`         // k of the nearest-photon query
	NormalThreshold float64           `json:"normalThreshold,omitempty"` // Minimum photon/surface normal agreement
	Kernel          photon.KernelType `json:"kernel,omitempty"`

	ProgressivePasses int     `json:"progressivePasses,omitempty"` // Radius reduction passes, 1 disables
	ProgressiveAlpha  float64 `json:"progressiveAlpha,omitempty"`  // Fraction of new photons kept per pass

	// Diffuse vertices traced with light sampling before the photon lookup.
	// 0 looks up the maps at the first diffuse vertex.
	DiffuseBounces int `json:"diffuseBounces,omitempty"`
}

// DefaultConfig returns the configuration for a strategy with every parameter at its default
func DefaultConfig(strategy Strategy) Config {
	return Config{Strategy: strategy}.WithDefaults()
}

// LoadConfig reads a JSON configuration file and applies defaults
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a JSON configuration, applies defaults and validates the result
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefaults returns a copy with unset fields filled in
func (c Config) WithDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.RussianRouletteMaxSurvival <= 0 {
		c.RussianRouletteMaxSurvival = DefaultMaxSurvival
	}

	p := &c.Photon
	if p.Rays <= 0 {
		p.Rays = DefaultPhotonRays
	}
	if p.Caustics <= 0 {
		p.Caustics = DefaultCausticCapacity
	}
	if p.Photons <= 0 {
		p.Photons = DefaultGlobalCapacity
	}
	if p.MaxBounces <= 0 {
		p.MaxBounces = DefaultPhotonBounces
	}
	if p.Nearest <= 0 {
		p.Nearest = DefaultNearest
	}
	if p.NormalThreshold == 0 {
		p.NormalThreshold = DefaultNormalThreshold
	}
	if p.Kernel == "" {
		p.Kernel = photon.KernelGaussian
	}
	if p.ProgressivePasses <= 0 {
		p.ProgressivePasses = 1
	}
	if p.ProgressiveAlpha <= 0 {
		p.ProgressiveAlpha = DefaultProgressiveRate
	}
	return c
}

// Validate reports configuration values no integrator can run with
func (c Config) Validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: maxDepth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.RussianRouletteMinBounces < 0 {
		return fmt.Errorf("%w: russianRouletteMinBounces must not be negative", ErrInvalidConfig)
	}
	if c.RussianRouletteMaxSurvival <= 0 || c.RussianRouletteMaxSurvival > 1 {
		return fmt.Errorf("%w: russianRouletteMaxSurvival must be in (0, 1], got %g", ErrInvalidConfig, c.RussianRouletteMaxSurvival)
	}

	if c.Strategy != StrategyPhotonMapper {
		return nil
	}
	p := c.Photon
	if p.Workers < 0 {
		return fmt.Errorf("%w: photon workers must not be negative", ErrInvalidConfig)
	}
	if p.NormalThreshold < -1 || p.NormalThreshold > 1 {
		return fmt.Errorf("%w: photon normalThreshold must be in [-1, 1], got %g", ErrInvalidConfig, p.NormalThreshold)
	}
	if p.ProgressiveAlpha > 1 {
		return fmt.Errorf("%w: photon progressiveAlpha must be in (0, 1], got %g", ErrInvalidConfig, p.ProgressiveAlpha)
	}
	if p.DiffuseBounces < 0 {
		return fmt.Errorf("%w: photon diffuseBounces must not be negative", ErrInvalidConfig)
	}
	if _, err := photon.KernelFor(p.Kernel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
