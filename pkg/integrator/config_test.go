package integrator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-light-transport/pkg/photon"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Strategy: StrategyPhotonMapper}.WithDefaults()

	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("Expected MaxDepth %d, got %d", DefaultMaxDepth, cfg.MaxDepth)
	}
	if cfg.RussianRouletteMaxSurvival != DefaultMaxSurvival {
		t.Errorf("Expected max survival %f, got %f", DefaultMaxSurvival, cfg.RussianRouletteMaxSurvival)
	}
	p := cfg.Photon
	if p.Rays != DefaultPhotonRays || p.Caustics != DefaultCausticCapacity || p.Photons != DefaultGlobalCapacity {
		t.Errorf("Expected default photon budgets, got %+v", p)
	}
	if p.MaxBounces != DefaultPhotonBounces || p.Nearest != DefaultNearest {
		t.Errorf("Expected default bounces and k, got %+v", p)
	}
	if p.NormalThreshold != DefaultNormalThreshold || p.Kernel != photon.KernelGaussian {
		t.Errorf("Expected default filter settings, got %+v", p)
	}
	if p.ProgressivePasses != 1 || p.ProgressiveAlpha != DefaultProgressiveRate || p.DiffuseBounces != 0 {
		t.Errorf("Expected progressive refinement disabled, got %+v", p)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestConfig_WithDefaultsKeepsSetValues(t *testing.T) {
	cfg := Config{Strategy: StrategyPathMIS, MaxDepth: 7}
	cfg.Photon.Rays = 123
	cfg.Photon.Kernel = photon.KernelEpanechnikov
	cfg = cfg.WithDefaults()

	if cfg.MaxDepth != 7 || cfg.Photon.Rays != 123 || cfg.Photon.Kernel != photon.KernelEpanechnikov {
		t.Errorf("Expected explicit values to survive, got %+v", cfg)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`{
		"strategy": "photon_mapper",
		"maxDepth": 12,
		"russianRouletteMinBounces": 3,
		"photon": {"rays": 5000, "workers": 4, "kernel": "linear", "progressivePasses": 3, "diffuseBounces": 1}
	}`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Strategy != StrategyPhotonMapper || cfg.MaxDepth != 12 || cfg.RussianRouletteMinBounces != 3 {
		t.Errorf("Unexpected top-level values: %+v", cfg)
	}
	p := cfg.Photon
	if p.Rays != 5000 || p.Workers != 4 || p.Kernel != photon.KernelLinear || p.ProgressivePasses != 3 || p.DiffuseBounces != 1 {
		t.Errorf("Unexpected photon values: %+v", p)
	}
	if p.Caustics != DefaultCausticCapacity {
		t.Errorf("Expected unset capacity to default, got %d", p.Caustics)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"malformed json", `{"strategy": `, ErrInvalidConfig},
		{"unknown strategy", `{"strategy": "bdpt"}`, ErrUnknownStrategy},
		{"missing strategy", `{}`, ErrUnknownStrategy},
		{"survival above one", `{"strategy": "path", "russianRouletteMaxSurvival": 1.5}`, ErrInvalidConfig},
		{"negative min bounces", `{"strategy": "path", "russianRouletteMinBounces": -1}`, ErrInvalidConfig},
		{"unknown kernel", `{"strategy": "photon_mapper", "photon": {"kernel": "box"}}`, ErrInvalidConfig},
		{"negative workers", `{"strategy": "photon_mapper", "photon": {"workers": -2}}`, ErrInvalidConfig},
		{"normal threshold", `{"strategy": "photon_mapper", "photon": {"normalThreshold": 2}}`, ErrInvalidConfig},
		{"progressive alpha", `{"strategy": "photon_mapper", "photon": {"progressiveAlpha": 1.2}}`, ErrInvalidConfig},
		{"diffuse bounces", `{"strategy": "photon_mapper", "photon": {"diffuseBounces": -1}}`, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "integrator.json")
	if err := os.WriteFile(path, []byte(`{"strategy": "direct_mis"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Strategy != StrategyMIS || cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("Unexpected config %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error, got %v", err)
	}
}
