package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/geometry"
	"github.com/df07/go-light-transport/pkg/lights"
	"github.com/df07/go-light-transport/pkg/material"
	"github.com/df07/go-light-transport/pkg/scene"
)

// newSkyScene puts a diffuse plane under a constant environment. The plane
// reflects exactly albedo · radiance toward any viewer above it.
func newSkyScene(t *testing.T, albedo float64) *scene.Scene {
	t.Helper()
	sc := scene.NewScene(17)
	sc.AddShape(geometry.NewQuad(core.NewVec3(-2, 0, -2), core.NewVec3(0, 0, 4), core.NewVec3(4, 0, 0),
		material.NewDiffuse(core.NewVec3(albedo, albedo, albedo))))
	sc.SetEnvironment(core.NewVec3(1, 1, 1))
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	return sc
}

var downRay = core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

func TestPathIntegrator_RouletteDisabledIsExact(t *testing.T) {
	sc := newSkyScene(t, 0.5)
	cfg := DefaultConfig(StrategyPath)
	cfg.DisableRussianRoulette = true
	in := NewPathIntegrator(cfg)

	sampler := newTestSampler()
	for i := 0; i < 1000; i++ {
		got, state := in.Trace(downRay, sc, sampler)
		if got != core.NewVec3(0.5, 0.5, 0.5) {
			t.Fatalf("Expected every sample to be exactly 0.5, got %v", got)
		}
		if state != PathHitBackground {
			t.Fatalf("Expected the path to escape, got %v", state)
		}
	}
}

// Roulette changes which paths return zero but not the expected radiance
func TestPathIntegrator_RouletteIsUnbiased(t *testing.T) {
	sc := newSkyScene(t, 0.5)
	const samples = 40000

	for _, strategy := range []Strategy{StrategyPath, StrategyPathNEE, StrategyPathMIS} {
		t.Run(string(strategy), func(t *testing.T) {
			withRR := DefaultConfig(strategy)
			withoutRR := DefaultConfig(strategy)
			withoutRR.DisableRussianRoulette = true

			on := Estimate(NewPathIntegrator(withRR), downRay, sc, newTestSampler(), samples)
			off := Estimate(NewPathIntegrator(withoutRR), downRay, sc, newTestSampler(), samples)

			for name, stats := range map[string]SampleStats{"enabled": on, "disabled": off} {
				if mean := stats.GetColor().X; math.Abs(mean-0.5) > 0.02 {
					t.Errorf("Roulette %s: expected mean 0.5, got %f", name, mean)
				}
			}
			if strategy == StrategyPath && on.LuminanceVariance() <= off.LuminanceVariance() {
				t.Errorf("Expected roulette to add variance to pure BSDF sampling: %f <= %f",
					on.LuminanceVariance(), off.LuminanceVariance())
			}
		})
	}
}

func TestPathIntegrator_RouletteTerminatesPaths(t *testing.T) {
	sc := newSkyScene(t, 0.5)
	in := NewPathIntegrator(DefaultConfig(StrategyPath))

	sampler := newTestSampler()
	states := map[PathState]int{}
	for i := 0; i < 2000; i++ {
		got, state := in.Trace(downRay, sc, sampler)
		states[state]++
		if state == PathTerminatedRR && !got.IsZero() {
			t.Fatalf("Expected a path killed at its first vertex to carry nothing, got %v", got)
		}
	}
	if states[PathTerminatedRR] == 0 || states[PathHitBackground] == 0 {
		t.Errorf("Expected both terminated and escaped paths, got %v", states)
	}
}

func TestPathIntegrator_MinBouncesDelaysRoulette(t *testing.T) {
	sc := newSkyScene(t, 0.5)
	cfg := DefaultConfig(StrategyPath)
	cfg.RussianRouletteMinBounces = 1
	in := NewPathIntegrator(cfg)

	sampler := newTestSampler()
	for i := 0; i < 500; i++ {
		if _, state := in.Trace(downRay, sc, sampler); state != PathHitBackground {
			t.Fatalf("Expected no roulette at the first vertex, got %v", state)
		}
	}
}

func TestPathIntegrator_States(t *testing.T) {
	t.Run("max depth", func(t *testing.T) {
		sc := newSkyScene(t, 0.5)
		cfg := DefaultConfig(StrategyPath)
		cfg.MaxDepth = 1
		cfg.DisableRussianRoulette = true
		got, state := NewPathIntegrator(cfg).Trace(downRay, sc, newTestSampler())
		if state != PathMaxDepth || !got.IsZero() {
			t.Errorf("Expected max depth with no radiance, got %v %v", state, got)
		}
	})

	t.Run("max depth keeps light samples", func(t *testing.T) {
		sc := newSkyScene(t, 0.5)
		cfg := DefaultConfig(StrategyPathNEE)
		cfg.MaxDepth = 1
		stats := Estimate(NewPathIntegrator(cfg), downRay, sc, newTestSampler(), 20000)
		if mean := stats.GetColor().X; math.Abs(mean-0.5) > 0.02 {
			t.Errorf("Expected the first vertex light sample to average 0.5, got %f", mean)
		}
	})

	t.Run("absorbed", func(t *testing.T) {
		sc := newSkyScene(t, 0)
		got, state := NewPathIntegrator(DefaultConfig(StrategyPathMIS)).Trace(downRay, sc, newTestSampler())
		if state != PathAbsorbed || !got.IsZero() {
			t.Errorf("Expected a black surface to absorb, got %v %v", state, got)
		}
	})

	t.Run("hit emitter", func(t *testing.T) {
		sc := newQuadPairScene(t, 0.5, 4)
		up := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, 1, 0))
		got, state := NewPathIntegrator(DefaultConfig(StrategyPathNEE)).Trace(up, sc, newTestSampler())
		if state != PathHitEmitter || got != core.NewVec3(4, 4, 4) {
			t.Errorf("Expected the light seen directly, got %v %v", state, got)
		}
	})
}

// A light attached to a shape that also has a material still ends the walk, so
// path integrators and the photon mapper agree on what the surface returns
func TestPathIntegrators_EmitterWithMaterial(t *testing.T) {
	sc := scene.NewScene(23)
	quad := geometry.NewQuad(core.NewVec3(-2, 0, -2), core.NewVec3(0, 0, 4), core.NewVec3(4, 0, 0),
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	light := lights.NewAreaLight(core.NewVec3(1, 1, 1))
	light.Attach(quad)
	sc.AddShape(quad)
	sc.Lights = append(sc.Lights, light)
	sc.SetEnvironment(core.NewVec3(1, 1, 1))
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	want := core.NewVec3(1, 1, 1)

	for _, strategy := range []Strategy{StrategyPath, StrategyPathNEE, StrategyPathMIS} {
		in := NewPathIntegrator(DefaultConfig(strategy))
		sampler := newTestSampler()
		for i := 0; i < 100; i++ {
			got, state := in.Trace(downRay, sc, sampler)
			if state != PathHitEmitter || got != want {
				t.Fatalf("%s: expected %v ending at the emitter, got %v %v", strategy, want, got, state)
			}
		}
	}

	pm := newPreparedPhotonMapper(t, photonConfig(2000, 2), sc)
	if got := pm.RayColor(downRay, sc, newTestSampler()); got != want {
		t.Errorf("photon_mapper: expected %v, got %v", want, got)
	}
}

func TestPathState_String(t *testing.T) {
	for state, want := range map[PathState]string{
		PathTracing:       "tracing",
		PathHitEmitter:    "hit emitter",
		PathHitBackground: "hit background",
		PathAbsorbed:      "absorbed",
		PathTerminatedRR:  "terminated by roulette",
		PathMaxDepth:      "max depth",
		PathState(99):     "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

// Light reaching the floor through a glass sphere is only found by following
// the specular chain, so every strategy that traces further than one bounce
// must see more light under the sphere than direct lighting alone
func TestPathIntegrators_CausticThroughGlass(t *testing.T) {
	sc := scene.NewScene(19)
	floor := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8))
	sc.AddShape(
		geometry.NewQuad(core.NewVec3(-4, 0, -4), core.NewVec3(0, 0, 8), core.NewVec3(8, 0, 0), floor),
		geometry.NewSphere(core.NewVec3(0, 1.5, 0), 1, material.NewDielectric(1.5)),
	)
	sc.AddSphereLight(core.NewVec3(0, 5, 0), 0.5, core.NewVec3(20, 20, 20))
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}

	// Look at the floor right under the sphere from the side
	ray := core.NewRay(core.NewVec3(3, 0.2, 0), core.NewVec3(-1, -0.0666, 0).Normalize())
	direct := Estimate(NewDirectIntegrator(StrategyEMS), ray, sc, newTestSampler(), 2000).GetColor()
	if !direct.IsZero() {
		t.Fatalf("Expected the sphere to block direct light, got %v", direct)
	}

	for _, strategy := range []Strategy{StrategyPath, StrategyPathMIS} {
		got := Estimate(NewPathIntegrator(DefaultConfig(strategy)), ray, sc, newTestSampler(), 5000).GetColor()
		if got.X <= 0 || !got.IsFinite() {
			t.Errorf("%s: expected caustic light under the sphere, got %v", strategy, got)
		}
	}
}
