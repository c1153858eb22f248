package lights

import (
	"math"
	"strings"
	"testing"

	"github.com/df07/go-light-transport/pkg/core"
)

func testLights() []core.Emitter {
	return []core.Emitter{
		NewPointLight(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(2, 2, 2)),
		NewEnvironmentLight(core.NewVec3(0.1, 0.1, 0.1)),
	}
}

func TestNewWeightedLightSampler(t *testing.T) {
	lights := testLights()
	sampler := NewWeightedLightSampler(lights, []float64{1, 2, 1})

	expected := []float64{0.25, 0.5, 0.25}
	for i, w := range expected {
		if math.Abs(sampler.Probability(i)-w) > 1e-12 {
			t.Errorf("Light %d: expected probability %f, got %f", i, w, sampler.Probability(i))
		}
		if math.Abs(sampler.ProbabilityOf(lights[i])-w) > 1e-12 {
			t.Errorf("Light %d: expected probability %f by identity, got %f", i, w, sampler.ProbabilityOf(lights[i]))
		}
	}

	if sampler.Probability(-1) != 0 || sampler.Probability(3) != 0 {
		t.Error("Expected zero probability for out-of-range indices")
	}
	if sampler.ProbabilityOf(NewPointLight(core.Vec3{}, core.Vec3{})) != 0 {
		t.Error("Expected zero probability for an unknown light")
	}
	if !strings.Contains(sampler.String(), "environment") {
		t.Errorf("Expected light types in %q", sampler.String())
	}
}

func TestWeightedLightSampler_SampleLight(t *testing.T) {
	lights := testLights()
	sampler := NewWeightedLightSampler(lights, []float64{0.25, 0.5, 0.25})

	tests := []struct {
		u     float64
		index int
	}{
		{0, 0},
		{0.2, 0},
		{0.25, 1},
		{0.74, 1},
		{0.75, 2},
		{0.9999, 2},
	}

	for _, tt := range tests {
		light, pdf, index := sampler.SampleLight(tt.u)
		if index != tt.index || light != lights[tt.index] {
			t.Errorf("u=%f: expected light %d, got %d", tt.u, tt.index, index)
		}
		if pdf != sampler.Probability(index) {
			t.Errorf("u=%f: expected pdf %f, got %f", tt.u, sampler.Probability(index), pdf)
		}
	}
}

func TestWeightedLightSampler_ZeroWeightsAreUniform(t *testing.T) {
	sampler := NewWeightedLightSampler(testLights(), []float64{0, 0, 0})
	for i := 0; i < 3; i++ {
		if math.Abs(sampler.Probability(i)-1.0/3) > 1e-12 {
			t.Errorf("Expected uniform probability, got %f", sampler.Probability(i))
		}
	}
}

func TestWeightedLightSampler_Empty(t *testing.T) {
	sampler := NewUniformLightSampler(nil)
	light, pdf, index := sampler.SampleLight(0.5)
	if light != nil || pdf != 0 || index != -1 {
		t.Errorf("Expected no light, got %v %f %d", light, pdf, index)
	}
	if sampler.Count() != 0 {
		t.Errorf("Expected zero lights, got %d", sampler.Count())
	}
}

func TestWeightedLightSampler_MismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched weights")
		}
	}()
	NewWeightedLightSampler(testLights(), []float64{1})
}
