package lights

import (
	"fmt"

	"github.com/df07/go-light-transport/pkg/core"
)

// WeightedLightSampler implements light selection with user-specified weights.
// Weights must match the order of lights in the scene's light list.
type WeightedLightSampler struct {
	lights  []core.Emitter
	weights []float64
	index   map[core.Emitter]int
}

// NewWeightedLightSampler creates a light sampler with specified weights.
// The weights slice must have the same length as lights and is normalized to sum to 1.
func NewWeightedLightSampler(lights []core.Emitter, weights []float64) *WeightedLightSampler {
	if len(lights) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lights), len(weights)))
	}

	normalizedWeights := make([]float64, len(weights))
	totalWeight := 0.0
	for _, weight := range weights {
		if weight < 0 {
			panic("weights must be non-negative")
		}
		totalWeight += weight
	}

	if totalWeight == 0 {
		// All weights are zero, use uniform distribution
		for i := range normalizedWeights {
			normalizedWeights[i] = 1.0 / float64(len(weights))
		}
	} else {
		for i, weight := range weights {
			normalizedWeights[i] = weight / totalWeight
		}
	}

	return newSampler(lights, normalizedWeights)
}

// NewUniformLightSampler creates a light sampler with equal weights for all lights
func NewUniformLightSampler(lights []core.Emitter) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i := range weights {
		weights[i] = 1.0 / float64(len(lights))
	}
	return newSampler(lights, weights)
}

func newSampler(lights []core.Emitter, weights []float64) *WeightedLightSampler {
	index := make(map[core.Emitter]int, len(lights))
	for i, light := range lights {
		index[light] = i
	}
	return &WeightedLightSampler{lights: lights, weights: weights, index: index}
}

// SampleLight selects a light using the fixed weights.
// Returns the selected light, its selection probability, and its index.
func (wls *WeightedLightSampler) SampleLight(u float64) (core.Emitter, float64, int) {
	if len(wls.lights) == 0 {
		return nil, 0.0, -1
	}

	var cumulativeProbability float64
	for i := 0; i < len(wls.lights); i++ {
		cumulativeProbability += wls.weights[i]
		if u < cumulativeProbability {
			return wls.lights[i], wls.weights[i], i
		}
	}

	// Rounding left u above the last cumulative value
	lastIdx := len(wls.lights) - 1
	return wls.lights[lastIdx], wls.weights[lastIdx], lastIdx
}

// Probability returns the selection probability of the light at the given index
func (wls *WeightedLightSampler) Probability(lightIndex int) float64 {
	if lightIndex < 0 || lightIndex >= len(wls.weights) {
		return 0.0
	}
	return wls.weights[lightIndex]
}

// ProbabilityOf returns the selection probability of the given light, or 0 if it is not sampled
func (wls *WeightedLightSampler) ProbabilityOf(light core.Emitter) float64 {
	i, ok := wls.index[light]
	if !ok {
		return 0.0
	}
	return wls.weights[i]
}

// Count returns the number of lights in this sampler
func (wls *WeightedLightSampler) Count() int {
	return len(wls.lights)
}

// String returns a string representation for debugging
func (wls *WeightedLightSampler) String() string {
	if len(wls.lights) == 0 {
		return "WeightedLightSampler{no lights}"
	}

	result := fmt.Sprintf("WeightedLightSampler{%d lights with fixed weights:\n", len(wls.lights))
	for i, light := range wls.lights {
		result += fmt.Sprintf("  [%d] %s: %.1f%%\n", i, typeName(light.Type()), wls.weights[i]*100)
	}
	result += "}"
	return result
}

func typeName(t core.EmitterType) string {
	switch t {
	case core.EmitterArea:
		return "area"
	case core.EmitterPoint:
		return "point"
	case core.EmitterEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}
