package integrator

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// ShadowEpsilon is subtracted from the light distance before an occluder counts
const ShadowEpsilon = 1e-5

// BalanceHeuristic weights a sample by own/(own+other).
// An infinite own density (a delta light or lobe) gets the full weight, and
// fallback is returned when neither technique could have produced the sample.
func BalanceHeuristic(ownPdf, otherPdf, fallback float64) float64 {
	if math.IsInf(ownPdf, 1) {
		return 1
	}
	if math.IsInf(otherPdf, 1) {
		return 0
	}
	sum := ownPdf + otherPdf
	if sum <= 0 || math.IsNaN(sum) {
		return fallback
	}
	return ownPdf / sum
}

// roulette decides when a random walk stops
type roulette struct {
	disabled    bool
	minBounces  int
	maxSurvival float64
}

func newRoulette(cfg Config) roulette {
	return roulette{
		disabled:    cfg.DisableRussianRoulette,
		minBounces:  cfg.RussianRouletteMinBounces,
		maxSurvival: cfg.RussianRouletteMaxSurvival,
	}
}

// survival is the probability of continuing a camera path after a BSDF sample
// of the given weight: its largest channel, capped
func (r roulette) survival(bounce int, weight core.Vec3) float64 {
	if weight.IsZero() || !weight.IsFinite() {
		return 0
	}
	if r.disabled || bounce < r.minBounces {
		return 1
	}
	return math.Min(weight.MaxComponent(), r.maxSurvival)
}

// photonSurvival is the probability of continuing a photon walk: the mean channel, capped
func (r roulette) photonSurvival(weight core.Vec3) float64 {
	if weight.IsZero() || !weight.IsFinite() {
		return 0
	}
	if r.disabled {
		return 1
	}
	return math.Min(weight.Sum()/3, r.maxSurvival)
}

// survive draws against the survival probability. Certain survival draws nothing.
func survive(probability float64, sampler core.Sampler) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return sampler.Get1D() < probability
}
