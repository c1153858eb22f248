package integrator

import (
	"github.com/df07/go-light-transport/pkg/core"
)

// PathState records why a random walk stopped
type PathState int

const (
	PathTracing       PathState = iota // Still walking
	PathHitEmitter                     // Reached an emissive or material-less surface
	PathHitBackground                  // Escaped the scene
	PathAbsorbed                       // BSDF sample carried no energy
	PathTerminatedRR                   // Killed by Russian roulette
	PathMaxDepth                       // Ran out of bounces
)

func (s PathState) String() string {
	switch s {
	case PathTracing:
		return "tracing"
	case PathHitEmitter:
		return "hit emitter"
	case PathHitBackground:
		return "hit background"
	case PathAbsorbed:
		return "absorbed"
	case PathTerminatedRR:
		return "terminated by roulette"
	case PathMaxDepth:
		return "max depth"
	}
	return "unknown"
}

// PathIntegrator traces multi-bounce random walks from the camera.
//
// StrategyPath only follows BSDF samples. StrategyPathNEE adds a light sample at
// every non-specular vertex and counts emission found by BSDF sampling only when
// light sampling could not have found it. StrategyPathMIS weights both with the
// balance heuristic.
type PathIntegrator struct {
	strategy Strategy
	maxDepth int
	roulette roulette
}

// NewPathIntegrator creates a path integrator for cfg.Strategy
func NewPathIntegrator(cfg Config) *PathIntegrator {
	cfg = cfg.WithDefaults()
	strategy := cfg.Strategy
	if strategy != StrategyPathNEE && strategy != StrategyPathMIS {
		strategy = StrategyPath
	}
	return &PathIntegrator{
		strategy: strategy,
		maxDepth: cfg.MaxDepth,
		roulette: newRoulette(cfg),
	}
}

// Strategy returns the path variant in use
func (pi *PathIntegrator) Strategy() Strategy {
	return pi.strategy
}

// Preprocess validates the scene
func (pi *PathIntegrator) Preprocess(scene core.Scene) error {
	return validateScene(scene)
}

// RayColor returns the radiance carried back along ray
func (pi *PathIntegrator) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) core.Vec3 {
	radiance, _ := pi.Trace(ray, scene, sampler)
	return radiance
}

// Trace walks a path from ray and reports the radiance and how the walk ended
func (pi *PathIntegrator) Trace(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.Vec3, PathState) {
	var radiance core.Vec3
	throughput := core.NewVec3(1, 1, 1)

	// The camera ray behaves like a specular bounce: nothing else can see what it hits
	specular := true
	bsdfPdf := 0.0

	for bounce := 0; bounce < pi.maxDepth; bounce++ {
		its, hit := scene.RayIntersect(ray)
		if !hit {
			le := background(scene, ray)
			if !le.IsZero() {
				w := pi.emissionWeight(specular, bsdfPdf, func() float64 { return lightPdf(scene, ray, nil) })
				radiance = radiance.Add(throughput.MultiplyVec(le).Multiply(w))
			}
			return radiance, PathHitBackground
		}

		// Emitters end the walk even when a material is bound to the same surface
		if its.IsEmitter() || its.BSDF == nil {
			le := emitted(ray, &its)
			if !le.IsZero() {
				w := pi.emissionWeight(specular, bsdfPdf, func() float64 { return lightPdf(scene, ray, &its) })
				radiance = radiance.Add(throughput.MultiplyVec(le).Multiply(w))
			}
			return radiance, PathHitEmitter
		}

		wi := incoming(ray, &its)
		rec := core.NewBSDFSampleRecord(wi, its.UV)
		weight := its.BSDF.Sample(&rec, sampler.Get2D())

		// Light sampling is pointless at a delta lobe
		if pi.strategy != StrategyPath && !rec.IsSpecular() {
			ls := sampleLight(scene, sampler, &its, wi)
			if !ls.contribution.IsZero() {
				w := 1.0
				if pi.strategy == StrategyPathMIS {
					w = BalanceHeuristic(ls.emitterPdf, ls.bsdfPdf, 1)
				}
				radiance = radiance.Add(throughput.MultiplyVec(ls.contribution).Multiply(w))
			}
		}

		if weight.IsZero() || !weight.IsFinite() {
			return radiance, PathAbsorbed
		}
		survival := pi.roulette.survival(bounce, weight)
		if !survive(survival, sampler) {
			return radiance, PathTerminatedRR
		}

		throughput = throughput.MultiplyVec(weight).Divide(survival)
		specular = rec.IsSpecular()
		if !specular && pi.strategy == StrategyPathMIS {
			bsdfPdf = its.BSDF.PDF(&rec)
		}
		ray = core.NewRay(its.Point, its.ToWorld(rec.Wo))
	}
	return radiance, PathMaxDepth
}

// emissionWeight is the weight of emission reached by following a BSDF sample.
// lightPdf is only evaluated when the weight depends on it.
func (pi *PathIntegrator) emissionWeight(specular bool, bsdfPdf float64, lightPdf func() float64) float64 {
	if specular || pi.strategy == StrategyPath {
		return 1
	}
	if pi.strategy == StrategyPathNEE {
		return neeWeight(lightPdf())
	}
	return BalanceHeuristic(bsdfPdf, lightPdf(), 0)
}

// neeWeight keeps BSDF-found emission only where light sampling has no density
func neeWeight(lightPdf float64) float64 {
	if lightPdf > 0 {
		return 0
	}
	return 1
}
