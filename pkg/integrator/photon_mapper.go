package integrator

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/photon"
)

// PhotonMapper is a two-pass integrator. Preprocess traces photons from the lights
// into a caustic map and a global map. RayColor follows specular bounces from the
// camera and, at the first diffuse vertex, adds one light sample to a density
// estimate from both maps in place of the rest of the walk.
type PhotonMapper struct {
	cfg      PhotonConfig
	maxDepth int
	roulette roulette
	kernel   photon.Kernel
	logger   core.Logger

	caustics *photon.KDTree
	global   *photon.KDTree
	stats    PhotonStats
}

// NewPhotonMapper creates a photon mapper. The maps stay empty until Preprocess.
func NewPhotonMapper(cfg Config, logger core.Logger) (*PhotonMapper, error) {
	cfg = cfg.WithDefaults()
	kernel, err := photon.KernelFor(cfg.Photon.Kernel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &PhotonMapper{
		cfg:      cfg.Photon,
		maxDepth: cfg.MaxDepth,
		roulette: newRoulette(cfg),
		kernel:   kernel,
		logger:   logger,
		caustics: photon.NewKDTree(0),
		global:   photon.NewKDTree(0),
	}, nil
}

// Stats returns a summary of the last emission pass
func (pm *PhotonMapper) Stats() PhotonStats {
	return pm.stats
}

// CausticMap returns the photons that reached a diffuse surface through a specular bounce
func (pm *PhotonMapper) CausticMap() *photon.KDTree {
	return pm.caustics
}

// GlobalMap returns the remaining indirect photons
func (pm *PhotonMapper) GlobalMap() *photon.KDTree {
	return pm.global
}

// Preprocess validates the scene and runs the emission pass. The maps are
// rebuilt from scratch and are read-only once it returns.
func (pm *PhotonMapper) Preprocess(scene core.Scene) error {
	if err := validateScene(scene); err != nil {
		return err
	}
	start := time.Now()

	lights := scene.GetLights()
	workers := pm.cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	workers = max(1, min(workers, pm.cfg.Rays))

	var results []emissionResult
	if len(lights) > 0 && scene.GetSampler() != nil {
		results = pm.emit(scene, workers)
	}

	// Merge in task order. Counters are summed before any photon is normalized.
	lightCount := make([]int, len(lights))
	traced, causticTotal, globalTotal := 0, 0, 0
	for _, result := range results {
		for i, c := range result.LightCount {
			lightCount[i] += c
		}
		traced += result.Traced
		causticTotal += len(result.Caustics)
		globalTotal += len(result.Global)
	}

	pm.caustics = photon.NewKDTree(causticTotal)
	pm.global = photon.NewKDTree(globalTotal)
	for _, result := range results {
		storeNormalized(pm.caustics, result.Caustics, lightCount)
		storeNormalized(pm.global, result.Global, lightCount)
	}
	if pm.caustics.Len() > 0 {
		pm.caustics.Balance()
	}
	if pm.global.Len() > 0 {
		pm.global.Balance()
	}

	pm.stats = PhotonStats{
		CausticPhotons: pm.caustics.Len(),
		GlobalPhotons:  pm.global.Len(),
		RaysTraced:     traced,
		RaysPerLight:   lightCount,
		Workers:        workers,
		Duration:       time.Since(start),
	}
	pm.logger.Printf("Photon map: %v\n", pm.stats)
	for i, count := range lightCount {
		pm.logger.Printf("  light %d (%T): %d rays\n", i, lights[i], count)
	}
	return nil
}

// emit runs one emission task per worker and returns the results in task order
func (pm *PhotonMapper) emit(scene core.Scene, workers int) []emissionResult {
	tracer := photonTracer{
		maxBounces: pm.cfg.MaxBounces,
		roulette:   pm.roulette,
		lightCount: len(scene.GetLights()),
	}
	pool := newEmissionPool(scene, tracer, workers, workers)

	// Samplers are cloned up front so the output does not depend on scheduling
	base := scene.GetSampler()
	n := pool.GetNumWorkers()
	tasks := make([]emissionTask, n)
	for i := range tasks {
		tasks[i] = emissionTask{
			TaskID:          i,
			Rays:            splitEven(pm.cfg.Rays, n, i),
			CausticCapacity: splitEven(pm.cfg.Caustics, n, i),
			GlobalCapacity:  splitEven(pm.cfg.Photons, n, i),
			Sampler:         base.Clone(),
		}
	}

	pool.Start()
	for _, task := range tasks {
		pool.SubmitTask(task)
	}
	pool.Stop()
	return pool.Results()
}

// storeNormalized divides each photon's energy by the rays emitted from its light and stores it
func storeNormalized(tree *photon.KDTree, photons []photon.Photon, lightCount []int) {
	for _, ph := range photons {
		if n := lightCount[ph.LightIndex]; n > 0 {
			ph.Energy = ph.Energy.Divide(float64(n))
		}
		tree.Store(ph.Position, ph)
	}
}

// photonTracer random-walks photon rays through a scene
type photonTracer struct {
	scene      core.Scene
	maxBounces int
	roulette   roulette
	lightCount int
}

// trace emits the task's rays and deposits photons at non-specular hits
func (pt *photonTracer) trace(task emissionTask) emissionResult {
	result := emissionResult{
		TaskID:     task.TaskID,
		Caustics:   make([]photon.Photon, 0, min(task.CausticCapacity, task.Rays)),
		Global:     make([]photon.Photon, 0, min(task.GlobalCapacity, task.Rays)),
		LightCount: make([]int, pt.lightCount),
	}
	sampler := task.Sampler

	for i := 0; i < task.Rays; i++ {
		if len(result.Caustics) >= task.CausticCapacity && len(result.Global) >= task.GlobalCapacity {
			break
		}

		emitter, selectionPdf, index := pt.scene.SampleDirect(sampler.Get1D())
		if emitter == nil || selectionPdf <= 0 {
			continue
		}
		result.LightCount[index]++
		result.Traced++

		// Selection frequency is accounted for by the per-light ray count at merge
		ray, energy := emitter.TraceRay(sampler)
		if energy.IsZero() || !energy.IsFinite() {
			continue
		}
		pt.walk(ray, energy, index, sampler, &result, task)
	}
	return result
}

// walk follows one photon until it escapes, reaches an emitter, is absorbed or loses the roulette
func (pt *photonTracer) walk(ray core.Ray, energy core.Vec3, lightIndex int, sampler core.Sampler, result *emissionResult, task emissionTask) {
	caustic := false
	for bounce := 0; bounce < pt.maxBounces; bounce++ {
		its, hit := pt.scene.RayIntersect(ray)
		if !hit || its.IsEmitter() || its.BSDF == nil {
			return
		}

		direction := ray.Direction.Normalize()
		rec := core.NewBSDFSampleRecord(its.ToLocal(direction.Negate()), its.UV)
		weight := its.BSDF.Sample(&rec, sampler.Get2D())

		if rec.IsSpecular() {
			caustic = true
		} else if bounce > 0 {
			// The first diffuse hit is direct light, which light sampling covers at render time
			ph := photon.NewPhoton(its.Point, direction, energy, its.Normal(), lightIndex)
			if caustic {
				if len(result.Caustics) < task.CausticCapacity {
					result.Caustics = append(result.Caustics, ph)
				}
			} else if len(result.Global) < task.GlobalCapacity {
				result.Global = append(result.Global, ph)
			}
			caustic = false
		}

		energy = energy.MultiplyVec(weight)
		survival := pt.roulette.photonSurvival(weight)
		if !survive(survival, sampler) {
			return
		}
		energy = energy.Divide(survival)
		ray = core.NewRay(its.Point, its.ToWorld(rec.Wo))
	}
}

// RayColor follows the camera path through specular bounces and ends it with a
// photon map lookup at the first diffuse vertex
func (pm *PhotonMapper) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) core.Vec3 {
	var radiance core.Vec3
	throughput := core.NewVec3(1, 1, 1)
	specular := true
	diffuseLeft := pm.cfg.DiffuseBounces

	for bounce := 0; bounce < pm.maxDepth; bounce++ {
		its, hit := scene.RayIntersect(ray)
		if !hit {
			w := 1.0
			if !specular {
				w = neeWeight(lightPdf(scene, ray, nil))
			}
			return radiance.Add(throughput.MultiplyVec(background(scene, ray)).Multiply(w))
		}
		if its.IsEmitter() || its.BSDF == nil {
			w := 1.0
			if !specular {
				w = neeWeight(lightPdf(scene, ray, &its))
			}
			return radiance.Add(throughput.MultiplyVec(emitted(ray, &its)).Multiply(w))
		}

		wi := incoming(ray, &its)
		rec := core.NewBSDFSampleRecord(wi, its.UV)
		weight := its.BSDF.Sample(&rec, sampler.Get2D())

		if !rec.IsSpecular() {
			direct := throughput.MultiplyVec(sampleLight(scene, sampler, &its, wi).contribution)
			if diffuseLeft <= 0 {
				indirect := pm.EstimateRadiance(&its).MultiplyVec(weight).MultiplyVec(throughput)
				return radiance.Add(direct).Add(finite(indirect))
			}
			radiance = radiance.Add(direct)
			diffuseLeft--
		}

		if weight.IsZero() || !weight.IsFinite() {
			return radiance
		}
		survival := pm.roulette.survival(bounce, weight)
		if !survive(survival, sampler) {
			return radiance
		}
		throughput = throughput.MultiplyVec(weight).Divide(survival)
		specular = rec.IsSpecular()
		ray = core.NewRay(its.Point, its.ToWorld(rec.Wo))
	}
	return radiance
}

// EstimateRadiance returns the density estimate of both photon maps at its
func (pm *PhotonMapper) EstimateRadiance(its *core.Intersection) core.Vec3 {
	point, normal := its.Point, its.Normal()
	return pm.estimate(pm.caustics, point, normal).Add(pm.estimate(pm.global, point, normal))
}

// estimate gathers the k nearest photons of one map. With progressive passes the
// radius then shrinks by sqrt((n+αm)/(n+m)) per pass and the passes are averaged.
func (pm *PhotonMapper) estimate(tree *photon.KDTree, point, normal core.Vec3) core.Vec3 {
	if tree == nil || tree.Len() == 0 || !tree.Balanced() {
		return core.Vec3{}
	}

	neighbors, radius := tree.FindNearest(point, pm.cfg.Nearest, math.Inf(1), nil)
	if math.IsInf(radius, 1) {
		return core.Vec3{}
	}
	sum := photon.Gather(neighbors, point, normal, radius, pm.kernel, pm.cfg.NormalThreshold)

	passes := pm.cfg.ProgressivePasses
	n := float64(len(neighbors))
	for pass := 1; pass < passes; pass++ {
		neighbors = tree.FindInRadius(point, radius, neighbors[:0])
		sum = sum.Add(photon.Gather(neighbors, point, normal, radius, pm.kernel, pm.cfg.NormalThreshold))

		m := float64(len(neighbors))
		if n+m > 0 {
			radius *= math.Sqrt((n + pm.cfg.ProgressiveAlpha*m) / (n + m))
		}
		n += pm.cfg.ProgressiveAlpha * m
	}
	return sum.Divide(float64(passes))
}
