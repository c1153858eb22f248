package integrator

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// DirectIntegrator estimates single-bounce illumination: emission seen directly
// plus light reflected once off the first surface
type DirectIntegrator struct {
	strategy Strategy
}

// NewDirectIntegrator creates a direct lighting integrator for one of
// StrategyWhitted, StrategyEMS, StrategyMATS or StrategyMIS
func NewDirectIntegrator(strategy Strategy) *DirectIntegrator {
	return &DirectIntegrator{strategy: strategy}
}

// Strategy returns the estimator in use
func (di *DirectIntegrator) Strategy() Strategy {
	return di.strategy
}

// Preprocess validates the scene
func (di *DirectIntegrator) Preprocess(scene core.Scene) error {
	return validateScene(scene)
}

// RayColor returns the emission at the first hit plus its direct illumination
func (di *DirectIntegrator) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) core.Vec3 {
	its, hit := scene.RayIntersect(ray)
	if !hit {
		return background(scene, ray)
	}

	le := emitted(ray, &its)
	if its.BSDF == nil {
		return le
	}

	var direct core.Vec3
	switch di.strategy {
	case StrategyWhitted:
		direct = Whitted(scene, sampler, ray, &its)
	case StrategyEMS:
		direct = EstimateEmitterSampling(scene, sampler, ray, &its)
	case StrategyMATS:
		direct = EstimateMaterialSampling(scene, sampler, ray, &its)
	default:
		direct = EstimateDirectMIS(scene, sampler, ray, &its)
	}
	return le.Add(direct)
}

// Whitted takes one sample from every light in the scene and sums them
func Whitted(scene core.Scene, sampler core.Sampler, ray core.Ray, its *core.Intersection) core.Vec3 {
	wi := incoming(ray, its)
	var sum core.Vec3
	for _, emitter := range scene.GetLights() {
		sum = sum.Add(sampleEmitter(scene, sampler, its, wi, emitter, 1).contribution)
	}
	return sum
}

// EstimateEmitterSampling returns one light-sampling estimate of the radiance
// reflected at its toward the origin of ray
func EstimateEmitterSampling(scene core.Scene, sampler core.Sampler, ray core.Ray, its *core.Intersection) core.Vec3 {
	return sampleLight(scene, sampler, its, incoming(ray, its)).contribution
}

// EstimateMaterialSampling returns one BSDF-sampling estimate of the radiance
// reflected at its toward the origin of ray
func EstimateMaterialSampling(scene core.Scene, sampler core.Sampler, ray core.Ray, its *core.Intersection) core.Vec3 {
	ms := sampleMaterial(scene, sampler, ray, its)
	return ms.contribution
}

// EstimateDirectMIS combines one light sample and one BSDF sample with the balance heuristic
func EstimateDirectMIS(scene core.Scene, sampler core.Sampler, ray core.Ray, its *core.Intersection) core.Vec3 {
	ls := sampleLight(scene, sampler, its, incoming(ray, its))
	ms := sampleMaterial(scene, sampler, ray, its)

	emsWeight := BalanceHeuristic(ls.emitterPdf, ls.bsdfPdf, 1)
	matsWeight := BalanceHeuristic(ms.bsdfPdf, ms.emitterPdf, 0)
	return ls.contribution.Multiply(emsWeight).Add(ms.contribution.Multiply(matsWeight))
}

// lightSample is one next-event estimate toward a light
type lightSample struct {
	contribution core.Vec3 // Le·f·|cosθ| / (selection·pdf), zero when occluded
	emitterPdf   float64   // selection·solid-angle density, +Inf for delta lights
	bsdfPdf      float64   // density of the BSDF sampling the same direction
}

// sampleLight picks a light with the scene's selection density and samples it
func sampleLight(scene core.Scene, sampler core.Sampler, its *core.Intersection, wi core.Vec3) lightSample {
	emitter, selectionPdf := scene.SampleEmitter(sampler.Get1D())
	if emitter == nil || selectionPdf <= 0 {
		return lightSample{}
	}
	return sampleEmitter(scene, sampler, its, wi, emitter, selectionPdf)
}

// sampleEmitter samples a point on emitter as seen from its. wi is the local direction
// toward the previous path vertex.
func sampleEmitter(scene core.Scene, sampler core.Sampler, its *core.Intersection, wi core.Vec3, emitter core.Emitter, selectionPdf float64) lightSample {
	rec := core.NewEmitterQueryRecord(its.Point)
	rec.Emitter = emitter
	le := emitter.Sample(&rec, sampler.Get2D(), sampler.Get1D())
	if rec.PDF <= 0 || le.IsZero() || !le.IsFinite() {
		return lightSample{}
	}
	if occluded(scene, its.Point, &rec) {
		return lightSample{}
	}

	bsdfRec := core.NewBSDFEvalRecord(wi, its.ToLocal(rec.Wi), its.UV)
	f := its.BSDF.Eval(&bsdfRec)
	if f.IsZero() {
		return lightSample{}
	}

	ls := lightSample{
		emitterPdf: selectionPdf * rec.PDF,
		bsdfPdf:    its.BSDF.PDF(&bsdfRec),
	}
	cosTheta := math.Abs(its.Normal().Dot(rec.Wi))
	ls.contribution = finite(le.MultiplyVec(f).Multiply(cosTheta / ls.emitterPdf))
	if core.IsDeltaEmitter(emitter) {
		ls.emitterPdf = math.Inf(1)
	}
	return ls
}

// materialSample is one BSDF-sampled estimate of the light arriving at a surface
type materialSample struct {
	contribution core.Vec3 // f·|cosθ|/pdf · Le of whatever the sampled ray reached
	bsdfPdf      float64   // +Inf for specular lobes
	emitterPdf   float64   // density of light sampling the same direction
}

// sampleMaterial samples the BSDF at its and follows the new direction one step
func sampleMaterial(scene core.Scene, sampler core.Sampler, ray core.Ray, its *core.Intersection) materialSample {
	rec := core.NewBSDFSampleRecord(incoming(ray, its), its.UV)
	weight := its.BSDF.Sample(&rec, sampler.Get2D())
	if weight.IsZero() || !weight.IsFinite() {
		return materialSample{}
	}

	ms := materialSample{bsdfPdf: math.Inf(1)}
	if !rec.IsSpecular() {
		ms.bsdfPdf = its.BSDF.PDF(&rec)
	}

	next := core.NewRay(its.Point, its.ToWorld(rec.Wo))
	hit, ok := scene.RayIntersect(next)
	if !ok {
		ms.contribution = weight.MultiplyVec(background(scene, next))
		ms.emitterPdf = lightPdf(scene, next, nil)
		return ms
	}
	if !hit.IsEmitter() {
		return materialSample{}
	}
	ms.contribution = weight.MultiplyVec(emitted(next, &hit))
	ms.emitterPdf = lightPdf(scene, next, &hit)
	return ms
}

// lightPdf is the density with which light sampling from ray.Origin produces the
// direction of ray, ending at hit or escaping when hit is nil
func lightPdf(scene core.Scene, ray core.Ray, hit *core.Intersection) float64 {
	if hit == nil {
		env := scene.GetEnvironmentEmitter()
		if env == nil {
			return 0
		}
		rec := core.NewEnvironmentRecord(env, ray)
		return env.PDF(&rec) * scene.PdfEmitter(env)
	}
	if !hit.IsEmitter() {
		return 0
	}
	rec := core.NewEmitterHitRecord(hit.Emitter, ray.Origin, hit.Point, hit.Normal(), hit.UV)
	return hit.Emitter.PDF(&rec) * scene.PdfEmitter(hit.Emitter)
}

// occluded reports whether something lies between origin and the sampled light point
func occluded(scene core.Scene, origin core.Vec3, rec *core.EmitterQueryRecord) bool {
	shadow, hit := scene.RayIntersect(core.NewRay(origin, rec.Wi))
	return hit && shadow.T < rec.Distance-ShadowEpsilon
}

// emitted returns the radiance an emissive surface sends back along ray
func emitted(ray core.Ray, its *core.Intersection) core.Vec3 {
	if !its.IsEmitter() {
		return core.Vec3{}
	}
	rec := core.NewEmitterHitRecord(its.Emitter, ray.Origin, its.Point, its.Normal(), its.UV)
	return finite(its.Emitter.Eval(&rec))
}

// background returns the radiance of an escaped ray, zero for invalid samples
func background(scene core.Scene, ray core.Ray) core.Vec3 {
	return finite(scene.GetBackground(ray))
}

// incoming returns the local direction from the hit point back along ray
func incoming(ray core.Ray, its *core.Intersection) core.Vec3 {
	return its.ToLocal(ray.Direction.Negate().Normalize())
}

func finite(v core.Vec3) core.Vec3 {
	if !v.IsFinite() {
		return core.Vec3{}
	}
	return v
}
