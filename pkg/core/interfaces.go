package core

import "math"

// Logger interface for light transport logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Validator is implemented by scene elements that can detect setup defects before rendering
type Validator interface {
	Validate() error
}

// Measure tells whether a sampled BSDF lobe is smooth or a delta function
type Measure int

const (
	MeasureUnknown    Measure = iota
	MeasureSolidAngle         // smooth lobe, density w.r.t. solid angle
	MeasureDiscrete           // specular/delta lobe
)

// BSDFQueryRecord carries the directions of a BSDF query in the local shading frame.
// Wi points away from the surface toward the previous path vertex; Wo is the
// other direction (sampled or evaluated).
type BSDFQueryRecord struct {
	Wi      Vec3
	Wo      Vec3
	UV      Vec2
	Eta     float64 // relative index of refraction of a sampled refraction event
	Measure Measure
}

// NewBSDFSampleRecord prepares a record for BSDF sampling
func NewBSDFSampleRecord(wi Vec3, uv Vec2) BSDFQueryRecord {
	return BSDFQueryRecord{Wi: wi, UV: uv, Eta: 1, Measure: MeasureUnknown}
}

// NewBSDFEvalRecord prepares a record for evaluating a known pair of directions
func NewBSDFEvalRecord(wi, wo Vec3, uv Vec2) BSDFQueryRecord {
	return BSDFQueryRecord{Wi: wi, Wo: wo, UV: uv, Eta: 1, Measure: MeasureSolidAngle}
}

// IsSpecular returns true if the sampled lobe is a delta function
func (r BSDFQueryRecord) IsSpecular() bool {
	return r.Measure == MeasureDiscrete
}

// BSDF describes how a surface scatters light
type BSDF interface {
	// Sample chooses Wo and returns eval*|cosθo|/pdf (the sample weight).
	// It sets rec.Measure. A zero return means the sample was absorbed.
	Sample(rec *BSDFQueryRecord, sample Vec2) Vec3

	// Eval returns the BSDF value (without the cosine term) for rec.Wi, rec.Wo
	Eval(rec *BSDFQueryRecord) Vec3

	// PDF returns the solid-angle density of sampling rec.Wo given rec.Wi
	PDF(rec *BSDFQueryRecord) float64
}

// EmitterType classifies emitters for sampling decisions
type EmitterType int

const (
	EmitterArea EmitterType = iota
	EmitterPoint
	EmitterEnvironment
)

// EmitterQueryRecord describes a query against an emitter from a reference point
type EmitterQueryRecord struct {
	Emitter  Emitter
	Ref      Vec3    // reference (shading) point
	Point    Vec3    // point on the emitter
	Normal   Vec3    // emitter normal at Point
	Wi       Vec3    // unit direction from Ref toward Point
	UV       Vec2    // surface coordinates on the emitter
	PDF      float64 // solid-angle density of the sample
	Distance float64 // distance from Ref to Point
}

// NewEmitterQueryRecord prepares a record for sampling an emitter from ref
func NewEmitterQueryRecord(ref Vec3) EmitterQueryRecord {
	return EmitterQueryRecord{Ref: ref}
}

// NewEmitterHitRecord describes an emitter surface point reached from ref
func NewEmitterHitRecord(emitter Emitter, ref, point, normal Vec3, uv Vec2) EmitterQueryRecord {
	toLight := point.Subtract(ref)
	distance := toLight.Length()
	var wi Vec3
	if distance > 0 {
		wi = toLight.Divide(distance)
	}
	return EmitterQueryRecord{
		Emitter:  emitter,
		Ref:      ref,
		Point:    point,
		Normal:   normal,
		Wi:       wi,
		UV:       uv,
		Distance: distance,
	}
}

// NewEnvironmentRecord describes an escaped ray seen by an environment emitter
func NewEnvironmentRecord(emitter Emitter, ray Ray) EmitterQueryRecord {
	return EmitterQueryRecord{
		Emitter:  emitter,
		Ref:      ray.Origin,
		Wi:       ray.Direction.Normalize(),
		Distance: math.Inf(1),
	}
}

// Emitter is a light source
type Emitter interface {
	Type() EmitterType

	// Sample picks a point on the emitter as seen from rec.Ref and fills in
	// Point, Normal, Wi, Distance and PDF. Returns emitted radiance toward Ref.
	Sample(rec *EmitterQueryRecord, sample Vec2, u float64) Vec3

	// Eval returns emitted radiance for a fully described record
	Eval(rec *EmitterQueryRecord) Vec3

	// PDF returns the solid-angle density of sampling rec from rec.Ref
	PDF(rec *EmitterQueryRecord) float64

	// TraceRay emits a ray from the light together with its initial energy
	// (already divided by the position and direction densities).
	TraceRay(sampler Sampler) (Ray, Vec3)
}

// IsDeltaEmitter reports whether the emitter cannot be hit by a ray
func IsDeltaEmitter(emitter Emitter) bool {
	return emitter.Type() == EmitterPoint
}

// Intersection contains information about a ray-scene intersection
type Intersection struct {
	T       float64 // Parameter t along the ray
	Point   Vec3    // Point of intersection
	UV      Vec2    // Surface coordinates
	Frame   Frame   // Shading frame, Frame.N is the outward surface normal
	BSDF    BSDF    // Material of the hit surface (nil for pure emitters)
	Emitter Emitter // Emitter attached to the hit surface, if any
}

// Normal returns the shading normal
func (its *Intersection) Normal() Vec3 {
	return its.Frame.N
}

// IsEmitter reports whether the hit surface emits light
func (its *Intersection) IsEmitter() bool {
	return its.Emitter != nil
}

// ToLocal converts a world direction into the shading frame
func (its *Intersection) ToLocal(v Vec3) Vec3 {
	return its.Frame.ToLocal(v)
}

// ToWorld converts a shading-frame direction into world space
func (its *Intersection) ToWorld(v Vec3) Vec3 {
	return its.Frame.ToWorld(v)
}

// Scene is everything a light transport integrator needs from the scene container
type Scene interface {
	// RayIntersect finds the closest surface along the ray
	RayIntersect(ray Ray) (Intersection, bool)

	// SampleEmitter picks one light with the scene's light-selection density
	SampleEmitter(u float64) (Emitter, float64)

	// SampleDirect is SampleEmitter that also reports the chosen light's index
	SampleDirect(u float64) (Emitter, float64, int)

	// PdfEmitter returns the selection probability of the given light
	PdfEmitter(emitter Emitter) float64

	// GetBackground returns radiance for rays that escape the scene
	GetBackground(ray Ray) Vec3

	// GetEnvironmentEmitter returns the environment light, or nil
	GetEnvironmentEmitter() Emitter

	GetLights() []Emitter
	GetSampler() Sampler
}
