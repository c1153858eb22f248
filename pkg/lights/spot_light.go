package lights

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// SpotLight represents a directional point spot light with cone angle and falloff
type SpotLight struct {
	position        core.Vec3 // Light position in world space
	direction       core.Vec3 // Normalized direction vector (from -> to)
	intensity       core.Vec3 // Light intensity/color
	cosTotalWidth   float64   // Cosine of total cone angle (outer edge)
	cosFalloffStart float64   // Cosine of falloff start angle (inner cone)
}

// NewSpotLight creates a new spot light
// from: light position
// to: point the light is aimed at
// coneAngleDegrees: total cone angle in degrees
// coneDeltaAngleDegrees: falloff transition angle in degrees
func NewSpotLight(from, to, intensity core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) *SpotLight {
	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	return &SpotLight{
		position:        from,
		direction:       to.Subtract(from).Normalize(),
		intensity:       intensity,
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}
}

func (sl *SpotLight) Type() core.EmitterType {
	return core.EmitterPoint
}

// Sample returns the attenuated intensity over d²
func (sl *SpotLight) Sample(rec *core.EmitterQueryRecord, sample core.Vec2, u float64) core.Vec3 {
	radiance := sampleDelta(sl, rec, sl.position, sl.intensity)
	if radiance.IsZero() {
		return radiance
	}
	return radiance.Multiply(sl.falloff(sl.direction.Dot(rec.Wi.Negate())))
}

// Eval is zero: a ray cannot hit a point
func (sl *SpotLight) Eval(rec *core.EmitterQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is 1 by convention for delta emitters
func (sl *SpotLight) PDF(rec *core.EmitterQueryRecord) float64 {
	return 1
}

// TraceRay emits uniformly inside the cone
func (sl *SpotLight) TraceRay(sampler core.Sampler) (core.Ray, core.Vec3) {
	direction := core.SampleCone(sl.direction, sl.cosTotalWidth, sampler.Get2D())
	energy := sl.intensity.Multiply(sl.falloff(direction.Dot(sl.direction)) / core.UniformConePDF(sl.cosTotalWidth))
	return core.NewRay(sl.position, direction), energy
}

// falloff is 1 inside the inner cone, 0 outside the outer cone,
// and a quartic ramp in between
func (sl *SpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < sl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= sl.cosFalloffStart {
		return 1.0
	}

	delta := (cosAngle - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return delta * delta * delta * delta
}
