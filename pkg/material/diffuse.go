package material

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// Diffuse is a two-sided Lambertian reflector: light leaves on the same side it arrived
type Diffuse struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewDiffuse creates a diffuse material with solid color
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: NewSolidColor(albedo)}
}

// NewTexturedDiffuse creates a diffuse material with a texture
func NewTexturedDiffuse(albedo ColorSource) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Sample draws a cosine-weighted direction on the side of Wi. The weight
// eval·|cosθ|/pdf reduces to the albedo.
func (d *Diffuse) Sample(rec *core.BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	if core.CosTheta(rec.Wi) == 0 {
		return core.Vec3{}
	}

	rec.Measure = core.MeasureSolidAngle
	rec.Eta = 1
	rec.Wo = core.SquareToCosineHemisphere(sample)
	if core.CosTheta(rec.Wi) < 0 {
		rec.Wo.Z = -rec.Wo.Z
	}
	if core.CosTheta(rec.Wo) == 0 {
		return core.Vec3{}
	}
	return d.Albedo.Evaluate(rec.UV)
}

// Eval returns albedo/π when both directions lie on the same side
func (d *Diffuse) Eval(rec *core.BSDFQueryRecord) core.Vec3 {
	if rec.Measure != core.MeasureSolidAngle || !sameSide(rec.Wi, rec.Wo) {
		return core.Vec3{}
	}
	return d.Albedo.Evaluate(rec.UV).Multiply(1.0 / math.Pi)
}

// PDF returns |cosθo|/π when both directions lie on the same side
func (d *Diffuse) PDF(rec *core.BSDFQueryRecord) float64 {
	if rec.Measure != core.MeasureSolidAngle || !sameSide(rec.Wi, rec.Wo) {
		return 0
	}
	return math.Abs(core.CosTheta(rec.Wo)) / math.Pi
}

func sameSide(wi, wo core.Vec3) bool {
	return core.CosTheta(wi)*core.CosTheta(wo) > 0
}
