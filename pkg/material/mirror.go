package material

import (
	"github.com/df07/go-light-transport/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	Albedo core.Vec3
}

// NewMirror creates a mirror that reflects the given fraction of light
func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

// Sample reflects Wi about the normal. Light arriving from behind is absorbed.
func (m *Mirror) Sample(rec *core.BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	if core.CosTheta(rec.Wi) <= 0 {
		return core.Vec3{}
	}
	rec.Wo = reflect(rec.Wi)
	rec.Measure = core.MeasureDiscrete
	rec.Eta = 1
	return m.Albedo
}

// Eval is zero: a delta lobe has no value for an arbitrary pair of directions
func (m *Mirror) Eval(rec *core.BSDFQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for the same reason
func (m *Mirror) PDF(rec *core.BSDFQueryRecord) float64 {
	return 0
}

// reflect mirrors a local direction about +Z
func reflect(v core.Vec3) core.Vec3 {
	return core.NewVec3(-v.X, -v.Y, v.Z)
}
