package scene

import (
	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/geometry"
	"github.com/df07/go-light-transport/pkg/material"
)

// NewCausticScene creates a glass sphere lit by a point light above a diffuse
// floor, so that light focused through the sphere lands on the floor
func NewCausticScene(seed int64) *Scene {
	s := NewScene(seed)

	floor := material.NewTexturedDiffuse(material.NewCheckerboard(8,
		core.NewVec3(0.8, 0.8, 0.8),
		core.NewVec3(0.6, 0.6, 0.6),
	))
	// u × v = +Y
	s.AddShape(
		geometry.NewQuad(core.NewVec3(-4, 0, -4), core.NewVec3(0, 0, 8), core.NewVec3(8, 0, 0), floor),
		geometry.NewSphere(core.NewVec3(0, 1.5, 0), 1, material.NewDielectric(1.5)),
	)
	s.AddPointLight(core.NewVec3(0, 5, 0), core.NewVec3(40, 40, 40))

	return s
}
