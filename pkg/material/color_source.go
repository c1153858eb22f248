package material

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns the color at the given surface coordinates
	Evaluate(uv core.Vec2) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV
func (s *SolidColor) Evaluate(uv core.Vec2) core.Vec3 {
	return s.Color
}

// Checkerboard alternates two colors on a grid in UV space
type Checkerboard struct {
	Color1, Color2 core.Vec3
	Checks         float64 // number of checks along each UV axis
}

// NewCheckerboard creates a checkerboard with the given number of checks per axis
func NewCheckerboard(checks int, color1, color2 core.Vec3) *Checkerboard {
	return &Checkerboard{Color1: color1, Color2: color2, Checks: float64(checks)}
}

// Evaluate returns the color of the check containing uv
func (c *Checkerboard) Evaluate(uv core.Vec2) core.Vec3 {
	x := int(math.Floor(uv.X * c.Checks))
	y := int(math.Floor(uv.Y * c.Checks))
	if (x+y)%2 == 0 {
		return c.Color1
	}
	return c.Color2
}
