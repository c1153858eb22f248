// Package photon stores light particles deposited by the photon-mapping emission pass
// and answers the spatial queries used for density estimation.
package photon

import "github.com/df07/go-light-transport/pkg/core"

// Photon is a packet of light energy deposited on a surface
type Photon struct {
	Position   core.Vec3 // Deposit point
	Direction  core.Vec3 // Direction of travel when it arrived
	Energy     core.Vec3 // Carried power (non-negative, unbounded)
	Normal     core.Vec3 // Surface normal at the deposit point
	LightIndex int       // Index of the emitter that produced it
}

// NewPhoton creates a photon record
func NewPhoton(position, direction, energy, normal core.Vec3, lightIndex int) Photon {
	return Photon{
		Position:   position,
		Direction:  direction,
		Energy:     energy,
		Normal:     normal,
		LightIndex: lightIndex,
	}
}
