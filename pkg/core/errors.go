package core

import "errors"

var (
	// ErrUnattachedEmitter is returned when an area emitter has no shape to emit from
	ErrUnattachedEmitter = errors.New("there is no shape attached to this area light")

	// ErrMissingBSDF is returned when a non-emitting surface has no material
	ErrMissingBSDF = errors.New("surface has no BSDF")
)
