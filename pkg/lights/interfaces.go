package lights

import "github.com/df07/go-light-transport/pkg/core"

// Preprocessor is implemented by lights that need the scene bounds before rendering
type Preprocessor interface {
	Preprocess(worldCenter core.Vec3, worldRadius float64) error
}
