package integrator

import "errors"

var (
	// ErrUnknownStrategy is returned by New and Config.Validate for an unregistered strategy name
	ErrUnknownStrategy = errors.New("unknown integrator strategy")

	// ErrInvalidConfig wraps every other configuration fault
	ErrInvalidConfig = errors.New("invalid integrator config")
)
