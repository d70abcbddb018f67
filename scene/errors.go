package scene

import "errors"

var (
	// ErrUnsupportedContext means the host cannot provide a usable render
	// surface. Initialize allocates nothing when it returns it.
	ErrUnsupportedContext = errors.New("scene: unsupported rendering context")

	ErrAlreadyInitialized = errors.New("scene: already initialized")
	ErrTornDown           = errors.New("scene: torn down")
)
