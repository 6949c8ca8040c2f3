package fractal

import "errors"

var (
	// ErrInvalidParams indicates an empty frame or a non-positive iteration bound.
	ErrInvalidParams = errors.New("fractal: invalid parameters")

	// ErrUnknownFamily indicates a Family implementation the kernel does not know.
	ErrUnknownFamily = errors.New("fractal: unknown family")
)
