package compute

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by ByName for unrecognised names.
var ErrUnknownBackend = errors.New("compute: unknown backend")

// DefaultBand is the number of rows handed to a worker at a time.
const DefaultBand = 8

type Backend interface {
	Name() string
	Available() bool
	// Rows calls fn over disjoint [start, end) ranges covering [0, n). It
	// returns once every call has finished, or ctx.Err() if the context was
	// cancelled, in which case some ranges may have been skipped.
	Rows(ctx context.Context, n int, fn func(start, end int)) error
	Cleanup()
}

// ByName returns a backend for a configuration value. workers <= 0 means
// one worker per CPU.
func ByName(name string, workers int) (Backend, error) {
	switch name {
	case "", "cpu":
		return NewCPUBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

func bands(n, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}
