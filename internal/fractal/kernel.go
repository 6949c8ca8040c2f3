// Package fractal evaluates escape-time recurrences over a viewport.
package fractal

import (
	"context"
	"fmt"

	"github.com/san-kum/fractalscope/internal/compute"
	"github.com/san-kum/fractalscope/internal/viewport"
)

// Bailout is the escape radius. Orbits are compared on squared magnitude.
const Bailout = 2.0

// DefaultMaxIterations bounds both families unless configured otherwise.
const DefaultMaxIterations = 1024

type Params struct {
	Bounds        viewport.Bounds
	Family        Family
	MaxIterations int
}

func (p Params) Validate() error {
	if p.Bounds.Width <= 0 || p.Bounds.Height <= 0 {
		return fmt.Errorf("%w: frame %dx%d", ErrInvalidParams, p.Bounds.Width, p.Bounds.Height)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	}
	if p.Family == nil {
		return fmt.Errorf("%w: no family", ErrInvalidParams)
	}
	return nil
}

// Escape iterates z -> z*z + c at most maxIterations times and returns the
// 0-based index of the first step whose result lies outside the bailout
// radius, or maxIterations if none did.
func Escape(z, c complex128, maxIterations int) int {
	zr, zi := real(z), imag(z)
	cr, ci := real(c), imag(c)
	for n := 0; n < maxIterations; n++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if zr*zr+zi*zi > Bailout*Bailout {
			return n
		}
	}
	return maxIterations
}

// Compute evaluates p.Family for every pixel of p.Bounds. The result depends
// only on p: the backend changes how rows are scheduled, never their values.
// A nil backend runs serially. On cancellation the partial grid is dropped.
func Compute(ctx context.Context, backend compute.Backend, p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		backend = compute.NewSerialBackend()
	}

	var row func(g *Grid, y int)
	switch f := p.Family.(type) {
	case Mandelbrot:
		row = func(g *Grid, y int) {
			for x := 0; x < g.Width; x++ {
				c := p.Bounds.PixelToPlane(float64(x), float64(y))
				g.Set(x, y, uint32(Escape(0, c, p.MaxIterations)))
			}
		}
	case Julia:
		row = func(g *Grid, y int) {
			for x := 0; x < g.Width; x++ {
				z := p.Bounds.PixelToPlane(float64(x), float64(y))
				g.Set(x, y, uint32(Escape(z, f.C, p.MaxIterations)))
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownFamily, p.Family)
	}

	g := NewGrid(p.Bounds.Width, p.Bounds.Height, p.MaxIterations)
	err := backend.Rows(ctx, g.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row(g, y)
		}
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
