package fractal

import "fmt"

// Family selects which escape-time recurrence is evaluated. The concrete
// types are Mandelbrot and Julia; code branching on a Family switches over
// both.
type Family interface {
	Name() string
	family()
}

// Mandelbrot iterates z -> z*z + c with z0 = 0 and c the pixel's plane point.
type Mandelbrot struct{}

// Julia iterates z -> z*z + C with z0 the pixel's plane point.
type Julia struct {
	C complex128
}

func (Mandelbrot) Name() string { return "mandelbrot" }
func (Julia) Name() string      { return "julia" }

func (Mandelbrot) family() {}
func (Julia) family()      {}

func (Mandelbrot) String() string { return "mandelbrot" }

func (j Julia) String() string {
	return fmt.Sprintf("julia(%g%+gi)", real(j.C), imag(j.C))
}
