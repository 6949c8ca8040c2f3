package viewport

// Bounds is an immutable snapshot of a viewport, safe to hand to workers.
type Bounds struct {
	Width, Height int
	Scale         float64
	Corner1       complex128
	Corner2       complex128
}

// NewBounds builds a snapshot directly, without a Viewport. Used for fixed
// framings such as the Julia preview.
func NewBounds(width, height int, center complex128, scale float64) Bounds {
	return NewAt(width, height, center, scale).Bounds()
}

// PixelToPlane maps a pixel coordinate to the plane. Row 0 maps to the
// smallest imaginary part.
func (b Bounds) PixelToPlane(px, py float64) complex128 {
	return b.Corner1 + complex(px*b.Scale, py*b.Scale)
}

// PlaneToPixelFraction returns where p sits inside the window as fractions of
// width and height. The vertical axis is flipped: fy is 0 at the top edge,
// which shows the largest imaginary part.
func (b Bounds) PlaneToPixelFraction(p complex128) (fx, fy float64) {
	fx = (real(p) - real(b.Corner1)) / (real(b.Corner2) - real(b.Corner1))
	fy = (imag(b.Corner2) - imag(p)) / (imag(b.Corner2) - imag(b.Corner1))
	return fx, fy
}

// MouseToPlane is the inverse of PlaneToPixelFraction for a mouse position
// given in pixels. It is the mapping used to pick Julia constants.
func (b Bounds) MouseToPlane(mx, my float64) complex128 {
	fx := mx / float64(b.Width)
	fy := (float64(b.Height) - my) / float64(b.Height)
	re := real(b.Corner1) + fx*(real(b.Corner2)-real(b.Corner1))
	im := imag(b.Corner1) + fy*(imag(b.Corner2)-imag(b.Corner1))
	return complex(re, im)
}
