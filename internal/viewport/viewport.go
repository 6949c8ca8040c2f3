// Package viewport maps the pixel grid of a window onto a rectangle of the
// complex plane.
//
// A [Viewport] is defined by its pixel size, the plane point shown at the
// centre of the window and the plane distance covered by one pixel. Its
// corners are always derived from those three values.
package viewport

import (
	"image"
	"math"
)

// DefaultZoomFactor is the scale divisor used by ZoomToPoint and by the
// zoom-in / zoom-out keys.
const DefaultZoomFactor = 2.0

// DefaultCenter frames the whole Mandelbrot set.
var DefaultCenter = complex(-0.75, 0)

// DefaultScale is the start-up plane units per pixel: 3 units across the
// shorter window axis.
func DefaultScale(width, height int) float64 {
	return 3 / float64(min(width, height))
}

type Viewport struct {
	width, height int
	center        complex128
	scale         float64

	corner1 complex128 // lower-left
	corner2 complex128 // upper-right
}

// New returns the start-up viewport for a width x height window.
func New(width, height int) *Viewport {
	return NewAt(width, height, DefaultCenter, DefaultScale(width, height))
}

func NewAt(width, height int, center complex128, scale float64) *Viewport {
	v := &Viewport{width: width, height: height, center: center, scale: scale}
	v.updateCorners()
	return v
}

func (v *Viewport) Width() int         { return v.width }
func (v *Viewport) Height() int        { return v.height }
func (v *Viewport) Center() complex128 { return v.center }
func (v *Viewport) Scale() float64     { return v.scale }
func (v *Viewport) Size() image.Point  { return image.Pt(v.width, v.height) }
func (v *Viewport) Corners() (complex128, complex128) {
	return v.corner1, v.corner2
}

// Bounds returns a read-only snapshot of the current mapping.
func (v *Viewport) Bounds() Bounds {
	return Bounds{
		Width:   v.width,
		Height:  v.height,
		Scale:   v.scale,
		Corner1: v.corner1,
		Corner2: v.corner2,
	}
}

func (v *Viewport) PixelToPlane(px, py float64) complex128 {
	return v.Bounds().PixelToPlane(px, py)
}

func (v *Viewport) PlaneToPixelFraction(p complex128) (fx, fy float64) {
	return v.Bounds().PlaneToPixelFraction(p)
}

func (v *Viewport) MouseToPlane(mx, my float64) complex128 {
	return v.Bounds().MouseToPlane(mx, my)
}

func (v *Viewport) updateCorners() {
	w, h := float64(v.width), float64(v.height)
	v.corner1 = v.center - complex(w/2*v.scale, h/2*v.scale)
	v.corner2 = v.corner1 + complex(w*v.scale, h*v.scale)
}

// MoveCenter pans by a pixel offset. Like the zooms it refuses, with
// ErrZoomLimit, a centre whose neighbouring pixels would collapse.
func (v *Viewport) MoveCenter(dx, dy float64) error {
	return v.commit(v.center+complex(dx*v.scale, dy*v.scale), v.scale)
}

// Reset replaces centre and scale, e.g. for a mode's home framing.
func (v *Viewport) Reset(center complex128, scale float64) {
	v.center = center
	v.scale = scale
	v.updateCorners()
}

func (v *Viewport) ZoomIn(factor float64) error {
	if !validFactor(factor) {
		return ErrBadFactor
	}
	return v.commit(v.center, v.scale/factor)
}

func (v *Viewport) ZoomOut(factor float64) error {
	if !validFactor(factor) {
		return ErrBadFactor
	}
	return v.commit(v.center, v.scale*factor)
}

// ZoomToRect pans to the middle of rect and zooms so the whole rectangle fits
// the window without distortion. The tighter of the two axis ratios wins, so
// one axis may end up with a margin.
func (v *Viewport) ZoomToRect(rect image.Rectangle) error {
	rect = rect.Canon()
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return ErrDegenerateRect
	}
	w, h := float64(v.width), float64(v.height)
	midX := float64(rect.Min.X+rect.Max.X) / 2
	midY := float64(rect.Min.Y+rect.Max.Y) / 2
	center := v.center + complex((midX-w/2)*v.scale, (midY-h/2)*v.scale)

	ratio := math.Min(w/float64(rect.Dx()), h/float64(rect.Dy()))
	return v.commit(center, v.scale/ratio)
}

// ZoomToPoint centres the view on p and zooms in by DefaultZoomFactor.
func (v *Viewport) ZoomToPoint(p image.Point) error {
	w, h := float64(v.width), float64(v.height)
	center := v.center + complex((float64(p.X)-w/2)*v.scale, (float64(p.Y)-h/2)*v.scale)
	return v.commit(center, v.scale/DefaultZoomFactor)
}

// commit applies a new centre and scale unless the result could not be
// represented, in which case nothing changes.
func (v *Viewport) commit(center complex128, scale float64) error {
	if !Resolvable(center, scale, v.width, v.height) {
		return ErrZoomLimit
	}
	v.center = center
	v.scale = scale
	v.updateCorners()
	return nil
}

// Resolvable reports whether a window of width x height pixels centred at
// center with the given scale still has distinct, finite plane coordinates
// for adjacent pixels.
func Resolvable(center complex128, scale float64, width, height int) bool {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return false
	}
	mag := math.Max(
		math.Abs(real(center))+float64(width)/2*scale,
		math.Abs(imag(center))+float64(height)/2*scale,
	)
	if math.IsInf(mag, 0) || math.IsNaN(mag) {
		return false
	}
	ulp := math.Nextafter(mag, math.Inf(1)) - mag
	return scale > ulp
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
