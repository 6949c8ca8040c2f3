package palette

import (
	"fmt"
	"image"
)

// MaxObserved returns the largest count in counts.
func MaxObserved(counts []uint32) uint32 {
	var m uint32
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Index maps a count to a palette slot for a frame whose largest count is
// maxObserved: floor(count * (n-1) / maxObserved), clamped to [0, n-1].
// Integer arithmetic keeps the frame maximum on slot n-1 exactly.
func Index(count, maxObserved uint32, n int) int {
	if maxObserved == 0 || n <= 1 {
		return 0
	}
	i := uint64(count) * uint64(n-1) / uint64(maxObserved)
	if i > uint64(n-1) {
		return n - 1
	}
	return int(i)
}

// Apply colours a row-major count grid of width x height.
func (p Palette) Apply(counts []uint32, width, height int) (*image.RGBA, error) {
	if len(p) == 0 {
		return nil, ErrEmpty
	}
	if len(counts) != width*height {
		return nil, fmt.Errorf("palette: %d counts for a %dx%d frame", len(counts), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	maxObserved := MaxObserved(counts)
	for i, c := range counts {
		col := p[Index(c, maxObserved, len(p))]
		o := i * 4
		img.Pix[o+0] = col.R
		img.Pix[o+1] = col.G
		img.Pix[o+2] = col.B
		img.Pix[o+3] = col.A
	}
	return img, nil
}
