package fractal

// Grid holds one escape count per pixel, row-major, row 0 first.
// Counts lie in [0, MaxIterations]; MaxIterations marks a pixel that never
// escaped.
type Grid struct {
	Width, Height int
	MaxIterations int
	Counts        []uint32
}

func NewGrid(width, height, maxIterations int) *Grid {
	return &Grid{
		Width:         width,
		Height:        height,
		MaxIterations: maxIterations,
		Counts:        make([]uint32, width*height),
	}
}

func (g *Grid) At(x, y int) uint32 {
	return g.Counts[y*g.Width+x]
}

func (g *Grid) Set(x, y int, n uint32) {
	g.Counts[y*g.Width+x] = n
}

// Max returns the largest count present in the grid.
func (g *Grid) Max() uint32 {
	var m uint32
	for _, c := range g.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Escaped reports whether the pixel's orbit left the bailout radius.
func (g *Grid) Escaped(x, y int) bool {
	return int(g.At(x, y)) < g.MaxIterations
}
