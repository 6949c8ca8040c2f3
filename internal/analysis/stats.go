package analysis

import (
	"github.com/san-kum/fractalscope/internal/fractal"
)

// Histogram buckets the escaped pixels of g into at most bins buckets of equal
// width over [0, MaxIterations). Interior pixels are not counted.
func Histogram(g *fractal.Grid, bins int) []float64 {
	if g == nil || g.MaxIterations <= 0 {
		return nil
	}
	if bins <= 0 || bins > g.MaxIterations {
		bins = g.MaxIterations
	}
	width := (g.MaxIterations + bins - 1) / bins
	bins = (g.MaxIterations + width - 1) / width

	hist := make([]float64, bins)
	for _, c := range g.Counts {
		if int(c) >= g.MaxIterations {
			continue
		}
		hist[int(c)/width]++
	}
	return hist
}

// InteriorRatio is the fraction of pixels whose orbit never escaped.
func InteriorRatio(g *fractal.Grid) float64 {
	if g == nil || len(g.Counts) == 0 {
		return 0
	}
	interior := 0
	for _, c := range g.Counts {
		if int(c) >= g.MaxIterations {
			interior++
		}
	}
	return float64(interior) / float64(len(g.Counts))
}

type Summary struct {
	Pixels      int
	MaxObserved uint32
	// MeanEscape averages the escaped pixels only.
	MeanEscape float64
	Interior   float64
	Histogram  []float64
}

func Summarize(g *fractal.Grid, bins int) Summary {
	if g == nil {
		return Summary{}
	}
	s := Summary{
		Pixels:      len(g.Counts),
		MaxObserved: g.Max(),
		Interior:    InteriorRatio(g),
		Histogram:   Histogram(g, bins),
	}

	var sum float64
	escaped := 0
	for _, c := range g.Counts {
		if int(c) < g.MaxIterations {
			sum += float64(c)
			escaped++
		}
	}
	if escaped > 0 {
		s.MeanEscape = sum / float64(escaped)
	}
	return s
}
