// Package analysis summarises escape-count grids.
//
//   - [Histogram]: escaped pixels bucketed by escape count
//   - [InteriorRatio]: share of pixels that never escaped
//   - [Summarize]: both of the above plus the observed maximum
//
// A frame dominated by interior pixels usually means the view sits inside
// the set and more iterations will not reveal detail:
//
//	s := analysis.Summarize(grid, 40)
//	if s.Interior > 0.9 {
//	    // zoom elsewhere
//	}
package analysis
