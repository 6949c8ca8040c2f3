package viewport

import "errors"

var (
	// ErrZoomLimit indicates float64 can no longer tell neighbouring pixels apart
	// (or the window would overflow), so the zoom was refused and the view left as is.
	ErrZoomLimit = errors.New("viewport: zoom limit reached")

	// ErrDegenerateRect indicates a zoom rectangle with no area.
	ErrDegenerateRect = errors.New("viewport: degenerate zoom rectangle")

	// ErrBadFactor indicates a zoom factor that is not a positive finite number.
	ErrBadFactor = errors.New("viewport: zoom factor must be positive")
)
