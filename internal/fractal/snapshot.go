package fractal

// Snapshot describes the view a frame was rendered from. It is what saved
// frames record next to the image.
type Snapshot struct {
	Family        Family
	Center        complex128
	Scale         float64
	Width, Height int
	MaxIterations int
}
