// Package navigate owns the interactive state of a fractal session.
//
// A host feeds input as [Event] values to [Controller.Handle]. Each event is
// interpreted into zero or more [Command] values which the controller then
// applies to its viewport, family and preview state. The returned [Outcome]
// tells the host whether the frame changed, whether a save was requested and
// carries a short status line for non-fatal conditions such as the zoom limit.
//
// # Interaction
//
//	left drag     zoom to the selected rectangle
//	left click    centre on the point and zoom in
//	+ / -         zoom in / out
//	arrows        pan
//	j / m         switch to Julia (constant under the mouse) / Mandelbrot
//	p             toggle the Julia preview
//	s             save the current frame
//	1-9 0 q w e r Julia presets A..N
//
// # Frames
//
// [Controller.Frame] recomputes the escape-count grid and colours it only when
// a command changed the view. A frame is always computed in full before it is
// returned; on timeout the previous complete frame is kept.
package navigate
