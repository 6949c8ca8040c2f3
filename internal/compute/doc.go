// Package compute provides the execution backends for per-pixel kernels.
//
// A backend splits the rows of a frame into disjoint bands and runs a
// callback over each band:
//
//   - CPU: bands are pulled from a channel by one goroutine per core
//   - Serial: bands run one after another on the calling goroutine
//
// Both return only after every band has finished, so callers never observe
// a partially written frame.
//
//	backend := compute.NewCPUBackend(0)
//	err := backend.Rows(ctx, height, func(start, end int) { ... })
package compute
