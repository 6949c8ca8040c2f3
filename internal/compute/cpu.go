package compute

import (
	"context"
	"runtime"
	"sync"
)

type CPUBackend struct {
	workers int
	band    int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{
		workers: workers,
		band:    DefaultBand,
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Rows(ctx context.Context, n int, fn func(start, end int)) error {
	if n <= c.band || c.workers == 1 {
		return serialRows(ctx, n, c.band, fn)
	}

	work := make(chan [2]int)
	go func() {
		defer close(work)
		for _, b := range bands(n, c.band) {
			select {
			case work <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(c.workers)
	for w := 0; w < c.workers; w++ {
		go func() {
			defer wg.Done()
			for b := range work {
				if ctx.Err() != nil {
					continue
				}
				fn(b[0], b[1])
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}
