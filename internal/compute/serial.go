package compute

import "context"

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Rows(ctx context.Context, n int, fn func(start, end int)) error {
	return serialRows(ctx, n, DefaultBand, fn)
}

func serialRows(ctx context.Context, n, band int, fn func(start, end int)) error {
	for _, b := range bands(n, band) {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(b[0], b[1])
	}
	return ctx.Err()
}
