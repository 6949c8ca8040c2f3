package navigate

import (
	"context"
	"image"

	"github.com/san-kum/fractalscope/internal/compute"
	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/palette"
	"github.com/san-kum/fractalscope/internal/viewport"
)

type previewState struct {
	enabled bool
	dirty   bool
	img     *image.RGBA

	gen     uint64
	cancel  context.CancelFunc
	results chan previewResult
}

type previewResult struct {
	gen uint64
	img *image.RGBA
}

func (p *previewState) toggle() {
	p.enabled = !p.enabled
	p.dirty = p.enabled
	if !p.enabled {
		p.stop()
		p.img = nil
	}
}

func (p *previewState) stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// start supersedes any running preview with a new one.
func (p *previewState) start(ctx context.Context, b compute.Backend, pal palette.Palette, params fractal.Params) {
	p.stop()
	if p.results == nil {
		p.results = make(chan previewResult, 1)
	}
	p.gen++
	gen, results := p.gen, p.results

	ctx, p.cancel = context.WithCancel(ctx)
	go func() {
		_, img, err := render(ctx, b, pal, params)
		if err != nil {
			return
		}
		select {
		case results <- previewResult{gen: gen, img: img}:
		case <-ctx.Done():
		}
	}()
}

// collect keeps the newest finished preview and drops superseded ones.
func (p *previewState) collect() {
	for {
		select {
		case r := <-p.results:
			if r.gen == p.gen {
				p.img = r.img
			}
		default:
			return
		}
	}
}

// PreviewParams frames a Julia set on a fixed PreviewSize square spanning
// [-2, 2] on both axes, using the plane point under the mouse as constant.
func (c *Controller) PreviewParams() fractal.Params {
	size := c.opts.PreviewSize
	constant := c.view.MouseToPlane(float64(c.mouse.X), float64(c.mouse.Y))
	return fractal.Params{
		Bounds:        viewport.NewBounds(size, size, 0, 4/float64(size)),
		Family:        fractal.Julia{C: constant},
		MaxIterations: c.maxIterations,
	}
}

// Preview returns the Julia preview image, or nil when the preview is off or
// the session is not showing the Mandelbrot set. The main view is never
// touched. With AsyncPreview the newest finished image is returned and a
// newer mouse position cancels any preview still running.
func (c *Controller) Preview(ctx context.Context) (*image.RGBA, error) {
	if !c.preview.enabled {
		return nil, nil
	}
	if _, ok := c.family.(fractal.Mandelbrot); !ok {
		return nil, nil
	}

	c.preview.collect()
	if !c.preview.dirty {
		return c.preview.img, nil
	}
	c.preview.dirty = false

	params := c.PreviewParams()
	if c.opts.AsyncPreview {
		c.preview.start(ctx, c.backend, c.palette, params)
		return c.preview.img, nil
	}

	_, img, err := render(ctx, c.backend, c.palette, params)
	if err != nil {
		return c.preview.img, err
	}
	c.preview.img = img
	return img, nil
}

// Close stops any preview still being computed.
func (c *Controller) Close() {
	c.preview.stop()
}
