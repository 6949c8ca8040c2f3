package navigate

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/san-kum/fractalscope/internal/compute"
	"github.com/san-kum/fractalscope/internal/config"
	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/palette"
	"github.com/san-kum/fractalscope/internal/viewport"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

const (
	StatusZoomLimit = "zoom limit reached"
	StatusTimeout   = "render timed out, showing previous frame"
)

type Options struct {
	MaxIterations    int
	ZoomFactor       float64
	Debounce         time.Duration
	MinSelection     int
	Preview          bool
	PreviewSize      int
	PresetIterations bool
	RenderTimeout    time.Duration
	// AsyncPreview computes previews on a goroutine; Preview then returns the
	// latest finished image instead of blocking.
	AsyncPreview bool
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxIterations:    cfg.MaxIterations,
		ZoomFactor:       cfg.ZoomFactor,
		Debounce:         cfg.Debounce,
		MinSelection:     cfg.MinSelection,
		Preview:          cfg.Preview,
		PreviewSize:      cfg.PreviewSize,
		PresetIterations: cfg.PresetIterations,
		RenderTimeout:    cfg.RenderTimeout,
	}
}

// Controller is one interactive session. It is not safe for concurrent use;
// the host calls it from its render loop.
type Controller struct {
	opts    Options
	backend compute.Backend
	palette palette.Palette
	clock   func() time.Time

	view          *viewport.Viewport
	family        fractal.Family
	maxIterations int

	state     State
	dragStart image.Point
	mouse     image.Point
	now       time.Time
	lastZoom  time.Time

	dirty     bool
	grid      *fractal.Grid
	frame     *image.RGBA
	frameView fractal.Snapshot
	status    string

	preview previewState
}

// New starts a Mandelbrot session on the default framing. A nil backend
// evaluates serially.
func New(width, height int, opts Options, backend compute.Backend, pal palette.Palette) *Controller {
	if opts.ZoomFactor <= 0 {
		opts.ZoomFactor = viewport.DefaultZoomFactor
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = config.DefaultPreviewSize
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = fractal.DefaultMaxIterations
	}
	if backend == nil {
		backend = compute.NewSerialBackend()
	}
	if len(pal) == 0 {
		pal = palette.HueSweep(opts.MaxIterations + 1)
	}
	c := &Controller{
		opts:          opts,
		backend:       backend,
		palette:       pal,
		clock:         time.Now,
		view:          viewport.New(width, height),
		family:        fractal.Mandelbrot{},
		maxIterations: opts.MaxIterations,
		dirty:         true,
	}
	c.preview.enabled = opts.Preview
	c.preview.dirty = opts.Preview
	return c
}

// SetClock replaces the time source used for events without a timestamp.
func (c *Controller) SetClock(clock func() time.Time) { c.clock = clock }

func (c *Controller) Viewport() *viewport.Viewport { return c.view }
func (c *Controller) Family() fractal.Family       { return c.family }
func (c *Controller) State() State                 { return c.state }
func (c *Controller) MaxIterations() int           { return c.maxIterations }
func (c *Controller) Status() string               { return c.status }
func (c *Controller) Mouse() image.Point           { return c.mouse }
func (c *Controller) PreviewEnabled() bool         { return c.preview.enabled }

// Title names the current family for window captions.
func (c *Controller) Title() string {
	switch c.family.(type) {
	case fractal.Julia:
		return "Julia"
	default:
		return "Mandelbrot"
	}
}

// Selection returns the normalised drag rectangle while dragging.
func (c *Controller) Selection() (image.Rectangle, bool) {
	if c.state != Dragging {
		return image.Rectangle{}, false
	}
	return image.Rectangle{Min: c.dragStart, Max: c.mouse}.Canon(), true
}

// Handle interprets one input event and applies the resulting commands.
func (c *Controller) Handle(ev Event) Outcome {
	c.advance(ev.at())

	var out Outcome
	for _, cmd := range c.interpret(ev) {
		out = out.Merge(c.Apply(cmd))
	}
	return out
}

func (c *Controller) advance(t time.Time) {
	if t.IsZero() {
		t = c.clock()
	}
	if t.After(c.now) {
		c.now = t
	}
}

func (c *Controller) interpret(ev Event) []Command {
	switch e := ev.(type) {
	case PointerMove:
		c.mouse = e.Pos
		if c.preview.enabled {
			c.preview.dirty = true
		}
	case PointerDown:
		if e.Button != ButtonLeft {
			return nil
		}
		c.mouse = e.Pos
		if c.state == Idle && c.now.Sub(c.lastZoom) > c.opts.Debounce {
			c.state = Dragging
			c.dragStart = e.Pos
		}
	case PointerUp:
		if e.Button != ButtonLeft || c.state != Dragging {
			return nil
		}
		c.mouse = e.Pos
		c.state = Idle
		c.lastZoom = c.now

		w := abs(c.dragStart.X - e.Pos.X)
		h := abs(c.dragStart.Y - e.Pos.Y)
		if w > c.opts.MinSelection && h > c.opts.MinSelection {
			return []Command{ZoomRect{Rect: image.Rectangle{Min: c.dragStart, Max: e.Pos}.Canon()}}
		}
		return []Command{ZoomPoint{Point: c.dragStart}}
	case KeyDown:
		if cmd := keyCommand(e); cmd != nil {
			return []Command{cmd}
		}
	case Tick:
	}
	return nil
}

func keyCommand(e KeyDown) Command {
	switch e.Action {
	case ActionZoomIn:
		return ZoomIn{}
	case ActionZoomOut:
		return ZoomOut{}
	case ActionSave:
		return SaveFrame{}
	case ActionJulia:
		return SetMode{Target: fractal.Julia{}}
	case ActionMandelbrot:
		return SetMode{Target: fractal.Mandelbrot{}}
	case ActionTogglePreview:
		return TogglePreview{}
	case ActionPreset:
		return SelectPreset{Index: e.Preset}
	case ActionPanLeft:
		return Pan{DX: -PanStep}
	case ActionPanRight:
		return Pan{DX: PanStep}
	case ActionPanUp:
		return Pan{DY: -PanStep}
	case ActionPanDown:
		return Pan{DY: PanStep}
	}
	return nil
}

// Apply performs a single command.
func (c *Controller) Apply(cmd Command) Outcome {
	switch cmd := cmd.(type) {
	case ZoomRect:
		r := cmd.Rect.Canon()
		if r.Dx() <= c.opts.MinSelection || r.Dy() <= c.opts.MinSelection {
			return c.zoomResult(c.view.ZoomToPoint(r.Min))
		}
		return c.zoomResult(c.view.ZoomToRect(r))
	case ZoomPoint:
		return c.zoomResult(c.view.ZoomToPoint(cmd.Point))
	case ZoomIn:
		return c.zoomResult(c.view.ZoomIn(c.opts.ZoomFactor))
	case ZoomOut:
		return c.zoomResult(c.view.ZoomOut(c.opts.ZoomFactor))
	case Pan:
		return c.zoomResult(c.view.MoveCenter(cmd.DX, cmd.DY))
	case SetMode:
		return c.setMode(cmd.Target)
	case SelectPreset:
		return c.selectPreset(cmd.Index)
	case TogglePreview:
		c.preview.toggle()
		return Outcome{}
	case SaveFrame:
		return Outcome{Save: true}
	}
	return Outcome{}
}

func (c *Controller) zoomResult(err error) Outcome {
	switch {
	case err == nil:
		return c.changed()
	case errors.Is(err, viewport.ErrZoomLimit):
		c.status = StatusZoomLimit
	default:
		c.status = err.Error()
	}
	return Outcome{Status: c.status}
}

func (c *Controller) changed() Outcome {
	c.dirty = true
	c.status = ""
	if c.preview.enabled {
		c.preview.dirty = true
	}
	return Outcome{Redraw: true}
}

// JuliaHome and MandelbrotHome are the fixed framings used on mode switches.
func JuliaHome(width, height int) (complex128, float64) {
	return 0, 3 / float64(min(width, height))
}

func MandelbrotHome(width, height int) (complex128, float64) {
	return viewport.DefaultCenter, 4 / float64(max(width, height))
}

func (c *Controller) setMode(target fractal.Family) Outcome {
	w, h := c.view.Width(), c.view.Height()
	switch target.(type) {
	case fractal.Julia:
		if _, ok := c.family.(fractal.Mandelbrot); !ok {
			return Outcome{}
		}
		constant := c.view.MouseToPlane(float64(c.mouse.X), float64(c.mouse.Y))
		c.family = fractal.Julia{C: constant}
		c.view.Reset(JuliaHome(w, h))
	case fractal.Mandelbrot:
		if _, ok := c.family.(fractal.Julia); !ok {
			return Outcome{}
		}
		c.family = fractal.Mandelbrot{}
		c.maxIterations = c.opts.MaxIterations
		c.view.Reset(MandelbrotHome(w, h))
	default:
		return Outcome{}
	}
	return c.changed()
}

func (c *Controller) selectPreset(i int) Outcome {
	p, ok := config.GetPreset(i)
	if !ok {
		return Outcome{}
	}
	c.family = fractal.Julia{C: p.C}
	if c.opts.PresetIterations {
		c.maxIterations = p.Iterations
	}
	c.view.Reset(JuliaHome(c.view.Width(), c.view.Height()))
	return c.changed()
}

// Params returns the kernel input for the current view.
func (c *Controller) Params() fractal.Params {
	return fractal.Params{
		Bounds:        c.view.Bounds(),
		Family:        c.family,
		MaxIterations: c.maxIterations,
	}
}

// Dirty reports whether the next Frame call will recompute.
func (c *Controller) Dirty() bool { return c.dirty || c.frame == nil }

// Frame returns the frame for the current view, recomputing it if a command
// changed the view. If the render fails or times out, the last complete
// frame is returned together with the error.
func (c *Controller) Frame(ctx context.Context) (*image.RGBA, error) {
	if !c.Dirty() {
		return c.frame, nil
	}
	if c.opts.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.RenderTimeout)
		defer cancel()
	}

	view := c.liveSnapshot()
	grid, img, err := render(ctx, c.backend, c.palette, c.Params())
	if err != nil {
		// A timeout keeps the previous frame until the view changes again.
		// Other failures leave the frame dirty so the next call retries.
		if errors.Is(err, context.DeadlineExceeded) {
			c.dirty = false
			c.status = StatusTimeout
		} else {
			c.status = err.Error()
		}
		return c.frame, err
	}
	c.dirty = false
	c.grid, c.frame, c.frameView = grid, img, view
	return img, nil
}

// Grid returns the escape counts behind the last complete frame.
func (c *Controller) Grid() *fractal.Grid { return c.grid }

func render(ctx context.Context, b compute.Backend, pal palette.Palette, p fractal.Params) (*fractal.Grid, *image.RGBA, error) {
	grid, err := fractal.Compute(ctx, b, p)
	if err != nil {
		return nil, nil, err
	}
	img, err := pal.Apply(grid.Counts, grid.Width, grid.Height)
	if err != nil {
		return nil, nil, err
	}
	return grid, img, nil
}

// Snapshot describes the view behind the frame Frame last returned, which
// lags the live view after a timed-out render. Before the first frame it
// describes the live view.
func (c *Controller) Snapshot() fractal.Snapshot {
	if c.frame == nil {
		return c.liveSnapshot()
	}
	return c.frameView
}

func (c *Controller) liveSnapshot() fractal.Snapshot {
	return fractal.Snapshot{
		Family:        c.family,
		Center:        c.view.Center(),
		Scale:         c.view.Scale(),
		Width:         c.view.Width(),
		Height:        c.view.Height(),
		MaxIterations: c.maxIterations,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
