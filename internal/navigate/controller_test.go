package navigate_test

import (
	"context"
	"image"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fractalscope/internal/compute"
	"github.com/san-kum/fractalscope/internal/config"
	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/palette"
)

const (
	width  = 160
	height = 120
)

var t0 = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newController(mutate func(*navigate.Options)) *navigate.Controller {
	opts := navigate.DefaultOptions()
	opts.MaxIterations = 64
	opts.PreviewSize = 32
	if mutate != nil {
		mutate(&opts)
	}
	return navigate.New(width, height, opts, compute.NewCPUBackend(2), palette.HueSweep(opts.MaxIterations+1))
}

func drag(c *navigate.Controller, from, to image.Point, at time.Time) navigate.Outcome {
	c.Handle(navigate.PointerDown{Pos: from, Button: navigate.ButtonLeft, At: at})
	c.Handle(navigate.PointerMove{Pos: to, At: at})
	return c.Handle(navigate.PointerUp{Pos: to, Button: navigate.ButtonLeft, At: at})
}

// blockingBackend holds every Rows call until its context ends and reports
// each cancellation it observes.
type blockingBackend struct {
	cancelled chan error
}

func (b *blockingBackend) Name() string    { return "blocking" }
func (b *blockingBackend) Available() bool { return true }
func (b *blockingBackend) Cleanup()        {}

func (b *blockingBackend) Rows(ctx context.Context, n int, fn func(start, end int)) error {
	<-ctx.Done()
	b.cancelled <- ctx.Err()
	return ctx.Err()
}

var _ = Describe("Controller", func() {
	var c *navigate.Controller

	BeforeEach(func() {
		c = newController(nil)
	})

	AfterEach(func() {
		c.Close()
	})

	It("starts on the default Mandelbrot framing", func() {
		Expect(c.Family()).To(Equal(fractal.Mandelbrot{}))
		Expect(c.Viewport().Center()).To(Equal(complex(-0.75, 0)))
		Expect(c.Viewport().Scale()).To(Equal(3.0 / height))
		Expect(c.State()).To(Equal(navigate.Idle))
		Expect(c.Title()).To(Equal("Mandelbrot"))
	})

	Describe("drag selection", func() {
		It("exposes the selection without touching the view until release", func() {
			before := c.Viewport().Bounds()
			c.Handle(navigate.PointerDown{Pos: image.Pt(100, 80), At: t0})
			c.Handle(navigate.PointerMove{Pos: image.Pt(40, 20), At: t0})

			Expect(c.State()).To(Equal(navigate.Dragging))
			sel, ok := c.Selection()
			Expect(ok).To(BeTrue())
			Expect(sel).To(Equal(image.Rect(40, 20, 100, 80)))
			Expect(c.Viewport().Bounds()).To(Equal(before))
		})

		It("zooms to the normalised rectangle on release", func() {
			scale := c.Viewport().Scale()
			out := drag(c, image.Pt(100, 90), image.Pt(60, 30), t0)

			Expect(out.Redraw).To(BeTrue())
			Expect(c.State()).To(Equal(navigate.Idle))
			_, ok := c.Selection()
			Expect(ok).To(BeFalse())

			// 40x60 selection: ratios 4 and 2, the smaller one wins.
			Expect(c.Viewport().Scale()).To(BeNumerically("~", scale/2, 1e-15))
			Expect(c.Viewport().Center()).To(Equal(complex(-0.75, 0)))
		})

		It("treats a click as a point zoom", func() {
			scale := c.Viewport().Scale()
			out := drag(c, image.Pt(120, 30), image.Pt(120, 30), t0)

			Expect(out.Redraw).To(BeTrue())
			Expect(c.Viewport().Scale()).To(Equal(scale / 2))
			Expect(c.Viewport().Center()).To(Equal(complex(-0.75+40*scale, -30*scale)))
		})

		It("treats a selection of exactly the minimum size as a point zoom", func() {
			scale := c.Viewport().Scale()
			drag(c, image.Pt(80, 60), image.Pt(85, 65), t0)

			Expect(c.Viewport().Scale()).To(Equal(scale / 2))
			Expect(c.Viewport().Center()).To(Equal(complex(-0.75, 0)))
		})

		It("zooms to a rectangle one pixel above the minimum", func() {
			scale := c.Viewport().Scale()
			drag(c, image.Pt(80, 60), image.Pt(86, 66), t0)

			Expect(c.Viewport().Scale()).To(BeNumerically("~", scale/20, 1e-15))
		})

		It("applies the minimum selection to scripted rectangles", func() {
			scale := c.Viewport().Scale()
			out := c.Apply(navigate.ZoomRect{Rect: image.Rect(120, 30, 122, 32)})

			Expect(out.Redraw).To(BeTrue())
			Expect(c.Viewport().Scale()).To(Equal(scale / 2))
			Expect(c.Viewport().Center()).To(Equal(complex(-0.75+40*scale, -30*scale)))
		})

		It("ignores buttons other than the left one", func() {
			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10), Button: navigate.ButtonRight, At: t0})
			Expect(c.State()).To(Equal(navigate.Idle))
		})
	})

	Describe("debounce", func() {
		It("ignores pointer-down events within the window after a zoom", func() {
			drag(c, image.Pt(80, 60), image.Pt(80, 60), t0)

			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10), At: t0.Add(100 * time.Millisecond)})
			Expect(c.State()).To(Equal(navigate.Idle))
			out := c.Handle(navigate.PointerUp{Pos: image.Pt(10, 10), At: t0.Add(120 * time.Millisecond)})
			Expect(out.Redraw).To(BeFalse())

			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10), At: t0.Add(300 * time.Millisecond)})
			Expect(c.State()).To(Equal(navigate.Idle))

			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10), At: t0.Add(301 * time.Millisecond)})
			Expect(c.State()).To(Equal(navigate.Dragging))
		})

		It("honours a configured interval", func() {
			c.Close()
			c = newController(func(o *navigate.Options) { o.Debounce = time.Second })
			drag(c, image.Pt(80, 60), image.Pt(80, 60), t0)

			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10), At: t0.Add(500 * time.Millisecond)})
			Expect(c.State()).To(Equal(navigate.Idle))
			c.Handle(navigate.Tick{At: t0.Add(2 * time.Second)})
			c.Handle(navigate.PointerDown{Pos: image.Pt(10, 10)})
			Expect(c.State()).To(Equal(navigate.Dragging))
		})
	})

	Describe("mode switching", func() {
		It("samples the Julia constant under the mouse and resets to the Julia home", func() {
			c.Handle(navigate.PointerMove{Pos: image.Pt(40, 30), At: t0})
			want := c.Viewport().MouseToPlane(40, 30)

			out := c.Handle(navigate.KeyDown{Action: navigate.ActionJulia, At: t0})
			Expect(out.Redraw).To(BeTrue())
			Expect(c.Family()).To(Equal(fractal.Julia{C: want}))
			Expect(c.Viewport().Center()).To(Equal(complex(0, 0)))
			Expect(c.Viewport().Scale()).To(Equal(3.0 / height))
			Expect(c.Title()).To(Equal("Julia"))
		})

		It("restores the fixed Mandelbrot home after a round trip", func() {
			drag(c, image.Pt(10, 10), image.Pt(70, 50), t0)
			Expect(c.Viewport().Center()).NotTo(Equal(complex(-0.75, 0)))

			c.Handle(navigate.KeyDown{Action: navigate.ActionJulia, At: t0})
			c.Handle(navigate.KeyDown{Action: navigate.ActionMandelbrot, At: t0})

			Expect(c.Family()).To(Equal(fractal.Mandelbrot{}))
			Expect(c.Viewport().Center()).To(Equal(complex(-0.75, 0)))
			Expect(c.Viewport().Scale()).To(Equal(4.0 / width))
		})

		It("does nothing when switching to the current family", func() {
			out := c.Handle(navigate.KeyDown{Action: navigate.ActionMandelbrot, At: t0})
			Expect(out.Redraw).To(BeFalse())

			c.Handle(navigate.KeyDown{Action: navigate.ActionJulia, At: t0})
			julia := c.Family()
			c.Handle(navigate.PointerMove{Pos: image.Pt(1, 1), At: t0})
			out = c.Handle(navigate.KeyDown{Action: navigate.ActionJulia, At: t0})
			Expect(out.Redraw).To(BeFalse())
			Expect(c.Family()).To(Equal(julia))
		})
	})

	Describe("presets", func() {
		It("switches to the preset constant", func() {
			out := c.Handle(navigate.KeyDown{Action: navigate.ActionPreset, Preset: 2, At: t0})
			Expect(out.Redraw).To(BeTrue())
			Expect(c.Family()).To(Equal(fractal.Julia{C: config.JuliaPresets[2].C}))
			Expect(c.Viewport().Center()).To(Equal(complex(0, 0)))
			Expect(c.MaxIterations()).To(Equal(64))
		})

		It("ignores out-of-range indices", func() {
			for _, i := range []int{-1, len(config.JuliaPresets), 40} {
				out := c.Apply(navigate.SelectPreset{Index: i})
				Expect(out).To(Equal(navigate.Outcome{}))
				Expect(c.Family()).To(Equal(fractal.Mandelbrot{}))
			}
		})

		It("applies the published iteration count when enabled", func() {
			c = newController(func(o *navigate.Options) { o.PresetIterations = true })
			c.Apply(navigate.SelectPreset{Index: 0})
			Expect(c.MaxIterations()).To(Equal(config.JuliaPresets[0].Iterations))

			c.Apply(navigate.SetMode{Target: fractal.Mandelbrot{}})
			Expect(c.MaxIterations()).To(Equal(64))
		})
	})

	Describe("zoom limit", func() {
		It("refuses a pan that would collapse neighbouring pixels", func() {
			var out navigate.Outcome
			for i := 0; i < 2000 && out.Status == ""; i++ {
				out = c.Apply(navigate.ZoomIn{})
			}
			Expect(out.Status).To(Equal(navigate.StatusZoomLimit))
			c.Apply(navigate.ZoomOut{})

			before := c.Viewport().Bounds()
			out = c.Apply(navigate.Pan{DX: 1e18})
			Expect(out.Status).To(Equal(navigate.StatusZoomLimit))
			Expect(out.Redraw).To(BeFalse())
			Expect(c.Viewport().Bounds()).To(Equal(before))
		})

		It("refuses further zoom and reports a status", func() {
			var out navigate.Outcome
			for i := 0; i < 2000 && out.Status == ""; i++ {
				out = c.Handle(navigate.KeyDown{Action: navigate.ActionZoomIn, At: t0})
			}
			Expect(out.Status).To(Equal(navigate.StatusZoomLimit))
			Expect(out.Redraw).To(BeFalse())
			Expect(c.Viewport().Scale()).To(BeNumerically(">", 0))

			out = c.Handle(navigate.KeyDown{Action: navigate.ActionZoomOut, At: t0})
			Expect(out.Redraw).To(BeTrue())
			Expect(c.Status()).To(BeEmpty())
		})
	})

	Describe("frames", func() {
		It("recomputes only after the view changes", func() {
			ctx := context.Background()
			f1, err := c.Frame(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(f1.Bounds()).To(Equal(image.Rect(0, 0, width, height)))

			f2, _ := c.Frame(ctx)
			Expect(f2).To(BeIdenticalTo(f1))

			c.Handle(navigate.KeyDown{Action: navigate.ActionPanLeft, At: t0})
			Expect(c.Dirty()).To(BeTrue())
			f3, _ := c.Frame(ctx)
			Expect(f3).NotTo(BeIdenticalTo(f1))
			Expect(c.Grid().Width).To(Equal(width))
		})

		It("describes the frame on screen after a timed-out render", func() {
			first, err := c.Frame(context.Background())
			Expect(err).NotTo(HaveOccurred())
			shown := c.Snapshot()
			grid := c.Grid()

			c.Apply(navigate.ZoomIn{})
			Expect(c.Snapshot()).To(Equal(shown))

			expired, cancel := context.WithDeadline(context.Background(), time.Unix(0, 0))
			defer cancel()
			img, err := c.Frame(expired)
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(img).To(BeIdenticalTo(first))
			Expect(c.Dirty()).To(BeFalse())

			img, err = c.Frame(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(img).To(BeIdenticalTo(first))
			Expect(c.Grid()).To(BeIdenticalTo(grid))
			Expect(c.Snapshot()).To(Equal(shown))
			Expect(c.Snapshot().Scale).NotTo(Equal(c.Viewport().Scale()))
		})

		It("retries a cancelled render", func() {
			first, _ := c.Frame(context.Background())
			c.Apply(navigate.ZoomIn{})
			zoomed := c.Viewport().Scale()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			img, err := c.Frame(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(img).To(BeIdenticalTo(first))
			Expect(c.Dirty()).To(BeTrue())

			img, err = c.Frame(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(img).NotTo(BeIdenticalTo(first))
			Expect(c.Snapshot().Scale).To(Equal(zoomed))
			Expect(c.Snapshot().Center).To(Equal(c.Viewport().Center()))
		})

		It("keeps the previous frame when a render times out", func() {
			c = navigate.New(400, 400, navigate.Options{
				MaxIterations: 1024,
				RenderTimeout: time.Nanosecond,
			}, compute.NewSerialBackend(), nil)

			img, err := c.Frame(context.Background())
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(img).To(BeNil())
			Expect(c.Status()).To(Equal(navigate.StatusTimeout))
		})

		It("requests a save", func() {
			out := c.Handle(navigate.KeyDown{Action: navigate.ActionSave, At: t0})
			Expect(out.Save).To(BeTrue())
			Expect(out.Redraw).To(BeFalse())
		})
	})

	Describe("preview", func() {
		It("is off by default", func() {
			img, err := c.Preview(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(img).To(BeNil())
		})

		It("renders a square Julia preview without changing the session", func() {
			c.Handle(navigate.KeyDown{Action: navigate.ActionTogglePreview, At: t0})
			c.Handle(navigate.PointerMove{Pos: image.Pt(50, 50), At: t0})
			before := c.Viewport().Bounds()

			img, err := c.Preview(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(img).NotTo(BeNil())
			Expect(img.Bounds()).To(Equal(image.Rect(0, 0, 32, 32)))
			Expect(c.Viewport().Bounds()).To(Equal(before))
			Expect(c.Family()).To(Equal(fractal.Mandelbrot{}))

			p := c.PreviewParams()
			Expect(p.Bounds.Corner1).To(Equal(complex(-2, -2)))
			Expect(p.Family).To(Equal(fractal.Julia{C: c.Viewport().MouseToPlane(50, 50)}))

			again, _ := c.Preview(context.Background())
			Expect(again).To(BeIdenticalTo(img))
		})

		It("is hidden in Julia mode", func() {
			c.Handle(navigate.KeyDown{Action: navigate.ActionTogglePreview, At: t0})
			c.Handle(navigate.KeyDown{Action: navigate.ActionJulia, At: t0})
			img, _ := c.Preview(context.Background())
			Expect(img).To(BeNil())
		})

		It("delivers asynchronous previews", func() {
			c = newController(func(o *navigate.Options) {
				o.AsyncPreview = true
				o.Preview = true
			})
			c.Handle(navigate.PointerMove{Pos: image.Pt(20, 20), At: t0})
			c.Handle(navigate.PointerMove{Pos: image.Pt(30, 25), At: t0})

			Eventually(func() *image.RGBA {
				img, _ := c.Preview(context.Background())
				return img
			}).WithTimeout(5 * time.Second).ShouldNot(BeNil())
		})

		It("keeps only the preview for the newest mouse position", func() {
			c = newController(func(o *navigate.Options) {
				o.AsyncPreview = true
				o.Preview = true
			})
			c.Handle(navigate.PointerMove{Pos: image.Pt(10, 100), At: t0})
			_, err := c.Preview(context.Background())
			Expect(err).NotTo(HaveOccurred())
			c.Handle(navigate.PointerMove{Pos: image.Pt(140, 15), At: t0})
			_, err = c.Preview(context.Background())
			Expect(err).NotTo(HaveOccurred())

			direct := newController(func(o *navigate.Options) { o.Preview = true })
			defer direct.Close()
			direct.Handle(navigate.PointerMove{Pos: image.Pt(140, 15), At: t0})
			Expect(direct.PreviewParams()).To(Equal(c.PreviewParams()))
			want, err := direct.Preview(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() []uint8 {
				img, _ := c.Preview(context.Background())
				if img == nil {
					return nil
				}
				return img.Pix
			}).WithTimeout(5 * time.Second).Should(Equal(want.Pix))
		})

		It("cancels running previews that are superseded or switched off", func() {
			b := &blockingBackend{cancelled: make(chan error, 4)}
			c = navigate.New(width, height, navigate.Options{
				MaxIterations: 64,
				PreviewSize:   16,
				Preview:       true,
				AsyncPreview:  true,
			}, b, nil)

			c.Handle(navigate.PointerMove{Pos: image.Pt(10, 10), At: t0})
			c.Preview(context.Background())
			c.Handle(navigate.PointerMove{Pos: image.Pt(20, 20), At: t0})
			c.Preview(context.Background())
			Eventually(b.cancelled).Should(Receive(MatchError(context.Canceled)))

			c.Handle(navigate.KeyDown{Action: navigate.ActionTogglePreview, At: t0})
			Eventually(b.cancelled).Should(Receive(MatchError(context.Canceled)))

			c.Handle(navigate.KeyDown{Action: navigate.ActionTogglePreview, At: t0})
			c.Preview(context.Background())
			c.Close()
			Eventually(b.cancelled).Should(Receive(MatchError(context.Canceled)))
			Consistently(b.cancelled, 50*time.Millisecond).ShouldNot(Receive())
		})
	})
})

var _ = Describe("Outcome", func() {
	It("merges flags and keeps the later status", func() {
		out := navigate.Outcome{Redraw: true, Status: "first"}.
			Merge(navigate.Outcome{Save: true}).
			Merge(navigate.Outcome{Status: "second"})
		Expect(out).To(Equal(navigate.Outcome{Redraw: true, Save: true, Status: "second"}))
	})
})

var _ = Describe("Bind", func() {
	DescribeTable("maps host keys",
		func(key string, action navigate.Action, preset int) {
			ev, ok := navigate.Bind(key)
			Expect(ok).To(BeTrue())
			Expect(ev.Action).To(Equal(action))
			Expect(ev.Preset).To(Equal(preset))
		},
		Entry("zoom in", "+", navigate.ActionZoomIn, 0),
		Entry("zoom out", "-", navigate.ActionZoomOut, 0),
		Entry("save", "s", navigate.ActionSave, 0),
		Entry("julia", "j", navigate.ActionJulia, 0),
		Entry("mandelbrot", "m", navigate.ActionMandelbrot, 0),
		Entry("preview", "p", navigate.ActionTogglePreview, 0),
		Entry("first preset", "1", navigate.ActionPreset, 0),
		Entry("tenth preset", "0", navigate.ActionPreset, 9),
		Entry("last preset", "r", navigate.ActionPreset, 13),
	)

	It("rejects unbound keys", func() {
		_, ok := navigate.Bind("x")
		Expect(ok).To(BeFalse())
		Expect(navigate.PresetKey(14)).To(BeEmpty())
	})
})
