// Package tour replays scripted navigation sessions headlessly.
//
// A scenario is a YAML list of steps, each naming one navigation action:
//
//	name: seahorse valley
//	width: 640
//	height: 480
//	steps:
//	  - action: zoom_rect
//	    rect: [300, 200, 380, 260]
//	  - action: zoom_in
//	    repeat: 3
//	    save: true
//	  - action: mouse
//	    at: [320, 240]
//	  - action: julia
//	  - action: save
package tour

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/san-kum/fractalscope/internal/fractal"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/storage"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAction = errors.New("tour: unknown action")
	ErrInvalidStep   = errors.New("tour: invalid step")
)

type Scenario struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	MaxIterations int    `yaml:"max_iterations"`
	Steps         []Step `yaml:"steps"`
}

// Step is a single scripted action. Only the fields the action needs are read.
type Step struct {
	Action string    `yaml:"action"`
	Rect   []int     `yaml:"rect"`
	At     []int     `yaml:"at"`
	By     []float64 `yaml:"by"`
	Index  int       `yaml:"index"`
	Repeat int       `yaml:"repeat"`
	Save   bool      `yaml:"save"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	for i, step := range sc.Steps {
		if _, err := step.command(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// Size returns the scenario's frame size, falling back to the given one.
func (sc *Scenario) Size(width, height int) (int, int) {
	if sc.Width > 0 {
		width = sc.Width
	}
	if sc.Height > 0 {
		height = sc.Height
	}
	return width, height
}

func (s Step) command() (navigate.Command, error) {
	switch s.Action {
	case "zoom_rect":
		if len(s.Rect) != 4 {
			return nil, fmt.Errorf("%w: zoom_rect needs rect [x0, y0, x1, y1]", ErrInvalidStep)
		}
		r := image.Rect(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3])
		return navigate.ZoomRect{Rect: r}, nil
	case "zoom_point":
		if len(s.At) != 2 {
			return nil, fmt.Errorf("%w: zoom_point needs at [x, y]", ErrInvalidStep)
		}
		return navigate.ZoomPoint{Point: image.Pt(s.At[0], s.At[1])}, nil
	case "zoom_in":
		return navigate.ZoomIn{}, nil
	case "zoom_out":
		return navigate.ZoomOut{}, nil
	case "pan":
		if len(s.By) != 2 {
			return nil, fmt.Errorf("%w: pan needs by [dx, dy]", ErrInvalidStep)
		}
		return navigate.Pan{DX: s.By[0], DY: s.By[1]}, nil
	case "mouse":
		// Mouse steps are delivered as pointer events, not commands.
		if len(s.At) != 2 {
			return nil, fmt.Errorf("%w: mouse needs at [x, y]", ErrInvalidStep)
		}
		return nil, nil
	case "julia":
		return navigate.SetMode{Target: fractal.Julia{}}, nil
	case "mandelbrot":
		return navigate.SetMode{Target: fractal.Mandelbrot{}}, nil
	case "preset":
		return navigate.SelectPreset{Index: s.Index}, nil
	case "preview":
		return navigate.TogglePreview{}, nil
	case "save":
		return navigate.SaveFrame{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, s.Action)
}

// Run replays every step through ctrl and saves the frames the scenario asks
// for into store. It returns the saved file paths. Progress goes to w.
func Run(ctx context.Context, sc *Scenario, ctrl *navigate.Controller, store *storage.Store, w io.Writer) ([]string, error) {
	if w == nil {
		w = io.Discard
	}

	var saved []string
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		cmd, err := step.command()
		if err != nil {
			return saved, fmt.Errorf("step %d: %w", i+1, err)
		}

		times := max(step.Repeat, 1)
		var out navigate.Outcome
		for n := 0; n < times; n++ {
			if cmd == nil {
				out = ctrl.Handle(navigate.PointerMove{Pos: image.Pt(step.At[0], step.At[1])})
				continue
			}
			out = ctrl.Apply(cmd)
			if out.Status != "" {
				break
			}
		}

		fmt.Fprintf(w, "Step %d/%d: %s", i+1, len(sc.Steps), step.Action)
		if out.Status != "" {
			fmt.Fprintf(w, " (%s)", out.Status)
		}
		fmt.Fprintln(w)

		if !out.Save && !step.Save {
			continue
		}
		img, err := ctrl.Frame(ctx)
		if err != nil {
			return saved, fmt.Errorf("step %d render: %w", i+1, err)
		}
		path, err := store.SaveFrame(img, storage.Describe(ctrl.Snapshot()))
		if err != nil {
			return saved, fmt.Errorf("step %d save: %w", i+1, err)
		}
		fmt.Fprintf(w, "  saved %s\n", path)
		saved = append(saved, path)
	}
	return saved, nil
}
