package navigate

import (
	"image"

	"github.com/san-kum/fractalscope/internal/fractal"
)

// Command is a state change produced by interpreting an event. Hosts and
// scripted tours may also apply commands directly.
type Command interface {
	command()
}

// ZoomRect fits Rect to the window. A rectangle not wider and taller than
// MinSelection is treated as a point zoom at its top-left corner.
type ZoomRect struct{ Rect image.Rectangle }
type ZoomPoint struct{ Point image.Point }
type ZoomIn struct{}
type ZoomOut struct{}

// Pan moves the centre by a pixel offset.
type Pan struct{ DX, DY float64 }

// SetMode switches family. Only the kind of Target matters: a Julia target
// takes its constant from the plane point under the mouse.
type SetMode struct{ Target fractal.Family }

type SelectPreset struct{ Index int }
type TogglePreview struct{}
type SaveFrame struct{}

func (ZoomRect) command()      {}
func (ZoomPoint) command()     {}
func (ZoomIn) command()        {}
func (ZoomOut) command()       {}
func (Pan) command()           {}
func (SetMode) command()       {}
func (SelectPreset) command()  {}
func (TogglePreview) command() {}
func (SaveFrame) command()     {}

// Outcome summarises the effect of one or more commands.
type Outcome struct {
	Redraw bool
	Save   bool
	Status string
}

// Merge folds other into o. The later status wins.
func (o Outcome) Merge(other Outcome) Outcome {
	o.Redraw = o.Redraw || other.Redraw
	o.Save = o.Save || other.Save
	if other.Status != "" {
		o.Status = other.Status
	}
	return o
}
