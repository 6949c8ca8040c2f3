package navigate

import (
	"image"
	"time"
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Event is an input delivered by the host.
type Event interface {
	at() time.Time
}

type PointerDown struct {
	Pos    image.Point
	Button Button
	At     time.Time
}

type PointerUp struct {
	Pos    image.Point
	Button Button
	At     time.Time
}

type PointerMove struct {
	Pos image.Point
	At  time.Time
}

// KeyDown carries a symbolic action; Preset is only read for ActionPreset.
type KeyDown struct {
	Action Action
	Preset int
	At     time.Time
}

// Tick advances frame time without any input.
type Tick struct {
	At time.Time
}

func (e PointerDown) at() time.Time { return e.At }
func (e PointerUp) at() time.Time   { return e.At }
func (e PointerMove) at() time.Time { return e.At }
func (e KeyDown) at() time.Time     { return e.At }
func (e Tick) at() time.Time        { return e.At }
