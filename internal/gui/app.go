// Package gui hosts a navigation session in a raylib window.
package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fractalscope/internal/navigate"
	"github.com/san-kum/fractalscope/internal/storage"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 160)
)

// statusTTL is how long a status line stays on screen.
const statusTTL = 3 * time.Second

// keyNames is scanned in order, so keys pressed in the same frame apply
// in a fixed order.
var keyNames = []struct {
	key  int32
	name string
}{
	{rl.KeyKpAdd, "+"},
	{rl.KeyEqual, "="},
	{rl.KeyKpSubtract, "-"},
	{rl.KeyMinus, "-"},
	{rl.KeyS, "s"},
	{rl.KeyJ, "j"},
	{rl.KeyM, "m"},
	{rl.KeyP, "p"},
	{rl.KeyOne, "1"},
	{rl.KeyTwo, "2"},
	{rl.KeyThree, "3"},
	{rl.KeyFour, "4"},
	{rl.KeyFive, "5"},
	{rl.KeySix, "6"},
	{rl.KeySeven, "7"},
	{rl.KeyEight, "8"},
	{rl.KeyNine, "9"},
	{rl.KeyZero, "0"},
	{rl.KeyQ, "q"},
	{rl.KeyW, "w"},
	{rl.KeyE, "e"},
	{rl.KeyR, "r"},
	{rl.KeyLeft, "left"},
	{rl.KeyRight, "right"},
	{rl.KeyUp, "up"},
	{rl.KeyDown, "down"},
}

type App struct {
	Ctrl  *navigate.Controller
	Store *storage.Store

	frame    rl.Texture2D
	frameBuf []color.RGBA

	preview     rl.Texture2D
	previewBuf  []color.RGBA
	previewImg  *image.RGBA
	previewSize int32

	title       string
	status      string
	statusUntil time.Time
	ShowHUD     bool
}

func initWindow(width, height int32) {
	rl.InitWindow(width, height, "fractalscope")
	rl.SetTargetFPS(60)
}

func blankTexture(width, height int) rl.Texture2D {
	img := rl.GenImageColor(width, height, rl.Black)
	defer rl.UnloadImage(img)
	return rl.LoadTextureFromImage(img)
}

// NewApp allocates the textures for ctrl's frame and preview. The window must
// already be open.
func NewApp(ctrl *navigate.Controller, store *storage.Store) *App {
	w, h := ctrl.Viewport().Width(), ctrl.Viewport().Height()
	ps := ctrl.PreviewParams().Bounds.Width
	return &App{
		Ctrl:        ctrl,
		Store:       store,
		frame:       blankTexture(w, h),
		frameBuf:    make([]color.RGBA, w*h),
		preview:     blankTexture(ps, ps),
		previewBuf:  make([]color.RGBA, ps*ps),
		previewSize: int32(ps),
		ShowHUD:     true,
	}
}

// Run opens a window sized to ctrl's viewport and blocks until it is closed
// or ctx is cancelled.
func Run(ctx context.Context, ctrl *navigate.Controller, store *storage.Store) error {
	initWindow(int32(ctrl.Viewport().Width()), int32(ctrl.Viewport().Height()))
	defer rl.CloseWindow()

	app := NewApp(ctrl, store)
	defer app.Close()
	return app.RunLoop(ctx)
}

func (a *App) RunLoop(ctx context.Context) error {
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Update(ctx)
		a.Draw()
	}
	return nil
}

func (a *App) Close() {
	a.Ctrl.Close()
	rl.UnloadTexture(a.frame)
	rl.UnloadTexture(a.preview)
}

func (a *App) Update(ctx context.Context) {
	var out navigate.Outcome
	for _, ev := range pollEvents() {
		out = out.Merge(a.Ctrl.Handle(ev))
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	if out.Status != "" {
		a.setStatus(out.Status)
	}
	if out.Save {
		a.save(ctx)
	}

	if a.Ctrl.Dirty() {
		img, err := a.Ctrl.Frame(ctx)
		if err != nil {
			a.setStatus(a.Ctrl.Status())
		}
		if img != nil {
			upload(a.frame, a.frameBuf, img)
		}
	}

	img, err := a.Ctrl.Preview(ctx)
	if err != nil {
		a.setStatus(err.Error())
	}
	if img != nil && img != a.previewImg {
		upload(a.preview, a.previewBuf, img)
	}
	a.previewImg = img

	if t := a.Ctrl.Title(); t != a.title {
		rl.SetWindowTitle("fractalscope :: " + t)
		a.title = t
	}
}

func pollEvents() []navigate.Event {
	var events []navigate.Event
	pos := image.Pt(int(rl.GetMouseX()), int(rl.GetMouseY()))

	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		events = append(events, navigate.PointerMove{Pos: pos})
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		events = append(events, navigate.PointerDown{Pos: pos, Button: navigate.ButtonLeft})
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		events = append(events, navigate.PointerUp{Pos: pos, Button: navigate.ButtonLeft})
	}

	for _, k := range keyNames {
		if !rl.IsKeyPressed(k.key) {
			continue
		}
		if ev, ok := navigate.Bind(k.name); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (a *App) save(ctx context.Context) {
	img, err := a.Ctrl.Frame(ctx)
	if img == nil {
		a.setStatus(fmt.Sprintf("save failed: %v", err))
		return
	}
	path, err := a.Store.SaveFrame(img, storage.Describe(a.Ctrl.Snapshot()))
	if err != nil {
		a.setStatus(fmt.Sprintf("save failed: %v", err))
		return
	}
	a.setStatus("saved " + path)
}

func (a *App) setStatus(s string) {
	log.Print(s)
	a.status = s
	a.statusUntil = time.Now().Add(statusTTL)
}

// upload copies img into tex. buf must hold one entry per pixel.
func upload(tex rl.Texture2D, buf []color.RGBA, img *image.RGBA) {
	for i := range buf {
		o := i * 4
		buf[i] = color.RGBA{R: img.Pix[o], G: img.Pix[o+1], B: img.Pix[o+2], A: img.Pix[o+3]}
	}
	rl.UpdateTexture(tex, buf)
}
