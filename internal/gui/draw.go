package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fractalscope/internal/fractal"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.DrawTexture(a.frame, 0, 0, rl.White)
	a.drawPreview()
	a.drawSelection()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawSelection() {
	sel, ok := a.Ctrl.Selection()
	if !ok {
		return
	}
	rec := rl.NewRectangle(float32(sel.Min.X), float32(sel.Min.Y), float32(sel.Dx()), float32(sel.Dy()))
	rl.DrawRectangleLinesEx(rec, 1, ColSelect)
}

// drawPreview puts the Julia preview in the top-right corner.
func (a *App) drawPreview() {
	if a.previewImg == nil {
		return
	}
	x := int32(a.Ctrl.Viewport().Width()) - a.previewSize - 10
	rl.DrawTexture(a.preview, x, 10, rl.White)
	rl.DrawRectangleLines(x, 10, a.previewSize, a.previewSize, ColAccent)
}

func (a *App) DrawHUD() {
	w := int32(a.Ctrl.Viewport().Width())
	h := int32(a.Ctrl.Viewport().Height())

	c := a.Ctrl.Viewport().Center()
	line := fmt.Sprintf("%s  %.12g %+.12gi  scale %.3e  iter %d",
		a.Ctrl.Title(), real(c), imag(c), a.Ctrl.Viewport().Scale(), a.Ctrl.MaxIterations())
	if j, ok := a.Ctrl.Family().(fractal.Julia); ok {
		line += fmt.Sprintf("  c = %.6g %+.6gi", real(j.C), imag(j.C))
	}

	rl.DrawRectangle(0, h-48, w, 48, ColPanel)
	drawText(line, 10, h-42, 16, ColAccent)
	drawText("[DRAG] ZOOM  [+/-] STEP  [J/M] MODE  [1-0 QWER] PRESET  [P] PREVIEW  [S] SAVE  [H] HUD", 10, h-20, 12, ColText)

	if a.status != "" && time.Now().Before(a.statusUntil) {
		drawText(a.status, 10, 10, 16, ColSelect)
	}
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-70, h-20, 12, ColTextDim)
}

func drawText(text string, x, y, size int32, col rl.Color) {
	rl.DrawText(text, x, y, size, col)
}
