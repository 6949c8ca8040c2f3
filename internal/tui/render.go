package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock shows two vertically stacked pixels per cell: the foreground
// paints the top one, the background the bottom one.
const halfBlock = "▀"

var (
	title   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	value   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warning = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)

	selectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	borderColor    = color.RGBA{R: 180, G: 180, B: 180, A: 255}
)

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// compose copies frame and lays the overlays on top of it. frame is never
// modified.
func compose(frame, preview *image.RGBA, sel image.Rectangle, showSel bool) *image.RGBA {
	out := image.NewRGBA(frame.Bounds())
	draw.Draw(out, out.Bounds(), frame, frame.Bounds().Min, draw.Src)

	if preview != nil {
		pb := preview.Bounds()
		at := image.Pt(out.Bounds().Max.X-pb.Dx()-2, 2)
		dst := image.Rectangle{Min: at, Max: at.Add(pb.Size())}
		draw.Draw(out, dst, preview, pb.Min, draw.Src)
		outline(out, dst.Inset(-1), borderColor)
	}
	if showSel {
		outline(out, sel, selectionColor)
	}
	return out
}

// outline draws the one-pixel border of r, clipped to img.
func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		setIn(img, x, r.Min.Y, c)
		setIn(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setIn(img, r.Min.X, y, c)
		setIn(img, r.Max.X-1, y, c)
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// halfBlocks renders img as rows of half-block cells, two pixel rows per
// line. An odd last pixel row is paired with black.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := color.RGBA{A: 255}
			if y+1 < b.Max.Y {
				bottom = img.RGBAAt(x, y+1)
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hex(top)).
				Background(hex(bottom)).
				Render(halfBlock))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
