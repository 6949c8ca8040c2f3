// Package palette turns escape-count grids into RGB images.
//
// A Palette is generated once per session. Its last entry is reserved for
// pixels that never escaped and is black for the generated palettes. Apply
// rescales every frame to the largest count actually present, so the whole
// palette is spread over the range the current view uses.
package palette

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrEmpty  = errors.New("palette: empty palette")
	ErrFormat = errors.New("palette: malformed palette file")
)

var Black = color.RGBA{0, 0, 0, 255}

type Palette []color.RGBA

// HueSweep walks the full HSL hue circle at full saturation and half
// lightness over size-1 entries and ends with black.
func HueSweep(size int) Palette {
	if size < 1 {
		return nil
	}
	p := make(Palette, size)
	for i := 0; i < size-1; i++ {
		hue := float64(int(float64(i) / float64(size) * 360))
		r, g, b := colorful.Hsl(hue, 1, 0.5).Clamped().RGB255()
		p[i] = color.RGBA{r, g, b, 255}
	}
	p[size-1] = Black
	return p
}

// Gradient blends linearly in RGB from one colour to another over size-1
// entries and ends with black.
func Gradient(size int, from, to color.RGBA) Palette {
	if size < 1 {
		return nil
	}
	p := make(Palette, size)
	c1, _ := colorful.MakeColor(from)
	c2, _ := colorful.MakeColor(to)
	steps := size - 2
	for i := 0; i < size-1; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		r, g, b := c1.BlendRgb(c2, t).Clamped().RGB255()
		p[i] = color.RGBA{r, g, b, 255}
	}
	p[size-1] = Black
	return p
}

// Load reads one "r g b" triple per line. Blank lines and lines starting
// with '#' are skipped. The file is used as is: no black entry is appended.
func Load(r io.Reader) (Palette, error) {
	var p Palette
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 values, got %d", ErrFormat, line, len(fields))
		}
		var rgb [3]uint8
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			rgb[i] = uint8(v)
		}
		p = append(p, color.RGBA{rgb[0], rgb[1], rgb[2], 255})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}

func LoadFile(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
