// Package mask separates sprites from the sheet background and locates the
// bounding box of every 4-connected foreground region.
package mask

import (
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// Mask marks foreground pixels of a grid. It always has the dimensions of
// the grid it was built from.
type Mask struct {
	Height int
	Width  int
	bits   []bool
}

// NewMask returns an all-background mask.
func NewMask(height, width int) *Mask {
	return &Mask{Height: height, Width: width, bits: make([]bool, height*width)}
}

// At reports whether (row, col) is foreground.
func (m *Mask) At(row, col int) bool {
	return m.bits[row*m.Width+col]
}

// Set marks (row, col) as foreground or background.
func (m *Mask) Set(row, col int, fg bool) {
	m.bits[row*m.Width+col] = fg
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// BuildMask compares every pixel against the pixel at (0,0) and returns the
// mask together with that background value. Comparison is exact over all
// channels.
func BuildMask(g *pixel.Grid) (*Mask, pixel.Value) {
	m := NewMask(g.Height, g.Width)
	if g.Empty() {
		return m, nil
	}

	bg := append(pixel.Value(nil), g.At(0, 0)...)
	for r := 0; r < g.Height; r++ {
		for c := 0; c < g.Width; c++ {
			m.bits[r*g.Width+c] = !g.At(r, c).Equal(bg)
		}
	}
	return m, bg
}
