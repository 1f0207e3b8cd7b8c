package pixel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Value is a single pixel: one byte per channel.
type Value []uint8

// Equal reports whether two pixel values hold identical channels.
func (v Value) Equal(o Value) bool {
	return bytes.Equal(v, o)
}

// Truthy reports whether every channel is non-zero.
func (v Value) Truthy() bool {
	for _, c := range v {
		if c == 0 {
			return false
		}
	}
	return true
}

// Grid is a row-major pixel array of Height rows by Width columns.
// Pix holds Height*Width*Channels bytes.
type Grid struct {
	Height   int
	Width    int
	Channels int
	Pix      []uint8

	// Palette is set for grids decoded from paletted images; the single
	// channel then holds palette indices.
	Palette color.Palette
}

// New allocates a zeroed grid.
func New(height, width, channels int) *Grid {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Grid{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]uint8, height*width*channels),
	}
}

// Empty reports whether the grid has no pixels.
func (g *Grid) Empty() bool {
	return g.Height == 0 || g.Width == 0
}

func (g *Grid) offset(row, col int) int {
	return (row*g.Width + col) * g.Channels
}

// At returns the pixel at (row, col). The returned slice aliases the grid.
func (g *Grid) At(row, col int) Value {
	i := g.offset(row, col)
	return Value(g.Pix[i : i+g.Channels : i+g.Channels])
}

// Set overwrites the pixel at (row, col).
func (g *Grid) Set(row, col int, v Value) {
	copy(g.Pix[g.offset(row, col):g.offset(row, col)+g.Channels], v)
}

// Row returns the bytes of one row. The returned slice aliases the grid.
func (g *Grid) Row(row int) []uint8 {
	start := g.offset(row, 0)
	return g.Pix[start : start+g.Width*g.Channels]
}

// Crop copies rows [top, bottom) and columns [left, right) into a new grid.
// Out of range bounds are clamped; an inverted range yields an empty grid.
func (g *Grid) Crop(top, bottom, left, right int) *Grid {
	top, bottom = clampRange(top, bottom, g.Height)
	left, right = clampRange(left, right, g.Width)

	out := New(bottom-top, right-left, g.Channels)
	out.Palette = g.Palette
	if out.Empty() {
		return &Grid{Channels: g.Channels, Palette: g.Palette}
	}
	rowBytes := out.Width * g.Channels
	for r := 0; r < out.Height; r++ {
		src := g.offset(top+r, left)
		copy(out.Pix[r*rowBytes:(r+1)*rowBytes], g.Pix[src:src+rowBytes])
	}
	return out
}

// Equal reports whether two grids have the same shape and pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g.Height != o.Height || g.Width != o.Width {
		return false
	}
	if g.Empty() {
		return true
	}
	return g.Channels == o.Channels && bytes.Equal(g.Pix, o.Pix)
}

// String describes the grid shape.
func (g *Grid) String() string {
	return fmt.Sprintf("%dx%dx%d", g.Height, g.Width, g.Channels)
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// FromRows builds a single channel grid from rows of intensities. It is
// mostly useful for tests and small literal grids.
func FromRows(rows [][]uint8) *Grid {
	if len(rows) == 0 {
		return &Grid{Channels: 1}
	}
	g := New(len(rows), len(rows[0]), 1)
	for r, line := range rows {
		copy(g.Row(r), line)
	}
	return g
}

// Bounds returns the grid as an image rectangle anchored at the origin.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}
