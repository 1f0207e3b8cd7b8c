package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrEmptyImage is returned when an image has no pixels to convert.
var ErrEmptyImage = errors.New("image has zero width or height")

// FromImage copies a decoded image into a grid.
//
// Gray images become one channel, paletted images one channel of palette
// indices, YCbCr and CMYK images three RGB channels and everything else
// four NRGBA channels.
func FromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	h, w := bounds.Dy(), bounds.Dx()

	switch src := img.(type) {
	case *image.Gray:
		g := New(h, w, 1)
		for y := 0; y < h; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(g.Row(y), src.Pix[start:start+w])
		}
		return g, nil

	case *image.Paletted:
		g := New(h, w, 1)
		g.Palette = append(color.Palette(nil), src.Palette...)
		for y := 0; y < h; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(g.Row(y), src.Pix[start:start+w])
		}
		return g, nil

	case *image.YCbCr, *image.CMYK:
		g := New(h, w, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
				g.Set(y, x, Value{c.R, c.G, c.B})
			}
		}
		return g, nil
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
		bounds = nrgba.Bounds()
	}
	g := New(h, w, 4)
	for y := 0; y < h; y++ {
		start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(g.Row(y), nrgba.Pix[start:start+w*4])
	}
	return g, nil
}

// ToImage converts the grid back into an image suitable for encoding.
func (g *Grid) ToImage() (image.Image, error) {
	if g.Empty() {
		return nil, ErrEmptyImage
	}
	rect := g.Bounds()

	switch g.Channels {
	case 1:
		if len(g.Palette) > 0 {
			img := image.NewPaletted(rect, g.Palette)
			copy(img.Pix, g.Pix)
			return img, nil
		}
		img := image.NewGray(rect)
		copy(img.Pix, g.Pix)
		return img, nil

	case 3:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(g.Pix); i, j = i+3, j+4 {
			img.Pix[j] = g.Pix[i]
			img.Pix[j+1] = g.Pix[i+1]
			img.Pix[j+2] = g.Pix[i+2]
			img.Pix[j+3] = 0xff
		}
		return img, nil

	case 4:
		img := image.NewNRGBA(rect)
		copy(img.Pix, g.Pix)
		return img, nil
	}
	return nil, fmt.Errorf("unsupported channel count %d", g.Channels)
}

// Color returns the colour a pixel value represents in this grid.
func (g *Grid) Color(v Value) color.Color {
	switch len(v) {
	case 1:
		if len(g.Palette) > int(v[0]) {
			return g.Palette[v[0]]
		}
		return color.Gray{Y: v[0]}
	case 3:
		return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xff}
	case 4:
		return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
	}
	return color.Transparent
}
