// Package preview scales a sheet down for display.
package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// Size returns the largest size with the aspect ratio of src that fits in
// maxW × maxH. Images already inside the box keep their size.
func Size(src image.Point, maxW, maxH int) image.Point {
	if src.X <= 0 || src.Y <= 0 || maxW <= 0 || maxH <= 0 {
		return image.Point{}
	}
	if src.X <= maxW && src.Y <= maxH {
		return src
	}
	ratio := float64(src.X) / float64(src.Y)
	w := maxW
	h := int(float64(w) / ratio)
	if h > maxH {
		h = maxH
		w = int(float64(h) * ratio)
	}
	return image.Pt(max(w, 1), max(h, 1))
}

// Fit scales img down into maxW × maxH preserving its aspect ratio. It never
// enlarges.
func Fit(img image.Image, maxW, maxH int) image.Image {
	size := Size(img.Bounds().Size(), maxW, maxH)
	if size == img.Bounds().Size() || size == (image.Point{}) {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
