package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Truthy(t *testing.T) {
	assert.True(t, Value{1, 2, 3}.Truthy())
	assert.False(t, Value{1, 0, 3}.Truthy())
	assert.False(t, Value{0}.Truthy())
	assert.True(t, Value{}.Truthy(), "an empty value has no zero channel")
}

func TestGrid_CropIsDeepCopy(t *testing.T) {
	g := FromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	sub := g.Crop(1, 3, 1, 3)
	require.Equal(t, 2, sub.Height)
	require.Equal(t, 2, sub.Width)
	assert.Equal(t, []uint8{5, 6, 8, 9}, sub.Pix)

	sub.Set(0, 0, Value{42})
	assert.Equal(t, uint8(5), g.At(1, 1)[0], "source must not change")
}

func TestGrid_CropClampsAndEmpties(t *testing.T) {
	g := FromRows([][]uint8{{1, 2}, {3, 4}})

	all := g.Crop(-3, 10, -1, 5)
	assert.True(t, all.Equal(g))

	empty := g.Crop(2, 1, 0, 2)
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Height)
	assert.Equal(t, 0, empty.Width)
}

func TestFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(2, 1, color.Gray{Y: 200})

	g, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Channels)
	assert.Equal(t, Value{200}, g.At(1, 2))
}

func TestFromImage_SubImageOffset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	g, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, Value{9, 8, 7, 255}, g.At(0, 0))
}

func TestFromImage_PalettedRoundTrip(t *testing.T) {
	pal := color.Palette{color.Black, color.White, color.NRGBA{R: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	img.SetColorIndex(1, 0, 2)

	g, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, Value{2}, g.At(0, 1))

	out, err := g.ToImage()
	require.NoError(t, err)
	p, ok := out.(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, uint8(2), p.ColorIndexAt(1, 0))
}

func TestFromImage_YCbCrIsRGB(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	g, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Channels)

	out, err := g.ToImage()
	require.NoError(t, err)
	_, _, _, a := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestFromImage_Empty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 5)))
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestToImage_Empty(t *testing.T) {
	_, err := (&Grid{Channels: 4}).ToImage()
	assert.ErrorIs(t, err, ErrEmptyImage)
}
