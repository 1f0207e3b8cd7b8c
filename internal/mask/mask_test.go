package mask

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

func rgba(rows, cols int, bg pixel.Value) *pixel.Grid {
	g := pixel.New(rows, cols, 4)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, bg)
		}
	}
	return g
}

func TestBuildMask_DimensionsAndOrigin(t *testing.T) {
	tests := []struct {
		name string
		grid *pixel.Grid
	}{
		{"gray", pixel.FromRows([][]uint8{{3, 3, 1}, {0, 3, 3}})},
		{"rgba", rgba(5, 7, pixel.Value{10, 20, 30, 255})},
		{"single pixel", pixel.FromRows([][]uint8{{9}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bg := BuildMask(tt.grid)
			assert.Equal(t, tt.grid.Height, m.Height)
			assert.Equal(t, tt.grid.Width, m.Width)
			assert.False(t, m.At(0, 0))
			assert.Equal(t, tt.grid.At(0, 0), bg)
		})
	}
}

func TestBuildMask_ExactEquality(t *testing.T) {
	g := rgba(1, 3, pixel.Value{10, 20, 30, 255})
	g.Set(0, 1, pixel.Value{10, 20, 30, 254})
	g.Set(0, 2, pixel.Value{10, 20, 30, 255})

	m, _ := BuildMask(g)
	assert.False(t, m.At(0, 0))
	assert.True(t, m.At(0, 1), "a one-unit alpha difference is foreground")
	assert.False(t, m.At(0, 2))
}

func TestBuildMask_BackgroundIsCopied(t *testing.T) {
	g := pixel.FromRows([][]uint8{{4, 5}})
	_, bg := BuildMask(g)
	g.Set(0, 0, pixel.Value{99})
	assert.Equal(t, pixel.Value{4}, bg)
}

func TestFindRegions_Uniform(t *testing.T) {
	g := rgba(8, 8, pixel.Value{1, 2, 3, 4})
	m, _ := BuildMask(g)
	assert.Empty(t, FindRegions(m))
}

func TestFindRegions_SingleBlock(t *testing.T) {
	const size, k = 10, 3
	for top := 1; top+k < size; top += 2 {
		for left := 1; left+k < size; left += 3 {
			g := pixel.New(size, size, 1)
			for r := top; r < top+k; r++ {
				for c := left; c < left+k; c++ {
					g.Set(r, c, pixel.Value{255})
				}
			}
			m, _ := BuildMask(g)
			want := []BoundingBox{{Top: top, Bottom: top + k - 1, Left: left, Right: left + k - 1}}
			if diff := cmp.Diff(want, FindRegions(m)); diff != "" {
				t.Errorf("block at (%d,%d) mismatch (-want +got):\n%s", top, left, diff)
			}
		}
	}
}

func TestFindRegions_FourByFourExample(t *testing.T) {
	g := pixel.FromRows([][]uint8{
		{0, 0, 0, 0},
		{0, 7, 7, 0},
		{0, 7, 7, 0},
		{0, 0, 0, 0},
	})
	m, _ := BuildMask(g)
	assert.Equal(t, []BoundingBox{{Top: 1, Bottom: 2, Left: 1, Right: 2}}, FindRegions(m))
}

func TestFindRegions_DiagonalDotsAreSeparate(t *testing.T) {
	g := pixel.FromRows([][]uint8{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 0},
	})
	m, _ := BuildMask(g)
	assert.Equal(t, []BoundingBox{
		{Top: 1, Bottom: 1, Left: 1, Right: 1},
		{Top: 2, Bottom: 2, Left: 2, Right: 2},
	}, FindRegions(m))
}

func TestFindRegions_DiscoveryOrder(t *testing.T) {
	// The U shape is discovered at row 0 before the dot at row 1 even though
	// its box extends further down.
	g := pixel.FromRows([][]uint8{
		{0, 0, 0, 0, 5, 0, 5},
		{0, 9, 0, 0, 5, 0, 5},
		{0, 0, 0, 0, 5, 5, 5},
	})
	m, _ := BuildMask(g)
	assert.Equal(t, []BoundingBox{
		{Top: 0, Bottom: 2, Left: 4, Right: 6},
		{Top: 1, Bottom: 1, Left: 1, Right: 1},
	}, FindRegions(m))
}

func TestFindRegions_ForegroundAtOriginValue(t *testing.T) {
	// Background is whatever sits at (0,0), even when it is non-zero.
	g := pixel.FromRows([][]uint8{
		{9, 9, 9},
		{9, 0, 9},
		{9, 9, 9},
	})
	m, bg := BuildMask(g)
	assert.Equal(t, pixel.Value{9}, bg)
	assert.Equal(t, []BoundingBox{{Top: 1, Bottom: 1, Left: 1, Right: 1}}, FindRegions(m))
}

func TestFindRegions_LargeRegionDoesNotRecurse(t *testing.T) {
	const h, w = 600, 600
	g := pixel.New(h, w, 1)
	// One region covering every row but the first.
	for r := 1; r < h; r++ {
		for c := 0; c < w; c++ {
			g.Set(r, c, pixel.Value{1})
		}
	}
	m, _ := BuildMask(g)
	regions := FindRegions(m)
	require.Len(t, regions, 1)
	assert.Equal(t, BoundingBox{Top: 1, Bottom: h - 1, Left: 0, Right: w - 1}, regions[0])
}

func TestAnalyzer_AnalyzeAndExtract(t *testing.T) {
	g := pixel.FromRows([][]uint8{
		{0, 0, 0, 0, 0},
		{0, 1, 2, 0, 0},
		{0, 0, 0, 0, 3},
	})
	a := NewAnalyzer()
	res := a.Analyze(g)
	require.Len(t, res.Regions, 2)
	assert.Equal(t, 3, res.Foreground)
	assert.Equal(t, pixel.Value{0}, res.Background)

	sprites := a.Extract(g, res.Regions)
	require.Len(t, sprites, 2)
	assert.Equal(t, []uint8{1, 2}, sprites[0].Pix)
	assert.Equal(t, []uint8{3}, sprites[1].Pix)
	assert.Equal(t, 1, res.Regions[0].Height())
	assert.Equal(t, 2, res.Regions[0].Width())
}
