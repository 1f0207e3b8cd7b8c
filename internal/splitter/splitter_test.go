package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// coordGrid encodes each pixel's coordinates so cells can be traced back to
// the source: channel 0 is the row, channel 1 the column.
func coordGrid(h, w int) *pixel.Grid {
	g := pixel.New(h, w, 2)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			g.Set(r, c, pixel.Value{uint8(r), uint8(c)})
		}
	}
	return g
}

func TestNewConfig_RejectsZeroRowsOrColumns(t *testing.T) {
	tests := []struct {
		name          string
		rows, columns int
	}{
		{"zero rows", 0, 3},
		{"zero columns", 2, 0},
		{"both zero", 0, 0},
		{"negative rows", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.rows, tt.columns)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))

			_, err = New(Config{Rows: tt.rows, Columns: tt.columns})
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
		})
	}
}

func TestConfig_NegativeMargin(t *testing.T) {
	cfg, err := NewConfig(1, 1)
	require.NoError(t, err)
	err = cfg.WithMargins(0, -1, 0, 0).Validate()
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestConfig_Strategy(t *testing.T) {
	cfg, err := NewConfig(2, 3)
	require.NoError(t, err)
	assert.Equal(t, Strategy{Kind: StrategyAuto}, cfg.Strategy())

	for _, m := range []Margins{{Left: 1}, {Right: 1}, {Top: 1}, {Bottom: 1}} {
		s := Config{Rows: 2, Columns: 3, Margins: m}.Strategy()
		assert.Equal(t, StrategyManual, s.Kind)
		assert.Equal(t, m, s.Margins)
	}
	assert.Equal(t, "manual", StrategyManual.String())
	assert.Equal(t, "auto", StrategyAuto.String())
}

func TestApplyMargins_ZeroIsIdentity(t *testing.T) {
	g := coordGrid(5, 7)
	out, err := ApplyMargins(g, Margins{})
	require.NoError(t, err)
	assert.True(t, out.Equal(g))
}

func TestApplyMargins_Order(t *testing.T) {
	g := coordGrid(8, 10)
	out, err := ApplyMargins(g, Margins{Left: 2, Right: 3, Top: 1, Bottom: 4})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Height)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, pixel.Value{1, 2}, out.At(0, 0))
	assert.Equal(t, pixel.Value{3, 6}, out.At(2, 4))
}

func TestApplyMargins_CollapsingDimension(t *testing.T) {
	g := coordGrid(4, 5)
	tests := []struct {
		name    string
		margins Margins
	}{
		{"columns exactly consumed", Margins{Left: 3, Right: 2}},
		{"left alone too wide", Margins{Left: 9}},
		{"rows exactly consumed", Margins{Top: 2, Bottom: 2}},
		{"bottom alone too tall", Margins{Bottom: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyMargins(g, tt.margins)
			assert.Nil(t, out)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMargin), "got %v", err)
		})
	}
}

func TestSpans(t *testing.T) {
	assert.Equal(t, []Span{{0, 2}, {2, 4}, {4, 6}}, RowSpans(7, 3))
	assert.Equal(t, []Span{{0, 3}, {3, 6}, {6, 10}}, ColumnSpans(10, 3))
	assert.Equal(t, []Span{{0, 1}, {1, 3}, {3, 5}}, ColumnSpans(5, 3))
}

func TestSplitGrid_CountOrderAndCoverage(t *testing.T) {
	tests := []struct {
		h, w, rows, columns int
	}{
		{7, 10, 3, 3},
		{6, 6, 2, 3},
		{13, 17, 4, 5},
		{5, 5, 1, 1},
		{9, 11, 9, 11},
	}

	for _, tt := range tests {
		g := coordGrid(tt.h, tt.w)
		cells, err := SplitGrid(g, tt.rows, tt.columns)
		require.NoError(t, err)
		require.Len(t, cells, tt.rows*tt.columns)

		rowSum := 0
		for i := 0; i < tt.rows; i++ {
			rowSum += cells[i*tt.columns].Height
		}
		colSum := 0
		for j := 0; j < tt.columns; j++ {
			colSum += cells[j].Width
		}
		assert.Equal(t, tt.rows*(tt.h/tt.rows), rowSum, "%+v", tt)
		assert.Equal(t, tt.w, colSum, "%+v", tt)

		rowSpans := RowSpans(tt.h, tt.rows)
		colSpans := ColumnSpans(tt.w, tt.columns)
		for i := 0; i < tt.rows; i++ {
			for j := 0; j < tt.columns; j++ {
				origin := cells[i*tt.columns+j].At(0, 0)
				assert.Equal(t, pixel.Value{uint8(rowSpans[i].Start), uint8(colSpans[j].Start)}, origin)
			}
		}
	}
}

func TestSplitGrid_CellsAreIndependent(t *testing.T) {
	g := coordGrid(4, 4)
	cells, err := SplitGrid(g, 2, 2)
	require.NoError(t, err)
	cells[0].Set(0, 0, pixel.Value{99, 99})
	assert.Equal(t, pixel.Value{0, 0}, g.At(0, 0))
}

func TestSplitGrid_FinerThanImage(t *testing.T) {
	g := coordGrid(2, 4)

	cells, err := SplitGrid(g, 3, 1)
	require.NoError(t, err)
	require.Len(t, cells, 3)
	for i, c := range cells {
		assert.True(t, c.Empty(), "cell %d", i)
	}

	// band width 0.5: every other column band is empty
	cells, err = SplitGrid(g, 1, 8)
	require.NoError(t, err)
	require.Len(t, cells, 8)
	for j, c := range cells {
		if j%2 == 0 {
			assert.True(t, c.Empty(), "cell %d", j)
			continue
		}
		assert.Equal(t, 2, c.Height, "cell %d", j)
		assert.Equal(t, 1, c.Width, "cell %d", j)
		assert.True(t, c.Equal(g.Crop(0, 2, j/2, j/2+1)), "cell %d", j)
	}

	cells, err = SplitGrid(pixel.New(3, 5, 1), 4, 2)
	require.NoError(t, err)
	assert.Len(t, cells, 8)
}

func TestSplitter_AutoFinerThanImageKeepsEveryCell(t *testing.T) {
	sp, err := New(Config{Rows: 1, Columns: 8})
	require.NoError(t, err)

	cells, err := sp.Split(coordGrid(2, 4))
	require.NoError(t, err)
	require.Len(t, cells, 8)
	assert.True(t, cells[0].Empty())
}

func TestSplitter_ManualExample(t *testing.T) {
	g := coordGrid(6, 6)

	tests := []struct {
		name     string
		margins  Margins
		firstRow uint8
	}{
		{"bottom margin", Margins{Bottom: 1}, 0},
		{"top margin", Margins{Top: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Config{Rows: 2, Columns: 3, Margins: tt.margins})
			require.NoError(t, err)
			require.Equal(t, StrategyManual, s.Strategy().Kind)

			cells, err := s.Split(g)
			require.NoError(t, err)
			require.Len(t, cells, 6)
			for _, c := range cells {
				assert.Equal(t, 2, c.Height)
				assert.Equal(t, 2, c.Width)
			}
			assert.Equal(t, pixel.Value{tt.firstRow, 0}, cells[0].At(0, 0))
			assert.Equal(t, pixel.Value{tt.firstRow + 2, 4}, cells[5].At(0, 0))
		})
	}
}

func TestSplitter_ManualSkipsTrim(t *testing.T) {
	g := pixel.New(6, 6, 1)
	s, err := New(Config{Rows: 2, Columns: 3}.WithMargins(0, 0, 1, 0))
	require.NoError(t, err)
	cells, err := s.Split(g)
	require.NoError(t, err)
	for _, c := range cells {
		assert.False(t, c.Empty(), "manual cells are never trimmed")
	}
}

func TestSplitter_AutoTrimsEveryCell(t *testing.T) {
	cell := [][]uint8{
		{0, 0, 0, 0},
		{0, 7, 8, 0},
		{0, 9, 6, 0},
		{0, 0, 0, 0},
	}
	rows := make([][]uint8, 8)
	for r := range rows {
		rows[r] = append(append([]uint8{}, cell[r%4]...), cell[r%4]...)
	}
	g := pixel.FromRows(rows)

	s, err := New(Config{Rows: 2, Columns: 2})
	require.NoError(t, err)
	cells, err := s.Split(g)
	require.NoError(t, err)
	require.Len(t, cells, 4)
	for _, c := range cells {
		assert.Equal(t, 3, c.Height)
		assert.Equal(t, 1, c.Width)
		assert.Equal(t, []uint8{0, 7, 9}, c.Pix)
	}
}

func TestSplitter_PropagatesMarginError(t *testing.T) {
	s, err := New(Config{Rows: 1, Columns: 1}.WithMargins(3, 3, 0, 0))
	require.NoError(t, err)
	_, err = s.Split(coordGrid(4, 6))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMargin))
}
