package splitter

import (
	"fmt"

	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// ApplyMargins strips Left then Right columns, then Top then Bottom rows.
// It fails before slicing when a margin would leave no column or no row.
func ApplyMargins(g *pixel.Grid, m Margins) (*pixel.Grid, error) {
	if m.Left < 0 || m.Right < 0 || m.Top < 0 || m.Bottom < 0 {
		return nil, apperrors.NewConfigurationError("margins cannot be negative", nil)
	}
	if g.Width-m.Left-m.Right <= 0 {
		return nil, apperrors.NewMarginError(
			fmt.Sprintf("left and right margins (%d, %d) leave no column of a %d pixel wide image",
				m.Left, m.Right, g.Width), nil)
	}
	if g.Height-m.Top-m.Bottom <= 0 {
		return nil, apperrors.NewMarginError(
			fmt.Sprintf("top and bottom margins (%d, %d) leave no row of a %d pixel high image",
				m.Top, m.Bottom, g.Height), nil)
	}

	top, bottom, left, right := 0, g.Height, 0, g.Width
	if m.Left != 0 {
		left = m.Left
	}
	if m.Right != 0 {
		right = g.Width - m.Right
	}
	if m.Top != 0 {
		top = m.Top
	}
	if m.Bottom != 0 {
		bottom = g.Height - m.Bottom
	}
	return g.Crop(top, bottom, left, right), nil
}

// Span is a half-open [Start, End) interval of rows or columns.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of rows or columns in the span.
func (s Span) Len() int { return s.End - s.Start }

// RowSpans partitions height into rows equal bands using integer division.
// Remainder rows below the last band are dropped.
func RowSpans(height, rows int) []Span {
	size := height / rows
	spans := make([]Span, rows)
	for i := range spans {
		spans[i] = Span{Start: i * size, End: (i + 1) * size}
	}
	return spans
}

// ColumnSpans partitions width into columns bands using a real-valued band
// width, so the remainder is spread over the band boundaries.
func ColumnSpans(width, columns int) []Span {
	size := float64(width) / float64(columns)
	spans := make([]Span, columns)
	for j := range spans {
		spans[j] = Span{Start: int(size * float64(j)), End: int(size * float64(j+1))}
	}
	return spans
}

// SplitGrid cuts g into rows × columns cells, row-major. Each cell is an
// independent copy. A grid finer than the image yields empty cells where a
// band has no pixels.
func SplitGrid(g *pixel.Grid, rows, columns int) ([]*pixel.Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("row or column cannot be less than 1, (row, col)=(%d, %d)", rows, columns), nil)
	}

	rowSpans := RowSpans(g.Height, rows)
	colSpans := ColumnSpans(g.Width, columns)
	cells := make([]*pixel.Grid, 0, rows*columns)
	for _, rs := range rowSpans {
		for _, cs := range colSpans {
			cells = append(cells, g.Crop(rs.Start, rs.End, cs.Start, cs.End))
		}
	}
	return cells, nil
}
