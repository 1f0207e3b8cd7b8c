package splitter

import (
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// window is a view over a cell while trimming. Bounds are half-open.
type window struct {
	g                        *pixel.Grid
	top, bottom, left, right int
}

func (w *window) height() int { return w.bottom - w.top }
func (w *window) width() int  { return w.right - w.left }

// rowTruthy reports whether every channel of every pixel of the window row
// is non-zero.
func (w *window) rowTruthy(row int) bool {
	for c := w.left; c < w.right; c++ {
		if !w.g.At(w.top+row, c).Truthy() {
			return false
		}
	}
	return true
}

// columnUniform reports whether every window row holds the same pixel at the
// window column.
func (w *window) columnUniform(col int) bool {
	value := w.g.At(w.top, w.left+col)
	for r := w.top + 1; r < w.bottom; r++ {
		if !w.g.At(r, w.left+col).Equal(value) {
			return false
		}
	}
	return true
}

// sliceEnd resolves an exclusive slice end the way a negative stop index
// counts back from the end of a sequence of length n.
func sliceEnd(stop, n int) int {
	if stop < 0 {
		stop += n
	}
	if stop < 0 {
		return 0
	}
	return min(stop, n)
}

func (w *window) cutTop() {
	limit := 0
	for limit < w.height() && w.rowTruthy(limit) {
		limit++
	}
	w.top += limit
}

// cutBottom stops at the last row that is not all truthy and then uses that
// index as the exclusive end, so that row is dropped as well.
func (w *window) cutBottom() {
	limit := w.height() - 1
	for limit >= 0 && w.rowTruthy(limit) {
		limit--
	}
	w.bottom = w.top + sliceEnd(limit, w.height())
}

func (w *window) cutLeft() {
	limit := 0
	for limit < w.width() && w.columnUniform(limit) {
		limit++
	}
	w.left += limit
}

// cutRight mirrors cutBottom over columns, including its one column short end.
func (w *window) cutRight() {
	limit := w.width() - 1
	for limit >= 0 && w.columnUniform(limit) {
		limit--
	}
	w.right = w.left + sliceEnd(limit, w.width())
}

// AutoTrim removes the border of a cell in four passes: top and bottom rows
// whose pixels are all truthy, then left and right columns that hold a single
// value. Each pass sees the result of the previous one. A cell trimmed to
// nothing comes back as an empty 0×0 grid.
func AutoTrim(cell *pixel.Grid) *pixel.Grid {
	w := &window{g: cell, bottom: cell.Height, right: cell.Width}

	w.cutTop()
	w.cutBottom()
	if w.height() <= 0 {
		return cell.Crop(0, 0, 0, 0)
	}
	w.cutLeft()
	w.cutRight()
	if w.width() <= 0 {
		return cell.Crop(0, 0, 0, 0)
	}
	return cell.Crop(w.top, w.bottom, w.left, w.right)
}
