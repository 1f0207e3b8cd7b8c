package mask

import (
	"fmt"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// BoundingBox is the inclusive extent of one connected region.
type BoundingBox struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Height returns the number of rows covered by the box.
func (b BoundingBox) Height() int { return b.Bottom - b.Top + 1 }

// Width returns the number of columns covered by the box.
func (b BoundingBox) Width() int { return b.Right - b.Left + 1 }

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.Top, b.Bottom, b.Left, b.Right)
}

type point struct{ row, col int }

// FindRegions scans the mask in row-major order and flood fills each
// unvisited foreground pixel it meets. Regions are returned in the order
// their first pixel was discovered. Only orthogonal neighbours connect.
func FindRegions(m *Mask) []BoundingBox {
	var regions []BoundingBox
	visited := make([]bool, len(m.bits))
	var stack []point

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			idx := row*m.Width + col
			if !m.bits[idx] || visited[idx] {
				continue
			}
			var box BoundingBox
			box, stack = fill(m, visited, stack[:0], row, col)
			regions = append(regions, box)
		}
	}
	return regions
}

// fill grows one region from (row, col) with an explicit stack. The stack is
// returned so its backing array can be reused for the next region.
func fill(m *Mask, visited []bool, stack []point, row, col int) (BoundingBox, []point) {
	box := BoundingBox{Top: row, Bottom: row, Left: col, Right: col}
	visited[row*m.Width+col] = true
	stack = append(stack, point{row, col})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		box.Top = min(box.Top, p.row)
		box.Bottom = max(box.Bottom, p.row)
		box.Left = min(box.Left, p.col)
		box.Right = max(box.Right, p.col)

		for _, n := range [4]point{
			{p.row - 1, p.col},
			{p.row + 1, p.col},
			{p.row, p.col - 1},
			{p.row, p.col + 1},
		} {
			if n.row < 0 || n.row >= m.Height || n.col < 0 || n.col >= m.Width {
				continue
			}
			i := n.row*m.Width + n.col
			if m.bits[i] && !visited[i] {
				visited[i] = true
				stack = append(stack, n)
			}
		}
	}
	return box, stack
}

// Analyzer runs mask construction and region search over a grid.
type Analyzer struct{}

// NewAnalyzer returns a stateless analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Result is the outcome of analysing one sheet.
type Result struct {
	Background pixel.Value
	Foreground int
	Regions    []BoundingBox
}

// Analyze builds the mask of g and returns its regions.
func (a *Analyzer) Analyze(g *pixel.Grid) Result {
	m, bg := BuildMask(g)
	return Result{
		Background: bg,
		Foreground: m.Count(),
		Regions:    FindRegions(m),
	}
}

// Extract crops every region out of g, in region order.
func (a *Analyzer) Extract(g *pixel.Grid, regions []BoundingBox) []*pixel.Grid {
	sprites := make([]*pixel.Grid, 0, len(regions))
	for _, b := range regions {
		sprites = append(sprites, g.Crop(b.Top, b.Bottom+1, b.Left, b.Right+1))
	}
	return sprites
}
