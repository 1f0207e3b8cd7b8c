package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/worker"
)

// Saved describes one written cell
type Saved struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Batch is an ordered working list of cells bound for one destination. Cells
// are written as {base}{index}.{ext} with index counting from 0 in list order.
type Batch struct {
	Dest string
	Base string
	Ext  string

	cells []*pixel.Grid
}

// NewBatch creates an empty batch. ext may carry a leading dot.
func NewBatch(dest, base, ext string) *Batch {
	return &Batch{
		Dest: dest,
		Base: base,
		Ext:  strings.TrimPrefix(strings.TrimSpace(ext), "."),
	}
}

// Append adds cells to the end of the list
func (b *Batch) Append(cells ...*pixel.Grid) {
	b.cells = append(b.cells, cells...)
}

// Remove drops the first occurrence of cell. Removing a cell that is not in
// the list does nothing.
func (b *Batch) Remove(cell *pixel.Grid) {
	for i, c := range b.cells {
		if c == cell {
			b.cells = append(b.cells[:i], b.cells[i+1:]...)
			return
		}
	}
}

// Len returns the number of cells in the list
func (b *Batch) Len() int {
	return len(b.cells)
}

// Cells returns the working list
func (b *Batch) Cells() []*pixel.Grid {
	return b.cells
}

// Name returns the object name used for the cell at index
func (b *Batch) Name(index int) string {
	return fmt.Sprintf("%s%d.%s", b.Base, index, b.Ext)
}

// Save encodes every cell on pool and writes them through saver in index
// order. Empty cells are skipped and keep their index. pool may be nil.
func (b *Batch) Save(ctx context.Context, saver Saver, pool *worker.Pool) ([]Saved, error) {
	format, err := codec.ParseFormat(b.Ext)
	if err != nil {
		return nil, err
	}

	encoded := make([][]byte, len(b.cells))
	errs := make([]error, len(b.cells))
	jobs := make([]func(), 0, len(b.cells))
	for i, cell := range b.cells {
		if cell == nil || cell.Empty() {
			continue
		}
		i, cell := i, cell
		jobs = append(jobs, func() {
			img, err := cell.ToImage()
			if err != nil {
				errs[i] = err
				return
			}
			encoded[i], errs[i] = codec.EncodeBytes(img, format)
		})
	}
	if pool != nil {
		pool.Run(jobs...)
	} else {
		for _, job := range jobs {
			job()
		}
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to encode cell %d: %w", i, err)
		}
	}

	if err := saver.Prepare(ctx, b.Dest); err != nil {
		return nil, err
	}

	saved := make([]Saved, 0, len(jobs))
	for i, data := range encoded {
		if data == nil {
			continue
		}
		name := b.Name(i)
		location, err := saver.Put(ctx, b.Dest, name, data, format.ContentType())
		if err != nil {
			return saved, err
		}
		saved = append(saved, Saved{Index: i, Name: name, Location: location})
	}
	return saved, nil
}
