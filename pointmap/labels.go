package pointmap

import "github.com/pkg/errors"

// LabelMap assigns every pixel of every batch element to a rigid segment.
// Label 0 is the background: un-segmented points that are always visible and
// carry zero flow.
type LabelMap struct {
	batch, rows, cols int
	data              []int
}

// NewLabelMap returns a label map with every pixel set to background.
func NewLabelMap(batch, rows, cols int) *LabelMap {
	return &LabelMap{
		batch: batch,
		rows:  rows,
		cols:  cols,
		data:  make([]int, batch*rows*cols),
	}
}

// Batch returns the number of batch elements.
func (m *LabelMap) Batch() int {
	return m.batch
}

// Rows returns the number of image rows.
func (m *LabelMap) Rows() int {
	return m.rows
}

// Cols returns the number of image columns.
func (m *LabelMap) Cols() int {
	return m.cols
}

func (m *LabelMap) index(b, r, c int) int {
	return (b*m.rows+r)*m.cols + c
}

// At returns the segment label at the given pixel.
func (m *LabelMap) At(b, r, c int) int {
	return m.data[m.index(b, r, c)]
}

// Set writes the segment label at the given pixel.
func (m *LabelMap) Set(b, r, c, label int) {
	m.data[m.index(b, r, c)] = label
}

// ValidateRange checks that every label indexes validly into a pose set with
// the given number of segments.
func (m *LabelMap) ValidateRange(segments int) error {
	for i, l := range m.data {
		if l < 0 || l >= segments {
			b := i / (m.rows * m.cols)
			rem := i % (m.rows * m.cols)
			return errors.Errorf("label %d at (%d,%d,%d) out of range [0,%d)",
				l, b, rem/m.cols, rem%m.cols, segments)
		}
	}
	return nil
}
