// Package pointmap provides dense, image-ordered per-pixel maps: 3D point
// maps, segment label maps, soft segment weight maps and visibility masks.
//
// All maps own a single contiguous row-major buffer and expose explicit
// multi-dimensional accessors, so concurrent sweeps can rely on disjoint
// writes without any pointer arithmetic.
package pointmap

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PointChannels is the number of coordinate channels in a PointMap (x, y, z).
const PointChannels = 3

// PointMap is an ordered 3D coordinate per pixel per batch element, laid out
// batch x 3 x rows x cols.
type PointMap struct {
	batch, rows, cols int
	data              []float64
}

// NewPointMap returns a zero-filled point map of the given dimensions.
func NewPointMap(batch, rows, cols int) *PointMap {
	return &PointMap{
		batch: batch,
		rows:  rows,
		cols:  cols,
		data:  make([]float64, batch*PointChannels*rows*cols),
	}
}

// Batch returns the number of batch elements.
func (m *PointMap) Batch() int {
	return m.batch
}

// Rows returns the number of image rows.
func (m *PointMap) Rows() int {
	return m.rows
}

// Cols returns the number of image columns.
func (m *PointMap) Cols() int {
	return m.cols
}

// ElementCount returns the total number of scalars stored in the map.
func (m *PointMap) ElementCount() int {
	return len(m.data)
}

func (m *PointMap) index(b, ch, r, c int) int {
	return ((b*PointChannels+ch)*m.rows+r)*m.cols + c
}

// At returns the scalar at the given batch, channel, row and column.
func (m *PointMap) At(b, ch, r, c int) float64 {
	return m.data[m.index(b, ch, r, c)]
}

// Set writes the scalar at the given batch, channel, row and column.
func (m *PointMap) Set(b, ch, r, c int, v float64) {
	m.data[m.index(b, ch, r, c)] = v
}

// Vec returns the 3D point at the given pixel.
func (m *PointMap) Vec(b, r, c int) r3.Vector {
	i := m.index(b, 0, r, c)
	plane := m.rows * m.cols
	return r3.Vector{X: m.data[i], Y: m.data[i+plane], Z: m.data[i+2*plane]}
}

// SetVec writes the 3D point at the given pixel.
func (m *PointMap) SetVec(b, r, c int, v r3.Vector) {
	i := m.index(b, 0, r, c)
	plane := m.rows * m.cols
	m.data[i] = v.X
	m.data[i+plane] = v.Y
	m.data[i+2*plane] = v.Z
}

// SameShape reports whether the two maps have identical dimensions.
func (m *PointMap) SameShape(o *PointMap) bool {
	return m.batch == o.batch && m.rows == o.rows && m.cols == o.cols
}

// Scale multiplies every scalar in the map by f.
func (m *PointMap) Scale(f float64) {
	for i := range m.data {
		m.data[i] *= f
	}
}

// Clone returns a deep copy of the map.
func (m *PointMap) Clone() *PointMap {
	out := NewPointMap(m.batch, m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// ShapeError returns an error describing a dimension mismatch between the map
// and the expected dimensions, or nil if they match.
func (m *PointMap) ShapeError(what string, batch, rows, cols int) error {
	if m.batch == batch && m.rows == rows && m.cols == cols {
		return nil
	}
	return errors.Errorf("%s dimensions (%dx%dx%dx%d) don't match expected (%dx%dx%dx%d)",
		what, m.batch, PointChannels, m.rows, m.cols, batch, PointChannels, rows, cols)
}
