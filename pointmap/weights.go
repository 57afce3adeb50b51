package pointmap

import "github.com/pkg/errors"

// WeightMap holds a nonnegative blending weight per pixel per segment channel,
// laid out batch x segments x rows x cols. Weights need not sum to one; the
// blend engine computes a literal weighted sum, not a convex combination.
type WeightMap struct {
	batch, segments, rows, cols int
	data                        []float64
}

// NewWeightMap returns a zero-filled weight map of the given dimensions.
func NewWeightMap(batch, segments, rows, cols int) *WeightMap {
	return &WeightMap{
		batch:    batch,
		segments: segments,
		rows:     rows,
		cols:     cols,
		data:     make([]float64, batch*segments*rows*cols),
	}
}

// OneHotWeights converts a hard label map into the equivalent soft weight map:
// weight 1 on the labeled segment channel, 0 elsewhere. Hard assignment is the
// degenerate one-hot case of soft weighting, so blending with these weights
// reproduces the per-label rigid transform exactly.
func OneHotWeights(labels *LabelMap, segments int) (*WeightMap, error) {
	if err := labels.ValidateRange(segments); err != nil {
		return nil, errors.Wrap(err, "cannot one-hot encode labels")
	}
	w := NewWeightMap(labels.Batch(), segments, labels.Rows(), labels.Cols())
	for b := 0; b < labels.Batch(); b++ {
		for r := 0; r < labels.Rows(); r++ {
			for c := 0; c < labels.Cols(); c++ {
				w.Set(b, labels.At(b, r, c), r, c, 1)
			}
		}
	}
	return w, nil
}

// Batch returns the number of batch elements.
func (m *WeightMap) Batch() int {
	return m.batch
}

// Segments returns the number of segment channels.
func (m *WeightMap) Segments() int {
	return m.segments
}

// Rows returns the number of image rows.
func (m *WeightMap) Rows() int {
	return m.rows
}

// Cols returns the number of image columns.
func (m *WeightMap) Cols() int {
	return m.cols
}

func (m *WeightMap) index(b, k, r, c int) int {
	return ((b*m.segments+k)*m.rows+r)*m.cols + c
}

// At returns the weight of segment channel k at the given pixel.
func (m *WeightMap) At(b, k, r, c int) float64 {
	return m.data[m.index(b, k, r, c)]
}

// Set writes the weight of segment channel k at the given pixel.
func (m *WeightMap) Set(b, k, r, c int, v float64) {
	m.data[m.index(b, k, r, c)] = v
}

// Scale multiplies every weight by f.
func (m *WeightMap) Scale(f float64) {
	for i := range m.data {
		m.data[i] *= f
	}
}

// Abs replaces every weight with its absolute value.
func (m *WeightMap) Abs() {
	for i := range m.data {
		if m.data[i] < 0 {
			m.data[i] = -m.data[i]
		}
	}
}
