package pointmap

// VisibilityMap records, per pixel per batch element, whether a valid
// correspondence was found in the other frame. Pixels default to not visible.
type VisibilityMap struct {
	batch, rows, cols int
	data              []bool
}

// NewVisibilityMap returns a visibility map with every pixel not visible.
func NewVisibilityMap(batch, rows, cols int) *VisibilityMap {
	return &VisibilityMap{
		batch: batch,
		rows:  rows,
		cols:  cols,
		data:  make([]bool, batch*rows*cols),
	}
}

// Batch returns the number of batch elements.
func (m *VisibilityMap) Batch() int {
	return m.batch
}

// Rows returns the number of image rows.
func (m *VisibilityMap) Rows() int {
	return m.rows
}

// Cols returns the number of image columns.
func (m *VisibilityMap) Cols() int {
	return m.cols
}

func (m *VisibilityMap) index(b, r, c int) int {
	return (b*m.rows+r)*m.cols + c
}

// At returns whether the given pixel is visible.
func (m *VisibilityMap) At(b, r, c int) bool {
	return m.data[m.index(b, r, c)]
}

// Set writes the visibility of the given pixel.
func (m *VisibilityMap) Set(b, r, c int, visible bool) {
	m.data[m.index(b, r, c)] = visible
}

// CountVisible returns the number of visible pixels across all batch elements.
func (m *VisibilityMap) CountVisible() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}
