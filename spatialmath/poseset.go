package spatialmath

import "github.com/pkg/errors"

// PoseSet holds one rigid transform per segment per batch element. It doubles
// as the gradient buffer for transform parameters, since gradients share the
// flattened 3x4 layout.
type PoseSet struct {
	batch, segments int
	transforms      []Transform
}

// NewPoseSet returns a pose set with every transform set to the identity.
func NewPoseSet(batch, segments int) *PoseSet {
	ps := NewZeroPoseSet(batch, segments)
	for i := range ps.transforms {
		ps.transforms[i] = NewIdentityTransform()
	}
	return ps
}

// NewZeroPoseSet returns a pose set with every transform zeroed, suitable as a
// gradient accumulation buffer.
func NewZeroPoseSet(batch, segments int) *PoseSet {
	return &PoseSet{
		batch:      batch,
		segments:   segments,
		transforms: make([]Transform, batch*segments),
	}
}

// Batch returns the number of batch elements.
func (ps *PoseSet) Batch() int {
	return ps.batch
}

// Segments returns the number of transforms per batch element.
func (ps *PoseSet) Segments() int {
	return ps.segments
}

// ParamCount returns the total number of scalar transform parameters held by
// the set.
func (ps *PoseSet) ParamCount() int {
	return len(ps.transforms) * TransformParams
}

// At returns the transform for segment k of batch element b. The returned
// pointer aliases the set's storage; mutating it mutates the set.
func (ps *PoseSet) At(b, k int) *Transform {
	return &ps.transforms[b*ps.segments+k]
}

// Set writes the transform for segment k of batch element b.
func (ps *PoseSet) Set(b, k int, t Transform) {
	ps.transforms[b*ps.segments+k] = t
}

// Invert returns a new pose set holding the inverse of every transform.
func (ps *PoseSet) Invert() *PoseSet {
	out := NewZeroPoseSet(ps.batch, ps.segments)
	for i := range ps.transforms {
		out.transforms[i] = ps.transforms[i].Invert()
	}
	return out
}

// Clone returns a deep copy of the pose set.
func (ps *PoseSet) Clone() *PoseSet {
	out := NewZeroPoseSet(ps.batch, ps.segments)
	copy(out.transforms, ps.transforms)
	return out
}

// AddInPlace adds every parameter of o into ps. Used to merge per-worker
// gradient accumulators after a parallel sweep.
func (ps *PoseSet) AddInPlace(o *PoseSet) error {
	if ps.batch != o.batch || ps.segments != o.segments {
		return errors.Errorf("pose set dimensions (%dx%d) don't match (%dx%d)",
			ps.batch, ps.segments, o.batch, o.segments)
	}
	for i := range ps.transforms {
		for j := 0; j < TransformParams; j++ {
			ps.transforms[i][j] += o.transforms[i][j]
		}
	}
	return nil
}

// Scale multiplies every parameter in the set by f.
func (ps *PoseSet) Scale(f float64) {
	for i := range ps.transforms {
		for j := 0; j < TransformParams; j++ {
			ps.transforms[i][j] *= f
		}
	}
}
