// Package spatialmath defines the rigid transforms and pose sets used by the
// scene-flow and blended-transform engines.
package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TransformParams is the number of scalar parameters in a flattened rigid
// transform (a row-major 3x4 matrix: 3x3 rotation block plus translation
// column).
const TransformParams = 12

// Transform is a rigid body transform stored as a flattened row-major 3x4
// matrix. Element (i,j) lives at index i*4+j; column 3 is the translation.
// The layout matches the flattened pose tensors handed over by callers, so a
// pose set can be viewed as a flat parameter buffer without copying.
type Transform [TransformParams]float64

// NewIdentityTransform returns the identity rigid transform.
func NewIdentityTransform() Transform {
	var t Transform
	t[0], t[5], t[10] = 1, 1, 1
	return t
}

// NewTranslationTransform returns a pure translation by v.
func NewTranslationTransform(v r3.Vector) Transform {
	t := NewIdentityTransform()
	t[3], t[7], t[11] = v.X, v.Y, v.Z
	return t
}

// NewTransformFromMat converts a gonum 3x4 matrix into a Transform.
func NewTransformFromMat(m mat.Matrix) (Transform, error) {
	var t Transform
	rows, cols := m.Dims()
	if rows != 3 || cols != 4 {
		return t, errors.Errorf("rigid transform matrix must be 3x4, got %dx%d", rows, cols)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			t[i*4+j] = m.At(i, j)
		}
	}
	return t, nil
}

// Mat returns the transform as a gonum 3x4 dense matrix.
func (t *Transform) Mat() *mat.Dense {
	out := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out.Set(i, j, t[i*4+j])
		}
	}
	return out
}

// Mgl4 returns the transform as a homogeneous 4x4 matrix.
func (t *Transform) Mgl4() mgl64.Mat4 {
	out := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out.Set(i, j, t[i*4+j])
		}
	}
	return out
}

// NewTransformFromMgl4 converts the upper 3x4 block of a homogeneous 4x4
// matrix into a Transform. The bottom row is assumed to be (0,0,0,1).
func NewTransformFromMgl4(m mgl64.Mat4) Transform {
	var t Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			t[i*4+j] = m.At(i, j)
		}
	}
	return t
}

// Apply transforms the point p, rotating and translating it.
func (t *Transform) Apply(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: t[0]*p.X + t[1]*p.Y + t[2]*p.Z + t[3],
		Y: t[4]*p.X + t[5]*p.Y + t[6]*p.Z + t[7],
		Z: t[8]*p.X + t[9]*p.Y + t[10]*p.Z + t[11],
	}
}

// ApplyRotation applies only the rotation block to v.
func (t *Transform) ApplyRotation(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: t[0]*v.X + t[1]*v.Y + t[2]*v.Z,
		Y: t[4]*v.X + t[5]*v.Y + t[6]*v.Z,
		Z: t[8]*v.X + t[9]*v.Y + t[10]*v.Z,
	}
}

// ApplyRotationTranspose applies the transpose of the rotation block to v.
// For a rigid transform this is the inverse rotation; it is also what pushes a
// gradient back through the linear part of Apply.
func (t *Transform) ApplyRotationTranspose(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: t[0]*v.X + t[4]*v.Y + t[8]*v.Z,
		Y: t[1]*v.X + t[5]*v.Y + t[9]*v.Z,
		Z: t[2]*v.X + t[6]*v.Y + t[10]*v.Z,
	}
}

// Translation returns the translation column.
func (t *Transform) Translation() r3.Vector {
	return r3.Vector{X: t[3], Y: t[7], Z: t[11]}
}

// Invert returns the inverse rigid transform (R^T, -R^T t).
func (t *Transform) Invert() Transform {
	ti := t.Translation()
	nt := t.ApplyRotationTranspose(ti).Mul(-1)
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*4+j] = t[j*4+i]
		}
	}
	out[3], out[7], out[11] = nt.X, nt.Y, nt.Z
	return out
}

// Compose returns the transform that applies o first and then t, i.e. the
// matrix product t * o.
func (t *Transform) Compose(o Transform) Transform {
	return NewTransformFromMgl4(t.Mgl4().Mul4(o.Mgl4()))
}

// SquaredDistance returns the squared Euclidean distance between two points.
func SquaredDistance(a, b r3.Vector) float64 {
	return a.Sub(b).Norm2()
}
