package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

// rotZ returns a rotation by theta about the z axis plus a translation.
func rotZ(theta float64, trans r3.Vector) Transform {
	c, s := math.Cos(theta), math.Sin(theta)
	return Transform{
		c, -s, 0, trans.X,
		s, c, 0, trans.Y,
		0, 0, 1, trans.Z,
	}
}

func vecAlmostEqual(t *testing.T, got, want r3.Vector, tol float64) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, tol)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, tol)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, tol)
}

func TestIdentityTransform(t *testing.T) {
	id := NewIdentityTransform()
	p := r3.Vector{X: 1, Y: -2, Z: 3}
	test.That(t, id.Apply(p), test.ShouldResemble, p)
	test.That(t, id.Translation(), test.ShouldResemble, r3.Vector{})
}

func TestTransformApply(t *testing.T) {
	tf := rotZ(math.Pi/2, r3.Vector{X: 1, Y: 0, Z: 2})
	got := tf.Apply(r3.Vector{X: 1, Y: 0, Z: 0})
	vecAlmostEqual(t, got, r3.Vector{X: 1, Y: 1, Z: 2}, 1e-12)

	rotOnly := tf.ApplyRotation(r3.Vector{X: 1, Y: 0, Z: 0})
	vecAlmostEqual(t, rotOnly, r3.Vector{X: 0, Y: 1, Z: 0}, 1e-12)

	// rotation transpose undoes the rotation
	back := tf.ApplyRotationTranspose(rotOnly)
	vecAlmostEqual(t, back, r3.Vector{X: 1, Y: 0, Z: 0}, 1e-12)
}

func TestTransformInvert(t *testing.T) {
	tf := rotZ(0.3, r3.Vector{X: -1, Y: 2, Z: 0.5})
	inv := tf.Invert()
	p := r3.Vector{X: 0.2, Y: -0.7, Z: 1.5}
	vecAlmostEqual(t, inv.Apply(tf.Apply(p)), p, 1e-12)
	vecAlmostEqual(t, tf.Apply(inv.Apply(p)), p, 1e-12)
}

func TestTransformCompose(t *testing.T) {
	a := rotZ(0.4, r3.Vector{X: 1, Y: 2, Z: 3})
	b := rotZ(-1.1, r3.Vector{X: 0, Y: -1, Z: 0.25})
	p := r3.Vector{X: 0.5, Y: 0.5, Z: -2}

	ab := a.Compose(b)
	vecAlmostEqual(t, ab.Apply(p), a.Apply(b.Apply(p)), 1e-12)

	// composing with the inverse yields the identity
	ident := a.Compose(a.Invert())
	vecAlmostEqual(t, ident.Apply(p), p, 1e-12)
}

func TestTransformMatConversion(t *testing.T) {
	tf := rotZ(1.2, r3.Vector{X: 4, Y: 5, Z: 6})
	m := tf.Mat()
	rows, cols := m.Dims()
	test.That(t, rows, test.ShouldEqual, 3)
	test.That(t, cols, test.ShouldEqual, 4)

	back, err := NewTransformFromMat(m)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, tf)

	_, err = NewTransformFromMat(mat.NewDense(4, 4, nil))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be 3x4")
}

func TestTransformMglConversion(t *testing.T) {
	tf := rotZ(-0.8, r3.Vector{X: 1, Y: 1, Z: 1})
	back := NewTransformFromMgl4(tf.Mgl4())
	test.That(t, back, test.ShouldResemble, tf)
}

func TestSquaredDistance(t *testing.T) {
	a := r3.Vector{X: 1, Y: 2, Z: 3}
	b := r3.Vector{X: 2, Y: 0, Z: 5}
	test.That(t, SquaredDistance(a, b), test.ShouldAlmostEqual, 9.0, 1e-12)
	test.That(t, SquaredDistance(a, a), test.ShouldEqual, 0.0)
}
