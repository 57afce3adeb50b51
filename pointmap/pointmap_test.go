package pointmap

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPointMapAccessors(t *testing.T) {
	m := NewPointMap(2, 3, 4)
	test.That(t, m.Batch(), test.ShouldEqual, 2)
	test.That(t, m.Rows(), test.ShouldEqual, 3)
	test.That(t, m.Cols(), test.ShouldEqual, 4)
	test.That(t, m.ElementCount(), test.ShouldEqual, 2*3*3*4)

	m.SetVec(1, 2, 3, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, m.At(1, 0, 2, 3), test.ShouldEqual, 1.0)
	test.That(t, m.At(1, 1, 2, 3), test.ShouldEqual, 2.0)
	test.That(t, m.At(1, 2, 2, 3), test.ShouldEqual, 3.0)
	test.That(t, m.Vec(1, 2, 3), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	// everything else stays zero
	test.That(t, m.Vec(0, 0, 0), test.ShouldResemble, r3.Vector{})

	m.Set(0, 2, 1, 1, 9)
	test.That(t, m.Vec(0, 1, 1).Z, test.ShouldEqual, 9.0)

	clone := m.Clone()
	clone.Scale(2)
	test.That(t, clone.At(1, 1, 2, 3), test.ShouldEqual, 4.0)
	test.That(t, m.At(1, 1, 2, 3), test.ShouldEqual, 2.0)
}

func TestPointMapShape(t *testing.T) {
	a := NewPointMap(1, 4, 5)
	b := NewPointMap(1, 4, 5)
	c := NewPointMap(2, 4, 5)
	test.That(t, a.SameShape(b), test.ShouldBeTrue)
	test.That(t, a.SameShape(c), test.ShouldBeFalse)
	test.That(t, a.ShapeError("cloud", 1, 4, 5), test.ShouldBeNil)
	err := c.ShapeError("cloud", 1, 4, 5)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cloud dimensions")
}

func TestLabelMap(t *testing.T) {
	m := NewLabelMap(1, 2, 2)
	m.Set(0, 1, 0, 3)
	test.That(t, m.At(0, 1, 0), test.ShouldEqual, 3)
	test.That(t, m.At(0, 0, 0), test.ShouldEqual, 0)

	test.That(t, m.ValidateRange(4), test.ShouldBeNil)
	err := m.ValidateRange(3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "label 3 at (0,1,0)")
}

func TestWeightMap(t *testing.T) {
	m := NewWeightMap(1, 2, 2, 2)
	m.Set(0, 1, 0, 1, 0.25)
	test.That(t, m.At(0, 1, 0, 1), test.ShouldEqual, 0.25)
	test.That(t, m.At(0, 0, 0, 1), test.ShouldEqual, 0.0)

	m.Scale(-4)
	test.That(t, m.At(0, 1, 0, 1), test.ShouldEqual, -1.0)
	m.Abs()
	test.That(t, m.At(0, 1, 0, 1), test.ShouldEqual, 1.0)
}

func TestOneHotWeights(t *testing.T) {
	labels := NewLabelMap(1, 2, 2)
	labels.Set(0, 0, 0, 1)
	labels.Set(0, 1, 1, 2)

	w, err := OneHotWeights(labels, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.Segments(), test.ShouldEqual, 3)
	test.That(t, w.At(0, 1, 0, 0), test.ShouldEqual, 1.0)
	test.That(t, w.At(0, 0, 0, 0), test.ShouldEqual, 0.0)
	test.That(t, w.At(0, 2, 1, 1), test.ShouldEqual, 1.0)
	test.That(t, w.At(0, 0, 0, 1), test.ShouldEqual, 1.0) // background channel

	_, err = OneHotWeights(labels, 2)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestVisibilityMap(t *testing.T) {
	m := NewVisibilityMap(2, 2, 2)
	test.That(t, m.At(0, 0, 0), test.ShouldBeFalse)
	m.Set(1, 1, 1, true)
	m.Set(0, 0, 1, true)
	test.That(t, m.At(1, 1, 1), test.ShouldBeTrue)
	test.That(t, m.CountVisible(), test.ShouldEqual, 2)
}
