// Package sceneflow establishes pixelwise visibility and 3D scene-flow
// correspondence between two point-cloud frames with per-pixel rigid-segment
// labels. Matching happens in each segment's local (body) frame: a point is
// visible in the other frame when some pixel of the same segment lies within a
// distance threshold of it in local coordinates, searched over a small window
// around its predicted projection.
package sceneflow

import (
	"go.uber.org/multierr"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
	"github.com/motionseg/pointflow/utils"
)

// LocalCoordinates maps every point into the local coordinate frame of its
// labeled segment: local[p] = inversePoses[label[p]] * cloud[p]. Background
// pixels (label 0) use pose slot 0, which callers conventionally set to the
// identity. The output is freshly allocated; inputs are not mutated.
func LocalCoordinates(
	cloud *pointmap.PointMap,
	labels *pointmap.LabelMap,
	inversePoses *spatialmath.PoseSet,
) (*pointmap.PointMap, error) {
	if err := validateFrame(cloud, labels, inversePoses); err != nil {
		return nil, err
	}
	local := pointmap.NewPointMap(cloud.Batch(), cloud.Rows(), cloud.Cols())
	utils.ParallelForEachCell(cloud.Batch(), cloud.Rows(), cloud.Cols(), func(b, r, c int) {
		inv := inversePoses.At(b, labels.At(b, r, c))
		local.SetVec(b, r, c, inv.Apply(cloud.Vec(b, r, c)))
	})
	return local, nil
}

// validateFrame checks that a frame's cloud, labels and poses agree on shape
// and that every label indexes a pose.
func validateFrame(
	cloud *pointmap.PointMap,
	labels *pointmap.LabelMap,
	poses *spatialmath.PoseSet,
) error {
	var err error
	if labels.Batch() != cloud.Batch() || labels.Rows() != cloud.Rows() || labels.Cols() != cloud.Cols() {
		err = multierr.Append(err, labelShapeError(cloud, labels))
	}
	if poses.Batch() != cloud.Batch() {
		err = multierr.Append(err, poseBatchError(cloud, poses))
	}
	if err != nil {
		return err
	}
	return labels.ValidateRange(poses.Segments())
}
