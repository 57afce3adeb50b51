package blend

import (
	"github.com/pkg/errors"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
)

func weightShapeError(points *pointmap.PointMap, weights *pointmap.WeightMap) error {
	return errors.Errorf("weight dimensions (%dx%dx%dx%d) don't match points (%dx%dx%dx%d)",
		weights.Batch(), weights.Segments(), weights.Rows(), weights.Cols(),
		points.Batch(), pointmap.PointChannels, points.Rows(), points.Cols())
}

func poseBatchError(points *pointmap.PointMap, poses *spatialmath.PoseSet) error {
	return errors.Errorf("pose set batch size (%d) doesn't match points batch size (%d)",
		poses.Batch(), points.Batch())
}

func segmentCountError(weights *pointmap.WeightMap, poses *spatialmath.PoseSet) error {
	return errors.Errorf("weight map has %d segment channels but pose set has %d transforms",
		weights.Segments(), poses.Segments())
}
