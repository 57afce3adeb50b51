package sceneflow

import (
	"github.com/pkg/errors"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
)

func labelShapeError(cloud *pointmap.PointMap, labels *pointmap.LabelMap) error {
	return errors.Errorf("label dimensions (%dx%dx%d) don't match cloud (%dx%dx%d)",
		labels.Batch(), labels.Rows(), labels.Cols(),
		cloud.Batch(), cloud.Rows(), cloud.Cols())
}

func poseBatchError(cloud *pointmap.PointMap, poses *spatialmath.PoseSet) error {
	return errors.Errorf("pose set batch size (%d) doesn't match cloud batch size (%d)",
		poses.Batch(), cloud.Batch())
}
