package sceneflow

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/motionseg/pointflow/camera"
	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
	"github.com/motionseg/pointflow/utils"
)

// Debug enables per-call correspondence statistics on the global logger.
var Debug = false

// Result holds both directions of a visibility/flow computation between two
// frames. Flow12 and Visible1 describe frame 1's pixels matched into frame 2;
// Flow21 and Visible2 the reverse. Flow vectors are camera-frame displacements
// and are zero wherever the pixel is not visible.
type Result struct {
	Flow12, Flow21     *pointmap.PointMap
	Visible1, Visible2 *pointmap.VisibilityMap
}

// ComputeVisibilityAndFlow computes pixelwise visibility and 3D scene flow
// between two labeled point-cloud frames, in both directions. poses1 and
// poses2 are the forward (body to camera) transforms of each frame's segments;
// the camera-to-body inverses used for local-frame matching are derived
// internally. threshold bounds the local-frame match distance and winSize is
// the side length of the square search window around the predicted projection.
func ComputeVisibilityAndFlow(
	cloud1, cloud2 *pointmap.PointMap,
	labels1, labels2 *pointmap.LabelMap,
	poses1, poses2 *spatialmath.PoseSet,
	intrinsics *camera.PinholeCameraIntrinsics,
	threshold float64,
	winSize int,
) (*Result, error) {
	if err := validatePair(cloud1, cloud2, labels1, labels2, poses1, poses2, intrinsics, threshold, winSize); err != nil {
		return nil, err
	}

	local1, err := LocalCoordinates(cloud1, labels1, poses1.Invert())
	if err != nil {
		return nil, err
	}
	local2, err := LocalCoordinates(cloud2, labels2, poses2.Invert())
	if err != nil {
		return nil, err
	}

	res := &Result{}
	// correspondence is directional, so each frame is matched into the other
	// using the other frame's forward poses
	res.Flow12, res.Visible1 = correspond(
		cloud1, cloud2, local1, local2, labels1, labels2, poses2, intrinsics, threshold, winSize)
	res.Flow21, res.Visible2 = correspond(
		cloud2, cloud1, local2, local1, labels2, labels1, poses1, intrinsics, threshold, winSize)

	if Debug {
		total := cloud1.Batch() * cloud1.Rows() * cloud1.Cols()
		golog.Global().Debugf("scene flow: %d/%d visible forward, %d/%d visible backward",
			res.Visible1.CountVisible(), total, res.Visible2.CountVisible(), total)
	}
	return res, nil
}

// correspond matches every pixel of the source frame into the target frame and
// returns the source frame's flow field and visibility map.
func correspond(
	srcCloud, tgtCloud *pointmap.PointMap,
	srcLocal, tgtLocal *pointmap.PointMap,
	srcLabels, tgtLabels *pointmap.LabelMap,
	tgtPoses *spatialmath.PoseSet,
	intrinsics *camera.PinholeCameraIntrinsics,
	threshold float64,
	winSize int,
) (*pointmap.PointMap, *pointmap.VisibilityMap) {
	batch, rows, cols := srcCloud.Batch(), srcCloud.Rows(), srcCloud.Cols()
	flow := pointmap.NewPointMap(batch, rows, cols)
	visible := pointmap.NewVisibilityMap(batch, rows, cols)

	sqThreshold := utils.Square(threshold)
	winHalf := winSize / 2

	utils.ParallelForEachCell(batch, rows, cols, func(b, r, c int) {
		m := srcLabels.At(b, r, c)
		if m == 0 {
			// background points are always visible and carry zero flow
			visible.Set(b, r, c, true)
			return
		}

		// predict where this point lands in the target camera frame and image
		localPt := srcLocal.Vec(b, r, c)
		predicted := tgtPoses.At(b, m).Apply(localPt)
		cPix, rPix := intrinsics.PointToPixel(predicted.X, predicted.Y, predicted.Z)
		row, col := int(rPix), int(cPix)
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return
		}

		// nearest same-segment neighbor in local coordinates within the window
		minDist := math.Inf(1)
		bestR, bestC := -1, -1
		for tr := row - winHalf; tr < row-winHalf+winSize; tr++ {
			if tr < 0 || tr >= rows {
				continue
			}
			for tc := col - winHalf; tc < col-winHalf+winSize; tc++ {
				if tc < 0 || tc >= cols {
					continue
				}
				if tgtLabels.At(b, tr, tc) != m {
					continue
				}
				dist := spatialmath.SquaredDistance(localPt, tgtLocal.Vec(b, tr, tc))
				if dist < minDist && dist < sqThreshold {
					minDist = dist
					bestR, bestC = tr, tc
				}
			}
		}
		if bestR == -1 {
			return
		}

		visible.Set(b, r, c, true)
		flow.SetVec(b, r, c, tgtCloud.Vec(b, bestR, bestC).Sub(srcCloud.Vec(b, r, c)))
	})
	return flow, visible
}

func validatePair(
	cloud1, cloud2 *pointmap.PointMap,
	labels1, labels2 *pointmap.LabelMap,
	poses1, poses2 *spatialmath.PoseSet,
	intrinsics *camera.PinholeCameraIntrinsics,
	threshold float64,
	winSize int,
) error {
	var err error
	if !cloud1.SameShape(cloud2) {
		err = multierr.Append(err, cloud2.ShapeError("second cloud", cloud1.Batch(), cloud1.Rows(), cloud1.Cols()))
	}
	err = multierr.Combine(err,
		validateFrame(cloud1, labels1, poses1),
		validateFrame(cloud2, labels2, poses2),
	)
	if poses1.Segments() != poses2.Segments() {
		err = multierr.Append(err, errors.Errorf("pose sets disagree on segment count: %d vs %d",
			poses1.Segments(), poses2.Segments()))
	}
	if threshold < 0 {
		err = multierr.Append(err, errors.Errorf("threshold must be nonnegative, got %v", threshold))
	}
	if winSize < 1 {
		err = multierr.Append(err, errors.Errorf("winsize must be at least 1, got %d", winSize))
	}
	err = multierr.Append(err, intrinsics.CheckValid())
	return err
}
