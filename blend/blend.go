package blend

import (
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
	"github.com/motionseg/pointflow/utils"
)

// BlendTransform applies, per pixel, the weighted sum of the pose set's rigid
// transforms to the input point:
//
//	out[p] = sum_k weight[k,p] * (T_k * point[p])
//
// Weights are used as given; callers wanting a convex combination must
// normalize upstream.
func BlendTransform(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	cfg Config,
) (*pointmap.PointMap, error) {
	if err := validateBlend(points, weights, poses, cfg); err != nil {
		return nil, err
	}
	out := pointmap.NewPointMap(points.Batch(), points.Rows(), points.Cols())
	utils.ParallelForEachCell(points.Batch(), points.Rows(), points.Cols(), func(b, r, c int) {
		out.SetVec(b, r, c, blendPoint(points, weights, poses, b, r, c))
	})
	return out, nil
}

// BlendTransformBackward computes gradients of BlendTransform with respect to
// the points, the weights and the flattened transform parameters, given the
// per-point upstream gradient of the transformed output. Gradient buffers are
// freshly allocated and zero before accumulation; transform gradients are
// accumulated across all pixels of a segment via per-worker partial buffers
// merged in a reduction pass.
func BlendTransformBackward(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	gradOutput *pointmap.PointMap,
	cfg Config,
) (*pointmap.PointMap, *pointmap.WeightMap, *spatialmath.PoseSet, error) {
	if err := validateBlend(points, weights, poses, cfg); err != nil {
		return nil, nil, nil, err
	}
	if !gradOutput.SameShape(points) {
		return nil, nil, nil, gradOutput.ShapeError("upstream gradient",
			points.Batch(), points.Rows(), points.Cols())
	}
	gradPoints, gradWeights, gradPoses := backwardSweep(points, weights, poses,
		func(b, r, c int) r3.Vector {
			return gradOutput.Vec(b, r, c)
		})
	return gradPoints, gradWeights, gradPoses, nil
}

// blendPoint computes the blended transform of a single pixel's point.
func blendPoint(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	b, r, c int,
) r3.Vector {
	p := points.Vec(b, r, c)
	var out r3.Vector
	for k := 0; k < weights.Segments(); k++ {
		w := weights.At(b, k, r, c)
		if w == 0 {
			continue
		}
		out = out.Add(poses.At(b, k).Apply(p).Mul(w))
	}
	return out
}

// backwardSweep runs the shared chain rule of both backward variants. The seed
// callback supplies the upstream gradient of the blended output at a pixel;
// for the loss variant that is the per-point residual.
func backwardSweep(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	seed func(b, r, c int) r3.Vector,
) (*pointmap.PointMap, *pointmap.WeightMap, *spatialmath.PoseSet) {
	batch, rows, cols := points.Batch(), points.Rows(), points.Cols()
	gradPoints := pointmap.NewPointMap(batch, rows, cols)
	gradWeights := pointmap.NewWeightMap(batch, weights.Segments(), rows, cols)
	gradPoses := spatialmath.NewZeroPoseSet(poses.Batch(), poses.Segments())

	// every pixel of a segment scatters into that segment's transform
	// gradient, so each worker group accumulates into a private buffer and
	// the buffers are reduced once the sweep is done
	var groupGrads []*spatialmath.PoseSet
	utils.GroupWorkCells(batch, rows, cols,
		func(numGroups int) {
			groupGrads = make([]*spatialmath.PoseSet, numGroups)
		},
		func(groupNum, groupSize, from, to int) (utils.CellFunc, utils.GroupWorkDoneFunc) {
			acc := spatialmath.NewZeroPoseSet(poses.Batch(), poses.Segments())
			groupGrads[groupNum] = acc
			return func(b, r, c int) {
				g := seed(b, r, c)
				p := points.Vec(b, r, c)
				var gradPt r3.Vector
				for k := 0; k < weights.Segments(); k++ {
					w := weights.At(b, k, r, c)
					tfm := poses.At(b, k)

					// d out / d weight[k] is the transformed point itself
					gradWeights.Set(b, k, r, c, tfm.Apply(p).Dot(g))

					if w == 0 {
						continue
					}
					// d out / d point via segment k is w * R_k; transpose
					// pushes the gradient back
					gradPt = gradPt.Add(tfm.ApplyRotationTranspose(g).Mul(w))

					// d out / d T_k: rows scale the homogeneous point by w * g_i
					tg := acc.At(b, k)
					wg := [3]float64{w * g.X, w * g.Y, w * g.Z}
					for i := 0; i < 3; i++ {
						tg[i*4+0] += wg[i] * p.X
						tg[i*4+1] += wg[i] * p.Y
						tg[i*4+2] += wg[i] * p.Z
						tg[i*4+3] += wg[i]
					}
				}
				gradPoints.SetVec(b, r, c, gradPt)
			}, nil
		})
	for _, acc := range groupGrads {
		// shapes match by construction
		//nolint:errcheck
		gradPoses.AddInPlace(acc)
	}
	return gradPoints, gradWeights, gradPoses
}

func validateBlend(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	cfg Config,
) error {
	var err error
	if weights.Batch() != points.Batch() || weights.Rows() != points.Rows() || weights.Cols() != points.Cols() {
		err = multierr.Append(err, weightShapeError(points, weights))
	}
	if poses.Batch() != points.Batch() {
		err = multierr.Append(err, poseBatchError(points, poses))
	}
	if weights.Segments() != poses.Segments() {
		err = multierr.Append(err, segmentCountError(weights, poses))
	}
	if err != nil {
		return err
	}
	return cfg.checkBudget(poses)
}
