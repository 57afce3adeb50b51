package blend

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
	"github.com/motionseg/pointflow/utils"
)

// Debug enables per-call loss statistics on the global logger.
var Debug = false

// WeightedTransformLoss computes the scalar objective
//
//	L = 0.5 * sum_p (BlendTransform(p) - target[p])^2
//
// divided by the averaging divisor selected in opts. The blended points are
// never materialized.
func WeightedTransformLoss(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	targets *pointmap.PointMap,
	opts LossOptions,
	cfg Config,
) (float64, error) {
	if err := validateLoss(points, weights, poses, targets, cfg); err != nil {
		return 0, err
	}
	divisor, err := opts.divisor(points)
	if err != nil {
		return 0, err
	}

	var partials []float64
	utils.GroupWorkCells(points.Batch(), points.Rows(), points.Cols(),
		func(numGroups int) {
			partials = make([]float64, numGroups)
		},
		func(groupNum, groupSize, from, to int) (utils.CellFunc, utils.GroupWorkDoneFunc) {
			sum := 0.0
			return func(b, r, c int) {
					residual := blendPoint(points, weights, poses, b, r, c).Sub(targets.Vec(b, r, c))
					sum += residual.Norm2()
				}, func() {
					partials[groupNum] = sum
				}
		})

	loss := 0.5 * floats.Sum(partials) / divisor
	if Debug {
		golog.Global().Debugf("weighted transform loss: %v (divisor %v)", loss, divisor)
	}
	return loss, nil
}

// WeightedTransformLossBackward computes gradients of WeightedTransformLoss
// with respect to the points, weights and transform parameters. gradLoss is
// the scalar upstream gradient of the reduced loss; the loss backward contract
// is deliberately scalar-seeded, a per-point seed map belongs to
// BlendTransformBackward instead. The same averaging divisor as the forward
// pass is applied. Targets are treated as constants and receive no gradient.
func WeightedTransformLossBackward(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	targets *pointmap.PointMap,
	gradLoss float64,
	opts LossOptions,
	cfg Config,
) (*pointmap.PointMap, *pointmap.WeightMap, *spatialmath.PoseSet, error) {
	if err := validateLoss(points, weights, poses, targets, cfg); err != nil {
		return nil, nil, nil, err
	}
	divisor, err := opts.divisor(points)
	if err != nil {
		return nil, nil, nil, err
	}

	// the per-point residual replaces the upstream seed in the chain rule
	gradPoints, gradWeights, gradPoses := backwardSweep(points, weights, poses,
		func(b, r, c int) r3.Vector {
			return blendPoint(points, weights, poses, b, r, c).Sub(targets.Vec(b, r, c))
		})

	norm := gradLoss / divisor
	gradPoints.Scale(norm)
	gradWeights.Scale(norm)
	gradPoses.Scale(norm)
	if opts.AbsWeightGrad {
		gradWeights.Abs()
	}
	return gradPoints, gradWeights, gradPoses, nil
}

func validateLoss(
	points *pointmap.PointMap,
	weights *pointmap.WeightMap,
	poses *spatialmath.PoseSet,
	targets *pointmap.PointMap,
	cfg Config,
) error {
	if !targets.SameShape(points) {
		return targets.ShapeError("target points", points.Batch(), points.Rows(), points.Cols())
	}
	return validateBlend(points, weights, poses, cfg)
}
