// Package blend applies a weighted mixture of rigid transforms to every point
// of a point map (the soft-segmentation counterpart to hard per-pixel labels)
// and provides the analytic backward passes for points, weights and transform
// parameters, plus a weighted squared-error loss variant.
package blend

import (
	"github.com/pkg/errors"

	"github.com/motionseg/pointflow/pointmap"
	"github.com/motionseg/pointflow/spatialmath"
)

// DefaultParamBudget is the default ceiling on the number of scalar transform
// parameters a single call may carry. It is sized so a full pose set can be
// broadcast into a small fast read-only memory before the parallel sweep.
const DefaultParamBudget = 15000

// Config tunes the blend engines.
type Config struct {
	// ParamBudget caps spatialmath.PoseSet.ParamCount per call; zero means
	// DefaultParamBudget.
	ParamBudget int
}

// Budget returns the effective transform-parameter ceiling.
func (c Config) Budget() int {
	if c.ParamBudget <= 0 {
		return DefaultParamBudget
	}
	return c.ParamBudget
}

func (c Config) checkBudget(poses *spatialmath.PoseSet) error {
	if n := poses.ParamCount(); n > c.Budget() {
		return errors.Errorf(
			"pose set has %d transform parameters, more than the budget of %d; reduce batch size or segment count",
			n, c.Budget())
	}
	return nil
}

// AveragingMode selects how the loss (and its gradients) are normalized.
type AveragingMode int

const (
	// AverageNone reports the raw sum.
	AverageNone AveragingMode = iota
	// AverageElements divides by the total scalar element count of the point map.
	AverageElements
	// AverageActive divides by a caller-supplied active point count.
	AverageActive
)

// LossOptions selects the averaging and gradient-reporting policy of the loss
// variant. The zero value is an unnormalized sum with signed weight gradients.
type LossOptions struct {
	Averaging AveragingMode
	// ActiveCount is the normalizer used by AverageActive; it must be positive
	// in that mode and is ignored otherwise.
	ActiveCount float64
	// AbsWeightGrad reports the magnitude of the weight gradient instead of
	// its signed value.
	AbsWeightGrad bool
}

func (o LossOptions) divisor(points *pointmap.PointMap) (float64, error) {
	switch o.Averaging {
	case AverageNone:
		return 1, nil
	case AverageElements:
		return float64(points.ElementCount()), nil
	case AverageActive:
		if o.ActiveCount <= 0 {
			return 0, errors.Errorf("active point count must be positive, got %v", o.ActiveCount)
		}
		return o.ActiveCount, nil
	default:
		return 0, errors.Errorf("unknown averaging mode %d", o.Averaging)
	}
}
