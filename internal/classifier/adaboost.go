package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default boosting settings.
const (
	DefaultNEstimators  = 50
	DefaultLearningRate = 1.0
)

// splitEpsilon is the minimum error improvement for a split to replace the
// current best stump.
const splitEpsilon = 1e-12

// Stump is a depth-1 decision tree on one feature. Feature < 0 means the
// stump ignores its input and always predicts Left.
type Stump struct {
	Feature   int
	Threshold float64
	Left      int // class for x[Feature] <= Threshold
	Right     int
}

// Predict returns the stump's class for row x.
func (s Stump) Predict(x SparseVector) int {
	if s.Feature < 0 || x.At(s.Feature) <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// AdaBoost is a SAMME ensemble of stumps for one binary label.
type AdaBoost struct {
	NEstimators  int
	LearningRate float64

	Stumps  []Stump
	Weights []float64
}

// NewAdaBoost returns an unfitted ensemble, substituting defaults for
// non-positive arguments.
func NewAdaBoost(nEstimators int, learningRate float64) *AdaBoost {
	if nEstimators <= 0 {
		nEstimators = DefaultNEstimators
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &AdaBoost{NEstimators: nEstimators, LearningRate: learningRate}
}

// Fit boosts stumps on x against binary labels y. sampleWeight may be nil for
// uniform weights.
func (a *AdaBoost) Fit(x *SparseMatrix, y, sampleWeight []float64) error {
	return a.fit(newColumnIndex(x), x, y, sampleWeight)
}

func (a *AdaBoost) fit(ci *columnIndex, x *SparseMatrix, y, sampleWeight []float64) error {
	n := len(x.Rows)
	if n == 0 {
		return ErrEmptyDataset
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, n, len(y))
	}
	labels := make([]int, n)
	for i, v := range y {
		switch v {
		case 0:
		case 1:
			labels[i] = 1
		default:
			return fmt.Errorf("label %v at row %d is not binary", v, i)
		}
	}

	w := make([]float64, n)
	if sampleWeight != nil {
		if len(sampleWeight) != n {
			return fmt.Errorf("%w: %d rows, %d weights", ErrShape, n, len(sampleWeight))
		}
		copy(w, sampleWeight)
	} else {
		for i := range w {
			w[i] = 1
		}
	}
	if sum := floats.Sum(w); sum > 0 {
		floats.Scale(1/sum, w)
	} else {
		return fmt.Errorf("sample weights sum to %v", sum)
	}

	a.Stumps = a.Stumps[:0]
	a.Weights = a.Weights[:0]
	rounds := a.NEstimators
	if rounds <= 0 {
		rounds = DefaultNEstimators
	}
	lr := a.LearningRate
	if lr <= 0 {
		lr = DefaultLearningRate
	}

	miss := make([]bool, n)
	for m := 0; m < rounds; m++ {
		s := bestStump(ci, labels, w)

		var errSum, total float64
		for i, r := range x.Rows {
			miss[i] = s.Predict(r) != labels[i]
			if miss[i] {
				errSum += w[i]
			}
			total += w[i]
		}
		errRate := errSum / total

		if errRate <= 0 {
			a.Stumps = append(a.Stumps, s)
			a.Weights = append(a.Weights, 1)
			break
		}
		if errRate >= 0.5 {
			// No better than chance. The first stump is still the
			// weighted majority, so keep it as the whole model.
			if len(a.Stumps) == 0 {
				a.Stumps = append(a.Stumps, s)
				a.Weights = append(a.Weights, 1)
			}
			break
		}

		alpha := lr * math.Log((1-errRate)/errRate)
		a.Stumps = append(a.Stumps, s)
		a.Weights = append(a.Weights, alpha)

		if m == rounds-1 {
			break
		}
		boost := math.Exp(alpha)
		for i := range w {
			if miss[i] && w[i] > 0 {
				w[i] *= boost
			}
		}
		sum := floats.Sum(w)
		if sum <= 0 {
			break
		}
		floats.Scale(1/sum, w)
	}
	return nil
}

// bestStump finds the stump with the lowest weighted misclassification error.
// Cells absent from the sparse rows count as zero.
func bestStump(ci *columnIndex, labels []int, w []float64) Stump {
	var total [2]float64
	for i, l := range labels {
		total[l] += w[i]
	}
	best := Stump{Feature: -1, Left: majority(total), Right: majority(total)}
	bestErr := math.Min(total[0], total[1])
	if bestErr <= 0 {
		return best
	}

	type group struct {
		value float64
		w     [2]float64
	}
	var groups []group
	for j, col := range ci.cols {
		if len(col) == 0 {
			continue
		}
		groups = groups[:0]
		var nonzero [2]float64
		zeroDone := len(col) == ci.numRows
		for _, e := range col {
			if !zeroDone && e.value > 0 {
				groups = append(groups, group{value: 0})
				zeroDone = true
			}
			if len(groups) == 0 || groups[len(groups)-1].value != e.value {
				groups = append(groups, group{value: e.value})
			}
			groups[len(groups)-1].w[labels[e.row]] += w[e.row]
			nonzero[labels[e.row]] += w[e.row]
		}
		if !zeroDone {
			groups = append(groups, group{value: 0})
		}
		for k := range groups {
			if groups[k].value == 0 && len(col) < ci.numRows {
				groups[k].w[0] += total[0] - nonzero[0]
				groups[k].w[1] += total[1] - nonzero[1]
			}
		}

		var left [2]float64
		for k := 0; k < len(groups)-1; k++ {
			left[0] += groups[k].w[0]
			left[1] += groups[k].w[1]
			right := [2]float64{total[0] - left[0], total[1] - left[1]}
			err := math.Min(left[0], left[1]) + math.Min(right[0], right[1])
			if err < bestErr-splitEpsilon {
				bestErr = err
				best = Stump{
					Feature:   j,
					Threshold: (groups[k].value + groups[k+1].value) / 2,
					Left:      majority(left),
					Right:     majority(right),
				}
			}
		}
	}
	return best
}

// majority returns the heavier class; ties go to class 0.
func majority(w [2]float64) int {
	if w[1] > w[0] {
		return 1
	}
	return 0
}

// DecisionFunction returns the signed weighted vote for row x; positive
// means class 1.
func (a *AdaBoost) DecisionFunction(x SparseVector) float64 {
	var score float64
	for m, s := range a.Stumps {
		if s.Predict(x) == 1 {
			score += a.Weights[m]
		} else {
			score -= a.Weights[m]
		}
	}
	return score
}

// Predict returns one 0/1 label per row of x.
func (a *AdaBoost) Predict(x *SparseMatrix) ([]float64, error) {
	if len(a.Stumps) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x.Rows))
	for i, r := range x.Rows {
		if a.DecisionFunction(r) > 0 {
			out[i] = 1
		}
	}
	return out, nil
}
