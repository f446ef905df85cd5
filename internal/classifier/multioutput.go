package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MultiOutput fits one independent AdaBoost per label column.
type MultiOutput struct {
	NEstimators  int
	LearningRate float64

	Estimators []*AdaBoost
}

// NewMultiOutput returns an unfitted multi-label classifier.
func NewMultiOutput(nEstimators int, learningRate float64) *MultiOutput {
	return &MultiOutput{NEstimators: nEstimators, LearningRate: learningRate}
}

// Fit trains one ensemble per column of y, which must hold 0/1 values.
func (mo *MultiOutput) Fit(x *SparseMatrix, y *mat.Dense) error {
	if y == nil || len(x.Rows) == 0 {
		return ErrEmptyDataset
	}
	rows, cols := y.Dims()
	if rows != len(x.Rows) {
		return fmt.Errorf("%w: %d feature rows, %d label rows", ErrShape, len(x.Rows), rows)
	}

	ci := newColumnIndex(x)
	estimators := make([]*AdaBoost, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, y)
		est := NewAdaBoost(mo.NEstimators, mo.LearningRate)
		if err := est.fit(ci, x, col, nil); err != nil {
			return fmt.Errorf("label %d: %w", j, err)
		}
		estimators[j] = est
	}
	mo.Estimators = estimators
	return nil
}

// Predict returns an n×labels matrix of 0/1 predictions.
func (mo *MultiOutput) Predict(x *SparseMatrix) (*mat.Dense, error) {
	if len(mo.Estimators) == 0 {
		return nil, ErrNotFitted
	}
	if len(x.Rows) == 0 {
		return nil, ErrEmptyDataset
	}
	out := mat.NewDense(len(x.Rows), len(mo.Estimators), nil)
	for j, est := range mo.Estimators {
		pred, err := est.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", j, err)
		}
		out.SetCol(j, pred)
	}
	return out, nil
}
