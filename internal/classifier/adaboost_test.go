package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneFeature builds a single-column matrix; zero values are left implicit.
func oneFeature(values ...float64) *SparseMatrix {
	m := &SparseMatrix{NumCols: 1, Rows: make([]SparseVector, len(values))}
	for i, v := range values {
		if v != 0 {
			m.Rows[i] = SparseVector{Indices: []int{0}, Values: []float64{v}}
		}
	}
	return m
}

func TestAdaBoost_SeparableSingleStump(t *testing.T) {
	x := oneFeature(0, 0, 0.4, 0.9)
	y := []float64{0, 0, 1, 1}

	a := NewAdaBoost(10, 1.0)
	require.NoError(t, a.Fit(x, y, nil))

	require.Len(t, a.Stumps, 1, "a perfect stump stops boosting")
	assert.Equal(t, 0, a.Stumps[0].Feature)
	assert.InDelta(t, 0.2, a.Stumps[0].Threshold, 1e-12)

	pred, err := a.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestAdaBoost_ConstantLabel(t *testing.T) {
	x := oneFeature(0, 0.3, 0.8)

	for _, label := range []float64{0, 1} {
		a := NewAdaBoost(50, 1.0)
		require.NoError(t, a.Fit(x, []float64{label, label, label}, nil))
		require.Len(t, a.Stumps, 1)
		assert.Equal(t, -1, a.Stumps[0].Feature)

		pred, err := a.Predict(oneFeature(0.5, 0))
		require.NoError(t, err)
		assert.Equal(t, []float64{label, label}, pred)
	}
}

func TestAdaBoost_PicksInformativeFeature(t *testing.T) {
	x := &SparseMatrix{NumCols: 2, Rows: []SparseVector{
		{Indices: []int{0}, Values: []float64{0.1}},
		{Indices: []int{0, 1}, Values: []float64{0.5, 0.5}},
		{Indices: []int{0, 1}, Values: []float64{0.6, 0.6}},
		{Indices: []int{0}, Values: []float64{0.9}},
		{},
	}}
	y := []float64{0, 1, 1, 0, 0}

	a := NewAdaBoost(20, 1.0)
	require.NoError(t, a.Fit(x, y, nil))
	require.Len(t, a.Stumps, 1)
	assert.Equal(t, 1, a.Stumps[0].Feature)

	pred, err := a.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestAdaBoost_BoostsMultipleStumps(t *testing.T) {
	// Either feature marks a positive, which no single stump can express.
	x := &SparseMatrix{NumCols: 2, Rows: []SparseVector{
		{Indices: []int{0}, Values: []float64{1}},
		{Indices: []int{1}, Values: []float64{1}},
		{},
	}}
	y := []float64{1, 1, 0}

	a := NewAdaBoost(3, 1.0)
	require.NoError(t, a.Fit(x, y, nil))
	require.Len(t, a.Stumps, 3)
	assert.Equal(t, []int{-1, 0, 1}, []int{a.Stumps[0].Feature, a.Stumps[1].Feature, a.Stumps[2].Feature})
	for _, w := range a.Weights {
		assert.Greater(t, w, 0.0)
	}

	pred, err := a.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestAdaBoost_NegativeValuesAndZeros(t *testing.T) {
	x := oneFeature(-1, -0.5, 0, 0.5)
	y := []float64{1, 1, 0, 0}

	a := NewAdaBoost(5, 1.0)
	require.NoError(t, a.Fit(x, y, nil))
	pred, err := a.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestAdaBoost_Errors(t *testing.T) {
	a := NewAdaBoost(0, 0)
	assert.Equal(t, DefaultNEstimators, a.NEstimators)
	assert.Equal(t, DefaultLearningRate, a.LearningRate)

	_, err := a.Predict(oneFeature(1))
	assert.True(t, errors.Is(err, ErrNotFitted))

	assert.True(t, errors.Is(a.Fit(&SparseMatrix{NumCols: 1}, nil, nil), ErrEmptyDataset))
	assert.True(t, errors.Is(a.Fit(oneFeature(1, 2), []float64{1}, nil), ErrShape))
	assert.Error(t, a.Fit(oneFeature(1), []float64{2}, nil))
}

func TestAdaBoost_SampleWeights(t *testing.T) {
	// Same feature value, conflicting labels: the heavier row wins.
	x := oneFeature(1, 1)
	y := []float64{0, 1}

	a := NewAdaBoost(5, 1.0)
	require.NoError(t, a.Fit(x, y, []float64{1, 3}))
	pred, err := a.Predict(oneFeature(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, pred)
}
