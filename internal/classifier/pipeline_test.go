package classifier

import (
	"bytes"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var trainDocs = []string{
	"we need water please",
	"no clean water here",
	"need food and water",
	"hungry families need food",
	"send food to the shelter",
	"the weather is nice today",
	"thanks for the update",
	"is anyone reading this",
}

// columns: water, food
var trainLabels = mat.NewDense(8, 2, []float64{
	1, 0,
	1, 0,
	1, 1,
	0, 1,
	0, 1,
	0, 0,
	0, 0,
	0, 0,
})

func TestMultiOutput_FitPredict(t *testing.T) {
	x := &SparseMatrix{NumCols: 2, Rows: []SparseVector{
		{Indices: []int{0}, Values: []float64{1}},
		{Indices: []int{1}, Values: []float64{1}},
		{Indices: []int{0, 1}, Values: []float64{1, 1}},
		{},
	}}
	y := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 1,
		1, 1, 1,
		0, 0, 1,
	})

	mo := NewMultiOutput(10, 1.0)
	require.NoError(t, mo.Fit(x, y))
	require.Len(t, mo.Estimators, 3)

	pred, err := mo.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(y, pred))
}

func TestMultiOutput_Errors(t *testing.T) {
	mo := NewMultiOutput(10, 1.0)
	_, err := mo.Predict(&SparseMatrix{NumCols: 1, Rows: []SparseVector{{}}})
	assert.True(t, errors.Is(err, ErrNotFitted))

	x := &SparseMatrix{NumCols: 1, Rows: []SparseVector{{}, {}}}
	err = mo.Fit(x, mat.NewDense(3, 1, nil))
	assert.True(t, errors.Is(err, ErrShape))

	assert.True(t, errors.Is(mo.Fit(&SparseMatrix{NumCols: 1}, nil), ErrEmptyDataset))
}

func TestPipeline_FitPredict(t *testing.T) {
	p := NewPipeline(Params{NGramMax: 2, MaxDF: 1.0, UseIDF: true}, Boosting{NEstimators: 50, LearningRate: 1.0})
	require.NoError(t, p.Fit(trainDocs, trainLabels))

	pred, err := p.Predict(trainDocs)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 8, r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Contains(t, []float64{0, 1}, pred.At(i, j))
		}
	}

	score, err := p.Score(trainDocs, trainLabels)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestPipeline_UnfittedPredict(t *testing.T) {
	p := NewPipeline(Params{NGramMax: 1, MaxDF: 1.0}, Boosting{})
	_, err := p.Predict([]string{"water"})
	assert.True(t, errors.Is(err, ErrNotFitted))
}

func TestPipeline_GobRoundTrip(t *testing.T) {
	p := NewPipeline(Params{NGramMax: 1, MaxDF: 0.75, UseIDF: false}, Boosting{NEstimators: 10, LearningRate: 0.5})
	require.NoError(t, p.Fit(trainDocs, trainLabels))
	want, err := p.Predict(trainDocs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(p))
	var loaded Pipeline
	require.NoError(t, gob.NewDecoder(&buf).Decode(&loaded))

	got, err := loaded.Predict(trainDocs)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
	assert.Equal(t, p.Params, loaded.Params)
}

func TestParams_String(t *testing.T) {
	p := Params{NGramMax: 2, MaxDF: 0.75, UseIDF: true}
	assert.Equal(t, "vect__ngram_range=(1, 2), vect__max_df=0.75, tfidf__use_idf=true", p.String())
}
