package gridsearch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/disaster-response/internal/classifier"
	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/timeutil"
)

func quiet(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })
}

func TestSearch_RunRanksCandidates(t *testing.T) {
	quiet(t)
	folds, err := KFold(6, 3, nil)
	require.NoError(t, err)

	candidates := []classifier.Params{
		{NGramMax: 1, MaxDF: 0.5},
		{NGramMax: 2, MaxDF: 0.5},
		{NGramMax: 1, MaxDF: 1.0},
	}
	var calls atomic.Int64
	s := &Search{
		Folds:   folds,
		Workers: 2,
		Fit: func(ctx context.Context, p classifier.Params, f Fold) (float64, error) {
			calls.Add(1)
			return p.MaxDF*float64(p.NGramMax) + float64(len(f.Test))/100, nil
		},
	}

	results, err := s.Run(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(9), calls.Load())

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Len(t, r.FoldScores, 3)
	}
	assert.InDelta(t, 1.02, results[1].MeanScore, 1e-12)
	assert.InDelta(t, 0.0, results[1].StdScore, 1e-12)

	// candidates 1 and 2 tie; the earlier one wins
	assert.Equal(t, 1, results[1].Rank)
	assert.Equal(t, 1, results[2].Rank)
	assert.Equal(t, 3, results[0].Rank)

	best, err := Best(results)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Index)
}

func TestSearch_MeanFitTime(t *testing.T) {
	quiet(t)
	folds, err := KFold(4, 2, nil)
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Unix(1700000000, 0))
	s := &Search{
		Folds:   folds,
		Workers: 1,
		Clock:   clock,
		Fit: func(ctx context.Context, p classifier.Params, f Fold) (float64, error) {
			clock.Advance(time.Duration(len(f.Train)) * time.Second)
			return 1, nil
		},
	}
	results, err := s.Run(context.Background(), []classifier.Params{{NGramMax: 1, MaxDF: 1}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2*time.Second, results[0].MeanFit)
}

func TestSearch_RunPropagatesError(t *testing.T) {
	quiet(t)
	folds, err := KFold(4, 2, nil)
	require.NoError(t, err)
	boom := errors.New("boom")

	s := &Search{
		Folds: folds,
		Fit: func(ctx context.Context, p classifier.Params, f Fold) (float64, error) {
			if p.UseIDF {
				return 0, boom
			}
			return 1, nil
		},
	}
	_, err = s.Run(context.Background(), []classifier.Params{{NGramMax: 1, MaxDF: 1}, {NGramMax: 1, MaxDF: 1, UseIDF: true}})
	assert.True(t, errors.Is(err, boom))
}

func TestSearch_RunValidation(t *testing.T) {
	quiet(t)
	s := &Search{}
	_, err := s.Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = s.Run(context.Background(), []classifier.Params{{NGramMax: 1, MaxDF: 1}})
	assert.Error(t, err)

	_, err = Best(nil)
	assert.Error(t, err)
}

func TestSearch_CancelledContext(t *testing.T) {
	quiet(t)
	folds, err := KFold(4, 2, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Search{Folds: folds, Workers: 1, Fit: func(ctx context.Context, p classifier.Params, f Fold) (float64, error) {
		return 1, nil
	}}
	_, err = s.Run(ctx, []classifier.Params{{NGramMax: 1, MaxDF: 1}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipelineFit(t *testing.T) {
	quiet(t)
	docs := classifier.TokenizeAll([]string{
		"need water", "water please", "no water", "need food",
		"food please", "hungry food", "hello", "thanks",
	})
	y := mat.NewDense(8, 1, []float64{1, 1, 1, 0, 0, 0, 0, 0})
	folds, err := KFold(8, 2, nil)
	require.NoError(t, err)

	s := &Search{Folds: folds, Fit: PipelineFit(docs, y, classifier.Boosting{NEstimators: 10, LearningRate: 1})}
	results, err := s.Run(context.Background(), []classifier.Params{{NGramMax: 1, MaxDF: 1, UseIDF: true}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].MeanScore, 0.0)
	assert.LessOrEqual(t, results[0].MeanScore, 1.0)
}

func TestSelectRows(t *testing.T) {
	y := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	got := SelectRows(y, []int{2, 0})
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{5, 6, 1, 2}), got))
	assert.Equal(t, []string{"c", "a"}, SelectDocs([]string{"a", "b", "c"}, []int{2, 0}))
}
