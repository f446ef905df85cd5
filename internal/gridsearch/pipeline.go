package gridsearch

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/disaster-response/internal/classifier"
)

// SelectRows copies the given rows of y into a new matrix.
func SelectRows(y *mat.Dense, idx []int) *mat.Dense {
	_, c := y.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, r := range idx {
		out.SetRow(i, y.RawRowView(r))
	}
	return out
}

// SelectDocs returns docs[idx[0]], docs[idx[1]], ...
func SelectDocs[T any](docs []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, r := range idx {
		out[i] = docs[r]
	}
	return out
}

// PipelineFit returns a FitFunc that trains a fresh pipeline on each fold of
// the pre-tokenized docs and scores it by subset accuracy.
func PipelineFit(docs [][]string, y *mat.Dense, boost classifier.Boosting) FitFunc {
	return func(ctx context.Context, params classifier.Params, fold Fold) (float64, error) {
		p := classifier.NewPipeline(params, boost)
		if err := p.FitTokens(SelectDocs(docs, fold.Train), SelectRows(y, fold.Train)); err != nil {
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return p.ScoreTokens(SelectDocs(docs, fold.Test), SelectRows(y, fold.Test))
	}
}
