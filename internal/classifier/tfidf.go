package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// TfidfTransformer reweights term counts by smoothed inverse document
// frequency and L2-normalizes each row.
type TfidfTransformer struct {
	UseIDF bool
	IDF    []float64
	// NumCols is the width seen by Fit; zero means unfitted.
	NumCols int
}

// Fit computes idf = ln((1+n)/(1+df)) + 1 for every column.
func (t *TfidfTransformer) Fit(x *SparseMatrix) error {
	n, cols := x.Dims()
	if n == 0 {
		return ErrEmptyDataset
	}
	t.NumCols = cols
	t.IDF = nil
	if t.UseIDF {
		df := make([]float64, cols)
		for _, r := range x.Rows {
			for k, j := range r.Indices {
				if r.Values[k] != 0 {
					df[j]++
				}
			}
		}
		t.IDF = make([]float64, cols)
		for j, d := range df {
			t.IDF[j] = math.Log((1+float64(n))/(1+d)) + 1
		}
	}
	return nil
}

// Transform returns a new weighted, normalized matrix. Rows with no terms
// stay empty.
func (t *TfidfTransformer) Transform(x *SparseMatrix) (*SparseMatrix, error) {
	if t.NumCols == 0 {
		return nil, ErrNotFitted
	}
	if x.NumCols != t.NumCols {
		return nil, fmt.Errorf("%w: transformer fitted on %d columns, got %d", ErrShape, t.NumCols, x.NumCols)
	}
	out := &SparseMatrix{NumCols: x.NumCols, Rows: make([]SparseVector, len(x.Rows))}
	for i, r := range x.Rows {
		vals := make([]float64, len(r.Values))
		copy(vals, r.Values)
		if t.UseIDF {
			for k, j := range r.Indices {
				vals[k] *= t.IDF[j]
			}
		}
		if norm := floats.Norm(vals, 2); norm > 0 {
			floats.Scale(1/norm, vals)
		}
		out.Rows[i] = SparseVector{Indices: r.Indices, Values: vals}
	}
	return out, nil
}

// FitTransform is Fit followed by Transform.
func (t *TfidfTransformer) FitTransform(x *SparseMatrix) (*SparseMatrix, error) {
	if err := t.Fit(x); err != nil {
		return nil, err
	}
	return t.Transform(x)
}
