package etl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MessageColumn is the free-text column the classifier is trained on.
const MessageColumn = "message"

// Texts returns the named message column, with NULL cells as "".
func (ds *Dataset) Texts(column string) ([]string, error) {
	idx := -1
	for i, c := range ds.MessageColumns {
		if c == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	out := make([]string, len(ds.Rows))
	for i, r := range ds.Rows {
		out[i] = r.Fields[idx].String
	}
	return out, nil
}

// LabelMatrix returns the labels as a rows×categories matrix. It returns nil
// for an empty dataset.
func (ds *Dataset) LabelMatrix() *mat.Dense {
	if len(ds.Rows) == 0 || len(ds.Categories) == 0 {
		return nil
	}
	y := mat.NewDense(len(ds.Rows), len(ds.Categories), nil)
	for i, r := range ds.Rows {
		for j, v := range r.Labels {
			y.Set(i, j, float64(v))
		}
	}
	return y
}
