// Package report scores held-out predictions per category and renders the
// scores as a console table, a PNG chart or an HTML page.
package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/disaster-response/internal/classifier"
)

// Evaluation holds per-category precision, recall and F1 for the positive
// class, aligned with Categories.
type Evaluation struct {
	Categories []string
	Precision  []float64
	Recall     []float64
	F1         []float64
	Support    []int
}

// Evaluate scores every column of yPred against yTrue.
func Evaluate(yTrue, yPred *mat.Dense, categories []string) (*Evaluation, error) {
	r, c := yTrue.Dims()
	pr, pc := yPred.Dims()
	if r != pr || c != pc {
		return nil, fmt.Errorf("%w: %dx%d true, %dx%d predicted", classifier.ErrShape, r, c, pr, pc)
	}
	if len(categories) != c {
		return nil, fmt.Errorf("%w: %d categories for %d columns", classifier.ErrShape, len(categories), c)
	}

	ev := &Evaluation{
		Categories: append([]string(nil), categories...),
		Precision:  make([]float64, c),
		Recall:     make([]float64, c),
		F1:         make([]float64, c),
		Support:    make([]int, c),
	}
	truth := make([]float64, r)
	pred := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(truth, j, yTrue)
		mat.Col(pred, j, yPred)
		s, err := classifier.PrecisionRecallF1(truth, pred)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", categories[j], err)
		}
		ev.Precision[j], ev.Recall[j], ev.F1[j], ev.Support[j] = s.Precision, s.Recall, s.F1, s.Support
	}
	return ev, nil
}

// MeanF1 is the unweighted mean of F1 over categories.
func (e *Evaluation) MeanF1() float64 {
	if len(e.F1) == 0 {
		return 0
	}
	return stat.Mean(e.F1, nil)
}
