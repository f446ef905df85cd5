package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/disaster-response/internal/monitoring"
)

// Scores are binary classification metrics for the positive class.
type Scores struct {
	Precision float64
	Recall    float64
	F1        float64
	// Support is the number of positive samples in yTrue.
	Support int
}

// PrecisionRecallF1 scores yPred against yTrue, treating 1 as positive. An
// undefined ratio (zero denominator) is reported as 0.
func PrecisionRecallF1(yTrue, yPred []float64) (Scores, error) {
	if len(yTrue) != len(yPred) {
		return Scores{}, fmt.Errorf("%w: %d true, %d predicted", ErrShape, len(yTrue), len(yPred))
	}
	var tp, fp, fn int
	for i, t := range yTrue {
		p := yPred[i]
		switch {
		case t == 1 && p == 1:
			tp++
		case t != 1 && p == 1:
			fp++
		case t == 1 && p != 1:
			fn++
		}
	}

	s := Scores{Support: tp + fn}
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	} else {
		monitoring.Logf("precision is ill-defined with no predicted positives; reporting 0")
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	} else {
		monitoring.Logf("recall is ill-defined with no true positives; reporting 0")
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s, nil
}

// SubsetAccuracy is the fraction of rows whose every label is predicted
// correctly.
func SubsetAccuracy(yTrue, yPred *mat.Dense) (float64, error) {
	r, c := yTrue.Dims()
	pr, pc := yPred.Dims()
	if r != pr || c != pc {
		return 0, fmt.Errorf("%w: %dx%d true, %dx%d predicted", ErrShape, r, c, pr, pc)
	}
	if r == 0 {
		return 0, ErrEmptyDataset
	}
	correct := 0
	for i := 0; i < r; i++ {
		if mat.Equal(yTrue.RowView(i), yPred.RowView(i)) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}
