// Package classifier holds the text classification pipeline: a token count
// vectorizer, a TF-IDF transformer and one boosted stump ensemble per label.
package classifier

import "errors"

var (
	// ErrNotFitted is returned when Transform or Predict is called before Fit.
	ErrNotFitted = errors.New("classifier: not fitted")
	// ErrEmptyDataset is returned when Fit receives no rows.
	ErrEmptyDataset = errors.New("classifier: empty dataset")
	// ErrEmptyVocabulary is returned when no term survives document
	// frequency pruning.
	ErrEmptyVocabulary = errors.New("classifier: empty vocabulary")
	// ErrShape is returned when inputs disagree on row or column counts.
	ErrShape = errors.New("classifier: shape mismatch")
)
