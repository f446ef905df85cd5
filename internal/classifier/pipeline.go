package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Params are the grid-searched pipeline hyperparameters.
type Params struct {
	NGramMax int     `json:"ngram_max"`
	MaxDF    float64 `json:"max_df"`
	UseIDF   bool    `json:"use_idf"`
}

func (p Params) String() string {
	return fmt.Sprintf("vect__ngram_range=(1, %d), vect__max_df=%g, tfidf__use_idf=%t", p.NGramMax, p.MaxDF, p.UseIDF)
}

// Boosting configures the per-label ensembles.
type Boosting struct {
	NEstimators  int
	LearningRate float64
}

// Pipeline chains CountVectorizer, TfidfTransformer and MultiOutput. All
// fields are exported so a fitted pipeline can be gob encoded.
type Pipeline struct {
	Params      Params
	Vectorizer  *CountVectorizer
	Transformer *TfidfTransformer
	Classifier  *MultiOutput
}

// NewPipeline returns an unfitted pipeline for p.
func NewPipeline(p Params, b Boosting) *Pipeline {
	return &Pipeline{
		Params:      p,
		Vectorizer:  NewCountVectorizer(p.NGramMax, p.MaxDF),
		Transformer: &TfidfTransformer{UseIDF: p.UseIDF},
		Classifier:  NewMultiOutput(b.NEstimators, b.LearningRate),
	}
}

// Fit trains every stage on raw documents.
func (p *Pipeline) Fit(docs []string, y *mat.Dense) error {
	return p.FitTokens(TokenizeAll(docs), y)
}

// FitTokens trains every stage on pre-tokenized documents.
func (p *Pipeline) FitTokens(docs [][]string, y *mat.Dense) error {
	if err := p.Vectorizer.FitTokens(docs); err != nil {
		return fmt.Errorf("vectorize: %w", err)
	}
	counts, err := p.Vectorizer.TransformTokens(docs)
	if err != nil {
		return err
	}
	x, err := p.Transformer.FitTransform(counts)
	if err != nil {
		return fmt.Errorf("tfidf: %w", err)
	}
	if err := p.Classifier.Fit(x, y); err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	return nil
}

// Predict labels raw documents.
func (p *Pipeline) Predict(docs []string) (*mat.Dense, error) {
	return p.PredictTokens(TokenizeAll(docs))
}

// PredictTokens labels pre-tokenized documents.
func (p *Pipeline) PredictTokens(docs [][]string) (*mat.Dense, error) {
	counts, err := p.Vectorizer.TransformTokens(docs)
	if err != nil {
		return nil, err
	}
	x, err := p.Transformer.Transform(counts)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(x)
}

// Score returns the subset accuracy of the pipeline on docs.
func (p *Pipeline) Score(docs []string, y *mat.Dense) (float64, error) {
	return p.ScoreTokens(TokenizeAll(docs), y)
}

// ScoreTokens is Score on pre-tokenized documents.
func (p *Pipeline) ScoreTokens(docs [][]string, y *mat.Dense) (float64, error) {
	pred, err := p.PredictTokens(docs)
	if err != nil {
		return 0, err
	}
	return SubsetAccuracy(y, pred)
}
