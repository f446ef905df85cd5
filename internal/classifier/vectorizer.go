package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/disaster-response/internal/textproc"
)

// CountVectorizer maps documents to term count vectors over a vocabulary of
// word n-grams learned by Fit.
type CountVectorizer struct {
	NGramMin int
	NGramMax int
	// MaxDF drops terms appearing in more than MaxDF*n documents. 1.0
	// keeps everything.
	MaxDF float64

	Vocabulary map[string]int
	Terms      []string
}

// NewCountVectorizer returns a vectorizer for n-grams of length 1..ngramMax.
func NewCountVectorizer(ngramMax int, maxDF float64) *CountVectorizer {
	return &CountVectorizer{NGramMin: 1, NGramMax: ngramMax, MaxDF: maxDF}
}

// Analyze returns the n-grams of one tokenized document.
func (v *CountVectorizer) Analyze(tokens []string) []string {
	lo, hi := v.NGramMin, v.NGramMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if lo == 1 && hi == 1 {
		return tokens
	}
	var grams []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				grams = append(grams, tokens[i])
			} else {
				grams = append(grams, strings.Join(tokens[i:i+n], " "))
			}
		}
	}
	return grams
}

// TokenizeAll runs the tokenizer over docs.
func TokenizeAll(docs []string) [][]string {
	out := make([][]string, len(docs))
	for i, d := range docs {
		out[i] = textproc.Tokenize(d)
	}
	return out
}

// Fit learns the vocabulary from raw documents.
func (v *CountVectorizer) Fit(docs []string) error {
	return v.FitTokens(TokenizeAll(docs))
}

// FitTokens learns the vocabulary from pre-tokenized documents.
func (v *CountVectorizer) FitTokens(docs [][]string) error {
	if len(docs) == 0 {
		return ErrEmptyDataset
	}
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{})
		for _, g := range v.Analyze(tokens) {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			df[g]++
		}
	}

	maxDocs := float64(len(docs))
	if v.MaxDF > 0 && v.MaxDF < 1 {
		maxDocs = v.MaxDF * float64(len(docs))
	}
	terms := make([]string, 0, len(df))
	for term, n := range df {
		if float64(n) <= maxDocs {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("%w: %d documents, max_df=%g", ErrEmptyVocabulary, len(docs), v.MaxDF)
	}
	sort.Strings(terms)

	v.Terms = terms
	v.Vocabulary = make(map[string]int, len(terms))
	for i, t := range terms {
		v.Vocabulary[t] = i
	}
	return nil
}

// Transform counts vocabulary terms in raw documents.
func (v *CountVectorizer) Transform(docs []string) (*SparseMatrix, error) {
	return v.TransformTokens(TokenizeAll(docs))
}

// TransformTokens counts vocabulary terms in pre-tokenized documents.
// Terms outside the vocabulary are ignored.
func (v *CountVectorizer) TransformTokens(docs [][]string) (*SparseMatrix, error) {
	if v.Vocabulary == nil {
		return nil, ErrNotFitted
	}
	m := &SparseMatrix{NumCols: len(v.Terms), Rows: make([]SparseVector, len(docs))}
	for i, tokens := range docs {
		counts := make(map[int]float64)
		for _, g := range v.Analyze(tokens) {
			if j, ok := v.Vocabulary[g]; ok {
				counts[j]++
			}
		}
		row := SparseVector{Indices: make([]int, 0, len(counts)), Values: make([]float64, 0, len(counts))}
		for j := range counts {
			row.Indices = append(row.Indices, j)
		}
		sort.Ints(row.Indices)
		for _, j := range row.Indices {
			row.Values = append(row.Values, counts[j])
		}
		m.Rows[i] = row
	}
	return m, nil
}

// FitTransform is Fit followed by Transform on the same documents.
func (v *CountVectorizer) FitTransform(docs []string) (*SparseMatrix, error) {
	tokens := TokenizeAll(docs)
	if err := v.FitTokens(tokens); err != nil {
		return nil, err
	}
	return v.TransformTokens(tokens)
}
