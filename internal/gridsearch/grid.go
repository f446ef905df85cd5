package gridsearch

import (
	"fmt"

	"github.com/banshee-data/disaster-response/internal/classifier"
)

// maxCombos caps the size of an expanded grid.
const maxCombos = 10000

// Grid lists the values to try for each pipeline hyperparameter.
type Grid struct {
	NGramMax []int
	MaxDF    []float64
	UseIDF   []bool
}

// DefaultGrid is ngram_range {(1,1),(1,2)} x max_df {0.5,0.75,1.0} x
// use_idf {true,false}.
func DefaultGrid() Grid {
	return Grid{
		NGramMax: []int{1, 2},
		MaxDF:    []float64{0.5, 0.75, 1.0},
		UseIDF:   []bool{true, false},
	}
}

// Size returns the number of candidates Expand will produce.
func (g Grid) Size() int {
	return len(g.NGramMax) * len(g.MaxDF) * len(g.UseIDF)
}

// Validate checks every list is non-empty and in range.
func (g Grid) Validate() error {
	if len(g.NGramMax) == 0 || len(g.MaxDF) == 0 || len(g.UseIDF) == 0 {
		return fmt.Errorf("grid has an empty parameter list")
	}
	for _, n := range g.NGramMax {
		if n < 1 {
			return fmt.Errorf("ngram max must be >= 1, got %d", n)
		}
	}
	for _, d := range g.MaxDF {
		if d <= 0 || d > 1 {
			return fmt.Errorf("max_df must be in (0, 1], got %g", d)
		}
	}
	if g.Size() > maxCombos {
		return fmt.Errorf("parameter combinations would exceed safe limit of %d", maxCombos)
	}
	return nil
}

// Expand returns the cartesian product of the grid. Parameters are ordered
// by name (tfidf__use_idf, vect__max_df, vect__ngram_range) with the last
// varying fastest.
func (g Grid) Expand() ([]classifier.Params, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	dims := []int{len(g.UseIDF), len(g.MaxDF), len(g.NGramMax)}
	total := g.Size()

	idx := make([][3]int, total)
	repeat := 1
	for dim := len(dims) - 1; dim >= 0; dim-- {
		cycle := dims[dim]
		for i := 0; i < total; i++ {
			idx[i][dim] = (i / repeat) % cycle
		}
		repeat *= cycle
	}

	out := make([]classifier.Params, total)
	for i, ix := range idx {
		out[i] = classifier.Params{
			UseIDF:   g.UseIDF[ix[0]],
			MaxDF:    g.MaxDF[ix[1]],
			NGramMax: g.NGramMax[ix[2]],
		}
	}
	return out, nil
}
