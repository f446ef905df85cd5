package gridsearch

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/disaster-response/internal/classifier"
	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/timeutil"
)

// FitFunc fits params on fold.Train and returns the score on fold.Test.
type FitFunc func(ctx context.Context, params classifier.Params, fold Fold) (float64, error)

// Search cross-validates every candidate on every fold.
type Search struct {
	Folds []Fold
	// Workers bounds concurrent fits; <= 0 means runtime.NumCPU().
	Workers int
	Fit     FitFunc
	// Clock times each fit; nil means the real clock.
	Clock timeutil.Clock
}

// Result is the cross-validation outcome of one candidate.
type Result struct {
	Index      int               `json:"index"`
	Params     classifier.Params `json:"params"`
	FoldScores []float64         `json:"fold_scores"`
	MeanScore  float64           `json:"mean_score"`
	StdScore   float64           `json:"std_score"`
	MeanFit    time.Duration     `json:"mean_fit_time"`
	// Rank is 1 for the best mean score; equal means share a rank.
	Rank int `json:"rank"`
}

func (s *Search) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

// Run evaluates len(candidates)*len(Folds) fits and returns one Result per
// candidate in candidate order. The first fit error cancels the rest.
func (s *Search) Run(ctx context.Context, candidates []classifier.Params) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to search")
	}
	if len(s.Folds) == 0 {
		return nil, fmt.Errorf("no folds to search")
	}
	if s.Fit == nil {
		return nil, fmt.Errorf("search has no fit function")
	}

	nFolds := len(s.Folds)
	monitoring.Logf("Fitting %d folds for each of %d candidates, totalling %d fits",
		nFolds, len(candidates), nFolds*len(candidates))

	scores := make([][]float64, len(candidates))
	elapsed := make([][]time.Duration, len(candidates))
	for i := range candidates {
		scores[i] = make([]float64, nFolds)
		elapsed[i] = make([]time.Duration, nFolds)
	}

	clock := timeutil.OrReal(s.Clock)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for c := range candidates {
		for f := range s.Folds {
			c, f := c, f
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := clock.Now()
				score, err := s.Fit(gctx, candidates[c], s.Folds[f])
				if err != nil {
					return fmt.Errorf("candidate %d (%s) fold %d: %w", c, candidates[c], f+1, err)
				}
				scores[c][f] = score
				elapsed[c][f] = clock.Since(start)
				monitoring.Debugf("[CV %d/%d] END %s; score=%.3f total time=%s",
					f+1, nFolds, candidates[c], score, elapsed[c][f].Round(time.Millisecond))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, len(candidates))
	for c, p := range candidates {
		mean, std := stat.PopMeanStdDev(scores[c], nil)
		var total time.Duration
		for _, d := range elapsed[c] {
			total += d
		}
		results[c] = Result{
			Index:      c,
			Params:     p,
			FoldScores: scores[c],
			MeanScore:  mean,
			StdScore:   std,
			MeanFit:    total / time.Duration(nFolds),
		}
	}
	assignRanks(results)
	return results, nil
}

// assignRanks sets Rank by descending mean score. Ties share the lower rank.
func assignRanks(results []Result) {
	order := RankResults(results)
	for i, r := range order {
		rank := i + 1
		if i > 0 && r.MeanScore == order[i-1].MeanScore {
			rank = results[order[i-1].Index].Rank
		}
		results[r.Index].Rank = rank
	}
}

// RankResults returns a copy of results sorted by mean score (highest
// first); ties keep candidate order.
func RankResults(results []Result) []Result {
	ranked := append([]Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanScore > ranked[j].MeanScore
	})
	return ranked
}

// Best returns the highest ranked result, preferring the earliest
// candidate among ties.
func Best(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, fmt.Errorf("no results")
	}
	return RankResults(results)[0], nil
}
