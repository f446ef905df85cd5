package gridsearch

import (
	"fmt"
	"math"
	"math/rand"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions n rows into k consecutive folds; the first n%k folds get
// one extra row. Rows are shuffled first when rng is non-nil.
func KFold(n, k int, rng *rand.Rand) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k-fold needs at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	folds := make([]Fold, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		test := append([]int(nil), order[start:start+size]...)
		train := make([]int, 0, n-size)
		train = append(train, order[:start]...)
		train = append(train, order[start+size:]...)
		folds[f] = Fold{Train: train, Test: test}
		start += size
	}
	return folds, nil
}

// TrainTestSplit shuffles n rows with rng and holds out ceil(testSize*n)
// of them for testing.
func TrainTestSplit(n int, testSize float64, rng *rand.Rand) (Fold, error) {
	if testSize <= 0 || testSize >= 1 {
		return Fold{}, fmt.Errorf("test size must be in (0, 1), got %g", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return Fold{}, fmt.Errorf("test size %g leaves an empty partition of %d rows", testSize, n)
	}
	perm := rng.Perm(n)
	return Fold{Train: perm[nTest:], Test: perm[:nTest]}, nil
}
