package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// StratifiedSplit partitions row indices into train and test sets so each
// class keeps its proportion. The same seed always yields the same split.
func StratifiedSplit(labels []int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be within (0, 1), got %v", testSize)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, idx := range groupByClass(labels) {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(testSize * float64(len(idx))))
		if nTest == 0 && len(idx) > 1 {
			nTest = 1
		}
		if nTest == len(idx) && len(idx) > 1 {
			nTest--
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	if len(train) == 0 || len(test) == 0 {
		return nil, nil, errors.New("not enough rows to split")
	}
	slices.Sort(train)
	slices.Sort(test)
	return train, test, nil
}

// StratifiedKFold returns k disjoint validation folds covering every index,
// each with roughly the overall class balance.
func StratifiedKFold(labels []int, k int, seed uint64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be at least 2, got %d", k)
	}

	groups := groupByClass(labels)
	for _, idx := range groups {
		if len(idx) < k {
			return nil, fmt.Errorf("a class has %d rows, fewer than %d folds", len(idx), k)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	folds := make([][]int, k)
	offset := 0
	for _, idx := range groups {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for i, row := range idx {
			f := (i + offset) % k
			folds[f] = append(folds[f], row)
		}
		offset += len(idx)
	}
	for _, f := range folds {
		slices.Sort(f)
	}
	return folds, nil
}

// Complement returns the indices in [0,n) not present in subset.
func Complement(n int, subset []int) []int {
	in := make([]bool, n)
	for _, i := range subset {
		in[i] = true
	}
	out := make([]int, 0, n-len(subset))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

// groupByClass returns row indices per label, iterated in ascending label
// order for determinism.
func groupByClass(labels []int) [][]int {
	byClass := make(map[int][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	slices.Sort(classes)

	out := make([][]int, len(classes))
	for i, c := range classes {
		out[i] = byClass[c]
	}
	return out
}
