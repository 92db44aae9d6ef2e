package ops

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Reduce left-folds step over items starting from start.
func Reduce[T, A any](items []T, start A, step func(A, T) A) A {
	acc := start
	for _, it := range items {
		acc = step(acc, it)
	}
	return acc
}

// MaxElementBy returns the index of the element with the highest score
// and that score. Ties keep the earliest element. Returns index -1 for
// an empty slice.
func MaxElementBy[T any, S constraints.Ordered](items []T, score func(T) S) (int, S) {
	var zero S
	if len(items) == 0 {
		return -1, zero
	}
	best := Pair[int, S]{First: 0, Second: score(items[0])}
	for i := 1; i < len(items); i++ {
		best = MaxPairBySecond(best, i, score(items[i]))
	}
	return best.First, best.Second
}

// MinElementBy is the min counterpart of MaxElementBy.
func MinElementBy[T any, S constraints.Ordered](items []T, score func(T) S) (int, S) {
	var zero S
	if len(items) == 0 {
		return -1, zero
	}
	best := Pair[int, S]{First: 0, Second: score(items[0])}
	for i := 1; i < len(items); i++ {
		best = MinPairBySecond(best, i, score(items[i]))
	}
	return best.First, best.Second
}

// Select returns the elements for which pred holds, in order.
func Select[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortBy returns a copy of items sorted ascending by key. The sort is
// stable so equally-keyed elements keep their input order.
func SortBy[T any, S constraints.Ordered](items []T, key func(T) S) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) < key(out[j])
	})
	return out
}

// MapRange applies fn to each element and collects the results.
func MapRange[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

// Next returns the index of the first element matching pred, or -1.
func Next[T any](items []T, pred func(T) bool) int {
	for i, it := range items {
		if pred(it) {
			return i
		}
	}
	return -1
}

// Combine2 returns the index pairs (i, j) with i < j for which pred
// accepts the two elements, in lexicographic order.
func Combine2[T any](items []T, pred func(a, b T) bool) [][2]int {
	var out [][2]int
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if pred(items[i], items[j]) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}
