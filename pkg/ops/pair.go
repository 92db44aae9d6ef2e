// Package ops provides generic reduction helpers for working with
// slices of candidates: fold steps tracking a best (key, score) pair,
// and the range operations built on top of them.
package ops

import "golang.org/x/exp/constraints"

// Pair couples a key with the score it was ranked by.
type Pair[K any, S constraints.Ordered] struct {
	First  K
	Second S
}

// MaxPairBySecond is the step function of a max-by-score fold: it
// returns the candidate (key, score) if its score strictly exceeds the
// accumulator's, otherwise the accumulator. On ties the accumulator
// wins, so the first-seen candidate is reported.
func MaxPairBySecond[K any, S constraints.Ordered](acc Pair[K, S], key K, score S) Pair[K, S] {
	if score > acc.Second {
		return Pair[K, S]{First: key, Second: score}
	}
	return acc
}

// MinPairBySecond is the min counterpart of MaxPairBySecond, with the
// same first-seen tie behavior.
func MinPairBySecond[K any, S constraints.Ordered](acc Pair[K, S], key K, score S) Pair[K, S] {
	if score < acc.Second {
		return Pair[K, S]{First: key, Second: score}
	}
	return acc
}
