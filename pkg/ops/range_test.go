package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce_Sum(t *testing.T) {
	got := Reduce([]int{1, 2, 3, 4}, 0, func(a, v int) int { return a + v })
	assert.Equal(t, 10, got)
}

func TestReduce_Empty(t *testing.T) {
	got := Reduce(nil, 42, func(a, v int) int { return a + v })
	assert.Equal(t, 42, got)
}

func TestMaxElementBy(t *testing.T) {
	pts := []float64{30.2, 91.5, 12.0, 91.5}
	i, s := MaxElementBy(pts, func(v float64) float64 { return v })
	assert.Equal(t, 1, i) // first of the tied pair
	assert.Equal(t, 91.5, s)
}

func TestMaxElementBy_Empty(t *testing.T) {
	i, _ := MaxElementBy(nil, func(v float64) float64 { return v })
	assert.Equal(t, -1, i)
}

func TestMinElementBy(t *testing.T) {
	type jet struct{ pt, eta float64 }
	jets := []jet{{50, 1.2}, {35, -0.4}, {80, 2.1}}
	i, s := MinElementBy(jets, func(j jet) float64 { return j.pt })
	assert.Equal(t, 1, i)
	assert.Equal(t, 35.0, s)
}

func TestSelect(t *testing.T) {
	got := Select([]int{1, 5, 2, 8, 3}, func(v int) bool { return v > 2 })
	assert.Equal(t, []int{5, 8, 3}, got)
}

func TestSortBy_StableAndNonMutating(t *testing.T) {
	in := []string{"bb", "a", "ccc", "dd"}
	got := SortBy(in, func(s string) int { return len(s) })
	assert.Equal(t, []string{"a", "bb", "dd", "ccc"}, got)
	assert.Equal(t, []string{"bb", "a", "ccc", "dd"}, in)
}

func TestMapRange(t *testing.T) {
	got := MapRange([]int{1, 2, 3}, func(v int) float64 { return float64(v) * 0.5 })
	assert.Equal(t, []float64{0.5, 1.0, 1.5}, got)
}

func TestNext(t *testing.T) {
	assert.Equal(t, 2, Next([]int{1, 2, 3}, func(v int) bool { return v > 2 }))
	assert.Equal(t, -1, Next([]int{1, 2, 3}, func(v int) bool { return v > 9 }))
}

func TestCombine2(t *testing.T) {
	vals := []int{1, 2, 3}
	pairs := Combine2(vals, func(a, b int) bool { return a+b > 3 })
	assert.Equal(t, [][2]int{{0, 2}, {1, 2}}, pairs)
}

func TestCombine2_NoMatch(t *testing.T) {
	pairs := Combine2([]int{1, 2}, func(a, b int) bool { return false })
	assert.Empty(t, pairs)
}
