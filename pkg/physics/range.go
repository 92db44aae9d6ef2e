package physics

import "golang.org/x/exp/constraints"

// InRange reports whether value lies strictly between lower and upper
// (open interval on both ends).
func InRange[T constraints.Ordered](lower, value, upper T) bool {
	return lower < value && value < upper
}
