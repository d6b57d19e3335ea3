package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Between reports lo <= v && v <= hi (order-insensitive).
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// Ordered returns (a, b) sorted ascending.
func Ordered[T constraints.Ordered](a, b T) (T, T) {
	if b < a {
		return b, a
	}
	return a, b
}

// MinOf returns the smallest element of xs, or the zero value when empty.
func MinOf[T constraints.Ordered](xs []T) T {
	var m T
	for i, x := range xs {
		if i == 0 || x < m {
			m = x
		}
	}
	return m
}
