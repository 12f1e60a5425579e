package common

import "cmp"

const (
	BaseWidth  = 640
	BaseHeight = 360
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	if v != v {
		return 0
	}
	return Clamp(v, 0, 1)
}
