package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// DegreesToRadian converts degrees to radians.
func DegreesToRadian(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

// RadianToDegrees converts radians to degrees unwound into (-180, 180].
func RadianToDegrees(rad float32) float32 {
	return UnwindDegrees(rad * (180 / math32.Pi))
}

// UnwindDegrees maps an angle into (-180, 180]. NaN and infinities are
// returned unchanged.
func UnwindDegrees(a float32) float32 {
	if math32.IsNaN(a) || math32.IsInf(a, 0) {
		return a
	}
	a = math32.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
