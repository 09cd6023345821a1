package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector manipulation routines shared by the mesh and smoothing code.

// CondUnit returns the unit vector of a, or the zero vector when a is too
// short to normalize without blowing up.
func CondUnit(a r3.Vec) r3.Vec {
	n := r3.Norm(a)
	if n < minNormalizable {
		return r3.Vec{}
	}
	return r3.Scale(1/n, a)
}

const minNormalizable = 1e-30

// Finite reports whether all components of a are finite numbers.
func Finite(a r3.Vec) bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// CosAngle returns the cosine of the angle between a and b clamped to
// [-1, 1] so it is always a valid acos argument.
func CosAngle(a, b r3.Vec) float64 {
	return Clamp(r3.Dot(CondUnit(a), CondUnit(b)), -1, 1)
}

// Clamp x between lo and hi, assume lo <= hi.
func Clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(x, lo))
}
