// Package geom holds the planar primitives shared by the sweep, the
// reconstruction and the rasterizer.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	// Epsilon is the default tolerance for float comparisons.
	Epsilon = 1e-8
	// BoundsEpsilon is the looser tolerance used to decide whether a
	// point touches a side of the bounding rectangle.
	BoundsEpsilon = 1e-3
)

// Point is a 2D point.
type Point = r2.Point

// Invisible marks both clipped endpoints of an edge that does not enter
// the bounds.
var Invisible = Point{X: -math.MaxFloat64, Y: -math.MaxFloat64}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func AlmostZero(v, tol float64) bool {
	return math.Abs(v) <= tol
}

func AlmostEqual(a, b, tol float64) bool {
	return AlmostZero(a-b, tol)
}

func PointsAlmostEqual(p, q Point, tol float64) bool {
	return AlmostEqual(p.X, q.X, tol) && AlmostEqual(p.Y, q.Y, tol)
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// Cross returns the z component of (a-o)x(b-o). Positive means o->a->b
// turns left.
func Cross(o, a, b Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

func IsNaN(p Point) bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}
