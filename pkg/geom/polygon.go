package geom

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

var ErrDegenerateArea = errors.New("geom: polygon area is too small")

// ConvexHull builds the convex hull of points with the monotone chain
// algorithm. The result is counterclockwise and starts at the
// lexicographically smallest point. Points closer than tol are merged and
// collinear points are dropped.
func ConvexHull(points []Point, tol float64) []Point {
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	uniq := make([]Point, 0, len(pts))
	for _, p := range pts {
		if !hasNear(uniq, p, tol) {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	lower := make([]Point, 0, len(uniq))
	for _, p := range uniq {
		for len(lower) >= 2 && Cross(lower[len(lower)-2], lower[len(lower)-1], p) <= tol {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, len(uniq))
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && Cross(upper[len(upper)-2], upper[len(upper)-1], p) <= tol {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := make([]Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

// hasNear reports whether sorted holds a point within tol of p. sorted is
// ordered by x, so only its tail within tol of p.X is checked.
func hasNear(sorted []Point, p Point, tol float64) bool {
	for i := len(sorted) - 1; i >= 0 && p.X-sorted[i].X <= tol; i-- {
		if PointsAlmostEqual(sorted[i], p, tol) {
			return true
		}
	}
	return false
}

// SignedArea returns the shoelace area, positive for counterclockwise
// polygons.
func SignedArea(poly []Point) float64 {
	var sum float64
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		sum += a.Cross(b)
	}
	return sum / 2
}

// Centroid returns the area centroid of a simple polygon.
func Centroid(poly []Point, tol float64) (Point, error) {
	area := SignedArea(poly)
	if len(poly) < 3 || AlmostZero(area, tol) || math.IsNaN(area) {
		return Point{}, errors.Wrapf(ErrDegenerateArea, "area=%g vertices=%d", area, len(poly))
	}
	var cx, cy float64
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		f := a.Cross(b)
		cx += (a.X + b.X) * f
		cy += (a.Y + b.Y) * f
	}
	return Pt(cx/(6*area), cy/(6*area)), nil
}

// SecondMoment returns the integral of |x-about|^2 over the polygon.
func SecondMoment(poly []Point, about Point) float64 {
	var sum float64
	for i := range poly {
		a := poly[i].Sub(about)
		b := poly[(i+1)%len(poly)].Sub(about)
		f := a.Cross(b)
		sum += f * (a.X*a.X + a.X*b.X + b.X*b.X + a.Y*a.Y + a.Y*b.Y + b.Y*b.Y)
	}
	return math.Abs(sum / 12)
}

// PointInPolygon is the even-odd crossing test.
func PointInPolygon(p Point, poly []Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// PolygonBounds returns the bounding box of poly; false for an empty one.
func PolygonBounds(poly []Point) (Rect, bool) {
	if len(poly) == 0 {
		return Rect{}, false
	}
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, p := range poly[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
