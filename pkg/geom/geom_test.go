package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestAlmostEqual(t *testing.T) {
	tests := []struct {
		a, b, tol float64
		want      bool
	}{
		{1, 1, Epsilon, true},
		{1, 1 + 1e-9, Epsilon, true},
		{1, 1 + 1e-6, Epsilon, false},
		{0.5, 0.5009, BoundsEpsilon, true},
		{0.5, 0.502, BoundsEpsilon, false},
	}
	for _, tt := range tests {
		if got := AlmostEqual(tt.a, tt.b, tt.tol); got != tt.want {
			t.Errorf("AlmostEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
		}
	}
	if !AlmostZero(-1e-9, Epsilon) {
		t.Errorf("AlmostZero(-1e-9) = false, want true")
	}
}

func TestNewRect(t *testing.T) {
	if _, err := NewRect(0, 0, -1, 1); !errors.Is(err, ErrInvalidRect) {
		t.Fatalf("NewRect(negative width) error = %v, want ErrInvalidRect", err)
	}
	r, err := NewRect(1, 2, 3, 4)
	if err != nil {
		t.Fatalf("NewRect() error = %v", err)
	}
	if r.MaxX() != 4 || r.MaxY() != 6 {
		t.Errorf("max corner = (%v, %v), want (4, 6)", r.MaxX(), r.MaxY())
	}
	if !r.Contains(Pt(4, 6)) || !r.Contains(Pt(1, 2)) {
		t.Errorf("Contains() must include the border")
	}
	if r.Contains(Pt(0.5, 3)) {
		t.Errorf("Contains(0.5, 3) = true, want false")
	}
	if got := r.Clamp(Pt(10, -5)); got != Pt(4, 2) {
		t.Errorf("Clamp() = %v, want (4, 2)", got)
	}
	want := [4]Point{Pt(1, 2), Pt(4, 2), Pt(4, 6), Pt(1, 6)}
	if diff := cmp.Diff(want, r.Corners()); diff != "" {
		t.Errorf("Corners() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvexHull(t *testing.T) {
	pts := []Point{
		Pt(0, 0), Pt(1, 1), Pt(2, 0), Pt(2, 2), Pt(0, 2),
		Pt(1, 0), // collinear on the bottom side
		Pt(2, 2), // duplicate
		Pt(0.5, 1.5),
	}
	want := []Point{Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(0, 2)}
	got := ConvexHull(pts, Epsilon)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ConvexHull() mismatch (-want +got):\n%s", diff)
	}
	if SignedArea(got) <= 0 {
		t.Errorf("hull must be counterclockwise, area = %v", SignedArea(got))
	}
}

func TestConvexHullIdempotent(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	for i := 0; i < 50; i++ {
		pts := make([]Point, 3+rnd.Intn(40))
		for j := range pts {
			pts[j] = Pt(rnd.Float64()*100, rnd.Float64()*100)
		}
		once := ConvexHull(pts, Epsilon)
		twice := ConvexHull(once, Epsilon)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("hull is not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	if got := ConvexHull([]Point{Pt(1, 1), Pt(1, 1+1e-10)}, Epsilon); len(got) != 1 {
		t.Errorf("ConvexHull(near duplicates) = %v, want a single point", got)
	}
	line := ConvexHull([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 2)}, Epsilon)
	if len(line) != 2 {
		t.Errorf("ConvexHull(collinear) = %v, want the two extremes", line)
	}
}

func TestConvexHullNearDuplicatesApart(t *testing.T) {
	// после точной сортировки по x близнецы разделены точкой (1, 5)
	pts := []Point{Pt(1+1e-10, 0), Pt(1, 5), Pt(1, 0), Pt(4, 0), Pt(4, 5)}
	got := ConvexHull(pts, Epsilon)
	want := []Point{Pt(1, 0), Pt(4, 0), Pt(4, 5), Pt(1, 5)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ConvexHull() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvexHullSmallScale(t *testing.T) {
	// ячейка размером 1e-5: произведения ~1e-10, допуск должен быть меньше
	pts := []Point{Pt(0, 0), Pt(1e-5, 0), Pt(1e-5, 1e-5), Pt(0, 1e-5)}
	if got := ConvexHull(pts, Epsilon*1e-6); len(got) != 4 {
		t.Errorf("ConvexHull(scaled tol) = %v, want 4 points", got)
	}
}

func TestCentroid(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(0, 2)}
	c, err := Centroid(square, Epsilon)
	if err != nil {
		t.Fatalf("Centroid() error = %v", err)
	}
	if diff := cmp.Diff(Pt(1, 1), c, approx); diff != "" {
		t.Errorf("Centroid() mismatch (-want +got):\n%s", diff)
	}

	// clockwise order gives the same centroid
	cw := []Point{Pt(0, 0), Pt(0, 2), Pt(2, 2), Pt(2, 0)}
	c, err = Centroid(cw, Epsilon)
	if err != nil {
		t.Fatalf("Centroid(cw) error = %v", err)
	}
	if diff := cmp.Diff(Pt(1, 1), c, approx); diff != "" {
		t.Errorf("Centroid(cw) mismatch (-want +got):\n%s", diff)
	}

	triangle := []Point{Pt(0, 0), Pt(3, 0), Pt(0, 3)}
	c, _ = Centroid(triangle, Epsilon)
	if diff := cmp.Diff(Pt(1, 1), c, approx); diff != "" {
		t.Errorf("Centroid(triangle) mismatch (-want +got):\n%s", diff)
	}

	if _, err := Centroid([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 2)}, Epsilon); !errors.Is(err, ErrDegenerateArea) {
		t.Errorf("Centroid(collinear) error = %v, want ErrDegenerateArea", err)
	}
}

func TestSecondMoment(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)}
	if got := SecondMoment(square, Pt(0.5, 0.5)); math.Abs(got-1.0/6) > 1e-12 {
		t.Errorf("SecondMoment(center) = %v, want 1/6", got)
	}
	// parallel axis theorem: J(p) = J(c) + A*|p-c|^2
	if got := SecondMoment(square, Pt(0, 0)); math.Abs(got-(1.0/6+0.5)) > 1e-12 {
		t.Errorf("SecondMoment(corner) = %v, want 2/3", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	poly := []Point{Pt(0, 0), Pt(4, 0), Pt(4, 4), Pt(0, 4)}
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(2, 2), true},
		{Pt(0.1, 3.9), true},
		{Pt(5, 2), false},
		{Pt(-1, -1), false},
		{Pt(2, 4.5), false},
	}
	for _, tt := range tests {
		if got := PointInPolygon(tt.p, poly); got != tt.want {
			t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPointInPolygonSharedEdge(t *testing.T) {
	left := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 2), Pt(0, 2)}
	right := []Point{Pt(1, 0), Pt(2, 0), Pt(2, 2), Pt(1, 2)}
	p := Pt(1, 1)
	if PointInPolygon(p, left) == PointInPolygon(p, right) {
		t.Errorf("a point on a shared edge must belong to exactly one polygon")
	}
}

func TestPolygonBounds(t *testing.T) {
	if _, ok := PolygonBounds(nil); ok {
		t.Errorf("PolygonBounds(nil) ok = true")
	}
	r, ok := PolygonBounds([]Point{Pt(1, 5), Pt(-2, 3), Pt(4, 0)})
	if !ok {
		t.Fatalf("PolygonBounds() ok = false")
	}
	if diff := cmp.Diff(Rect{X: -2, Y: 0, Width: 6, Height: 5}, r); diff != "" {
		t.Errorf("PolygonBounds() mismatch (-want +got):\n%s", diff)
	}
}
