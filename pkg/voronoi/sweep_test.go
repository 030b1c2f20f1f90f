package voronoi

import (
	"math"
	"math/rand"
	"testing"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestBisect(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		sa := &site{index: 0, coord: geom.Pt(rnd.Float64()*100, rnd.Float64()*100)}
		sb := &site{index: 1, coord: geom.Pt(rnd.Float64()*100, rnd.Float64()*100)}
		e := bisect(7, sa, sb)

		if !geom.AlmostEqual(e.a, 1, 0) && !geom.AlmostEqual(e.b, 1, 0) {
			t.Fatalf("bisect(%v, %v): a = %v, b = %v, want one of them 1", sa.coord, sb.coord, e.a, e.b)
		}
		if math.Abs(e.a) > 1 || math.Abs(e.b) > 1 {
			t.Fatalf("bisect(%v, %v): |a|, |b| must not exceed 1, got %v, %v", sa.coord, sb.coord, e.a, e.b)
		}

		for _, s := range []float64{-50, 0, 13.5, 200} {
			var p geom.Point
			if e.a == 1 {
				p = geom.Pt(e.c-e.b*s, s)
			} else {
				p = geom.Pt(s, e.c-e.a*s)
			}
			da, db := geom.Dist(p, sa.coord), geom.Dist(p, sb.coord)
			if math.Abs(da-db) > 1e-9*math.Max(1, da) {
				t.Errorf("point %v on bisector of %v and %v: distances %v and %v", p, sa.coord, sb.coord, da, db)
			}
		}

		if diff := cmp.Diff([]int{7}, sa.edges); diff != "" {
			t.Fatalf("edge not registered on site a (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]int{7}, sb.edges); diff != "" {
			t.Fatalf("edge not registered on site b (-want +got):\n%s", diff)
		}
	}
}

func TestSetEndpoint(t *testing.T) {
	e := edge{index: 3, vertices: [2]int{nilHandle, nilHandle}}

	if err := e.setEndpoint(0, SideNone); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("setEndpoint(SideNone) error = %v, want ErrInvalidSide", err)
	}
	if err := e.setEndpoint(4, SideRight); err != nil {
		t.Fatalf("setEndpoint(right) error = %v", err)
	}
	if err := e.setEndpoint(5, SideRight); !errors.Is(err, ErrSweepInvariant) {
		t.Errorf("second setEndpoint(right) error = %v, want ErrSweepInvariant", err)
	}
	if err := e.setEndpoint(6, SideLeft); err != nil {
		t.Fatalf("setEndpoint(left) error = %v", err)
	}
	if diff := cmp.Diff([2]int{6, 4}, e.vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestSide(t *testing.T) {
	if SideLeft.Other() != SideRight || SideRight.Other() != SideLeft || SideNone.Other() != SideNone {
		t.Errorf("Other() is not an involution on left/right")
	}
	if SideLeft.String() != "left" || SideNone.String() != "none" {
		t.Errorf("String() = %q, %q", SideLeft, SideNone)
	}
}

func TestClip(t *testing.T) {
	r := geom.Rect{Width: 10, Height: 10}
	sites := []site{
		{index: 0, coord: geom.Pt(2, 5)},
		{index: 1, coord: geom.Pt(6, 5)},
		{index: 2, coord: geom.Pt(30, 30)},
		{index: 3, coord: geom.Pt(40, 30)},
	}

	// x = 4 целиком внутри
	e := bisect(0, &sites[0], &sites[1])
	e.clip(r, nil)
	if !e.visible() {
		t.Fatalf("x=4 edge is invisible")
	}
	got := []geom.Point{e.clipped[0], e.clipped[1]}
	if diff := cmp.Diff([]geom.Point{geom.Pt(4, 10), geom.Pt(4, 0)}, got, approx); diff != "" {
		t.Errorf("clipped mismatch (-want +got):\n%s", diff)
	}

	// x = 35 вне прямоугольника
	far := bisect(1, &sites[2], &sites[3])
	far.clip(r, nil)
	if far.visible() || far.clipped[1] != geom.Invisible {
		t.Errorf("x=35 edge clipped to %v, want both endpoints invisible", far.clipped)
	}

	// луч от вершины выше прямоугольника
	ray := bisect(2, &sites[0], &sites[1])
	vertices := []Vertex{{Index: 0, Point: geom.Pt(4, 12)}}
	ray.vertices[1] = 0
	ray.clip(r, vertices)
	if ray.visible() {
		t.Errorf("ray starting above the bounds is visible: %v", ray.clipped)
	}
}

func TestClipDiagonal(t *testing.T) {
	r := geom.Rect{Width: 10, Height: 10}
	a := &site{index: 0, coord: geom.Pt(2, 2)}
	b := &site{index: 1, coord: geom.Pt(8, 8)}
	e := bisect(0, a, b)
	e.clip(r, nil)

	got := []geom.Point{e.clipped[0], e.clipped[1]}
	if diff := cmp.Diff([]geom.Point{geom.Pt(0, 10), geom.Pt(10, 0)}, got, approx); diff != "" {
		t.Errorf("clipped mismatch (-want +got):\n%s", diff)
	}
}

func newTestPass(coords ...geom.Point) *pass {
	order := make([]int, len(coords))
	for i := range order {
		order[i] = i
	}
	return newPass(geom.Rect{Width: 10, Height: 10}, coords, order, logger.NewNop())
}

func TestCircleQueueOrder(t *testing.T) {
	p := newTestPass(geom.Pt(0, 0), geom.Pt(10, 10))
	q := newCircleQueue(p, 0, 10, 8)

	events := []geom.Point{
		geom.Pt(3, 7), geom.Pt(1, 2), geom.Pt(5, 2), geom.Pt(0, 9.5), geom.Pt(2, -4), geom.Pt(4, 30),
	}
	handles := make([]int, len(events))
	for i, ev := range events {
		handles[i] = p.newHalfEdge(edgeRef{}, SideLeft)
		q.insert(handles[i], Vertex{Index: nilHandle, Point: ev}, 0)
	}

	if err := q.delete(handles[0]); err != nil {
		t.Fatalf("delete() error = %v", err)
	}
	// повторное удаление - ничего не делает
	if err := q.delete(handles[0]); err != nil {
		t.Fatalf("second delete() error = %v", err)
	}

	var got []geom.Point
	for !q.empty() {
		top, err := q.min()
		if err != nil {
			t.Fatalf("min() error = %v", err)
		}
		h, err := q.extractMin()
		if err != nil {
			t.Fatalf("extractMin() error = %v", err)
		}
		if p.halfEdges[h].ystar != top.Y {
			t.Fatalf("extractMin() = ystar %v, min() said %v", p.halfEdges[h].ystar, top.Y)
		}
		got = append(got, p.halfEdges[h].vertex.Point)
	}

	want := []geom.Point{geom.Pt(2, -4), geom.Pt(1, 2), geom.Pt(5, 2), geom.Pt(0, 9.5), geom.Pt(4, 30)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestCircleQueueMissingEntry(t *testing.T) {
	p := newTestPass(geom.Pt(0, 0), geom.Pt(10, 10))
	q := newCircleQueue(p, 0, 10, 8)

	h := p.newHalfEdge(edgeRef{}, SideLeft)
	q.insert(h, Vertex{Point: geom.Pt(1, 1)}, 0)
	// вершину сдвинули за спиной очереди
	p.halfEdges[h].ystar = 9

	if err := q.delete(h); !errors.Is(err, ErrSweepInvariant) {
		t.Errorf("delete() error = %v, want ErrSweepInvariant", err)
	}
}

func TestLeftBoundExhausted(t *testing.T) {
	p := newTestPass(geom.Pt(1, 1), geom.Pt(9, 9))
	for i := range p.el.hash {
		p.el.hash[i] = nilHandle
	}
	if _, err := p.el.leftBound(geom.Pt(5, 5)); !errors.Is(err, ErrSweepInvariant) {
		t.Errorf("leftBound() error = %v, want ErrSweepInvariant", err)
	}
}

func TestBeachlineInsertDelete(t *testing.T) {
	p := newTestPass(geom.Pt(1, 1), geom.Pt(9, 1))
	p.bottom = 0
	e := p.newEdge(0, 1)

	l := p.newHalfEdge(liveEdge(e), SideLeft)
	r := p.newHalfEdge(liveEdge(e), SideRight)
	p.el.insert(p.el.leftEnd, l)
	p.el.insert(l, r)

	if got := p.halfEdges[p.el.leftEnd].right; got != l {
		t.Fatalf("leftEnd.right = %d, want %d", got, l)
	}
	if got := p.halfEdges[p.el.rightEnd].left; got != r {
		t.Fatalf("rightEnd.left = %d, want %d", got, r)
	}
	if p.leftRegion(l) != 0 || p.rightRegion(l) != 1 || p.rightRegion(r) != 0 {
		t.Errorf("regions = %d|%d|%d, want 0|1|0", p.leftRegion(l), p.rightRegion(l), p.rightRegion(r))
	}

	// правее x=5 точка лежит справа от левого полуребра
	if !p.isLeftOf(l, geom.Pt(7, 3)) {
		t.Errorf("isLeftOf(left, (7, 3)) = false")
	}
	if p.isLeftOf(l, geom.Pt(3, 3)) {
		t.Errorf("isLeftOf(left, (3, 3)) = true")
	}

	p.el.delete(l)
	if p.halfEdges[l].ref.state != edgeDeleted {
		t.Errorf("deleted half-edge still references a live edge")
	}
	if got := p.halfEdges[p.el.leftEnd].right; got != r {
		t.Errorf("leftEnd.right after delete = %d, want %d", got, r)
	}

	p.el.hash[1] = l
	if got := p.el.hashed(1); got != nilHandle || p.el.hash[1] != nilHandle {
		t.Errorf("stale bucket was not cleared: %d", got)
	}
}

func TestIntersect(t *testing.T) {
	// три сайта, вершина в центре описанной окружности (5, 5)
	p := newTestPass(geom.Pt(5, 0), geom.Pt(0, 5), geom.Pt(10, 5))
	e1 := p.newEdge(0, 1)
	e2 := p.newEdge(0, 2)
	h1 := p.newHalfEdge(liveEdge(e1), SideRight)
	h2 := p.newHalfEdge(liveEdge(e2), SideLeft)

	v, ok := p.intersect(h1, h2)
	if !ok {
		t.Fatalf("intersect() found nothing")
	}
	if diff := cmp.Diff(geom.Pt(5, 5), v.Point, approx); diff != "" {
		t.Errorf("vertex mismatch (-want +got):\n%s", diff)
	}
	if v.Index != nilHandle {
		t.Errorf("speculative vertex has index %d", v.Index)
	}

	if _, ok := p.intersect(h1, p.el.leftEnd); ok {
		t.Errorf("intersect() with a sentinel found a vertex")
	}
	if _, ok := p.intersect(h1, h1); ok {
		t.Errorf("intersect() of an edge with itself found a vertex")
	}
}

func TestPointSet(t *testing.T) {
	s := newPointSet(geom.Epsilon, 4)
	if !s.add(geom.Pt(1, 1)) {
		t.Fatalf("first add() = false")
	}
	if s.add(geom.Pt(1+5e-9, 1-5e-9)) {
		t.Errorf("near duplicate was added")
	}
	if !s.add(geom.Pt(1+1e-6, 1)) {
		t.Errorf("distinct point was rejected")
	}
	// соседняя клетка сетки
	onLine := geom.Pt(s.step*3-1e-12, 0)
	s.add(onLine)
	if !s.has(geom.Pt(s.step*3+1e-12, 0)) {
		t.Errorf("near duplicate across a grid line was not found")
	}
}

func TestStateString(t *testing.T) {
	if StateReconstructed.String() != "reconstructed" || State(42).String() != "unknown" {
		t.Errorf("String() = %q, %q", StateReconstructed, State(42))
	}
}
