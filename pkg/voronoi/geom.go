package voronoi

import (
	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
)

// Сторона полуребра. SideNone есть только у двух стражей пляжной линии.
type Side int8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) Other() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	}
	return SideNone
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}

// slot - индекс в массивах [2] ребра
func (s Side) slot() int {
	if s == SideRight {
		return 1
	}
	return 0
}

// Vertex - вершина диаграммы (пересечение двух ребер).
// Index равен -1, пока вершина не принята событием круга.
type Vertex struct {
	Index int
	Point geom.Point
}

const nilHandle = -1

type edgeState uint8

const (
	edgeNone edgeState = iota // стражи пляжной линии
	edgeLive
	edgeDeleted // полуребро удалено из пляжной линии
)

// edgeRef - ссылка полуребра на ребро вместе с признаком удаления
type edgeRef struct {
	id    int
	state edgeState
}

func liveEdge(id int) edgeRef {
	return edgeRef{id: id, state: edgeLive}
}

func (r edgeRef) live() bool {
	return r.state == edgeLive
}

// halfEdge живет в арене прохода и адресуется индексом
type halfEdge struct {
	ref  edgeRef
	side Side

	// соседи по пляжной линии
	left, right int

	// событие круга
	vertex Vertex
	queued bool
	ystar  float64
	next   int
}

func (p *pass) newHalfEdge(ref edgeRef, side Side) int {
	p.halfEdges = append(p.halfEdges, halfEdge{
		ref:   ref,
		side:  side,
		left:  nilHandle,
		right: nilHandle,
		next:  nilHandle,
	})
	return len(p.halfEdges) - 1
}

// isLeftOf reports whether the half-edge h passes to the left of pt at the
// current sweep position, i.e. pt lies on its right.
func (p *pass) isLeftOf(h int, pt geom.Point) bool {
	he := &p.halfEdges[h]
	e := &p.edges[he.ref.id]
	top := p.sites[e.sites[1]].coord

	rightOfSite := pt.X > top.X
	if rightOfSite && he.side == SideLeft {
		return true
	}
	if !rightOfSite && he.side == SideRight {
		return false
	}

	var above bool
	if geom.AlmostEqual(e.a, 1, geom.Epsilon) {
		dyp := pt.Y - top.Y
		dxp := pt.X - top.X
		fast := false
		if (!rightOfSite && e.b < 0) || (rightOfSite && e.b >= 0) {
			above = dyp >= e.b*dxp
			fast = above
		} else {
			above = pt.X+pt.Y*e.b > e.c
			if e.b < 0 {
				above = !above
			}
			if !above {
				fast = true
			}
		}
		if !fast {
			// проверки первого порядка не хватает возле вершины параболы
			dxs := top.X - p.sites[e.sites[0]].coord.X
			above = e.b*(dxp*dxp-dyp*dyp) < dxs*dyp*(1+2*dxp/dxs+e.b*e.b)
			if e.b < 0 {
				above = !above
			}
		}
	} else {
		yl := e.c - e.a*pt.X
		t1 := pt.Y - yl
		t2 := pt.X - top.X
		t3 := yl - top.Y
		above = t1*t1 > t2*t2+t3*t3
	}

	if he.side == SideLeft {
		return above
	}
	return !above
}

func (p *pass) isRightOf(h int, pt geom.Point) bool {
	return !p.isLeftOf(h, pt)
}

const parallelEpsilon = 1e-10

// intersect пересекает ребра двух полуребер. Пересечение, до которого
// прямая заметания еще не дошла, отбрасывается.
func (p *pass) intersect(h1, h2 int) (Vertex, bool) {
	he1, he2 := &p.halfEdges[h1], &p.halfEdges[h2]
	if !he1.ref.live() || !he2.ref.live() {
		return Vertex{}, false
	}
	e1, e2 := &p.edges[he1.ref.id], &p.edges[he2.ref.id]
	if e1.sites[1] == e2.sites[1] {
		return Vertex{}, false
	}

	d := e1.a*e2.b - e1.b*e2.a
	if geom.AlmostZero(d, parallelEpsilon) {
		return Vertex{}, false
	}

	x := (e1.c*e2.b - e2.c*e1.b) / d
	y := (e2.c*e1.a - e1.c*e2.a) / d

	// решает ребро, чье событие произошло позже
	he, e := he2, e2
	if sweepLess(p.sites[e1.sites[1]].coord, p.sites[e2.sites[1]].coord) {
		he, e = he1, e1
	}

	rightOfSite := x >= p.sites[e.sites[1]].coord.X
	if (rightOfSite && he.side == SideLeft) || (!rightOfSite && he.side == SideRight) {
		return Vertex{}, false
	}

	return Vertex{Index: nilHandle, Point: geom.Pt(x, y)}, true
}

// sweepLess - порядок событий: по y, затем по x
func sweepLess(a, b geom.Point) bool {
	if geom.AlmostEqual(a.Y, b.Y, geom.Epsilon) {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// leftRegion и rightRegion возвращают сайты слева и справа от полуребра
func (p *pass) leftRegion(h int) int {
	he := &p.halfEdges[h]
	if he.ref.state == edgeNone {
		return p.bottom
	}
	return p.edges[he.ref.id].sites[he.side.slot()]
}

func (p *pass) rightRegion(h int) int {
	he := &p.halfEdges[h]
	if he.ref.state == edgeNone {
		return p.bottom
	}
	return p.edges[he.ref.id].sites[he.side.Other().slot()]
}
