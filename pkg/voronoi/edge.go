package voronoi

import (
	"math"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/pkg/errors"
)

// edge - серединный перпендикуляр двух сайтов: a*x + b*y = c.
// После bisect одно из a, b равно 1.
type edge struct {
	index   int
	a, b, c float64

	// sites[0] - левый сайт, sites[1] - правый
	sites [2]int
	// vertices - индексы концов, -1 если конец не задан
	vertices [2]int
	// clipped - концы после отсечения по границам.
	// У невидимого ребра оба равны geom.Invisible.
	clipped [2]geom.Point
}

// bisect строит ребро между сайтами sa и sb и регистрирует его у обоих.
func bisect(index int, sa, sb *site) edge {
	e := edge{
		index:    index,
		sites:    [2]int{sa.index, sb.index},
		vertices: [2]int{nilHandle, nilHandle},
		clipped:  [2]geom.Point{geom.Invisible, geom.Invisible},
	}

	dx := sb.coord.X - sa.coord.X
	dy := sb.coord.Y - sa.coord.Y
	e.c = sa.coord.X*dx + sa.coord.Y*dy + (dx*dx+dy*dy)*0.5

	if math.Abs(dx) > math.Abs(dy) {
		e.a = 1
		e.b = dy / dx
		e.c /= dx
	} else {
		e.b = 1
		e.a = dx / dy
		e.c /= dy
	}

	sa.edges = append(sa.edges, index)
	sb.edges = append(sb.edges, index)
	return e
}

// setEndpoint привязывает вершину v к концу ребра со стороны side.
func (e *edge) setEndpoint(v int, side Side) error {
	if side == SideNone {
		return errors.Wrapf(ErrInvalidSide, "edge %d", e.index)
	}
	slot := side.slot()
	if e.vertices[slot] != nilHandle {
		return errors.Wrapf(ErrSweepInvariant, "edge %d: %s endpoint already bound to vertex %d",
			e.index, side, e.vertices[slot])
	}
	e.vertices[slot] = v
	return nil
}

func (e *edge) endpoint(slot int, vertices []Vertex) (geom.Point, bool) {
	if e.vertices[slot] == nilHandle {
		return geom.Point{}, false
	}
	return vertices[e.vertices[slot]].Point, true
}

func (e *edge) visible() bool {
	return e.clipped[0] != geom.Invisible
}

func (e *edge) hide() {
	e.clipped = [2]geom.Point{geom.Invisible, geom.Invisible}
}

// clip отсекает ребро по прямоугольнику r. Отсутствующий конец заменяется
// пересечением с границей.
func (e *edge) clip(r geom.Rect, vertices []Vertex) {
	xmin, xmax := r.MinX(), r.MaxX()
	ymin, ymax := r.MinY(), r.MaxY()

	// s0 - конец с меньшей координатой вдоль направления обхода
	s0, s1 := 0, 1
	if geom.AlmostEqual(e.a, 1, geom.Epsilon) && e.b >= 0 {
		s0, s1 = 1, 0
	}
	p0, ok0 := e.endpoint(s0, vertices)
	p1, ok1 := e.endpoint(s1, vertices)

	var x0, y0, x1, y1 float64
	if geom.AlmostEqual(e.a, 1, geom.Epsilon) {
		y0 = ymin
		if ok0 && p0.Y > ymin {
			y0 = p0.Y
		}
		if y0 > ymax {
			e.hide()
			return
		}
		x0 = e.c - e.b*y0

		y1 = ymax
		if ok1 && p1.Y < ymax {
			y1 = p1.Y
		}
		if y1 < ymin {
			e.hide()
			return
		}
		x1 = e.c - e.b*y1

		if (x0 > xmax && x1 > xmax) || (x0 < xmin && x1 < xmin) {
			e.hide()
			return
		}
		if x0 > xmax {
			x0 = xmax
			y0 = (e.c - x0) / e.b
		} else if x0 < xmin {
			x0 = xmin
			y0 = (e.c - x0) / e.b
		}
		if x1 > xmax {
			x1 = xmax
			y1 = (e.c - x1) / e.b
		} else if x1 < xmin {
			x1 = xmin
			y1 = (e.c - x1) / e.b
		}
	} else {
		x0 = xmin
		if ok0 && p0.X > xmin {
			x0 = p0.X
		}
		if x0 > xmax {
			e.hide()
			return
		}
		y0 = e.c - e.a*x0

		x1 = xmax
		if ok1 && p1.X < xmax {
			x1 = p1.X
		}
		if x1 < xmin {
			e.hide()
			return
		}
		y1 = e.c - e.a*x1

		if (y0 > ymax && y1 > ymax) || (y0 < ymin && y1 < ymin) {
			e.hide()
			return
		}
		if y0 > ymax {
			y0 = ymax
			x0 = (e.c - y0) / e.a
		} else if y0 < ymin {
			y0 = ymin
			x0 = (e.c - y0) / e.a
		}
		if y1 > ymax {
			y1 = ymax
			x1 = (e.c - y1) / e.a
		} else if y1 < ymin {
			y1 = ymin
			x1 = (e.c - y1) / e.a
		}
	}

	c0, c1 := geom.Pt(x0, y0), geom.Pt(x1, y1)
	// ребро касается прямоугольника в одной точке
	if geom.PointsAlmostEqual(c0, c1, geom.Epsilon) {
		e.hide()
		return
	}
	e.clipped[s0] = c0
	e.clipped[s1] = c1
}

// GeneratedEdge - ребро в снимке диаграммы.
type GeneratedEdge struct {
	Index     int
	LeftSite  int
	RightSite int
	// Left и Right - отсеченные концы. У невидимого ребра оба равны
	// geom.Invisible.
	Left, Right geom.Point
}

func (e GeneratedEdge) Visible() bool {
	return e.Left != geom.Invisible
}

func (e *edge) generated() GeneratedEdge {
	return GeneratedEdge{
		Index:     e.index,
		LeftSite:  e.sites[0],
		RightSite: e.sites[1],
		Left:      e.clipped[0],
		Right:     e.clipped[1],
	}
}
