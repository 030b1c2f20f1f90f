package voronoi

import (
	"math"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// pass - один проход алгоритма Форчуна. Все полуребра, ребра и вершины
// живут в срезах прохода и адресуются индексами.
type pass struct {
	bounds geom.Rect

	// сайты по индексу
	sites []site
	// order - индексы сайтов в порядке заметания
	order  []int
	bottom int

	edges     []edge
	halfEdges []halfEdge
	vertices  []Vertex

	el *beachline
	pq *circleQueue

	log     *logger.ZapLogger
	defects error
}

func newPass(bounds geom.Rect, coords []geom.Point, order []int, log *logger.ZapLogger) *pass {
	n := len(coords)
	p := &pass{
		bounds:    bounds,
		sites:     make([]site, n),
		order:     order,
		bottom:    nilHandle,
		edges:     make([]edge, 0, 3*n),
		halfEdges: make([]halfEdge, 0, 4*n+2),
		vertices:  make([]Vertex, 0, 2*n),
		log:       log,
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, c := range coords {
		p.sites[i] = site{index: i, coord: c, centroid: c}
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}

	sqrtN := int(math.Sqrt(float64(n + 4)))
	p.el = newBeachline(p, minX, maxX-minX, 2*sqrtN)
	p.pq = newCircleQueue(p, minY, maxY-minY, 4*sqrtN)
	return p
}

func (p *pass) addDefect(err error) {
	p.defects = multierr.Append(p.defects, err)
}

// sweep - основной цикл: события точек и кругов в порядке прямой заметания
func (p *pass) sweep() error {
	cursor := 0
	next := func() int {
		if cursor >= len(p.order) {
			return nilHandle
		}
		s := p.order[cursor]
		cursor++
		return s
	}

	p.bottom = next()
	if p.bottom == nilHandle {
		return nil
	}
	newSite := next()

	var counter int
	for {
		var minEvent geom.Point
		if !p.pq.empty() {
			var err error
			if minEvent, err = p.pq.min(); err != nil {
				return err
			}
		}

		counter++
		switch {
		case newSite != nilHandle && (p.pq.empty() || sweepLess(p.sites[newSite].coord, minEvent)):
			if err := p.siteEvent(newSite); err != nil {
				return err
			}
			newSite = next()
		case !p.pq.empty():
			if err := p.circleEvent(); err != nil {
				return err
			}
		default:
			p.log.Debug("[f] Основной цикл завершен",
				zap.Int("iterations", counter),
				zap.Int("edges", len(p.edges)),
				zap.Int("vertices", len(p.vertices)))
			return nil
		}
	}
}

func (p *pass) newEdge(s1, s2 int) int {
	e := bisect(len(p.edges), &p.sites[s1], &p.sites[s2])
	p.edges = append(p.edges, e)
	return e.index
}

// siteEvent - прямая заметания пересекла сайт s: его парабола разрезает
// дугу над ним, появляется новое ребро из двух полуребер.
func (p *pass) siteEvent(s int) error {
	pt := p.sites[s].coord
	if p.log.Enabled(zapcore.DebugLevel) {
		p.log.Debug("[f-for-site] Событие точки", zap.Int("site", s), zap.Float64("x", pt.X), zap.Float64("y", pt.Y))
	}

	lbnd, err := p.el.leftBound(pt)
	if err != nil {
		return errors.Wrapf(err, "site event %d", s)
	}
	rbnd := p.halfEdges[lbnd].right
	bot := p.rightRegion(lbnd)

	e := p.newEdge(bot, s)

	bisector := p.newHalfEdge(liveEdge(e), SideLeft)
	p.el.insert(lbnd, bisector)
	if v, ok := p.intersect(lbnd, bisector); ok {
		if err := p.pq.delete(lbnd); err != nil {
			return err
		}
		p.pq.insert(lbnd, v, geom.Dist(v.Point, pt))
	}

	lbnd = bisector
	bisector = p.newHalfEdge(liveEdge(e), SideRight)
	p.el.insert(lbnd, bisector)
	if v, ok := p.intersect(bisector, rbnd); ok {
		p.pq.insert(bisector, v, geom.Dist(v.Point, pt))
	}
	return nil
}

// circleEvent - дуга между lbnd и rbnd схлопнулась в вершину.
func (p *pass) circleEvent() error {
	lbnd, err := p.pq.extractMin()
	if err != nil {
		return err
	}
	llbnd := p.halfEdges[lbnd].left
	rbnd := p.halfEdges[lbnd].right
	if llbnd == nilHandle || rbnd == nilHandle {
		return errors.Wrapf(ErrSweepInvariant, "circle event on detached half-edge %d", lbnd)
	}
	rrbnd := p.halfEdges[rbnd].right
	bot := p.leftRegion(lbnd)
	top := p.rightRegion(rbnd)

	v := p.makeVertex(p.halfEdges[lbnd].vertex)
	if p.log.Enabled(zapcore.DebugLevel) {
		p.log.Debug("[f-for-circle] Событие круга", zap.Int("vertex", v.Index),
			zap.Float64("x", v.Point.X), zap.Float64("y", v.Point.Y))
	}

	if err := p.endpoint(lbnd, v); err != nil {
		return err
	}
	if err := p.endpoint(rbnd, v); err != nil {
		return err
	}
	p.el.delete(lbnd)
	if err := p.pq.delete(rbnd); err != nil {
		return err
	}
	p.el.delete(rbnd)

	side := SideLeft
	if botY, topY := p.sites[bot].coord.Y, p.sites[top].coord.Y; botY > topY {
		bot, top = top, bot
		side = SideRight
	}

	e := p.newEdge(bot, top)
	bisector := p.newHalfEdge(liveEdge(e), side)
	p.el.insert(llbnd, bisector)
	if err := p.edges[e].setEndpoint(v.Index, side.Other()); err != nil {
		return err
	}

	botCoord := p.sites[bot].coord
	if nv, ok := p.intersect(llbnd, bisector); ok {
		if err := p.pq.delete(llbnd); err != nil {
			return err
		}
		p.pq.insert(llbnd, nv, geom.Dist(nv.Point, botCoord))
	}
	if nv, ok := p.intersect(bisector, rrbnd); ok {
		p.pq.insert(bisector, nv, geom.Dist(nv.Point, botCoord))
	}
	return nil
}

// makeVertex принимает вершину и присваивает ей индекс
func (p *pass) makeVertex(v Vertex) Vertex {
	v.Index = len(p.vertices)
	if geom.IsNaN(v.Point) {
		err := errors.Wrapf(ErrNaNVertex, "vertex %d", v.Index)
		p.log.Warn("[f-for-circle] Вершина с NaN", zap.Error(err))
		p.addDefect(err)
	}
	p.vertices = append(p.vertices, v)
	return v
}

func (p *pass) endpoint(h int, v Vertex) error {
	he := &p.halfEdges[h]
	if !he.ref.live() {
		return errors.Wrapf(ErrSweepInvariant, "half-edge %d has no live edge", h)
	}
	return p.edges[he.ref.id].setEndpoint(v.Index, he.side)
}

// clipEdges отсекает все ребра по границам диаграммы
func (p *pass) clipEdges() int {
	visible := 0
	for i := range p.edges {
		p.edges[i].clip(p.bounds, p.vertices)
		if p.edges[i].visible() {
			visible++
		}
	}
	p.log.Debug("[f] Ребра отсечены", zap.Int("edges", len(p.edges)), zap.Int("visible", visible))
	return visible
}
