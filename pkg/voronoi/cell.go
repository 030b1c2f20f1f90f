package voronoi

import (
	"math"
	"sort"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/peterstace/simplefeatures/rtree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// site - сайт внутри прохода вместе с восстановленной ячейкой
type site struct {
	index int
	coord geom.Point
	// индексы инцидентных ребер
	edges []int

	polygon   []geom.Point
	centroid  geom.Point
	neighbors []int
	corner    bool
	border    bool
	defect    error
}

// Стороны границ в порядке обхода углов: низ, право, верх, лево.
const (
	sideBottom = iota
	sideRight
	sideTop
	sideLeft
)

// tolerances возвращает допуск касания границ и допуск оболочки.
// Для границ меньше единицы оба сжимаются вместе с ними: касание
// линейно, оболочка сравнивает векторные произведения (площади).
func tolerances(r geom.Rect) (touch, hull float64) {
	touch, hull = geom.BoundsEpsilon, geom.Epsilon
	if extent := math.Max(r.Width, r.Height); extent > 0 && extent < 1 {
		touch *= extent
		hull *= extent * extent
	}
	return touch, hull
}

// contacts отмечает стороны границ, которых касаются точки
func contacts(r geom.Rect, points []geom.Point, tol float64) (hit [4]bool) {
	for _, pt := range points {
		if geom.AlmostEqual(pt.Y, r.MinY(), tol) {
			hit[sideBottom] = true
		}
		if geom.AlmostEqual(pt.X, r.MaxX(), tol) {
			hit[sideRight] = true
		}
		if geom.AlmostEqual(pt.Y, r.MaxY(), tol) {
			hit[sideTop] = true
		}
		if geom.AlmostEqual(pt.X, r.MinX(), tol) {
			hit[sideLeft] = true
		}
	}
	return hit
}

func pointBox(p geom.Point) rtree.Box {
	return rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// cornerOwners возвращает для каждого угла границ ближайший сайт.
// При равных расстояниях угол достается сайту с меньшим индексом.
func (p *pass) cornerOwners() [4]int {
	items := make([]rtree.BulkItem, len(p.sites))
	for i := range p.sites {
		items[i] = rtree.BulkItem{Box: pointBox(p.sites[i].coord), RecordID: i}
	}
	tree := rtree.BulkLoad(items)

	var owners [4]int
	for c, corner := range p.bounds.Corners() {
		best, bestDist := nilHandle, 0.0
		_ = tree.PrioritySearch(pointBox(corner), func(id int) error {
			d := geom.Dist(p.sites[id].coord, corner)
			if best == nilHandle {
				best, bestDist = id, d
				return nil
			}
			if d > bestDist+geom.Epsilon {
				return rtree.Stop
			}
			if id < best {
				best = id
			}
			return nil
		})
		owners[c] = best
	}
	return owners
}

// reconstruct собирает многоугольник каждой ячейки: выпуклая оболочка
// видимых концов ее ребер плюс принадлежащие ей углы границ.
func (p *pass) reconstruct() {
	owners := p.cornerOwners()
	corners := p.bounds.Corners()
	touchTol, hullTol := tolerances(p.bounds)

	for i := range p.sites {
		s := &p.sites[i]
		points := make([]geom.Point, 0, 2*len(s.edges)+4)
		neighbors := make(map[int]struct{}, len(s.edges))

		for _, id := range s.edges {
			e := &p.edges[id]
			if !e.visible() {
				continue
			}
			points = append(points, e.clipped[0], e.clipped[1])
			other := e.sites[0]
			if other == i {
				other = e.sites[1]
			}
			neighbors[other] = struct{}{}
		}

		for c, owner := range owners {
			if owner == i {
				points = append(points, corners[c])
				s.corner = true
			}
		}

		hit := contacts(p.bounds, points, touchTol)
		s.border = hit[sideBottom] || hit[sideRight] || hit[sideTop] || hit[sideLeft]

		s.neighbors = make([]int, 0, len(neighbors))
		for n := range neighbors {
			s.neighbors = append(s.neighbors, n)
		}
		sort.Ints(s.neighbors)

		hull := geom.ConvexHull(points, hullTol)
		if len(hull) < 3 {
			s.defect = errors.Wrapf(ErrDegenerateCell, "site %d: %d hull points", i, len(hull))
			p.log.Warn("[f-cell] Ячейка не замкнута", zap.Int("site", i), zap.Int("hull", len(hull)))
			p.addDefect(s.defect)
			continue
		}
		s.polygon = hull

		c, err := geom.Centroid(hull, hullTol)
		if err != nil {
			s.defect = errors.Wrapf(ErrDegenerateCell, "site %d: %v", i, err)
			p.log.Warn("[f-cell] Центроид не вычислен", zap.Int("site", i), zap.Error(err))
			p.addDefect(s.defect)
			continue
		}
		s.centroid = c
	}
}
