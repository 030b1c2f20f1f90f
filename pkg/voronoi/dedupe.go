package voronoi

import (
	"math"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
)

// pointSet находит точки, совпадающие с уже добавленными с точностью tol.
// Точки раскладываются по сетке с шагом не меньше tol, поэтому хватает
// проверить соседние 3x3 клетки.
type pointSet struct {
	tol   float64
	step  float64
	cells map[[2]int64][]geom.Point
}

func newPointSet(tol float64, capacity int) *pointSet {
	return &pointSet{
		tol:   tol,
		step:  tol * 64,
		cells: make(map[[2]int64][]geom.Point, capacity),
	}
}

func (s *pointSet) key(p geom.Point) [2]int64 {
	return [2]int64{int64(math.Floor(p.X / s.step)), int64(math.Floor(p.Y / s.step))}
}

func (s *pointSet) has(p geom.Point) bool {
	k := s.key(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, q := range s.cells[[2]int64{k[0] + dx, k[1] + dy}] {
				if geom.PointsAlmostEqual(p, q, s.tol) {
					return true
				}
			}
		}
	}
	return false
}

// add добавляет p и сообщает, была ли точка новой
func (s *pointSet) add(p geom.Point) bool {
	if s.has(p) {
		return false
	}
	k := s.key(p)
	s.cells[k] = append(s.cells[k], p)
	return true
}
