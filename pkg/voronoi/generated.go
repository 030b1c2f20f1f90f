package voronoi

import "github.com/0x0FACED/fortune-lloyd/pkg/geom"

// GeneratedSite - итоговая ячейка одного прохода. Не меняется после
// возврата из Generate.
type GeneratedSite[T any] struct {
	Index    int
	Coord    geom.Point
	Centroid geom.Point
	Payload  T

	// Vertices - выпуклый многоугольник ячейки против часовой стрелки.
	// Пуст, если ячейку не удалось замкнуть (см. Defect).
	Vertices []geom.Point
	Edges    []GeneratedEdge
	// Neighbors - индексы соседей по видимым ребрам, по возрастанию
	Neighbors []int

	// IsCorner - ячейке принадлежит угол границ,
	// IsEdge - ячейка касается границ.
	IsCorner bool
	IsEdge   bool

	// Defect - восстановимая ошибка построения ячейки
	Defect error
}

// Area возвращает площадь ячейки.
func (s *GeneratedSite[T]) Area() float64 {
	a := geom.SignedArea(s.Vertices)
	if a < 0 {
		return -a
	}
	return a
}

// Contains сообщает, лежит ли p в ячейке (правило чет-нечет).
func (s *GeneratedSite[T]) Contains(p geom.Point) bool {
	return len(s.Vertices) > 0 && geom.PointInPolygon(p, s.Vertices)
}
