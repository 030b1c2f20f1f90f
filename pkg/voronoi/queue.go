package voronoi

import (
	"math"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/pkg/errors"
)

// circleQueue - очередь событий круга: корзины по ystar, внутри корзины
// односвязный список по (ystar, x).
type circleQueue struct {
	p *pass

	heads     []int
	minBucket int
	count     int

	minY   float64
	deltaY float64
}

func newCircleQueue(p *pass, minY, deltaY float64, size int) *circleQueue {
	if deltaY <= 0 {
		deltaY = 1
	}
	q := &circleQueue{
		p:      p,
		heads:  make([]int, size),
		minY:   minY,
		deltaY: deltaY,
	}
	for i := range q.heads {
		q.heads[i] = nilHandle
	}
	return q
}

func (q *circleQueue) bucket(h int) int {
	ystar := q.p.halfEdges[h].ystar
	var b int
	switch {
	case math.IsNaN(ystar):
		b = len(q.heads) - 1
	default:
		b = int((ystar - q.minY) / q.deltaY * float64(len(q.heads)))
		if b < 0 {
			b = 0
		}
		if b >= len(q.heads) {
			b = len(q.heads) - 1
		}
	}
	if b < q.minBucket {
		q.minBucket = b
	}
	return b
}

// eventAfter - событие (y1, x1) наступает позже (y2, x2)
func eventAfter(y1, x1, y2, x2 float64) bool {
	if geom.AlmostEqual(y1, y2, geom.Epsilon) {
		return x1 > x2
	}
	return y1 > y2
}

// insert ставит событие круга для h с вершиной v; ystar = v.y + offset.
func (q *circleQueue) insert(h int, v Vertex, offset float64) {
	hs := q.p.halfEdges
	he := &hs[h]
	he.vertex = v
	he.queued = true
	he.ystar = v.Point.Y + offset

	b := q.bucket(h)
	prev, next := nilHandle, q.heads[b]
	for next != nilHandle {
		n := &hs[next]
		if !eventAfter(he.ystar, v.Point.X, n.ystar, n.vertex.Point.X) {
			break
		}
		prev, next = next, n.next
	}
	he.next = next
	if prev == nilHandle {
		q.heads[b] = h
	} else {
		hs[prev].next = h
	}
	q.count++
}

// delete снимает событие h, если оно стоит в очереди.
func (q *circleQueue) delete(h int) error {
	hs := q.p.halfEdges
	he := &hs[h]
	if !he.queued {
		return nil
	}

	b := q.bucket(h)
	prev, cur := nilHandle, q.heads[b]
	for cur != h {
		if cur == nilHandle {
			return errors.Wrapf(ErrSweepInvariant,
				"circle queue: half-edge %d missing from bucket %d (ystar=%g)", h, b, he.ystar)
		}
		prev, cur = cur, hs[cur].next
	}
	if prev == nilHandle {
		q.heads[b] = he.next
	} else {
		hs[prev].next = he.next
	}
	he.next = nilHandle
	he.queued = false
	q.count--
	return nil
}

func (q *circleQueue) empty() bool {
	return q.count == 0
}

// min возвращает (x, ystar) ближайшего события.
func (q *circleQueue) min() (geom.Point, error) {
	for q.minBucket < len(q.heads) && q.heads[q.minBucket] == nilHandle {
		q.minBucket++
	}
	if q.minBucket >= len(q.heads) {
		return geom.Point{}, errors.Wrapf(ErrSweepInvariant,
			"circle queue: %d events counted but every bucket is empty", q.count)
	}
	he := &q.p.halfEdges[q.heads[q.minBucket]]
	return geom.Pt(he.vertex.Point.X, he.ystar), nil
}

// extractMin снимает ближайшее событие. Вершина остается в полуребре.
func (q *circleQueue) extractMin() (int, error) {
	if _, err := q.min(); err != nil {
		return nilHandle, err
	}
	h := q.heads[q.minBucket]
	he := &q.p.halfEdges[h]
	q.heads[q.minBucket] = he.next
	he.next = nilHandle
	he.queued = false
	q.count--
	return h, nil
}
