package voronoi

import (
	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/pkg/errors"
)

// beachline - двусвязный список полуребер пляжной линии между двумя
// стражами и хеш по x для быстрого поиска.
type beachline struct {
	p *pass

	leftEnd, rightEnd int

	// hash[i] - закешированное полуребро для i-й корзины по x
	hash   []int
	minX   float64
	deltaX float64
}

func newBeachline(p *pass, minX, deltaX float64, size int) *beachline {
	if deltaX <= 0 {
		deltaX = 1
	}
	b := &beachline{
		p:      p,
		hash:   make([]int, size),
		minX:   minX,
		deltaX: deltaX,
	}
	for i := range b.hash {
		b.hash[i] = nilHandle
	}

	b.leftEnd = p.newHalfEdge(edgeRef{}, SideNone)
	b.rightEnd = p.newHalfEdge(edgeRef{}, SideNone)
	p.halfEdges[b.leftEnd].right = b.rightEnd
	p.halfEdges[b.rightEnd].left = b.leftEnd

	b.hash[0] = b.leftEnd
	b.hash[size-1] = b.rightEnd
	return b
}

// insert вставляет he справа от after
func (b *beachline) insert(after, he int) {
	hs := b.p.halfEdges
	right := hs[after].right
	hs[he].left = after
	hs[he].right = right
	hs[right].left = he
	hs[after].right = he
}

// delete вынимает he из списка. Ссылки he на соседей сохраняются,
// а в хеше он вычищается лениво при следующем обращении.
func (b *beachline) delete(he int) {
	hs := b.p.halfEdges
	hs[hs[he].left].right = hs[he].right
	hs[hs[he].right].left = hs[he].left
	hs[he].ref.state = edgeDeleted
}

func (b *beachline) hashed(bucket int) int {
	if bucket < 0 || bucket >= len(b.hash) {
		return nilHandle
	}
	he := b.hash[bucket]
	if he == nilHandle || b.p.halfEdges[he].ref.state != edgeDeleted {
		return he
	}
	b.hash[bucket] = nilHandle
	return nilHandle
}

func (b *beachline) bucket(x float64) int {
	bucket := int((x - b.minX) / b.deltaX * float64(len(b.hash)))
	if bucket < 0 {
		return 0
	}
	if bucket >= len(b.hash) {
		return len(b.hash) - 1
	}
	return bucket
}

// leftBound находит полуребро, непосредственно левее точки pt.
func (b *beachline) leftBound(pt geom.Point) (int, error) {
	p := b.p
	bucket := b.bucket(pt.X)

	he := b.hashed(bucket)
	if he == nilHandle {
		for i := 1; he == nilHandle; i++ {
			if i >= len(b.hash) {
				return nilHandle, errors.Wrapf(ErrSweepInvariant,
					"beachline: no cached half-edge around bucket %d for (%g, %g)", bucket, pt.X, pt.Y)
			}
			if he = b.hashed(bucket - i); he != nilHandle {
				break
			}
			he = b.hashed(bucket + i)
		}
	}

	// ни одна корректная прогулка не длиннее арены
	limit := len(p.halfEdges) + 1
	steps := 0
	if he == b.leftEnd || (he != b.rightEnd && p.isLeftOf(he, pt)) {
		for {
			he = p.halfEdges[he].right
			if he == nilHandle {
				return nilHandle, errors.Wrap(ErrSweepInvariant, "beachline: broken right link")
			}
			if he == b.rightEnd || !p.isLeftOf(he, pt) {
				break
			}
			if steps++; steps > limit {
				return nilHandle, errors.Wrapf(ErrSweepInvariant,
					"beachline: right walk for (%g, %g) does not terminate", pt.X, pt.Y)
			}
		}
		he = p.halfEdges[he].left
	} else {
		for {
			he = p.halfEdges[he].left
			if he == nilHandle {
				return nilHandle, errors.Wrap(ErrSweepInvariant, "beachline: broken left link")
			}
			if he == b.leftEnd || !p.isRightOf(he, pt) {
				break
			}
			if steps++; steps > limit {
				return nilHandle, errors.Wrapf(ErrSweepInvariant,
					"beachline: left walk for (%g, %g) does not terminate", pt.X, pt.Y)
			}
		}
	}

	// крайние корзины заняты стражами
	if bucket > 0 && bucket < len(b.hash)-1 {
		b.hash[bucket] = he
	}
	return he, nil
}
