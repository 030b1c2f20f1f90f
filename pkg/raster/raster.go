// Package raster bakes generated Voronoi cells into a grid of payloads.
package raster

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
	"github.com/peterstace/simplefeatures/rtree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrInvalidResolution = errors.New("raster: resolution must be positive")

type cell[T any] struct {
	index   int
	poly    []geom.Point
	box     geom.Rect
	payload T
}

// Rasterizer samples the cells of one generated diagram. It is safe for
// concurrent use once built.
type Rasterizer[T any] struct {
	bounds  geom.Rect
	cells   []cell[T]
	tree    *rtree.RTree
	workers int
	log     *logger.ZapLogger
}

type options struct {
	workers int
	log     *logger.ZapLogger
}

type Option func(*options)

// WithWorkers sets the number of goroutines filling row bands.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithLogger(l *logger.ZapLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New indexes the cells of sites. Cells without vertices are skipped.
func New[T any](bounds geom.Rect, sites map[int]*voronoi.GeneratedSite[T], opts ...Option) *Rasterizer[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}

	cells := make([]cell[T], 0, len(sites))
	for _, s := range sites {
		box, ok := geom.PolygonBounds(s.Vertices)
		if !ok {
			continue
		}
		cells = append(cells, cell[T]{index: s.Index, poly: s.Vertices, box: box, payload: s.Payload})
	}
	// later sites overwrite earlier ones, so the order must not depend on
	// map iteration
	sort.Slice(cells, func(i, j int) bool { return cells[i].index < cells[j].index })

	items := make([]rtree.BulkItem, len(cells))
	for i, c := range cells {
		items[i] = rtree.BulkItem{
			Box:      rtree.Box{MinX: c.box.MinX(), MinY: c.box.MinY(), MaxX: c.box.MaxX(), MaxY: c.box.MaxY()},
			RecordID: i,
		}
	}

	return &Rasterizer[T]{
		bounds:  bounds,
		cells:   cells,
		tree:    rtree.BulkLoad(items),
		workers: o.workers,
		log:     o.log,
	}
}

// Sample returns a row-major resolution x resolution grid.
func (r *Rasterizer[T]) Sample(resolution int) ([]T, error) {
	if resolution <= 0 {
		return nil, errors.Wrapf(ErrInvalidResolution, "resolution=%d", resolution)
	}
	return r.fill(resolution, resolution), nil
}

// Sample2D returns a [height][width] grid.
func (r *Rasterizer[T]) Sample2D(width, height int) ([][]T, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidResolution, "width=%d height=%d", width, height)
	}
	flat := r.fill(width, height)
	grid := make([][]T, height)
	for y := range grid {
		grid[y] = flat[y*width : (y+1)*width : (y+1)*width]
	}
	return grid, nil
}

func (r *Rasterizer[T]) fill(width, height int) []T {
	out := make([]T, width*height)

	workers := r.workers
	if workers > height {
		workers = height
	}
	rowsPerWorker := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > height {
			endRow = height
		}
		if startRow >= endRow {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r.processRows(out, width, height, start, end)
		}(startRow, endRow)
	}
	wg.Wait()

	r.log.Debug("[raster] grid filled",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("cells", len(r.cells)),
		zap.Int("workers", workers))
	return out
}

// processRows writes every cell into rows [startRow, endRow). Grid cell
// (x, y) is sampled at its center.
func (r *Rasterizer[T]) processRows(out []T, width, height, startRow, endRow int) {
	cw := r.bounds.Width / float64(width)
	ch := r.bounds.Height / float64(height)

	for _, c := range r.cells {
		x0, x1 := span(c.box.MinX(), c.box.MaxX(), r.bounds.X, cw, width)
		y0, y1 := span(c.box.MinY(), c.box.MaxY(), r.bounds.Y, ch, height)
		if y0 < startRow {
			y0 = startRow
		}
		if y1 > endRow-1 {
			y1 = endRow - 1
		}

		for y := y0; y <= y1; y++ {
			py := r.bounds.Y + (float64(y)+0.5)*ch
			for x := x0; x <= x1; x++ {
				px := r.bounds.X + (float64(x)+0.5)*cw
				if geom.PointInPolygon(geom.Pt(px, py), c.poly) {
					out[y*width+x] = c.payload
				}
			}
		}
	}
}

// span returns the inclusive range of grid indices whose centers fall in
// [lo, hi], clamped to [0, n-1]. An empty range has first > last.
func span(lo, hi, origin, step float64, n int) (int, int) {
	if step <= 0 {
		return 0, -1
	}
	first := int(math.Ceil((lo-origin)/step - 0.5))
	last := int(math.Floor((hi-origin)/step - 0.5))
	if first < 0 {
		first = 0
	}
	if last > n-1 {
		last = n - 1
	}
	return first, last
}

// Locate returns the index of the cell containing p. On shared borders
// the lowest index wins.
func (r *Rasterizer[T]) Locate(p geom.Point) (int, bool) {
	best := -1
	box := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	_ = r.tree.RangeSearch(box, func(id int) error {
		c := &r.cells[id]
		if (best == -1 || c.index < best) && (geom.PointInPolygon(p, c.poly) || onBoundary(p, c.poly)) {
			best = c.index
		}
		return nil
	})
	return best, best != -1
}

func onBoundary(p geom.Point, poly []geom.Point) bool {
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		if !geom.AlmostZero(geom.Cross(a, b, p), geom.Epsilon*math.Max(1, geom.Dist(a, b))) {
			continue
		}
		if p.X >= math.Min(a.X, b.X)-geom.Epsilon && p.X <= math.Max(a.X, b.X)+geom.Epsilon &&
			p.Y >= math.Min(a.Y, b.Y)-geom.Epsilon && p.Y <= math.Max(a.Y, b.Y)+geom.Epsilon {
			return true
		}
	}
	return false
}

// Cells returns the number of indexed cells.
func (r *Rasterizer[T]) Cells() int {
	return len(r.cells)
}
