package voronoi

import (
	"math"
	"sort"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Input - исходная точка с полезной нагрузкой
type Input[T any] struct {
	Point   geom.Point
	Payload T
}

// State - стадия генерации диаграммы
type State int

const (
	StateIdle State = iota
	StateSorted
	StateSweeping
	StateClipped
	StateReconstructed
	StateRelaxing
	StateDone
)

var stateNames = [...]string{"idle", "sorted", "sweeping", "clipped", "reconstructed", "relaxing", "done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// CycleStats - итоги одного прохода. Residual - сумма квадратов
// расстояний от сайтов до центроидов их ячеек, Energy - сумма по ячейкам
// интеграла |x - сайт|^2.
type CycleStats struct {
	Cycle    int
	Sites    int
	Edges    int
	Residual float64
	Energy   float64
	Defects  int
}

type options struct {
	cycles int
	log    *logger.ZapLogger
}

type Option func(*options)

// WithRelaxation задает число циклов Ллойда. 0 - диаграмма без релаксации.
func WithRelaxation(cycles int) Option {
	return func(o *options) {
		o.cycles = cycles
	}
}

func WithLogger(l *logger.ZapLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Diagram строит диаграмму Вороного по алгоритму Форчуна и при
// необходимости релаксирует ее по Ллойду. Не безопасен для конкурентного
// использования, независимые диаграммы - безопасны.
type Diagram[T any] struct {
	bounds geom.Rect
	inputs []Input[T]
	cycles int
	log    *logger.ZapLogger

	state   State
	sites   map[int]*GeneratedSite[T]
	edges   []GeneratedEdge
	stats   []CycleStats
	defects error
}

// New проверяет входные точки и создает диаграмму. Если хотя бы одна точка
// вне bounds, возвращается ErrOutOfBounds и ничего не создается.
func New[T any](bounds geom.Rect, inputs []Input[T], opts ...Option) (*Diagram[T], error) {
	if bounds.Width < 0 || bounds.Height < 0 {
		return nil, errors.Wrapf(geom.ErrInvalidRect, "bounds %v", bounds)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cycles < 0 {
		return nil, errors.Wrapf(ErrInvalidRelaxation, "cycles=%d", o.cycles)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}

	for i, in := range inputs {
		if !bounds.Contains(in.Point) {
			return nil, errors.Wrapf(ErrOutOfBounds, "site %d at (%g, %g) outside %v", i, in.Point.X, in.Point.Y, bounds)
		}
	}

	return &Diagram[T]{
		bounds: bounds,
		inputs: append([]Input[T](nil), inputs...),
		cycles: o.cycles,
		log:    o.log,
	}, nil
}

// Generate прогоняет все проходы и возвращает последний снимок ячеек по
// индексу сайта.
func (d *Diagram[T]) Generate() (map[int]*GeneratedSite[T], error) {
	d.state = StateIdle
	d.sites, d.edges, d.stats, d.defects = nil, nil, nil, nil

	if len(d.inputs) == 0 {
		d.log.Warn("[f] Нет сайтов, диаграмма не строится")
		return nil, ErrNoSites
	}

	d.log.Info("[f] Алгоритм Форчуна запущен",
		zap.Int("sites", len(d.inputs)),
		zap.Int("relaxation", d.cycles),
		zap.Stringer("bounds", d.bounds))

	inputs := d.inputs
	for cycle := 0; ; cycle++ {
		kept, err := d.runPass(cycle, inputs)
		if err != nil {
			return nil, d.fail(cycle, err)
		}

		last := d.stats[len(d.stats)-1]
		d.log.Info("[f] Проход завершен",
			zap.Int("cycle", cycle),
			zap.Int("sites", last.Sites),
			zap.Int("edges", last.Edges),
			zap.Float64("residual", last.Residual),
			zap.Float64("energy", last.Energy),
			zap.Int("defects", last.Defects))

		if cycle >= d.cycles {
			break
		}
		d.state = StateRelaxing
		inputs = d.relax(kept)
	}

	d.state = StateDone
	return d.sites, nil
}

// fail сбрасывает диаграмму после прерванного прохода, чтобы Sites и
// Edges не отдавали снимок предыдущего цикла.
func (d *Diagram[T]) fail(cycle int, err error) error {
	d.log.Error("[f] Проход прерван", zap.Int("cycle", cycle), zap.Error(err))
	d.state = StateIdle
	d.sites, d.edges = nil, nil
	return err
}

// runPass - один проход: сортировка, заметание, отсечение, восстановление
// ячеек. Возвращает входы прохода в порядке индексов.
func (d *Diagram[T]) runPass(cycle int, inputs []Input[T]) ([]Input[T], error) {
	log := d.log.With(zap.Int("cycle", cycle))

	kept, order, defects := prepare(inputs, log)
	d.state = StateSorted
	d.defects = multierr.Append(d.defects, defects)

	coords := make([]geom.Point, len(kept))
	for i, in := range kept {
		coords[i] = in.Point
	}

	p := newPass(d.bounds, coords, order, log)
	d.state = StateSweeping
	if err := p.sweep(); err != nil {
		return nil, errors.Wrapf(err, "cycle %d", cycle)
	}

	p.clipEdges()
	d.state = StateClipped

	p.reconstruct()
	d.state = StateReconstructed
	d.defects = multierr.Append(d.defects, p.defects)

	d.snapshot(p, kept)
	d.stats = append(d.stats, d.cycleStats(cycle, p, len(multierr.Errors(defects))))
	return kept, nil
}

// prepare схлопывает совпадающие точки (побеждает первая), присваивает
// индексы по (round(y), round(x)) и строит порядок заметания.
func prepare[T any](inputs []Input[T], log *logger.ZapLogger) ([]Input[T], []int, error) {
	var defects error
	set := newPointSet(geom.Epsilon, len(inputs))
	kept := make([]Input[T], 0, len(inputs))
	for i, in := range inputs {
		if !set.add(in.Point) {
			err := errors.Wrapf(ErrDuplicateSite, "input %d at (%g, %g)", i, in.Point.X, in.Point.Y)
			log.Warn("[f-sort] Дубликат отброшен", zap.Int("input", i), zap.Float64("x", in.Point.X), zap.Float64("y", in.Point.Y))
			defects = multierr.Append(defects, err)
			continue
		}
		kept = append(kept, in)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return roundedLess(kept[i].Point, kept[j].Point)
	})

	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sweepLess(kept[order[i]].Point, kept[order[j]].Point)
	})

	log.Debug("[f-sort] Сайты отсортированы", zap.Int("sites", len(kept)))
	return kept, order, defects
}

// roundedLess сравнивает точки по (round(y), round(x)), близкие строки
// считаются одной.
func roundedLess(a, b geom.Point) bool {
	ay, by := math.Round(a.Y), math.Round(b.Y)
	if !geom.AlmostEqual(ay, by, geom.Epsilon) {
		return ay < by
	}
	return math.Round(a.X) < math.Round(b.X)
}

// relax заменяет сайты центроидами их ячеек. Центроид прижимается к
// границам, совпавшие центроиды отбрасываются, нагрузка переносится.
func (d *Diagram[T]) relax(kept []Input[T]) []Input[T] {
	set := newPointSet(geom.Epsilon, len(kept))
	next := make([]Input[T], 0, len(kept))
	for i := range kept {
		s := d.sites[i]
		c := d.bounds.Clamp(s.Centroid)
		if !set.add(c) {
			d.log.Debug("[f-relax] Центроиды совпали", zap.Int("site", i))
			continue
		}
		next = append(next, Input[T]{Point: c, Payload: s.Payload})
	}
	return next
}

func (d *Diagram[T]) snapshot(p *pass, kept []Input[T]) {
	edges := make([]GeneratedEdge, len(p.edges))
	for i := range p.edges {
		edges[i] = p.edges[i].generated()
	}

	sites := make(map[int]*GeneratedSite[T], len(p.sites))
	for i := range p.sites {
		s := &p.sites[i]
		g := &GeneratedSite[T]{
			Index:     s.index,
			Coord:     s.coord,
			Centroid:  s.centroid,
			Payload:   kept[i].Payload,
			Vertices:  s.polygon,
			Edges:     make([]GeneratedEdge, len(s.edges)),
			Neighbors: s.neighbors,
			IsCorner:  s.corner,
			IsEdge:    s.border,
			Defect:    s.defect,
		}
		for j, id := range s.edges {
			g.Edges[j] = edges[id]
		}
		sites[i] = g
	}

	d.sites = sites
	d.edges = edges
}

func (d *Diagram[T]) cycleStats(cycle int, p *pass, collapsed int) CycleStats {
	st := CycleStats{
		Cycle:   cycle,
		Sites:   len(p.sites),
		Edges:   len(p.edges),
		Defects: collapsed + len(multierr.Errors(p.defects)),
	}
	for i := range p.sites {
		s := &p.sites[i]
		diff := s.coord.Sub(s.centroid)
		st.Residual += diff.Dot(diff)
		if len(s.polygon) >= 3 {
			st.Energy += geom.SecondMoment(s.polygon, s.coord)
		}
	}
	return st
}

func (d *Diagram[T]) Bounds() geom.Rect {
	return d.bounds
}

func (d *Diagram[T]) State() State {
	return d.state
}

// Sites возвращает последний снимок; nil до Generate.
func (d *Diagram[T]) Sites() map[int]*GeneratedSite[T] {
	return d.sites
}

// Edges возвращает все ребра последнего прохода, включая невидимые.
func (d *Diagram[T]) Edges() []GeneratedEdge {
	return d.edges
}

func (d *Diagram[T]) Cycles() []CycleStats {
	return d.stats
}

// Defects объединяет восстановимые дефекты всех проходов последнего
// Generate. nil, если дефектов не было.
func (d *Diagram[T]) Defects() error {
	return d.defects
}
