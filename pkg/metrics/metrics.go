// Package metrics exposes Prometheus collectors for diagram generation
// and rendering.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voronoi_generations_total",
		Help: "Total number of generated diagrams",
	})
	GenerationFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voronoi_generation_fail_total",
		Help: "Total number of generations that returned an error",
	})
	GenerationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "voronoi_generation_duration_ms",
		Help:    "Generation duration in milliseconds, relaxation included",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	SitesPerDiagram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "voronoi_sites_per_diagram",
		Help:    "Number of distinct sites in a generated diagram",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
	})
	DefectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voronoi_defects_total",
		Help: "Total recoverable defects across all generations",
	})
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "voronoi_renders_total",
		Help: "Total rendered artifacts by format",
	}, []string{"format"})
	RenderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voronoi_render_duration_ms",
		Help:    "Render duration in milliseconds by format",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"format"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voronoi_cache_hits_total",
		Help: "Total render cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voronoi_cache_misses_total",
		Help: "Total render cache misses",
	})
)

func init() {
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(GenerationFailTotal)
	prometheus.MustRegister(GenerationDurationMs)
	prometheus.MustRegister(SitesPerDiagram)
	prometheus.MustRegister(DefectsTotal)
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
