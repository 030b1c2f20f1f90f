package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/0x0FACED/fortune-lloyd/pkg/cache"
	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/0x0FACED/fortune-lloyd/pkg/metrics"
	"github.com/0x0FACED/fortune-lloyd/pkg/noise"
	"github.com/0x0FACED/fortune-lloyd/pkg/raster"
	"github.com/0x0FACED/fortune-lloyd/pkg/render"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
	"github.com/0x0FACED/fortune-lloyd/static"
	"github.com/gogpu/gg"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type server struct {
	cfg   config.Config
	cache *cache.RenderCache
	log   *logger.ZapLogger
}

func newServer(cfg config.Config, rc *cache.RenderCache, log *logger.ZapLogger) *server {
	if log == nil {
		log = logger.NewNop()
	}
	return &server{cfg: cfg, cache: rc, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.diagramHandler)
	mux.HandleFunc("/diagram.png", s.artifact("png", "image/png", s.renderPNG))
	mux.HandleFunc("/diagram.svg", s.artifact("svg", "image/svg+xml", s.renderSVG))
	mux.HandleFunc("/cells.geojson", s.artifact("geojson", "application/geo+json", s.renderGeoJSON))
	mux.HandleFunc("/raster.png", s.artifact("raster", "image/png", s.renderRaster))
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// build генерирует диаграмму по параметрам запроса. Каждый запрос
// получает свою диаграмму и свой логгер.
func (s *server) build(p params, log *logger.ZapLogger) (*voronoi.Diagram[noise.Terrain], error) {
	bounds := p.bounds()
	stations := generateFixStations(p.Stations, bounds)
	if p.Random {
		stations = generateRandStations(p.Stations, bounds, rand.New(rand.NewSource(p.Seed)))
	}

	d, err := voronoi.New(bounds, terrainInputs(stations, bounds, p.Seed),
		voronoi.WithRelaxation(p.Relax),
		voronoi.WithLogger(log))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sites, err := d.Generate()
	metrics.GenerationDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.GenerationFailTotal.Inc()
		return nil, err
	}
	metrics.GenerationsTotal.Inc()
	metrics.SitesPerDiagram.Observe(float64(len(sites)))
	metrics.DefectsTotal.Add(float64(len(multierr.Errors(d.Defects()))))
	return d, nil
}

// http обработчик страницы с диаграмой и формой для ввода данных
func (s *server) diagramHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	p, err := parseParams(r, s.cfg.Diagram)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log := logger.New(logger.Options{Level: s.cfg.LogLevel, Console: s.cfg.LogConsole})
	defer log.ClearLogs()

	d, err := s.build(p, log)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	scene, err := render.NewScene(d)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	subtitle := fmt.Sprintf("сайтов: %d, циклов Ллойда: %d", len(scene.Sites), p.Relax)
	if cycles := d.Cycles(); len(cycles) > 0 {
		last := cycles[len(cycles)-1]
		subtitle += fmt.Sprintf(", невязка: %.3g", last.Residual)
	}
	chart := render.Chart(scene, render.ChartOptions{Subtitle: subtitle, Centroids: p.Relax > 0})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintln(w, static.Form(p.Width, p.Height, p.Stations, p.Relax, p.Seed, p.Random))

	if err := chart.Render(w); err != nil {
		s.log.Error("[app] Ошибка рендеринга диаграммы", zap.Error(err))
	}
	metrics.RendersTotal.WithLabelValues("echarts").Inc()

	fmt.Fprintln(w, static.Part2)
	// Вставляем логи в HTML
	fmt.Fprintln(w, log.HTML())
	fmt.Fprintln(w, static.Part3)
}

type renderFunc func(w io.Writer, p params, d *voronoi.Diagram[noise.Terrain], scene *render.Scene[noise.Terrain]) error

// artifact отдает сгенерированный файл, по возможности из кэша.
func (s *server) artifact(format, contentType string, fn renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parseParams(r, s.cfg.Diagram)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		key := cache.Key(format, append(p.key(), p.Resolution)...)
		if p.cacheable() {
			if data, ok := s.cache.Get(r.Context(), key); ok {
				metrics.CacheHitsTotal.Inc()
				write(w, contentType, data)
				return
			}
			metrics.CacheMissesTotal.Inc()
		}

		data, err := s.renderArtifact(format, p, fn)
		if err != nil {
			s.log.Warn("[app] Не удалось построить файл", zap.String("format", format), zap.Error(err))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		if p.cacheable() {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			if err := s.cache.Set(ctx, key, data); err != nil {
				s.log.Warn("[app] Кэш недоступен", zap.Error(err))
			}
			cancel()
		}
		write(w, contentType, data)
	}
}

func (s *server) renderArtifact(format string, p params, fn renderFunc) ([]byte, error) {
	d, err := s.build(p, s.log.With(zap.String("format", format)))
	if err != nil {
		return nil, err
	}
	scene, err := render.NewScene(d)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := fn(&buf, p, d, scene); err != nil {
		return nil, errors.Wrapf(err, "render %s", format)
	}
	metrics.RenderDurationMs.WithLabelValues(format).Observe(float64(time.Since(start).Milliseconds()))
	metrics.RendersTotal.WithLabelValues(format).Inc()
	return buf.Bytes(), nil
}

func write(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func terrainColor(s *voronoi.GeneratedSite[noise.Terrain]) gg.RGBA {
	return render.NamedColor(s.Payload.Name)
}

func terrainProps(t noise.Terrain) map[string]interface{} {
	return map[string]interface{}{"terrain": t.Name, "height": t.Height}
}

// imageSize вписывает диаграмму в 1000 пикселей по большей стороне
func imageSize(p params) render.PNGOptions {
	const side = 1000
	w, h := side, side
	if p.Width > p.Height {
		h = int(float64(side)*p.Height/p.Width + 0.5)
	} else {
		w = int(float64(side)*p.Width/p.Height + 0.5)
	}
	return render.PNGOptions{Width: max(w, 1), Height: max(h, 1), Centroids: p.Relax > 0}
}

func (s *server) renderPNG(w io.Writer, p params, _ *voronoi.Diagram[noise.Terrain], scene *render.Scene[noise.Terrain]) error {
	return render.PNG(w, scene, terrainColor, imageSize(p))
}

func (s *server) renderSVG(w io.Writer, p params, _ *voronoi.Diagram[noise.Terrain], scene *render.Scene[noise.Terrain]) error {
	return render.SVG(w, scene, terrainColor, imageSize(p))
}

func (s *server) renderGeoJSON(w io.Writer, _ params, _ *voronoi.Diagram[noise.Terrain], scene *render.Scene[noise.Terrain]) error {
	data, err := render.GeoJSON(scene, terrainProps)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (s *server) renderRaster(w io.Writer, p params, d *voronoi.Diagram[noise.Terrain], _ *render.Scene[noise.Terrain]) error {
	rz := raster.New(d.Bounds(), d.Sites(), raster.WithLogger(s.log))
	grid, err := rz.Sample2D(p.Resolution, p.Resolution)
	if err != nil {
		return err
	}
	return render.RasterPNG(w, grid, func(t noise.Terrain) gg.RGBA { return render.NamedColor(t.Name) })
}
