// Command gen writes one generated diagram to a file or stdout.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/0x0FACED/fortune-lloyd/pkg/noise"
	"github.com/0x0FACED/fortune-lloyd/pkg/raster"
	"github.com/0x0FACED/fortune-lloyd/pkg/render"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
	"github.com/gogpu/gg"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

type options struct {
	seed       int64
	sites      int
	width      float64
	height     float64
	relax      int
	resolution int
	format     string
	out        string
	imageSize  int
}

func parseFlags(args []string, def config.Diagram, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Int64Var(&o.seed, "seed", 1, "random seed for sites and terrain")
	fs.IntVar(&o.sites, "sites", def.Sites, "number of random sites")
	fs.Float64Var(&o.width, "width", def.Width, "diagram width")
	fs.Float64Var(&o.height, "height", def.Height, "diagram height")
	fs.IntVar(&o.relax, "relax", def.Relaxation, "Lloyd relaxation cycles")
	fs.IntVar(&o.resolution, "resolution", def.RasterResolution, "raster grid resolution")
	fs.StringVar(&o.format, "format", "png", "output format: png, svg, geojson or raster")
	fs.StringVar(&o.out, "out", "-", "output file, - for stdout")
	fs.IntVar(&o.imageSize, "size", 1000, "longer image side in pixels for png and svg")
	if err := fs.Parse(args); err != nil {
		return o, errors.Wrap(errUsage, err.Error())
	}

	switch {
	case o.sites < 1:
		return o, errors.Wrapf(errUsage, "-sites=%d must be positive", o.sites)
	case o.width <= 0 || o.height <= 0:
		return o, errors.Wrapf(errUsage, "-width=%g -height=%g must be positive", o.width, o.height)
	case o.relax < 0:
		return o, errors.Wrapf(errUsage, "-relax=%d must not be negative", o.relax)
	case o.resolution < 1:
		return o, errors.Wrapf(errUsage, "-resolution=%d must be positive", o.resolution)
	case o.imageSize < 1:
		return o, errors.Wrapf(errUsage, "-size=%d must be positive", o.imageSize)
	}
	switch o.format {
	case "png", "svg", "geojson", "raster":
	default:
		return o, errors.Wrapf(errUsage, "unknown -format %q", o.format)
	}
	return o, nil
}

func (o options) bounds() geom.Rect {
	return geom.Rect{Width: o.width, Height: o.height}
}

func (o options) pngOptions() render.PNGOptions {
	scale := float64(o.imageSize) / math.Max(o.width, o.height)
	return render.PNGOptions{
		Width:     max(int(math.Round(o.width*scale)), 1),
		Height:    max(int(math.Round(o.height*scale)), 1),
		Centroids: o.relax > 0,
	}
}

func inputs(o options) []voronoi.Input[noise.Terrain] {
	bounds := o.bounds()
	rnd := rand.New(rand.NewSource(o.seed))
	perlin := noise.NewPerlin(bounds, math.Max(o.width, o.height)/4, rand.New(rand.NewSource(o.seed^0x5eed)))
	cls := noise.NewClassifier(perlin, noise.DefaultBands, 3)

	in := make([]voronoi.Input[noise.Terrain], o.sites)
	for i := range in {
		p := geom.Pt(rnd.Float64()*o.width, rnd.Float64()*o.height)
		in[i] = voronoi.Input[noise.Terrain]{Point: p, Payload: cls.At(p)}
	}
	return in
}

func generate(o options, log *logger.ZapLogger) ([]byte, error) {
	d, err := voronoi.New(o.bounds(), inputs(o), voronoi.WithRelaxation(o.relax), voronoi.WithLogger(log))
	if err != nil {
		return nil, err
	}
	sites, err := d.Generate()
	if err != nil {
		return nil, err
	}
	if defects := multierr.Errors(d.Defects()); len(defects) > 0 {
		log.Warn("[gen] diagram has defects", zap.Int("count", len(defects)), zap.Error(d.Defects()))
	}
	for _, c := range d.Cycles() {
		log.Info("[gen] cycle",
			zap.Int("cycle", c.Cycle),
			zap.Int("sites", c.Sites),
			zap.Float64("residual", c.Residual),
			zap.Float64("energy", c.Energy))
	}

	var buf bytes.Buffer
	colorOf := func(s *voronoi.GeneratedSite[noise.Terrain]) gg.RGBA { return render.NamedColor(s.Payload.Name) }

	if o.format == "raster" {
		grid, err := raster.New(d.Bounds(), sites, raster.WithLogger(log)).Sample2D(o.resolution, o.resolution)
		if err != nil {
			return nil, err
		}
		err = render.RasterPNG(&buf, grid, func(t noise.Terrain) gg.RGBA { return render.NamedColor(t.Name) })
		return buf.Bytes(), err
	}

	scene, err := render.NewScene(d)
	if err != nil {
		return nil, err
	}
	switch o.format {
	case "png":
		err = render.PNG(&buf, scene, colorOf, o.pngOptions())
	case "svg":
		err = render.SVG(&buf, scene, colorOf, o.pngOptions())
	case "geojson":
		var data []byte
		data, err = render.GeoJSON(scene, func(t noise.Terrain) map[string]interface{} {
			return map[string]interface{}{"terrain": t.Name, "height": t.Height}
		})
		buf.Write(data)
	}
	return buf.Bytes(), err
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()
	o, err := parseFlags(args, cfg.Diagram, stderr)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Console: cfg.LogConsole})
	defer log.Sync()

	data, err := generate(o, log)
	if err != nil {
		return errors.Wrap(err, "generate")
	}

	if o.out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(o.out, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", o.out)
	}
	log.Info("[gen] written", zap.String("file", o.out), zap.String("format", o.format), zap.Int("bytes", len(data)))
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
