package render

import (
	"io"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/gogpu/gg"
	"github.com/pkg/errors"
)

// PNGOptions control the PNG and SVG output.
type PNGOptions struct {
	Width, Height int
	// Centroids draws each cell's centroid next to its site.
	Centroids bool
}

func (o PNGOptions) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("render: invalid image size %dx%d", o.Width, o.Height)
	}
	return nil
}

var (
	edgeColor     = gg.RGB(0.15, 0.15, 0.15)
	siteColor     = gg.RGB(0.05, 0.05, 0.05)
	centroidColor = gg.RGB(0.85, 0.1, 0.1)
)

// PNG fills every cell with colorOf, strokes the visible edges and marks
// the sites.
func PNG[T any](w io.Writer, s *Scene[T], colorOf ColorFunc[T], o PNGOptions) error {
	if err := o.validate(); err != nil {
		return err
	}
	if colorOf == nil {
		colorOf = IndexColors[T]()
	}
	vp := Viewport{Bounds: s.Bounds, Width: o.Width, Height: o.Height}

	dc := gg.NewContext(o.Width, o.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(1, 1, 1))

	for _, site := range s.Sites {
		if len(site.Vertices) < 3 {
			continue
		}
		tracePolygon(dc, vp, site.Vertices)
		dc.SetColor(colorOf(site).Color())
		if err := dc.Fill(); err != nil {
			return errors.Wrapf(err, "fill cell %d", site.Index)
		}
	}

	dc.SetColor(edgeColor.Color())
	dc.SetLineWidth(1)
	for _, e := range s.Edges {
		x0, y0 := vp.ToScreen(e.Left)
		x1, y1 := vp.ToScreen(e.Right)
		dc.DrawLine(x0, y0, x1, y1)
		if err := dc.Stroke(); err != nil {
			return errors.Wrapf(err, "stroke edge %d", e.Index)
		}
	}

	for _, site := range s.Sites {
		if err := dot(dc, vp, site.Coord, 2.5, siteColor); err != nil {
			return err
		}
		if o.Centroids && len(site.Vertices) >= 3 {
			if err := dot(dc, vp, site.Centroid, 1.5, centroidColor); err != nil {
				return err
			}
		}
	}

	return errors.Wrap(dc.EncodePNG(w), "encode png")
}

func tracePolygon(dc *gg.Context, vp Viewport, poly []geom.Point) {
	dc.ClearPath()
	for i, p := range poly {
		x, y := vp.ToScreen(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func dot(dc *gg.Context, vp Viewport, p geom.Point, r float64, c gg.RGBA) error {
	x, y := vp.ToScreen(p)
	dc.DrawCircle(x, y, r)
	dc.SetColor(c.Color())
	return errors.Wrap(dc.Fill(), "fill marker")
}

// RasterPNG writes one pixel per grid cell. grid is [height][width] with
// row 0 at the bottom of the diagram.
func RasterPNG[T any](w io.Writer, grid [][]T, colorOf func(T) gg.RGBA) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return errors.Wrap(ErrEmptyScene, "raster grid")
	}
	height, width := len(grid), len(grid[0])

	dc := gg.NewContext(width, height)
	defer dc.Close()
	for y, row := range grid {
		for x, v := range row {
			dc.SetPixel(x, height-1-y, colorOf(v))
		}
	}
	return errors.Wrap(dc.EncodePNG(w), "encode raster png")
}
