package render

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	edgeStyle     = "stroke:rgb(40,40,40);stroke-width:1"
	siteStyle     = "fill:rgb(10,10,10)"
	centroidStyle = "fill:rgb(217,26,26)"
)

// SVG writes the same picture as PNG as vector output. Coordinates are
// rounded to whole pixels.
func SVG[T any](w io.Writer, s *Scene[T], colorOf ColorFunc[T], o PNGOptions) error {
	if err := o.validate(); err != nil {
		return err
	}
	if colorOf == nil {
		colorOf = IndexColors[T]()
	}
	vp := Viewport{Bounds: s.Bounds, Width: o.Width, Height: o.Height}

	canvas := svg.New(w)
	canvas.Start(o.Width, o.Height)
	canvas.Rect(0, 0, o.Width, o.Height, "fill:rgb(255,255,255)")

	xPoints := make([]int, 0)
	yPoints := make([]int, 0)
	for _, site := range s.Sites {
		if len(site.Vertices) < 3 {
			continue
		}
		xPoints = xPoints[:0]
		yPoints = yPoints[:0]
		for _, p := range site.Vertices {
			x, y := vp.toScreenInt(p)
			xPoints = append(xPoints, x)
			yPoints = append(yPoints, y)
		}
		canvas.Polygon(xPoints, yPoints, "fill:"+cssColor(colorOf(site)))
	}

	for _, e := range s.Edges {
		x0, y0 := vp.toScreenInt(e.Left)
		x1, y1 := vp.toScreenInt(e.Right)
		canvas.Line(x0, y0, x1, y1, edgeStyle)
	}

	for _, site := range s.Sites {
		x, y := vp.toScreenInt(site.Coord)
		canvas.Circle(x, y, 3, siteStyle)
		if o.Centroids && len(site.Vertices) >= 3 {
			cx, cy := vp.toScreenInt(site.Centroid)
			canvas.Circle(cx, cy, 2, centroidStyle)
		}
	}
	canvas.End()
	return nil
}
