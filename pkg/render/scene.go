// Package render draws generated diagrams as an echarts page, PNG, SVG
// or GeoJSON.
package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
	"github.com/gogpu/gg"
	"github.com/pkg/errors"
)

var ErrEmptyScene = errors.New("render: nothing to draw")

// Scene is one snapshot of a diagram ready to be drawn.
type Scene[T any] struct {
	Bounds geom.Rect
	// Sites is ordered by index.
	Sites []*voronoi.GeneratedSite[T]
	// Edges holds only visible edges.
	Edges []voronoi.GeneratedEdge
}

// NewScene takes the last snapshot of d. d must have been generated.
func NewScene[T any](d *voronoi.Diagram[T]) (*Scene[T], error) {
	if d.Sites() == nil {
		return nil, errors.Wrapf(ErrEmptyScene, "diagram state %v", d.State())
	}
	s := &Scene[T]{Bounds: d.Bounds(), Sites: ordered(d.Sites())}
	for _, e := range d.Edges() {
		if e.Visible() {
			s.Edges = append(s.Edges, e)
		}
	}
	return s, nil
}

func ordered[T any](sites map[int]*voronoi.GeneratedSite[T]) []*voronoi.GeneratedSite[T] {
	out := make([]*voronoi.GeneratedSite[T], 0, len(sites))
	for _, s := range sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Viewport maps diagram coordinates to pixels. The y axis is flipped so
// that the diagram's min corner ends up bottom left.
type Viewport struct {
	Bounds        geom.Rect
	Width, Height int
}

func (v Viewport) ToScreen(p geom.Point) (float64, float64) {
	sx, sy := 1.0, 1.0
	if v.Bounds.Width > 0 {
		sx = float64(v.Width) / v.Bounds.Width
	}
	if v.Bounds.Height > 0 {
		sy = float64(v.Height) / v.Bounds.Height
	}
	return (p.X - v.Bounds.X) * sx, float64(v.Height) - (p.Y-v.Bounds.Y)*sy
}

func (v Viewport) toScreenInt(p geom.Point) (int, int) {
	x, y := v.ToScreen(p)
	return int(math.Round(x)), int(math.Round(y))
}

// ColorFunc picks the fill of a cell.
type ColorFunc[T any] func(s *voronoi.GeneratedSite[T]) gg.RGBA

// IndexColors spreads hues over site indices with the golden angle.
func IndexColors[T any]() ColorFunc[T] {
	return func(s *voronoi.GeneratedSite[T]) gg.RGBA {
		return IndexColor(s.Index)
	}
}

func IndexColor(i int) gg.RGBA {
	return gg.HSL(math.Mod(float64(i)*137.508, 360), 0.55, 0.7)
}

// TerrainPalette colors noise terrain names. Unknown names are grey.
var TerrainPalette = map[string]gg.RGBA{
	"water":  gg.Hex("#3b6fb6"),
	"sand":   gg.Hex("#e3d29a"),
	"grass":  gg.Hex("#7fb35a"),
	"forest": gg.Hex("#2f6b3a"),
	"rock":   gg.Hex("#8a8580"),
}

func NamedColor(name string) gg.RGBA {
	if c, ok := TerrainPalette[name]; ok {
		return c
	}
	return gg.Hex("#bbbbbb")
}

func cssColor(c gg.RGBA) string {
	to := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("rgb(%d,%d,%d)", to(c.R), to(c.G), to(c.B))
}
