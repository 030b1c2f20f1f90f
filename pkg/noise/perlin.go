// Package noise produces Perlin noise over a rectangle. The viewer and the
// generator CLI use it to attach terrain payloads to sites.
package noise

import (
	"math"
	"math/rand"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/golang/geo/r2"
)

// Perlin is gradient noise on a lattice with one node per Scale units of
// the source rectangle.
type Perlin struct {
	bounds    geom.Rect
	scale     float64
	gradients [][]r2.Point
}

// NewPerlin builds gradients covering bounds. A non-positive scale is
// treated as 1.
func NewPerlin(bounds geom.Rect, scale float64, rnd *rand.Rand) *Perlin {
	if scale <= 0 {
		scale = 1
	}
	gridw := int(math.Ceil(bounds.Width/scale)) + 2
	gridh := int(math.Ceil(bounds.Height/scale)) + 2

	gradients := make([][]r2.Point, gridw)
	for i := range gradients {
		gradients[i] = make([]r2.Point, gridh)
		for j := range gradients[i] {
			angle := rnd.Float64() * math.Pi * 2
			gradients[i][j] = r2.Point{X: math.Sin(angle), Y: math.Cos(angle)}
		}
	}
	return &Perlin{bounds: bounds, scale: scale, gradients: gradients}
}

// Sample returns the noise value at p, roughly in [-0.71, 0.71]. Points
// outside the bounds are clamped onto them.
func (p *Perlin) Sample(pt geom.Point) float64 {
	pt = p.bounds.Clamp(pt)
	lx := (pt.X - p.bounds.X) / p.scale
	ly := (pt.Y - p.bounds.Y) / p.scale

	x0, y0 := int(lx), int(ly)
	x1, y1 := x0+1, y0+1

	n0 := p.dotGridGradient(x0, y0, lx, ly)
	n1 := p.dotGridGradient(x1, y0, lx, ly)
	n2 := p.dotGridGradient(x0, y1, lx, ly)
	n3 := p.dotGridGradient(x1, y1, lx, ly)

	sx := fade(lx - float64(x0))
	sy := fade(ly - float64(y0))
	return lerp(lerp(n0, n1, sx), lerp(n2, n3, sx), sy)
}

// Octaves sums n layers of noise, each at twice the frequency and
// persistence times the amplitude of the previous one, normalized by the
// total amplitude.
func (p *Perlin) Octaves(pt geom.Point, n int, persistence float64) float64 {
	if n < 1 {
		n = 1
	}
	var sum, total float64
	amp, freq := 1.0, 1.0
	for i := 0; i < n; i++ {
		q := geom.Pt(
			p.bounds.X+math.Mod((pt.X-p.bounds.X)*freq, math.Max(p.bounds.Width, p.scale)),
			p.bounds.Y+math.Mod((pt.Y-p.bounds.Y)*freq, math.Max(p.bounds.Height, p.scale)),
		)
		sum += amp * p.Sample(q)
		total += amp
		amp *= persistence
		freq *= 2
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func (p *Perlin) dotGridGradient(x, y int, lx, ly float64) float64 {
	d := r2.Point{X: lx - float64(x), Y: ly - float64(y)}
	return d.Dot(p.gradients[x][y])
}

// fade is Perlin's quintic smoothstep.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, w float64) float64 {
	return (1-w)*a + w*b
}
