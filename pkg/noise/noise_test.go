package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
)

func TestPerlinDeterministic(t *testing.T) {
	bounds := geom.Rect{X: -10, Y: 5, Width: 40, Height: 30}
	a := NewPerlin(bounds, 8, rand.New(rand.NewSource(3)))
	b := NewPerlin(bounds, 8, rand.New(rand.NewSource(3)))

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := geom.Pt(bounds.X+rnd.Float64()*bounds.Width, bounds.Y+rnd.Float64()*bounds.Height)
		if va, vb := a.Sample(p), b.Sample(p); va != vb {
			t.Fatalf("Sample(%v) = %v and %v for the same seed", p, va, vb)
		}
	}
}

func TestPerlinLatticeZero(t *testing.T) {
	bounds := geom.Rect{Width: 20, Height: 20}
	p := NewPerlin(bounds, 5, rand.New(rand.NewSource(7)))
	for x := 0.0; x <= 20; x += 5 {
		for y := 0.0; y <= 20; y += 5 {
			if v := p.Sample(geom.Pt(x, y)); math.Abs(v) > 1e-12 {
				t.Errorf("Sample(%v, %v) = %v, want 0 on a lattice node", x, y, v)
			}
		}
	}
}

func TestPerlinRange(t *testing.T) {
	bounds := geom.Rect{Width: 100, Height: 100}
	p := NewPerlin(bounds, 10, rand.New(rand.NewSource(11)))
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		pt := geom.Pt(rnd.Float64()*150-25, rnd.Float64()*150-25)
		for _, v := range []float64{p.Sample(pt), p.Octaves(pt, 4, 0.5)} {
			if math.IsNaN(v) || math.Abs(v) > math.Sqrt2/2+1e-9 {
				t.Fatalf("noise at %v = %v out of range", pt, v)
			}
		}
	}
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(nil, []Band{
		{Max: 1, Name: "high"},
		{Max: 0, Name: "low"},
	}, 1)
	tests := []struct {
		h    float64
		want string
	}{
		{-0.5, "low"},
		{0, "low"},
		{0.2, "high"},
		{5, "high"},
	}
	for _, tt := range tests {
		if got := c.Name(tt.h); got != tt.want {
			t.Errorf("Name(%v) = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestClassifierAt(t *testing.T) {
	bounds := geom.Rect{Width: 50, Height: 50}
	c := NewClassifier(NewPerlin(bounds, 10, rand.New(rand.NewSource(5))), nil, 3)
	got := c.At(geom.Pt(12.5, 33.3))
	if got.Name != c.Name(got.Height) {
		t.Errorf("At() = %+v, name does not match height", got)
	}
}
