package geom

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var ErrInvalidRect = errors.New("geom: rect width and height must be non-negative")

// Rect is an axis-aligned rectangle given by its min corner and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func NewRect(x, y, width, height float64) (Rect, error) {
	if width < 0 || height < 0 {
		return Rect{}, errors.Wrapf(ErrInvalidRect, "width=%v height=%v", width, height)
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// R2 converts r to an r2.Rect.
func (r Rect) R2() r2.Rect {
	return r2.RectFromPoints(Pt(r.MinX(), r.MinY()), Pt(r.MaxX(), r.MaxY()))
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return r.R2().ContainsPoint(p)
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Point) Point {
	return r.R2().ClampPoint(p)
}

// Corners returns the four corners counterclockwise starting at the min
// corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		Pt(r.MinX(), r.MinY()),
		Pt(r.MaxX(), r.MinY()),
		Pt(r.MaxX(), r.MaxY()),
		Pt(r.MinX(), r.MaxY()),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.Width, r.Height)
}
