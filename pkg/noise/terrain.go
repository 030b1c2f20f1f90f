package noise

import (
	"sort"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
)

// Terrain is a payload derived from the noise height at a site.
type Terrain struct {
	Name   string
	Height float64
}

// Band maps every height up to Max (inclusive) to Name.
type Band struct {
	Max  float64
	Name string
}

// DefaultBands cover the value range of Octaves.
var DefaultBands = []Band{
	{Max: -0.25, Name: "water"},
	{Max: -0.1, Name: "sand"},
	{Max: 0.15, Name: "grass"},
	{Max: 0.3, Name: "forest"},
	{Max: 1, Name: "rock"},
}

// Classifier turns noise heights into Terrain values.
type Classifier struct {
	noise       *Perlin
	bands       []Band
	octaves     int
	persistence float64
}

// NewClassifier sorts bands by Max. Heights above the last band get the
// last band's name.
func NewClassifier(p *Perlin, bands []Band, octaves int) *Classifier {
	if len(bands) == 0 {
		bands = DefaultBands
	}
	sorted := append([]Band(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Max < sorted[j].Max })
	return &Classifier{noise: p, bands: sorted, octaves: octaves, persistence: 0.5}
}

func (c *Classifier) At(pt geom.Point) Terrain {
	h := c.noise.Octaves(pt, c.octaves, c.persistence)
	return Terrain{Name: c.Name(h), Height: h}
}

func (c *Classifier) Name(h float64) string {
	i := sort.Search(len(c.bands), func(i int) bool { return c.bands[i].Max >= h })
	if i == len(c.bands) {
		i--
	}
	return c.bands[i].Name
}
