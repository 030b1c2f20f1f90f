package render

import (
	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PropsFunc adds payload-specific properties to a cell feature.
type PropsFunc[T any] func(payload T) map[string]interface{}

// GeoJSON exports every closed cell as a Polygon feature in diagram
// coordinates. Cells that failed to close are exported as their site
// Point with a "defect" property.
func GeoJSON[T any](s *Scene[T], props PropsFunc[T]) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, site := range s.Sites {
		var f *geojson.Feature
		if len(site.Vertices) >= 3 {
			f = geojson.NewPolygonFeature([][][]float64{ring(site.Vertices)})
			f.SetProperty("area", site.Area())
			f.SetProperty("centroid", []float64{site.Centroid.X, site.Centroid.Y})
		} else {
			f = geojson.NewPointFeature([]float64{site.Coord.X, site.Coord.Y})
		}
		f.ID = site.Index
		f.SetProperty("index", site.Index)
		f.SetProperty("site", []float64{site.Coord.X, site.Coord.Y})
		f.SetProperty("neighbors", site.Neighbors)
		f.SetProperty("corner", site.IsCorner)
		f.SetProperty("edge", site.IsEdge)
		if site.Defect != nil {
			f.SetProperty("defect", site.Defect.Error())
		}
		if props != nil {
			for k, v := range props(site.Payload) {
				f.SetProperty(k, v)
			}
		}
		fc.AddFeature(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "marshal geojson")
	}
	return data, nil
}

// ring closes poly as GeoJSON requires.
func ring(poly []geom.Point) [][]float64 {
	out := make([][]float64, 0, len(poly)+1)
	for _, p := range poly {
		out = append(out, []float64{p.X, p.Y})
	}
	return append(out, []float64{poly[0].X, poly[0].Y})
}
