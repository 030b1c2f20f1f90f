package main

import (
	"math"
	"math/rand"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/noise"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
)

// Генерируем случайные точки для станций
func generateRandStations(n int, bounds geom.Rect, rnd *rand.Rand) []geom.Point {
	stations := make([]geom.Point, n)
	for i := range stations {
		stations[i] = geom.Pt(
			bounds.X+rnd.Float64()*bounds.Width,
			bounds.Y+rnd.Float64()*bounds.Height,
		)
	}
	return stations
}

func generateFixStations(n int, bounds geom.Rect) []geom.Point {
	stations := make([]geom.Point, 0, n)
	if n <= 0 {
		return stations
	}

	rows := int(math.Sqrt(float64(n)))
	cols := (n + rows - 1) / rows

	xStep := bounds.Width / float64(cols)
	yStep := bounds.Height / float64(rows)

	for i := 0; i < rows && len(stations) < n; i++ {
		for j := 0; j < cols; j++ {
			// строк и столбцов может быть, например, на 20 станций, а мы 16-17 генерим
			if len(stations) == n {
				break
			}
			stations = append(stations, geom.Pt(
				bounds.X+xStep/2+float64(j)*xStep,
				bounds.Y+yStep/2+float64(i)*yStep,
			))
		}
	}

	return stations
}

// terrainInputs вешает на каждую станцию тип местности по шуму Перлина.
// Шум строится из того же seed, что и станции.
func terrainInputs(stations []geom.Point, bounds geom.Rect, seed int64) []voronoi.Input[noise.Terrain] {
	scale := math.Max(bounds.Width, bounds.Height) / 4
	perlin := noise.NewPerlin(bounds, scale, rand.New(rand.NewSource(seed^0x5eed)))
	cls := noise.NewClassifier(perlin, noise.DefaultBands, 3)

	inputs := make([]voronoi.Input[noise.Terrain], len(stations))
	for i, p := range stations {
		inputs[i] = voronoi.Input[noise.Terrain]{Point: p, Payload: cls.At(p)}
	}
	return inputs
}
