package render

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartOptions - размеры и подпись графика
type ChartOptions struct {
	Width, Height string
	Subtitle      string
	// Centroids добавляет серию центроидов ячеек
	Centroids bool
}

func prepareScatter(scatter *charts.Scatter, o ChartOptions) {
	if o.Width == "" {
		o.Width = "1020px"
	}
	if o.Height == "" {
		o.Height = "580px"
	}
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: o.Height,
			Width:  o.Width,
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Диаграмма Вороного (Форчун + Ллойд)",
			Subtitle:             o.Subtitle,
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Ширина",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Высота",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// Chart переносит сцену в Echarts: сайты, центроиды и видимые ребра.
func Chart[T any](s *Scene[T], o ChartOptions) *charts.Scatter {
	scatter := charts.NewScatter()
	prepareScatter(scatter, o)

	points := make([]opts.ScatterData, 0, len(s.Sites))
	centroids := make([]opts.ScatterData, 0, len(s.Sites))
	for _, site := range s.Sites {
		points = append(points, opts.ScatterData{
			Name:  fmt.Sprintf("сайт %d", site.Index),
			Value: []float64{site.Coord.X, site.Coord.Y},
		})
		if len(site.Vertices) >= 3 {
			centroids = append(centroids, opts.ScatterData{
				Name:       fmt.Sprintf("центроид %d", site.Index),
				Value:      []float64{site.Centroid.X, site.Centroid.Y},
				SymbolSize: 4,
			})
		}
	}

	scatter.AddSeries("Станции", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)
	if o.Centroids {
		scatter.AddSeries("Центроиды", centroids).
			SetSeriesOptions(
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: "tomato",
				}),
			)
	}

	for _, e := range s.Edges {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
		)

		line.AddSeries("Границы", []opts.LineData{
			{Value: []float64{e.Left.X, e.Left.Y}},
			{Value: []float64{e.Right.X, e.Right.Y}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 2,
			}),
		)

		scatter.Overlap(line)
	}

	return scatter
}
