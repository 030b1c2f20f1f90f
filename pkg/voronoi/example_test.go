package voronoi_test

import (
	"fmt"

	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/0x0FACED/fortune-lloyd/pkg/voronoi"
)

func ExampleDiagram_Generate() {
	bounds := geom.Rect{Width: 1, Height: 1}
	d, err := voronoi.New(bounds, []voronoi.Input[string]{
		{Point: geom.Pt(0.25, 0.5), Payload: "forest"},
		{Point: geom.Pt(0.75, 0.5), Payload: "meadow"},
	})
	if err != nil {
		panic(err)
	}
	sites, err := d.Generate()
	if err != nil {
		panic(err)
	}

	for i := 0; i < len(sites); i++ {
		s := sites[i]
		fmt.Printf("%s: area %.2f, neighbors %v, corner %v\n", s.Payload, s.Area(), s.Neighbors, s.IsCorner)
	}
	// Output:
	// forest: area 0.50, neighbors [1], corner true
	// meadow: area 0.50, neighbors [0], corner true
}
