package voronoi

import "github.com/pkg/errors"

var (
	// ErrOutOfBounds is returned by New when an input coordinate lies
	// outside the bounds. Nothing is created in that case.
	ErrOutOfBounds = errors.New("voronoi: site outside bounds")
	// ErrNoSites is returned by Generate when there is nothing to build.
	ErrNoSites = errors.New("voronoi: no sites to generate")
	// ErrInvalidRelaxation rejects a negative number of Lloyd cycles.
	ErrInvalidRelaxation = errors.New("voronoi: relaxation cycles must be non-negative")

	// ErrInvalidSide is returned when an endpoint is bound with SideNone.
	ErrInvalidSide = errors.New("voronoi: edge side must be left or right")
	// ErrSweepInvariant reports a logic defect in the sweep: a beachline
	// walk that cannot terminate, a circle event missing from its bucket
	// or an endpoint bound twice. The pass is aborted.
	ErrSweepInvariant = errors.New("voronoi: sweep invariant violated")

	// Recoverable defects. They are attached to the affected site or
	// collected in Diagram.Defects and never stop generation.
	ErrDuplicateSite  = errors.New("voronoi: duplicate site collapsed")
	ErrDegenerateCell = errors.New("voronoi: degenerate cell")
	ErrNaNVertex      = errors.New("voronoi: vertex has NaN coordinates")
)
