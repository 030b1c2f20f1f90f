package main

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/geom"
	"github.com/pkg/errors"
)

var errBadParam = errors.New("invalid parameter")

const (
	maxSize       = 5000
	maxStations   = 5000
	maxRelax      = 50
	maxResolution = 2048
)

type params struct {
	Width, Height float64
	Stations      int
	Random        bool
	Seed          int64
	// Seeded - seed задан явно, результат воспроизводим и кэшируется
	Seeded     bool
	Relax      int
	Resolution int
}

func (p params) bounds() geom.Rect {
	return geom.Rect{Width: p.Width, Height: p.Height}
}

func (p params) cacheable() bool {
	return !p.Random || p.Seeded
}

// key - параметры, от которых зависит результат
func (p params) key() []any {
	return []any{p.Width, p.Height, p.Stations, p.Random, p.Seed, p.Relax}
}

func parseParams(r *http.Request, def config.Diagram) (params, error) {
	p := params{
		Width:      def.Width,
		Height:     def.Height,
		Stations:   def.Sites,
		Relax:      def.Relaxation,
		Resolution: def.RasterResolution,
	}

	var form url.Values
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return p, errors.Wrap(errBadParam, err.Error())
		}
		form = r.Form
	} else {
		form = r.URL.Query()
	}

	var err error
	if p.Width, err = floatParam(form, "width", p.Width, 1, maxSize); err != nil {
		return p, err
	}
	if p.Height, err = floatParam(form, "height", p.Height, 1, maxSize); err != nil {
		return p, err
	}
	if p.Stations, err = intParam(form, "stations", p.Stations, 1, maxStations); err != nil {
		return p, err
	}
	if p.Relax, err = intParam(form, "relax", p.Relax, 0, maxRelax); err != nil {
		return p, err
	}
	if p.Resolution, err = intParam(form, "resolution", p.Resolution, 1, maxResolution); err != nil {
		return p, err
	}
	p.Random = form.Get("random") == "true" || form.Get("random") == "on"

	if v := form.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, errors.Wrapf(errBadParam, "seed=%q", v)
		}
		p.Seed, p.Seeded = seed, true
	} else if p.Random {
		p.Seed = time.Now().UnixNano()
	}
	return p, nil
}

func floatParam(form url.Values, name string, def, lo, hi float64) (float64, error) {
	v := form.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < lo || f > hi {
		return 0, errors.Wrapf(errBadParam, "%s=%q, want a number in [%g, %g]", name, v, lo, hi)
	}
	return f, nil
}

func intParam(form url.Values, name string, def, lo, hi int) (int, error) {
	v := form.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, errors.Wrapf(errBadParam, "%s=%q, want an integer in [%d, %d]", name, v, lo, hi)
	}
	return n, nil
}
