package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

var def = config.Diagram{Width: 800, Height: 600, Sites: 50, RasterResolution: 256}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-sites", "10", "-relax", "3", "-format", "svg"}, def, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if o.sites != 10 || o.relax != 3 || o.format != "svg" || o.width != 800 || o.out != "-" {
		t.Errorf("parseFlags() = %+v", o)
	}

	for _, args := range [][]string{
		{"-sites", "0"},
		{"-width", "-5"},
		{"-relax", "-1"},
		{"-format", "bmp"},
		{"-resolution", "0"},
		{"-nope"},
	} {
		if _, err := parseFlags(args, def, io.Discard); !errors.Is(err, errUsage) {
			t.Errorf("parseFlags(%v) error = %v, want errUsage", args, err)
		}
	}
}

func TestPNGOptions(t *testing.T) {
	o := options{width: 800, height: 600, imageSize: 400, relax: 1}
	got := o.pngOptions()
	if got.Width != 400 || got.Height != 300 || !got.Centroids {
		t.Errorf("pngOptions() = %+v, want 400x300 with centroids", got)
	}
}

func TestGenerateFormats(t *testing.T) {
	base := options{seed: 3, sites: 25, width: 100, height: 50, relax: 2, resolution: 20, imageSize: 200}

	for _, format := range []string{"png", "raster"} {
		o := base
		o.format = format
		data, err := generate(o, logger.NewNop())
		if err != nil {
			t.Fatalf("generate(%s) error = %v", format, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("generate(%s) is not a png: %v", format, err)
		}
		want := [2]int{200, 100}
		if format == "raster" {
			want = [2]int{20, 20}
		}
		if b := img.Bounds(); b.Dx() != want[0] || b.Dy() != want[1] {
			t.Errorf("generate(%s) size = %v, want %v", format, b, want)
		}
	}

	o := base
	o.format = "svg"
	data, err := generate(o, logger.NewNop())
	if err != nil || !strings.HasPrefix(strings.TrimSpace(string(data)), "<?xml") {
		t.Errorf("generate(svg) = %.40q, %v", data, err)
	}

	o.format = "geojson"
	data, err = generate(o, logger.NewNop())
	if err != nil {
		t.Fatalf("generate(geojson) error = %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("UnmarshalFeatureCollection() error = %v", err)
	}
	if len(fc.Features) == 0 || len(fc.Features) > 25 {
		t.Errorf("len(Features) = %d, want 1..25", len(fc.Features))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	o := options{seed: 11, sites: 30, width: 60, height: 60, relax: 1, format: "geojson", imageSize: 100}
	a, err := generate(o, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	b, err := generate(o, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different output")
	}
}

func TestRunWritesFile(t *testing.T) {
	for _, k := range []string{"DIAGRAM_WIDTH", "DIAGRAM_HEIGHT", "DIAGRAM_SITES", "LOG_LEVEL", "LOG_CONSOLE"} {
		t.Setenv(k, "")
	}
	out := filepath.Join(t.TempDir(), "cells.geojson")
	if err := run([]string{"-sites", "8", "-format", "geojson", "-out", out}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "FeatureCollection") {
		t.Errorf("output file is not GeoJSON: %.60s", data)
	}
}
