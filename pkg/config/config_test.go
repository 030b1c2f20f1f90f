package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var keys = []string{
	"HTTP_ADDR", "LOG_LEVEL", "LOG_CONSOLE",
	"DIAGRAM_WIDTH", "DIAGRAM_HEIGHT", "DIAGRAM_SITES", "DIAGRAM_RELAXATION", "RASTER_RESOLUTION",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASS", "REDIS_DB", "CACHE_TTL_S",
}

// clearEnv blanks every key for the duration of the test. Empty values
// count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	got := Load(filepath.Join(t.TempDir(), "missing.env"))
	want := Config{
		HTTPAddr: ":8080",
		LogLevel: "debug",
		Diagram: Diagram{
			Width:            800,
			Height:           600,
			Sites:            50,
			RasterResolution: 256,
		},
		Redis: Redis{TTL: time.Hour},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_CONSOLE", "true")
	t.Setenv("DIAGRAM_WIDTH", "1024.5")
	t.Setenv("DIAGRAM_SITES", "not-a-number")
	t.Setenv("DIAGRAM_RELAXATION", "-3")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL_S", "60")

	got := Load(filepath.Join(t.TempDir(), "missing.env"))
	if got.HTTPAddr != ":9000" || !got.LogConsole {
		t.Errorf("HTTPAddr = %q, LogConsole = %v", got.HTTPAddr, got.LogConsole)
	}
	if got.Diagram.Width != 1024.5 {
		t.Errorf("Width = %v, want 1024.5", got.Diagram.Width)
	}
	if got.Diagram.Sites != 50 {
		t.Errorf("Sites = %d, want the default for an invalid number", got.Diagram.Sites)
	}
	if got.Diagram.Relaxation != 0 {
		t.Errorf("Relaxation = %d, want negative values clamped to 0", got.Diagram.Relaxation)
	}
	want := Redis{Addr: "cache:6379", DB: 2, TTL: time.Minute}
	if diff := cmp.Diff(want, got.Redis); diff != "" {
		t.Errorf("Redis mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DIAGRAM_HEIGHT")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DIAGRAM_HEIGHT=321\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DIAGRAM_HEIGHT") })

	if got := Load(path); got.Diagram.Height != 321 {
		t.Errorf("Height = %v, want 321 from the .env file", got.Diagram.Height)
	}
}
