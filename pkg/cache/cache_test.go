package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/0x0FACED/fortune-lloyd/pkg/config"
)

func TestNilCache(t *testing.T) {
	c := New(config.Redis{}, nil)
	if c != nil {
		t.Fatalf("New() with no address = %v, want nil", c)
	}

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Errorf("Set() on nil cache error = %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() on nil cache reported a hit")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil cache error = %v", err)
	}
}

func TestNewDefaultTTL(t *testing.T) {
	c := New(config.Redis{Addr: "127.0.0.1:6379"}, nil)
	defer c.Close()
	if c.ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", c.ttl)
	}
}

func TestKey(t *testing.T) {
	a := Key("png", 42, 100, 800.0, 600.0, 3)
	b := Key("png", 42, 100, 800.0, 600.0, 3)
	if a != b {
		t.Errorf("Key() is not deterministic: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "voronoi:png:") {
		t.Errorf("Key() = %q, want voronoi:png: prefix", a)
	}

	others := []string{
		Key("svg", 42, 100, 800.0, 600.0, 3),
		Key("png", 43, 100, 800.0, 600.0, 3),
		Key("png", 42, 100, 800.0, 600.0, 4),
	}
	for _, o := range others {
		if o == a {
			t.Errorf("Key() collision for different params: %q", o)
		}
	}
}
