// Package config reads the viewer and generator settings from the
// environment, optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	LogLevel   string
	LogConsole bool

	Diagram Diagram
	Redis   Redis
}

// Diagram holds the defaults used when a request or flag leaves a value
// out.
type Diagram struct {
	Width            float64
	Height           float64
	Sites            int
	Relaxation       int
	RasterResolution int
}

type Redis struct {
	// Addr is empty when REDIS_HOST is not set; the cache is disabled then.
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Values that fail to parse fall back to defaults.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	c := Config{
		HTTPAddr:   getString("HTTP_ADDR", ":8080"),
		LogLevel:   getString("LOG_LEVEL", "debug"),
		LogConsole: getBool("LOG_CONSOLE", false),
		Diagram: Diagram{
			Width:            getFloat("DIAGRAM_WIDTH", 800),
			Height:           getFloat("DIAGRAM_HEIGHT", 600),
			Sites:            getInt("DIAGRAM_SITES", 50),
			Relaxation:       getInt("DIAGRAM_RELAXATION", 0),
			RasterResolution: getInt("RASTER_RESOLUTION", 256),
		},
		Redis: Redis{
			Password: os.Getenv("REDIS_PASS"),
			DB:       getInt("REDIS_DB", 0),
			TTL:      time.Duration(getInt("CACHE_TTL_S", 3600)) * time.Second,
		},
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Addr = host + ":" + getString("REDIS_PORT", "6379")
	}

	if c.Diagram.Width <= 0 {
		c.Diagram.Width = 800
	}
	if c.Diagram.Height <= 0 {
		c.Diagram.Height = 600
	}
	if c.Diagram.Sites < 0 {
		c.Diagram.Sites = 0
	}
	if c.Diagram.Relaxation < 0 {
		c.Diagram.Relaxation = 0
	}
	if c.Diagram.RasterResolution <= 0 {
		c.Diagram.RasterResolution = 256
	}
	if c.Redis.DB < 0 {
		c.Redis.DB = 0
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = time.Hour
	}
	return c
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
