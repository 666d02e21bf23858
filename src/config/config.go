package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultHotkey        = "Alt+A"
	DefaultZoomMin       = 0.25
	DefaultZoomMax       = 32.0
	DefaultZoomStep      = 1.2
	DefaultRadiusMin     = 8.0
	DefaultRadiusMax     = 512.0
	DefaultRadius        = 64.0
	DefaultRadiusStep    = 0.2
	DefaultSmoothLength  = 0.25
	DefaultSmoothRate    = 1.5
	DefaultTPS           = 60
	DefaultMaxTextureDim = 8192
)

// Config holds runtime settings for the overlay. Values come from the
// environment, optionally seeded from a .env file next to the executable.
type Config struct {
	Hotkey            string
	ZoomMin           float64
	ZoomMax           float64
	ZoomStep          float64
	RadiusMin         float64
	RadiusMax         float64
	RadiusDefault     float64
	RadiusStep        float64
	SmoothLength      float64
	SmoothRate        float64
	TPS               int
	MaxTextureDim     int
	EnableFileLogging bool
}

func Load() (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_ZOOMER_ENV env var as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		ZoomMin:           getFloatEnv("ZOOM_MIN", DefaultZoomMin),
		ZoomMax:           getFloatEnv("ZOOM_MAX", DefaultZoomMax),
		ZoomStep:          getFloatEnv("ZOOM_STEP", DefaultZoomStep),
		RadiusMin:         getFloatEnv("RADIUS_MIN", DefaultRadiusMin),
		RadiusMax:         getFloatEnv("RADIUS_MAX", DefaultRadiusMax),
		RadiusDefault:     getFloatEnv("RADIUS_DEFAULT", DefaultRadius),
		RadiusStep:        getFloatEnv("RADIUS_STEP", DefaultRadiusStep),
		SmoothLength:      getFloatEnv("SMOOTH_LENGTH_SEC", DefaultSmoothLength),
		SmoothRate:        getFloatEnv("SMOOTH_RATE", DefaultSmoothRate),
		TPS:               getIntEnv("TPS", DefaultTPS),
		MaxTextureDim:     getIntEnv("MAX_TEXTURE_DIM", DefaultMaxTextureDim),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ZoomMin <= 0 || c.ZoomMax <= c.ZoomMin {
		return fmt.Errorf("invalid zoom range [%g, %g]", c.ZoomMin, c.ZoomMax)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("ZOOM_STEP must be greater than 1, got %g", c.ZoomStep)
	}
	if c.RadiusMin <= 0 || c.RadiusMax < c.RadiusMin {
		return fmt.Errorf("invalid radius range [%g, %g]", c.RadiusMin, c.RadiusMax)
	}
	if c.RadiusDefault < c.RadiusMin || c.RadiusDefault > c.RadiusMax {
		return fmt.Errorf("RADIUS_DEFAULT %g outside range [%g, %g]", c.RadiusDefault, c.RadiusMin, c.RadiusMax)
	}
	if c.RadiusStep <= 0 || c.RadiusStep >= 1 {
		return fmt.Errorf("RADIUS_STEP must be in (0, 1), got %g", c.RadiusStep)
	}
	if c.SmoothLength < 0 || c.SmoothRate <= 0 {
		return fmt.Errorf("invalid smoothing parameters length=%g rate=%g", c.SmoothLength, c.SmoothRate)
	}
	if c.TPS < 1 || c.TPS > 240 {
		return fmt.Errorf("TPS must be in [1, 240], got %d", c.TPS)
	}
	if c.MaxTextureDim < 1024 {
		return fmt.Errorf("MAX_TEXTURE_DIM must be at least 1024, got %d", c.MaxTextureDim)
	}
	if strings.TrimSpace(c.Hotkey) == "" {
		return fmt.Errorf("HOTKEY must not be empty")
	}
	return nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv("SCREEN_ZOOMER_ENV"); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %g", key, v, defaultValue)
		return defaultValue
	}
	return f
}

func getIntEnv(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}
