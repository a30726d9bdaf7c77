package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v2"
)

const (
	// DefaultMaxUploadSize caps uploads at 10MB unless overridden.
	DefaultMaxUploadSize = 10 * 1024 * 1024
	// DefaultRasterDPI is the resolution used when rendering pages to images.
	DefaultRasterDPI = 300
)

// Settings holds the process-wide configuration. It is populated once at
// startup and read-only afterwards.
type Settings struct {
	Addr     string `yaml:"addr"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	MaxUploadSize     int64    `yaml:"max_upload_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`

	OCREnabled      bool     `yaml:"ocr_enabled"`
	OCRLanguages    []string `yaml:"ocr_languages"`
	OCRMinTextChars int      `yaml:"ocr_min_text_chars"`
	RasterDPI       int      `yaml:"raster_dpi"`

	CORSOrigins []string `yaml:"cors_origins"`

	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	RedisURL          string        `yaml:"redis_url"`

	VisionProject string `yaml:"vision_project"`
	VisionRegion  string `yaml:"vision_region"`
	VisionModel   string `yaml:"vision_model"`
}

// New returns Settings with defaults applied.
func New() *Settings {
	return &Settings{
		Addr:              ":8080",
		LogLevel:          "info",
		MaxUploadSize:     DefaultMaxUploadSize,
		AllowedExtensions: []string{"pdf"},
		OCREnabled:        true,
		OCRLanguages:      []string{"eng"},
		RasterDPI:         DefaultRasterDPI,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		VisionRegion:      "us-central1",
		VisionModel:       "gemini-1.5-pro",
	}
}

// FromEnv builds Settings from environment variables, starting from the
// defaults. Invalid values are reported rather than silently ignored.
func FromEnv() (*Settings, error) {
	s := New()

	s.Addr = getEnv("ADDR", s.Addr)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)
	s.RedisURL = getEnv("REDIS_URL", s.RedisURL)
	s.VisionProject = getEnv("GCP_PROJECT", s.VisionProject)
	s.VisionRegion = getEnv("VERTEX_AI_REGION", s.VisionRegion)
	s.VisionModel = getEnv("VISION_MODEL", s.VisionModel)

	var err error
	if s.Debug, err = getBool("DEBUG", s.Debug); err != nil {
		return nil, err
	}
	if s.OCREnabled, err = getBool("OCR_ENABLED", s.OCREnabled); err != nil {
		return nil, err
	}
	if s.MaxUploadSize, err = getInt64("MAX_UPLOAD_SIZE", s.MaxUploadSize); err != nil {
		return nil, err
	}
	if s.OCRMinTextChars, err = getInt("OCR_MIN_TEXT_CHARS", s.OCRMinTextChars); err != nil {
		return nil, err
	}
	if s.RasterDPI, err = getInt("RASTER_DPI", s.RasterDPI); err != nil {
		return nil, err
	}
	if s.RateLimitRequests, err = getInt("RATE_LIMIT_REQUESTS", s.RateLimitRequests); err != nil {
		return nil, err
	}
	if s.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", s.RateLimitWindow); err != nil {
		return nil, err
	}

	s.AllowedExtensions = getList("ALLOWED_EXTENSIONS", s.AllowedExtensions)
	s.OCRLanguages = getList("OCR_LANGUAGES", s.OCRLanguages)
	s.CORSOrigins = getList("BACKEND_CORS_ORIGINS", s.CORSOrigins)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile overlays values from a YAML file onto the receiver. Only keys
// present in the file override what the environment provided.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return s.Validate()
}

// Validate checks the configuration for errors.
func (s *Settings) Validate() error {
	if s.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size must be > 0 (got %d)", s.MaxUploadSize)
	}
	if len(s.AllowedExtensions) == 0 {
		return fmt.Errorf("allowed_extensions cannot be empty")
	}
	if s.OCRMinTextChars < 0 {
		return fmt.Errorf("ocr_min_text_chars must be >= 0 (got %d)", s.OCRMinTextChars)
	}
	if s.RasterDPI < 72 || s.RasterDPI > 1200 {
		return fmt.Errorf("raster_dpi must be between 72 and 1200 (got %d)", s.RasterDPI)
	}
	if s.RateLimitRequests < 0 {
		return fmt.Errorf("rate_limit_requests must be >= 0 (got %d)", s.RateLimitRequests)
	}
	if s.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be > 0 (got %s)", s.RateLimitWindow)
	}
	for _, origin := range s.CORSOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid CORS origin %q", origin)
		}
	}
	return nil
}

// AllowsExtension reports whether the given extension (without the leading
// dot) is on the allow-list. The comparison is case-insensitive.
func (s *Settings) AllowsExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range s.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// VisionConfigured reports whether the v2 model backend can be constructed.
func (s *Settings) VisionConfigured() bool {
	return s.VisionProject != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (got %q)", key, value)
	}
	return parsed, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, value)
	}
	return parsed, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, value)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (got %q)", key, value)
	}
	return parsed, nil
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
