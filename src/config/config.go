// Package config loads monitor settings from a .env file, the environment,
// and CLI overrides, in that priority order (later wins). Validation errors
// are fatal at startup and never raised mid-run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/screenshot"
)

const (
	GeminiKeyEnvVar = "GEMINI_API_KEY"
	OpenAIKeyEnvVar = "OPENAI_API_KEY"

	defaultProvider         = "gemini"
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultOutputDir        = "screenshots"
	defaultPrefix           = "screenshot"
	defaultFormat           = "png"
	defaultCaptureInterval  = 10 * time.Second
	defaultAnalysisInterval = 60 * time.Second
	defaultMode             = "batch"
	defaultMaxConcurrent    = 4
	defaultMinCallSpacing   = time.Second
)

// LoadOptions carries CLI flag overrides. Zero values mean "not set"
// (numeric flags use -1 as their unset sentinel so 0 stays expressible).
type LoadOptions struct {
	Directory        string
	APIKey           string
	Provider         string
	Model            string
	Region           string // "left,top,width,height"
	ScreenHalf       string // "left" or "right"
	Format           string
	Prefix           string
	Mode             string
	CaptureInterval  float64 // seconds, -1 = unset
	AnalysisInterval int     // seconds, -1 = unset
	MaxConcurrent    int     // -1 = unset
}

// Config is the validated runtime configuration.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	OutputDir string
	Prefix    string
	Format    string

	CaptureInterval  time.Duration
	AnalysisInterval time.Duration
	Region           *screenshot.Region
	ScreenHalf       string

	Mode           string
	MaxConcurrent  int
	MinCallSpacing time.Duration

	EnableFileLogging   bool
	EnableNotifications bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{CaptureInterval: -1, AnalysisInterval: -1, MaxConcurrent: -1})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// .env beside the executable, then the environment proper.
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Provider:            strings.ToLower(firstNonEmpty(opts.Provider, os.Getenv("VISION_PROVIDER"), defaultProvider)),
		Model:               firstNonEmpty(opts.Model, os.Getenv("MODEL")),
		BaseURL:             os.Getenv("VISION_BASE_URL"),
		OutputDir:           firstNonEmpty(opts.Directory, os.Getenv("OUTPUT_DIR"), defaultOutputDir),
		Prefix:              firstNonEmpty(opts.Prefix, os.Getenv("FILE_PREFIX"), defaultPrefix),
		Format:              strings.ToLower(firstNonEmpty(opts.Format, os.Getenv("IMAGE_FORMAT"), defaultFormat)),
		ScreenHalf:          strings.ToLower(firstNonEmpty(opts.ScreenHalf, os.Getenv("SCREEN_HALF"))),
		Mode:                strings.ToLower(firstNonEmpty(opts.Mode, os.Getenv("ANALYSIS_MODE"), defaultMode)),
		CaptureInterval:     defaultCaptureInterval,
		AnalysisInterval:    defaultAnalysisInterval,
		MaxConcurrent:       defaultMaxConcurrent,
		MinCallSpacing:      defaultMinCallSpacing,
		EnableFileLogging:   boolEnv("ENABLE_FILE_LOGGING"),
		EnableNotifications: boolEnv("ENABLE_NOTIFICATIONS"),
	}

	cfg.APIKey = resolveAPIKey(opts, cfg.Provider)
	if cfg.Model == "" && cfg.Provider == defaultProvider {
		cfg.Model = defaultGeminiModel
	}

	if v := os.Getenv("CAPTURE_INTERVAL"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CaptureInterval = secondsToDuration(secs)
		}
	}
	if opts.CaptureInterval >= 0 {
		cfg.CaptureInterval = secondsToDuration(opts.CaptureInterval)
	}

	if v := os.Getenv("ANALYSIS_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.AnalysisInterval = time.Duration(secs) * time.Second
		}
	}
	if opts.AnalysisInterval >= 0 {
		cfg.AnalysisInterval = time.Duration(opts.AnalysisInterval) * time.Second
	}

	if v := os.Getenv("MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrent = n
		}
	}
	if opts.MaxConcurrent >= 0 {
		cfg.MaxConcurrent = opts.MaxConcurrent
	}

	if v := os.Getenv("MIN_CALL_SPACING"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinCallSpacing = secondsToDuration(secs)
		}
	}

	regionSpec := firstNonEmpty(opts.Region, os.Getenv("CAPTURE_REGION"))
	if regionSpec != "" {
		region, err := ParseRegion(regionSpec)
		if err != nil {
			return nil, err
		}
		cfg.Region = region
	}

	return cfg, nil
}

// Validate reports the first configuration error. Everything it rejects is
// fatal before the schedulers start.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required: set %s (or %s for the openai provider) in your .env file", GeminiKeyEnvVar, OpenAIKeyEnvVar)
	}
	if c.Model == "" {
		return fmt.Errorf("MODEL is required for provider %q", c.Provider)
	}
	switch c.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("invalid vision provider %q: want gemini or openai", c.Provider)
	}
	switch c.Format {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("invalid image format %q: want png, jpg or jpeg", c.Format)
	}
	switch c.Mode {
	case "batch", "stream":
	default:
		return fmt.Errorf("invalid analysis mode %q: want batch or stream", c.Mode)
	}
	if c.CaptureInterval < 0 {
		return fmt.Errorf("capture interval must be >= 0, got %s", c.CaptureInterval)
	}
	if c.AnalysisInterval < time.Second {
		return fmt.Errorf("analysis interval must be >= 1s, got %s", c.AnalysisInterval)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max concurrent analyses must be >= 1, got %d", c.MaxConcurrent)
	}
	if c.Region != nil && (c.Region.Width <= 0 || c.Region.Height <= 0) {
		return fmt.Errorf("capture region must have positive dimensions, got %dx%d", c.Region.Width, c.Region.Height)
	}
	if c.ScreenHalf != "" && c.ScreenHalf != "left" && c.ScreenHalf != "right" {
		return fmt.Errorf("invalid screen half %q: want left or right", c.ScreenHalf)
	}
	if c.Region != nil && c.ScreenHalf != "" {
		return fmt.Errorf("capture region and screen half are mutually exclusive")
	}
	return nil
}

// ParseRegion parses "left,top,width,height".
func ParseRegion(spec string) (*screenshot.Region, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid region %q: want left,top,width,height", spec)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid region %q: %v", spec, err)
		}
		vals[i] = n
	}
	region := &screenshot.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("invalid region %q: width and height must be positive", spec)
	}
	return region, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

func resolveAPIKey(opts LoadOptions, provider string) string {
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		return key
	}
	if provider == "openai" {
		return os.Getenv(OpenAIKeyEnvVar)
	}
	return os.Getenv(GeminiKeyEnvVar)
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func boolEnv(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}
