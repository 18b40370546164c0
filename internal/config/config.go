package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bmicount/internal/bmi"
)

//go:embed schema.cue
var schemaCUE string

// DefaultLogLevel is used when log_level is absent.
const DefaultLogLevel = "info"

// Config is the bmicount configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// Bounds is the inclusive band counted by `bmicount count`.
	Bounds bmi.Bounds `yaml:"bounds" json:"bounds"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Database is the SQLite path where runs are recorded. Empty disables recording.
	Database string `yaml:"database" json:"database,omitempty"`

	// MetricsPath is where a Prometheus textfile is written after each run.
	// Empty disables export.
	MetricsPath string `yaml:"metrics_path" json:"metrics_path,omitempty"`
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Bounds:   bmi.DefaultBounds,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads and parses the YAML config file at path.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
