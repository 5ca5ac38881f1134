package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration value outside the recognized options.
var ErrInvalid = errors.New("invalid config")

// Config holds runtime configuration for a roster run.
type Config struct {
	InputPath  string        `yaml:"input_path"`
	OutputPath string        `yaml:"output_path"`
	ReportPath string        `yaml:"report_path"`
	Roster     RosterConfig  `yaml:"roster"`
	Export     ExportConfig  `yaml:"export"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Logging    LoggingConfig `yaml:"logging"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		InputPath:  envOrDefault(envInput, defaultInput),
		OutputPath: envOrDefault(envOutput, defaultOutput),
		ReportPath: envOrDefault(envReport, ""),
		Roster:     loadRoster(),
		Export:     loadExport(),
		Metrics:    loadMetrics(),
		Logging:    loadLogging(),
	}
}

// LoadFile overlays a YAML file on top of the environment configuration.
// Keys absent from the file keep their env/default values.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot act on.
func (c Config) Validate() error {
	switch c.Roster.Classification {
	case ClassificationLookup, ClassificationHeuristic, ClassificationAuto:
	default:
		return fmt.Errorf("%w: classification %q", ErrInvalid, c.Roster.Classification)
	}
	switch c.Roster.IDFormat {
	case IDFormatPadded, IDFormatPrefixed:
	default:
		return fmt.Errorf("%w: id format %q", ErrInvalid, c.Roster.IDFormat)
	}
	if c.Roster.DefaultBasePrice <= 0 {
		return fmt.Errorf("%w: default base price must be positive", ErrInvalid)
	}
	if c.Roster.MinFields < defaultMinFields {
		return fmt.Errorf("%w: min fields must be at least %d", ErrInvalid, defaultMinFields)
	}
	if c.InputPath == "" || c.OutputPath == "" {
		return fmt.Errorf("%w: input and output paths are required", ErrInvalid)
	}
	return nil
}

// EffectiveReportPath returns the report location, defaulting next to the output.
// An empty result means reporting is disabled.
func (c Config) EffectiveReportPath() string {
	if c.ReportPath == reportDisabled {
		return ""
	}
	if c.ReportPath != "" {
		return c.ReportPath
	}
	return c.OutputPath + ".report.json"
}
